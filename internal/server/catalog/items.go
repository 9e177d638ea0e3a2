package catalog

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/intelshare/internal/common"
	"github.com/dmitrijs2005/intelshare/internal/models"
)

// ItemKind tells objects and attributes apart, their ids being separate.
type ItemKind string

const (
	KindObject    ItemKind = "object"
	KindAttribute ItemKind = "attribute"
)

func ParseItemKind(s string) (ItemKind, error) {
	switch k := ItemKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindObject, KindAttribute:
		return k, nil
	case "":
		return KindAttribute, nil
	}
	return "", fmt.Errorf("item kind %q: %w", s, common.ErrUnknownFlag)
}

// FindItem looks an object or attribute up in the object tree of e.
func FindItem(e *models.Event, kind ItemKind, id int64) (models.Item, error) {
	var found models.Item
	var walk func(objs []*models.Object) bool
	walk = func(objs []*models.Object) bool {
		for _, o := range objs {
			if kind == KindObject && o.ID == id {
				found = o
				return true
			}
			if kind == KindAttribute {
				for _, a := range o.Attributes {
					if a.ID == id {
						found = a
						return true
					}
				}
			}
			if walk(o.Children) {
				return true
			}
		}
		return false
	}

	if e == nil || !walk(e.Objects) {
		return nil, fmt.Errorf("%s %d: %w", kind, id, common.ErrorNotFound)
	}
	return found, nil
}

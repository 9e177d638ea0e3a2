package models

import (
	"github.com/dmitrijs2005/intelshare/internal/properties"
	"github.com/dmitrijs2005/intelshare/internal/tlp"
)

// GroupPermissions is the permission code of a group.
type GroupPermissions = properties.Bits[properties.GroupFlag]

// Group is an organisational unit. Groups form a forest through ParentID
// and Children.
type Group struct {
	ID          int64
	Name        string
	Description string
	ParentID    int64 // 0 for a root group
	TLP         tlp.Level
	Permissions GroupPermissions
	Children    []*Group
}

// ChildIDs returns the ids of the direct children.
func (g *Group) ChildIDs() []int64 {
	ids := make([]int64, 0, len(g.Children))
	for _, c := range g.Children {
		ids = append(ids, c.ID)
	}
	return ids
}

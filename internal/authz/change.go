package authz

import (
	"strings"

	"github.com/dmitrijs2005/intelshare/internal/models"
	"github.com/dmitrijs2005/intelshare/internal/properties"
)

// PropertyChange tells which guarded properties an update touches.
type PropertyChange struct {
	Validated bool
	Shared    bool
}

// ItemChange compares the codes of an object or attribute before and after
// an update.
func ItemChange(old, updated models.ItemProperties) PropertyChange {
	return PropertyChange{
		Validated: old.Has(properties.ItemValidated) != updated.Has(properties.ItemValidated),
		Shared:    old.Has(properties.ItemShareable) != updated.Has(properties.ItemShareable),
	}
}

// EventChange compares the codes of an event before and after an update.
func EventChange(old, updated models.EventProperties) PropertyChange {
	return PropertyChange{
		Validated: old.Has(properties.EventValidated) != updated.Has(properties.EventValidated),
		Shared:    old.Has(properties.EventShared) != updated.Has(properties.EventShared),
	}
}

func (c PropertyChange) String() string {
	var parts []string
	if c.Validated {
		parts = append(parts, "validated")
	}
	if c.Shared {
		parts = append(parts, "shared")
	}
	return strings.Join(parts, ",")
}

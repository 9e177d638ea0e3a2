package models

import (
	"github.com/dmitrijs2005/intelshare/internal/properties"
	"github.com/dmitrijs2005/intelshare/internal/tlp"
)

// ItemProperties is the flag code of an object or attribute.
type ItemProperties = properties.Bits[properties.ItemFlag]

// ItemMeta is the ownership and sharing state common to objects and
// attributes. Owner is the current custodian, creator the author and
// originating the group that first reported it.
type ItemMeta struct {
	OwnerGroupID       int64
	CreatorGroupID     int64
	OriginatingGroupID int64
	TLP                tlp.Level
	Properties         ItemProperties
}

// NewItemMeta returns the metadata of a freshly submitted item.
func NewItemMeta(groupID int64, level tlp.Level) ItemMeta {
	return ItemMeta{
		OwnerGroupID:       groupID,
		CreatorGroupID:     groupID,
		OriginatingGroupID: groupID,
		TLP:                level,
	}
}

// Item is anything that can be listed inside an event.
type Item interface {
	ItemID() int64
	// Meta returns false for composite items, which carry no TLP of their own.
	Meta() (ItemMeta, bool)
}

// Object is a structured observable. Objects form a tree inside an event.
type Object struct {
	ID             int64
	EventID        int64
	ParentObjectID int64 // 0 for a top level object
	Definition     string
	ItemMeta
	Attributes []*Attribute
	Children   []*Object
}

func (o *Object) ItemID() int64          { return o.ID }
func (o *Object) Meta() (ItemMeta, bool) { return o.ItemMeta, true }

// Attribute is a leaf value attached to one object.
type Attribute struct {
	ID         int64
	ObjectID   int64
	Definition string
	Value      string
	ItemMeta
}

func (a *Attribute) ItemID() int64          { return a.ID }
func (a *Attribute) Meta() (ItemMeta, bool) { return a.ItemMeta, true }

// Composition groups other items under a logical operator.
type Composition struct {
	ID       int64
	EventID  int64
	Operator string
	Items    []Item
}

func (c *Composition) ItemID() int64          { return c.ID }
func (c *Composition) Meta() (ItemMeta, bool) { return ItemMeta{}, false }

// Validated is a shorthand used when listing.
func (m ItemMeta) Validated() bool {
	return m.Properties.Has(properties.ItemValidated)
}

// Shareable reports whether the item may leave its owner group.
func (m ItemMeta) Shareable() bool {
	return m.Properties.Has(properties.ItemShareable)
}

package models

import (
	"testing"

	"github.com/dmitrijs2005/intelshare/internal/properties"
	"github.com/dmitrijs2005/intelshare/internal/tlp"
	"github.com/stretchr/testify/assert"
)

func TestAllCapabilities_CoversVocabulary(t *testing.T) {
	for _, c := range properties.Vocabulary[properties.Capability]() {
		assert.True(t, AllCapabilities.Has(c), "capability %s", c)
		assert.False(t, NoCapabilities.Has(c), "capability %s", c)
	}
}

func TestNewItemMeta_SameGroupEverywhere(t *testing.T) {
	m := NewItemMeta(7, tlp.Amber)
	assert.Equal(t, int64(7), m.OwnerGroupID)
	assert.Equal(t, int64(7), m.CreatorGroupID)
	assert.Equal(t, int64(7), m.OriginatingGroupID)
	assert.Equal(t, tlp.Amber, m.TLP)
	assert.False(t, m.Validated())
	assert.False(t, m.Shareable())
}

func TestItemInterface(t *testing.T) {
	var items []Item = []Item{
		&Object{ID: 1, ItemMeta: NewItemMeta(2, tlp.Red)},
		&Attribute{ID: 3},
		&Composition{ID: 4},
	}

	_, ok := items[0].Meta()
	assert.True(t, ok)
	_, ok = items[1].Meta()
	assert.True(t, ok)
	_, ok = items[2].Meta()
	assert.False(t, ok)
	assert.Equal(t, int64(4), items[2].ItemID())
}

func TestEventGrant(t *testing.T) {
	e := &Event{Groups: []EventGroupPermission{{EventID: 1, GroupID: 5, Permissions: AllCapabilities}}}

	g, ok := e.Grant(5)
	assert.True(t, ok)
	assert.Equal(t, AllCapabilities, g.Permissions)

	_, ok = e.Grant(6)
	assert.False(t, ok)
}

func TestUser_NilSafe(t *testing.T) {
	var u *User
	assert.False(t, u.HasGroup())
	assert.Equal(t, "anonymous", u.Name())

	u = &User{Username: "alice", Group: &Group{ID: 1}}
	assert.True(t, u.HasGroup())
	assert.Equal(t, "alice", u.Name())
}

func TestGroupChildIDs(t *testing.T) {
	g := &Group{ID: 1, Children: []*Group{{ID: 2}, {ID: 3}}}
	assert.Equal(t, []int64{2, 3}, g.ChildIDs())
}

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/intelshare/internal/common"
	"github.com/dmitrijs2005/intelshare/internal/dbx"
	"github.com/dmitrijs2005/intelshare/internal/models"
	"github.com/dmitrijs2005/intelshare/internal/properties"
	"github.com/dmitrijs2005/intelshare/internal/server/repositories/events"
	"github.com/dmitrijs2005/intelshare/internal/server/repositories/grants"
	"github.com/dmitrijs2005/intelshare/internal/server/repositories/groups"
	"github.com/dmitrijs2005/intelshare/internal/server/repositories/objects"
	"github.com/dmitrijs2005/intelshare/internal/server/repositories/users"
	"github.com/dmitrijs2005/intelshare/internal/tlp"
	"github.com/dmitrijs2005/intelshare/internal/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepos struct {
	groups  []*models.Group
	users   map[int64]*models.User
	events  map[int64]*models.Event
	grants  []models.EventGroupPermission
	objects []*models.Object
	attrs   []*models.Attribute
	err     error
}

func (f *fakeRepos) Users(dbx.DBTX) users.Repository     { return f }
func (f *fakeRepos) Objects(dbx.DBTX) objects.Repository { return f }
func (f *fakeRepos) Grants(dbx.DBTX) grants.Repository   { return f }

func (f *fakeRepos) GetByUsername(context.Context, string) (*users.Account, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeRepos) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepos) List(context.Context) ([]*models.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Group, len(f.groups))
	for i, g := range f.groups {
		cp := *g
		out[i] = &cp
	}
	return out, nil
}

type eventRepo struct{ *fakeRepos }

func (e eventRepo) GetByID(_ context.Context, id int64) (*models.Event, error) {
	ev, ok := e.events[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *ev
	return &cp, nil
}

type groupRepo struct{ *fakeRepos }

func (g groupRepo) GetByID(_ context.Context, id int64) (*models.Group, error) {
	for _, gr := range g.groups {
		if gr.ID == id {
			return gr, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRepos) Get(context.Context, int64, int64) (*models.EventGroupPermission, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeRepos) ListByEvent(context.Context, int64) ([]models.EventGroupPermission, error) {
	return f.grants, f.err
}

func (f *fakeRepos) Upsert(context.Context, models.EventGroupPermission) error { return nil }
func (f *fakeRepos) Delete(context.Context, int64, int64) error                { return nil }

func (f *fakeRepos) ListObjects(context.Context, int64) ([]*models.Object, error) {
	return f.objects, nil
}

func (f *fakeRepos) ListAttributes(context.Context, int64) ([]*models.Attribute, error) {
	return f.attrs, nil
}

// manager serves events and groups through wrappers, their GetByID
// signatures differing from the users one.
type manager struct{ *fakeRepos }

func (m manager) Events(dbx.DBTX) events.Repository { return eventRepo{m.fakeRepos} }
func (m manager) Groups(dbx.DBTX) groups.Repository { return groupRepo{m.fakeRepos} }

func TestLinkGroups(t *testing.T) {
	a := &models.Group{ID: 1, TLP: tlp.Red}
	b := &models.Group{ID: 2, ParentID: 1, TLP: tlp.Amber}
	c := &models.Group{ID: 3, ParentID: 2, TLP: tlp.White}
	orphan := &models.Group{ID: 4, ParentID: 99}
	self := &models.Group{ID: 5, ParentID: 5}

	byID := LinkGroups([]*models.Group{c, b, a, orphan, self})

	require.Len(t, byID, 5)
	assert.Equal(t, []*models.Group{b}, byID[1].Children)
	assert.Equal(t, []*models.Group{c}, byID[2].Children)
	assert.Empty(t, byID[4].Children)
	assert.Empty(t, byID[5].Children)
}

func TestLoadUser_AttachesGroupSubtree(t *testing.T) {
	repos := &fakeRepos{
		groups: []*models.Group{
			{ID: 1, TLP: tlp.Red, Permissions: models.GroupPermissions(0).With(properties.GroupPropagateTLP, true)},
			{ID: 2, ParentID: 1, TLP: tlp.Amber},
			{ID: 3, ParentID: 2, TLP: tlp.White},
		},
		users: map[int64]*models.User{
			7: {ID: 7, Username: "alice", GroupID: 1},
			8: {ID: 8, Username: "bob"},
		},
	}
	c := New(nil, manager{repos})

	u, err := c.LoadUser(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, u.Group)
	assert.Equal(t, int64(1), u.Group.ID)
	assert.Equal(t, tlp.White, visibility.MaxTLP(u.Group), "propagation sees the whole chain")

	u, err = c.LoadUser(context.Background(), 8)
	require.NoError(t, err)
	assert.False(t, u.HasGroup())

	_, err = c.LoadUser(context.Background(), 9)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLoadUser_GroupError(t *testing.T) {
	boom := errors.New("db down")
	repos := &fakeRepos{err: boom, users: map[int64]*models.User{7: {ID: 7, GroupID: 1}}}

	_, err := New(nil, manager{repos}).LoadUser(context.Background(), 7)
	assert.ErrorIs(t, err, boom)
}

func TestLoadEvent(t *testing.T) {
	repos := &fakeRepos{
		events: map[int64]*models.Event{10: {ID: 10, OwnerGroupID: 1}},
		grants: []models.EventGroupPermission{{EventID: 10, GroupID: 2, Permissions: 64}},
		objects: []*models.Object{
			{ID: 1, EventID: 10},
			{ID: 2, EventID: 10, ParentObjectID: 1},
			{ID: 3, EventID: 10, ParentObjectID: 42},
		},
		attrs: []*models.Attribute{
			{ID: 5, ObjectID: 2, Value: "evil.example"},
			{ID: 6, ObjectID: 77},
		},
	}
	c := New(nil, manager{repos})

	e, err := c.LoadEvent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, e.Groups, 1)
	require.Len(t, e.Objects, 2)
	assert.Equal(t, int64(1), e.Objects[0].ID)
	assert.Equal(t, int64(3), e.Objects[1].ID, "orphan object is top level")
	require.Len(t, e.Objects[0].Children, 1)
	assert.Equal(t, "evil.example", e.Objects[0].Children[0].Attributes[0].Value)

	item, err := FindItem(e, KindAttribute, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.ItemID())

	item, err = FindItem(e, KindObject, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), item.ItemID())

	_, err = FindItem(e, KindAttribute, 6)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = c.LoadEvent(context.Background(), 11)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestParseItemKind(t *testing.T) {
	k, err := ParseItemKind("Object")
	require.NoError(t, err)
	assert.Equal(t, KindObject, k)

	k, err = ParseItemKind("")
	require.NoError(t, err)
	assert.Equal(t, KindAttribute, k)

	_, err = ParseItemKind("composition")
	assert.Error(t, err)
}

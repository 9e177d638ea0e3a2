// Package catalog assembles fully populated entities from the repositories:
// users with their group subtree, and events with grants and the object
// tree. The decision engine only ever sees what catalog hands it.
package catalog

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/intelshare/internal/dbx"
	"github.com/dmitrijs2005/intelshare/internal/models"
	"github.com/dmitrijs2005/intelshare/internal/server/repositories/repomanager"
)

type Catalog struct {
	db    dbx.DBTX
	repos repomanager.RepositoryManager
}

func New(db dbx.DBTX, repos repomanager.RepositoryManager) *Catalog {
	return &Catalog{db: db, repos: repos}
}

// Groups returns every group keyed by id with Children linked.
func (c *Catalog) Groups(ctx context.Context) (map[int64]*models.Group, error) {
	list, err := c.repos.Groups(c.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	return LinkGroups(list), nil
}

// LinkGroups indexes groups by id and attaches each one to its parent.
// Groups whose parent is missing stay roots.
func LinkGroups(list []*models.Group) map[int64]*models.Group {
	byID := make(map[int64]*models.Group, len(list))
	for _, g := range list {
		g.Children = nil
		byID[g.ID] = g
	}
	for _, g := range list {
		if g.ParentID == 0 || g.ParentID == g.ID {
			continue
		}
		if parent, ok := byID[g.ParentID]; ok {
			parent.Children = append(parent.Children, g)
		}
	}
	return byID
}

// LoadUser returns the user with its group and the group's subtree.
func (c *Catalog) LoadUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := c.repos.Users(c.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	if err := c.attachGroup(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Catalog) attachGroup(ctx context.Context, u *models.User) error {
	if u.GroupID == 0 {
		return nil
	}
	groups, err := c.Groups(ctx)
	if err != nil {
		return err
	}
	u.Group = groups[u.GroupID]
	return nil
}

// LoadEvent returns the event with its grants and object tree.
func (c *Catalog) LoadEvent(ctx context.Context, id int64) (*models.Event, error) {
	e, err := c.repos.Events(c.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load event %d: %w", id, err)
	}

	e.Groups, err = c.repos.Grants(c.db).ListByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load grants of event %d: %w", id, err)
	}

	objs, err := c.repos.Objects(c.db).ListObjects(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load objects of event %d: %w", id, err)
	}
	attrs, err := c.repos.Objects(c.db).ListAttributes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load attributes of event %d: %w", id, err)
	}
	e.Objects = BuildObjectTree(objs, attrs)

	return e, nil
}

// BuildObjectTree links attributes to their objects and objects to their
// parents, returning the top level objects in input order. Objects whose
// parent is not in the list are treated as top level; attributes of unknown
// objects are dropped.
func BuildObjectTree(objs []*models.Object, attrs []*models.Attribute) []*models.Object {
	byID := make(map[int64]*models.Object, len(objs))
	for _, o := range objs {
		o.Children = nil
		o.Attributes = nil
		byID[o.ID] = o
	}
	for _, a := range attrs {
		if o, ok := byID[a.ObjectID]; ok {
			o.Attributes = append(o.Attributes, a)
		}
	}

	var roots []*models.Object
	for _, o := range objs {
		parent, ok := byID[o.ParentObjectID]
		if o.ParentObjectID == 0 || !ok || parent == o {
			roots = append(roots, o)
			continue
		}
		parent.Children = append(parent.Children, o)
	}
	return roots
}

// Package permissions resolves the capability set a user holds on an event
// and caches it per session.
package permissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/intelshare/internal/common"
	"github.com/dmitrijs2005/intelshare/internal/models"
	"github.com/dmitrijs2005/intelshare/internal/visibility"
)

// Store looks up stored event grants. It returns common.ErrorNotFound when
// the group has no grant on the event.
type Store interface {
	Get(ctx context.Context, eventID, groupID int64) (*models.EventGroupPermission, error)
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveGroup returns the capabilities of groupID on e. The owner group
// holds every capability; other groups hold their stored grant or nothing.
func (r *Resolver) ResolveGroup(ctx context.Context, e *models.Event, groupID int64) (models.Capabilities, error) {
	if e == nil {
		return models.NoCapabilities, fmt.Errorf("resolve permissions: event: %w", common.ErrorNotFound)
	}
	if e.OwnerGroupID == groupID {
		return models.AllCapabilities, nil
	}

	grant, err := r.store.Get(ctx, e.ID, groupID)
	if errors.Is(err, common.ErrorNotFound) {
		return models.NoCapabilities, nil
	}
	if err != nil {
		return models.NoCapabilities, err
	}
	return grant.Permissions, nil
}

// Resolve returns the capabilities of u on e.
func (r *Resolver) Resolve(ctx context.Context, e *models.Event, u *models.User) (models.Capabilities, error) {
	switch {
	case u == nil:
		return models.NoCapabilities, nil
	case visibility.IsUserPrivileged(u):
		return models.AllCapabilities, nil
	case !u.HasGroup():
		return models.NoCapabilities, nil
	}
	return r.ResolveGroup(ctx, e, u.Group.ID)
}

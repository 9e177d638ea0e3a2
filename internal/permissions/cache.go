package permissions

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/intelshare/internal/common"
	"github.com/dmitrijs2005/intelshare/internal/models"
	"github.com/dmitrijs2005/intelshare/internal/properties"
	"github.com/dmitrijs2005/intelshare/internal/session"
)

const cacheKeyPrefix = "event_permissions:"

// CacheKey is the session key holding the capabilities of an event.
func CacheKey(eventID int64) string {
	return cacheKeyPrefix + strconv.FormatInt(eventID, 10)
}

// Resolving is what Cache needs from a Resolver.
type Resolving interface {
	Resolve(ctx context.Context, e *models.Event, u *models.User) (models.Capabilities, error)
}

// Cache memoizes resolved capabilities in one session. Entries are never
// refreshed on their own; a grant change is seen only after Invalidate or a
// new session.
type Cache struct {
	store    session.Store
	resolver Resolving
}

func NewCache(store session.Store, resolver Resolving) *Cache {
	return &Cache{store: store, resolver: resolver}
}

// Get returns the cached capabilities of u on e, resolving them on the first
// call for the event.
func (c *Cache) Get(ctx context.Context, e *models.Event, u *models.User) (models.Capabilities, error) {
	if e == nil {
		return models.NoCapabilities, fmt.Errorf("permission cache: event: %w", common.ErrorNotFound)
	}
	key := CacheKey(e.ID)

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return models.NoCapabilities, fmt.Errorf("permission cache: %w", err)
	}
	if ok {
		caps, err := properties.Parse[properties.Capability](raw)
		if err == nil {
			return caps, nil
		}
		// unreadable entries are resolved again and overwritten
	}

	caps, err := c.resolver.Resolve(ctx, e, u)
	if err != nil {
		return models.NoCapabilities, err
	}
	if err := c.store.Put(ctx, key, strconv.FormatUint(caps.Code(), 10)); err != nil {
		return models.NoCapabilities, fmt.Errorf("permission cache: %w", err)
	}
	return caps, nil
}

// Invalidate drops the cached entry of one event.
func (c *Cache) Invalidate(ctx context.Context, eventID int64) error {
	if _, _, err := c.store.Pop(ctx, CacheKey(eventID)); err != nil {
		return fmt.Errorf("permission cache: %w", err)
	}
	return nil
}

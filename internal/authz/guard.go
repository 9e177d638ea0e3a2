// Package authz is the decision surface of the engine. A process-wide
// Service vends one Guard per session; the Guard answers every view,
// modify, delete, add, share and admin question and writes each decision to
// the audit sink before returning it.
package authz

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/intelshare/internal/audit"
	"github.com/dmitrijs2005/intelshare/internal/common"
	"github.com/dmitrijs2005/intelshare/internal/logging"
	"github.com/dmitrijs2005/intelshare/internal/models"
	"github.com/dmitrijs2005/intelshare/internal/permissions"
	"github.com/dmitrijs2005/intelshare/internal/properties"
	"github.com/dmitrijs2005/intelshare/internal/session"
	"github.com/dmitrijs2005/intelshare/internal/visibility"
)

type Service struct {
	resolver permissions.Resolving
	sessions session.Provider
	sink     audit.Sink
	log      logging.Logger
}

func NewService(resolver permissions.Resolving, sessions session.Provider, sink audit.Sink, log logging.Logger) *Service {
	return &Service{
		resolver: resolver,
		sessions: sessions,
		sink:     sink,
		log:      log.With("module", "authz"),
	}
}

// Guard returns the decision surface of one session.
func (s *Service) Guard(sessionID string) *Guard {
	return &Guard{
		sessionID: sessionID,
		cache:     permissions.NewCache(s.sessions.Open(sessionID), s.resolver),
		sink:      s.sink,
		log:       s.log.With("session", sessionID),
	}
}

type Guard struct {
	sessionID string
	cache     *permissions.Cache
	sink      audit.Sink
	log       logging.Logger
}

// Permissions returns the capabilities u holds on e, cached per session.
func (g *Guard) Permissions(ctx context.Context, e *models.Event, u *models.User) (models.Capabilities, error) {
	return g.cache.Get(ctx, e, u)
}

// InvalidateEventPermissions drops this session's cached capabilities of one
// event. Other sessions keep theirs.
func (g *Guard) InvalidateEventPermissions(ctx context.Context, eventID int64) error {
	if err := g.cache.Invalidate(ctx, eventID); err != nil {
		return err
	}
	g.log.Debug(ctx, "event permissions invalidated", "event_id", eventID)
	return nil
}

// CheckView allows when the event is visible to u or u's group holds
// can_view on it.
func (g *Guard) CheckView(ctx context.Context, e *models.Event, u *models.User) error {
	if e == nil {
		return fmt.Errorf("check view: %w", common.ErrorNotFound)
	}
	if visibility.IsEventViewableByUser(e, u) {
		return g.decide(ctx, ActionView, e.ID, 0, u, true, "visible")
	}
	return g.checkCapability(ctx, ActionView, e, u, properties.CanView)
}

// CheckModify allows the owner and holders of can_modify.
func (g *Guard) CheckModify(ctx context.Context, e *models.Event, u *models.User) error {
	return g.checkOwnerOr(ctx, ActionModify, e, u, properties.CanModify)
}

// CheckDelete allows the owner and holders of can_delete.
func (g *Guard) CheckDelete(ctx context.Context, e *models.Event, u *models.User) error {
	return g.checkOwnerOr(ctx, ActionDelete, e, u, properties.CanDelete)
}

// CheckAddContent allows the owner and holders of can_add or can_propose.
func (g *Guard) CheckAddContent(ctx context.Context, e *models.Event, u *models.User) error {
	return g.checkOwnerOr(ctx, ActionAdd, e, u, properties.CanAdd, properties.CanPropose)
}

// CheckSetGroups allows the owner and holders of set_groups.
func (g *Guard) CheckSetGroups(ctx context.Context, e *models.Event, u *models.User) error {
	return g.checkOwnerOr(ctx, ActionSetGroups, e, u, properties.SetGroups)
}

// CheckOwner allows only the event owner.
func (g *Guard) CheckOwner(ctx context.Context, e *models.Event, u *models.User) error {
	if e == nil {
		return fmt.Errorf("check owner: %w", common.ErrorNotFound)
	}
	if visibility.IsEventOwner(e, u) {
		return g.decide(ctx, ActionOwner, e.ID, 0, u, true, "owner")
	}
	return g.decide(ctx, ActionOwner, e.ID, 0, u, false, "not the owner")
}

// CheckAdmin allows privileged users.
func (g *Guard) CheckAdmin(ctx context.Context, u *models.User) error {
	if visibility.IsUserPrivileged(u) {
		return g.decide(ctx, ActionAdmin, 0, 0, u, true, "privileged")
	}
	return g.decide(ctx, ActionAdmin, 0, 0, u, false, "not privileged")
}

// CheckAdminValidate allows users carrying the validate flag.
func (g *Guard) CheckAdminValidate(ctx context.Context, u *models.User) error {
	if u != nil && u.Permissions.Has(properties.UserValidate) {
		return g.decide(ctx, ActionAdminValidate, 0, 0, u, true, "validate flag")
	}
	return g.decide(ctx, ActionAdminValidate, 0, 0, u, false, "no validate flag")
}

// CheckDownload allows privileged users and members of groups with
// can_download.
func (g *Guard) CheckDownload(ctx context.Context, u *models.User) error {
	if visibility.CanDownload(u) {
		return g.decide(ctx, ActionDownload, 0, 0, u, true, "")
	}
	return g.decide(ctx, ActionDownload, 0, 0, u, false, "group cannot download")
}

// CheckPropertyChange decides an update of the validated or shared property
// of the event (itemID 0) or one of its items. Changing validated needs
// can_validate; changing shared needs ownership of the event.
func (g *Guard) CheckPropertyChange(ctx context.Context, e *models.Event, u *models.User, itemID int64, change PropertyChange) error {
	if e == nil {
		return fmt.Errorf("check property change: %w", common.ErrorNotFound)
	}
	if change.Validated {
		caps, err := g.cache.Get(ctx, e, u)
		if err != nil {
			return err
		}
		if !caps.Has(properties.CanValidate) {
			return g.decide(ctx, ActionChangeProperty, e.ID, itemID, u, false, "validated requires can_validate")
		}
	}
	if change.Shared && !visibility.IsEventOwner(e, u) {
		return g.decide(ctx, ActionChangeProperty, e.ID, itemID, u, false, "shared requires ownership")
	}
	return g.decide(ctx, ActionChangeProperty, e.ID, itemID, u, true, change.String())
}

// IsItemVisible reports whether u may see one object or attribute of e.
func (g *Guard) IsItemVisible(ctx context.Context, item models.Item, e *models.Event, u *models.User) (bool, error) {
	if e == nil || item == nil {
		return false, fmt.Errorf("item visibility: %w", common.ErrorNotFound)
	}
	caps, err := g.cache.Get(ctx, e, u)
	if err != nil {
		return false, err
	}
	ok := visibility.IsItemViewable(item, caps, u)
	reason := ""
	if !ok {
		reason = "item not visible"
	}
	_ = g.decide(ctx, ActionView, e.ID, item.ItemID(), u, ok, reason)
	return ok, nil
}

// FilterObjects returns the object tree of e reduced to what u may see.
func (g *Guard) FilterObjects(ctx context.Context, e *models.Event, u *models.User) ([]*models.Object, error) {
	if e == nil {
		return nil, fmt.Errorf("filter objects: %w", common.ErrorNotFound)
	}
	caps, err := g.cache.Get(ctx, e, u)
	if err != nil {
		return nil, err
	}
	return visibility.VisibleObjects(e.Objects, caps, u), nil
}

func (g *Guard) checkOwnerOr(ctx context.Context, action Action, e *models.Event, u *models.User, caps ...properties.Capability) error {
	if e == nil {
		return fmt.Errorf("check %s: %w", action, common.ErrorNotFound)
	}
	if visibility.IsEventOwner(e, u) {
		return g.decide(ctx, action, e.ID, 0, u, true, "owner")
	}
	return g.checkCapability(ctx, action, e, u, caps...)
}

// checkCapability allows when u holds at least one of caps on e.
func (g *Guard) checkCapability(ctx context.Context, action Action, e *models.Event, u *models.User, caps ...properties.Capability) error {
	held, err := g.cache.Get(ctx, e, u)
	if err != nil {
		return err
	}
	for _, c := range caps {
		if held.Has(c) {
			return g.decide(ctx, action, e.ID, 0, u, true, c.String())
		}
	}
	return g.decide(ctx, action, e.ID, 0, u, false, "missing "+capNames(caps))
}

// decide audits the outcome and turns a denial into a *DeniedError.
func (g *Guard) decide(ctx context.Context, action Action, eventID, itemID int64, u *models.User, allowed bool, reason string) error {
	rec := audit.Record{
		SessionID: g.sessionID,
		Actor:     u.Name(),
		Action:    string(action),
		EventID:   eventID,
		ItemID:    itemID,
		Allowed:   allowed,
		Reason:    reason,
	}
	if u != nil {
		rec.UserID = u.ID
	}
	if err := g.sink.Write(ctx, rec); err != nil {
		g.log.Error(ctx, "audit write failed", "error", err, "action", action, "event_id", eventID)
	}

	if allowed {
		return nil
	}
	return &DeniedError{
		UserID:  rec.UserID,
		Actor:   rec.Actor,
		EventID: eventID,
		ItemID:  itemID,
		Action:  action,
		Reason:  reason,
	}
}

func capNames(caps []properties.Capability) string {
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = c.String()
	}
	return strings.Join(names, " or ")
}

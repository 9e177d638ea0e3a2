// Package grants changes per-event group grants. Every change is authorized
// with set_groups, runs in one transaction and drops the caller's cached
// permissions of the event once committed.
package grants

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/intelshare/internal/dbx"
	"github.com/dmitrijs2005/intelshare/internal/logging"
	"github.com/dmitrijs2005/intelshare/internal/models"
	"github.com/dmitrijs2005/intelshare/internal/server/repositories/repomanager"
)

// Guard is the part of authz.Guard grant changes need.
type Guard interface {
	CheckSetGroups(ctx context.Context, e *models.Event, u *models.User) error
	InvalidateEventPermissions(ctx context.Context, eventID int64) error
}

type Service struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	log   logging.Logger
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager, log logging.Logger) *Service {
	return &Service{db: db, repos: repos, log: log.With("module", "grants")}
}

// Get returns the stored grant of a group on an event.
func (s *Service) Get(ctx context.Context, eventID, groupID int64) (*models.EventGroupPermission, error) {
	return s.repos.Grants(s.db).Get(ctx, eventID, groupID)
}

// Grant stores caps as the grant of groupID on e, replacing any previous one.
func (s *Service) Grant(ctx context.Context, g Guard, e *models.Event, u *models.User, groupID int64, caps models.Capabilities) error {
	if err := g.CheckSetGroups(ctx, e, u); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Groups(tx).GetByID(ctx, groupID); err != nil {
			return fmt.Errorf("group %d: %w", groupID, err)
		}
		return s.repos.Grants(tx).Upsert(ctx, models.EventGroupPermission{
			EventID:     e.ID,
			GroupID:     groupID,
			Permissions: caps,
		})
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "grant stored", "event_id", e.ID, "group_id", groupID, "permissions", caps.String(), "by", u.Name())
	return g.InvalidateEventPermissions(ctx, e.ID)
}

// Revoke removes the grant of groupID on e.
func (s *Service) Revoke(ctx context.Context, g Guard, e *models.Event, u *models.User, groupID int64) error {
	if err := g.CheckSetGroups(ctx, e, u); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repos.Grants(tx).Delete(ctx, e.ID, groupID)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "grant removed", "event_id", e.ID, "group_id", groupID, "by", u.Name())
	return g.InvalidateEventPermissions(ctx, e.ID)
}

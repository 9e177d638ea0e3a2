package grants

import (
	"context"

	"github.com/dmitrijs2005/intelshare/internal/models"
)

// Repository stores per-event group grants. There is at most one grant per
// (event, group).
type Repository interface {
	Get(ctx context.Context, eventID, groupID int64) (*models.EventGroupPermission, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.EventGroupPermission, error)
	Upsert(ctx context.Context, p models.EventGroupPermission) error
	Delete(ctx context.Context, eventID, groupID int64) error
}

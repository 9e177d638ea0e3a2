package objects

import (
	"context"

	"github.com/dmitrijs2005/intelshare/internal/models"
)

// Repository reads the observables of an event as flat lists; parent links
// are carried in ParentObjectID and ObjectID.
type Repository interface {
	ListObjects(ctx context.Context, eventID int64) ([]*models.Object, error)
	ListAttributes(ctx context.Context, eventID int64) ([]*models.Attribute, error)
}

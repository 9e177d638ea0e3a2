package events

import (
	"context"

	"github.com/dmitrijs2005/intelshare/internal/models"
)

// Repository reads event headers. Objects and grants are loaded by their
// own repositories.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

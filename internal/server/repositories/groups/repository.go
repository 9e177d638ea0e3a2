package groups

import (
	"context"

	"github.com/dmitrijs2005/intelshare/internal/models"
)

// Repository reads groups. Children are not linked; see catalog for the
// assembled forest.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
}

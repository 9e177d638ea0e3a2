package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/intelshare/internal/common"
	"github.com/dmitrijs2005/intelshare/internal/dbx"
	"github.com/dmitrijs2005/intelshare/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query :=
		`SELECT id, title, description, owner_group_id, tlp, properties FROM events
		 WHERE id = $1
		 `

	e := &models.Event{}
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&e.ID, &e.Title, &description, &e.OwnerGroupID, &e.TLP, &e.Properties)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	e.Description = description.String
	return e, nil
}

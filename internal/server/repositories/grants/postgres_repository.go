package grants

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

func (r *PostgresRepository) Get(ctx context.Context, eventID, groupID int64) (*models.EventGroupPermission, error) {
	query :=
		`SELECT event_id, group_id, permissions FROM event_group_permissions
		 WHERE event_id = $1 AND group_id = $2
		 `

	p := &models.EventGroupPermission{}
	err := r.db.QueryRowContext(ctx, query, eventID, groupID).Scan(&p.EventID, &p.GroupID, &p.Permissions)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.EventGroupPermission, error) {
	query :=
		`SELECT event_id, group_id, permissions FROM event_group_permissions
		 WHERE event_id = $1
		 ORDER BY group_id
		 `

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.EventGroupPermission
	for rows.Next() {
		var p models.EventGroupPermission
		if err := rows.Scan(&p.EventID, &p.GroupID, &p.Permissions); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, p models.EventGroupPermission) error {
	query :=
		`INSERT INTO event_group_permissions (event_id, group_id, permissions)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (event_id, group_id) DO UPDATE SET permissions = EXCLUDED.permissions
		 `

	if _, err := r.db.ExecContext(ctx, query, p.EventID, p.GroupID, p.Permissions); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes a grant; a missing grant is common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, eventID, groupID int64) error {
	query :=
		`DELETE FROM event_group_permissions
		 WHERE event_id = $1 AND group_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, eventID, groupID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

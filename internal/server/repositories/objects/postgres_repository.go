package objects

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/intelshare/internal/dbx"
	"github.com/dmitrijs2005/intelshare/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListObjects(ctx context.Context, eventID int64) ([]*models.Object, error) {
	query :=
		`SELECT id, event_id, parent_object_id, definition,
		        owner_group_id, creator_group_id, originating_group_id, tlp, properties
		 FROM objects
		 WHERE event_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Object
	for rows.Next() {
		o := &models.Object{}
		var parent sql.NullInt64
		err := rows.Scan(&o.ID, &o.EventID, &parent, &o.Definition,
			&o.OwnerGroupID, &o.CreatorGroupID, &o.OriginatingGroupID, &o.TLP, &o.Properties)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		o.ParentObjectID = parent.Int64
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListAttributes(ctx context.Context, eventID int64) ([]*models.Attribute, error) {
	query :=
		`SELECT a.id, a.object_id, a.definition, a.value,
		        a.owner_group_id, a.creator_group_id, a.originating_group_id, a.tlp, a.properties
		 FROM attributes a
		 JOIN objects o ON o.id = a.object_id
		 WHERE o.event_id = $1
		 ORDER BY a.id
		 `

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Attribute
	for rows.Next() {
		a := &models.Attribute{}
		err := rows.Scan(&a.ID, &a.ObjectID, &a.Definition, &a.Value,
			&a.OwnerGroupID, &a.CreatorGroupID, &a.OriginatingGroupID, &a.TLP, &a.Properties)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

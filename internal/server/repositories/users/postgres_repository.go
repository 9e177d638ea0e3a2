package users

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

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*Account, error) {
	query :=
		`SELECT id, username, email, group_id, permissions, password_hash FROM users
		 WHERE username = $1
		 `

	a := &Account{}
	var email sql.NullString
	var groupID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&a.User.ID, &a.User.Username, &email, &groupID, &a.User.Permissions, &a.PasswordHash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.User.Email = email.String
	a.User.GroupID = groupID.Int64
	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, username, email, group_id, permissions FROM users
		 WHERE id = $1
		 `

	u := &models.User{}
	var email sql.NullString
	var groupID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Username, &email, &groupID, &u.Permissions)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	u.Email = email.String
	u.GroupID = groupID.Int64
	return u, nil
}

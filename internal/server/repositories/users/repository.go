package users

import (
	"context"

	"github.com/dmitrijs2005/intelshare/internal/models"
)

// Account is a stored user with its login secret.
type Account struct {
	User         models.User
	PasswordHash []byte
}

// Repository reads users. The Group field of returned users is not loaded.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

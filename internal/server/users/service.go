// Package users logs callers in and out. A login opens a fresh session whose
// store holds the caller's permission cache; logout destroys it, after which
// tokens issued for the session are rejected.
package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/intelshare/internal/common"
	"github.com/dmitrijs2005/intelshare/internal/logging"
	"github.com/dmitrijs2005/intelshare/internal/properties"
	"github.com/dmitrijs2005/intelshare/internal/server/auth"
	"github.com/dmitrijs2005/intelshare/internal/server/config"
	userrepo "github.com/dmitrijs2005/intelshare/internal/server/repositories/users"
	"github.com/dmitrijs2005/intelshare/internal/session"
)

// sessionUserKey marks a live session with the id of the user it belongs to.
const sessionUserKey = "user_id"

type Service struct {
	repo                        userrepo.Repository
	sessions                    session.Provider
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	log                         logging.Logger
}

func NewService(repo userrepo.Repository, sessions session.Provider, cfg *config.Config, log logging.Logger) *Service {
	return &Service{
		repo:                        repo,
		sessions:                    sessions,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		log:                         log.With("module", "users"),
	}
}

// Login checks the credentials and returns a token for a new session.
// Unknown users, wrong passwords and disabled users are all
// common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "login failed", "username", username, "reason", "unknown user")
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := auth.CheckPassword(account.PasswordHash, password); err != nil {
		s.log.Warn(ctx, "login failed", "username", username, "reason", "bad password")
		return "", common.ErrorUnauthorized
	}

	if account.User.Permissions.Has(properties.UserDisabled) {
		s.log.Warn(ctx, "login failed", "username", username, "reason", "disabled")
		return "", common.ErrorUnauthorized
	}

	sessionID := session.NewID()
	token, err := auth.GenerateToken(account.User.ID, sessionID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := s.sessions.Open(sessionID).Put(ctx, sessionUserKey, strconv.FormatInt(account.User.ID, 10)); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "login", "user_id", account.User.ID, "session", sessionID)
	return token, nil
}

// Active reports whether sessionID is still open for userID. A session that
// was logged out, expired or belongs to someone else is
// common.ErrorUnauthorized.
func (s *Service) Active(ctx context.Context, sessionID string, userID int64) error {
	v, ok, err := s.sessions.Open(sessionID).Get(ctx, sessionUserKey)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !ok || v != strconv.FormatInt(userID, 10) {
		return common.ErrorUnauthorized
	}
	return nil
}

// Logout destroys the session together with its permission cache.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info(ctx, "logout", "session", sessionID)
	return nil
}

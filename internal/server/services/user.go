// Package services contains server-side business logic. This file implements
// UserService: account creation, credential checks, session issuance and the
// session lookup behind every protected route.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/sessions"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// UserService owns the account and session lifecycle.
//
// db may be nil when the repository manager is the in-memory one; every
// repository call goes through repomanager so both modes share one code path.
type UserService struct {
	db                *sql.DB
	repomanager       repomanager.RepositoryManager
	sessions          sessions.Registry
	hasher            cryptox.PasswordHasher
	validate          *validator.Validate
	minPasswordLength int
	log               logging.Logger
	now               func() time.Time
}

// NewUserService constructs a UserService from its collaborators and the
// server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, reg sessions.Registry,
	hasher cryptox.PasswordHasher, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                db,
		repomanager:       m,
		sessions:          reg,
		hasher:            hasher,
		validate:          newValidator(),
		minPasswordLength: cfg.MinPasswordLength,
		log:               log.With("module", "users"),
		now:               time.Now,
	}
}

// Signup validates req, rejects duplicates and stores a new user with a
// hashed password. A username clash is reported before an email clash.
func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	if err := s.validateSignup(req); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	if err := s.ensureAbsent(ctx, repo.GetUserByLogin, req.Username, common.ErrDuplicateUsername); err != nil {
		return nil, err
	}
	if err := s.ensureAbsent(ctx, repo.GetUserByEmail, req.Email, common.ErrDuplicateEmail); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
		}
		s.log.Error(ctx, "error hashing password", "error", err)
		return nil, common.ErrorInternal
	}

	// the unique constraints decide when two signups race past the checks
	u, err := repo.Create(ctx, &models.User{UserName: req.Username, Email: req.Email, PasswordHash: digest})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) || errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		s.log.Error(ctx, "error creating user", "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "user signed up", "user_id", u.ID)
	return u, nil
}

func (s *UserService) ensureAbsent(ctx context.Context, lookup func(context.Context, string) (*models.User, error),
	key string, dup error) error {
	_, err := lookup(ctx, key)
	switch {
	case err == nil:
		return dup
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		s.log.Error(ctx, "error looking up user", "error", err)
		return common.ErrorInternal
	}
}

// Login checks the credentials and issues a new session. Every attempt is
// written to the login audit; a failed audit write is logged and does not
// change the result.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*sessions.Session, error) {
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.recordLogin(ctx, nil, req.RemoteAddr, false)
			return nil, common.ErrUserNotFound
		}
		s.log.Error(ctx, "error looking up user", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.recordLogin(ctx, &user.ID, req.RemoteAddr, false)
		return nil, common.ErrInvalidCredentials
	}

	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		s.log.Error(ctx, "error issuing session", "user_id", user.ID, "error", err)
		s.recordLogin(ctx, &user.ID, req.RemoteAddr, false)
		return nil, common.ErrorInternal
	}

	s.recordLogin(ctx, &user.ID, req.RemoteAddr, true)
	s.log.Info(ctx, "user logged in", "user_id", user.ID)
	return session, nil
}

func (s *UserService) recordLogin(ctx context.Context, userID *string, remoteAddr string, success bool) {
	rec := &models.LoginRecord{
		UserID:      userID,
		AttemptedAt: s.now().UTC(),
		RemoteAddr:  remoteAddr,
		Success:     success,
	}
	if err := s.repomanager.LoginRecords(s.db).Create(ctx, rec); err != nil {
		s.log.Error(ctx, "error writing login record", "error", err)
	}
}

// Authenticate resolves a bearer token to its session. Empty, unknown,
// invalidated and expired tokens all yield common.ErrorUnauthorized; the
// registry's reason stays in the chain.
func (s *UserService) Authenticate(ctx context.Context, token string) (*sessions.Session, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	session, err := s.sessions.Check(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
		}
		s.log.Error(ctx, "error checking session", "error", err)
		return nil, common.ErrorInternal
	}
	return session, nil
}

// Profile returns the user behind an authenticated session. A session whose
// account has since been deleted is treated as unauthorized.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "error loading profile", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

// LoginHistory returns the user's most recent login attempts, newest first.
// limit ≤ 0 means DefaultHistoryLimit; it is capped at MaxHistoryLimit.
func (s *UserService) LoginHistory(ctx context.Context, userID string, limit int) ([]models.LoginRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	recs, err := s.repomanager.LoginRecords(s.db).ListByUser(ctx, userID, limit)
	if err != nil {
		s.log.Error(ctx, "error listing login records", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return recs, nil
}

// Logout invalidates token. Logging out an unknown or already invalidated
// token succeeds.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return common.ErrorUnauthorized
	}
	if err := s.sessions.Invalidate(ctx, token); err != nil {
		s.log.Error(ctx, "error invalidating session", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// DeleteUser removes the account and its login records. With a database the
// two deletes share one transaction.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("error looking up user: %w", err)
	}

	del := func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.LoginRecords(tx).DeleteByUser(ctx, user.ID); err != nil {
			return fmt.Errorf("error deleting login records: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	}

	if s.db == nil {
		err = del(ctx, nil)
	} else {
		err = dbx.WithTx(ctx, s.db, nil, del)
	}
	if err != nil {
		return err
	}

	s.log.Info(ctx, "user deleted", "user_id", user.ID)
	return nil
}

// Ping reports whether the account store is reachable.
func (s *UserService) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

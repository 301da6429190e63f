// Package memory provides process-local implementations of the account and
// login-record stores. They enforce the same uniqueness rules as the
// PostgreSQL schema and are used when no database DSN is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]*models.User
	byUserName map[string]string
	byEmail    map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[string]*models.User),
		byUserName: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUserName[user.UserName]; ok {
		return nil, common.ErrDuplicateUsername
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrDuplicateEmail
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()

	stored := *user
	r.byID[stored.ID] = &stored
	r.byUserName[stored.UserName] = stored.ID
	r.byEmail[stored.Email] = stored.ID

	return user, nil
}

func (r *UserRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byUserName[userName])
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byEmail[email])
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(id)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byUserName, u.UserName)
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	return nil
}

// lookup returns a copy so callers cannot mutate stored rows.
func (r *UserRepository) lookup(id string) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

// Package loginrecords declares the login-attempt audit store.
package loginrecords

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository appends login attempts. Records are immutable once written.
type Repository interface {
	// Create stores rec and fills its ID.
	Create(ctx context.Context, rec *models.LoginRecord) error

	// ListByUser returns the most recent attempts for userID, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.LoginRecord, error)

	// DeleteByUser removes every record referencing userID. Only the
	// administrative account removal uses it.
	DeleteByUser(ctx context.Context, userID string) error
}

package models

import "time"

// LoginRecord is one login attempt. UserID is nil when the attempted
// username did not resolve to an account.
type LoginRecord struct {
	ID          string
	UserID      *string
	AttemptedAt time.Time
	RemoteAddr  string
	Success     bool
}

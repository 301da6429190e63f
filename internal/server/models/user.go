// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered principal. PasswordHash is an opaque digest and must
// never be logged or returned to clients.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

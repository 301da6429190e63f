// Package common contains shared constants and sentinel errors used across
// gophauth components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the opaque token in the Authorization header.
	BearerPrefix = "Bearer "

	// TokenSize is the number of random bytes in a session token.
	TokenSize = 32
)

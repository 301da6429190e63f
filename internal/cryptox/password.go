// Package cryptox implements one-way password hashing. Digests are
// self-describing strings (bcrypt modular crypt format or an argon2id PHC
// string), so a stored digest can always be verified regardless of which
// algorithm is currently configured.
package cryptox

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Supported algorithm names.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// ErrPasswordTooLong is returned by Hash when the plaintext exceeds what the
// algorithm can process without truncation.
var ErrPasswordTooLong = errors.New("password too long")

// PasswordHasher hashes and verifies plaintext passwords.
//
// Verify never returns an error: a malformed or foreign digest simply does
// not match.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// BcryptHasher implements password hashing via bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt-based hasher; a non-positive cost falls
// back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// MultiHasher hashes with a primary algorithm and verifies digests produced
// by any supported algorithm, dispatching on the digest prefix.
type MultiHasher struct {
	primary PasswordHasher
	bcrypt  PasswordHasher
	argon2  PasswordHasher
}

// NewPasswordHasher returns a MultiHasher whose Hash uses algorithm.
func NewPasswordHasher(algorithm string, bcryptCost int) (*MultiHasher, error) {
	m := &MultiHasher{
		bcrypt: NewBcryptHasher(bcryptCost),
		argon2: NewArgon2Hasher(DefaultArgon2Params),
	}

	switch strings.ToLower(algorithm) {
	case "", AlgorithmBcrypt:
		m.primary = m.bcrypt
	case AlgorithmArgon2id:
		m.primary = m.argon2
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm %q", algorithm)
	}

	return m, nil
}

func (m *MultiHasher) Hash(password string) (string, error) {
	return m.primary.Hash(password)
}

func (m *MultiHasher) Verify(password, digest string) bool {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		return m.argon2.Verify(password, digest)
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		return m.bcrypt.Verify(password, digest)
	default:
		return false
	}
}

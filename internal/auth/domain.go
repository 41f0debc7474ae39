// Package auth is the identity boundary. It verifies credentials and
// issues sessions; the only thing the rest of the application ever sees
// is the opaque owner identifier carried by the session.
package auth

import (
	"errors"
	"time"
)

// User represents an authenticated shop-owner account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// ErrInvalidCredentials indicates login failure. The same error covers
// unknown accounts, wrong passwords and disabled accounts.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

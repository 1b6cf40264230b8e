// Package models defines the server-side value types persisted by the
// repositories. Business logic operates on these plain values, never on a
// storage-bound object.
package models

import "time"

// User is a registered account. PasswordHash always holds a bcrypt hash;
// plaintext passwords never reach a repository. RefreshToken mirrors the
// currently valid refresh token and is nil unless a session is active.
type User struct {
	ID           string
	Username     string
	Name         string
	Email        string
	PasswordHash string
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

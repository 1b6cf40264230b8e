// Package users declares the server-side repository contract for durable
// user records, including the refresh-token mirror used for revocation.
package users

import (
	"context"

	"taskdesk/internal/server/models"
)

// Repository defines persistence operations over user records.
type Repository interface {
	// Create inserts a new user. The caller supplies the id and an already
	// hashed password.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByID returns the user with the given id, or common.ErrorNotFound.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail returns the user with the given email, or common.ErrorNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByEmailOrUsername returns a user matching either value. Used for
	// duplicate detection at registration.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)

	// SetRefreshToken overwrites the stored refresh-token mirror. A nil token
	// clears it (logout); a non-nil token replaces any prior value (login),
	// invalidating previously issued refresh tokens.
	SetRefreshToken(ctx context.Context, userID string, token *string) error

	// ReplaceRefreshToken swaps old for new only if old is still the stored
	// value. When the stored value differs (a concurrent rotation won, or the
	// session was revoked) it returns common.ErrorNotFound.
	ReplaceRefreshToken(ctx context.Context, userID, old, new string) error

	// UpdatePassword overwrites the stored password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

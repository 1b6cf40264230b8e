// Package otps declares the repository contract for short-lived one-time-code
// challenges issued during registration.
package otps

import (
	"context"
	"time"

	"taskdesk/internal/server/models"
)

// Repository defines persistence operations over OTP challenges. Expiry is a
// property of the store: lookups only see rows younger than maxAge, and
// DeleteExpired sweeps the rest.
type Repository interface {
	// Create inserts a new challenge.
	Create(ctx context.Context, challenge *models.OtpChallenge) error

	// FindByOtpOrEmail returns an unexpired challenge matching the given code
	// OR the given email. The OR is deliberate and mirrors the product's
	// registration contract; see the service tests. Returns
	// common.ErrorNotFound when nothing unexpired matches.
	FindByOtpOrEmail(ctx context.Context, otp, email string, maxAge time.Duration) (*models.OtpChallenge, error)

	// DeleteExpired removes challenges older than maxAge and reports how many
	// rows were swept.
	DeleteExpired(ctx context.Context, maxAge time.Duration) (int64, error)
}

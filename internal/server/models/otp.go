package models

import "time"

// OtpChallenge is a short-lived one-time code gating account creation.
// A challenge older than the configured validity window is unusable;
// expired rows are swept by the janitor rather than updated in place.
type OtpChallenge struct {
	ID        string
	Otp       string
	Email     string
	CreatedAt time.Time
}

// Package auth implements token issuing/parsing and password hashing for the
// server. Access, refresh, and password-reset tokens are HS256 JWTs signed
// with three distinct secrets, so possession of one kind never allows forging
// another.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskdesk/internal/common"
	"taskdesk/internal/server/models"
)

// AccessClaims are carried by short-lived access tokens.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// refreshClaims carry only the user id; everything else about the session
// lives server-side on the user record.
type refreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// resetClaims carry only the account email of a password-reset request.
type resetClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenManager issues and parses the three token kinds used by the service.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	resetSecret   []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTTL      time.Duration
}

// NewTokenManager constructs a TokenManager with per-kind secrets and lifetimes.
func NewTokenManager(accessSecret, refreshSecret, resetSecret []byte, accessTTL, refreshTTL, resetTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		resetSecret:   resetSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		resetTTL:      resetTTL,
	}
}

// IssueAccess mints an access token encoding the user's id, username, and email.
func (m *TokenManager) IssueAccess(user *models.User) (string, error) {
	claims := AccessClaims{
		RegisteredClaims: registeredClaims(m.accessTTL),
		UserID:           user.ID,
		Username:         user.Username,
		Email:            user.Email,
	}
	return sign(claims, m.accessSecret)
}

// IssueRefresh mints a refresh token encoding only the user id.
func (m *TokenManager) IssueRefresh(userID string) (string, error) {
	claims := refreshClaims{
		RegisteredClaims: registeredClaims(m.refreshTTL),
		UserID:           userID,
	}
	return sign(claims, m.refreshSecret)
}

// IssueReset mints a password-reset token embedding the account email.
func (m *TokenManager) IssueReset(email string) (string, error) {
	claims := resetClaims{
		RegisteredClaims: registeredClaims(m.resetTTL),
		Email:            email,
	}
	return sign(claims, m.resetSecret)
}

// ParseAccess validates signature and expiry and returns the access claims.
func (m *TokenManager) ParseAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parse(token, claims, m.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefresh validates signature and expiry and returns the embedded user id.
// The caller still has to compare the token against the stored mirror; parsing
// alone does not prove the token is the currently valid one.
func (m *TokenManager) ParseRefresh(token string) (string, error) {
	claims := &refreshClaims{}
	if err := parse(token, claims, m.refreshSecret); err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// ParseReset validates signature and expiry and returns the embedded email.
func (m *TokenManager) ParseReset(token string) (string, error) {
	claims := &resetClaims{}
	if err := parse(token, claims, m.resetSecret); err != nil {
		return "", err
	}
	return claims.Email, nil
}

func registeredClaims(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		// jti makes every token unique even within the same second,
		// which refresh rotation relies on
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return common.ErrInvalidToken
	}
	if !token.Valid {
		return common.ErrInvalidToken
	}
	return nil
}

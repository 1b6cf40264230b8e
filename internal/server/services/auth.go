// Package services contains server-side business logic. This file implements
// AuthService, which handles the two-phase OTP registration, login/logout,
// refresh-token rotation, and password recovery.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdesk/internal/common"
	"taskdesk/internal/dbx"
	"taskdesk/internal/logging"
	"taskdesk/internal/server/auth"
	"taskdesk/internal/server/config"
	"taskdesk/internal/server/models"
	"taskdesk/internal/server/notify"
	"taskdesk/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
// The two are always minted, set, and cleared together.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserView is the sanitized representation of a user returned to clients:
// no password hash, no refresh token.
type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username        string
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthService provides the identity and session lifecycle:
//   - RequestRegistration / CompleteRegistration: OTP-gated account creation
//   - Login / Logout: credential check and session teardown
//   - Refresh: refresh-token rotation with server-side revocation
//   - RequestPasswordReset / ResetPassword: stateless recovery tokens
type AuthService struct {
	db           *sql.DB
	repos        repomanager.RepositoryManager
	tokens       *auth.TokenManager
	notifier     notify.Notifier
	logger       logging.Logger
	otpValidity  time.Duration
	resetURLBase string
}

// NewAuthService constructs an AuthService using repositories, the token
// manager, and an injected mail capability.
func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, tokens *auth.TokenManager, notifier notify.Notifier, logger logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:           db,
		repos:        repos,
		tokens:       tokens,
		notifier:     notifier,
		logger:       logger.With("module", "auth_service"),
		otpValidity:  cfg.OtpValidityDuration,
		resetURLBase: cfg.ResetURLBase,
	}
}

// RequestRegistration validates the registration fields, refuses duplicate
// accounts, and mails a one-time code. It never creates the user; only
// CompleteRegistration does that, so an undeliverable address cannot leave an
// orphaned credential record behind.
func (s *AuthService) RequestRegistration(ctx context.Context, in RegisterInput) error {
	if anyBlank(in.Username, in.Name, in.Email, in.Password, in.ConfirmPassword) {
		return fmt.Errorf("%w: please provide all the details", common.ErrorValidation)
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if in.Password != in.ConfirmPassword {
		return fmt.Errorf("%w: password and confirmPassword don't match", common.ErrorValidation)
	}

	repo := s.repos.Users(s.db)
	if _, err := repo.FindByEmailOrUsername(ctx, in.Email, in.Username); err == nil {
		return fmt.Errorf("%w: user already exists with these details", common.ErrorAlreadyExists)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error checking existing user: %w", err)
	}

	otp, err := auth.GenerateOtp()
	if err != nil {
		return fmt.Errorf("error generating otp: %w", err)
	}

	challenge := &models.OtpChallenge{ID: uuid.NewString(), Otp: otp, Email: in.Email}
	if err := s.repos.Otps(s.db).Create(ctx, challenge); err != nil {
		return fmt.Errorf("error creating otp entry: %w", err)
	}

	body := fmt.Sprintf("Your otp for registering on taskdesk is %s", otp)
	if err := s.notifier.Send(ctx, in.Email, "Otp verification for taskdesk", body); err != nil {
		s.logger.Error(ctx, "otp mail delivery failed", "email", in.Email, "error", err)
		return fmt.Errorf("%w: unable to send otp mail", common.ErrorExternalService)
	}

	return nil
}

// CompleteRegistration verifies the one-time code and creates the account.
// The challenge lookup matches on code OR email, exactly as the registration
// contract specifies; the challenge row itself is left for the janitor.
func (s *AuthService) CompleteRegistration(ctx context.Context, in RegisterInput, otp string) (*UserView, error) {
	if _, err := s.repos.Otps(s.db).FindByOtpOrEmail(ctx, otp, in.Email, s.otpValidity); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: please register again", common.ErrInvalidOtp)
		}
		return nil, fmt.Errorf("error verifying otp: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(in.Username),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
	}
	created, err := s.repos.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%w: error creating user entry", common.ErrorInternal)
	}

	return sanitize(created), nil
}

// Login verifies the credentials and mints a fresh token pair. The refresh
// token overwrites any stored value, so each login invalidates every session
// issued before it: one active session per user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *UserView, error) {
	if anyBlank(email, password) {
		return nil, nil, fmt.Errorf("%w: please provide email and password to login", common.ErrorValidation)
	}
	if err := validateEmail(email); err != nil {
		return nil, nil, err
	}

	repo := s.repos.Users(s.db)
	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
		}
		return nil, nil, fmt.Errorf("error searching user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}
	if err := repo.SetRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return pair, sanitize(user), nil
}

// Logout clears the refresh-token mirror: every refresh token issued to the
// user so far fails verification afterwards, signature-valid or not.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.repos.Users(s.db).SetRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: no user found", common.ErrorUnauthorized)
		}
		return fmt.Errorf("error clearing refresh token: %w", err)
	}
	return nil
}

// Refresh rotates a refresh token: signature and expiry checks, then the
// stored-mirror equality check that makes revocation work, then a conditional
// swap so that of two concurrent rotations exactly one wins. The loser fails
// with an authentication error, limiting a leaked token to one use-window.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		user, err := repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: no user found for token", common.ErrorUnauthorized)
			}
			return fmt.Errorf("error searching user: %w", err)
		}
		if user.RefreshToken == nil ||
			subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(refreshToken)) != 1 {
			return fmt.Errorf("%w: kindly login to continue", common.ErrorUnauthorized)
		}

		pair, err = s.issuePair(user)
		if err != nil {
			return err
		}
		if err := repo.ReplaceRefreshToken(ctx, userID, refreshToken, pair.RefreshToken); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// a concurrent rotation won the swap
				return fmt.Errorf("%w: kindly login to continue", common.ErrorUnauthorized)
			}
			return fmt.Errorf("error rotating refresh token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// RequestPasswordReset mails a time-limited recovery link. The token is
// stateless: nothing about it is stored server-side.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if anyBlank(email) {
		return fmt.Errorf("%w: please provide the email to recover account", common.ErrorValidation)
	}

	if _, err := s.repos.Users(s.db).FindByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: no account found with this email", common.ErrorNotFound)
		}
		return fmt.Errorf("error searching user: %w", err)
	}

	token, err := s.tokens.IssueReset(email)
	if err != nil {
		return fmt.Errorf("error generating reset token: %w", err)
	}

	body := fmt.Sprintf("Click on the link to recover your password %s%s.", s.resetURLBase, token)
	if err := s.notifier.Send(ctx, email, "Account recovery for taskdesk", body); err != nil {
		s.logger.Error(ctx, "recovery mail delivery failed", "email", email, "error", err)
		return fmt.Errorf("%w: unable to send recovery mail", common.ErrorExternalService)
	}

	return nil
}

// ResetPassword verifies the recovery token and overwrites the password.
// The token carries no server-side state and is not marked used; it stays
// replayable until its expiry, which the tests document.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	if anyBlank(password, confirmPassword) {
		return fmt.Errorf("%w: please provide the password to recover account", common.ErrorValidation)
	}
	if password != confirmPassword {
		return fmt.Errorf("%w: password doesn't match with confirm password", common.ErrorValidation)
	}

	email, err := s.tokens.ParseReset(token)
	if err != nil {
		return err
	}

	repo := s.repos.Users(s.db)
	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: no account found with this email", common.ErrorNotFound)
		}
		return fmt.Errorf("error searching user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	return nil
}

// --- helpers below ---

func (s *AuthService) issuePair(user *models.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func sanitize(user *models.User) *UserView {
	return &UserView{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

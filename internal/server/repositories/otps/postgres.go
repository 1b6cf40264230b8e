package otps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskdesk/internal/common"
	"taskdesk/internal/dbx"
	"taskdesk/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, challenge *models.OtpChallenge) error {
	query := `
		INSERT INTO otps (id, otp, email)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, challenge.ID, challenge.Otp, challenge.Email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByOtpOrEmail(ctx context.Context, otp, email string, maxAge time.Duration) (*models.OtpChallenge, error) {
	query := `
		SELECT id, otp, email, created_at
		FROM otps
		WHERE (otp = $1 OR email = $2) AND created_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	cutoff := time.Now().Add(-maxAge)

	challenge := &models.OtpChallenge{}
	err := r.db.QueryRowContext(ctx, query, otp, email, cutoff).
		Scan(&challenge.ID, &challenge.Otp, &challenge.Email, &challenge.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return challenge, nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, maxAge time.Duration) (int64, error) {
	query := `DELETE FROM otps WHERE created_at <= $1`
	res, err := r.db.ExecContext(ctx, query, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

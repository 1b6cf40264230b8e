package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"taskdesk/internal/common"
	"taskdesk/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+users\s*\(id,\s*username,\s*name,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+created_at,\s*updated_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)
	mock.ExpectQuery(q).
		WithArgs("u-1", "alice", "Alice", "alice@example.com", "hash").
		WillReturnRows(rows)

	u := &models.User{ID: "u-1", Username: "alice", Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not populated: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{ID: "u-1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`

	token := "stored-refresh"
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "name", "email", "password_hash", "refresh_token", "created_at", "updated_at"}).
		AddRow("u-1", "alice", "Alice", "alice@example.com", "hash", token, now, now)
	mock.ExpectQuery(q).WithArgs("alice@example.com").WillReturnRows(rows)

	got, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.RefreshToken == nil || *got.RefreshToken != token {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+email`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindByEmailOrUsername_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s+OR\s+username\s*=\s*\$2\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "name", "email", "password_hash", "refresh_token", "created_at", "updated_at"}).
		AddRow("u-1", "alice", "Alice", "alice@example.com", "hash", nil, now, now)
	mock.ExpectQuery(q).WithArgs("other@example.com", "alice").WillReturnRows(rows)

	got, err := repo.FindByEmailOrUsername(context.Background(), "other@example.com", "alice")
	if err != nil {
		t.Fatalf("FindByEmailOrUsername error: %v", err)
	}
	if got.Username != "alice" || got.RefreshToken != nil {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestSetRefreshToken_ClearAndSet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+refresh_token\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s*$`

	token := "new-token"
	mock.ExpectExec(q).WithArgs("u-1", token).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.SetRefreshToken(context.Background(), "u-1", &token); err != nil {
		t.Fatalf("SetRefreshToken error: %v", err)
	}

	mock.ExpectExec(q).WithArgs("u-1", nil).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.SetRefreshToken(context.Background(), "u-1", nil); err != nil {
		t.Fatalf("SetRefreshToken clear error: %v", err)
	}
}

func TestSetRefreshToken_UnknownUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+refresh_token`).
		WithArgs("ghost", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetRefreshToken(context.Background(), "ghost", nil); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestReplaceRefreshToken_Swaps(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+users\s+SET\s+refresh_token\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+refresh_token\s*=\s*\$2\s*$`

	mock.ExpectExec(q).WithArgs("u-1", "old", "new").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.ReplaceRefreshToken(context.Background(), "u-1", "old", "new"); err != nil {
		t.Fatalf("ReplaceRefreshToken error: %v", err)
	}
}

// When the stored token already changed, the conditional update matches no
// row and the rotation loses.
func TestReplaceRefreshToken_StaleValue(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+refresh_token`).
		WithArgs("u-1", "stale", "new").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ReplaceRefreshToken(context.Background(), "u-1", "stale", "new")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs("u-1", "newhash").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.UpdatePassword(context.Background(), "u-1", "newhash"); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}

	mock.ExpectExec(q).WithArgs("ghost", "newhash").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.UpdatePassword(context.Background(), "ghost", "newhash"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

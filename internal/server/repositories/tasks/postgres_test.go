package tasks

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

func taskRows(id string, assignee *string) *sqlmock.Rows {
	var assigned any
	if assignee != nil {
		assigned = *assignee
	}
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "details", "start_date", "end_date",
		"assigned_to", "assigned_by", "status", "created_at", "updated_at",
	}).AddRow(id, "ship release", "cut and tag", now, now.Add(48*time.Hour),
		assigned, "u-1", "pending", now, now)
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+tasks\s*\(id,\s*name,\s*details,\s*start_date,\s*end_date,\s*assigned_to,\s*assigned_by,\s*status\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)\s*RETURNING\s+created_at,\s*updated_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)
	mock.ExpectQuery(q).
		WithArgs("t-1", "ship release", "cut and tag", sqlmock.AnyArg(), sqlmock.AnyArg(),
			nil, "u-1", models.TaskStatusPending).
		WillReturnRows(rows)

	task := &models.Task{
		ID: "t-1", Name: "ship release", Details: "cut and tag",
		StartDate: now, EndDate: now.Add(time.Hour),
		AssignedBy: "u-1", Status: models.TaskStatusPending,
	}
	got, err := repo.Create(context.Background(), task)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("timestamps not populated: %+v", got)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFind_NoFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+tasks\s+ORDER\s+BY\s+created_at\s+DESC\s*$`

	mock.ExpectQuery(q).WillReturnRows(taskRows("t-1", nil))

	got, err := repo.Find(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t-1" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

// Filter conditions are appended in declaration order with positional args.
func TestFind_CombinedFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+status\s*=\s*\$1\s+AND\s+start_date\s*>=\s*\$2\s+AND\s+end_date\s*<=\s*\$3\s+ORDER\s+BY\s+created_at\s+DESC\s*$`

	status := models.TaskStatusPending
	from := time.Now()
	to := from.Add(72 * time.Hour)
	mock.ExpectQuery(q).
		WithArgs(status, from, to).
		WillReturnRows(taskRows("t-1", nil))

	got, err := repo.Find(context.Background(), Filter{Status: &status, StartFrom: &from, EndTo: &to})
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestFind_ByAssignee(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+assigned_to\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s*$`

	assignee := "u-2"
	mock.ExpectQuery(q).WithArgs("u-2").WillReturnRows(taskRows("t-1", &assignee))

	got, err := repo.Find(context.Background(), Filter{AssignedTo: &assignee})
	if err != nil {
		t.Fatalf("Find error: %v", err)
	}
	if len(got) != 1 || got[0].AssignedTo == nil || *got[0].AssignedTo != "u-2" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

// Update only touches the supplied columns.
func TestUpdate_StatusOnly(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+tasks\s+SET\s+status\s*=\s*\$1,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$2\s+RETURNING\s+`

	status := models.TaskStatusCompleted
	mock.ExpectQuery(q).
		WithArgs(status, "t-1").
		WillReturnRows(taskRows("t-1", nil))

	got, err := repo.Update(context.Background(), "t-1", Change{Status: &status})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.ID != "t-1" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestUpdate_MultipleFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+tasks\s+SET\s+name\s*=\s*\$1,\s*details\s*=\s*\$2,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$3\s+RETURNING\s+`

	name := "ship hotfix"
	details := "revert and patch"
	mock.ExpectQuery(q).
		WithArgs(name, details, "t-1").
		WillReturnRows(taskRows("t-1", nil))

	if _, err := repo.Update(context.Background(), "t-1", Change{Name: &name, Details: &details}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

// An empty change degenerates to a plain read.
func TestUpdate_EmptyChange(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs("t-1").
		WillReturnRows(taskRows("t-1", nil))

	got, err := repo.Update(context.Background(), "t-1", Change{})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.ID != "t-1" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	status := models.TaskStatusCompleted
	mock.ExpectQuery(`UPDATE\s+tasks\s+SET`).
		WithArgs(status, "ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "ghost", Change{Status: &status})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs("t-1").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), "t-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(q).WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+tasks`).
		WillReturnError(errors.New("db down"))

	err := repo.Delete(context.Background(), "t-1")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

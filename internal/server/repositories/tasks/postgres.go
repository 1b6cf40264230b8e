package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

const taskColumns = `id, name, details, start_date, end_date, assigned_to, assigned_by, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(&task.ID, &task.Name, &task.Details, &task.StartDate, &task.EndDate,
		&task.AssignedTo, &task.AssignedBy, &task.Status, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		INSERT INTO tasks (id, name, details, start_date, end_date, assigned_to, assigned_by, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Name, task.Details, task.StartDate, task.EndDate,
		task.AssignedTo, task.AssignedBy, task.Status).
		Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Find(ctx context.Context, filter Filter) ([]*models.Task, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.StartFrom != nil {
		add("start_date >= $%d", *filter.StartFrom)
	}
	if filter.EndTo != nil {
		add("end_date <= $%d", *filter.EndTo)
	}
	if filter.AssignedTo != nil {
		add("assigned_to = $%d", *filter.AssignedTo)
	}
	if filter.AssignedBy != nil {
		add("assigned_by = $%d", *filter.AssignedBy)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update builds the SET clause from the supplied fields only, so concurrent
// updates touching disjoint fields do not clobber each other.
func (r *PostgresRepository) Update(ctx context.Context, id string, change Change) (*models.Task, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if change.Name != nil {
		set("name", *change.Name)
	}
	if change.Details != nil {
		set("details", *change.Details)
	}
	if change.StartDate != nil {
		set("start_date", *change.StartDate)
	}
	if change.EndDate != nil {
		set("end_date", *change.EndDate)
	}
	if change.AssignedTo != nil {
		set("assigned_to", *change.AssignedTo)
	}
	if change.Status != nil {
		set("status", *change.Status)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d RETURNING `+taskColumns,
		strings.Join(sets, ", "), len(args))

	return scanTask(r.db.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

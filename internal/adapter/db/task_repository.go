package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taskbot/internal/core/domain"
	"taskbot/internal/core/ports"
)

const taskColumns = `id, title, description, assignee_id, creator_id, status, due_at, completed_at,
  priority, progress_percent, estimated_hours, created_at, updated_at, version`

const insertTaskQuery = `
INSERT INTO tasks (` + taskColumns + `)
VALUES (:id, :title, :description, :assignee_id, :creator_id, :status, :due_at, :completed_at,
  :priority, :progress_percent, :estimated_hours, :created_at, :updated_at, 1)`

const updateTaskQuery = `
UPDATE tasks SET
  title = :title,
  description = :description,
  status = :status,
  due_at = :due_at,
  completed_at = :completed_at,
  priority = :priority,
  progress_percent = :progress_percent,
  estimated_hours = :estimated_hours,
  updated_at = :updated_at,
  version = version + 1
WHERE id = :id AND version = :version`

const openStatuses = `('pending', 'in_progress')`

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID              string          `db:"id"`
	Title           string          `db:"title"`
	Description     sql.NullString  `db:"description"`
	AssigneeID      string          `db:"assignee_id"`
	CreatorID       string          `db:"creator_id"`
	Status          string          `db:"status"`
	DueAt           sql.NullTime    `db:"due_at"`
	CompletedAt     sql.NullTime    `db:"completed_at"`
	Priority        int             `db:"priority"`
	ProgressPercent int             `db:"progress_percent"`
	EstimatedHours  sql.NullFloat64 `db:"estimated_hours"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
	Version         int             `db:"version"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Save inserts a new task (Version 0) or updates it only if the stored
// version still matches. Version is bumped on success.
func (r *TaskRepository) Save(ctx context.Context, task *domain.Task) error {
	row := mapDomainTaskToTaskRow(task)
	if task.Version == 0 {
		if _, err := r.db.NamedExecContext(ctx, insertTaskQuery, row); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		task.Version = 1
		return nil
	}

	result, err := r.db.NamedExecContext(ctx, updateTaskQuery, row)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrVersionConflict
	}
	task.Version++
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var row taskRow
	query := r.db.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task, err := mapTaskRowToDomainTask(row)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string, status *domain.TaskStatus) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE assignee_id = ?`
	args := []any{userID}
	if status != nil {
		query += ` AND status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at, id`
	return r.selectTasks(ctx, query, args...)
}

// ListDueToday returns open tasks due on now's calendar day, in now's location.
func (r *TaskRepository) ListDueToday(ctx context.Context, userID string, now time.Time) ([]domain.Task, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)
	query := `SELECT ` + taskColumns + ` FROM tasks
WHERE assignee_id = ? AND status IN ` + openStatuses + ` AND due_at >= ? AND due_at < ?
ORDER BY due_at, id`
	return r.selectTasks(ctx, query, userID, start.UTC(), end.UTC())
}

func (r *TaskRepository) ListOverdue(ctx context.Context, userID string, now time.Time) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
WHERE assignee_id = ? AND status IN ` + openStatuses + ` AND due_at < ?
ORDER BY due_at, id`
	return r.selectTasks(ctx, query, userID, now.UTC())
}

func (r *TaskRepository) selectTasks(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task, err := mapTaskRowToDomainTask(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func mapTaskRowToDomainTask(row taskRow) (domain.Task, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task row %q: %w", row.ID, err)
	}

	task := domain.Task{
		ID:              id,
		Title:           row.Title,
		AssigneeID:      row.AssigneeID,
		CreatorID:       row.CreatorID,
		Status:          domain.TaskStatus(row.Status),
		Priority:        row.Priority,
		ProgressPercent: row.ProgressPercent,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		Version:         row.Version,
	}

	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}

	if row.DueAt.Valid {
		value := row.DueAt.Time
		task.DueAt = &value
	}

	if row.CompletedAt.Valid {
		value := row.CompletedAt.Time
		task.CompletedAt = &value
	}

	if row.EstimatedHours.Valid {
		value := row.EstimatedHours.Float64
		task.EstimatedHours = &value
	}

	return task, nil
}

func mapDomainTaskToTaskRow(task *domain.Task) taskRow {
	row := taskRow{
		ID:              task.ID.String(),
		Title:           task.Title,
		AssigneeID:      task.AssigneeID,
		CreatorID:       task.CreatorID,
		Status:          string(task.Status),
		DueAt:           nullTime(task.DueAt),
		CompletedAt:     nullTime(task.CompletedAt),
		Priority:        task.Priority,
		ProgressPercent: task.ProgressPercent,
		CreatedAt:       task.CreatedAt.UTC(),
		UpdatedAt:       task.UpdatedAt.UTC(),
		Version:         task.Version,
	}
	if task.Description != nil {
		row.Description = sql.NullString{String: *task.Description, Valid: true}
	}
	if task.EstimatedHours != nil {
		row.EstimatedHours = sql.NullFloat64{Float64: *task.EstimatedHours, Valid: true}
	}
	return row
}

// nullTime stores instants in UTC so text-backed dialects compare them in order.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

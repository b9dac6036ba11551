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

const handoffColumns = `id, task_id, from_user_id, to_user_id, progress_note, next_steps, handoff_at,
  status, reminded_at, completed_at, created_at, version`

const insertHandoffQuery = `
INSERT INTO handoffs (` + handoffColumns + `)
VALUES (:id, :task_id, :from_user_id, :to_user_id, :progress_note, :next_steps, :handoff_at,
  :status, :reminded_at, :completed_at, :created_at, 1)`

const updateHandoffQuery = `
UPDATE handoffs SET
  status = :status,
  reminded_at = :reminded_at,
  completed_at = :completed_at,
  version = version + 1
WHERE id = :id AND version = :version`

type HandoffRepository struct {
	db *sqlx.DB
}

type handoffRow struct {
	ID           string         `db:"id"`
	TaskID       sql.NullString `db:"task_id"`
	FromUserID   string         `db:"from_user_id"`
	ToUserID     string         `db:"to_user_id"`
	ProgressNote string         `db:"progress_note"`
	NextSteps    string         `db:"next_steps"`
	HandoffAt    time.Time      `db:"handoff_at"`
	Status       string         `db:"status"`
	RemindedAt   sql.NullTime   `db:"reminded_at"`
	CompletedAt  sql.NullTime   `db:"completed_at"`
	CreatedAt    time.Time      `db:"created_at"`
	Version      int            `db:"version"`
}

var _ ports.HandoffRepository = (*HandoffRepository)(nil)

func NewHandoffRepository(db *sqlx.DB) *HandoffRepository {
	return &HandoffRepository{db: db}
}

// Save follows the same version check as TaskRepository.Save. Only the
// lifecycle columns change after insert.
func (r *HandoffRepository) Save(ctx context.Context, handoff *domain.Handoff) error {
	row := mapDomainHandoffToHandoffRow(handoff)
	if handoff.Version == 0 {
		if _, err := r.db.NamedExecContext(ctx, insertHandoffQuery, row); err != nil {
			return fmt.Errorf("insert handoff: %w", err)
		}
		handoff.Version = 1
		return nil
	}

	result, err := r.db.NamedExecContext(ctx, updateHandoffQuery, row)
	if err != nil {
		return fmt.Errorf("update handoff: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrVersionConflict
	}
	handoff.Version++
	return nil
}

func (r *HandoffRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Handoff, error) {
	var row handoffRow
	query := r.db.Rebind(`SELECT ` + handoffColumns + ` FROM handoffs WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHandoffNotFound
		}
		return nil, err
	}

	handoff, err := mapHandoffRowToDomainHandoff(row)
	if err != nil {
		return nil, err
	}
	return &handoff, nil
}

func (r *HandoffRepository) FindPendingByRecipient(ctx context.Context, userID string) ([]domain.Handoff, error) {
	return r.selectHandoffs(ctx, `SELECT `+handoffColumns+` FROM handoffs
WHERE to_user_id = ? AND status = 'pending'
ORDER BY handoff_at, id`, userID)
}

func (r *HandoffRepository) FindReminderCandidates(ctx context.Context, until time.Time) ([]domain.Handoff, error) {
	return r.selectHandoffs(ctx, `SELECT `+handoffColumns+` FROM handoffs
WHERE status <> 'completed' AND reminded_at IS NULL AND handoff_at <= ?
ORDER BY handoff_at, id`, until.UTC())
}

func (r *HandoffRepository) FindOverdueWithoutReminder(ctx context.Context, now time.Time) ([]domain.Handoff, error) {
	return r.selectHandoffs(ctx, `SELECT `+handoffColumns+` FROM handoffs
WHERE status <> 'completed' AND reminded_at IS NULL AND handoff_at < ?
ORDER BY handoff_at, id`, now.UTC())
}

func (r *HandoffRepository) selectHandoffs(ctx context.Context, query string, args ...any) ([]domain.Handoff, error) {
	var rows []handoffRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	handoffs := make([]domain.Handoff, 0, len(rows))
	for _, row := range rows {
		handoff, err := mapHandoffRowToDomainHandoff(row)
		if err != nil {
			return nil, err
		}
		handoffs = append(handoffs, handoff)
	}
	return handoffs, nil
}

func mapHandoffRowToDomainHandoff(row handoffRow) (domain.Handoff, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.Handoff{}, fmt.Errorf("handoff row %q: %w", row.ID, err)
	}

	handoff := domain.Handoff{
		ID:         id,
		FromUserID: row.FromUserID,
		ToUserID:   row.ToUserID,
		Content: domain.HandoffContent{
			ProgressNote: row.ProgressNote,
			NextSteps:    row.NextSteps,
		},
		HandoffAt: row.HandoffAt,
		Status:    domain.HandoffStatus(row.Status),
		CreatedAt: row.CreatedAt,
		Version:   row.Version,
	}

	if row.TaskID.Valid {
		taskID, err := uuid.Parse(row.TaskID.String)
		if err != nil {
			return domain.Handoff{}, fmt.Errorf("handoff %s task id: %w", row.ID, err)
		}
		handoff.TaskID = &taskID
	}

	if row.RemindedAt.Valid {
		value := row.RemindedAt.Time
		handoff.RemindedAt = &value
	}

	if row.CompletedAt.Valid {
		value := row.CompletedAt.Time
		handoff.CompletedAt = &value
	}

	return handoff, nil
}

func mapDomainHandoffToHandoffRow(handoff *domain.Handoff) handoffRow {
	row := handoffRow{
		ID:           handoff.ID.String(),
		FromUserID:   handoff.FromUserID,
		ToUserID:     handoff.ToUserID,
		ProgressNote: handoff.Content.ProgressNote,
		NextSteps:    handoff.Content.NextSteps,
		HandoffAt:    handoff.HandoffAt.UTC(),
		Status:       string(handoff.Status),
		RemindedAt:   nullTime(handoff.RemindedAt),
		CompletedAt:  nullTime(handoff.CompletedAt),
		CreatedAt:    handoff.CreatedAt.UTC(),
		Version:      handoff.Version,
	}
	if handoff.TaskID != nil {
		row.TaskID = sql.NullString{String: handoff.TaskID.String(), Valid: true}
	}
	return row
}

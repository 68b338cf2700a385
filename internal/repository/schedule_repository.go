package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/models"
)

// ScheduleRepository persists class schedule slots.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const listScheduleQuery = `
SELECT ss.id, ss.class_id, ss.teacher_id, ss.subject_id, ss.period_id, ss.day_of_week,
       ss.room_number, ss.academic_year, ss.is_active,
       t.full_name AS teacher_name, s.name AS subject_name
FROM schedule_slots ss
JOIN teachers t ON t.id = ss.teacher_id
JOIN subjects s ON s.id = ss.subject_id
WHERE ss.class_id = $1 AND ss.academic_year = $2 AND ss.is_active = TRUE
ORDER BY ss.day_of_week ASC, ss.period_id ASC`

// ListByClassYear returns the active slots for one class and academic year
// with display names joined in.
func (r *ScheduleRepository) ListByClassYear(ctx context.Context, classID, academicYear string) ([]models.ScheduleSlot, error) {
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, listScheduleQuery, classID, academicYear); err != nil {
		return nil, fmt.Errorf("list schedule slots: %w", err)
	}
	return slots, nil
}

// SaveBatch applies the operation list in one transaction: inserts for
// operations without identity, updates otherwise, soft-deletes when the
// operation is inactive. It returns the refreshed slot list for the scope.
func (r *ScheduleRepository) SaveBatch(ctx context.Context, classID, academicYear string, ops []models.ScheduleOperation) ([]models.ScheduleSlot, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin schedule batch: %w", err)
	}

	now := time.Now().UTC()
	for _, op := range ops {
		if err := applyScheduleOperation(ctx, tx, op, now); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit schedule batch: %w", err)
	}

	return r.ListByClassYear(ctx, classID, academicYear)
}

func applyScheduleOperation(ctx context.Context, tx *sqlx.Tx, op models.ScheduleOperation, now time.Time) error {
	if op.ID == "" {
		const insert = `INSERT INTO schedule_slots
(id, class_id, teacher_id, subject_id, period_id, day_of_week, room_number, academic_year, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`
		if _, err := tx.ExecContext(ctx, insert,
			uuid.NewString(), op.ClassID, op.TeacherID, op.SubjectID, op.PeriodID,
			op.DayOfWeek, op.RoomNumber, op.AcademicYear, op.IsActive, now); err != nil {
			return fmt.Errorf("insert schedule slot: %w", err)
		}
		return nil
	}

	if !op.IsActive {
		const deactivate = `UPDATE schedule_slots SET is_active = FALSE, updated_at = $2 WHERE id = $1`
		result, err := tx.ExecContext(ctx, deactivate, op.ID, now)
		if err != nil {
			return fmt.Errorf("deactivate schedule slot: %w", err)
		}
		return ensureRowAffected(result, "deactivate schedule slot")
	}

	const update = `UPDATE schedule_slots
SET teacher_id = $2, subject_id = $3, period_id = $4, day_of_week = $5, room_number = $6, is_active = TRUE, updated_at = $7
WHERE id = $1`
	result, err := tx.ExecContext(ctx, update,
		op.ID, op.TeacherID, op.SubjectID, op.PeriodID, op.DayOfWeek, op.RoomNumber, now)
	if err != nil {
		return fmt.Errorf("update schedule slot: %w", err)
	}
	return ensureRowAffected(result, "update schedule slot")
}

func ensureRowAffected(result sql.Result, action string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", action, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

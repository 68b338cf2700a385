package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/models"
)

// TeacherAssignmentRepository persists each teacher's subject, grade-level,
// and class assignments.
type TeacherAssignmentRepository struct {
	db *sqlx.DB
}

// NewTeacherAssignmentRepository constructs the repository.
func NewTeacherAssignmentRepository(db *sqlx.DB) *TeacherAssignmentRepository {
	return &TeacherAssignmentRepository{db: db}
}

// FetchState returns a teacher's full assignment baseline.
func (r *TeacherAssignmentRepository) FetchState(ctx context.Context, teacherID string) (models.AssignmentState, error) {
	state := models.NewAssignmentState()

	const subjectsQuery = `SELECT subject_id FROM teacher_subjects WHERE teacher_id = $1 ORDER BY subject_id ASC`
	if err := r.db.SelectContext(ctx, &state.Subjects, subjectsQuery, teacherID); err != nil {
		return models.AssignmentState{}, fmt.Errorf("fetch teacher subjects: %w", err)
	}

	const gradesQuery = `SELECT grade_level FROM teacher_grade_levels WHERE teacher_id = $1 ORDER BY grade_level ASC`
	if err := r.db.SelectContext(ctx, &state.GradeLevels, gradesQuery, teacherID); err != nil {
		return models.AssignmentState{}, fmt.Errorf("fetch teacher grade levels: %w", err)
	}

	const classesQuery = `SELECT grade_level, class_id FROM teacher_classes WHERE teacher_id = $1 ORDER BY grade_level ASC, class_id ASC`
	var rows []struct {
		GradeLevel string `db:"grade_level"`
		ClassID    string `db:"class_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, classesQuery, teacherID); err != nil {
		return models.AssignmentState{}, fmt.Errorf("fetch teacher classes: %w", err)
	}
	for _, row := range rows {
		state.Classes[row.GradeLevel] = append(state.Classes[row.GradeLevel], row.ClassID)
	}

	return state, nil
}

// SaveUnits replaces every included teacher's assignment set in one
// transaction. Either all units are applied or none are.
func (r *TeacherAssignmentRepository) SaveUnits(ctx context.Context, units []models.AssignmentUnit) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assignment batch: %w", err)
	}

	now := time.Now().UTC()
	for _, unit := range units {
		if err := replaceTeacherAssignments(ctx, tx, unit, now); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assignment batch: %w", err)
	}
	return nil
}

func replaceTeacherAssignments(ctx context.Context, tx *sqlx.Tx, unit models.AssignmentUnit, now time.Time) error {
	for _, table := range []string{"teacher_subjects", "teacher_grade_levels", "teacher_classes"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE teacher_id = $1", table), unit.TeacherID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	const insertSubject = `INSERT INTO teacher_subjects (id, teacher_id, subject_id, created_at) VALUES ($1, $2, $3, $4)`
	for _, subjectID := range unit.Subjects {
		if _, err := tx.ExecContext(ctx, insertSubject, uuid.NewString(), unit.TeacherID, subjectID, now); err != nil {
			return fmt.Errorf("insert teacher subject: %w", err)
		}
	}

	const insertGrade = `INSERT INTO teacher_grade_levels (id, teacher_id, grade_level, created_at) VALUES ($1, $2, $3, $4)`
	for _, grade := range unit.GradeLevels {
		if _, err := tx.ExecContext(ctx, insertGrade, uuid.NewString(), unit.TeacherID, grade, now); err != nil {
			return fmt.Errorf("insert teacher grade level: %w", err)
		}
	}

	const insertClass = `INSERT INTO teacher_classes (id, teacher_id, grade_level, class_id, created_at) VALUES ($1, $2, $3, $4, $5)`
	for grade, classIDs := range unit.Classes {
		for _, classID := range classIDs {
			if _, err := tx.ExecContext(ctx, insertClass, uuid.NewString(), unit.TeacherID, grade, classID, now); err != nil {
				return fmt.Errorf("insert teacher class: %w", err)
			}
		}
	}

	return nil
}

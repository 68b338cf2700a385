package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/models"
)

// ReferenceRepository serves read-mostly reference lookups for the editors.
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository constructs the repository.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

const candidatesQuery = `
SELECT ts.teacher_id, ts.subject_id, s.name AS subject_name, tgl.grade_level
FROM teacher_subjects ts
JOIN subjects s ON s.id = ts.subject_id
JOIN teacher_grade_levels tgl ON tgl.teacher_id = ts.teacher_id
WHERE ts.teacher_id = $1
ORDER BY s.name ASC, tgl.grade_level ASC`

// ListCandidatesByTeacher returns the subject/grade combinations a teacher is
// qualified to take.
func (r *ReferenceRepository) ListCandidatesByTeacher(ctx context.Context, teacherID string) ([]models.AssignmentCandidate, error) {
	var candidates []models.AssignmentCandidate
	if err := r.db.SelectContext(ctx, &candidates, candidatesQuery, teacherID); err != nil {
		return nil, fmt.Errorf("list assignment candidates: %w", err)
	}
	return candidates, nil
}

const rosterQuery = `SELECT id, name, grade_level FROM classes ORDER BY grade_level ASC, name ASC`

// ClassesByGrade returns the global class roster grouped by grade level.
func (r *ReferenceRepository) ClassesByGrade(ctx context.Context) (map[string][]models.ClassOption, error) {
	var classes []models.ClassOption
	if err := r.db.SelectContext(ctx, &classes, rosterQuery); err != nil {
		return nil, fmt.Errorf("list class roster: %w", err)
	}

	out := make(map[string][]models.ClassOption, len(classes))
	for _, class := range classes {
		out[class.GradeLevel] = append(out[class.GradeLevel], class)
	}
	return out, nil
}

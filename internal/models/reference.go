package models

// AssignmentCandidate describes one subject a teacher is qualified to take,
// used to derive selectable subjects in the schedule editor.
type AssignmentCandidate struct {
	TeacherID   string `db:"teacher_id" json:"teacher_id"`
	SubjectID   string `db:"subject_id" json:"subject_id"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	GradeLevel  string `db:"grade_level" json:"grade_level"`
}

// ClassOption is one selectable class in the global roster.
type ClassOption struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	GradeLevel string `db:"grade_level" json:"grade_level"`
}

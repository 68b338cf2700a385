package models

import "strings"

// ScheduleSlot is the display-shaped schedule entity as last confirmed
// persisted. TeacherName and SubjectName are denormalized for rendering and
// are never sent back on publish; the persistence shape is ScheduleOperation.
type ScheduleSlot struct {
	ID           string `db:"id" json:"id"`
	ClassID      string `db:"class_id" json:"class_id"`
	TeacherID    string `db:"teacher_id" json:"teacher_id"`
	SubjectID    string `db:"subject_id" json:"subject_id"`
	PeriodID     string `db:"period_id" json:"period_id"`
	DayOfWeek    string `db:"day_of_week" json:"day_of_week"`
	RoomNumber   string `db:"room_number" json:"room_number,omitempty"`
	AcademicYear string `db:"academic_year" json:"academic_year"`
	IsActive     bool   `db:"is_active" json:"is_active"`
	TeacherName  string `db:"teacher_name" json:"teacher_name,omitempty"`
	SubjectName  string `db:"subject_name" json:"subject_name,omitempty"`
}

// Key returns the slot identity within one class/year scope.
func (s ScheduleSlot) Key() string {
	return SlotKey(s.DayOfWeek, s.PeriodID)
}

// ToOperation maps the display shape onto the persistence shape, dropping the
// denormalized display fields structurally rather than by key omission.
func (s ScheduleSlot) ToOperation() ScheduleOperation {
	return ScheduleOperation{
		ID:           s.ID,
		ClassID:      s.ClassID,
		TeacherID:    s.TeacherID,
		SubjectID:    s.SubjectID,
		PeriodID:     s.PeriodID,
		DayOfWeek:    s.DayOfWeek,
		RoomNumber:   s.RoomNumber,
		AcademicYear: s.AcademicYear,
		IsActive:     s.IsActive,
	}
}

// ScheduleOperation is the persistence payload for one slot. ID is empty for
// creations and serialized only when present; the persistence layer
// distinguishes create from update by its absence.
type ScheduleOperation struct {
	ID           string `json:"id,omitempty" db:"id"`
	ClassID      string `json:"class_id" db:"class_id" validate:"required"`
	TeacherID    string `json:"teacher_id" db:"teacher_id" validate:"required"`
	SubjectID    string `json:"subject_id" db:"subject_id" validate:"required"`
	PeriodID     string `json:"period_id" db:"period_id" validate:"required"`
	DayOfWeek    string `json:"day_of_week" db:"day_of_week" validate:"required"`
	RoomNumber   string `json:"room_number,omitempty" db:"room_number"`
	AcademicYear string `json:"academic_year" db:"academic_year" validate:"required"`
	IsActive     bool   `json:"is_active" db:"is_active"`
}

// Complete reports whether the operation carries both a teacher and a subject.
// Incomplete slots are never eligible for publishing.
func (op ScheduleOperation) Complete() bool {
	return op.TeacherID != "" && op.SubjectID != ""
}

// SlotKey builds the composite identifier for a schedule cell.
func SlotKey(dayOfWeek, periodID string) string {
	return strings.ToUpper(dayOfWeek) + "|" + periodID
}

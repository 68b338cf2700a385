package dto

// StageSlotRequest stages a create or update for one schedule cell.
type StageSlotRequest struct {
	DayOfWeek  string `json:"day_of_week" binding:"required"`
	PeriodID   string `json:"period_id" binding:"required"`
	TeacherID  string `json:"teacher_id" binding:"required"`
	SubjectID  string `json:"subject_id" binding:"required"`
	RoomNumber string `json:"room_number"`
}

// SlotRefRequest addresses one schedule cell.
type SlotRefRequest struct {
	DayOfWeek string `json:"day_of_week" binding:"required"`
	PeriodID  string `json:"period_id" binding:"required"`
}

// SetSubjectsRequest replaces a teacher's drafted subject set.
type SetSubjectsRequest struct {
	Subjects []string `json:"subjects"`
}

// SetGradeLevelsRequest replaces a teacher's drafted grade-level set.
type SetGradeLevelsRequest struct {
	GradeLevels []string `json:"grade_levels"`
}

// SetClassesRequest replaces the class selection for one grade level.
type SetClassesRequest struct {
	ClassIDs []string `json:"class_ids"`
}

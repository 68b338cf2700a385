package draft

import (
	appErrors "github.com/Harati-Ahmed/My-School-platform-sub000/pkg/errors"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/models"
)

// AssignmentDraft stages one teacher's subject/grade/class assignments
// against an immutable initial snapshot. Dirtiness is decided by comparing
// values, never edit history: staging and then undoing an edit leaves the
// draft clean.
type AssignmentDraft struct {
	teacherID string
	initial   models.AssignmentState
	state     models.AssignmentState
}

// NewAssignmentDraft snapshots the baseline and opens an editable copy.
func NewAssignmentDraft(teacherID string, baseline models.AssignmentState) *AssignmentDraft {
	initial := baseline.Clone()
	if initial.Classes == nil {
		initial.Classes = make(map[string][]string)
	}
	return &AssignmentDraft{
		teacherID: teacherID,
		initial:   initial,
		state:     initial.Clone(),
	}
}

// TeacherID identifies the draft's scope.
func (d *AssignmentDraft) TeacherID() string {
	return d.teacherID
}

// State returns a copy of the current draft values.
func (d *AssignmentDraft) State() models.AssignmentState {
	return d.state.Clone()
}

// Initial returns a copy of the baseline snapshot.
func (d *AssignmentDraft) Initial() models.AssignmentState {
	return d.initial.Clone()
}

// SetSubjects replaces the drafted subject set.
func (d *AssignmentDraft) SetSubjects(subjects []string) {
	d.state.Subjects = dedupe(subjects)
}

// SetGradeLevels replaces the drafted grade-level set. Removing a grade level
// cascades to drop all of its class selections; re-adding it later starts
// with an empty class list.
func (d *AssignmentDraft) SetGradeLevels(gradeLevels []string) {
	next := dedupe(gradeLevels)
	selected := make(map[string]struct{}, len(next))
	for _, grade := range next {
		selected[grade] = struct{}{}
	}
	for grade := range d.state.Classes {
		if _, ok := selected[grade]; !ok {
			delete(d.state.Classes, grade)
		}
	}
	d.state.GradeLevels = next
}

// SetClasses replaces the class selection for one grade level. The grade must
// already be selected.
func (d *AssignmentDraft) SetClasses(gradeLevel string, classIDs []string) error {
	found := false
	for _, grade := range d.state.GradeLevels {
		if grade == gradeLevel {
			found = true
			break
		}
	}
	if !found {
		return appErrors.Clone(appErrors.ErrGradeNotSelected, "cannot select classes for grade "+gradeLevel)
	}
	if len(classIDs) == 0 {
		delete(d.state.Classes, gradeLevel)
		return nil
	}
	d.state.Classes[gradeLevel] = dedupe(classIDs)
	return nil
}

// Dirty reports whether the draft differs from the initial snapshot.
func (d *AssignmentDraft) Dirty() bool {
	return !d.state.Equal(d.initial)
}

// Reset discards all staged edits, restoring the initial snapshot.
func (d *AssignmentDraft) Reset() {
	d.state = d.initial.Clone()
}

// Commit folds the draft into the baseline after a successful publish; the
// current values become the new initial snapshot.
func (d *AssignmentDraft) Commit() {
	d.initial = d.state.Clone()
}

// Unit shapes the draft for publishing: the full resulting state for the
// teacher, pruned of any class selection whose grade is no longer selected.
// Pruned grades are returned so the caller can flag the integrity violation.
func (d *AssignmentDraft) Unit() (models.AssignmentUnit, []string) {
	state := d.state.Clone()
	orphans := state.OrphanedClassGrades()
	for _, grade := range orphans {
		delete(state.Classes, grade)
	}
	return models.AssignmentUnit{
		TeacherID:   d.teacherID,
		Subjects:    state.Subjects,
		GradeLevels: state.GradeLevels,
		Classes:     state.Classes,
	}, orphans
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

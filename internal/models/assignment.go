package models

import "sort"

// AssignmentState holds one teacher's subject, grade-level, and class
// assignments. Classes are keyed by grade level; a class may only appear under
// a grade level that is itself selected.
type AssignmentState struct {
	Subjects    []string            `json:"subjects"`
	GradeLevels []string            `json:"grade_levels"`
	Classes     map[string][]string `json:"classes"`
}

// NewAssignmentState returns an empty state with a non-nil class map.
func NewAssignmentState() AssignmentState {
	return AssignmentState{Classes: make(map[string][]string)}
}

// Clone returns a deep copy.
func (s AssignmentState) Clone() AssignmentState {
	out := AssignmentState{
		Subjects:    append([]string(nil), s.Subjects...),
		GradeLevels: append([]string(nil), s.GradeLevels...),
		Classes:     make(map[string][]string, len(s.Classes)),
	}
	for grade, classes := range s.Classes {
		out.Classes[grade] = append([]string(nil), classes...)
	}
	return out
}

// Equal compares two states by value with set semantics: element order is
// irrelevant for subjects, grade levels, and each grade's class list.
func (s AssignmentState) Equal(other AssignmentState) bool {
	if !stringSetEqual(s.Subjects, other.Subjects) {
		return false
	}
	if !stringSetEqual(s.GradeLevels, other.GradeLevels) {
		return false
	}
	if len(nonEmptyGrades(s.Classes)) != len(nonEmptyGrades(other.Classes)) {
		return false
	}
	for grade, classes := range s.Classes {
		if len(classes) == 0 {
			continue
		}
		if !stringSetEqual(classes, other.Classes[grade]) {
			return false
		}
	}
	return true
}

// OrphanedClassGrades returns grade levels that carry class selections without
// being selected themselves, which violates the staging invariant.
func (s AssignmentState) OrphanedClassGrades() []string {
	selected := make(map[string]struct{}, len(s.GradeLevels))
	for _, grade := range s.GradeLevels {
		selected[grade] = struct{}{}
	}

	var orphans []string
	for grade, classes := range s.Classes {
		if len(classes) == 0 {
			continue
		}
		if _, ok := selected[grade]; !ok {
			orphans = append(orphans, grade)
		}
	}
	sort.Strings(orphans)
	return orphans
}

// AssignmentUnit is the persistence payload for one teacher: the full
// resulting state, not a diff, since publishing replaces the teacher's entire
// assignment set.
type AssignmentUnit struct {
	TeacherID   string              `json:"teacher_id" validate:"required"`
	Subjects    []string            `json:"subjects"`
	GradeLevels []string            `json:"grade_levels"`
	Classes     map[string][]string `json:"classes"`
}

func nonEmptyGrades(classes map[string][]string) map[string]struct{} {
	out := make(map[string]struct{}, len(classes))
	for grade, ids := range classes {
		if len(ids) > 0 {
			out[grade] = struct{}{}
		}
	}
	return out
}

func stringSetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		if seen[v] == 0 {
			return false
		}
		seen[v]--
	}
	return true
}

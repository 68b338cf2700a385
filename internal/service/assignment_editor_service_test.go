package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harati-Ahmed/My-School-platform-sub000/pkg/cache"
	appErrors "github.com/Harati-Ahmed/My-School-platform-sub000/pkg/errors"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/models"
)

type assignmentStoreStub struct {
	states     map[string]models.AssignmentState
	fetchErr   error
	fetchCalls int
	saveErr    error
	savedUnits []models.AssignmentUnit
	saveCalls  int
}

func (s *assignmentStoreStub) FetchState(ctx context.Context, teacherID string) (models.AssignmentState, error) {
	s.fetchCalls++
	if s.fetchErr != nil {
		return models.AssignmentState{}, s.fetchErr
	}
	if state, ok := s.states[teacherID]; ok {
		return state.Clone(), nil
	}
	return models.NewAssignmentState(), nil
}

func (s *assignmentStoreStub) SaveUnits(ctx context.Context, units []models.AssignmentUnit) error {
	s.saveCalls++
	s.savedUnits = units
	return s.saveErr
}

type referenceStoreStub struct {
	candidates      []models.AssignmentCandidate
	candidateCalls  int
	roster          map[string][]models.ClassOption
	rosterCalls     int
	candidatesError error
}

func (s *referenceStoreStub) ListCandidatesByTeacher(ctx context.Context, teacherID string) ([]models.AssignmentCandidate, error) {
	s.candidateCalls++
	if s.candidatesError != nil {
		return nil, s.candidatesError
	}
	return s.candidates, nil
}

func (s *referenceStoreStub) ClassesByGrade(ctx context.Context) (map[string][]models.ClassOption, error) {
	s.rosterCalls++
	return s.roster, nil
}

func teacherBaseline() models.AssignmentState {
	return models.AssignmentState{
		Subjects:    []string{"math"},
		GradeLevels: []string{"grade-5"},
		Classes:     map[string][]string{"grade-5": {"5a"}},
	}
}

func newAssignmentEditor(store *assignmentStoreStub, refs *referenceStoreStub) (*AssignmentEditorService, *CacheService) {
	cacheSvc := NewCacheService(cache.NewMemoryStore(), nil, time.Minute, nil, true)
	editor := NewAssignmentEditorService(store, refs, cacheSvc, nil, time.Minute, 30*time.Minute, nil)
	return editor, cacheSvc
}

func TestAssignmentEditorOpenUsesCache(t *testing.T) {
	store := &assignmentStoreStub{states: map[string]models.AssignmentState{"teacher-1": teacherBaseline()}}
	editor, _ := newAssignmentEditor(store, &referenceStoreStub{})
	ctx := context.Background()

	state, err := editor.Open(ctx, "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"math"}, state.Subjects)
	assert.Equal(t, 1, store.fetchCalls)

	// Reopening the same teacher within the TTL window hits the cache.
	editor.Close("teacher-1")
	_, err = editor.Open(ctx, "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.fetchCalls)
}

func TestAssignmentEditorLoadErrorInvalidatesCache(t *testing.T) {
	store := &assignmentStoreStub{fetchErr: errors.New("db down")}
	editor, cacheSvc := newAssignmentEditor(store, &referenceStoreStub{})
	ctx := context.Background()

	require.NoError(t, cacheSvc.Set(ctx, "assignment:teacher:teacher-1:candidates", []string{"stale"}, time.Minute))

	_, err := editor.Open(ctx, "teacher-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrLoadFailed.Code, appErrors.FromError(err).Code)

	var out []string
	hit, _ := cacheSvc.Get(ctx, "assignment:teacher:teacher-1:candidates", &out)
	assert.False(t, hit)
}

func TestAssignmentEditorBatchPublishAllOrNothing(t *testing.T) {
	store := &assignmentStoreStub{states: map[string]models.AssignmentState{
		"teacher-1": teacherBaseline(),
		"teacher-2": teacherBaseline(),
	}}
	editor, _ := newAssignmentEditor(store, &referenceStoreStub{})
	ctx := context.Background()

	_, err := editor.Open(ctx, "teacher-1")
	require.NoError(t, err)
	_, err = editor.Open(ctx, "teacher-2")
	require.NoError(t, err)

	require.NoError(t, editor.SetSubjects("teacher-1", []string{"math", "physics"}))
	require.NoError(t, editor.SetSubjects("teacher-2", []string{"biology"}))

	store.saveErr = errors.New("validation failed upstream")
	_, err = editor.PublishAll(ctx)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPublishRejected.Code, appErrors.FromError(err).Code)

	// No teacher's initial state changed; discarding restores the baseline.
	for _, change := range editor.Changes() {
		assert.True(t, change.Dirty)
	}
	editor.DiscardAll()
	assert.False(t, editor.HasChanges())
	state, err := editor.State("teacher-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"math"}, state.Subjects)
}

func TestAssignmentEditorPublishOnlyDirtyTeachers(t *testing.T) {
	store := &assignmentStoreStub{states: map[string]models.AssignmentState{
		"teacher-1": teacherBaseline(),
		"teacher-2": teacherBaseline(),
	}}
	editor, _ := newAssignmentEditor(store, &referenceStoreStub{})
	ctx := context.Background()

	_, err := editor.Open(ctx, "teacher-1")
	require.NoError(t, err)
	_, err = editor.Open(ctx, "teacher-2")
	require.NoError(t, err)

	require.NoError(t, editor.SetSubjects("teacher-2", []string{"biology"}))

	published, err := editor.PublishAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"teacher-2"}, published)
	require.Len(t, store.savedUnits, 1)
	assert.Equal(t, "teacher-2", store.savedUnits[0].TeacherID)
}

func TestAssignmentEditorPublishNothingDirty(t *testing.T) {
	store := &assignmentStoreStub{states: map[string]models.AssignmentState{"teacher-1": teacherBaseline()}}
	editor, _ := newAssignmentEditor(store, &referenceStoreStub{})
	ctx := context.Background()

	_, err := editor.Open(ctx, "teacher-1")
	require.NoError(t, err)

	published, err := editor.PublishAll(ctx)
	require.NoError(t, err)
	assert.Nil(t, published)
	assert.Equal(t, 0, store.saveCalls)
}

// Mirrors the full editing session: edit, discard, re-edit, publish, resync.
func TestAssignmentEditorSessionScenario(t *testing.T) {
	store := &assignmentStoreStub{states: map[string]models.AssignmentState{"teacher-1": teacherBaseline()}}
	editor, cacheSvc := newAssignmentEditor(store, &referenceStoreStub{})
	ctx := context.Background()

	_, err := editor.Open(ctx, "teacher-1")
	require.NoError(t, err)

	edit := func() {
		require.NoError(t, editor.SetSubjects("teacher-1", []string{"math", "physics"}))
		require.NoError(t, editor.SetGradeLevels("teacher-1", []string{"grade-6"}))
		require.NoError(t, editor.SetClasses("teacher-1", "grade-6", []string{"6b"}))
	}

	edit()
	assert.True(t, editor.HasChanges())

	editor.DiscardAll()
	assert.False(t, editor.HasChanges())
	state, err := editor.State("teacher-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"math"}, state.Subjects)
	assert.Equal(t, []string{"grade-5"}, state.GradeLevels)
	assert.Equal(t, []string{"5a"}, state.Classes["grade-5"])

	edit()
	published, err := editor.PublishAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"teacher-1"}, published)

	require.Len(t, store.savedUnits, 1)
	unit := store.savedUnits[0]
	assert.ElementsMatch(t, []string{"math", "physics"}, unit.Subjects)
	assert.Equal(t, []string{"grade-6"}, unit.GradeLevels)
	assert.Equal(t, []string{"6b"}, unit.Classes["grade-6"])
	_, hasOld := unit.Classes["grade-5"]
	assert.False(t, hasOld)

	// Baseline resynced: the published values are the new clean state.
	assert.False(t, editor.HasChanges())

	// Cached reference entries for the teacher are gone right after publish.
	var cached models.AssignmentState
	hit, _ := cacheSvc.Get(ctx, "assignment:teacher:teacher-1:state", &cached)
	assert.False(t, hit)
}

func TestAssignmentEditorReferenceLookupsCached(t *testing.T) {
	refs := &referenceStoreStub{
		candidates: []models.AssignmentCandidate{{TeacherID: "teacher-1", SubjectID: "math", SubjectName: "Mathematics", GradeLevel: "grade-5"}},
		roster:     map[string][]models.ClassOption{"grade-5": {{ID: "5a", Name: "5A", GradeLevel: "grade-5"}}},
	}
	editor, _ := newAssignmentEditor(&assignmentStoreStub{}, refs)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		candidates, err := editor.Candidates(ctx, "teacher-1")
		require.NoError(t, err)
		require.Len(t, candidates, 1)

		roster, err := editor.ClassRoster(ctx)
		require.NoError(t, err)
		require.Len(t, roster["grade-5"], 1)
	}

	assert.Equal(t, 1, refs.candidateCalls)
	assert.Equal(t, 1, refs.rosterCalls)
}

func TestAssignmentEditorMutationsRequireOpenSession(t *testing.T) {
	editor, _ := newAssignmentEditor(&assignmentStoreStub{}, &referenceStoreStub{})

	err := editor.SetSubjects("teacher-9", []string{"math"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionNotFound.Code, appErrors.FromError(err).Code)
}

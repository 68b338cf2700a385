package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Harati-Ahmed/My-School-platform-sub000/pkg/errors"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/models"
)

type scheduleStoreStub struct {
	slots      []models.ScheduleSlot
	listErr    error
	saveErr    error
	saveResult []models.ScheduleSlot
	savedOps   []models.ScheduleOperation
	saveCalls  int
	saveReady  chan struct{}
	saveBlock  chan struct{}
}

func (s *scheduleStoreStub) ListByClassYear(ctx context.Context, classID, academicYear string) ([]models.ScheduleSlot, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.slots, nil
}

func (s *scheduleStoreStub) SaveBatch(ctx context.Context, classID, academicYear string, ops []models.ScheduleOperation) ([]models.ScheduleSlot, error) {
	s.saveCalls++
	s.savedOps = ops
	if s.saveReady != nil {
		close(s.saveReady)
	}
	if s.saveBlock != nil {
		<-s.saveBlock
	}
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	return s.saveResult, nil
}

func baselineSlot(id, day, period, teacherID string) models.ScheduleSlot {
	return models.ScheduleSlot{
		ID:           id,
		ClassID:      "class-1",
		TeacherID:    teacherID,
		SubjectID:    "subject-1",
		PeriodID:     period,
		DayOfWeek:    day,
		AcademicYear: "2025/2026",
		IsActive:     true,
		TeacherName:  "Teacher One",
		SubjectName:  "Mathematics",
	}
}

func newScheduleEditor(t *testing.T, store *scheduleStoreStub) *ScheduleEditorService {
	t.Helper()
	editor := NewScheduleEditorService(store, "class-1", "2025/2026", nil, nil, nil)
	require.NoError(t, editor.Load(context.Background()))
	return editor
}

func TestScheduleEditorPublishPayloadShape(t *testing.T) {
	existing := baselineSlot("slot-1", "MONDAY", "p1", "teacher-1")
	removed := baselineSlot("slot-2", "TUESDAY", "p2", "teacher-2")
	store := &scheduleStoreStub{slots: []models.ScheduleSlot{existing, removed}}
	editor := newScheduleEditor(t, store)

	edited := existing
	edited.TeacherID = "teacher-9"
	require.NoError(t, editor.Stage(edited))

	created := models.ScheduleSlot{
		TeacherID: "teacher-3",
		SubjectID: "subject-3",
		PeriodID:  "p3",
		DayOfWeek: "WEDNESDAY",
	}
	require.NoError(t, editor.Stage(created))

	editor.MarkDeleted("TUESDAY", "p2")

	store.saveResult = []models.ScheduleSlot{edited}
	require.NoError(t, editor.Publish(context.Background()))

	require.Len(t, store.savedOps, 3)
	byDay := make(map[string]models.ScheduleOperation, len(store.savedOps))
	for _, op := range store.savedOps {
		byDay[op.DayOfWeek] = op
	}

	update := byDay["MONDAY"]
	assert.Equal(t, "slot-1", update.ID)
	assert.Equal(t, "teacher-9", update.TeacherID)
	assert.True(t, update.IsActive)

	create := byDay["WEDNESDAY"]
	assert.Empty(t, create.ID)
	assert.Equal(t, "class-1", create.ClassID)
	assert.Equal(t, "2025/2026", create.AcademicYear)
	assert.True(t, create.IsActive)

	del := byDay["TUESDAY"]
	assert.Equal(t, "slot-2", del.ID)
	assert.False(t, del.IsActive)
	assert.Equal(t, "teacher-2", del.TeacherID)
}

func TestScheduleEditorPublishSuccessResyncsBaseline(t *testing.T) {
	existing := baselineSlot("slot-1", "MONDAY", "p1", "teacher-1")
	store := &scheduleStoreStub{slots: []models.ScheduleSlot{existing}}
	editor := newScheduleEditor(t, store)

	edited := existing
	edited.TeacherID = "teacher-9"
	require.NoError(t, editor.Stage(edited))

	authoritative := edited
	authoritative.TeacherName = "Teacher Nine"
	store.saveResult = []models.ScheduleSlot{authoritative}

	require.NoError(t, editor.Publish(context.Background()))

	assert.False(t, editor.HasChanges())
	res := editor.Resolve("MONDAY", "p1")
	require.NotNil(t, res.Slot)
	assert.False(t, res.IsDraft)
	assert.Equal(t, "teacher-9", res.Slot.TeacherID)
	assert.Equal(t, "Teacher Nine", res.Slot.TeacherName)
}

func TestScheduleEditorPublishFailureKeepsDrafts(t *testing.T) {
	existing := baselineSlot("slot-1", "MONDAY", "p1", "teacher-1")
	store := &scheduleStoreStub{slots: []models.ScheduleSlot{existing}}
	editor := newScheduleEditor(t, store)

	edited := existing
	edited.TeacherID = "teacher-9"
	require.NoError(t, editor.Stage(edited))

	store.saveErr = errors.New("boom")
	err := editor.Publish(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPublishRejected.Code, appErrors.FromError(err).Code)

	// Drafts stay staged for retry or discard; baseline is untouched.
	assert.True(t, editor.HasChanges())
	res := editor.Resolve("MONDAY", "p1")
	assert.True(t, res.IsDraft)
	assert.Equal(t, "teacher-9", res.Slot.TeacherID)

	store.saveErr = nil
	store.saveResult = []models.ScheduleSlot{edited}
	require.NoError(t, editor.Publish(context.Background()))
	assert.False(t, editor.HasChanges())
}

func TestScheduleEditorStageRejectsIncompleteSlot(t *testing.T) {
	store := &scheduleStoreStub{}
	editor := newScheduleEditor(t, store)

	err := editor.Stage(models.ScheduleSlot{
		TeacherID: "teacher-1",
		PeriodID:  "p1",
		DayOfWeek: "MONDAY",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.False(t, editor.HasChanges())
}

func TestScheduleEditorSkipsDeleteWithoutIdentity(t *testing.T) {
	// A baseline row without identity indicates an upstream defect; its
	// deletion must be skipped rather than submitted.
	broken := baselineSlot("", "MONDAY", "p1", "teacher-1")
	store := &scheduleStoreStub{slots: []models.ScheduleSlot{broken}}
	editor := newScheduleEditor(t, store)

	editor.MarkDeleted("MONDAY", "p1")
	require.True(t, editor.HasChanges())

	err := editor.Publish(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIntegrity.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, store.saveCalls)
}

func TestScheduleEditorPublishNoChangesIsNoop(t *testing.T) {
	store := &scheduleStoreStub{}
	editor := newScheduleEditor(t, store)

	require.NoError(t, editor.Publish(context.Background()))
	assert.Equal(t, 0, store.saveCalls)
}

func TestScheduleEditorRejectsConcurrentPublish(t *testing.T) {
	existing := baselineSlot("slot-1", "MONDAY", "p1", "teacher-1")
	store := &scheduleStoreStub{
		slots:     []models.ScheduleSlot{existing},
		saveReady: make(chan struct{}),
		saveBlock: make(chan struct{}),
	}
	editor := newScheduleEditor(t, store)

	edited := existing
	edited.TeacherID = "teacher-9"
	require.NoError(t, editor.Stage(edited))

	done := make(chan error, 1)
	go func() {
		done <- editor.Publish(context.Background())
	}()

	<-store.saveReady
	err := editor.Publish(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPublishInFlight.Code, appErrors.FromError(err).Code)

	close(store.saveBlock)
	require.NoError(t, <-done)
}

func TestScheduleEditorGridMergesDrafts(t *testing.T) {
	existing := baselineSlot("slot-1", "MONDAY", "p1", "teacher-1")
	store := &scheduleStoreStub{slots: []models.ScheduleSlot{existing}}
	editor := newScheduleEditor(t, store)

	created := models.ScheduleSlot{
		TeacherID: "teacher-3",
		SubjectID: "subject-3",
		PeriodID:  "p2",
		DayOfWeek: "MONDAY",
	}
	require.NoError(t, editor.Stage(created))
	editor.MarkDeleted("MONDAY", "p1")

	grid := editor.Grid()
	require.Len(t, grid, 2)
	assert.True(t, grid[0].IsDeleted)
	assert.True(t, grid[1].IsDraft)
	assert.False(t, grid[1].IsDeleted)
}

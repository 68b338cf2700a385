package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/models"
)

func baselineWith(slots ...models.ScheduleSlot) BaselineLookup {
	byKey := make(map[string]models.ScheduleSlot, len(slots))
	for _, slot := range slots {
		byKey[slot.Key()] = slot
	}
	return func(key string) (models.ScheduleSlot, bool) {
		slot, ok := byKey[key]
		return slot, ok
	}
}

func sampleSlot(id string) models.ScheduleSlot {
	return models.ScheduleSlot{
		ID:           id,
		ClassID:      "class-1",
		TeacherID:    "teacher-1",
		SubjectID:    "subject-1",
		PeriodID:     "p1",
		DayOfWeek:    "MONDAY",
		AcademicYear: "2025/2026",
		IsActive:     true,
		TeacherName:  "Teacher One",
		SubjectName:  "Mathematics",
	}
}

func TestOverlayStageInfersStatus(t *testing.T) {
	existing := sampleSlot("slot-1")
	lookup := baselineWith(existing)
	overlay := NewOverlay()

	edited := existing
	edited.TeacherID = "teacher-2"
	overlay.Stage(existing.Key(), edited, lookup)

	entry, ok := overlay.Entry(existing.Key())
	require.True(t, ok)
	assert.Equal(t, StatusUpdate, entry.Status)
	require.NotNil(t, entry.Original)
	assert.Equal(t, existing.ID, entry.Original.ID)
	assert.Equal(t, existing.ID, entry.Slot.ID)

	fresh := sampleSlot("ignored")
	fresh.DayOfWeek = "TUESDAY"
	overlay.Stage(fresh.Key(), fresh, lookup)

	entry, ok = overlay.Entry(fresh.Key())
	require.True(t, ok)
	assert.Equal(t, StatusCreate, entry.Status)
	assert.Nil(t, entry.Original)
	assert.Empty(t, entry.Slot.ID)
}

func TestOverlayRevertIsNoOp(t *testing.T) {
	existing := sampleSlot("slot-1")
	lookup := baselineWith(existing)
	overlay := NewOverlay()

	edited := existing
	edited.SubjectID = "subject-2"
	overlay.Stage(existing.Key(), edited, lookup)
	require.True(t, overlay.HasChanges())

	overlay.Revert(existing.Key())
	assert.False(t, overlay.HasChanges())

	res := overlay.Resolve(existing.Key(), lookup)
	require.NotNil(t, res.Slot)
	assert.False(t, res.IsDraft)
	assert.Equal(t, "subject-1", res.Slot.SubjectID)
}

func TestOverlayCreateThenDeleteCollapses(t *testing.T) {
	lookup := baselineWith()
	overlay := NewOverlay()

	fresh := sampleSlot("")
	overlay.Stage(fresh.Key(), fresh, lookup)
	require.True(t, overlay.HasChanges())

	overlay.MarkDeleted(fresh.Key(), fresh)
	assert.False(t, overlay.HasChanges())
	_, ok := overlay.Entry(fresh.Key())
	assert.False(t, ok)
}

func TestOverlayDeleteBaselineEntity(t *testing.T) {
	existing := sampleSlot("slot-1")
	lookup := baselineWith(existing)
	overlay := NewOverlay()

	overlay.MarkDeleted(existing.Key(), existing)

	entry, ok := overlay.Entry(existing.Key())
	require.True(t, ok)
	assert.Equal(t, StatusDelete, entry.Status)
	assert.False(t, entry.Slot.IsActive)
	require.NotNil(t, entry.Original)
	assert.True(t, entry.Original.IsActive)

	res := overlay.Resolve(existing.Key(), lookup)
	require.NotNil(t, res.Slot)
	assert.True(t, res.IsDeleted)
	assert.Equal(t, existing.ID, res.Slot.ID)
}

func TestOverlayUpdateThenDeleteKeepsOriginal(t *testing.T) {
	existing := sampleSlot("slot-1")
	lookup := baselineWith(existing)
	overlay := NewOverlay()

	edited := existing
	edited.TeacherID = "teacher-9"
	overlay.Stage(existing.Key(), edited, lookup)
	overlay.MarkDeleted(existing.Key(), existing)

	entry, ok := overlay.Entry(existing.Key())
	require.True(t, ok)
	assert.Equal(t, StatusDelete, entry.Status)
	assert.Equal(t, "teacher-1", entry.Original.TeacherID)
}

func TestOverlayDiscardAll(t *testing.T) {
	existing := sampleSlot("slot-1")
	lookup := baselineWith(existing)
	overlay := NewOverlay()

	overlay.Stage(existing.Key(), existing, lookup)
	other := sampleSlot("")
	other.DayOfWeek = "FRIDAY"
	overlay.Stage(other.Key(), other, lookup)
	require.Equal(t, 2, overlay.Len())

	overlay.DiscardAll()
	assert.Equal(t, 0, overlay.Len())

	res := overlay.Resolve(existing.Key(), lookup)
	require.NotNil(t, res.Slot)
	assert.False(t, res.IsDraft)
}

func TestOverlayResolveEmpty(t *testing.T) {
	overlay := NewOverlay()
	res := overlay.Resolve(models.SlotKey("monday", "p3"), baselineWith())
	assert.Nil(t, res.Slot)
	assert.False(t, res.IsDraft)
	assert.False(t, res.IsDeleted)
}

package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	appErrors "github.com/Harati-Ahmed/My-School-platform-sub000/pkg/errors"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/draft"
	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/models"
)

// ScheduleStore is the persistence collaborator for the schedule editor.
// SaveBatch applies every operation atomically and returns the authoritative
// post-publish slot list for the class/year scope.
type ScheduleStore interface {
	ListByClassYear(ctx context.Context, classID, academicYear string) ([]models.ScheduleSlot, error)
	SaveBatch(ctx context.Context, classID, academicYear string, ops []models.ScheduleOperation) ([]models.ScheduleSlot, error)
}

// SlotView is one resolved cell of the editor grid.
type SlotView struct {
	Key       string              `json:"key"`
	Slot      models.ScheduleSlot `json:"slot"`
	IsDraft   bool                `json:"is_draft"`
	IsDeleted bool                `json:"is_deleted"`
}

// ScheduleEditorService maintains one class/year schedule editing session: an
// immutable baseline snapshot plus a draft overlay, published in a single
// batch. One instance owns one scope.
type ScheduleEditorService struct {
	store     ScheduleStore
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService

	classID      string
	academicYear string

	mu         sync.Mutex
	baseline   map[string]models.ScheduleSlot
	overlay    *draft.Overlay
	loaded     bool
	publishing bool
}

// NewScheduleEditorService creates an editor for one class and academic year.
func NewScheduleEditorService(store ScheduleStore, classID, academicYear string, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *ScheduleEditorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleEditorService{
		store:        store,
		validator:    validate,
		logger:       logger,
		metrics:      metrics,
		classID:      classID,
		academicYear: academicYear,
		baseline:     make(map[string]models.ScheduleSlot),
		overlay:      draft.NewOverlay(),
	}
}

// ClassID identifies the editor scope.
func (s *ScheduleEditorService) ClassID() string { return s.classID }

// AcademicYear identifies the editor scope.
func (s *ScheduleEditorService) AcademicYear() string { return s.academicYear }

// Load fetches the baseline wholesale. On failure the previous baseline (if
// any) stays installed; drafts are never touched by a refresh.
func (s *ScheduleEditorService) Load(ctx context.Context) error {
	slots, err := s.store.ListByClassYear(ctx, s.classID, s.academicYear)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrLoadFailed.Code, appErrors.ErrLoadFailed.Status, "failed to load class schedule")
	}

	next := make(map[string]models.ScheduleSlot, len(slots))
	for _, slot := range slots {
		next[slot.Key()] = slot
	}

	s.mu.Lock()
	s.baseline = next
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Stage records a create or update draft for the slot's day/period cell. A
// slot without both a teacher and a subject is rejected; such cells are never
// eligible for staging.
func (s *ScheduleEditorService) Stage(slot models.ScheduleSlot) error {
	slot.ClassID = s.classID
	slot.AcademicYear = s.academicYear
	slot.IsActive = true

	op := slot.ToOperation()
	if !op.Complete() {
		return appErrors.Clone(appErrors.ErrValidation, "slot requires both a teacher and a subject")
	}
	if err := s.validator.Struct(op); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.Stage(slot.Key(), slot, s.baselineLookup())
	return nil
}

// MarkDeleted stages removal of the cell at day/period. Deleting a cell that
// only exists as a staged creation drops the draft entirely; deleting a cell
// with neither baseline nor draft is a no-op.
func (s *ScheduleEditorService) MarkDeleted(dayOfWeek, periodID string) {
	key := models.SlotKey(dayOfWeek, periodID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if original, ok := s.baseline[key]; ok {
		s.overlay.MarkDeleted(key, original)
		return
	}
	if _, ok := s.overlay.Entry(key); ok {
		// Created locally, never persisted.
		s.overlay.MarkDeleted(key, models.ScheduleSlot{DayOfWeek: dayOfWeek, PeriodID: periodID})
	}
}

// Revert drops the draft for one cell.
func (s *ScheduleEditorService) Revert(dayOfWeek, periodID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.Revert(models.SlotKey(dayOfWeek, periodID))
}

// DiscardAll clears every draft, leaving the baseline untouched.
func (s *ScheduleEditorService) DiscardAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.DiscardAll()
}

// HasChanges reports whether any draft is pending.
func (s *ScheduleEditorService) HasChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.HasChanges()
}

// Resolve returns the entity to display for one cell.
func (s *ScheduleEditorService) Resolve(dayOfWeek, periodID string) draft.Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.Resolve(models.SlotKey(dayOfWeek, periodID), s.baselineLookup())
}

// Grid returns every cell that is visible in the editor: baseline slots with
// drafts overlaid, plus draft-only cells, ordered by key.
func (s *ScheduleEditorService) Grid() []SlotView {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make(map[string]struct{}, len(s.baseline))
	for key := range s.baseline {
		keys[key] = struct{}{}
	}
	for _, entry := range s.overlay.Entries() {
		keys[entry.Key] = struct{}{}
	}

	lookup := s.baselineLookup()
	views := make([]SlotView, 0, len(keys))
	for key := range keys {
		res := s.overlay.Resolve(key, lookup)
		if res.Slot == nil {
			continue
		}
		views = append(views, SlotView{Key: key, Slot: *res.Slot, IsDraft: res.IsDraft, IsDeleted: res.IsDeleted})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Key < views[j].Key })
	return views
}

// Publish diffs the overlay against baseline, submits the resulting operation
// list as one remote call, and on success installs the authoritative result
// as the new baseline and clears all drafts. On failure every draft stays
// staged so the operator can retry or discard.
func (s *ScheduleEditorService) Publish(ctx context.Context) error {
	s.mu.Lock()
	if s.publishing {
		s.mu.Unlock()
		return appErrors.Clone(appErrors.ErrPublishInFlight, "")
	}
	if !s.overlay.HasChanges() {
		s.mu.Unlock()
		return nil
	}

	ops := s.buildOperations()
	if len(ops) == 0 {
		s.mu.Unlock()
		return appErrors.Clone(appErrors.ErrIntegrity, "every staged change was skipped as malformed; nothing was submitted")
	}
	s.publishing = true
	s.mu.Unlock()

	start := time.Now()
	slots, err := s.store.SaveBatch(ctx, s.classID, s.academicYear, ops)
	s.metrics.RecordPublish("schedule", err == nil, time.Since(start))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishing = false

	if err != nil {
		s.logger.Warn("schedule publish rejected",
			zap.String("class_id", s.classID),
			zap.String("academic_year", s.academicYear),
			zap.Int("operations", len(ops)),
			zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrPublishRejected.Code, appErrors.ErrPublishRejected.Status, "schedule publish rejected")
	}

	next := make(map[string]models.ScheduleSlot, len(slots))
	for _, slot := range slots {
		next[slot.Key()] = slot
	}
	s.baseline = next
	s.overlay.DiscardAll()
	return nil
}

// buildOperations shapes the overlay into the minimal persistence payload.
// Callers must hold s.mu.
func (s *ScheduleEditorService) buildOperations() []models.ScheduleOperation {
	entries := s.overlay.Entries()
	ops := make([]models.ScheduleOperation, 0, len(entries))
	for _, entry := range entries {
		switch entry.Status {
		case draft.StatusDelete:
			if entry.Original == nil || entry.Original.ID == "" {
				// Staging guarantees deletions carry identity; anything else
				// is a data-integrity defect, not a user-facing failure.
				s.logger.Error("skipping delete draft without identity",
					zap.String("key", entry.Key),
					zap.String("class_id", s.classID))
				continue
			}
			op := entry.Original.ToOperation()
			op.IsActive = false
			ops = append(ops, op)
		case draft.StatusCreate, draft.StatusUpdate:
			op := entry.Slot.ToOperation()
			if !op.Complete() {
				s.logger.Warn("skipping incomplete slot draft",
					zap.String("key", entry.Key),
					zap.String("class_id", s.classID))
				continue
			}
			if entry.Status == draft.StatusCreate {
				op.ID = ""
			}
			op.IsActive = true
			ops = append(ops, op)
		}
	}
	return ops
}

func (s *ScheduleEditorService) baselineLookup() draft.BaselineLookup {
	return func(key string) (models.ScheduleSlot, bool) {
		slot, ok := s.baseline[key]
		return slot, ok
	}
}

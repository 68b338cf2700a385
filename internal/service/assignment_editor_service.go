package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/Harati-Ahmed/My-School-platform-sub000/pkg/errors"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/draft"
	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/models"
)

// AssignmentStore is the persistence collaborator for teacher assignments.
// SaveUnits replaces every included teacher's assignment set in one atomic
// call: either all units are applied or none are.
type AssignmentStore interface {
	FetchState(ctx context.Context, teacherID string) (models.AssignmentState, error)
	SaveUnits(ctx context.Context, units []models.AssignmentUnit) error
}

// ReferenceStore provides read-mostly reference lookups.
type ReferenceStore interface {
	ListCandidatesByTeacher(ctx context.Context, teacherID string) ([]models.AssignmentCandidate, error)
	ClassesByGrade(ctx context.Context) (map[string][]models.ClassOption, error)
}

const (
	cacheKeyTeacherState      = "assignment:teacher:%s:state"
	cacheKeyTeacherCandidates = "assignment:teacher:%s:candidates"
	cacheKeyTeacherPattern    = "assignment:teacher:%s:*"
	cacheKeyClassRoster       = "roster:classes"
)

// TeacherChange summarises one teacher's dirty state for the UI.
type TeacherChange struct {
	TeacherID string                 `json:"teacher_id"`
	Dirty     bool                   `json:"dirty"`
	State     models.AssignmentState `json:"state"`
}

// AssignmentEditorService coordinates a multi-teacher assignment editing
// session: one draft per opened teacher, published together as a single
// batch with all-or-nothing semantics.
type AssignmentEditorService struct {
	store   AssignmentStore
	refs    ReferenceStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger

	teacherTTL time.Duration
	rosterTTL  time.Duration

	mu         sync.Mutex
	drafts     map[string]*draft.AssignmentDraft
	publishing bool
}

// NewAssignmentEditorService creates an empty batch editing session.
func NewAssignmentEditorService(store AssignmentStore, refs ReferenceStore, cache *CacheService, metrics *MetricsService, teacherTTL, rosterTTL time.Duration, logger *zap.Logger) *AssignmentEditorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentEditorService{
		store:      store,
		refs:       refs,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		teacherTTL: teacherTTL,
		rosterTTL:  rosterTTL,
		drafts:     make(map[string]*draft.AssignmentDraft),
	}
}

// Open loads a teacher into the session and returns the editable state. If
// the teacher is already open the existing draft is returned untouched; a
// reopened teacher within the cache TTL skips the baseline refetch.
func (s *AssignmentEditorService) Open(ctx context.Context, teacherID string) (models.AssignmentState, error) {
	s.mu.Lock()
	if d, ok := s.drafts[teacherID]; ok {
		state := d.State()
		s.mu.Unlock()
		return state, nil
	}
	s.mu.Unlock()

	baseline, err := s.loadBaseline(ctx, teacherID)
	if err != nil {
		return models.AssignmentState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.drafts[teacherID]; ok {
		return d.State(), nil
	}
	d := draft.NewAssignmentDraft(teacherID, baseline)
	s.drafts[teacherID] = d
	return d.State(), nil
}

// Close drops a teacher's draft from the session without publishing.
func (s *AssignmentEditorService) Close(teacherID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, teacherID)
}

// State returns the current draft values for an open teacher.
func (s *AssignmentEditorService) State(teacherID string) (models.AssignmentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[teacherID]
	if !ok {
		return models.AssignmentState{}, appErrors.Clone(appErrors.ErrSessionNotFound, "teacher is not open in this session")
	}
	return d.State(), nil
}

// SetSubjects replaces the drafted subject set for an open teacher.
func (s *AssignmentEditorService) SetSubjects(teacherID string, subjects []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[teacherID]
	if !ok {
		return appErrors.Clone(appErrors.ErrSessionNotFound, "teacher is not open in this session")
	}
	d.SetSubjects(subjects)
	return nil
}

// SetGradeLevels replaces the drafted grade-level set, cascading class
// removals for deselected grades.
func (s *AssignmentEditorService) SetGradeLevels(teacherID string, gradeLevels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[teacherID]
	if !ok {
		return appErrors.Clone(appErrors.ErrSessionNotFound, "teacher is not open in this session")
	}
	d.SetGradeLevels(gradeLevels)
	return nil
}

// SetClasses replaces the class selection for one grade level of an open
// teacher.
func (s *AssignmentEditorService) SetClasses(teacherID, gradeLevel string, classIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[teacherID]
	if !ok {
		return appErrors.Clone(appErrors.ErrSessionNotFound, "teacher is not open in this session")
	}
	return d.SetClasses(gradeLevel, classIDs)
}

// Changes reports every open teacher's dirty state, ordered by teacher ID.
func (s *AssignmentEditorService) Changes() []TeacherChange {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]TeacherChange, 0, len(s.drafts))
	for id, d := range s.drafts {
		out = append(out, TeacherChange{TeacherID: id, Dirty: d.Dirty(), State: d.State()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeacherID < out[j].TeacherID })
	return out
}

// HasChanges reports whether any open teacher differs from baseline.
func (s *AssignmentEditorService) HasChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.drafts {
		if d.Dirty() {
			return true
		}
	}
	return false
}

// DiscardAll resets every dirty teacher back to its initial state. Caches are
// deliberately left alone: nothing was published, so nothing went stale.
func (s *AssignmentEditorService) DiscardAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.drafts {
		d.Reset()
	}
}

// PublishAll submits every dirty teacher's full resulting state as one batch
// call. On success each included teacher's baseline is resynced to the
// published values and its cached reference entries are invalidated. On
// failure no teacher's baseline changes and all drafts stay editable.
func (s *AssignmentEditorService) PublishAll(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	if s.publishing {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrPublishInFlight, "")
	}

	var included []*draft.AssignmentDraft
	units := make([]models.AssignmentUnit, 0, len(s.drafts))
	for _, d := range s.drafts {
		if !d.Dirty() {
			continue
		}
		unit, orphans := d.Unit()
		if len(orphans) > 0 {
			s.logger.Error("pruned class selections for unselected grades",
				zap.String("teacher_id", d.TeacherID()),
				zap.Strings("grade_levels", orphans))
		}
		units = append(units, unit)
		included = append(included, d)
	}
	if len(units) == 0 {
		s.mu.Unlock()
		return nil, nil
	}
	sort.Slice(units, func(i, j int) bool { return units[i].TeacherID < units[j].TeacherID })
	sort.Slice(included, func(i, j int) bool { return included[i].TeacherID() < included[j].TeacherID() })
	s.publishing = true
	s.mu.Unlock()

	start := time.Now()
	err := s.store.SaveUnits(ctx, units)
	s.metrics.RecordPublish("assignment", err == nil, time.Since(start))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishing = false

	if err != nil {
		s.logger.Warn("assignment batch publish rejected",
			zap.Int("teachers", len(units)),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrPublishRejected.Code, appErrors.ErrPublishRejected.Status, "assignment publish rejected")
	}

	published := make([]string, 0, len(included))
	for _, d := range included {
		d.Commit()
		published = append(published, d.TeacherID())
		s.invalidateTeacher(ctx, d.TeacherID())
	}
	return published, nil
}

// Candidates returns the subjects a teacher may be scheduled for, served from
// the reference cache within its TTL window.
func (s *AssignmentEditorService) Candidates(ctx context.Context, teacherID string) ([]models.AssignmentCandidate, error) {
	key := teacherCacheKey(cacheKeyTeacherCandidates, teacherID)

	var cached []models.AssignmentCandidate
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	candidates, err := s.refs.ListCandidatesByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrLoadFailed.Code, appErrors.ErrLoadFailed.Status, "failed to load assignment candidates")
	}
	_ = s.cache.Set(ctx, key, candidates, s.teacherTTL)
	return candidates, nil
}

// ClassRoster returns the global class roster grouped by grade level, cached
// with the longer roster TTL since it is near-static.
func (s *AssignmentEditorService) ClassRoster(ctx context.Context) (map[string][]models.ClassOption, error) {
	var cached map[string][]models.ClassOption
	if hit, _ := s.cache.Get(ctx, cacheKeyClassRoster, &cached); hit {
		return cached, nil
	}

	roster, err := s.refs.ClassesByGrade(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrLoadFailed.Code, appErrors.ErrLoadFailed.Status, "failed to load class roster")
	}
	_ = s.cache.Set(ctx, cacheKeyClassRoster, roster, s.rosterTTL)
	return roster, nil
}

func (s *AssignmentEditorService) loadBaseline(ctx context.Context, teacherID string) (models.AssignmentState, error) {
	key := teacherCacheKey(cacheKeyTeacherState, teacherID)

	var cached models.AssignmentState
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	state, err := s.store.FetchState(ctx, teacherID)
	if err != nil {
		// A failed load must not let a stale cache entry mask an upstream
		// deletion on the next read.
		s.invalidateTeacher(ctx, teacherID)
		return models.AssignmentState{}, appErrors.Wrap(err, appErrors.ErrLoadFailed.Code, appErrors.ErrLoadFailed.Status, "failed to load teacher assignments")
	}
	_ = s.cache.Set(ctx, key, state, s.teacherTTL)
	return state, nil
}

func (s *AssignmentEditorService) invalidateTeacher(ctx context.Context, teacherID string) {
	if err := s.cache.Invalidate(ctx, teacherCacheKey(cacheKeyTeacherPattern, teacherID)); err != nil {
		s.logger.Warn("failed to invalidate teacher cache", zap.String("teacher_id", teacherID), zap.Error(err))
	}
}

func teacherCacheKey(format, teacherID string) string {
	return fmt.Sprintf(format, teacherID)
}

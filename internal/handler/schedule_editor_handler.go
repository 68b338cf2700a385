package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/Harati-Ahmed/My-School-platform-sub000/pkg/errors"
	"github.com/Harati-Ahmed/My-School-platform-sub000/pkg/response"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/dto"
	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/models"
	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/service"
)

// ScheduleEditorFactory creates one editor per class/year scope.
type ScheduleEditorFactory func(classID, academicYear string) *service.ScheduleEditorService

// ScheduleEditorHandler exposes the class-schedule draft editor. Only one
// editor instance exists per class/year scope; reopening an open scope
// returns the existing session.
type ScheduleEditorHandler struct {
	factory ScheduleEditorFactory
	logger  *zap.Logger

	mu      sync.Mutex
	editors map[string]*service.ScheduleEditorService
}

// NewScheduleEditorHandler constructs the handler.
func NewScheduleEditorHandler(factory ScheduleEditorFactory, logger *zap.Logger) *ScheduleEditorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleEditorHandler{
		factory: factory,
		logger:  logger,
		editors: make(map[string]*service.ScheduleEditorService),
	}
}

// Open godoc
// @Summary Open (or refresh) a schedule editing session
// @Tags Schedule Editor
// @Produce json
// @Param id path string true "Class ID"
// @Param academic_year query string true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /schedule-editor/classes/{id} [post]
func (h *ScheduleEditorHandler) Open(c *gin.Context) {
	classID, year, ok := h.scope(c)
	if !ok {
		return
	}

	h.mu.Lock()
	editor, exists := h.editors[scopeKey(classID, year)]
	if !exists {
		editor = h.factory(classID, year)
		h.editors[scopeKey(classID, year)] = editor
	}
	h.mu.Unlock()

	if err := editor.Load(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	h.respondGrid(c, editor)
}

// Grid godoc
// @Summary Resolved editor grid with drafts overlaid
// @Tags Schedule Editor
// @Produce json
// @Param id path string true "Class ID"
// @Param academic_year query string true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /schedule-editor/classes/{id}/grid [get]
func (h *ScheduleEditorHandler) Grid(c *gin.Context) {
	editor, ok := h.session(c)
	if !ok {
		return
	}
	h.respondGrid(c, editor)
}

// Stage godoc
// @Summary Stage a create or update for one cell
// @Tags Schedule Editor
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param academic_year query string true "Academic year"
// @Param payload body dto.StageSlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Router /schedule-editor/classes/{id}/slots [put]
func (h *ScheduleEditorHandler) Stage(c *gin.Context) {
	editor, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.StageSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload"))
		return
	}

	err := editor.Stage(models.ScheduleSlot{
		TeacherID:  req.TeacherID,
		SubjectID:  req.SubjectID,
		PeriodID:   req.PeriodID,
		DayOfWeek:  req.DayOfWeek,
		RoomNumber: req.RoomNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respondGrid(c, editor)
}

// Delete godoc
// @Summary Mark one cell for removal
// @Tags Schedule Editor
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param academic_year query string true "Academic year"
// @Param payload body dto.SlotRefRequest true "Cell reference"
// @Success 200 {object} response.Envelope
// @Router /schedule-editor/classes/{id}/slots [delete]
func (h *ScheduleEditorHandler) Delete(c *gin.Context) {
	editor, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.SlotRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cell reference"))
		return
	}

	editor.MarkDeleted(req.DayOfWeek, req.PeriodID)
	h.respondGrid(c, editor)
}

// Revert godoc
// @Summary Drop the draft for one cell
// @Tags Schedule Editor
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param academic_year query string true "Academic year"
// @Param payload body dto.SlotRefRequest true "Cell reference"
// @Success 200 {object} response.Envelope
// @Router /schedule-editor/classes/{id}/slots/revert [post]
func (h *ScheduleEditorHandler) Revert(c *gin.Context) {
	editor, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.SlotRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cell reference"))
		return
	}

	editor.Revert(req.DayOfWeek, req.PeriodID)
	h.respondGrid(c, editor)
}

// Discard godoc
// @Summary Discard all staged drafts
// @Tags Schedule Editor
// @Produce json
// @Param id path string true "Class ID"
// @Param academic_year query string true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /schedule-editor/classes/{id}/discard [post]
func (h *ScheduleEditorHandler) Discard(c *gin.Context) {
	editor, ok := h.session(c)
	if !ok {
		return
	}
	editor.DiscardAll()
	h.respondGrid(c, editor)
}

// Changes godoc
// @Summary Whether the session holds pending drafts
// @Tags Schedule Editor
// @Produce json
// @Param id path string true "Class ID"
// @Param academic_year query string true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /schedule-editor/classes/{id}/changes [get]
func (h *ScheduleEditorHandler) Changes(c *gin.Context) {
	editor, ok := h.session(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"has_changes": editor.HasChanges()})
}

// Publish godoc
// @Summary Publish staged drafts as one batch
// @Tags Schedule Editor
// @Produce json
// @Param id path string true "Class ID"
// @Param academic_year query string true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /schedule-editor/classes/{id}/publish [post]
func (h *ScheduleEditorHandler) Publish(c *gin.Context) {
	editor, ok := h.session(c)
	if !ok {
		return
	}
	if err := editor.Publish(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	h.respondGrid(c, editor)
}

// Close godoc
// @Summary End the editing session, dropping any drafts
// @Tags Schedule Editor
// @Param id path string true "Class ID"
// @Param academic_year query string true "Academic year"
// @Success 204
// @Router /schedule-editor/classes/{id} [delete]
func (h *ScheduleEditorHandler) Close(c *gin.Context) {
	classID, year, ok := h.scope(c)
	if !ok {
		return
	}
	h.mu.Lock()
	delete(h.editors, scopeKey(classID, year))
	h.mu.Unlock()
	response.NoContent(c)
}

func (h *ScheduleEditorHandler) respondGrid(c *gin.Context, editor *service.ScheduleEditorService) {
	response.JSON(c, http.StatusOK, gin.H{
		"class_id":      editor.ClassID(),
		"academic_year": editor.AcademicYear(),
		"slots":         editor.Grid(),
		"has_changes":   editor.HasChanges(),
	})
}

func (h *ScheduleEditorHandler) scope(c *gin.Context) (string, string, bool) {
	classID := c.Param("id")
	year := c.Query("academic_year")
	if classID == "" || year == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "class id and academic_year are required"))
		return "", "", false
	}
	return classID, year, true
}

func (h *ScheduleEditorHandler) session(c *gin.Context) (*service.ScheduleEditorService, bool) {
	classID, year, ok := h.scope(c)
	if !ok {
		return nil, false
	}
	h.mu.Lock()
	editor, exists := h.editors[scopeKey(classID, year)]
	h.mu.Unlock()
	if !exists {
		response.Error(c, appErrors.Clone(appErrors.ErrSessionNotFound, "schedule editor is not open for this class and year"))
		return nil, false
	}
	return editor, true
}

func scopeKey(classID, academicYear string) string {
	return classID + "|" + academicYear
}

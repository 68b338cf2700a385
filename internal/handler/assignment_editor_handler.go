package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/Harati-Ahmed/My-School-platform-sub000/pkg/errors"
	"github.com/Harati-Ahmed/My-School-platform-sub000/pkg/response"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/dto"
	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/service"
)

// AssignmentEditorFactory creates one batch coordinator per editing session.
type AssignmentEditorFactory func() *service.AssignmentEditorService

// AssignmentEditorHandler exposes the multi-teacher assignment editor. Each
// session owns its draft set; reference lookups are shared across sessions
// through a dedicated service so their cache is reused.
type AssignmentEditorHandler struct {
	factory   AssignmentEditorFactory
	reference *service.AssignmentEditorService
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*service.AssignmentEditorService
}

// NewAssignmentEditorHandler constructs the handler.
func NewAssignmentEditorHandler(factory AssignmentEditorFactory, logger *zap.Logger) *AssignmentEditorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentEditorHandler{
		factory:   factory,
		reference: factory(),
		logger:    logger,
		sessions:  make(map[string]*service.AssignmentEditorService),
	}
}

// OpenTeacher godoc
// @Summary Load a teacher into the editing session
// @Tags Assignment Editor
// @Produce json
// @Param sid path string true "Session ID"
// @Param tid path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /assignment-editor/sessions/{sid}/teachers/{tid} [post]
func (h *AssignmentEditorHandler) OpenTeacher(c *gin.Context) {
	session := h.session(c, true)
	if session == nil {
		return
	}

	state, err := session.Open(c.Request.Context(), c.Param("tid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state)
}

// TeacherState godoc
// @Summary Current draft values for an open teacher
// @Tags Assignment Editor
// @Produce json
// @Param sid path string true "Session ID"
// @Param tid path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /assignment-editor/sessions/{sid}/teachers/{tid} [get]
func (h *AssignmentEditorHandler) TeacherState(c *gin.Context) {
	session := h.session(c, false)
	if session == nil {
		return
	}

	state, err := session.State(c.Param("tid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state)
}

// CloseTeacher godoc
// @Summary Drop a teacher's draft from the session
// @Tags Assignment Editor
// @Param sid path string true "Session ID"
// @Param tid path string true "Teacher ID"
// @Success 204
// @Router /assignment-editor/sessions/{sid}/teachers/{tid} [delete]
func (h *AssignmentEditorHandler) CloseTeacher(c *gin.Context) {
	session := h.session(c, false)
	if session == nil {
		return
	}
	session.Close(c.Param("tid"))
	response.NoContent(c)
}

// SetSubjects godoc
// @Summary Replace a teacher's drafted subject set
// @Tags Assignment Editor
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param tid path string true "Teacher ID"
// @Param payload body dto.SetSubjectsRequest true "Subjects"
// @Success 200 {object} response.Envelope
// @Router /assignment-editor/sessions/{sid}/teachers/{tid}/subjects [put]
func (h *AssignmentEditorHandler) SetSubjects(c *gin.Context) {
	session := h.session(c, false)
	if session == nil {
		return
	}

	var req dto.SetSubjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subjects payload"))
		return
	}
	if err := session.SetSubjects(c.Param("tid"), req.Subjects); err != nil {
		response.Error(c, err)
		return
	}
	h.respondState(c, session)
}

// SetGradeLevels godoc
// @Summary Replace a teacher's drafted grade levels, cascading class removals
// @Tags Assignment Editor
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param tid path string true "Teacher ID"
// @Param payload body dto.SetGradeLevelsRequest true "Grade levels"
// @Success 200 {object} response.Envelope
// @Router /assignment-editor/sessions/{sid}/teachers/{tid}/grade-levels [put]
func (h *AssignmentEditorHandler) SetGradeLevels(c *gin.Context) {
	session := h.session(c, false)
	if session == nil {
		return
	}

	var req dto.SetGradeLevelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade levels payload"))
		return
	}
	if err := session.SetGradeLevels(c.Param("tid"), req.GradeLevels); err != nil {
		response.Error(c, err)
		return
	}
	h.respondState(c, session)
}

// SetClasses godoc
// @Summary Replace the class selection for one grade level
// @Tags Assignment Editor
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param tid path string true "Teacher ID"
// @Param grade path string true "Grade level"
// @Param payload body dto.SetClassesRequest true "Class IDs"
// @Success 200 {object} response.Envelope
// @Router /assignment-editor/sessions/{sid}/teachers/{tid}/classes/{grade} [put]
func (h *AssignmentEditorHandler) SetClasses(c *gin.Context) {
	session := h.session(c, false)
	if session == nil {
		return
	}

	var req dto.SetClassesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classes payload"))
		return
	}
	if err := session.SetClasses(c.Param("tid"), c.Param("grade"), req.ClassIDs); err != nil {
		response.Error(c, err)
		return
	}
	h.respondState(c, session)
}

// Changes godoc
// @Summary Per-teacher dirty state for the session
// @Tags Assignment Editor
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /assignment-editor/sessions/{sid}/changes [get]
func (h *AssignmentEditorHandler) Changes(c *gin.Context) {
	session := h.session(c, false)
	if session == nil {
		return
	}
	h.respondState(c, session)
}

// Publish godoc
// @Summary Publish every dirty teacher's draft as one batch
// @Tags Assignment Editor
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /assignment-editor/sessions/{sid}/publish [post]
func (h *AssignmentEditorHandler) Publish(c *gin.Context) {
	session := h.session(c, false)
	if session == nil {
		return
	}

	published, err := session.PublishAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"published_teachers": published,
		"changes":            session.Changes(),
	})
}

// Discard godoc
// @Summary Reset every teacher's draft to its baseline
// @Tags Assignment Editor
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /assignment-editor/sessions/{sid}/discard [post]
func (h *AssignmentEditorHandler) Discard(c *gin.Context) {
	session := h.session(c, false)
	if session == nil {
		return
	}
	session.DiscardAll()
	h.respondState(c, session)
}

// CloseSession godoc
// @Summary End the editing session, dropping all drafts
// @Tags Assignment Editor
// @Param sid path string true "Session ID"
// @Success 204
// @Router /assignment-editor/sessions/{sid} [delete]
func (h *AssignmentEditorHandler) CloseSession(c *gin.Context) {
	h.mu.Lock()
	delete(h.sessions, c.Param("sid"))
	h.mu.Unlock()
	response.NoContent(c)
}

// Candidates godoc
// @Summary Subjects a teacher may be scheduled for
// @Tags Assignment Editor
// @Produce json
// @Param tid path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /assignment-editor/reference/teachers/{tid}/candidates [get]
func (h *AssignmentEditorHandler) Candidates(c *gin.Context) {
	candidates, err := h.reference.Candidates(c.Request.Context(), c.Param("tid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates)
}

// ClassRoster godoc
// @Summary Global class roster grouped by grade level
// @Tags Assignment Editor
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assignment-editor/reference/classes [get]
func (h *AssignmentEditorHandler) ClassRoster(c *gin.Context) {
	roster, err := h.reference.ClassRoster(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster)
}

func (h *AssignmentEditorHandler) respondState(c *gin.Context, session *service.AssignmentEditorService) {
	response.JSON(c, http.StatusOK, gin.H{
		"changes":     session.Changes(),
		"has_changes": session.HasChanges(),
	})
}

func (h *AssignmentEditorHandler) session(c *gin.Context, create bool) *service.AssignmentEditorService {
	sid := c.Param("sid")
	if sid == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session id is required"))
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	session, ok := h.sessions[sid]
	if !ok {
		if !create {
			response.Error(c, appErrors.Clone(appErrors.ErrSessionNotFound, "assignment editor session not found"))
			return nil
		}
		session = h.factory()
		h.sessions[sid] = session
	}
	return session
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harati-Ahmed/My-School-platform-sub000/pkg/cache"

	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/dto"
	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/models"
	"github.com/Harati-Ahmed/My-School-platform-sub000/internal/service"
)

type assignmentStoreMock struct {
	states    map[string]models.AssignmentState
	saveCalls int
}

func (m *assignmentStoreMock) FetchState(ctx context.Context, teacherID string) (models.AssignmentState, error) {
	state, ok := m.states[teacherID]
	if !ok {
		return models.NewAssignmentState(), nil
	}
	return state, nil
}

func (m *assignmentStoreMock) SaveUnits(ctx context.Context, units []models.AssignmentUnit) error {
	m.saveCalls++
	return nil
}

type referenceStoreMock struct{}

func (m *referenceStoreMock) ListCandidatesByTeacher(ctx context.Context, teacherID string) ([]models.AssignmentCandidate, error) {
	return []models.AssignmentCandidate{{TeacherID: teacherID, SubjectID: "subj-1", SubjectName: "Matematika"}}, nil
}

func (m *referenceStoreMock) ClassesByGrade(ctx context.Context) (map[string][]models.ClassOption, error) {
	return map[string][]models.ClassOption{
		"X": {{ID: "class-x1", Name: "X-1", GradeLevel: "X"}},
	}, nil
}

func newAssignmentHandler(store *assignmentStoreMock) *AssignmentEditorHandler {
	cacheSvc := service.NewCacheService(cache.NewMemoryStore(), nil, time.Minute, nil, true)
	factory := func() *service.AssignmentEditorService {
		return service.NewAssignmentEditorService(store, &referenceStoreMock{}, cacheSvc, nil, time.Minute, time.Minute, nil)
	}
	return NewAssignmentEditorHandler(factory, nil)
}

func testContext(t *testing.T, method, target string, body any, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	return c, w
}

func TestAssignmentEditorHandlerOpenCreatesSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &assignmentStoreMock{states: map[string]models.AssignmentState{}}
	handler := newAssignmentHandler(store)

	c, w := testContext(t, http.MethodPost, "/assignment-editor/sessions/s1/teachers/t1", nil, gin.Params{
		{Key: "sid", Value: "s1"},
		{Key: "tid", Value: "t1"},
	})
	handler.OpenTeacher(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = testContext(t, http.MethodGet, "/assignment-editor/sessions/s1/changes", nil, gin.Params{
		{Key: "sid", Value: "s1"},
	})
	handler.Changes(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAssignmentEditorHandlerUnknownSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAssignmentHandler(&assignmentStoreMock{})

	c, w := testContext(t, http.MethodGet, "/assignment-editor/sessions/missing/changes", nil, gin.Params{
		{Key: "sid", Value: "missing"},
	})
	handler.Changes(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignmentEditorHandlerSetSubjectsThenPublish(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &assignmentStoreMock{states: map[string]models.AssignmentState{}}
	handler := newAssignmentHandler(store)

	c, w := testContext(t, http.MethodPost, "/assignment-editor/sessions/s1/teachers/t1", nil, gin.Params{
		{Key: "sid", Value: "s1"},
		{Key: "tid", Value: "t1"},
	})
	handler.OpenTeacher(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = testContext(t, http.MethodPut, "/assignment-editor/sessions/s1/teachers/t1/subjects",
		dto.SetSubjectsRequest{Subjects: []string{"subj-1"}}, gin.Params{
			{Key: "sid", Value: "s1"},
			{Key: "tid", Value: "t1"},
		})
	handler.SetSubjects(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = testContext(t, http.MethodPost, "/assignment-editor/sessions/s1/publish", nil, gin.Params{
		{Key: "sid", Value: "s1"},
	})
	handler.Publish(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, store.saveCalls)
}

func TestAssignmentEditorHandlerSetSubjectsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAssignmentHandler(&assignmentStoreMock{})

	c, w := testContext(t, http.MethodPost, "/assignment-editor/sessions/s1/teachers/t1", nil, gin.Params{
		{Key: "sid", Value: "s1"},
		{Key: "tid", Value: "t1"},
	})
	handler.OpenTeacher(c)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/assignment-editor/sessions/s1/teachers/t1/subjects", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "sid", Value: "s1"}, {Key: "tid", Value: "t1"}}
	handler.SetSubjects(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentEditorHandlerCandidatesWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAssignmentHandler(&assignmentStoreMock{})

	c, w := testContext(t, http.MethodGet, "/assignment-editor/reference/teachers/t1/candidates", nil, gin.Params{
		{Key: "tid", Value: "t1"},
	})
	handler.Candidates(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/triage-api/internal/model"
)

type fakeIntakeService struct {
	snap    model.SymptomAssessmentData
	created *model.TriageSubmission
}

func (s *fakeIntakeService) Suggest(query string) []string {
	if query == "chest" {
		return []string{"Chest pain"}
	}
	return nil
}

func (s *fakeIntakeService) EvaluateAssessment([]string, model.AnswerMap) model.SymptomAssessmentData {
	return s.snap
}

func (s *fakeIntakeService) CreateSubmission(_ context.Context, req *model.CreateSubmissionRequest) (*model.TriageSubmission, error) {
	s.created.Name = req.Name
	return s.created, nil
}

func (s *fakeIntakeService) GetSubmission(context.Context, uuid.UUID) (*model.TriageSubmission, error) {
	return s.created, nil
}

func newTestRouter(svc *fakeIntakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestSuggestSymptoms(t *testing.T) {
	r := newTestRouter(&fakeIntakeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/symptoms/suggest?q=chest", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Suggestions []string `json:"suggestions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"Chest pain"}, resp.Data.Suggestions)
}

func TestEvaluateStripsRedFlags(t *testing.T) {
	svc := &fakeIntakeService{snap: model.SymptomAssessmentData{
		PrimarySymptom:   "Chest pain",
		SelectedSymptoms: []string{"Chest pain"},
		PainScore:        8,
		RedFlags:         []string{"Chest pain with radiation to arm/jaw — possible MI"},
	}}
	r := newTestRouter(svc)

	body := bytes.NewBufferString(`{"selected_symptoms":["Chest pain"],"follow_up_answers":{}}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessment/evaluate", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "red_flags")
	assert.NotContains(t, w.Body.String(), "possible MI")
	assert.Contains(t, w.Body.String(), `"pain_score":8`)
}

func TestCreateSubmissionReturnsReceiptOnly(t *testing.T) {
	svc := &fakeIntakeService{created: &model.TriageSubmission{
		ID:             uuid.New(),
		ChiefComplaint: "Chest pain",
		Status:         model.StatusWaiting,
		QueueOrder:     2,
		CreatedAt:      time.Now(),
		Assessment: &model.SymptomAssessmentData{
			SelectedSymptoms: []string{"Chest pain"},
			RedFlags:         []string{"potential cardiac event"},
		},
	}}
	r := newTestRouter(svc)

	body := bytes.NewBufferString(`{"name":"A","chief_complaint":"Chest pain"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/intake", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	// Displayed position is 1-based.
	assert.Contains(t, w.Body.String(), `"queue_position":3`)
	assert.NotContains(t, w.Body.String(), "cardiac")
}

func TestCreateSubmissionValidatesPayload(t *testing.T) {
	r := newTestRouter(&fakeIntakeService{})

	// chief_complaint is required.
	body := bytes.NewBufferString(`{"name":"A"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/intake", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

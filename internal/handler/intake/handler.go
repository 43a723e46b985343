package intake

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/triage-api/internal/model"
	"github.com/jwalitptl/triage-api/internal/service/intake"
	apperrors "github.com/jwalitptl/triage-api/pkg/errors"
	"github.com/jwalitptl/triage-api/pkg/httputil"
)

// Handler serves the patient-facing check-in surface. Responses here never
// include red flags or other clinician-only fields.
type Handler struct {
	service intake.IntakeService
}

func NewHandler(service intake.IntakeService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/symptoms/suggest", h.SuggestSymptoms)
	r.POST("/assessment/evaluate", h.EvaluateAssessment)
	r.POST("/intake", h.CreateSubmission)
}

// SuggestSymptoms returns catalog categories matching the q parameter.
// An empty query returns the whole catalog in definition order.
func (h *Handler) SuggestSymptoms(c *gin.Context) {
	httputil.RespondWithSuccess(c, gin.H{
		"suggestions": h.service.Suggest(c.Query("q")),
	})
}

type evaluateRequest struct {
	SelectedSymptoms []string        `json:"selected_symptoms"`
	FollowUpAnswers  model.AnswerMap `json:"follow_up_answers"`
}

// EvaluateAssessment re-runs the assessment engine over a client-held
// selection and answer set, so the kiosk can render visible follow-ups and
// the pain score without owning any of the rules.
func (h *Handler) EvaluateAssessment(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid assessment payload", err))
		return
	}

	snap := h.service.EvaluateAssessment(req.SelectedSymptoms, req.FollowUpAnswers)
	httputil.RespondWithSuccess(c, snap.PatientView())
}

func (h *Handler) CreateSubmission(c *gin.Context) {
	var req model.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid submission payload", err))
		return
	}

	sub, err := h.service.CreateSubmission(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, patientReceipt(sub))
}

// patientReceipt is what the kiosk shows after check-in: position, not
// clinical detail.
func patientReceipt(sub *model.TriageSubmission) gin.H {
	out := gin.H{
		"id":              sub.ID,
		"status":          sub.Status,
		"queue_position":  sub.QueueOrder + 1,
		"chief_complaint": sub.ChiefComplaint,
		"created_at":      sub.CreatedAt,
	}
	if sub.Assessment != nil {
		out["assessment"] = sub.Assessment.PatientView()
	}
	return out
}

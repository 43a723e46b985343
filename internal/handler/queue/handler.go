package queue

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/triage-api/internal/model"
	"github.com/jwalitptl/triage-api/internal/risk"
	"github.com/jwalitptl/triage-api/internal/service/intake"
	"github.com/jwalitptl/triage-api/internal/service/queue"
	apperrors "github.com/jwalitptl/triage-api/pkg/errors"
	"github.com/jwalitptl/triage-api/pkg/httputil"
)

// Handler serves the nurse dashboard: the ordered waiting queue, per-patient
// detail with the acuity score, reordering and triage decisions. Every route
// here sits behind the staff auth middleware.
type Handler struct {
	service queue.QueueService
	intake  intake.IntakeService
}

func NewHandler(service queue.QueueService, intakeSvc intake.IntakeService) *Handler {
	return &Handler{service: service, intake: intakeSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	q := r.Group("/queue")
	{
		q.GET("", h.ListQueue)
		q.GET("/stats", h.Stats)
		q.GET("/:id", h.GetSubmission)
		q.POST("/:id/move-up", h.MoveUp)
		q.POST("/:id/move-down", h.MoveDown)
		q.POST("/:id/position", h.SetPosition)
		q.POST("/:id/reorder", h.Reorder)
		q.POST("/:id/decision", h.Decide)
	}
}

// queueEntry is a waiting submission decorated with its derived acuity
// score and wait time for the dashboard table.
type queueEntry struct {
	*model.TriageSubmission
	RiskScore   int    `json:"risk_score"`
	RiskLabel   string `json:"risk_label"`
	RiskColor   string `json:"risk_color"`
	WaitMinutes int    `json:"wait_minutes"`
}

func newQueueEntry(sub *model.TriageSubmission, now time.Time) queueEntry {
	score := risk.Score(risk.FromSubmission(sub))
	return queueEntry{
		TriageSubmission: sub,
		RiskScore:        score,
		RiskLabel:        risk.Label(score),
		RiskColor:        risk.Color(score),
		WaitMinutes:      sub.WaitMinutes(now),
	}
}

func (h *Handler) ListQueue(c *gin.Context) {
	subs, err := h.service.ListWaiting(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	now := time.Now()
	entries := make([]queueEntry, 0, len(subs))
	for _, sub := range subs {
		entries = append(entries, newQueueEntry(sub, now))
	}
	httputil.RespondWithSuccess(c, gin.H{"queue": entries})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}

func (h *Handler) GetSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid submission id", err))
		return
	}

	sub, err := h.intake.GetSubmission(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, newQueueEntry(sub, time.Now()))
}

func (h *Handler) MoveUp(c *gin.Context) {
	h.reorderOp(c, func(id uuid.UUID) error {
		return h.service.MoveUp(c.Request.Context(), id)
	})
}

func (h *Handler) MoveDown(c *gin.Context) {
	h.reorderOp(c, func(id uuid.UUID) error {
		return h.service.MoveDown(c.Request.Context(), id)
	})
}

func (h *Handler) SetPosition(c *gin.Context) {
	var req model.SetPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid position payload", err))
		return
	}
	h.reorderOp(c, func(id uuid.UUID) error {
		return h.service.SetPosition(c.Request.Context(), id, req.Position)
	})
}

func (h *Handler) Reorder(c *gin.Context) {
	var req model.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid reorder payload", err))
		return
	}
	h.reorderOp(c, func(id uuid.UUID) error {
		return h.service.Move(c.Request.Context(), id, req.To)
	})
}

func (h *Handler) Decide(c *gin.Context) {
	var req model.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid decision payload", err))
		return
	}
	h.reorderOp(c, func(id uuid.UUID) error {
		return h.service.Decide(c.Request.Context(), id, req.Decision, req.TriageLevel)
	})
}

// reorderOp parses the path id, runs the mutation and returns the
// refreshed queue so the dashboard can redraw from one response.
func (h *Handler) reorderOp(c *gin.Context, op func(id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid submission id", err))
		return
	}
	if err := op(id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	h.ListQueue(c)
}

package intake

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/triage-api/internal/assessment"
	"github.com/jwalitptl/triage-api/internal/catalog"
	"github.com/jwalitptl/triage-api/internal/model"
	"github.com/jwalitptl/triage-api/internal/redflag"
	"github.com/jwalitptl/triage-api/internal/repository"
	"github.com/jwalitptl/triage-api/internal/service/triage"
	apperrors "github.com/jwalitptl/triage-api/pkg/errors"
	"github.com/jwalitptl/triage-api/pkg/logger"
	"github.com/jwalitptl/triage-api/pkg/metrics"
	"github.com/jwalitptl/triage-api/pkg/validator"
)

var validate = validator.New()

type IntakeService interface {
	Suggest(query string) []string
	EvaluateAssessment(selected []string, answers model.AnswerMap) model.SymptomAssessmentData
	CreateSubmission(ctx context.Context, req *model.CreateSubmissionRequest) (*model.TriageSubmission, error)
	GetSubmission(ctx context.Context, id uuid.UUID) (*model.TriageSubmission, error)
}

type Service struct {
	repo       repository.SubmissionRepository
	outboxRepo repository.OutboxRepository
	triage     triage.Client
	catalog    *catalog.Catalog
	rules      *redflag.Engine
	logger     *logger.Logger
	metrics    *metrics.Metrics

	// enrichTimeout bounds the background AI call, not the intake request.
	enrichTimeout time.Duration
}

func NewService(
	repo repository.SubmissionRepository,
	outboxRepo repository.OutboxRepository,
	triageClient triage.Client,
	cat *catalog.Catalog,
	rules *redflag.Engine,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:          repo,
		outboxRepo:    outboxRepo,
		triage:        triageClient,
		catalog:       cat,
		rules:         rules,
		logger:        log,
		metrics:       m,
		enrichTimeout: 30 * time.Second,
	}
}

func (s *Service) Suggest(query string) []string {
	return s.catalog.Suggest(query)
}

// EvaluateAssessment replays a client-held selection and answer set through
// the engine, so normalization, cascade and red-flag semantics are always
// the server's, never the client's.
func (s *Service) EvaluateAssessment(selected []string, answers model.AnswerMap) model.SymptomAssessmentData {
	session := assessment.NewSession(s.catalog, s.rules)
	for _, name := range selected {
		session.Select(name)
	}
	for id, a := range answers {
		session.SetAnswer(id, a)
	}
	return session.Snapshot()
}

func (s *Service) CreateSubmission(ctx context.Context, req *model.CreateSubmissionRequest) (*model.TriageSubmission, error) {
	if err := validate.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	sub := &model.TriageSubmission{
		ID:             uuid.New(),
		Name:           req.Name,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		ChiefComplaint: req.ChiefComplaint,
		SymptomOnset:   req.SymptomOnset,
		Medications:    req.Medications,
		Allergies:      req.Allergies,
		MedicalHistory: req.MedicalHistory,
		Vitals:         req.Vitals,
		Status:         model.StatusWaiting,
	}

	if req.Assessment != nil {
		snap := s.EvaluateAssessment(req.Assessment.SelectedSymptoms, req.Assessment.FollowUpAnswers)
		sub.Assessment = &snap
		sub.PainScore = snap.PainScore
		if s.metrics != nil {
			for _, rule := range snap.RedFlags {
				s.metrics.RedFlagsFired.WithLabelValues(rule).Inc()
			}
		}
	}

	order, err := s.repo.NextQueueOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to assign queue position: %w", err)
	}
	sub.QueueOrder = order

	if err := sub.MarshalJSONFields(); err != nil {
		return nil, fmt.Errorf("failed to marshal submission fields: %w", err)
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SubmissionsCreated.Inc()
	}

	s.emitEvent(ctx, model.EventSubmissionCreated, sub)

	// AI enrichment is fire-and-forget: the stored assessment is complete
	// and queueable whether or not the triage service ever answers.
	go s.enrich(sub)

	return sub, nil
}

func (s *Service) GetSubmission(ctx context.Context, id uuid.UUID) (*model.TriageSubmission, error) {
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("submission", err)
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if err := sub.UnmarshalJSONFields(); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission %s: %w", sub.ID, err)
	}
	return sub, nil
}

func (s *Service) enrich(sub *model.TriageSubmission) {
	ctx, cancel := context.WithTimeout(context.Background(), s.enrichTimeout)
	defer cancel()

	result, err := s.triage.Assess(ctx, sub)
	if err != nil {
		s.logger.Error(err, "triage call failed, using fallback", "submission_id", sub.ID)
		result = triage.Fallback()
	}

	sub.AITriageLevel = result.AITriageLevel
	sub.AISummary = result.AISummary
	sub.ConfidenceLevel = result.ConfidenceLevel
	sub.RedFlags = result.RedFlags
	sub.RiskSignals = result.RiskSignals
	sub.MissingQuestions = result.MissingQuestions
	sub.TriggeredBy = result.TriggeredBy

	if err := sub.MarshalJSONFields(); err != nil {
		s.logger.Error(err, "failed to marshal triage result", "submission_id", sub.ID)
		return
	}
	if err := s.repo.ApplyTriageResult(ctx, sub.ID, sub); err != nil {
		s.logger.Error(err, "failed to store triage result", "submission_id", sub.ID)
		return
	}

	s.emitEvent(ctx, model.EventTriageCompleted, map[string]interface{}{
		"submission_id":   sub.ID,
		"ai_triage_level": result.AITriageLevel,
	})
}

func (s *Service) emitEvent(ctx context.Context, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to marshal outbox payload", "event_type", eventType)
		return
	}
	if err := s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	}); err != nil {
		s.logger.Error(err, "failed to create outbox event", "event_type", eventType)
	}
}

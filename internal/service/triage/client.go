package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/triage-api/internal/config"
	"github.com/jwalitptl/triage-api/internal/model"
	"github.com/jwalitptl/triage-api/pkg/logger"
	"github.com/jwalitptl/triage-api/pkg/metrics"
)

// Client calls the external LLM-backed triage service. The service is an
// opaque collaborator: it receives the flat submission record and returns
// the structured assessment payload.
type Client interface {
	Assess(ctx context.Context, sub *model.TriageSubmission) (*model.TriageResult, error)
}

type httpClient struct {
	url      string
	apiKey   string
	client   *http.Client
	cache    *gocache.Cache
	cacheTTL time.Duration
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewHTTPClient(cfg config.TriageConfig, log *logger.Logger, m *metrics.Metrics) Client {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &httpClient{
		url:      cfg.URL,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
		cache:    gocache.New(ttl, 2*ttl),
		cacheTTL: ttl,
		logger:   log,
		metrics:  m,
	}
}

// assessRequest is the flat record the triage service expects.
type assessRequest struct {
	Name            string                       `json:"name"`
	DateOfBirth     string                       `json:"date_of_birth,omitempty"`
	Gender          string                       `json:"gender,omitempty"`
	ChiefComplaint  string                       `json:"chief_complaint"`
	SymptomOnset    string                       `json:"symptom_onset,omitempty"`
	PainScore       float64                      `json:"pain_score"`
	Symptoms        []string                     `json:"symptoms"`
	MedicalHistory  []string                     `json:"medical_history"`
	Medications     string                       `json:"medications,omitempty"`
	Allergies       string                       `json:"allergies,omitempty"`
	FollowUpAnswers model.AnswerMap              `json:"follow_up_answers,omitempty"`
	Vitals          *model.VitalSigns            `json:"vitals,omitempty"`
}

func (c *httpClient) Assess(ctx context.Context, sub *model.TriageSubmission) (*model.TriageResult, error) {
	key := sub.ID.String()
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*model.TriageResult), nil
	}

	start := time.Now()
	result, err := c.call(ctx, sub)
	if c.metrics != nil {
		c.metrics.TriageLatency.Observe(time.Since(start).Seconds())
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		c.metrics.TriageCalls.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, result, c.cacheTTL)
	return result, nil
}

func (c *httpClient) call(ctx context.Context, sub *model.TriageSubmission) (*model.TriageResult, error) {
	req := assessRequest{
		Name:           sub.Name,
		Gender:         sub.Gender,
		ChiefComplaint: sub.ChiefComplaint,
		SymptomOnset:   sub.SymptomOnset,
		PainScore:      sub.PainScore,
		MedicalHistory: sub.MedicalHistory,
		Medications:    sub.Medications,
		Allergies:      sub.Allergies,
		Vitals:         sub.Vitals,
	}
	if sub.DateOfBirth != nil {
		req.DateOfBirth = sub.DateOfBirth.Format("2006-01-02")
	}
	if sub.Assessment != nil {
		req.Symptoms = sub.Assessment.SelectedSymptoms
		req.FollowUpAnswers = sub.Assessment.FollowUpAnswers
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal triage request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build triage request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("triage service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("triage service returned status %d", resp.StatusCode)
	}

	var result model.TriageResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode triage response: %w", err)
	}

	switch result.AITriageLevel {
	case model.TriageLevelHigh, model.TriageLevelModerate, model.TriageLevelLow:
	default:
		return nil, fmt.Errorf("triage service returned unknown level %q", result.AITriageLevel)
	}

	return &result, nil
}

// Fallback is the degraded result used when the triage service fails:
// moderate priority with no confidence, so the submission still surfaces
// in the queue for manual triage.
func Fallback() *model.TriageResult {
	return &model.TriageResult{
		AITriageLevel:   model.TriageLevelModerate,
		AISummary:       "AI assessment unavailable. Please perform manual triage.",
		ConfidenceLevel: model.ConfidenceUnset,
	}
}

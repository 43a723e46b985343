package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/triage-api/internal/model"
	"github.com/jwalitptl/triage-api/internal/repository"
	apperrors "github.com/jwalitptl/triage-api/pkg/errors"
	"github.com/jwalitptl/triage-api/pkg/logger"
	"github.com/jwalitptl/triage-api/pkg/metrics"
)

type QueueService interface {
	ListWaiting(ctx context.Context) ([]*model.TriageSubmission, error)
	Stats(ctx context.Context) (*Stats, error)
	MoveUp(ctx context.Context, id uuid.UUID) error
	MoveDown(ctx context.Context, id uuid.UUID) error
	SetPosition(ctx context.Context, id uuid.UUID, position int) error
	Move(ctx context.Context, id uuid.UUID, to int) error
	Decide(ctx context.Context, id uuid.UUID, decision model.NurseDecision, level *model.TriageLevel) error
}

// Stats summarizes the waiting queue for the dashboard header.
type Stats struct {
	Waiting       int `json:"waiting"`
	HighCount     int `json:"high_count"`
	ModerateCount int `json:"moderate_count"`
	PendingReview int `json:"pending_review"`
	AvgWaitMins   int `json:"avg_wait_minutes"`
}

// Service maintains the explicit total order over waiting submissions.
// Every operation re-reads the current order, mutates it in memory and
// persists the full renumbering in one transaction; concurrent stations
// resolve as last-write-wins.
type Service struct {
	repo       repository.SubmissionRepository
	outboxRepo repository.OutboxRepository
	logger     *logger.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewService(
	repo repository.SubmissionRepository,
	outboxRepo repository.OutboxRepository,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:       repo,
		outboxRepo: outboxRepo,
		logger:     log,
		metrics:    m,
		now:        time.Now,
	}
}

func (s *Service) ListWaiting(ctx context.Context) ([]*model.TriageSubmission, error) {
	subs, err := s.repo.ListWaiting(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	for _, sub := range subs {
		if err := sub.UnmarshalJSONFields(); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submission %s: %w", sub.ID, err)
		}
	}
	if s.metrics != nil {
		s.metrics.QueueDepth.Set(float64(len(subs)))
	}
	return subs, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	subs, err := s.ListWaiting(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Waiting: len(subs)}
	totalWait := 0
	now := s.now()
	for _, sub := range subs {
		switch sub.AITriageLevel {
		case model.TriageLevelHigh:
			stats.HighCount++
		case model.TriageLevelModerate:
			stats.ModerateCount++
		}
		if sub.NurseDecision == nil {
			stats.PendingReview++
		}
		totalWait += sub.WaitMinutes(now)
	}
	if len(subs) > 0 {
		stats.AvgWaitMins = totalWait / len(subs)
	}
	return stats, nil
}

// MoveUp swaps a submission with the one above it; the first element is a
// boundary no-op.
func (s *Service) MoveUp(ctx context.Context, id uuid.UUID) error {
	return s.reorder(ctx, id, "move_up", func(idx, n int) int {
		if idx == 0 {
			return idx
		}
		return idx - 1
	})
}

// MoveDown swaps a submission with the one below it; the last element is a
// boundary no-op.
func (s *Service) MoveDown(ctx context.Context, id uuid.UUID) error {
	return s.reorder(ctx, id, "move_down", func(idx, n int) int {
		if idx == n-1 {
			return idx
		}
		return idx + 1
	})
}

// SetPosition moves a submission to a 1-based position as typed by a
// nurse. Targets outside [1, len] are clamped, not rejected.
func (s *Service) SetPosition(ctx context.Context, id uuid.UUID, position int) error {
	return s.reorder(ctx, id, "set_position", func(idx, n int) int {
		target := position
		if target < 1 {
			target = 1
		}
		if target > n {
			target = n
		}
		return target - 1
	})
}

// Move performs a drag reorder to a 0-based destination index.
func (s *Service) Move(ctx context.Context, id uuid.UUID, to int) error {
	return s.reorder(ctx, id, "drag", func(idx, n int) int {
		target := to
		if target < 0 {
			target = 0
		}
		if target > n-1 {
			target = n - 1
		}
		return target
	})
}

// reorder loads the waiting queue, applies the array move and renumbers
// every element to its new index. The displayed rank (index + 1) and the
// stored queue_order must always agree once the call returns.
func (s *Service) reorder(ctx context.Context, id uuid.UUID, operation string, target func(idx, n int) int) error {
	subs, err := s.repo.ListWaiting(ctx)
	if err != nil {
		return fmt.Errorf("failed to load queue: %w", err)
	}

	from := indexOf(subs, id)
	if from < 0 {
		return apperrors.Conflict("submission is not in the waiting queue")
	}

	to := target(from, len(subs))
	if to == from {
		return nil
	}

	moved := arrayMove(subs, from, to)
	updates := renumber(moved)
	if err := s.repo.UpdateQueueOrders(ctx, updates); err != nil {
		return fmt.Errorf("failed to persist queue order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.QueueReorders.WithLabelValues(operation).Inc()
	}
	s.emitEvent(ctx, model.EventQueueReordered, map[string]interface{}{
		"submission_id": id,
		"operation":     operation,
		"from":          from,
		"to":            to,
	})
	return nil
}

// Decide records an accept/override and removes the submission from the
// waiting order; the remaining elements compact to a contiguous 0..n-1.
func (s *Service) Decide(ctx context.Context, id uuid.UUID, decision model.NurseDecision, level *model.TriageLevel) error {
	if decision == model.DecisionOverride && level == nil {
		return apperrors.BadRequest("override requires a corrected triage level", nil)
	}

	subs, err := s.repo.ListWaiting(ctx)
	if err != nil {
		return fmt.Errorf("failed to load queue: %w", err)
	}
	idx := indexOf(subs, id)
	if idx < 0 {
		return apperrors.Conflict("submission is not in the waiting queue")
	}

	if err := s.repo.UpdateDecision(ctx, id, decision, level); err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}

	remaining := append(append([]*model.TriageSubmission(nil), subs[:idx]...), subs[idx+1:]...)
	if err := s.repo.UpdateQueueOrders(ctx, renumber(remaining)); err != nil {
		return fmt.Errorf("failed to compact queue: %w", err)
	}

	if s.metrics != nil {
		s.metrics.NurseDecisions.WithLabelValues(string(decision)).Inc()
	}
	s.emitEvent(ctx, model.EventNurseDecision, map[string]interface{}{
		"submission_id": id,
		"decision":      decision,
		"triage_level":  level,
	})
	return nil
}

func indexOf(subs []*model.TriageSubmission, id uuid.UUID) int {
	for i, sub := range subs {
		if sub.ID == id {
			return i
		}
	}
	return -1
}

// arrayMove shifts the element at from to index to, sliding the elements
// in between by one. It returns a new slice.
func arrayMove(subs []*model.TriageSubmission, from, to int) []*model.TriageSubmission {
	out := append([]*model.TriageSubmission(nil), subs...)
	elem := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]*model.TriageSubmission{elem}, out[to:]...)...)
	return out
}

// renumber assigns every element its array index as queue order.
func renumber(subs []*model.TriageSubmission) []repository.QueueOrderUpdate {
	updates := make([]repository.QueueOrderUpdate, 0, len(subs))
	for i, sub := range subs {
		sub.QueueOrder = i
		updates = append(updates, repository.QueueOrderUpdate{ID: sub.ID, QueueOrder: i})
	}
	return updates
}

func (s *Service) emitEvent(ctx context.Context, eventType string, payload interface{}) {
	if s.outboxRepo == nil {
		return
	}
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

package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/triage-api/internal/model"
)

// QueueOrderUpdate is one (id, order) pair of a queue renumbering batch.
// Writes are idempotent by construction.
type QueueOrderUpdate struct {
	ID         uuid.UUID
	QueueOrder int
}

type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.TriageSubmission) error
	Get(ctx context.Context, id uuid.UUID) (*model.TriageSubmission, error)
	// ListWaiting returns all waiting submissions ordered by queue_order.
	ListWaiting(ctx context.Context) ([]*model.TriageSubmission, error)
	// NextQueueOrder returns the order value for a new arrival (end of queue).
	NextQueueOrder(ctx context.Context) (int, error)
	// ApplyTriageResult writes the AI enrichment fields onto a stored row.
	ApplyTriageResult(ctx context.Context, id uuid.UUID, sub *model.TriageSubmission) error
	// UpdateQueueOrders applies a renumbering batch in one transaction:
	// either every shifted row gets its new order or none does.
	UpdateQueueOrders(ctx context.Context, updates []QueueOrderUpdate) error
	// UpdateDecision records the nurse decision and moves the submission to
	// in_treatment.
	UpdateDecision(ctx context.Context, id uuid.UUID, decision model.NurseDecision, level *model.TriageLevel) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	// GetPending returns publishable events: PENDING rows plus RETRY rows
	// whose retry_at has passed.
	GetPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	// MarkFailed records a failed publish attempt on the event, scheduling a
	// retry or parking it as FAILED per the model's retry policy.
	MarkFailed(ctx context.Context, event *model.OutboxEvent, errMsg string) error
}

type StaffRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.StaffUser, error)
	Create(ctx context.Context, user *model.StaffUser) error
}

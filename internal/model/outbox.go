package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusRetry     OutboxStatus = "RETRY"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Publish retry policy. RETRY rows are picked up again once their retry_at
// passes; after MaxPublishAttempts the event is parked as FAILED, which is
// terminal and needs operator attention.
const (
	MaxPublishAttempts = 5
	PublishRetryDelay  = time.Minute
)

// Domain event types drained from the outbox to the broker.
const (
	EventSubmissionCreated = "SUBMISSION_CREATE"
	EventTriageCompleted   = "TRIAGE_COMPLETE"
	EventQueueReordered    = "QUEUE_REORDER"
	EventNurseDecision     = "NURSE_DECISION"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       string          `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	RetryAt      *time.Time      `db:"retry_at" json:"retry_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// RegisterFailure records one failed publish attempt and computes the next
// disposition: schedule a retry with a fixed delay, or park the event as
// FAILED once the attempt cap is reached.
func (e *OutboxEvent) RegisterFailure(errMsg string, now time.Time) {
	e.RetryCount++
	e.ErrorMessage = &errMsg
	e.UpdatedAt = now

	if e.RetryCount >= MaxPublishAttempts {
		e.Status = string(OutboxStatusFailed)
		e.RetryAt = nil
		return
	}
	at := now.Add(PublishRetryDelay)
	e.Status = string(OutboxStatusRetry)
	e.RetryAt = &at
}

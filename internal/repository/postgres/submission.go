package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/triage-api/internal/model"
	"github.com/jwalitptl/triage-api/internal/repository"
)

type submissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, sub *model.TriageSubmission) error {
	query := `
		INSERT INTO submissions (
			id, name, date_of_birth, gender, chief_complaint, symptom_onset,
			pain_score, medications, allergies, medical_history, vitals, assessment,
			ai_triage_level, ai_summary, confidence_level, red_flags, risk_signals,
			missing_questions, triggered_by, status, queue_order, created_at, updated_at
		) VALUES (
			:id, :name, :date_of_birth, :gender, :chief_complaint, :symptom_onset,
			:pain_score, :medications, :allergies, :medical_history, :vitals, :assessment,
			:ai_triage_level, :ai_summary, :confidence_level, :red_flags, :risk_signals,
			:missing_questions, :triggered_by, :status, :queue_order, :created_at, :updated_at
		)
	`
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = time.Now()

	_, err := r.db.NamedExecContext(ctx, query, sub)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) Get(ctx context.Context, id uuid.UUID) (*model.TriageSubmission, error) {
	query := `SELECT * FROM submissions WHERE id = $1`
	var sub model.TriageSubmission
	if err := r.db.GetContext(ctx, &sub, query, id); err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &sub, nil
}

func (r *submissionRepository) ListWaiting(ctx context.Context) ([]*model.TriageSubmission, error) {
	query := `SELECT * FROM submissions WHERE status = $1 ORDER BY queue_order ASC`
	var subs []*model.TriageSubmission
	if err := r.db.SelectContext(ctx, &subs, query, model.StatusWaiting); err != nil {
		return nil, fmt.Errorf("failed to list waiting submissions: %w", err)
	}
	return subs, nil
}

func (r *submissionRepository) NextQueueOrder(ctx context.Context) (int, error) {
	query := `SELECT COALESCE(MAX(queue_order) + 1, 0) FROM submissions WHERE status = $1`
	var next int
	if err := r.db.GetContext(ctx, &next, query, model.StatusWaiting); err != nil {
		return 0, fmt.Errorf("failed to compute next queue order: %w", err)
	}
	return next, nil
}

func (r *submissionRepository) ApplyTriageResult(ctx context.Context, id uuid.UUID, sub *model.TriageSubmission) error {
	query := `
		UPDATE submissions SET
			ai_triage_level = $1, ai_summary = $2, confidence_level = $3,
			red_flags = $4, risk_signals = $5, missing_questions = $6,
			triggered_by = $7, updated_at = $8
		WHERE id = $9
	`
	_, err := r.db.ExecContext(ctx, query,
		sub.AITriageLevel,
		sub.AISummary,
		sub.ConfidenceLevel,
		sub.RedFlagsJSON,
		sub.RiskSignalsJSON,
		sub.MissingQsJSON,
		sub.TriggeredByJSON,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to apply triage result: %w", err)
	}
	return nil
}

// UpdateQueueOrders renumbers the affected rows in one transaction so the
// stored order can never be left partially shifted.
func (r *submissionRepository) UpdateQueueOrders(ctx context.Context, updates []repository.QueueOrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin reorder transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE submissions SET queue_order = $1, updated_at = $2 WHERE id = $3`
	now := time.Now()
	for _, u := range updates {
		if _, err := tx.ExecContext(ctx, query, u.QueueOrder, now, u.ID); err != nil {
			return fmt.Errorf("failed to update queue order for %s: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder transaction: %w", err)
	}
	return nil
}

func (r *submissionRepository) UpdateDecision(ctx context.Context, id uuid.UUID, decision model.NurseDecision, level *model.TriageLevel) error {
	query := `
		UPDATE submissions SET
			nurse_decision = $1, nurse_triage_level = $2, status = $3, updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, decision, level, model.StatusInTreatment, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to record nurse decision: %w", err)
	}
	return nil
}

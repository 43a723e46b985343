package model

import (
	"time"

	"github.com/google/uuid"
)

type TriageLevel string

const (
	TriageLevelHigh     TriageLevel = "high"
	TriageLevelModerate TriageLevel = "moderate"
	TriageLevelLow      TriageLevel = "low"
	TriageLevelUnset    TriageLevel = ""
)

type ConfidenceLevel string

const (
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceModerate ConfidenceLevel = "moderate"
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceUnset    ConfidenceLevel = ""
)

type SubmissionStatus string

const (
	StatusWaiting     SubmissionStatus = "waiting"
	StatusInTreatment SubmissionStatus = "in_treatment"
)

type NurseDecision string

const (
	DecisionAccept   NurseDecision = "accept"
	DecisionOverride NurseDecision = "override"
)

// VitalSigns carries self-reported or wearable-sourced vitals. The validate
// ranges are physiological plausibility bounds, not clinical thresholds.
type VitalSigns struct {
	HeartRate   *int     `json:"heart_rate,omitempty" validate:"omitempty,min=20,max=300"`
	SpO2        *int     `json:"spo2,omitempty" validate:"omitempty,min=0,max=100"`
	Temperature *float64 `json:"temperature,omitempty" validate:"omitempty,min=25,max=45"`
	SleepHours  *float64 `json:"sleep_hours,omitempty" validate:"omitempty,min=0,max=24"`
}

// TriageSubmission is one patient check-in as stored and queued for nurse
// review. Among all submissions with Status == StatusWaiting, QueueOrder
// forms a contiguous strict total order matching the displayed rank.
type TriageSubmission struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	DateOfBirth    *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender         string     `db:"gender" json:"gender,omitempty"`
	ChiefComplaint string     `db:"chief_complaint" json:"chief_complaint"`
	SymptomOnset   string     `db:"symptom_onset" json:"symptom_onset,omitempty"`
	PainScore      float64    `db:"pain_score" json:"pain_score"`
	Medications    string     `db:"medications" json:"medications,omitempty"`
	Allergies      string     `db:"allergies" json:"allergies,omitempty"`

	MedicalHistory     []string               `db:"-" json:"medical_history,omitempty"`
	MedicalHistoryJSON string                 `db:"medical_history" json:"-"`
	Vitals             *VitalSigns            `db:"-" json:"vitals,omitempty"`
	VitalsJSON         string                 `db:"vitals" json:"-"`
	Assessment         *SymptomAssessmentData `db:"-" json:"assessment,omitempty"`
	AssessmentJSON     string                 `db:"assessment" json:"-"`

	AITriageLevel    TriageLevel     `db:"ai_triage_level" json:"ai_triage_level"`
	AISummary        string          `db:"ai_summary" json:"ai_summary,omitempty"`
	ConfidenceLevel  ConfidenceLevel `db:"confidence_level" json:"confidence_level"`
	RedFlags         []string        `db:"-" json:"red_flags,omitempty"`
	RedFlagsJSON     string          `db:"red_flags" json:"-"`
	RiskSignals      []string        `db:"-" json:"risk_signals,omitempty"`
	RiskSignalsJSON  string          `db:"risk_signals" json:"-"`
	MissingQuestions []string        `db:"-" json:"missing_questions,omitempty"`
	MissingQsJSON    string          `db:"missing_questions" json:"-"`
	TriggeredBy      []string        `db:"-" json:"triggered_by,omitempty"`
	TriggeredByJSON  string          `db:"triggered_by" json:"-"`

	Status           SubmissionStatus `db:"status" json:"status"`
	QueueOrder       int              `db:"queue_order" json:"queue_order"`
	NurseDecision    *NurseDecision   `db:"nurse_decision" json:"nurse_decision,omitempty"`
	NurseTriageLevel *TriageLevel     `db:"nurse_triage_level" json:"nurse_triage_level,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WaitMinutes is the dashboard wait clock, measured from check-in.
func (s *TriageSubmission) WaitMinutes(now time.Time) int {
	return int(now.Sub(s.CreatedAt).Minutes())
}

// TriageResult is the payload returned by the external AI triage service.
type TriageResult struct {
	AITriageLevel    TriageLevel     `json:"ai_triage_level"`
	AISummary        string          `json:"ai_summary"`
	RedFlags         []string        `json:"red_flags"`
	RiskSignals      []string        `json:"risk_signals"`
	MissingQuestions []string        `json:"missing_questions"`
	ConfidenceLevel  ConfidenceLevel `json:"confidence_level"`
	TriggeredBy      []string        `json:"triggered_by"`
}

type CreateSubmissionRequest struct {
	Name           string                 `json:"name" binding:"required"`
	DateOfBirth    *time.Time             `json:"date_of_birth"`
	Gender         string                 `json:"gender"`
	ChiefComplaint string                 `json:"chief_complaint" binding:"required"`
	SymptomOnset   string                 `json:"symptom_onset"`
	Medications    string                 `json:"medications"`
	Allergies      string                 `json:"allergies"`
	MedicalHistory []string               `json:"medical_history"`
	Vitals         *VitalSigns            `json:"vitals" validate:"omitempty"`
	Assessment     *SymptomAssessmentData `json:"assessment"`
}

type DecisionRequest struct {
	Decision    NurseDecision `json:"decision" binding:"required,oneof=accept override"`
	TriageLevel *TriageLevel  `json:"triage_level" binding:"omitempty,oneof=high moderate low"`
}

type SetPositionRequest struct {
	// 1-based position as shown to nurses; clamped to the queue length.
	Position int `json:"position" binding:"required"`
}

type ReorderRequest struct {
	// Destination index (0-based) for a drag move.
	To int `json:"to"`
}

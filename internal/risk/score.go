package risk

import (
	"math"

	"github.com/jwalitptl/triage-api/internal/model"
)

// Signals are the inputs to the acuity score: the AI-assigned triage level
// and confidence, plus the counts of flags, risk signals and unanswered
// critical questions. Content of the arrays does not matter, only counts.
type Signals struct {
	Level            model.TriageLevel
	Confidence       model.ConfidenceLevel
	RedFlagCount     int
	RiskSignalCount  int
	MissingQuestions int
}

// FromSubmission derives the scoring signals from a stored submission.
// Absent values score as zero; a submission the AI never enriched still
// gets a (low) deterministic score.
func FromSubmission(sub *model.TriageSubmission) Signals {
	if sub == nil {
		return Signals{}
	}
	return Signals{
		Level:            sub.AITriageLevel,
		Confidence:       sub.ConfidenceLevel,
		RedFlagCount:     len(sub.RedFlags),
		RiskSignalCount:  len(sub.RiskSignals),
		MissingQuestions: len(sub.MissingQuestions),
	}
}

// Score maps the signals to a bounded [0, 100] acuity score. The triage
// level is the primary driver; confidence modifies it, red flags and risk
// signals add capped bonuses, and missing information is penalized.
func Score(s Signals) int {
	var score float64

	switch s.Level {
	case model.TriageLevelHigh:
		score += 50
	case model.TriageLevelModerate:
		score += 25
	case model.TriageLevelLow:
		score += 5
	}

	switch s.Confidence {
	case model.ConfidenceHigh:
		score += 15
	case model.ConfidenceModerate:
		score += 8
	case model.ConfidenceLow:
		score += 2
	}

	score += math.Min(float64(s.RedFlagCount)*3, 15)
	score += math.Min(float64(s.RiskSignalCount)*2, 10)
	score -= math.Min(float64(s.MissingQuestions)*3, 15)

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// Label buckets the score into the qualitative severity tiers shown in
// text (70/45/20).
func Label(score int) string {
	switch {
	case score >= 70:
		return "Critical"
	case score >= 45:
		return "High"
	case score >= 20:
		return "Moderate"
	default:
		return "Low"
	}
}

// Color buckets the score into visual tiers. The top band starts at 75,
// not 70 as in Label; the tables intentionally stay separate (see
// DESIGN.md before unifying them).
func Color(score int) string {
	switch {
	case score >= 75:
		return "red"
	case score >= 45:
		return "orange"
	case score >= 20:
		return "yellow"
	default:
		return "green"
	}
}

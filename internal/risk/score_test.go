package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/triage-api/internal/model"
)

func TestScoreComponents(t *testing.T) {
	// 50 + 15 + 6 + 2 - 3 = 70
	s := Signals{
		Level:            model.TriageLevelHigh,
		Confidence:       model.ConfidenceHigh,
		RedFlagCount:     2,
		RiskSignalCount:  1,
		MissingQuestions: 1,
	}
	assert.Equal(t, 70, Score(s))
}

func TestScoreCapsBonusesAndPenalty(t *testing.T) {
	// Flags cap at 15, signals at 10, missing at 15 regardless of count.
	s := Signals{
		Level:            model.TriageLevelHigh,
		Confidence:       model.ConfidenceHigh,
		RedFlagCount:     100,
		RiskSignalCount:  100,
		MissingQuestions: 100,
	}
	// 50 + 15 + 15 + 10 - 15 = 75
	assert.Equal(t, 75, Score(s))
}

func TestScoreClampsToZero(t *testing.T) {
	s := Signals{MissingQuestions: 10}
	assert.Equal(t, 0, Score(s))
}

func TestScoreUnenrichedSubmission(t *testing.T) {
	// No AI result at all: level and confidence unset, nothing counted.
	assert.Equal(t, 0, Score(FromSubmission(&model.TriageSubmission{})))
	assert.Equal(t, 0, Score(FromSubmission(nil)))
}

func TestFromSubmissionCountsArrays(t *testing.T) {
	sub := &model.TriageSubmission{
		AITriageLevel:    model.TriageLevelModerate,
		ConfidenceLevel:  model.ConfidenceModerate,
		RedFlags:         []string{"a", "b"},
		RiskSignals:      []string{"c"},
		MissingQuestions: []string{"d", "e"},
	}
	s := FromSubmission(sub)
	assert.Equal(t, 2, s.RedFlagCount)
	assert.Equal(t, 1, s.RiskSignalCount)
	assert.Equal(t, 2, s.MissingQuestions)
	// 25 + 8 + 6 + 2 - 6 = 35
	assert.Equal(t, 35, Score(s))
}

func TestLabelBands(t *testing.T) {
	assert.Equal(t, "Critical", Label(70))
	assert.Equal(t, "High", Label(69))
	assert.Equal(t, "High", Label(45))
	assert.Equal(t, "Moderate", Label(44))
	assert.Equal(t, "Moderate", Label(20))
	assert.Equal(t, "Low", Label(19))
	assert.Equal(t, "Low", Label(0))
}

func TestColorBands(t *testing.T) {
	assert.Equal(t, "red", Color(75))
	assert.Equal(t, "orange", Color(74))
	assert.Equal(t, "orange", Color(45))
	assert.Equal(t, "yellow", Color(44))
	assert.Equal(t, "yellow", Color(20))
	assert.Equal(t, "green", Color(19))
}

func TestLabelAndColorDivergeBetween70And74(t *testing.T) {
	// The textual tier flips to Critical at 70 while the visual tier stays
	// orange until 75. The two tables are intentionally independent.
	for score := 70; score < 75; score++ {
		assert.Equal(t, "Critical", Label(score))
		assert.Equal(t, "orange", Color(score))
	}
}

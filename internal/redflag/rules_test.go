package redflag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/triage-api/internal/model"
)

func TestCardiacComboRule(t *testing.T) {
	e := NewDefaultEngine()

	fired := e.Evaluate([]string{"Chest pain", "Shortness of breath"}, nil)
	assert.Contains(t, fired, "Chest pain + shortness of breath — potential cardiac event")

	// Either symptom alone is not enough.
	assert.Empty(t, e.Evaluate([]string{"Chest pain"}, nil))
	assert.Empty(t, e.Evaluate([]string{"Shortness of breath"}, nil))
}

func TestStrokeRule(t *testing.T) {
	e := NewDefaultEngine()

	fired := e.Evaluate([]string{"Numbness", "Difficulty speaking"}, nil)
	assert.Contains(t, fired, "Sudden numbness + difficulty speaking — possible stroke")

	fired = e.Evaluate([]string{"Numbness", "Slurred speech"}, nil)
	assert.Contains(t, fired, "Sudden numbness + difficulty speaking — possible stroke")

	assert.Empty(t, e.Evaluate([]string{"Numbness"}, nil))
}

func TestWorstHeadacheRule(t *testing.T) {
	e := NewDefaultEngine()

	fired := e.Evaluate(nil, model.AnswerMap{
		"headache_worst": model.OptionAnswer("Yes"),
	})
	assert.Contains(t, fired, "Worst headache of life — rule out subarachnoid hemorrhage")

	assert.Empty(t, e.Evaluate(nil, model.AnswerMap{
		"headache_worst": model.OptionAnswer("No"),
	}))
}

func TestRadiationRule(t *testing.T) {
	e := NewDefaultEngine()
	msg := "Chest pain with radiation to arm/jaw — possible MI"

	fired := e.Evaluate([]string{"Chest pain"}, model.AnswerMap{
		"chest_radiation": model.OptionsAnswer([]string{"Jaw"}),
	})
	assert.Contains(t, fired, msg)

	// Radiation elsewhere does not fire.
	fired = e.Evaluate([]string{"Chest pain"}, model.AnswerMap{
		"chest_radiation": model.OptionsAnswer([]string{"Back", "Neck"}),
	})
	assert.NotContains(t, fired, msg)

	// The answer without the symptom selection does not fire.
	fired = e.Evaluate([]string{"Headache"}, model.AnswerMap{
		"chest_radiation": model.OptionsAnswer([]string{"Jaw"}),
	})
	assert.NotContains(t, fired, msg)
}

func TestSepsisRuleThreshold(t *testing.T) {
	e := NewDefaultEngine()
	msg := "High fever with altered mental status — potential sepsis"

	eval := func(temp model.Answer) []string {
		return e.Evaluate([]string{"Fever"}, model.AnswerMap{"fever_temp": temp})
	}

	assert.NotContains(t, eval(model.TextAnswer("38.9")), msg)
	assert.Contains(t, eval(model.TextAnswer("39")), msg)
	assert.Contains(t, eval(model.TextAnswer(" 39.5 ")), msg)
	assert.Contains(t, eval(model.NumberAnswer(40)), msg)

	// Temperatures typed with a trailing unit parse by their numeric prefix.
	assert.Contains(t, eval(model.TextAnswer("39C")), msg)
	assert.Contains(t, eval(model.TextAnswer("39.2 °C")), msg)

	// Answers with no leading number count as zero, so the rule stays quiet.
	assert.NotContains(t, eval(model.TextAnswer("very high")), msg)
	assert.NotContains(t, eval(model.TextAnswer("C39")), msg)
}

func TestSurgicalAbdomenRule(t *testing.T) {
	e := NewDefaultEngine()
	msg := "Severe abdominal pain — possible surgical emergency"

	fired := e.Evaluate([]string{"Abdominal pain"}, model.AnswerMap{
		"abdominal_pain_score": model.NumberAnswer(8),
	})
	assert.Contains(t, fired, msg)

	fired = e.Evaluate([]string{"Abdominal pain"}, model.AnswerMap{
		"abdominal_pain_score": model.NumberAnswer(7),
	})
	assert.NotContains(t, fired, msg)
}

func TestRulesFireIndependentlyInOrder(t *testing.T) {
	e := NewDefaultEngine()

	fired := e.Evaluate(
		[]string{"Chest pain", "Shortness of breath"},
		model.AnswerMap{
			"chest_radiation": model.OptionsAnswer([]string{"Left arm"}),
			"headache_worst":  model.OptionAnswer("Yes"),
		},
	)

	assert.Equal(t, []string{
		"Chest pain + shortness of breath — potential cardiac event",
		"Worst headache of life — rule out subarachnoid hemorrhage",
		"Chest pain with radiation to arm/jaw — possible MI",
	}, fired)
}

func TestNoInputNoFlags(t *testing.T) {
	e := NewDefaultEngine()
	assert.Empty(t, e.Evaluate(nil, nil))
}

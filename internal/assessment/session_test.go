package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/triage-api/internal/catalog"
	"github.com/jwalitptl/triage-api/internal/model"
	"github.com/jwalitptl/triage-api/internal/redflag"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	cat, err := catalog.Default(nil)
	require.NoError(t, err)
	return NewSession(cat, redflag.NewDefaultEngine())
}

func TestSelectIsIdempotentAndOrdered(t *testing.T) {
	s := newTestSession(t)
	s.Select("Headache")
	s.Select("Fever")
	s.Select("Headache")

	assert.Equal(t, []string{"Headache", "Fever"}, s.Selected())

	snap := s.Snapshot()
	assert.Equal(t, "Headache", snap.PrimarySymptom)
}

func TestFreeFormSymptomIsKept(t *testing.T) {
	s := newTestSession(t)
	s.Select("Weird tingling in ears")

	snap := s.Snapshot()
	assert.Equal(t, []string{"Weird tingling in ears"}, snap.SelectedSymptoms)
	assert.Zero(t, snap.PainScore)
	assert.Empty(t, snap.RedFlags)
}

func TestDeselectCascadesAnswers(t *testing.T) {
	s := newTestSession(t)
	s.Select("Headache")
	s.Select("Fever")
	s.SetAnswer("headache_pain_score", model.NumberAnswer(6))
	s.SetAnswer("headache_worst", model.OptionAnswer("No"))
	s.SetAnswer("fever_temp", model.TextAnswer("38.2"))

	s.Deselect("Headache")

	answers := s.Answers()
	assert.False(t, answers.Has("headache_pain_score"))
	assert.False(t, answers.Has("headache_worst"))
	// Other categories keep their answers.
	assert.True(t, answers.Has("fever_temp"))
	assert.Equal(t, []string{"Fever"}, s.Selected())
}

func TestDeselectUnknownIsNoOp(t *testing.T) {
	s := newTestSession(t)
	s.Select("Fever")
	s.Deselect("Headache")
	assert.Equal(t, []string{"Fever"}, s.Selected())
}

func TestSliderAnswersAreClampedToRange(t *testing.T) {
	s := newTestSession(t)
	s.Select("Headache")

	s.SetAnswer("headache_pain_score", model.NumberAnswer(14))
	n, ok := s.Answers().Number("headache_pain_score")
	require.True(t, ok)
	assert.Equal(t, 10.0, n)

	s.SetAnswer("headache_pain_score", model.NumberAnswer(-3))
	n, _ = s.Answers().Number("headache_pain_score")
	assert.Equal(t, 0.0, n)

	// Off-grid values snap to the nearest step.
	s.SetAnswer("headache_pain_score", model.NumberAnswer(6.7))
	n, _ = s.Answers().Number("headache_pain_score")
	assert.Equal(t, 7.0, n)
}

func TestSliderAcceptsNumericStrings(t *testing.T) {
	s := newTestSession(t)
	s.Select("Headache")

	s.SetAnswer("headache_pain_score", model.TextAnswer(" 8 "))
	n, ok := s.Answers().Number("headache_pain_score")
	require.True(t, ok)
	assert.Equal(t, 8.0, n)
}

func TestUnrecognizedOptionIsRetained(t *testing.T) {
	s := newTestSession(t)
	s.Select("Headache")

	s.SetAnswer("headache_worst", model.OptionAnswer("Maybe"))
	v, ok := s.Answers().String("headache_worst")
	require.True(t, ok)
	assert.Equal(t, "Maybe", v)

	// It simply never matches the rule downstream.
	assert.Empty(t, s.Snapshot().RedFlags)
}

func TestToggleOptionNoneIsMutuallyExclusive(t *testing.T) {
	s := newTestSession(t)
	s.Select("Chest pain")

	s.ToggleOption("chest_radiation", "Left arm")
	s.ToggleOption("chest_radiation", "Jaw")
	opts, _ := s.Answers().Strings("chest_radiation")
	assert.Equal(t, []string{"Left arm", "Jaw"}, opts)

	// Selecting None clears everything else.
	s.ToggleOption("chest_radiation", "None")
	opts, _ = s.Answers().Strings("chest_radiation")
	assert.Equal(t, []string{"None"}, opts)

	// Selecting a real option clears None.
	s.ToggleOption("chest_radiation", "Back")
	opts, _ = s.Answers().Strings("chest_radiation")
	assert.Equal(t, []string{"Back"}, opts)

	// Toggling None while it is the sole selection removes it.
	s.ToggleOption("chest_radiation", "Back")
	s.ToggleOption("chest_radiation", "None")
	s.ToggleOption("chest_radiation", "None")
	opts, _ = s.Answers().Strings("chest_radiation")
	assert.Empty(t, opts)
}

func TestVisibleFollowUpsHonorShowWhen(t *testing.T) {
	s := newTestSession(t)
	s.Select("Shortness of breath")

	ids := func() []string {
		var out []string
		for _, fu := range s.VisibleFollowUps("Shortness of breath") {
			out = append(out, fu.ID)
		}
		return out
	}

	// The guarded pain slider is hidden until chest tightness is affirmed.
	assert.NotContains(t, ids(), "sob_chest_pain_score")

	s.SetAnswer("sob_chest_tight", model.OptionAnswer("Yes"))
	assert.Contains(t, ids(), "sob_chest_pain_score")

	s.SetAnswer("sob_chest_tight", model.OptionAnswer("No"))
	assert.NotContains(t, ids(), "sob_chest_pain_score")
}

func TestPainScoreUsesFirstAnsweredPainScale(t *testing.T) {
	s := newTestSession(t)
	s.Select("Headache")
	s.Select("Abdominal pain")

	// Headache comes first but its slider is unanswered, so the abdominal
	// score wins.
	s.SetAnswer("abdominal_pain_score", model.NumberAnswer(7))
	assert.Equal(t, 7.0, s.Snapshot().PainScore)

	// Once the first-selected category answers its slider, it takes over.
	s.SetAnswer("headache_pain_score", model.NumberAnswer(3))
	assert.Equal(t, 3.0, s.Snapshot().PainScore)
}

func TestObserverFiresOnEveryMutation(t *testing.T) {
	s := newTestSession(t)

	var calls int
	var last model.SymptomAssessmentData
	s.OnChange(func(d model.SymptomAssessmentData) {
		calls++
		last = d
	})
	assert.Equal(t, 1, calls, "registration emits the current state")

	s.Select("Chest pain")
	s.Select("Shortness of breath")
	s.SetAnswer("chest_pain_score", model.NumberAnswer(5))

	assert.Equal(t, 4, calls)
	assert.Equal(t, "Chest pain", last.PrimarySymptom)
	assert.Contains(t, last.RedFlags, "Chest pain + shortness of breath — potential cardiac event")
}

func TestSnapshotIsDetachedFromSession(t *testing.T) {
	s := newTestSession(t)
	s.Select("Fever")
	s.SetAnswer("fever_temp", model.TextAnswer("38"))

	snap := s.Snapshot()
	snap.SelectedSymptoms[0] = "mutated"
	snap.FollowUpAnswers["fever_temp"] = model.TextAnswer("40")

	assert.Equal(t, []string{"Fever"}, s.Selected())
	v, _ := s.Answers().String("fever_temp")
	assert.Equal(t, "38", v)
}

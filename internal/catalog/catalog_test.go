package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	cat, err := Default(nil)
	require.NoError(t, err)
	assert.Len(t, cat.Categories(), 10)
}

func TestSuggestMatchesNameAndAlias(t *testing.T) {
	cat, err := Default(nil)
	require.NoError(t, err)

	// Name substring, case-insensitive.
	assert.Equal(t, []string{"Chest pain"}, cat.Suggest("CHEST"))

	// Alias substring.
	assert.Contains(t, cat.Suggest("migraine"), "Headache")
	assert.Contains(t, cat.Suggest("dyspnea"), "Shortness of breath")

	// Whitespace is trimmed before matching.
	assert.Equal(t, []string{"Fever"}, cat.Suggest("  chills "))

	// No match returns an empty list, not nil semantics the caller must guess.
	assert.Empty(t, cat.Suggest("xyzzy"))
}

func TestSuggestEmptyQueryReturnsAllInOrder(t *testing.T) {
	cat, err := Default(nil)
	require.NoError(t, err)

	all := cat.Suggest("")
	require.Len(t, all, 10)
	assert.Equal(t, "Chest pain", all[0])
	assert.Equal(t, "Pain", all[9])
}

func TestSuggestPreservesDefinitionOrder(t *testing.T) {
	cat, err := Default(nil)
	require.NoError(t, err)

	// "pain" hits several categories; order must follow the definitions,
	// not match quality.
	names := cat.Suggest("pain")
	require.NotEmpty(t, names)
	last := -1
	all := cat.Suggest("")
	for _, n := range names {
		idx := indexOfStr(all, n)
		assert.Greater(t, idx, last, "category %q out of definition order", n)
		last = idx
	}
}

func TestNewRejectsDuplicateCategoryName(t *testing.T) {
	_, err := New([]Category{
		{Name: "Fever"},
		{Name: "Fever"},
	}, nil)
	assert.ErrorContains(t, err, "duplicate symptom category")
}

func TestNewRejectsDuplicateFollowUpID(t *testing.T) {
	_, err := New([]Category{
		{Name: "A", FollowUps: []FollowUp{{ID: "score", Type: FieldText}}},
		{Name: "B", FollowUps: []FollowUp{{ID: "score", Type: FieldText}}},
	}, nil)
	assert.ErrorContains(t, err, `follow-up id "score"`)
}

func TestNewRejectsChoiceWithoutOptions(t *testing.T) {
	_, err := New([]Category{
		{Name: "A", FollowUps: []FollowUp{{ID: "q", Type: FieldChoice}}},
	}, nil)
	assert.ErrorContains(t, err, "no options")
}

func TestNewRejectsInvalidSliderRange(t *testing.T) {
	_, err := New([]Category{
		{Name: "A", FollowUps: []FollowUp{
			{ID: "q", Type: FieldSlider, Range: SliderRange{Min: 10, Max: 0, Step: 1}},
		}},
	}, nil)
	assert.ErrorContains(t, err, "invalid slider range")
}

func TestOwnerAndFollowUpLookup(t *testing.T) {
	cat, err := Default(nil)
	require.NoError(t, err)

	owner, ok := cat.Owner("fever_temp")
	require.True(t, ok)
	assert.Equal(t, "Fever", owner)

	fu, ok := cat.FollowUp("chest_radiation")
	require.True(t, ok)
	assert.Equal(t, FieldMulti, fu.Type)
	assert.True(t, fu.HasOption("Left arm"))
	assert.False(t, fu.HasOption("left arm"))

	_, ok = cat.FollowUp("nope")
	assert.False(t, ok)
}

func indexOfStr(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

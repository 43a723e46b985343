package redflag

import (
	"strconv"
	"strings"

	"github.com/jwalitptl/triage-api/internal/model"
)

// Rule is one independent clinical red-flag predicate. Rules never short
// circuit each other; every matching rule fires on every evaluation. The
// messages are clinician-facing and must never reach the patient.
type Rule struct {
	Message string
	Test    func(selected []string, answers model.AnswerMap) bool
}

// DefaultRules is the canonical rule set. Thresholds are clinically
// meaningful; do not tune them without clinical review.
func DefaultRules() []Rule {
	return []Rule{
		{
			Message: "Chest pain + shortness of breath — potential cardiac event",
			Test: func(s []string, _ model.AnswerMap) bool {
				return contains(s, "Chest pain") && contains(s, "Shortness of breath")
			},
		},
		{
			Message: "Sudden numbness + difficulty speaking — possible stroke",
			Test: func(s []string, _ model.AnswerMap) bool {
				return contains(s, "Numbness") &&
					(contains(s, "Difficulty speaking") || contains(s, "Slurred speech"))
			},
		},
		{
			Message: "Worst headache of life — rule out subarachnoid hemorrhage",
			Test: func(_ []string, a model.AnswerMap) bool {
				v, _ := a.String("headache_worst")
				return v == "Yes"
			},
		},
		{
			Message: "Chest pain with radiation to arm/jaw — possible MI",
			Test: func(s []string, a model.AnswerMap) bool {
				if !contains(s, "Chest pain") {
					return false
				}
				rad, ok := a.Strings("chest_radiation")
				if !ok {
					return false
				}
				return contains(rad, "Left arm") || contains(rad, "Jaw")
			},
		},
		{
			Message: "High fever with altered mental status — potential sepsis",
			Test: func(s []string, a model.AnswerMap) bool {
				return contains(s, "Fever") && numeric(a, "fever_temp") >= 39
			},
		},
		{
			Message: "Severe abdominal pain — possible surgical emergency",
			Test: func(s []string, a model.AnswerMap) bool {
				if !contains(s, "Abdominal pain") {
					return false
				}
				score, ok := a.Number("abdominal_pain_score")
				return ok && score >= 8
			},
		},
	}
}

// Engine evaluates a fixed ordered rule list.
type Engine struct {
	rules []Rule
}

func NewEngine(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

func NewDefaultEngine() *Engine {
	return NewEngine(DefaultRules())
}

// Evaluate returns the messages of every rule whose predicate holds, in
// rule definition order.
func (e *Engine) Evaluate(selected []string, answers model.AnswerMap) []string {
	var fired []string
	for _, r := range e.rules {
		if r.Test(selected, answers) {
			fired = append(fired, r.Message)
		}
	}
	return fired
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// numeric reads an answer as a number, parsing free-text values like the
// measured temperature. Text answers are parsed by their leading numeric
// prefix, so "39C" reads as 39. Missing or unparsable answers count as 0
// so the rule simply does not fire.
func numeric(a model.AnswerMap, id string) float64 {
	if n, ok := a.Number(id); ok {
		return n
	}
	s, ok := a.String(id)
	if !ok {
		return 0
	}
	return leadingFloat(strings.TrimSpace(s))
}

// leadingFloat parses the longest numeric prefix of s: an optional sign,
// digits and at most one decimal point. Anything after the prefix is
// ignored; no prefix means 0.
func leadingFloat(s string) float64 {
	end := 0
	sawDot := false
	for i, c := range s {
		if c == '+' || c == '-' {
			if i != 0 {
				break
			}
			continue
		}
		if c == '.' {
			if sawDot {
				break
			}
			sawDot = true
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		end = i + 1
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return n
}

package model

import (
	"encoding/json"
	"fmt"
)

// AnswerKind discriminates the value shape held by an Answer.
type AnswerKind int

const (
	AnswerEmpty AnswerKind = iota
	AnswerNumber
	AnswerOption
	AnswerOptions
	AnswerText
)

// Answer is the value of a single follow-up question. Exactly one value
// shape is populated, matching the declared type of the question that owns
// the key. Absence in an AnswerMap means "unanswered".
type Answer struct {
	kind    AnswerKind
	number  float64
	text    string
	options []string
}

func NumberAnswer(v float64) Answer {
	return Answer{kind: AnswerNumber, number: v}
}

func OptionAnswer(opt string) Answer {
	return Answer{kind: AnswerOption, text: opt}
}

func OptionsAnswer(opts []string) Answer {
	return Answer{kind: AnswerOptions, options: append([]string(nil), opts...)}
}

func TextAnswer(text string) Answer {
	return Answer{kind: AnswerText, text: text}
}

func (a Answer) Kind() AnswerKind { return a.kind }

func (a Answer) IsEmpty() bool { return a.kind == AnswerEmpty }

// Number returns the numeric value for slider answers.
func (a Answer) Number() (float64, bool) {
	if a.kind != AnswerNumber {
		return 0, false
	}
	return a.number, true
}

// String returns the value of option, check and free-text answers.
func (a Answer) String() (string, bool) {
	if a.kind != AnswerOption && a.kind != AnswerText {
		return "", false
	}
	return a.text, true
}

// Strings returns the selected options of a multi-choice answer.
func (a Answer) Strings() ([]string, bool) {
	if a.kind != AnswerOptions {
		return nil, false
	}
	return a.options, true
}

// MarshalJSON emits the raw value the way the intake form stores it:
// numbers as numbers, single selections and text as strings, multi
// selections as string arrays.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case AnswerNumber:
		return json.Marshal(a.number)
	case AnswerOption, AnswerText:
		return json.Marshal(a.text)
	case AnswerOptions:
		return json.Marshal(a.options)
	default:
		return []byte("null"), nil
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*a = Answer{}
	case float64:
		*a = NumberAnswer(v)
	case string:
		*a = TextAnswer(v)
	case []interface{}:
		opts := make([]string, 0, len(v))
		for _, o := range v {
			s, ok := o.(string)
			if !ok {
				return fmt.Errorf("answer array element is not a string: %v", o)
			}
			opts = append(opts, s)
		}
		*a = OptionsAnswer(opts)
	default:
		return fmt.Errorf("unsupported answer value: %v", raw)
	}
	return nil
}

// AnswerMap is the flat store of follow-up answers keyed by follow-up id.
type AnswerMap map[string]Answer

func (m AnswerMap) Has(id string) bool {
	a, ok := m[id]
	return ok && !a.IsEmpty()
}

func (m AnswerMap) Number(id string) (float64, bool) {
	a, ok := m[id]
	if !ok {
		return 0, false
	}
	return a.Number()
}

func (m AnswerMap) String(id string) (string, bool) {
	a, ok := m[id]
	if !ok {
		return "", false
	}
	return a.String()
}

func (m AnswerMap) Strings(id string) ([]string, bool) {
	a, ok := m[id]
	if !ok {
		return nil, false
	}
	return a.Strings()
}

// Clone returns a shallow copy safe to hand to observers.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

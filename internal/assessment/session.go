package assessment

import (
	"math"
	"strconv"
	"strings"

	"github.com/jwalitptl/triage-api/internal/catalog"
	"github.com/jwalitptl/triage-api/internal/model"
	"github.com/jwalitptl/triage-api/internal/redflag"
)

// Observer receives the recomputed assessment record after every change.
type Observer func(model.SymptomAssessmentData)

// Session holds one intake's symptom selection and follow-up answers and
// recomputes the aggregate assessment on every mutation. All operations are
// synchronous; a session is driven by a single actor and is not safe for
// concurrent use.
type Session struct {
	catalog  *catalog.Catalog
	rules    *redflag.Engine
	selected []string
	answers  model.AnswerMap
	observer Observer
}

func NewSession(cat *catalog.Catalog, rules *redflag.Engine) *Session {
	return &Session{
		catalog: cat,
		rules:   rules,
		answers: make(model.AnswerMap),
	}
}

// OnChange registers the observer and immediately emits the current state.
func (s *Session) OnChange(fn Observer) {
	s.observer = fn
	s.emit()
}

// Select adds a symptom. Selection order is preserved; selecting an already
// selected symptom is a no-op. Names without a catalog category are
// free-form symptoms: they carry no follow-ups and no pain score.
func (s *Session) Select(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	for _, sel := range s.selected {
		if sel == name {
			return
		}
	}
	s.selected = append(s.selected, name)
	s.emit()
}

// Deselect removes a symptom and cascades: every answer keyed by one of the
// category's follow-up ids is deleted. Answers of other categories are
// untouched.
func (s *Session) Deselect(name string) {
	idx := -1
	for i, sel := range s.selected {
		if sel == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	s.selected = append(s.selected[:idx], s.selected[idx+1:]...)

	if cat, ok := s.catalog.Category(name); ok {
		for _, fu := range cat.FollowUps {
			delete(s.answers, fu.ID)
		}
	}
	s.emit()
}

// SetAnswer stores an answer, normalized against the follow-up's declared
// type. Slider values are clamped to the declared range on step increments.
// Unrecognized option strings are retained as-is; they simply never match
// anything downstream. Ids unknown to the catalog are stored untouched.
func (s *Session) SetAnswer(id string, a model.Answer) {
	if fu, ok := s.catalog.FollowUp(id); ok {
		a = normalize(fu, a)
	}
	s.answers[id] = a
	s.emit()
}

// ToggleOption flips one option of a multi-choice answer. The "None" option
// is mutually exclusive: selecting it clears every other option, and
// selecting any other option clears it. This is a clinical-data-quality
// guard against contradictory answers and must be preserved precisely.
func (s *Session) ToggleOption(id, opt string) {
	current, _ := s.answers.Strings(id)

	var next []string
	if opt == catalog.NoneOption {
		if !containsStr(current, catalog.NoneOption) {
			next = []string{catalog.NoneOption}
		}
	} else if containsStr(current, opt) {
		for _, o := range current {
			if o != opt {
				next = append(next, o)
			}
		}
	} else {
		for _, o := range current {
			if o != catalog.NoneOption {
				next = append(next, o)
			}
		}
		next = append(next, opt)
	}

	s.answers[id] = model.OptionsAnswer(next)
	s.emit()
}

// VisibleFollowUps filters a category's follow-ups by their showWhen
// guards against the current answers. Order equals definition order; a
// guard can only hide or show, never reorder.
func (s *Session) VisibleFollowUps(categoryName string) []catalog.FollowUp {
	cat, ok := s.catalog.Category(categoryName)
	if !ok {
		return nil
	}
	return VisibleFollowUps(cat, s.answers)
}

func (s *Session) Selected() []string {
	return append([]string(nil), s.selected...)
}

func (s *Session) Answers() model.AnswerMap {
	return s.answers.Clone()
}

// Snapshot recomputes the aggregate assessment from current state.
func (s *Session) Snapshot() model.SymptomAssessmentData {
	return Evaluate(s.catalog, s.rules, s.selected, s.answers)
}

func (s *Session) emit() {
	if s.observer != nil {
		s.observer(s.Snapshot())
	}
}

// VisibleFollowUps is the guard filter for one category over an answer map.
func VisibleFollowUps(cat catalog.Category, answers model.AnswerMap) []catalog.FollowUp {
	visible := make([]catalog.FollowUp, 0, len(cat.FollowUps))
	for _, fu := range cat.FollowUps {
		if fu.ShowWhen == nil {
			visible = append(visible, fu)
			continue
		}
		if v, ok := answers.String(fu.ShowWhen.Key); ok && fu.ShowWhen.Accepts(v) {
			visible = append(visible, fu)
		}
	}
	return visible
}

// Evaluate is the pure aggregation: selection, answers, derived pain score
// and triggered red flags. It never blocks and never calls out; the record
// stays usable even if the remote triage service is down.
func Evaluate(cat *catalog.Catalog, rules *redflag.Engine, selected []string, answers model.AnswerMap) model.SymptomAssessmentData {
	primary := ""
	if len(selected) > 0 {
		primary = selected[0]
	}
	return model.SymptomAssessmentData{
		PrimarySymptom:   primary,
		SelectedSymptoms: append([]string(nil), selected...),
		FollowUpAnswers:  answers.Clone(),
		PainScore:        painScore(cat, selected, answers),
		RedFlags:         rules.Evaluate(selected, answers),
	}
}

// painScore walks the selected categories in selection order and each
// category's follow-ups in definition order, returning the value of the
// first pain-scale field that has an answer. A patient with several
// pain-bearing complaints reports only the score of whichever was selected
// first and answered; this is intentional, not a bug to fix.
func painScore(cat *catalog.Catalog, selected []string, answers model.AnswerMap) float64 {
	for _, name := range selected {
		category, ok := cat.Category(name)
		if !ok {
			continue
		}
		for _, fu := range category.FollowUps {
			if !fu.IsPainScale || !answers.Has(fu.ID) {
				continue
			}
			if n, ok := answers.Number(fu.ID); ok {
				return n
			}
			if s, ok := answers.String(fu.ID); ok {
				if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
					return n
				}
			}
			return 0
		}
	}
	return 0
}

// normalize coerces an answer into the shape its follow-up declares.
func normalize(fu catalog.FollowUp, a model.Answer) model.Answer {
	switch fu.Type {
	case catalog.FieldSlider:
		n, ok := a.Number()
		if !ok {
			if s, sok := a.String(); sok {
				if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
					n, ok = parsed, true
				}
			}
		}
		if !ok {
			return a
		}
		return model.NumberAnswer(clampToStep(n, fu.Range))
	case catalog.FieldChoice, catalog.FieldCheck:
		if s, ok := a.String(); ok {
			return model.OptionAnswer(s)
		}
		return a
	default:
		return a
	}
}

// clampToStep clamps v to [min, max] and snaps it onto the step grid.
func clampToStep(v float64, r catalog.SliderRange) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	steps := math.Round((v - r.Min) / r.Step)
	snapped := r.Min + steps*r.Step
	if snapped > r.Max {
		snapped = r.Max
	}
	return snapped
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

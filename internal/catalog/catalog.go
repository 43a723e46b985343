package catalog

import (
	"fmt"
	"strings"

	"github.com/jwalitptl/triage-api/pkg/logger"
)

// FieldType is the declared answer shape of a follow-up question.
type FieldType string

const (
	FieldSlider FieldType = "slider"
	FieldChoice FieldType = "single_choice"
	FieldCheck  FieldType = "single_check"
	FieldMulti  FieldType = "multi_choice"
	FieldText   FieldType = "free_text"
)

// NoneOption is mutually exclusive with every other option inside a
// multi-choice field. Selecting it clears the rest; selecting anything
// else clears it.
const NoneOption = "None"

// SliderRange bounds a slider field. Values are clamped to [Min, Max] on
// Step increments; Min is also the initial render value.
type SliderRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// ShowWhen is a visibility guard: the follow-up is shown only while the
// referenced answer is one of the accepted values.
type ShowWhen struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

func (w *ShowWhen) Accepts(val string) bool {
	for _, v := range w.Values {
		if v == val {
			return true
		}
	}
	return false
}

type FollowUp struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	Type        FieldType   `json:"type"`
	Options     []string    `json:"options,omitempty"`
	Range       SliderRange `json:"range,omitempty"`
	IsPainScale bool        `json:"is_pain_scale,omitempty"`
	ShowWhen    *ShowWhen   `json:"show_when,omitempty"`
}

// HasOption reports whether opt is one of the declared options.
func (f FollowUp) HasOption(opt string) bool {
	for _, o := range f.Options {
		if o == opt {
			return true
		}
	}
	return false
}

type Category struct {
	Name         string     `json:"name"`
	Aliases      []string   `json:"aliases"`
	InvolvesPain bool       `json:"involves_pain"`
	FollowUps    []FollowUp `json:"follow_ups"`
}

// Catalog is the immutable symptom knowledge base, built once at process
// start and injected into the engines. It is never mutated afterwards.
type Catalog struct {
	categories []Category
	byName     map[string]int
	byField    map[string]FollowUp
	fieldOwner map[string]string
}

// New validates the category definitions and builds the catalog. Duplicate
// category names or follow-up ids are configuration errors: answers live in
// one flat map, so an id collision would make one category's answers bleed
// into another's. A showWhen guard referencing an unknown answer key is
// logged as a warning but tolerated.
func New(categories []Category, log *logger.Logger) (*Catalog, error) {
	c := &Catalog{
		categories: categories,
		byName:     make(map[string]int, len(categories)),
		byField:    make(map[string]FollowUp),
		fieldOwner: make(map[string]string),
	}

	for i, cat := range categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("category at index %d has no name", i)
		}
		if _, dup := c.byName[cat.Name]; dup {
			return nil, fmt.Errorf("duplicate symptom category %q", cat.Name)
		}
		c.byName[cat.Name] = i

		for _, fu := range cat.FollowUps {
			if fu.ID == "" {
				return nil, fmt.Errorf("category %q has a follow-up with no id", cat.Name)
			}
			if owner, dup := c.fieldOwner[fu.ID]; dup {
				return nil, fmt.Errorf("follow-up id %q defined in both %q and %q", fu.ID, owner, cat.Name)
			}
			switch fu.Type {
			case FieldChoice, FieldMulti:
				if len(fu.Options) == 0 {
					return nil, fmt.Errorf("follow-up %q is a choice field with no options", fu.ID)
				}
			case FieldSlider:
				if fu.Range.Max <= fu.Range.Min || fu.Range.Step <= 0 {
					return nil, fmt.Errorf("follow-up %q has an invalid slider range", fu.ID)
				}
			case FieldCheck, FieldText:
			default:
				return nil, fmt.Errorf("follow-up %q has unknown type %q", fu.ID, fu.Type)
			}
			c.fieldOwner[fu.ID] = cat.Name
			c.byField[fu.ID] = fu
		}
	}

	for _, cat := range categories {
		for _, fu := range cat.FollowUps {
			if fu.ShowWhen == nil {
				continue
			}
			if _, ok := c.byField[fu.ShowWhen.Key]; !ok && log != nil {
				log.Warn("show_when guard references unknown answer key",
					"follow_up", fu.ID, "key", fu.ShowWhen.Key)
			}
		}
	}

	return c, nil
}

// Suggest returns the names of every category whose name or alias contains
// the lowercased query as a substring, in catalog definition order. An
// empty query returns all names. Callers with no match offer the raw query
// as a free-form symptom.
func (c *Catalog) Suggest(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	names := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		if q == "" || matches(cat, q) {
			names = append(names, cat.Name)
		}
	}
	return names
}

func matches(cat Category, q string) bool {
	if strings.Contains(strings.ToLower(cat.Name), q) {
		return true
	}
	for _, alias := range cat.Aliases {
		if strings.Contains(strings.ToLower(alias), q) {
			return true
		}
	}
	return false
}

// Category looks up a category by its exact name. Free-text symptoms have
// no category and therefore no follow-ups and no pain score.
func (c *Catalog) Category(name string) (Category, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// Categories returns all categories in definition order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// FollowUp looks up a follow-up question anywhere in the catalog by id.
func (c *Catalog) FollowUp(id string) (FollowUp, bool) {
	fu, ok := c.byField[id]
	return fu, ok
}

// Owner returns the category name a follow-up id belongs to.
func (c *Catalog) Owner(id string) (string, bool) {
	name, ok := c.fieldOwner[id]
	return name, ok
}

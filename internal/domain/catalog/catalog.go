package catalog

import (
	"errors"
	"fmt"
)

// Likert scale bounds used for percentage math.
const (
	MinValue = 1
	MaxValue = 5
)

var (
	ErrEmptyCatalog   = errors.New("catalog has no questions")
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Option is one selectable answer. Value sits on the 1..5 Likert scale.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type Question struct {
	ID         string   `json:"id"`
	CategoryID string   `json:"category_id"`
	PillarID   string   `json:"pillar_id"`
	Text       string   `json:"text"`
	Options    []Option `json:"options"`
}

// HasOption reports whether v is one of the question's option values.
func (q Question) HasOption(v int) bool {
	_, ok := q.Label(v)
	return ok
}

// Label returns the label of the option with value v.
func (q Question) Label(v int) (string, bool) {
	for _, o := range q.Options {
		if o.Value == v {
			return o.Label, true
		}
	}
	return "", false
}

type Category struct {
	ID        string     `json:"id"`
	PillarID  string     `json:"pillar_id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

type Pillar struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// Catalog is the immutable, validated question tree plus its flattened
// question sequence. Build one with New and share it by pointer.
type Catalog struct {
	pillars   []Pillar
	flat      []Question
	questions map[string]int
	pillarIdx map[string]int
}

// New validates the tree, stamps parent ids onto categories and questions and
// flattens the question order. The input slices are copied.
func New(pillars []Pillar) (*Catalog, error) {
	if len(pillars) == 0 {
		return nil, fmt.Errorf("%w: no pillars", ErrInvalidCatalog)
	}

	c := &Catalog{
		pillars:   make([]Pillar, len(pillars)),
		questions: make(map[string]int),
		pillarIdx: make(map[string]int, len(pillars)),
	}
	categoryIDs := make(map[string]bool)

	for pi, p := range pillars {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: pillar %d has no id", ErrInvalidCatalog, pi)
		}
		if _, dup := c.pillarIdx[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate pillar id %q", ErrInvalidCatalog, p.ID)
		}
		c.pillarIdx[p.ID] = pi

		np := Pillar{ID: p.ID, Name: p.Name, Categories: make([]Category, len(p.Categories))}
		if np.Name == "" {
			np.Name = p.ID
		}

		for ci, cat := range p.Categories {
			if cat.ID == "" {
				return nil, fmt.Errorf("%w: category %d of pillar %q has no id", ErrInvalidCatalog, ci, p.ID)
			}
			if categoryIDs[cat.ID] {
				return nil, fmt.Errorf("%w: duplicate category id %q", ErrInvalidCatalog, cat.ID)
			}
			categoryIDs[cat.ID] = true

			nc := Category{ID: cat.ID, PillarID: p.ID, Name: cat.Name, Questions: make([]Question, len(cat.Questions))}
			if nc.Name == "" {
				nc.Name = cat.ID
			}

			for qi, q := range cat.Questions {
				nq, err := normalizeQuestion(q, cat.ID, p.ID)
				if err != nil {
					return nil, err
				}
				if _, dup := c.questions[nq.ID]; dup {
					return nil, fmt.Errorf("%w: duplicate question id %q", ErrInvalidCatalog, nq.ID)
				}
				c.questions[nq.ID] = len(c.flat)
				c.flat = append(c.flat, nq)
				nc.Questions[qi] = nq
			}
			np.Categories[ci] = nc
		}
		c.pillars[pi] = np
	}

	return c, nil
}

func normalizeQuestion(q Question, categoryID, pillarID string) (Question, error) {
	if q.ID == "" {
		return Question{}, fmt.Errorf("%w: question in category %q has no id", ErrInvalidCatalog, categoryID)
	}
	if q.CategoryID != "" && q.CategoryID != categoryID {
		return Question{}, fmt.Errorf("%w: question %q is filed under category %q but claims %q",
			ErrInvalidCatalog, q.ID, categoryID, q.CategoryID)
	}
	if q.PillarID != "" && q.PillarID != pillarID {
		return Question{}, fmt.Errorf("%w: question %q is filed under pillar %q but claims %q",
			ErrInvalidCatalog, q.ID, pillarID, q.PillarID)
	}

	options := q.Options
	if len(options) == 0 {
		options = DefaultOptions()
	}
	seen := make(map[int]bool, len(options))
	normalized := make([]Option, len(options))
	for i, o := range options {
		if o.Value < MinValue || o.Value > MaxValue {
			return Question{}, fmt.Errorf("%w: question %q option value %d outside %d..%d",
				ErrInvalidCatalog, q.ID, o.Value, MinValue, MaxValue)
		}
		if seen[o.Value] {
			return Question{}, fmt.Errorf("%w: question %q repeats option value %d", ErrInvalidCatalog, q.ID, o.Value)
		}
		seen[o.Value] = true
		if o.Label == "" {
			o.Label = fmt.Sprint(o.Value)
		}
		normalized[i] = o
	}

	return Question{
		ID:         q.ID,
		CategoryID: categoryID,
		PillarID:   pillarID,
		Text:       q.Text,
		Options:    normalized,
	}, nil
}

// DefaultOptions is the five point agreement scale used when a question
// declares no options of its own.
func DefaultOptions() []Option {
	return []Option{
		{Value: 1, Label: "Strongly Disagree"},
		{Value: 2, Label: "Disagree"},
		{Value: 3, Label: "Neutral"},
		{Value: 4, Label: "Agree"},
		{Value: 5, Label: "Strongly Agree"},
	}
}

// Pillars returns the pillar tree in catalog order. Callers must not modify it.
func (c *Catalog) Pillars() []Pillar {
	return c.pillars
}

func (c *Catalog) Pillar(id string) (Pillar, bool) {
	i, ok := c.pillarIdx[id]
	if !ok {
		return Pillar{}, false
	}
	return c.pillars[i], true
}

// PillarOrder lists pillar ids in catalog order.
func (c *Catalog) PillarOrder() []string {
	order := make([]string, len(c.pillars))
	for i, p := range c.pillars {
		order[i] = p.ID
	}
	return order
}

// Questions returns the flattened question sequence. Callers must not modify it.
func (c *Catalog) Questions() []Question {
	return c.flat
}

// At returns the question at position i of the flattened sequence.
func (c *Catalog) At(i int) (Question, bool) {
	if i < 0 || i >= len(c.flat) {
		return Question{}, false
	}
	return c.flat[i], true
}

func (c *Catalog) Question(id string) (Question, bool) {
	i, ok := c.questions[id]
	if !ok {
		return Question{}, false
	}
	return c.flat[i], true
}

// IndexOf returns the flattened position of a question, or -1.
func (c *Catalog) IndexOf(id string) int {
	i, ok := c.questions[id]
	if !ok {
		return -1
	}
	return i
}

// Len is the number of questions across all pillars.
func (c *Catalog) Len() int {
	return len(c.flat)
}

// Stats counts the nodes of the tree.
func (c *Catalog) Stats() (pillars, categories, questions int) {
	for _, p := range c.pillars {
		categories += len(p.Categories)
	}
	return len(c.pillars), categories, len(c.flat)
}

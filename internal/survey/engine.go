// Package survey scores a fixed-choice learning-preference questionnaire.
//
// An [Engine] is built once from a [Bank] and is immutable afterwards, so [Engine.Score] can be called
// concurrently. Scoring counts one point per answer, ranks the categories by count with ties broken by
// declared category order, and flags the result as multimodal when the top two counts are close.
package survey

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/myrjola/learnpref/internal/errors"
)

// MultimodalThreshold is the largest gap between the top two counts that still counts as multimodal.
const MultimodalThreshold = 1

// Ranked is the score of a single category.
type Ranked struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Count    int      `json:"count"`
	// Percent is Count/Total*100 rounded half up. Percentages are rounded independently
	// and may not sum to exactly 100.
	Percent int `json:"percent"`
}

// Outcome is the result of scoring a complete ResponseSet.
type Outcome struct {
	Total int `json:"total"`
	// Ranked holds all categories by descending count, ties in declared category order.
	Ranked     []Ranked `json:"ranked"`
	Top        Ranked   `json:"top"`
	Multimodal bool     `json:"multimodal"`
	Tactics    []string `json:"tactics"`
}

// Tally maps each category to its count.
type Tally [categoryCount]int

// Count returns the count of c.
func (t Tally) Count(c Category) int {
	if !c.Valid() {
		return 0
	}
	return t[c-Visual]
}

// Total returns the sum of all counts.
func (t Tally) Total() int {
	var total int
	for _, n := range t {
		total += n
	}
	return total
}

type Engine struct {
	bank Bank
}

// NewEngine validates bank and returns an engine that scores against it.
func NewEngine(bank Bank) (*Engine, error) {
	if err := bank.validate(); err != nil {
		return nil, err
	}
	return &Engine{bank: bank.clone()}, nil
}

// Len returns the number of questions.
func (e *Engine) Len() int {
	return len(e.bank.Questions)
}

// Questions returns a copy of the questions in order.
func (e *Engine) Questions() []Question {
	return e.bank.clone().Questions
}

// Label returns the display label of c.
func (e *Engine) Label(c Category) string {
	return e.bank.Labels[c]
}

// Tactics returns a copy of the tactics for c.
func (e *Engine) Tactics(c Category) []string {
	return slices.Clone(e.bank.Tactics[c])
}

// BestPractices returns a copy of the universal best practices.
func (e *Engine) BestPractices() []string {
	return slices.Clone(e.bank.BestPractices)
}

// EvidenceNote returns a copy of the evidence note lines.
func (e *Engine) EvidenceNote() []string {
	return slices.Clone(e.bank.EvidenceNote)
}

// NewResponseSet returns an unanswered ResponseSet sized for this engine's questions.
func (e *Engine) NewResponseSet() ResponseSet {
	return NewResponseSet(e.Len())
}

// Tally counts the answers in responses after checking that every response is a known category.
//
// Unanswered entries are skipped, so the total equals the number of answered questions.
func (e *Engine) Tally(responses ResponseSet) (Tally, error) {
	var t Tally
	if len(responses) > e.Len() {
		return t, errors.Wrap(ErrTooManyResponses, "tally",
			slog.Int("responses", len(responses)), slog.Int("questions", e.Len()))
	}
	for i, c := range responses {
		if c == Unanswered {
			continue
		}
		if !c.Valid() {
			return Tally{}, &InvalidCategoryError{Index: i, Value: c.String()}
		}
		t[c-Visual]++
	}
	return t, nil
}

// Score ranks the categories for a complete ResponseSet.
//
// It returns an [*IncompleteResponseError] when any question is unanswered, including positions past
// the end of a short set, and an [*InvalidCategoryError] when a response is not a category.
func (e *Engine) Score(responses ResponseSet) (Outcome, error) {
	t, err := e.Tally(responses)
	if err != nil {
		return Outcome{}, err
	}

	missing := responses.Missing()
	for i := len(responses); i < e.Len(); i++ {
		missing = append(missing, i)
	}
	if len(missing) > 0 {
		return Outcome{}, &IncompleteResponseError{Missing: missing, Total: e.Len()}
	}

	total := t.Total()
	ranked := make([]Ranked, 0, categoryCount)
	for _, c := range Categories() {
		ranked = append(ranked, Ranked{
			Category: c,
			Label:    e.bank.Labels[c],
			Count:    t.Count(c),
			Percent:  percent(t.Count(c), total),
		})
	}
	slices.SortFunc(ranked, func(a, b Ranked) int {
		if n := cmp.Compare(b.Count, a.Count); n != 0 {
			return n
		}
		return cmp.Compare(a.Category, b.Category)
	})

	top := ranked[0]
	return Outcome{
		Total:      total,
		Ranked:     ranked,
		Top:        top,
		Multimodal: top.Count-ranked[1].Count <= MultimodalThreshold,
		Tactics:    e.Tactics(top.Category),
	}, nil
}

// percent rounds count/total*100 half up using integers only.
func percent(count, total int) int {
	if total == 0 {
		return 0
	}
	return (200*count + total) / (2 * total) //nolint:mnd // 2*100 for half-up rounding.
}

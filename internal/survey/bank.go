package survey

import (
	"log/slog"
	"strings"

	"github.com/myrjola/learnpref/internal/errors"
)

// Option is one selectable answer to a question and the category it signals.
type Option struct {
	Text     string
	Category Category
}

// Question is a prompt with one option per category, in display order.
type Question struct {
	Prompt  string
	Options []Option
}

// Bank is the static content the engine is built from.
type Bank struct {
	Questions []Question
	// Labels are the display names of the categories.
	Labels map[Category]string
	// Tactics are the study suggestions shown for the top category.
	Tactics map[Category][]string
	// BestPractices apply regardless of the result.
	BestPractices []string
	// EvidenceNote qualifies what a preference result means.
	EvidenceNote []string
}

// validate checks the invariants the scoring relies on.
func (b Bank) validate() error {
	if len(b.Questions) == 0 {
		return errors.Wrap(ErrInvalidBank, "no questions")
	}
	for i, q := range b.Questions {
		if err := q.validate(); err != nil {
			return errors.Wrap(err, "validate question", slog.Int("question", i+1))
		}
	}
	for _, c := range Categories() {
		if strings.TrimSpace(b.Labels[c]) == "" {
			return errors.Wrap(ErrInvalidBank, "missing label", slog.String("category", c.String()))
		}
		if len(b.Tactics[c]) == 0 {
			return errors.Wrap(ErrInvalidBank, "missing tactics", slog.String("category", c.String()))
		}
	}
	return nil
}

func (q Question) validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return errors.Wrap(ErrInvalidBank, "empty prompt")
	}
	if len(q.Options) != categoryCount {
		return errors.Wrap(ErrInvalidBank, "each question needs one option per category",
			slog.Int("options", len(q.Options)))
	}
	var seen [Kinesthetic + 1]bool
	for _, o := range q.Options {
		if !o.Category.Valid() {
			return errors.Wrap(ErrInvalidBank, "option with invalid category", slog.String("option", o.Text))
		}
		if seen[o.Category] {
			return errors.Wrap(ErrInvalidBank, "duplicate category", slog.String("category", o.Category.String()))
		}
		seen[o.Category] = true
		if strings.TrimSpace(o.Text) == "" {
			return errors.Wrap(ErrInvalidBank, "empty option text")
		}
	}
	return nil
}

// clone deep-copies b so the engine never shares slices or maps with its caller.
func (b Bank) clone() Bank {
	out := Bank{
		Questions:     make([]Question, len(b.Questions)),
		Labels:        make(map[Category]string, len(b.Labels)),
		Tactics:       make(map[Category][]string, len(b.Tactics)),
		BestPractices: append([]string(nil), b.BestPractices...),
		EvidenceNote:  append([]string(nil), b.EvidenceNote...),
	}
	for i, q := range b.Questions {
		out.Questions[i] = Question{Prompt: q.Prompt, Options: append([]Option(nil), q.Options...)}
	}
	for c, l := range b.Labels {
		out.Labels[c] = l
	}
	for c, t := range b.Tactics {
		out.Tactics[c] = append([]string(nil), t...)
	}
	return out
}

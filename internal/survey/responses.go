package survey

import (
	"log/slog"
	"strings"

	"github.com/myrjola/learnpref/internal/errors"
)

// State is the lifecycle stage of a ResponseSet before it is scored.
type State int

const (
	// StateUnanswered means no question has a selection yet.
	StateUnanswered State = iota
	// StateAnswered means at least one question has a selection. Scoring succeeds only when all have one.
	StateAnswered
)

func (s State) String() string {
	if s == StateAnswered {
		return "answered"
	}
	return "unanswered"
}

// ResponseSet holds one selection per question in question order. Unanswered marks a missing selection.
//
// The presentation layer owns the value and mutates it as the user selects options.
type ResponseSet []Category

// NewResponseSet returns a fresh set of n unanswered responses.
func NewResponseSet(n int) ResponseSet {
	return make(ResponseSet, n)
}

// Answer records c as the selection for question i, 0-based.
func (rs ResponseSet) Answer(i int, c Category) error {
	if i < 0 || i >= len(rs) {
		return errors.New("question index out of range", slog.Int("index", i), slog.Int("len", len(rs)))
	}
	if !c.Valid() && c != Unanswered {
		return &InvalidCategoryError{Index: i, Value: c.String()}
	}
	rs[i] = c
	return nil
}

// Missing returns the 0-based indices of unanswered questions.
func (rs ResponseSet) Missing() []int {
	var missing []int
	for i, c := range rs {
		if c == Unanswered {
			missing = append(missing, i)
		}
	}
	return missing
}

// State reports whether any question has been answered.
func (rs ResponseSet) State() State {
	for _, c := range rs {
		if c != Unanswered {
			return StateAnswered
		}
	}
	return StateUnanswered
}

// Encode returns the compact text form: one code per question, "-" for unanswered.
func (rs ResponseSet) Encode() string {
	var sb strings.Builder
	sb.Grow(len(rs))
	for _, c := range rs {
		sb.WriteString(c.Code())
	}
	return sb.String()
}

// DecodeResponseSet parses the form produced by [ResponseSet.Encode].
//
// Unknown codes produce an [InvalidCategoryError] naming the first offending position.
func DecodeResponseSet(s string) (ResponseSet, error) {
	runes := []rune(s)
	codes := make([]string, len(runes))
	for i, r := range runes {
		codes[i] = string(r)
	}
	return ParseResponses(codes)
}

// ParseResponses converts one code per question into a ResponseSet, such as the values of a submitted form.
// The empty string and "-" leave a question unanswered.
func ParseResponses(codes []string) (ResponseSet, error) {
	rs := NewResponseSet(len(codes))
	for i, code := range codes {
		c, err := ParseCategory(code)
		if err != nil {
			return nil, &InvalidCategoryError{Index: i, Value: code}
		}
		rs[i] = c
	}
	return rs, nil
}

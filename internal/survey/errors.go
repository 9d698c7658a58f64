package survey

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/myrjola/learnpref/internal/errors"
)

var (
	// ErrInvalidBank is returned by [NewEngine] when the question bank breaks the survey's shape.
	ErrInvalidBank = errors.NewSentinel("invalid question bank")
	// ErrTooManyResponses is returned by [Engine.Score] when there are more responses than questions.
	ErrTooManyResponses = errors.NewSentinel("more responses than questions")
)

// IncompleteResponseError reports the questions that were left unanswered at submission.
//
// It is a user-facing condition: the presentation layer should ask the user to finish the survey.
type IncompleteResponseError struct {
	// Missing holds the 0-based indices of the unanswered questions in ascending order.
	Missing []int
	// Total is the number of questions in the survey.
	Total int
}

// Count returns the number of unanswered questions.
func (e *IncompleteResponseError) Count() int {
	return len(e.Missing)
}

// Numbers returns the 1-based question numbers of the unanswered questions.
func (e *IncompleteResponseError) Numbers() []int {
	numbers := make([]int, len(e.Missing))
	for i, idx := range e.Missing {
		numbers[i] = idx + 1
	}
	return numbers
}

func (e *IncompleteResponseError) Error() string {
	return fmt.Sprintf("%d of %d questions unanswered", len(e.Missing), e.Total)
}

// LogValue lists the unanswered question numbers.
func (e *IncompleteResponseError) LogValue() slog.Value {
	numbers := make([]string, 0, len(e.Missing))
	for _, n := range e.Numbers() {
		numbers = append(numbers, strconv.Itoa(n))
	}
	return slog.GroupValue(
		slog.Int("missing", len(e.Missing)),
		slog.Int("total", e.Total),
		slog.String("questions", strings.Join(numbers, ",")),
	)
}

// InvalidCategoryError reports a response that is neither a category nor unanswered.
//
// It indicates a bug in the presentation layer rather than a user mistake.
type InvalidCategoryError struct {
	// Index is the 0-based question index of the offending response.
	Index int
	// Value is the offending value as received.
	Value string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("question %d: invalid category %q", e.Index+1, e.Value)
}

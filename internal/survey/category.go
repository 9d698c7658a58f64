package survey

import (
	"fmt"
	"log/slog"

	"github.com/myrjola/learnpref/internal/errors"
)

// Category is one of the four learning-preference dimensions.
//
// The zero value is Unanswered, which is not a category but marks a question without a selection.
type Category uint8

const (
	Unanswered Category = iota
	Visual
	Auditory
	ReadWrite
	Kinesthetic
)

// categoryCount is the size of the closed category set.
const categoryCount = 4

// ErrUnknownCode is returned when a category code is not one of V, A, R or K.
var ErrUnknownCode = errors.NewSentinel("unknown category code")

var codes = [...]string{
	Unanswered:  "-",
	Visual:      "V",
	Auditory:    "A",
	ReadWrite:   "R",
	Kinesthetic: "K",
}

var names = [...]string{
	Unanswered:  "Unanswered",
	Visual:      "Visual",
	Auditory:    "Auditory",
	ReadWrite:   "ReadWrite",
	Kinesthetic: "Kinesthetic",
}

// Categories returns the categories in declared order. The order breaks ranking ties.
func Categories() []Category {
	return []Category{Visual, Auditory, ReadWrite, Kinesthetic}
}

// Valid reports whether c is one of the four categories.
func (c Category) Valid() bool {
	return c >= Visual && c <= Kinesthetic
}

// Code returns the one-letter code of c, or "-" for Unanswered.
func (c Category) Code() string {
	if c > Kinesthetic {
		return "?"
	}
	return codes[c]
}

func (c Category) String() string {
	if c > Kinesthetic {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return names[c]
}

// MarshalText encodes c as its code so that JSON output uses V, A, R and K.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.New("marshal invalid category", slog.Int("category", int(c)))
	}
	return []byte(c.Code()), nil
}

// UnmarshalText decodes a code written by [Category.MarshalText].
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	if parsed == Unanswered {
		return errors.Wrap(ErrUnknownCode, "unmarshal unanswered category", slog.String("code", string(text)))
	}
	*c = parsed
	return nil
}

// ParseCategory maps a code back to its Category. The empty string and "-" map to Unanswered.
func ParseCategory(code string) (Category, error) {
	switch code {
	case "V", "v":
		return Visual, nil
	case "A", "a":
		return Auditory, nil
	case "R", "r":
		return ReadWrite, nil
	case "K", "k":
		return Kinesthetic, nil
	case "", "-":
		return Unanswered, nil
	default:
		return Unanswered, errors.Wrap(ErrUnknownCode, "parse category", slog.String("code", code))
	}
}

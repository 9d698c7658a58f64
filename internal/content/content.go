// Package content loads question banks for the survey engine from YAML.
package content

import (
	"bytes"
	_ "embed"
	"io"
	"log/slog"
	"os"

	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/survey"
	"gopkg.in/yaml.v3"
)

//go:embed vark.yaml
var defaultBank []byte

// ErrInvalidContent is returned when a bank document cannot be mapped onto the survey categories.
var ErrInvalidContent = errors.NewSentinel("invalid survey content")

type document struct {
	Labels        map[string]string   `yaml:"labels"`
	EvidenceNote  []string            `yaml:"evidence_note"`
	Questions     []questionDocument  `yaml:"questions"`
	Tactics       map[string][]string `yaml:"tactics"`
	BestPractices []string            `yaml:"best_practices"`
}

type questionDocument struct {
	Prompt  string           `yaml:"prompt"`
	Options []optionDocument `yaml:"options"`
}

type optionDocument struct {
	Text     string `yaml:"text"`
	Category string `yaml:"category"`
}

// Default returns the embedded VARK reference bank.
func Default() (survey.Bank, error) {
	bank, err := Load(bytes.NewReader(defaultBank))
	if err != nil {
		return survey.Bank{}, errors.Wrap(err, "load embedded bank")
	}
	return bank, nil
}

// LoadFile reads a bank from the YAML file at path.
func LoadFile(path string) (survey.Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return survey.Bank{}, errors.Wrap(err, "open content file", slog.String("path", path))
	}
	defer func() {
		_ = f.Close()
	}()
	bank, err := Load(f)
	if err != nil {
		return survey.Bank{}, errors.Wrap(err, "load content file", slog.String("path", path))
	}
	return bank, nil
}

// Load decodes a bank document. The shape of the bank is checked later by [survey.NewEngine];
// Load only rejects category codes it cannot map.
func Load(r io.Reader) (survey.Bank, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return survey.Bank{}, errors.Wrap(err, "decode yaml")
	}

	bank := survey.Bank{
		Questions:     make([]survey.Question, 0, len(doc.Questions)),
		Labels:        make(map[survey.Category]string, len(doc.Labels)),
		Tactics:       make(map[survey.Category][]string, len(doc.Tactics)),
		BestPractices: doc.BestPractices,
		EvidenceNote:  doc.EvidenceNote,
	}
	for code, label := range doc.Labels {
		c, err := parseCode(code)
		if err != nil {
			return survey.Bank{}, errors.Wrap(err, "labels")
		}
		bank.Labels[c] = label
	}
	for code, tactics := range doc.Tactics {
		c, err := parseCode(code)
		if err != nil {
			return survey.Bank{}, errors.Wrap(err, "tactics")
		}
		bank.Tactics[c] = tactics
	}
	for i, q := range doc.Questions {
		question := survey.Question{Prompt: q.Prompt, Options: make([]survey.Option, 0, len(q.Options))}
		for _, o := range q.Options {
			c, err := parseCode(o.Category)
			if err != nil {
				return survey.Bank{}, errors.Wrap(err, "question option",
					slog.Int("question", i+1), slog.String("option", o.Text))
			}
			question.Options = append(question.Options, survey.Option{Text: o.Text, Category: c})
		}
		bank.Questions = append(bank.Questions, question)
	}
	return bank, nil
}

func parseCode(code string) (survey.Category, error) {
	c, err := survey.ParseCategory(code)
	if err != nil || c == survey.Unanswered {
		return survey.Unanswered, errors.Wrap(ErrInvalidContent, "unknown category code", slog.String("code", code))
	}
	return c, nil
}

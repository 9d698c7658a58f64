package surveycmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/survey"
	"github.com/spf13/cobra"
)

func newTakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "take",
		Short: "Take the survey interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			engine, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			p, err := newPrinter(cmd)
			if err != nil {
				return err
			}
			responses, err := ask(cmd, p, engine)
			if err != nil {
				return err
			}
			return printOutcome(p, engine, responses)
		},
	}
}

// ask prompts for every question in order and reads option numbers from the command input until each
// question has a valid answer.
func ask(cmd *cobra.Command, p *printer, engine *survey.Engine) (survey.ResponseSet, error) {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	responses := engine.NewResponseSet()

	for i, q := range engine.Questions() {
		var b strings.Builder
		questionMarkdown(&b, i+1, q)
		if err := p.print(b.String()); err != nil {
			return nil, err
		}
		for {
			_, _ = fmt.Fprintf(out, "Answer (1-%d): ", len(q.Options))
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return nil, errors.Wrap(err, "read answer")
				}
				return nil, errors.New("input ended before the survey was finished",
					slog.Int("answered", i), slog.Int("total", engine.Len()))
			}
			choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			if err != nil || choice < 1 || choice > len(q.Options) {
				_, _ = fmt.Fprintf(out, "Please enter a number between 1 and %d.\n", len(q.Options))
				continue
			}
			if err = responses.Answer(i, q.Options[choice-1].Category); err != nil {
				return nil, errors.Wrap(err, "record answer")
			}
			break
		}
	}
	_, _ = fmt.Fprintln(out)
	return responses, nil
}

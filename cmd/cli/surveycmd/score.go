package surveycmd

import (
	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/survey"
	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score [responses]",
		Short: "Score encoded responses",
		Long: `Scores a response set encoded as one category code per question, for example VAARKVVAARKK.
Use - for an unanswered question.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			engine, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			p, err := newPrinter(cmd)
			if err != nil {
				return err
			}
			responses, err := survey.DecodeResponseSet(args[0])
			if err != nil {
				return errors.Wrap(err, "decode responses")
			}
			return printOutcome(p, engine, responses)
		},
	}
}

// printOutcome scores responses and prints the results. An incomplete set prints the missing questions and is
// returned as an error so that the process exits non-zero.
func printOutcome(p *printer, engine *survey.Engine, responses survey.ResponseSet) error {
	outcome, err := engine.Score(responses)
	var incomplete *survey.IncompleteResponseError
	if errors.As(err, &incomplete) {
		if printErr := p.print(incompleteMarkdown(incomplete)); printErr != nil {
			return printErr
		}
		return err
	}
	if err != nil {
		return errors.Wrap(err, "score")
	}
	return p.print(outcomeMarkdown(engine, outcome))
}

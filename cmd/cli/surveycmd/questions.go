package surveycmd

import (
	"github.com/spf13/cobra"
)

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print the survey questions",
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
			return p.print(questionsMarkdown(engine))
		},
	}
}

// Package surveycmd holds the terminal commands for taking and scoring the survey.
package surveycmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/myrjola/learnpref/internal/content"
	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/survey"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "survey",
	Title: "Survey operations",
}

// New returns the survey command with its subcommands. Commands are built per call so that flag state
// does not leak between executions.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "survey",
		GroupID: Group.ID,
		Short:   "Take or score the learning preference survey",
	}
	cmd.PersistentFlags().Bool("plain", false, "print raw markdown instead of rendering it")
	cmd.PersistentFlags().String("content", "",
		"path to an alternative survey content YAML file, defaults to $LEARNPREF_CONTENT_PATH")

	cmd.AddCommand(newQuestionsCmd(), newScoreCmd(), newTakeCmd())
	return cmd
}

func loadEngine(cmd *cobra.Command) (*survey.Engine, error) {
	path, err := cmd.Flags().GetString("content")
	if err != nil {
		return nil, errors.Wrap(err, "content flag")
	}
	if path == "" {
		path = os.Getenv("LEARNPREF_CONTENT_PATH")
	}

	var bank survey.Bank
	if path == "" {
		bank, err = content.Default()
	} else {
		bank, err = content.LoadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load content")
	}
	engine, err := survey.NewEngine(bank)
	if err != nil {
		return nil, errors.Wrap(err, "validate content")
	}
	return engine, nil
}

// printer writes markdown to the command output, rendered for the terminal unless --plain is set.
type printer struct {
	cmd      *cobra.Command
	renderer *glamour.TermRenderer
}

func newPrinter(cmd *cobra.Command) (*printer, error) {
	plain, err := cmd.Flags().GetBool("plain")
	if err != nil {
		return nil, errors.Wrap(err, "plain flag")
	}
	p := &printer{cmd: cmd}
	if plain {
		return p, nil
	}
	if p.renderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	); err != nil {
		return nil, errors.Wrap(err, "create markdown renderer")
	}
	return p, nil
}

func (p *printer) print(md string) error {
	out := md
	if p.renderer != nil {
		var err error
		if out, err = p.renderer.Render(md); err != nil {
			return errors.Wrap(err, "render markdown")
		}
	}
	if _, err := fmt.Fprint(p.cmd.OutOrStdout(), out); err != nil {
		return errors.Wrap(err, "write output")
	}
	return nil
}

package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/learnpref/cmd/cli/surveycmd"
	"github.com/myrjola/learnpref/internal/errors"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "learnpref-cli",
		Long:          `Command line utilities for the learning preference survey https://github.com/myrjola/learnpref`,
		SilenceErrors: true,
	}
	rootCmd.AddGroup(surveycmd.Group)
	rootCmd.AddCommand(surveycmd.New())
	return rootCmd
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

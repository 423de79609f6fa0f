package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.3.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "reactify",
		Short: "Reactify - Svelte components to React modules",
		Long: `Reactify compiles single-file Svelte components into React function
components. Exported props become useState hooks kept in sync with the
incoming prop, markup becomes JSX and event directives become handlers.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newDevCommand())
	rootCmd.AddCommand(newInitCommand())

	return rootCmd
}

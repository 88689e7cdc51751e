// Package cmd is the pysb CLI driver, a thin, explicitly out-of-scope
// collaborator per spec.md §1 ("no CLI" is one of the core's non-goals):
// one cobra root command plus one subcommand per file.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pysb",
	Short: "Sandboxed scripting interpreter",
	Long: `pysb runs scripts in a sandboxed, dynamically-typed scripting
language: lexical scoping, single-inheritance classes with dunder
dispatch, generators, comprehensions, and a closed module-import
allow-list.

This CLI is a driver over the github.com/cwbudde/go-pysb embedding
package; it has no persisted state and no wire protocol.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

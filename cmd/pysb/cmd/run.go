package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-pysb"
	"github.com/cwbudde/go-pysb/internal/runtime"
	"github.com/spf13/cobra"
)

var (
	evalExpr   string
	authorized []string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a script file or inline expression",
	Long: `Execute a script from a file or inline expression.

Examples:
  # Run a script file
  pysb run script.py

  # Evaluate an inline expression
  pysb run -e "1 + 2"

  # Authorize specific module imports
  pysb run --authorize math,random script.py`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading from file")
	runCmd.Flags().StringSliceVar(&authorized, "authorize", nil, "comma-separated module path prefixes to authorize ('*' for all)")
}

func runScript(_ *cobra.Command, args []string) error {
	var source, filename string
	switch {
	case evalExpr != "":
		source, filename = evalExpr, "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		source = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e flag for inline source")
	}

	result, err := pysb.Evaluate(
		source,
		pysb.WithStdout(os.Stdout),
		pysb.WithAuthorizedImports(authorized),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running %s: %v\n", filename, err)
		return fmt.Errorf("execution failed")
	}

	if _, isNone := result.(runtime.NoneValue); !isNone {
		fmt.Println(runtime.Repr(result))
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	clog "github.com/lcastro/nbflow/pkg/log"
)

var (
	quiet   bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "nbflow",
	Short: "Generate Argo workflow templates from parameterized notebooks",
	Long: `nbflow turns a Papermill-parameterized Jupyter notebook into an Argo
WorkflowTemplate.

It clones the notebook's repository, reads the cell tagged "parameters",
and builds a template that exposes those parameters as workflow arguments,
re-applied to the notebook at run time inside a containerized papermill
step.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		clog.SetVerbose(verbose)
		clog.SetQuiet(quiet)
	},
}

func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

// log prints progress output unless --quiet is set
func log(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

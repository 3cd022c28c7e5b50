package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lcastro/nbflow/pkg/notebook"
	"github.com/lcastro/nbflow/pkg/style"
)

var paramsCmd = &cobra.Command{
	Use:   "params <notebook.ipynb>",
	Short: "Show parameters declared by a local notebook",
	Long: `Read a notebook file and print the assignments from its "parameters"
cell, in declaration order. Useful for checking what a register run would
expose as workflow arguments.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, err := notebook.Load(args[0])
		if err != nil {
			return err
		}

		params := notebook.ExtractParameters(nb)
		if len(params) == 0 {
			fmt.Println("No parameters found")
			return nil
		}

		for _, p := range params {
			fmt.Printf("%s = %s\n", style.C(style.Cyan, p.Name), p.Raw)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(paramsCmd)
}

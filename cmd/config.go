package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lcastro/nbflow/pkg/config"
	"github.com/lcastro/nbflow/pkg/style"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage nbflow configuration",
	Long: `Read and write ` + "`.nbflow.yaml`" + `.

Keys:
  repo_url       Git repository URL containing the notebook
  revision       Git revision to clone (default: main)
  notebook_path  Notebook path relative to the repository root
  runner_image   Container image with papermill installed
  template_name  Name for the generated WorkflowTemplate
  namespace      Target namespace (default: argo)
  server_url     Argo server URL

Every key can also be set via environment (NBFLOW_REPO_URL, ...). The API
token is environment-only: NBFLOW_TOKEN.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.Get(args[0])
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Println("(not set)")
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config values",
	RunE: func(cmd *cobra.Command, args []string) error {
		values := config.All()

		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Printf("\n%s\n%s\n\n", style.B("nbflow config"), style.C(style.Gray, config.Path()))
		for _, k := range keys {
			if values[k] == "" {
				fmt.Printf("  %-14s %s\n", k, style.C(style.Gray, "(not set)"))
			} else {
				fmt.Printf("  %-14s %s\n", k, style.C(style.Green, values[k]))
			}
		}
		fmt.Println()
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

package cmd

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/lcastro/nbflow/pkg/argo"
	"github.com/lcastro/nbflow/pkg/config"
	"github.com/lcastro/nbflow/pkg/style"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system setup for nbflow register",
	Long:  `Verify the tools, configuration, and server connectivity needed to register templates.`,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Printf("%s Checking nbflow setup\n\n", style.C(style.Blue, "→"))

	allGood := true

	// Check 1: git is installed
	if _, err := exec.LookPath("git"); err != nil {
		fmt.Printf("%s git is not installed\n", style.C(style.Red, "✗"))
		allGood = false
	} else {
		fmt.Printf("%s git installed\n", style.C(style.Green, "✓"))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Check 2: required config present
	required := []struct{ key, value string }{
		{"repo_url", cfg.RepoURL},
		{"notebook_path", cfg.NotebookPath},
		{"runner_image", cfg.RunnerImage},
		{"template_name", cfg.TemplateName},
	}
	for _, r := range required {
		if r.value == "" {
			fmt.Printf("%s %s not set\n", style.C(style.Yellow, "⚠"), r.key)
		} else {
			fmt.Printf("%s %s set\n", style.C(style.Green, "✓"), r.key)
		}
	}

	// Check 3: token present
	if config.Token() == "" {
		fmt.Printf("%s NBFLOW_TOKEN not set (required if the server needs auth)\n", style.C(style.Yellow, "⚠"))
	} else {
		fmt.Printf("%s NBFLOW_TOKEN set\n", style.C(style.Green, "✓"))
	}

	// Check 4: server reachable
	if cfg.ServerURL == "" {
		fmt.Printf("%s server_url not set\n", style.C(style.Red, "✗"))
		allGood = false
	} else {
		client, err := argo.NewClient(argo.Config{
			ServerURL: cfg.ServerURL,
			Namespace: cfg.Namespace,
			Token:     config.Token(),
			Timeout:   5 * time.Second,
		})
		if err != nil {
			return err
		}
		if version, err := client.Version(cmd.Context()); err != nil {
			fmt.Printf("%s argo server not reachable: %v\n", style.C(style.Red, "✗"), err)
			allGood = false
		} else {
			fmt.Printf("%s argo server reachable (%s)\n", style.C(style.Green, "✓"), version)
		}
	}

	fmt.Println()

	if !allGood {
		return fmt.Errorf("setup issues detected")
	}

	fmt.Printf("%s Setup OK\n", style.C(style.Green, "✓"))
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lcastro/nbflow/pkg/argo"
	"github.com/lcastro/nbflow/pkg/config"
	"github.com/lcastro/nbflow/pkg/git"
	"github.com/lcastro/nbflow/pkg/notebook"
	"github.com/lcastro/nbflow/pkg/style"
	"github.com/lcastro/nbflow/pkg/template"
)

var (
	repoFlag      string
	revisionFlag  string
	notebookFlag  string
	imageFlag     string
	nameFlag      string
	namespaceFlag string
	serverFlag    string
	insecureFlag  bool
	showYAMLFlag  bool
	dryRunFlag    bool
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create and register a workflow template from a notebook",
	Long: `Clone the notebook repository, extract its parameters, and register an
Argo WorkflowTemplate whose arguments mirror them.

All flags fall back to config values (see nbflow config). The API token is
read from NBFLOW_TOKEN.

Examples:
  nbflow register --repo https://github.com/me/nb.git --notebook analysis.ipynb \
      --image papermill-runner:latest --name analysis-template
  nbflow register --dry-run                    # render YAML, skip the server
  nbflow register --revision develop --show-yaml`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&repoFlag, "repo", "r", "", "Git repository URL (overrides config)")
	registerCmd.Flags().StringVar(&revisionFlag, "revision", "", "Git revision to clone (overrides config)")
	registerCmd.Flags().StringVarP(&notebookFlag, "notebook", "p", "", "Notebook path within the repository (overrides config)")
	registerCmd.Flags().StringVarP(&imageFlag, "image", "i", "", "Notebook runner container image (overrides config)")
	registerCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Workflow template name (overrides config)")
	registerCmd.Flags().StringVar(&namespaceFlag, "namespace", "", "Target namespace (overrides config)")
	registerCmd.Flags().StringVarP(&serverFlag, "server", "s", "", "Argo server URL (overrides config)")
	registerCmd.Flags().BoolVar(&insecureFlag, "insecure-skip-tls-verify", false, "Skip TLS certificate verification")
	registerCmd.Flags().BoolVar(&showYAMLFlag, "show-yaml", false, "Print the generated template YAML")
	registerCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Render the template without registering it")
	rootCmd.AddCommand(registerCmd)
}

// registerOptions is the resolved configuration for one register run.
type registerOptions struct {
	RepoURL      string
	Revision     string
	NotebookPath string
	RunnerImage  string
	TemplateName string
	Namespace    string
	ServerURL    string
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	opts, err := resolveRegisterOptions(cfg, dryRunFlag)
	if err != nil {
		return err
	}

	tmpl, err := buildTemplate(ctx, git.New(), opts)
	if err != nil {
		return err
	}

	if showYAMLFlag || dryRunFlag {
		out, err := tmpl.YAML()
		if err != nil {
			return fmt.Errorf("failed to render template: %w", err)
		}
		fmt.Print(string(out))
	}

	if dryRunFlag {
		log("Dry run - template not registered")
		return nil
	}

	client, err := argo.NewClient(argo.Config{
		ServerURL:          opts.ServerURL,
		Namespace:          opts.Namespace,
		Token:              config.Token(),
		InsecureSkipVerify: insecureFlag,
		Timeout:            30 * time.Second,
	})
	if err != nil {
		return err
	}

	log("Registering %s with %s...", opts.TemplateName, opts.ServerURL)
	if err := client.CreateWorkflowTemplate(ctx, tmpl); err != nil {
		return err
	}

	fmt.Printf("%s%s in namespace %s\n",
		style.Success("Registered"),
		style.C(style.Cyan, opts.TemplateName),
		opts.Namespace)
	return nil
}

// buildTemplate runs the fetch -> extract -> synthesize pipeline.
func buildTemplate(ctx context.Context, fetcher git.Fetcher, opts registerOptions) (*template.WorkflowTemplate, error) {
	tmpDir, err := os.MkdirTemp("", "nbflow-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	log("Cloning %s (%s)", opts.RepoURL, opts.Revision)
	if err := fetcher.Clone(ctx, opts.RepoURL, opts.Revision, tmpDir); err != nil {
		return nil, err
	}

	nbPath := filepath.Join(tmpDir, opts.NotebookPath)
	nb, err := notebook.Load(nbPath)
	if err != nil {
		return nil, fmt.Errorf("notebook %s: %w", opts.NotebookPath, err)
	}

	params := notebook.ExtractParameters(nb)
	if len(params) == 0 {
		log("Warning: no parameters found in %s. Proceeding anyway.", opts.NotebookPath)
	}
	for _, p := range params {
		log("  %s = %s", p.Name, p.Raw)
	}

	return template.Synthesize(template.Spec{
		Name:         opts.TemplateName,
		Namespace:    opts.Namespace,
		RepoURL:      opts.RepoURL,
		Revision:     opts.Revision,
		NotebookPath: opts.NotebookPath,
		RunnerImage:  opts.RunnerImage,
		Parameters:   params,
	}), nil
}

// resolveRegisterOptions applies flag > config precedence and validates
// required values. The server URL is only required outside dry runs.
func resolveRegisterOptions(cfg *config.Config, dryRun bool) (registerOptions, error) {
	opts := registerOptions{
		RepoURL:      firstOf(repoFlag, cfg.RepoURL),
		Revision:     firstOf(revisionFlag, cfg.Revision),
		NotebookPath: firstOf(notebookFlag, cfg.NotebookPath),
		RunnerImage:  firstOf(imageFlag, cfg.RunnerImage),
		TemplateName: firstOf(nameFlag, cfg.TemplateName),
		Namespace:    firstOf(namespaceFlag, cfg.Namespace),
		ServerURL:    firstOf(serverFlag, cfg.ServerURL),
	}

	missing := func(what, flag, key string) error {
		return fmt.Errorf("no %s configured. Use --%s or: nbflow config set %s <value>", what, flag, key)
	}

	switch {
	case opts.RepoURL == "":
		return opts, missing("repository", "repo", "repo_url")
	case opts.NotebookPath == "":
		return opts, missing("notebook path", "notebook", "notebook_path")
	case opts.RunnerImage == "":
		return opts, missing("runner image", "image", "runner_image")
	case opts.TemplateName == "":
		return opts, missing("template name", "name", "template_name")
	}

	if opts.ServerURL == "" && !dryRun {
		return opts, missing("argo server", "server", "server_url")
	}

	return opts, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

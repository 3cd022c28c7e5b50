package template

import (
	"fmt"
	"path"
	"strings"

	clog "github.com/lcastro/nbflow/pkg/log"
	"github.com/lcastro/nbflow/pkg/notebook"
)

const (
	// APIVersion and Kind identify the generated document type.
	APIVersion = "argoproj.io/v1alpha1"
	Kind       = "WorkflowTemplate"

	// Entrypoint is the single notebook-execution step.
	Entrypoint = "run-notebook"

	// RepoMountPath is where the git artifact materializes the source.
	RepoMountPath = "/mnt/repo"

	// OutputDir and OutputNotebookPath locate the executed notebook
	// captured as the run's durable artifact.
	OutputDir          = "/mnt/outputs"
	OutputNotebookPath = OutputDir + "/output_notebook.ipynb"

	repoArtifactName   = "repo"
	outputArtifactName = "executed-notebook"
)

// Spec is the static configuration for one synthesis.
type Spec struct {
	Name         string
	Namespace    string
	RepoURL      string
	Revision     string
	NotebookPath string
	RunnerImage  string
	Parameters   notebook.ParameterSet
}

// Synthesize builds a WorkflowTemplate from a parameter set and static
// configuration. The template declares one argument per parameter (with
// the quote-stripped default) and a single container step whose script
// re-applies every argument as a papermill -p flag, in declaration order.
//
// An empty parameter set produces a valid argument-less template; the
// notebook then runs with its own hard-coded defaults.
func Synthesize(spec Spec) *WorkflowTemplate {
	args := declaredArguments(spec.Parameters)

	// Step inputs bind each argument by name so submission-time overrides
	// reach the container script.
	inputParams := make([]Parameter, len(args))
	for i, a := range args {
		inputParams[i] = Parameter{Name: a.Name}
	}

	step := Template{
		Name: Entrypoint,
		Inputs: Inputs{
			Parameters: inputParams,
			Artifacts: []Artifact{
				{
					Name: repoArtifactName,
					Path: RepoMountPath,
					Git: &GitArtifact{
						Repo:     spec.RepoURL,
						Revision: spec.Revision,
					},
				},
			},
		},
		Outputs: Outputs{
			Artifacts: []Artifact{
				{
					Name: outputArtifactName,
					Path: OutputNotebookPath,
				},
			},
		},
		Container: &Container{
			Image:   spec.RunnerImage,
			Command: []string{"/bin/sh", "-c"},
			Args:    []string{runScript(spec.NotebookPath, spec.Parameters.Names())},
		},
	}

	clog.Debug("synthesized workflow template",
		"name", spec.Name,
		"namespace", spec.Namespace,
		"parameters", len(args),
	)

	return &WorkflowTemplate{
		APIVersion: APIVersion,
		Kind:       Kind,
		Metadata: Metadata{
			Name:      spec.Name,
			Namespace: spec.Namespace,
		},
		Spec: WorkflowSpec{
			Entrypoint: Entrypoint,
			Arguments:  Arguments{Parameters: args},
			Templates:  []Template{step},
		},
	}
}

// declaredArguments maps extracted parameters to workflow arguments,
// preserving order. The externally visible default is the raw text with
// surrounding quote characters and whitespace stripped.
func declaredArguments(ps notebook.ParameterSet) []Parameter {
	var args []Parameter
	for _, p := range ps {
		args = append(args, Parameter{
			Name:  p.Name,
			Value: strings.Trim(p.Raw, `'" `),
		})
	}
	return args
}

// ParamRef returns the runtime substitution token for an input parameter.
func ParamRef(name string) string {
	return fmt.Sprintf("{{inputs.parameters.%s}}", name)
}

// runScript builds the container entrypoint script. Each parameter gets
// exactly one flag-append line, so the script references the same names as
// the declared arguments, in the same order.
func runScript(notebookPath string, names []string) string {
	lines := []string{
		"set -ex",
		"",
		"mkdir -p " + OutputDir,
		"",
		"if [ -f " + RepoMountPath + "/requirements.txt ]; then",
		"    pip install -r " + RepoMountPath + "/requirements.txt",
		"else",
		`    echo "No requirements.txt found, skipping."`,
		"fi",
		"",
		`papermill_args=""`,
	}

	// Tokens are substituted by the workflow engine before the shell runs;
	// $papermill_args is then expanded unquoted, so a resolved value
	// containing spaces splits into separate words at the papermill call.
	for _, name := range names {
		lines = append(lines, fmt.Sprintf(
			`papermill_args="$papermill_args -p %s \"%s\""`, name, ParamRef(name)))
	}

	lines = append(lines,
		"",
		fmt.Sprintf("papermill %s %s $papermill_args",
			path.Join(RepoMountPath, notebookPath), OutputNotebookPath),
		"",
	)

	return strings.Join(lines, "\n")
}

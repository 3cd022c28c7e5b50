package template

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/lcastro/nbflow/pkg/notebook"
)

func testSpec(params notebook.ParameterSet) Spec {
	return Spec{
		Name:         "analysis-template",
		Namespace:    "argo",
		RepoURL:      "https://github.com/me/notebooks.git",
		Revision:     "main",
		NotebookPath: "analysis.ipynb",
		RunnerImage:  "papermill-runner:1.0",
		Parameters:   params,
	}
}

func TestSynthesizeMetadata(t *testing.T) {
	wt := Synthesize(testSpec(nil))

	if wt.APIVersion != "argoproj.io/v1alpha1" || wt.Kind != "WorkflowTemplate" {
		t.Errorf("Unexpected document type: %s/%s", wt.APIVersion, wt.Kind)
	}
	if wt.Metadata.Name != "analysis-template" || wt.Metadata.Namespace != "argo" {
		t.Errorf("Unexpected metadata: %+v", wt.Metadata)
	}
	if wt.Spec.Entrypoint != Entrypoint {
		t.Errorf("Expected entrypoint %q, got %q", Entrypoint, wt.Spec.Entrypoint)
	}
}

func TestSynthesizeQuoteStripping(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"hello"`, "hello"},
		{`'hello'`, "hello"},
		{"hello", "hello"},
		{`"0.5"`, "0.5"},
		{`" padded "`, "padded"},
	}

	for _, tt := range tests {
		wt := Synthesize(testSpec(notebook.ParameterSet{{Name: "x", Raw: tt.raw}}))
		got := wt.Spec.Arguments.Parameters[0].Value
		if got != tt.want {
			t.Errorf("Default for raw %q: expected %q, got %q", tt.raw, tt.want, got)
		}
	}
}

func TestSynthesizeArgumentOrder(t *testing.T) {
	params := notebook.ParameterSet{
		{Name: "zeta", Raw: "1"},
		{Name: "alpha", Raw: "2"},
		{Name: "mid", Raw: "3"},
	}
	wt := Synthesize(testSpec(params))

	var names []string
	for _, p := range wt.Spec.Arguments.Parameters {
		names = append(names, p.Name)
	}
	if !reflect.DeepEqual(names, []string{"zeta", "alpha", "mid"}) {
		t.Errorf("Argument order must match declaration order, got %v", names)
	}

	// Step input parameters mirror the declared arguments
	var inputs []string
	for _, p := range wt.Spec.Templates[0].Inputs.Parameters {
		inputs = append(inputs, p.Name)
	}
	if !reflect.DeepEqual(inputs, names) {
		t.Errorf("Step inputs %v should mirror arguments %v", inputs, names)
	}
}

func TestSynthesizeScriptTokens(t *testing.T) {
	params := notebook.ParameterSet{
		{Name: "alpha", Raw: "1"},
		{Name: "beta", Raw: `"x"`},
	}
	wt := Synthesize(testSpec(params))
	script := wt.Spec.Templates[0].Container.Args[0]

	// One -p pair per parameter, referencing the runtime token
	lastIdx := -1
	for _, name := range []string{"alpha", "beta"} {
		flag := fmt.Sprintf(`-p %s \"%s\"`, name, ParamRef(name))
		if strings.Count(script, flag) != 1 {
			t.Errorf("Expected exactly one flag pair for %s in script:\n%s", name, script)
		}
		idx := strings.Index(script, flag)
		if idx < lastIdx {
			t.Errorf("Parameter %s out of order in script", name)
		}
		lastIdx = idx

		if strings.Count(script, ParamRef(name)) != 1 {
			t.Errorf("Token for %s should appear exactly once", name)
		}
	}
}

func TestSynthesizeScriptContents(t *testing.T) {
	wt := Synthesize(testSpec(nil))
	step := wt.Spec.Templates[0]

	if got := step.Container.Command; !reflect.DeepEqual(got, []string{"/bin/sh", "-c"}) {
		t.Errorf("Unexpected command: %v", got)
	}

	script := step.Container.Args[0]
	for _, want := range []string{
		"set -ex",
		"mkdir -p /mnt/outputs",
		"if [ -f /mnt/repo/requirements.txt ]; then",
		"pip install -r /mnt/repo/requirements.txt",
		"papermill /mnt/repo/analysis.ipynb /mnt/outputs/output_notebook.ipynb $papermill_args",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("Script missing %q:\n%s", want, script)
		}
	}

	// Empty parameter set: no tokens, empty flag-list
	if strings.Contains(script, "inputs.parameters") {
		t.Errorf("Argument-less script should carry no parameter tokens:\n%s", script)
	}
	if !strings.Contains(script, `papermill_args=""`) {
		t.Errorf("Script should initialize an empty flag-list:\n%s", script)
	}
}

func TestSynthesizeBindings(t *testing.T) {
	wt := Synthesize(testSpec(nil))
	step := wt.Spec.Templates[0]

	if len(step.Inputs.Artifacts) != 1 {
		t.Fatalf("Expected 1 input artifact, got %d", len(step.Inputs.Artifacts))
	}
	repo := step.Inputs.Artifacts[0]
	if repo.Path != RepoMountPath {
		t.Errorf("Repo artifact path: got %q", repo.Path)
	}
	if repo.Git == nil || repo.Git.Repo != "https://github.com/me/notebooks.git" || repo.Git.Revision != "main" {
		t.Errorf("Unexpected git artifact: %+v", repo.Git)
	}

	if len(step.Outputs.Artifacts) != 1 {
		t.Fatalf("Expected 1 output artifact, got %d", len(step.Outputs.Artifacts))
	}
	if step.Outputs.Artifacts[0].Path != OutputNotebookPath {
		t.Errorf("Output artifact path: got %q", step.Outputs.Artifacts[0].Path)
	}

	if step.Container.Image != "papermill-runner:1.0" {
		t.Errorf("Unexpected image: %q", step.Container.Image)
	}
}

func TestSynthesizeIdempotent(t *testing.T) {
	params := notebook.ParameterSet{
		{Name: "a", Raw: "1"},
		{Name: "b", Raw: `'two'`},
	}

	first := Synthesize(testSpec(params))
	second := Synthesize(testSpec(params))

	if !reflect.DeepEqual(first, second) {
		t.Error("Synthesis should be deterministic for identical inputs")
	}

	y1, err := first.YAML()
	if err != nil {
		t.Fatalf("YAML() error: %v", err)
	}
	y2, _ := second.YAML()
	if string(y1) != string(y2) {
		t.Error("Rendered YAML should be identical across runs")
	}
}

func TestYAMLRender(t *testing.T) {
	wt := Synthesize(testSpec(notebook.ParameterSet{{Name: "x", Raw: `"v"`}}))

	out, err := wt.YAML()
	if err != nil {
		t.Fatalf("YAML() error: %v", err)
	}

	yaml := string(out)
	for _, want := range []string{
		"apiVersion: argoproj.io/v1alpha1",
		"kind: WorkflowTemplate",
		"name: analysis-template",
		"entrypoint: run-notebook",
		"name: x",
		"value: v",
	} {
		if !strings.Contains(yaml, want) {
			t.Errorf("YAML missing %q:\n%s", want, yaml)
		}
	}
}

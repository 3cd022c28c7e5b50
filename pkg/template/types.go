// Package template synthesizes Argo WorkflowTemplates from notebook
// parameter sets.
package template

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// WorkflowTemplate mirrors the Argo WorkflowTemplate document structure.
// JSON tags match the Argo server API; YAML tags match kubectl manifests.
type WorkflowTemplate struct {
	APIVersion string       `json:"apiVersion" yaml:"apiVersion"`
	Kind       string       `json:"kind" yaml:"kind"`
	Metadata   Metadata     `json:"metadata" yaml:"metadata"`
	Spec       WorkflowSpec `json:"spec" yaml:"spec"`
}

type Metadata struct {
	Name      string `json:"name" yaml:"name"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

type WorkflowSpec struct {
	Entrypoint string     `json:"entrypoint" yaml:"entrypoint"`
	Arguments  Arguments  `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Templates  []Template `json:"templates" yaml:"templates"`
}

type Arguments struct {
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Parameter is a declared argument. At the workflow level Value carries the
// default; inside template inputs only Name is set and the runtime resolves
// the current value.
type Parameter struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

type Template struct {
	Name      string     `json:"name" yaml:"name"`
	Inputs    Inputs     `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs   Outputs    `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Container *Container `json:"container,omitempty" yaml:"container,omitempty"`
}

type Inputs struct {
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Artifacts  []Artifact  `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
}

type Outputs struct {
	Artifacts []Artifact `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
}

type Artifact struct {
	Name string       `json:"name" yaml:"name"`
	Path string       `json:"path" yaml:"path"`
	Git  *GitArtifact `json:"git,omitempty" yaml:"git,omitempty"`
}

// GitArtifact declares that a repository must be materialized at the
// artifact path before the step runs.
type GitArtifact struct {
	Repo     string `json:"repo" yaml:"repo"`
	Revision string `json:"revision,omitempty" yaml:"revision,omitempty"`
}

type Container struct {
	Image   string   `json:"image" yaml:"image"`
	Command []string `json:"command,omitempty" yaml:"command,omitempty"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// YAML renders the template as a manifest.
func (wt *WorkflowTemplate) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(wt); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

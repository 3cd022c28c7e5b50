// Package notebook reads Jupyter notebooks (nbformat JSON) and extracts
// parameter declarations following the Papermill "parameters" cell
// convention.
package notebook

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Notebook is the subset of nbformat v4 this tool needs.
type Notebook struct {
	Cells         []Cell `json:"cells"`
	NBFormat      int    `json:"nbformat"`
	NBFormatMinor int    `json:"nbformat_minor"`
}

type Cell struct {
	CellType string   `json:"cell_type"`
	Metadata Metadata `json:"metadata"`
	Source   Source   `json:"source"`
}

type Metadata struct {
	Tags []string `json:"tags"`
}

// Source is a cell's source text. nbformat stores it either as a single
// string or as a list of line strings; both decode to the joined text.
type Source string

func (s *Source) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = Source(single)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("cell source must be a string or a list of strings: %w", err)
	}
	*s = Source(strings.Join(lines, ""))
	return nil
}

// HasTag reports whether the cell carries the given metadata tag.
func (c *Cell) HasTag(tag string) bool {
	for _, t := range c.Metadata.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Parse decodes notebook JSON. A document that is not valid nbformat JSON
// is a hard error; malformed content inside cells is not.
func Parse(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("failed to parse notebook: %w", err)
	}
	return &nb, nil
}

// Load reads and parses a notebook file.
func Load(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook: %w", err)
	}
	return Parse(data)
}

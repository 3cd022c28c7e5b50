package notebook

import (
	"strings"

	clog "github.com/lcastro/nbflow/pkg/log"
)

// ParametersTag marks the cell whose assignments declare the notebook's
// overridable inputs (Papermill convention).
const ParametersTag = "parameters"

// Parameter is one declared notebook parameter. Raw is the unparsed
// right-hand side of the assignment, quotes and all; defaults are opaque
// text and are never evaluated.
type Parameter struct {
	Name string
	Raw  string
}

// ParameterSet is an ordered list of parameters with unique names.
type ParameterSet []Parameter

// Names returns the parameter names in declaration order.
func (ps ParameterSet) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

// ExtractParameters scans cells in document order and parses the first
// code cell tagged "parameters". Later cells with the tag are ignored.
// A notebook without a parameters cell yields an empty set, which is a
// warning, not an error.
//
// Duplicate names within the cell overwrite the earlier value and take
// the later occurrence's position.
func ExtractParameters(nb *Notebook) ParameterSet {
	for _, cell := range nb.Cells {
		if cell.CellType != "code" || !cell.HasTag(ParametersTag) {
			continue
		}
		params := parseAssignments(string(cell.Source))
		if len(params) == 0 {
			clog.Warn("parameters cell contains no assignments")
		}
		return params
	}

	clog.Warn("no parameters cell found in notebook")
	return nil
}

// parseAssignments extracts name = value pairs line by line. Lines without
// an "=", comment lines, and blank lines are skipped. Only the first "="
// splits, so values containing "=" stay intact.
func parseAssignments(source string) ParameterSet {
	var params ParameterSet
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "=") || strings.HasPrefix(line, "=") {
			continue
		}

		name, raw, _ := strings.Cut(line, "=")
		name = strings.TrimSpace(name)
		raw = strings.TrimSpace(raw)

		params = params.put(name, raw)
		clog.Debug("found parameter", "name", name, "default", raw)
	}
	return params
}

// put appends a parameter, replacing any earlier entry with the same name.
// The replacement entry moves to the end.
func (ps ParameterSet) put(name, raw string) ParameterSet {
	for i := range ps {
		if ps[i].Name == name {
			ps = append(ps[:i], ps[i+1:]...)
			break
		}
	}
	return append(ps, Parameter{Name: name, Raw: raw})
}

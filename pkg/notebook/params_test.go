package notebook

import (
	"reflect"
	"testing"
)

func paramsNotebook(source string) *Notebook {
	return &Notebook{
		Cells: []Cell{
			{CellType: "markdown", Source: "# Title"},
			{
				CellType: "code",
				Metadata: Metadata{Tags: []string{ParametersTag}},
				Source:   Source(source),
			},
		},
	}
}

func TestExtractNoParametersCell(t *testing.T) {
	nb := &Notebook{
		Cells: []Cell{
			{CellType: "code", Source: "x = 1"},
			{CellType: "markdown", Source: "text"},
		},
	}

	params := ExtractParameters(nb)
	if len(params) != 0 {
		t.Errorf("Expected empty set without a tagged cell, got %v", params)
	}
}

func TestExtractWellFormed(t *testing.T) {
	params := ExtractParameters(paramsNotebook("alpha = 1\nbeta = \"two\"\ngamma = 3.5"))

	want := ParameterSet{
		{Name: "alpha", Raw: "1"},
		{Name: "beta", Raw: `"two"`},
		{Name: "gamma", Raw: "3.5"},
	}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("Extraction mismatch:\n got %v\nwant %v", params, want)
	}
}

func TestExtractSkipsCommentsAndBlanks(t *testing.T) {
	src := "# configuration\n\n  # indented comment\nx = 1\n\n"
	params := ExtractParameters(paramsNotebook(src))

	if len(params) != 1 || params[0].Name != "x" {
		t.Errorf("Expected single parameter x, got %v", params)
	}
}

func TestExtractInlineCommentKept(t *testing.T) {
	params := ExtractParameters(paramsNotebook("threshold = 0.5  # comment"))

	if len(params) != 1 {
		t.Fatalf("Expected 1 parameter, got %d", len(params))
	}
	if params[0].Raw != "0.5  # comment" {
		t.Errorf("Inline comments must not be stripped, got %q", params[0].Raw)
	}
}

func TestExtractFirstEqualsSplitOnly(t *testing.T) {
	params := ExtractParameters(paramsNotebook("x = a=b"))

	if len(params) != 1 {
		t.Fatalf("Expected 1 parameter, got %d", len(params))
	}
	if params[0].Raw != "a=b" {
		t.Errorf("Expected raw 'a=b', got %q", params[0].Raw)
	}
}

func TestExtractIgnoresNonAssignments(t *testing.T) {
	src := "print(x)\n= 5\nimport os\ny = 2"
	params := ExtractParameters(paramsNotebook(src))

	want := ParameterSet{{Name: "y", Raw: "2"}}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("Expected only y, got %v", params)
	}
}

func TestExtractDuplicateNames(t *testing.T) {
	params := ExtractParameters(paramsNotebook("n = 1\nother = x\nn = 2"))

	want := ParameterSet{
		{Name: "other", Raw: "x"},
		{Name: "n", Raw: "2"},
	}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("Duplicate should keep later value and position:\n got %v\nwant %v", params, want)
	}
}

func TestExtractFirstTaggedCellWins(t *testing.T) {
	nb := &Notebook{
		Cells: []Cell{
			{
				CellType: "code",
				Metadata: Metadata{Tags: []string{ParametersTag}},
				Source:   "first = 1",
			},
			{
				CellType: "code",
				Metadata: Metadata{Tags: []string{ParametersTag}},
				Source:   "second = 2",
			},
		},
	}

	params := ExtractParameters(nb)
	want := ParameterSet{{Name: "first", Raw: "1"}}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("Only the first tagged cell should be read, got %v", params)
	}
}

func TestExtractSkipsTaggedNonCodeCell(t *testing.T) {
	nb := &Notebook{
		Cells: []Cell{
			{
				CellType: "markdown",
				Metadata: Metadata{Tags: []string{ParametersTag}},
				Source:   "x = 1",
			},
			{
				CellType: "code",
				Metadata: Metadata{Tags: []string{ParametersTag}},
				Source:   "y = 2",
			},
		},
	}

	params := ExtractParameters(nb)
	want := ParameterSet{{Name: "y", Raw: "2"}}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("Tagged markdown cell must be skipped, got %v", params)
	}
}

func TestExtractEmptyTaggedCell(t *testing.T) {
	params := ExtractParameters(paramsNotebook("# nothing here\n"))
	if len(params) != 0 {
		t.Errorf("Expected empty set for cell without assignments, got %v", params)
	}
}

func TestNames(t *testing.T) {
	ps := ParameterSet{{Name: "a", Raw: "1"}, {Name: "b", Raw: "2"}}

	names := ps.Names()
	if !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v", names)
	}
}

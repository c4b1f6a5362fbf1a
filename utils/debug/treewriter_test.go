package debug

import (
	"testing"
)

func TestTreeWriter_Empty(t *testing.T) {
	tw := NewTreeWriter()
	if tw.String() != "" {
		t.Error("Expected empty string from new TreeWriter")
	}
	if tw.Lines() != 0 {
		t.Errorf("Lines() = %d, want 0", tw.Lines())
	}
}

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{name: "no depth", depth: 0, format: "stylesheet", want: "stylesheet\n"},
		{name: "depth 1", depth: 1, format: "rule", want: "  rule\n"},
		{name: "depth 2", depth: 2, format: "decl", want: "    decl\n"},
		{name: "negative depth", depth: -1, format: "root", want: "root\n"},
		{name: "with formatting", depth: 1, format: "rule line %d", args: []any{42}, want: "  rule line 42\n"},
		{name: "multiple args", depth: 0, format: "%s: %d nodes", args: []any{"stylesheet", 5}, want: "stylesheet: 5 nodes\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Field(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{name: "empty value", depth: 0, label: "params", value: "", want: "params: \n"},
		{name: "selector", depth: 1, label: "selector", value: ".foo, .bar", want: "  selector: \".foo, .bar\"\n"},
		{name: "attribute quotes", depth: 2, label: "selector", value: `a[href="x"]`, want: "    selector: \"a[href=\\\"x\\\"]\"\n"},
		{name: "newline", depth: 0, label: "selector", value: ".a,\n.b", want: "selector: \".a,\\n.b\"\n"},
		{name: "tab", depth: 0, label: "raw", value: "color:\tred", want: "raw: \"color:\\tred\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Field(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("Field() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Tree(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "stylesheet: %d nodes", 2)
	tw.Line(1, "comment line %d", 1)
	tw.Field(2, "text", "postcss-cleaner:ignore on")
	tw.Line(1, "rule line %d", 2)
	tw.Field(2, "selector", ".bar")

	want := "stylesheet: 2 nodes\n" +
		"  comment line 1\n" +
		"    text: \"postcss-cleaner:ignore on\"\n" +
		"  rule line 2\n" +
		"    selector: \".bar\"\n"
	if got := tw.String(); got != want {
		t.Errorf("tree:\ngot:\n%s\nwant:\n%s", got, want)
	}
	if tw.Lines() != 5 {
		t.Errorf("Lines() = %d, want 5", tw.Lines())
	}
}

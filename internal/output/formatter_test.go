package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"toon", FormatTOON},
		{"dot", FormatDOT},
		{"graphviz", FormatDOT},
		{"", FormatText},
		{"invalid", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidFormat(t *testing.T) {
	for _, s := range []string{"text", "JSON", "md", "toon", "dot", ""} {
		if !ValidFormat(s) {
			t.Errorf("ValidFormat(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"xml", "yaml", "html"} {
		if ValidFormat(s) {
			t.Errorf("ValidFormat(%q) = true, want false", s)
		}
	}
}

func TestNewFormatterWithFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "report.json")

	f, err := NewFormatter(FormatJSON, outputPath, true)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}
	if f.colored {
		t.Error("colored should be false when writing to file")
	}
	if err := f.Output(map[string]int{"files": 3}); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), `"files": 3`) {
		t.Errorf("file content = %q", data)
	}
}

func TestNewFormatterInvalidPath(t *testing.T) {
	if _, err := NewFormatter(FormatText, "/nonexistent/directory/file.txt", false); err == nil {
		t.Error("NewFormatter() should error for invalid path")
	}
}

func TestWriterFormatterClose(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriterFormatter(FormatMarkdown, &buf, true).Close(); err != nil {
		t.Errorf("Close() without a file should not error: %v", err)
	}
}

func couplingTable() *Table {
	table := NewTable("Coupling", []string{"File", "Total"}, []string{"pkg/core.py", "pkg/util.py"})
	table.Add(LevelWarn, "pkg/core.py", "12")
	table.Add(LevelNone, "pkg/util.py", "3")
	table.Footer = []string{"2 modules", ""}
	return table
}

func TestTableRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := couplingTable().RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Coupling", "========", "pkg/core.py", "12", "pkg/util.py", "2 modules"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderText() missing %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("uncolored output should carry no escape codes")
	}
}

func TestTableRenderTextColorsFlaggedRows(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	if err := couplingTable().RenderText(&buf, true); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}

	var flagged, plain string
	for _, line := range strings.Split(buf.String(), "\n") {
		switch {
		case strings.Contains(line, "pkg/core.py"):
			flagged = line
		case strings.Contains(line, "pkg/util.py"):
			plain = line
		}
	}
	if !strings.Contains(flagged, "\x1b[") {
		t.Errorf("warning row should be colored: %q", flagged)
	}
	if strings.Contains(plain, "\x1b[") {
		t.Errorf("unflagged row should not be colored: %q", plain)
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	table := NewTable("Cycles", []string{"Path", "Severity"}, nil)
	table.Add(LevelAlert, "a.py -> b.py", "high")
	table.Add(LevelWarn, "c|d.py", "medium")

	var buf bytes.Buffer
	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}

	want := "## Cycles\n\n" +
		"| Path | Severity |\n" +
		"| --- | --- |\n" +
		"| **a.py -> b.py** | high |\n" +
		"| c\\|d.py | medium |\n\n"
	if buf.String() != want {
		t.Errorf("RenderMarkdown() = %q, want %q", buf.String(), want)
	}
}

func TestTableFlagged(t *testing.T) {
	table := NewTable("T", nil, nil)
	table.Add(LevelNone, "a")
	table.Add(LevelWarn, "b")
	table.Add(LevelAlert, "c")

	if got := table.Flagged(LevelWarn); got != 2 {
		t.Errorf("Flagged(warn) = %d, want 2", got)
	}
	if got := table.Flagged(LevelAlert); got != 1 {
		t.Errorf("Flagged(alert) = %d, want 1", got)
	}
}

func TestFactsRenderText(t *testing.T) {
	f := &Facts{Title: "Summary"}
	f.Add(LevelNone, "Files", 4)
	f.Add(LevelAlert, "Cycles", 1)

	var buf bytes.Buffer
	if err := f.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}

	want := "Summary\n-------\n\nFiles:   4\nCycles:  1\n"
	if buf.String() != want {
		t.Errorf("RenderText() = %q, want %q", buf.String(), want)
	}
}

func TestFactsRenderData(t *testing.T) {
	f := &Facts{}
	f.Add(LevelNone, "Files", 4)
	m, ok := f.RenderData().(map[string]string)
	if !ok || m["Files"] != "4" {
		t.Errorf("RenderData() = %#v", f.RenderData())
	}

	f.Data = "explicit"
	if f.RenderData() != "explicit" {
		t.Error("RenderData() should prefer the Data field")
	}
}

func TestReportRenderData(t *testing.T) {
	r := &Report{Title: "R", Sections: []Renderable{&Facts{Title: "S"}}, Data: "explicit"}
	if r.RenderData() != "explicit" {
		t.Errorf("RenderData() = %#v, want the Data field", r.RenderData())
	}
}

func TestFormatterOutputRenderable(t *testing.T) {
	table := NewTable("Cycles", []string{"Path"}, []string{"a.py", "b.py"})
	table.Add(LevelAlert, "a.py -> b.py -> a.py")

	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "a.py -> b.py -> a.py"},
		{FormatMarkdown, "| **a.py -> b.py -> a.py** |"},
		{FormatJSON, "[\n  \"a.py\",\n  \"b.py\"\n]\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewWriterFormatter(tt.format, &buf, false).Output(table); err != nil {
				t.Fatalf("Output() error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Output() = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestFormatterOutputTOON(t *testing.T) {
	data := struct {
		Files  int      `json:"files" toon:"files"`
		Orphan []string `json:"orphans" toon:"orphans"`
	}{Files: 2, Orphan: []string{"old.py"}}

	var buf bytes.Buffer
	if err := NewWriterFormatter(FormatTOON, &buf, false).Output(data); err != nil {
		t.Fatalf("Output() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "files: 2") || !strings.Contains(out, "old.py") {
		t.Errorf("TOON output = %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("TOON output should end with a newline")
	}
}

func TestFormatterOutputDOTWithoutGraph(t *testing.T) {
	var buf bytes.Buffer
	f := NewWriterFormatter(FormatDOT, &buf, false)

	if err := f.Output(NewTable("T", nil, nil)); !errors.Is(err, ErrNoGraph) {
		t.Errorf("Output(table) error = %v, want ErrNoGraph", err)
	}
	if err := f.Output(map[string]int{}); !errors.Is(err, ErrNoGraph) {
		t.Errorf("Output(raw) error = %v, want ErrNoGraph", err)
	}
	if err := f.Output(&Report{}); !errors.Is(err, ErrNoGraph) {
		t.Errorf("Output(report without graph) error = %v, want ErrNoGraph", err)
	}
}

func TestFormatterOutputRaw(t *testing.T) {
	data := map[string]any{"cycles": 0}

	var js bytes.Buffer
	if err := NewWriterFormatter(FormatJSON, &js, false).Output(data); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("Output() produced invalid JSON: %v", err)
	}

	var md bytes.Buffer
	if err := NewWriterFormatter(FormatMarkdown, &md, false).Output(data); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if !strings.HasPrefix(md.String(), "```json\n") || !strings.HasSuffix(md.String(), "```\n") {
		t.Errorf("markdown raw output = %q", md.String())
	}
}

func TestPaint(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = noColor })

	if got := paint(LevelNone, "text"); got != "text" {
		t.Errorf("paint(none) = %q, want plain text", got)
	}
	for _, level := range []Level{LevelWarn, LevelAlert} {
		got := paint(level, "text")
		if !strings.Contains(got, "text") || !strings.HasPrefix(got, "\x1b[") {
			t.Errorf("paint(%d) = %q, want colored text", level, got)
		}
	}
}

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Level grades a finding. Colored text output paints warnings yellow and
// alerts red; markdown marks alerts in bold.
type Level int

const (
	LevelNone Level = iota
	LevelWarn
	LevelAlert
)

// paint colors s for the level. color.NoColor still applies.
func paint(level Level, s string) string {
	switch level {
	case LevelAlert:
		return color.New(color.FgRed, color.Bold).Sprint(s)
	case LevelWarn:
		return color.YellowString(s)
	default:
		return s
	}
}

// Row is one table line with the level of the finding it shows.
type Row struct {
	Cells []string
	Level Level
}

// Table lists findings one per row. Data is what JSON and TOON output
// encode; the rows exist only for people.
type Table struct {
	Title   string
	Headers []string
	Rows    []Row
	Footer  []string
	Data    any
}

// NewTable starts an empty table over data.
func NewTable(title string, headers []string, data any) *Table {
	return &Table{Title: title, Headers: headers, Data: data}
}

// Add appends a row.
func (t *Table) Add(level Level, cells ...string) {
	t.Rows = append(t.Rows, Row{Cells: cells, Level: level})
}

// Flagged counts rows at or above level.
func (t *Table) Flagged(level Level) int {
	n := 0
	for _, r := range t.Rows {
		if r.Level >= level {
			n++
		}
	}
	return n
}

func (t *Table) RenderData() any {
	return t.Data
}

func (t *Table) RenderText(w io.Writer, colored bool) error {
	writeHeading(w, t.Title, "=", colored)

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
			},
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
			Footer: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders:  tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{Separators: tw.Separators{BetweenColumns: tw.Off}},
		}),
	)

	table.Header(t.Headers)
	for _, r := range t.Rows {
		cells := r.Cells
		if colored && r.Level != LevelNone {
			cells = make([]string, len(r.Cells))
			for i, c := range r.Cells {
				cells[i] = paint(r.Level, c)
			}
		}
		if err := table.Append(cells); err != nil {
			return err
		}
	}
	if len(t.Footer) > 0 {
		footer := make([]any, len(t.Footer))
		for i, f := range t.Footer {
			footer[i] = f
		}
		table.Footer(footer...)
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func (t *Table) RenderMarkdown(w io.Writer) error {
	writeMarkdownHeading(w, 2, t.Title)
	writeMarkdownRow(w, t.Headers)
	seps := make([]string, len(t.Headers))
	for i := range seps {
		seps[i] = "---"
	}
	writeMarkdownRow(w, seps)

	for _, r := range t.Rows {
		cells := make([]string, len(r.Cells))
		for i, c := range r.Cells {
			cells[i] = escapeMarkdownCell(c)
		}
		if r.Level == LevelAlert && len(cells) > 0 && cells[0] != "" {
			cells[0] = "**" + cells[0] + "**"
		}
		writeMarkdownRow(w, cells)
	}
	if len(t.Footer) > 0 {
		writeMarkdownRow(w, t.Footer)
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeMarkdownRow(w io.Writer, cells []string) {
	fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
}

// escapeMarkdownCell keeps a pipe inside a cell from splitting the row.
func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// writeHeading prints title with an underline of the same width. attrs
// style the colored title and default to bold.
func writeHeading(w io.Writer, title, underline string, colored bool, attrs ...color.Attribute) {
	if title == "" {
		return
	}
	if len(attrs) == 0 {
		attrs = []color.Attribute{color.Bold}
	}
	if colored {
		color.New(attrs...).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintf(w, "%s\n\n", strings.Repeat(underline, len(title)))
}

// writeMarkdownHeading prints an ATX heading at depth.
func writeMarkdownHeading(w io.Writer, depth int, title string) {
	if title != "" {
		fmt.Fprintf(w, "%s %s\n\n", strings.Repeat("#", depth), title)
	}
}

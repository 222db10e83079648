package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Report stacks several views under one title. JSON and TOON output encode
// Data, not the views, so machine output keeps the analysis shape.
type Report struct {
	Title    string
	Sections []Renderable
	Data     any
	// Graph, when set, makes the report drawable as DOT.
	Graph *GraphView
}

func (r *Report) RenderData() any {
	return r.Data
}

func (r *Report) RenderDOT(w io.Writer) error {
	if r.Graph == nil {
		return ErrNoGraph
	}
	return r.Graph.RenderDOT(w)
}

// RenderText prints the title, then each view separated by a blank line.
func (r *Report) RenderText(w io.Writer, colored bool) error {
	writeHeading(w, r.Title, "=", colored, color.Bold, color.FgCyan)
	for i, s := range r.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := s.RenderText(w, colored); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) RenderMarkdown(w io.Writer) error {
	writeMarkdownHeading(w, 1, r.Title)
	for _, s := range r.Sections {
		if err := s.RenderMarkdown(w); err != nil {
			return err
		}
	}
	return nil
}

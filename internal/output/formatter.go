// Package output renders analysis results for people and tools.
//
// Views are Renderable values: they draw themselves as text or markdown and
// hand back plain data for the JSON and TOON encoders. Views that carry a
// dependency graph can also be drawn as Graphviz DOT.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	toon "github.com/toon-format/toon-go"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
	FormatDOT      Format = "dot"
)

// ErrNoGraph is returned when DOT output is requested for data that has no
// graph to draw.
var ErrNoGraph = errors.New("output has no graph to render as dot")

var formatAliases = map[string]Format{
	"text":     FormatText,
	"json":     FormatJSON,
	"markdown": FormatMarkdown,
	"md":       FormatMarkdown,
	"toon":     FormatTOON,
	"dot":      FormatDOT,
	"graphviz": FormatDOT,
}

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	if f, ok := formatAliases[strings.ToLower(s)]; ok {
		return f
	}
	return FormatText
}

// ValidFormat reports whether s names a known format. The empty string is
// valid and means "use the default".
func ValidFormat(s string) bool {
	if s == "" {
		return true
	}
	_, ok := formatAliases[strings.ToLower(s)]
	return ok
}

// Renderable is a view that can draw itself for people and expose its data
// for machines.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	// RenderData returns the value encoded for JSON and TOON output.
	RenderData() any
}

// DOTRenderable is implemented by views that can be drawn as a Graphviz graph.
type DOTRenderable interface {
	RenderDOT(w io.Writer) error
}

// Formatter writes views in one output format.
type Formatter struct {
	format  Format
	writer  io.Writer
	file    *os.File
	colored bool
}

// NewFormatter creates a formatter writing to stdout, or to the file at
// output when it is set. File output is never colored.
func NewFormatter(format Format, output string, colored bool) (*Formatter, error) {
	if output == "" {
		return NewWriterFormatter(format, os.Stdout, colored), nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, err
	}
	return &Formatter{format: format, writer: f, file: f}, nil
}

// NewWriterFormatter creates a formatter that writes to w.
func NewWriterFormatter(format Format, w io.Writer, colored bool) *Formatter {
	return &Formatter{format: format, writer: w, colored: colored}
}

// Close closes the output file, if any.
func (f *Formatter) Close() error {
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Output writes data in the configured format. Data that is not Renderable
// is encoded as JSON for text output and wrapped in a code fence for
// markdown.
func (f *Formatter) Output(data any) error {
	r, ok := data.(Renderable)
	if !ok {
		return f.outputData(data)
	}

	switch f.format {
	case FormatText:
		return r.RenderText(f.writer, f.colored)
	case FormatMarkdown:
		return r.RenderMarkdown(f.writer)
	case FormatDOT:
		d, ok := r.(DOTRenderable)
		if !ok {
			return ErrNoGraph
		}
		return d.RenderDOT(f.writer)
	default:
		return f.encode(r.RenderData())
	}
}

func (f *Formatter) outputData(data any) error {
	switch f.format {
	case FormatDOT:
		return ErrNoGraph
	case FormatMarkdown:
		fmt.Fprintln(f.writer, "```json")
		if err := f.encodeJSON(data); err != nil {
			return err
		}
		_, err := fmt.Fprintln(f.writer, "```")
		return err
	default:
		return f.encode(data)
	}
}

// encode writes data as TOON when that format is selected, otherwise JSON.
func (f *Formatter) encode(data any) error {
	if f.format != FormatTOON {
		return f.encodeJSON(data)
	}
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return fmt.Errorf("encode toon: %w", err)
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	_, err = f.writer.Write(out)
	return err
}

func (f *Formatter) encodeJSON(data any) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

package output

import (
	"fmt"
	"io"
)

// Fact is one labelled figure in a Facts block.
type Fact struct {
	Label string
	Value string
	Level Level
}

// Facts is a titled block of labelled figures, such as a run summary.
type Facts struct {
	Title string
	Items []Fact
	Data  any
}

// Add appends a fact. Values are formatted with %v.
func (f *Facts) Add(level Level, label string, value any) {
	f.Items = append(f.Items, Fact{Label: label, Value: fmt.Sprint(value), Level: level})
}

func (f *Facts) RenderData() any {
	if f.Data != nil {
		return f.Data
	}
	m := make(map[string]string, len(f.Items))
	for _, it := range f.Items {
		m[it.Label] = it.Value
	}
	return m
}

func (f *Facts) RenderText(w io.Writer, colored bool) error {
	writeHeading(w, f.Title, "-", colored)

	width := 0
	for _, it := range f.Items {
		width = max(width, len(it.Label))
	}
	for _, it := range f.Items {
		value := it.Value
		if colored {
			value = paint(it.Level, value)
		}
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width+1, it.Label+":", value); err != nil {
			return err
		}
	}
	return nil
}

func (f *Facts) RenderMarkdown(w io.Writer) error {
	writeMarkdownHeading(w, 2, f.Title)
	for _, it := range f.Items {
		value := it.Value
		if it.Level == LevelAlert {
			value = "**" + value + "**"
		}
		fmt.Fprintf(w, "- %s: %s\n", it.Label, value)
	}
	_, err := fmt.Fprintln(w)
	return err
}

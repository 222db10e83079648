// Package extract turns source files into the raw facts the analyzers consume:
// import references as written and function boundaries with a complexity score.
package extract

import (
	"errors"
	"fmt"

	"github.com/panbanda/tangle/pkg/parser"
)

var (
	// ErrParseFailure is returned when a syntax tree cannot be built or contains errors.
	ErrParseFailure = errors.New("parse failure")
	// ErrUnsupportedLanguage is returned for files with no extraction strategy.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// SourceFile identifies a scanned file by its root-relative slash path.
type SourceFile struct {
	Path     string          `json:"path"`
	Language parser.Language `json:"language"`
}

// RawImport is a module reference exactly as it appears in the source.
type RawImport struct {
	Module string `json:"module"`
	Line   uint32 `json:"line"`
}

// RawFunction is a function boundary with its cyclomatic complexity.
type RawFunction struct {
	Name       string `json:"name"`
	Line       uint32 `json:"line"`
	EndLine    uint32 `json:"end_line"`
	Complexity int    `json:"complexity"`
}

// Extraction holds everything pulled out of one file.
type Extraction struct {
	Imports   []RawImport   `json:"imports"`
	Functions []RawFunction `json:"functions"`
}

func newExtraction() *Extraction {
	return &Extraction{
		Imports:   make([]RawImport, 0),
		Functions: make([]RawFunction, 0),
	}
}

// Extractor pulls imports and functions out of a single file's content.
type Extractor interface {
	Extract(path string, content []byte) (*Extraction, error)
}

type options struct {
	isolateNested bool
}

// Option configures an extractor.
type Option func(*options)

// WithIsolatedNesting stops a function's complexity walk at nested function
// definitions, so inner decision points are only counted once.
func WithIsolatedNesting(isolate bool) Option {
	return func(o *options) {
		o.isolateNested = isolate
	}
}

// ForLanguage returns the extractor for a language family.
func ForLanguage(lang parser.Language, opts ...Option) (Extractor, error) {
	switch lang.Family() {
	case parser.FamilyPython:
		return NewTreeExtractor(opts...), nil
	case parser.FamilyJavaScript:
		return NewPatternExtractor(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
}

// File detects the language of path and extracts it with the matching strategy.
func File(path string, content []byte, opts ...Option) (*Extraction, error) {
	ex, err := ForLanguage(parser.DetectLanguage(path), opts...)
	if err != nil {
		return nil, err
	}
	return ex.Extract(path, content)
}

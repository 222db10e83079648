// Package resolver maps raw import references to project files.
//
// Resolution is heuristic: package managers, path aliases and virtual
// environments are not consulted. A reference that cannot be matched to a
// regular file inside the project root is external.
package resolver

import (
	"os"
	"path"
	"strings"

	"github.com/panbanda/tangle/pkg/parser"
	"github.com/spf13/afero"
)

// Resolver resolves imports against a filesystem rooted at the project root.
// Paths passed in and returned are slash-separated and root-relative.
type Resolver struct {
	fs       afero.Fs
	external map[string]bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExternalModules marks additional top-level Python modules as external.
func WithExternalModules(names ...string) Option {
	return func(r *Resolver) {
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				r.external[n] = true
			}
		}
	}
}

// New creates a resolver over fs.
func New(fs afero.Fs, opts ...Option) *Resolver {
	r := &Resolver{
		fs:       fs,
		external: make(map[string]bool, len(PythonStdlib)),
	}
	for _, name := range PythonStdlib {
		r.external[name] = true
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps raw, imported from source, to a project file. The boolean is
// false when the reference is external or does not match any file.
func (r *Resolver) Resolve(raw, source string, lang parser.Language) (string, bool) {
	switch lang.Family() {
	case parser.FamilyPython:
		return r.resolvePython(raw, source)
	case parser.FamilyJavaScript:
		return r.resolveJavaScript(raw, source)
	default:
		return "", false
	}
}

// firstFile returns the first candidate that is a regular file inside the root.
func (r *Resolver) firstFile(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if r.isFile(c) {
			return c, true
		}
	}
	return "", false
}

func (r *Resolver) isFile(p string) bool {
	if !withinRoot(p) {
		return false
	}

	var (
		info os.FileInfo
		err  error
	)
	if lst, ok := r.fs.(afero.Lstater); ok {
		info, _, err = lst.LstatIfPossible(p)
	} else {
		info, err = r.fs.Stat(p)
	}
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// withinRoot reports whether a cleaned relative path stays below the root.
func withinRoot(p string) bool {
	if p == "" || p == ".." || strings.HasPrefix(p, "../") || strings.HasPrefix(p, "/") {
		return false
	}
	return path.Clean(p) == p
}

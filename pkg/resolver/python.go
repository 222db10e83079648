package resolver

import (
	"path"
	"strings"
)

func (r *Resolver) resolvePython(raw, source string) (string, bool) {
	if strings.HasPrefix(raw, ".") {
		return r.resolvePythonRelative(raw, source)
	}

	// A single segment is a top-level package or the standard library.
	if !strings.Contains(raw, ".") {
		return "", false
	}
	first, _, _ := strings.Cut(raw, ".")
	if r.external[first] {
		return "", false
	}

	return r.pythonModule(strings.ReplaceAll(raw, ".", "/"))
}

// resolvePythonRelative handles `.mod`, `..pkg.mod` and bare dots. One dot is
// the importing file's package and each extra dot goes up one level.
//
// `from . import name` arrives as `.name`, and name may be a submodule or an
// attribute of the package. A single-segment name with no module file
// therefore resolves to the package's __init__.py.
func (r *Resolver) resolvePythonRelative(raw, source string) (string, bool) {
	rest := strings.TrimLeft(raw, ".")
	levels := len(raw) - len(rest)

	base := path.Dir(source)
	for i := 1; i < levels; i++ {
		if base == "." {
			return "", false
		}
		base = path.Dir(base)
	}

	pkgInit := path.Join(base, "__init__.py")
	if rest == "" {
		return r.firstFile(pkgInit)
	}
	if target, ok := r.pythonModule(path.Join(base, strings.ReplaceAll(rest, ".", "/"))); ok {
		return target, true
	}
	if !strings.Contains(rest, ".") {
		return r.firstFile(pkgInit)
	}
	return "", false
}

func (r *Resolver) pythonModule(modPath string) (string, bool) {
	return r.firstFile(modPath+".py", path.Join(modPath, "__init__.py"))
}

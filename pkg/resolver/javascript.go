package resolver

import (
	"path"
	"strings"
)

// JSExtensions are tried in order after the path as written.
var JSExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

func (r *Resolver) resolveJavaScript(raw, source string) (string, bool) {
	if !strings.HasPrefix(raw, "./") && !strings.HasPrefix(raw, "../") {
		return "", false
	}

	target := path.Join(path.Dir(source), raw)
	if !withinRoot(target) {
		return "", false
	}

	candidates := make([]string, 0, 1+2*len(JSExtensions))
	candidates = append(candidates, target)
	for _, ext := range JSExtensions {
		candidates = append(candidates, target+ext)
	}
	for _, ext := range JSExtensions {
		candidates = append(candidates, path.Join(target, "index"+ext))
	}
	return r.firstFile(candidates...)
}

package graph

import (
	"path"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// EntryPointNames are base names (without extension) of files that are
// expected to have no importers.
var EntryPointNames = []string{
	"main", "index", "app", "server", "__main__", "__init__",
	"manage", "wsgi", "asgi", "setup",
}

var entryPointSet = func() map[string]bool {
	set := make(map[string]bool, len(EntryPointNames))
	for _, n := range EntryPointNames {
		set[n] = true
	}
	return set
}()

// IsEntryPoint reports whether file follows an entry point naming convention.
// The comparison ignores case and the extension.
func IsEntryPoint(file string) bool {
	base := path.Base(strings.ReplaceAll(file, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	return entryPointSet[strings.ToLower(base)]
}

// FindOrphans returns the scanned files that no edge targets, excluding entry
// points. The result is sorted.
func FindOrphans(files []string, g *DependencyGraph) []string {
	sorted := sortedUnique(files)

	all := roaring.New()
	imported := roaring.New()
	for i, f := range sorted {
		all.Add(uint32(i))
		if g.FanIn(f) > 0 {
			imported.Add(uint32(i))
		}
	}

	candidates := roaring.AndNot(all, imported)

	orphans := make([]string, 0, candidates.GetCardinality())
	it := candidates.Iterator()
	for it.HasNext() {
		f := sorted[it.Next()]
		if !IsEntryPoint(f) {
			orphans = append(orphans, f)
		}
	}
	return orphans
}

// EntryPoints returns the scanned files that match an entry point name, sorted.
func EntryPoints(files []string) []string {
	out := make([]string, 0)
	for _, f := range sortedUnique(files) {
		if IsEntryPoint(f) {
			out = append(out, f)
		}
	}
	return out
}

func sortedUnique(files []string) []string {
	set := make(nodeSet, len(files))
	for _, f := range files {
		set[f] = struct{}{}
	}
	return sortedKeys(set)
}

// Package scanner finds the source files to analyze under a project root.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/tangle/pkg/config"
	"github.com/panbanda/tangle/pkg/parser"
)

// Result lists the files accepted by a scan, as sorted root-relative slash
// paths, plus counts of what was skipped.
type Result struct {
	Root            string
	Files           []string
	SkippedSymlinks int
	SkippedLarge    int
	SkippedIgnored  int
}

// Scanner finds source files in a directory.
type Scanner struct {
	config     *config.Config
	matcher    gitignore.Matcher
	ignoreBase string
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadIgnorePatterns reads every .gitignore below the git root (or the scan
// root outside a repository).
func (s *Scanner) loadIgnorePatterns(root string) {
	s.matcher = nil
	s.ignoreBase = ""
	if !s.config.Exclude.Gitignore {
		return
	}

	base := findGitRoot(root)
	if base == "" {
		base = root
	}
	patterns, err := gitignore.ReadPatterns(osfs.New(base), nil)
	if err != nil || len(patterns) == 0 {
		return
	}
	s.matcher = gitignore.NewMatcher(patterns)
	s.ignoreBase = base
}

// isIgnored checks an absolute path against the gitignore rules. Patterns
// are relative to the git root, which may sit above the scan root.
func (s *Scanner) isIgnored(abs string, isDir bool) bool {
	if s.matcher == nil {
		return false
	}
	rel, err := filepath.Rel(s.ignoreBase, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return s.matcher.Match(strings.Split(filepath.ToSlash(rel), "/"), isDir)
}

// ScanDir recursively scans a directory for source files.
//
// Symbolic links are never followed, every accepted path stays inside the
// root, and files larger than analysis.max_file_size are skipped. Excluded
// directories, exclude patterns and .gitignore rules are applied.
func (s *Scanner) ScanDir(root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadIgnorePatterns(absRoot)

	res := &Result{Root: absRoot, Files: make([]string, 0, 256)}
	maxSize := s.config.Analysis.MaxFileSize

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if path == absRoot {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			res.SkippedSymlinks++
			return nil
		}
		if !isWithinRoot(path, absRoot) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, _ := filepath.Rel(absRoot, path)
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if s.config.IsExcludedDir(d.Name()) || s.isIgnored(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || parser.DetectLanguage(path) == parser.LangUnknown {
			return nil
		}
		if s.config.ShouldExclude(rel) || s.isIgnored(path, false) {
			res.SkippedIgnored++
			return nil
		}
		if maxSize > 0 {
			info, err := d.Info()
			if err != nil {
				return nil
			}
			if info.Size() > maxSize {
				res.SkippedLarge++
				return nil
			}
		}

		res.Files = append(res.Files, rel)
		return nil
	})

	sort.Strings(res.Files)
	return res, walkErr
}

// isWithinRoot checks if a path is contained within the root directory.
// Returns false if the path escapes via relative components.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Add separator to prevent "/root2" matching "/root"
	return strings.HasPrefix(absPath, root+string(filepath.Separator)) || absPath == root
}

// ScanFile checks a single explicitly named file. It returns the path
// relative to root and whether the file is a regular file inside root.
func ScanFile(root, path string) (string, bool, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false, err
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		return "", false, err
	}
	if !info.Mode().IsRegular() || !isWithinRoot(absPath, absRoot) {
		return "", false, nil
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return "", false, err
	}
	return filepath.ToSlash(rel), true, nil
}

// GroupByLanguage groups files by their detected language.
func GroupByLanguage(files []string) map[parser.Language][]string {
	groups := make(map[parser.Language][]string)
	for _, f := range files {
		lang := parser.DetectLanguage(f)
		if lang != parser.LangUnknown {
			groups[lang] = append(groups[lang], f)
		}
	}
	return groups
}

package extract

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
)

var (
	fromImportRe    = regexp.MustCompile(`\b(?:import|export)\s+[^'";()=]+?\s+from\s+['"]([^'"]+)['"]`)
	bareImportRe    = regexp.MustCompile(`\bimport\s+['"]([^'"]+)['"]`)
	requireRe       = regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	dynamicImportRe = regexp.MustCompile(`\bimport\s*\(\s*['"]([^'"]+)['"]\s*\)`)

	importPatterns = []*regexp.Regexp{fromImportRe, bareImportRe, requireRe, dynamicImportRe}
)

var (
	functionDeclRe = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*\(`)
	functionExprRe = regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*(?::[^=]+)?=\s*(?:async\s+)?(?:function\b|\([^)]*\)\s*(?::[^=]+)?=>|[A-Za-z_$][\w$]*\s*=>)`)
	methodRe       = regexp.MustCompile(`^\s*(?:(?:public|private|protected|static|async|readonly|override|get|set)\s+)*\*?\s*([A-Za-z_$][\w$]*)\s*\([^)]*\)\s*(?::\s*[^{]+)?\{`)

	signaturePatterns = []*regexp.Regexp{functionDeclRe, functionExprRe, methodRe}

	branchKeywordRe = regexp.MustCompile(`\b(?:if|for|while|case|catch)\b`)
)

// Words that look like a method signature but open a control block.
var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"function": true, "return": true, "with": true, "else": true, "do": true,
	"try": true, "finally": true, "new": true, "typeof": true, "await": true,
}

// PatternExtractor extracts JavaScript and TypeScript files by regular
// expressions and brace counting. It counts inside strings and comments and
// folds nested functions into their outer function.
type PatternExtractor struct{}

// NewPatternExtractor creates a pattern-based extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract never fails.
func (e *PatternExtractor) Extract(_ string, content []byte) (*Extraction, error) {
	out := newExtraction()
	out.Imports = scanImports(content)
	out.Functions = scanFunctions(content)
	return out, nil
}

type importMatch struct {
	offset int
	module string
}

func scanImports(content []byte) []RawImport {
	seen := make(map[int]bool)
	var matches []importMatch
	for _, re := range importPatterns {
		for _, loc := range re.FindAllSubmatchIndex(content, -1) {
			if seen[loc[2]] {
				continue
			}
			seen[loc[2]] = true
			matches = append(matches, importMatch{offset: loc[0], module: string(content[loc[2]:loc[3]])})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].offset < matches[j].offset })

	lines := lineStarts(content)
	imports := make([]RawImport, 0, len(matches))
	for _, m := range matches {
		imports = append(imports, RawImport{Module: m.module, Line: lineAt(lines, m.offset)})
	}
	return imports
}

// lineStarts returns the byte offset at which each line begins.
func lineStarts(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineAt(starts []int, offset int) uint32 {
	return uint32(sort.Search(len(starts), func(i int) bool { return starts[i] > offset }))
}

// foldState tracks the function currently being scanned.
type foldState struct {
	current *RawFunction
	depth   int
	opened  bool
}

func scanFunctions(content []byte) []RawFunction {
	lines := strings.Split(string(bytes.TrimRight(content, "\n")), "\n")
	functions := make([]RawFunction, 0)

	var st foldState
	closeAt := func(end int) {
		fn := *st.current
		fn.EndLine = uint32(end)
		fn.Complexity = patternComplexity(lines[fn.Line-1 : end])
		functions = append(functions, fn)
		st = foldState{}
	}

	for i, line := range lines {
		lineNo := i + 1
		started := false
		if st.current != nil && !st.opened {
			// A body that never opened a brace ends where the next signature starts.
			if _, ok := matchSignature(line); ok {
				closeAt(lineNo - 1)
			}
		}
		if st.current == nil {
			name, ok := matchSignature(line)
			if !ok {
				continue
			}
			st.current = &RawFunction{Name: name, Line: uint32(lineNo)}
			started = true
		}

		opens := strings.Count(line, "{")
		st.depth += opens - strings.Count(line, "}")
		if opens > 0 {
			st.opened = true
		}

		switch {
		case st.opened && st.depth <= 0:
			closeAt(lineNo)
		case !st.opened && strings.HasSuffix(strings.TrimSpace(line), ";"):
			closeAt(lineNo)
		case started && !st.opened && st.depth == 0 && expressionBodied(line):
			closeAt(lineNo)
		}
	}

	if st.current != nil {
		closeAt(len(lines))
	}
	return functions
}

func matchSignature(line string) (string, bool) {
	for _, re := range signaturePatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if re == methodRe && controlKeywords[m[1]] {
			continue
		}
		return m[1], true
	}
	return "", false
}

// expressionBodied reports whether line holds an arrow whose body follows on
// the same line without a brace, as in `const add = (a, b) => a + b`.
func expressionBodied(line string) bool {
	idx := strings.LastIndex(line, "=>")
	if idx < 0 {
		return false
	}
	body := strings.TrimSpace(line[idx+2:])
	return body != "" && !strings.HasPrefix(body, "{")
}

func patternComplexity(lines []string) int {
	score := 1
	for _, line := range lines {
		score += len(branchKeywordRe.FindAllStringIndex(line, -1))
		score += strings.Count(line, "&&")
		score += strings.Count(line, "||")
		score += ternaries(line)
	}
	return score
}

// ternaries counts `?` that are not part of `?.`, `??` or `?:`.
func ternaries(line string) int {
	n := 0
	for i := 0; i < len(line); i++ {
		if line[i] != '?' {
			continue
		}
		if i > 0 && line[i-1] == '?' {
			continue
		}
		if i+1 < len(line) {
			switch line[i+1] {
			case '.', '?', ':':
				continue
			}
		}
		n++
	}
	return n
}

package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/panbanda/tangle/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Node types that add one decision point each.
var pythonDecisionTypes = map[string]bool{
	"if_statement":             true,
	"elif_clause":              true,
	"conditional_expression":   true,
	"for_statement":            true,
	"while_statement":          true,
	"except_clause":            true,
	"except_group_clause":      true,
	"with_statement":           true,
	"lambda":                   true,
	"list_comprehension":       true,
	"set_comprehension":        true,
	"dictionary_comprehension": true,
	"generator_expression":     true,
	"boolean_operator":         true,
}

// TreeExtractor extracts Python files from a tree-sitter syntax tree.
type TreeExtractor struct {
	opts options
}

// NewTreeExtractor creates a syntax tree extractor.
func NewTreeExtractor(opts ...Option) *TreeExtractor {
	e := &TreeExtractor{}
	for _, opt := range opts {
		opt(&e.opts)
	}
	return e
}

// Extract parses content and walks the tree for imports and function definitions.
func (e *TreeExtractor) Extract(path string, content []byte) (*Extraction, error) {
	psr := parser.New()
	defer psr.Close()

	result, err := psr.Parse(context.Background(), content, parser.LangPython, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseFailure, path, err)
	}
	defer result.Close()

	root := result.Tree.RootNode()
	if root == nil || root.HasError() {
		return nil, fmt.Errorf("%w: %s: syntax errors in tree", ErrParseFailure, path)
	}

	out := newExtraction()
	parser.WalkTyped(root, result.Source, func(n *sitter.Node, nodeType string, src []byte) bool {
		switch nodeType {
		case "import_statement":
			out.Imports = append(out.Imports, importNames(n, src)...)
		case "import_from_statement":
			out.Imports = append(out.Imports, fromImports(n, src)...)
		case "future_import_statement":
			out.Imports = append(out.Imports, RawImport{Module: "__future__", Line: n.StartPoint().Row + 1})
		case "function_definition":
			out.Functions = append(out.Functions, e.function(n, src))
		}
		return true
	})

	return out, nil
}

// importNames returns one import per dotted name in `import a.b, c as d`.
func importNames(n *sitter.Node, src []byte) []RawImport {
	line := n.StartPoint().Row + 1
	var imports []RawImport
	for i := range int(n.NamedChildCount()) {
		child := n.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			imports = append(imports, RawImport{Module: parser.GetNodeText(child, src), Line: line})
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				imports = append(imports, RawImport{Module: parser.GetNodeText(name, src), Line: line})
			}
		}
	}
	return imports
}

// fromImports returns the module of `from m import x`. When m is bare dots
// it names a package, so each imported name becomes its own relative import:
// `from . import a, b as c` yields `.a` and `.b`.
func fromImports(n *sitter.Node, src []byte) []RawImport {
	mod := n.ChildByFieldName("module_name")
	if mod == nil {
		return nil
	}
	line := n.StartPoint().Row + 1
	module := parser.GetNodeText(mod, src)
	if strings.Trim(module, ".") != "" {
		return []RawImport{{Module: module, Line: line}}
	}

	var imports []RawImport
	for i := range int(n.NamedChildCount()) {
		child := n.NamedChild(i)
		var name *sitter.Node
		switch child.Type() {
		case "dotted_name":
			name = child
		case "aliased_import":
			name = child.ChildByFieldName("name")
		}
		if name != nil {
			imports = append(imports, RawImport{Module: module + parser.GetNodeText(name, src), Line: line})
		}
	}
	if len(imports) == 0 {
		// from . import *
		return []RawImport{{Module: module, Line: line}}
	}
	return imports
}

func (e *TreeExtractor) function(n *sitter.Node, src []byte) RawFunction {
	fn := RawFunction{
		Name:       parser.GetNodeText(n.ChildByFieldName("name"), src),
		Line:       n.StartPoint().Row + 1,
		EndLine:    n.EndPoint().Row + 1,
		Complexity: 1,
	}
	for i := range int(n.ChildCount()) {
		fn.Complexity += e.decisionPoints(n.Child(i), src)
	}
	return fn
}

// decisionPoints counts decision nodes below n. Nested function definitions
// are only skipped when isolation is enabled.
func (e *TreeExtractor) decisionPoints(n *sitter.Node, src []byte) int {
	count := 0
	parser.WalkTyped(n, src, func(_ *sitter.Node, nodeType string, _ []byte) bool {
		if nodeType == "function_definition" && e.opts.isolateNested {
			return false
		}
		if pythonDecisionTypes[nodeType] {
			count++
		}
		return true
	})
	return count
}

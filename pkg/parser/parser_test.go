package parser

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

func TestNew(t *testing.T) {
	p := New()
	if p == nil {
		t.Fatal("New() returned nil")
	}
	if p.parser == nil {
		t.Error("parser field is nil")
	}
	p.Close()
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		// Python
		{"script.py", LangPython},
		{"module.pyw", LangPython},
		{"types.pyi", LangPython},

		// TypeScript
		{"app.ts", LangTypeScript},
		{"esm.mts", LangTypeScript},
		{"component.tsx", LangTSX},

		// JavaScript
		{"script.js", LangJavaScript},
		{"module.mjs", LangJavaScript},
		{"common.cjs", LangJavaScript},
		{"component.jsx", LangTSX},

		// Detected but not analyzed
		{"main.go", LangGo},
		{"main.rs", LangRust},
		{"Main.java", LangJava},
		{"main.c", LangC},
		{"main.cpp", LangCPP},
		{"Program.cs", LangCSharp},
		{"script.rb", LangRuby},
		{"index.php", LangPHP},
		{"script.sh", LangBash},

		// Unknown
		{"file.txt", LangUnknown},
		{"file.json", LangUnknown},
		{"Dockerfile", LangUnknown},
		{"file", LangUnknown},

		// Case insensitivity
		{"SCRIPT.PY", LangPython},
		{"App.TS", LangTypeScript},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := DetectLanguage(tt.path)
			if got != tt.want {
				t.Errorf("DetectLanguage(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestLanguageFamily(t *testing.T) {
	tests := []struct {
		lang      Language
		family    Family
		supported bool
	}{
		{LangPython, FamilyPython, true},
		{LangJavaScript, FamilyJavaScript, true},
		{LangTypeScript, FamilyJavaScript, true},
		{LangTSX, FamilyJavaScript, true},
		{LangGo, FamilyNone, false},
		{LangRuby, FamilyNone, false},
		{LangUnknown, FamilyNone, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			if got := tt.lang.Family(); got != tt.family {
				t.Errorf("Family() = %q, want %q", got, tt.family)
			}
			if got := tt.lang.Supported(); got != tt.supported {
				t.Errorf("Supported() = %v, want %v", got, tt.supported)
			}
		})
	}
}

func TestGetTreeSitterLanguage(t *testing.T) {
	tsLang, err := GetTreeSitterLanguage(LangPython)
	if err != nil {
		t.Fatalf("GetTreeSitterLanguage(python) returned error: %v", err)
	}
	if tsLang == nil {
		t.Fatal("GetTreeSitterLanguage(python) returned nil")
	}

	for _, lang := range []Language{LangTypeScript, LangJavaScript, LangGo, LangUnknown} {
		t.Run(string(lang), func(t *testing.T) {
			if _, err := GetTreeSitterLanguage(lang); err == nil {
				t.Errorf("GetTreeSitterLanguage(%v) should return error", lang)
			}
		})
	}
}

func TestParse(t *testing.T) {
	p := New()
	defer p.Close()

	source := "def hello():\n    print('hello')\n"
	result, err := p.Parse(context.Background(), []byte(source), LangPython, "test.py")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	defer result.Close()

	if result.Tree == nil {
		t.Fatal("result.Tree is nil")
	}
	if result.Language != LangPython {
		t.Errorf("result.Language = %v, want %v", result.Language, LangPython)
	}
	if string(result.Source) != source {
		t.Error("result.Source doesn't match input")
	}
	if result.Path != "test.py" {
		t.Errorf("result.Path = %v, want test.py", result.Path)
	}

	root := result.Tree.RootNode()
	if root.ChildCount() == 0 {
		t.Error("root node has no children")
	}
	if root.HasError() {
		t.Error("valid source should not produce error nodes")
	}
}

func TestParseUnsupported(t *testing.T) {
	p := New()
	defer p.Close()

	_, err := p.Parse(context.Background(), []byte("const x = 1;"), LangJavaScript, "x.js")
	if err == nil {
		t.Error("Parse() should fail for a language without a grammar")
	}
}

func TestWalk(t *testing.T) {
	p := New()
	defer p.Close()

	source := "def main():\n    x = 1\n"
	result, err := p.Parse(context.Background(), []byte(source), LangPython, "test.py")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	defer result.Close()

	count := 0
	Walk(result.Tree.RootNode(), result.Source, func(node *sitter.Node, source []byte) bool {
		count++
		return true
	})
	if count == 0 {
		t.Error("Walk() visited no nodes")
	}

	found := make(map[string]bool)
	WalkTyped(result.Tree.RootNode(), result.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		found[nodeType] = true
		return true
	})

	for _, expected := range []string{"module", "function_definition", "identifier"} {
		if !found[expected] {
			t.Errorf("Expected node type %q not found", expected)
		}
	}

	// Returning false prunes the subtree.
	visited := 0
	WalkTyped(result.Tree.RootNode(), result.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		visited++
		return nodeType != "function_definition"
	})
	if visited >= count {
		t.Errorf("pruned walk visited %d nodes, full walk %d", visited, count)
	}
}

func TestWalkNil(t *testing.T) {
	Walk(nil, nil, func(node *sitter.Node, source []byte) bool {
		t.Error("Visitor should not be called for nil node")
		return true
	})

	WalkTyped(nil, nil, func(node *sitter.Node, nodeType string, source []byte) bool {
		t.Error("Visitor should not be called for nil node")
		return true
	})
}

func TestGetNodeText(t *testing.T) {
	p := New()
	defer p.Close()

	source := "def hello():\n    pass\n"
	result, err := p.Parse(context.Background(), []byte(source), LangPython, "test.py")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	defer result.Close()

	fn := result.Tree.RootNode().NamedChild(0)
	if fn == nil || fn.Type() != "function_definition" {
		t.Fatal("No function definition found")
	}

	name := GetNodeText(fn.ChildByFieldName("name"), result.Source)
	if name != "hello" {
		t.Errorf("GetNodeText() = %q, want %q", name, "hello")
	}

	if got := GetNodeText(nil, result.Source); got != "" {
		t.Errorf("GetNodeText(nil) = %q, want empty", got)
	}
}

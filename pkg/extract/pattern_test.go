package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternExtractorImports(t *testing.T) {
	src := `import React from 'react';
import { a,
  b } from "./multi";
import './side-effect.css';
const fs = require('fs');
export * from './reexport';
async function load() {
  const mod = await import('./lazy');
}
import type { T } from './types';
`
	ex, err := NewPatternExtractor().Extract("app.ts", []byte(src))
	require.NoError(t, err)

	want := []RawImport{
		{Module: "react", Line: 1},
		{Module: "./multi", Line: 2},
		{Module: "./side-effect.css", Line: 4},
		{Module: "fs", Line: 5},
		{Module: "./reexport", Line: 6},
		{Module: "./lazy", Line: 8},
		{Module: "./types", Line: 10},
	}
	assert.Equal(t, want, ex.Imports)
}

func TestPatternExtractorNoBranches(t *testing.T) {
	src := `function hello(name) {
  return "hello " + name;
}
`
	ex, err := NewPatternExtractor().Extract("hello.js", []byte(src))
	require.NoError(t, err)
	require.Len(t, ex.Functions, 1)

	fn := ex.Functions[0]
	assert.Equal(t, "hello", fn.Name)
	assert.Equal(t, uint32(1), fn.Line)
	assert.Equal(t, uint32(3), fn.EndLine)
	assert.Equal(t, 1, fn.Complexity)
}

func TestPatternExtractorBranches(t *testing.T) {
	src := `function check(a, b, c) {
  if (a) {
    one();
  }
  if (b) {
    two();
  }
  if (a && c) {
    three();
  }
  return 0;
}
`
	ex, err := NewPatternExtractor().Extract("check.js", []byte(src))
	require.NoError(t, err)
	require.Len(t, ex.Functions, 1)
	assert.Equal(t, 5, ex.Functions[0].Complexity)
}

func TestPatternExtractorSignatures(t *testing.T) {
	src := `export default async function main() {
  return 1;
}
const add = (a, b) => {
  return a + b;
};
let double = x => x * 2;
var legacy = function () {
  return null;
};
class Service {
  async fetch(id: string): Promise<void> {
    if (id) {
      return;
    }
  }
}
`
	ex, err := NewPatternExtractor().Extract("sig.ts", []byte(src))
	require.NoError(t, err)

	var names []string
	for _, fn := range ex.Functions {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{"main", "add", "double", "legacy", "fetch"}, names)

	double := ex.Functions[2]
	assert.Equal(t, double.Line, double.EndLine)

	fetch := ex.Functions[4]
	assert.Equal(t, uint32(12), fetch.Line)
	assert.Equal(t, uint32(16), fetch.EndLine)
	assert.Equal(t, 2, fetch.Complexity)
}

func TestPatternExtractorWithoutSemicolons(t *testing.T) {
	src := `const add = (a, b) => a + b
export function big(x) {
  if (x) { return 1 }
  return x ? 2 : 3
}
const pick = (xs) =>
  xs.length
function last() {
  return 0
}
`
	ex, err := NewPatternExtractor().Extract("nosemi.js", []byte(src))
	require.NoError(t, err)
	require.Len(t, ex.Functions, 4)

	add := ex.Functions[0]
	assert.Equal(t, "add", add.Name)
	assert.Equal(t, uint32(1), add.EndLine)
	assert.Equal(t, 1, add.Complexity)

	big := ex.Functions[1]
	assert.Equal(t, "big", big.Name)
	assert.Equal(t, uint32(2), big.Line)
	assert.Equal(t, uint32(5), big.EndLine)
	assert.Equal(t, 3, big.Complexity)

	pick := ex.Functions[2]
	assert.Equal(t, "pick", pick.Name)
	assert.Equal(t, uint32(6), pick.Line)
	assert.Equal(t, uint32(7), pick.EndLine)

	assert.Equal(t, "last", ex.Functions[3].Name)
	assert.Equal(t, uint32(10), ex.Functions[3].EndLine)
}

func TestPatternExtractorNestedMerged(t *testing.T) {
	src := `function outer() {
  function inner() {
    if (x) {
      return 1;
    }
  }
  return inner();
}
`
	ex, err := NewPatternExtractor().Extract("nested.js", []byte(src))
	require.NoError(t, err)
	require.Len(t, ex.Functions, 1)
	assert.Equal(t, "outer", ex.Functions[0].Name)
	assert.Equal(t, uint32(8), ex.Functions[0].EndLine)
	assert.Equal(t, 2, ex.Functions[0].Complexity)
}

func TestPatternExtractorControlBlocksAreNotMethods(t *testing.T) {
	src := `if (ready) {
  start();
}
while (busy) {
  wait();
}
`
	ex, err := NewPatternExtractor().Extract("top.js", []byte(src))
	require.NoError(t, err)
	assert.Empty(t, ex.Functions)
}

func TestTernaries(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"a ? b : c", 1},
		{"a?.b", 0},
		{"a ?? b", 0},
		{"function f(x?: string) {}", 0},
		{"x ? (y ? 1 : 2) : 3", 2},
		{"a ??= b", 0},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ternaries(tt.line))
		})
	}
}

func TestPatternComplexity(t *testing.T) {
	lines := []string{
		"for (const x of xs) {",
		"  switch (x) { case 1: break; case 2: break; }",
		"  try { run() } catch (e) { retry() || fail() }",
		"}",
	}
	// 1 + for + 2 case + catch + ||
	assert.Equal(t, 6, patternComplexity(lines))
}

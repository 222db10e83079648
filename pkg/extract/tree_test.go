package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeExtractorImports(t *testing.T) {
	src := `import os
import a.b, c
import numpy as np
from .models import User
from .. import utils
from pkg.sub import thing
from __future__ import annotations
`
	ex, err := NewTreeExtractor().Extract("app/views.py", []byte(src))
	require.NoError(t, err)

	want := []RawImport{
		{Module: "os", Line: 1},
		{Module: "a.b", Line: 2},
		{Module: "c", Line: 2},
		{Module: "numpy", Line: 3},
		{Module: ".models", Line: 4},
		{Module: "..utils", Line: 5},
		{Module: "pkg.sub", Line: 6},
		{Module: "__future__", Line: 7},
	}
	assert.Equal(t, want, ex.Imports)
}

func TestTreeExtractorBareDotImports(t *testing.T) {
	src := `from . import views, models as m
from .. import *
from .api import handlers
`
	ex, err := NewTreeExtractor().Extract("app/admin.py", []byte(src))
	require.NoError(t, err)

	want := []RawImport{
		{Module: ".views", Line: 1},
		{Module: ".models", Line: 1},
		{Module: "..", Line: 2},
		{Module: ".api", Line: 3},
	}
	assert.Equal(t, want, ex.Imports)
}

func TestTreeExtractorNoBranches(t *testing.T) {
	src := "def greet(name):\n    return 'hello ' + name\n"

	ex, err := NewTreeExtractor().Extract("greet.py", []byte(src))
	require.NoError(t, err)
	require.Len(t, ex.Functions, 1)

	fn := ex.Functions[0]
	assert.Equal(t, "greet", fn.Name)
	assert.Equal(t, uint32(1), fn.Line)
	assert.Equal(t, uint32(2), fn.EndLine)
	assert.Equal(t, 1, fn.Complexity)
}

func TestTreeExtractorBranchesAndBooleans(t *testing.T) {
	src := `def check(a, b, c):
    if a:
        pass
    if b:
        pass
    if c and b:
        pass
    return a
`
	ex, err := NewTreeExtractor().Extract("check.py", []byte(src))
	require.NoError(t, err)
	require.Len(t, ex.Functions, 1)
	assert.Equal(t, 5, ex.Functions[0].Complexity)
}

func TestTreeExtractorDecisionKinds(t *testing.T) {
	src := `def busy(items):
    for x in items:
        while x:
            x -= 1
    try:
        pass
    except ValueError:
        pass
    with open("f") as fh:
        pass
    f = lambda v: v
    ys = [y for y in items]
    z = 1 if items else 2
    if a or b or c:
        pass
    elif items:
        pass
`
	ex, err := NewTreeExtractor().Extract("busy.py", []byte(src))
	require.NoError(t, err)
	require.Len(t, ex.Functions, 1)

	// 1 + for + while + except + with + lambda + comprehension
	// + conditional_expression + if + elif + two boolean operators
	assert.Equal(t, 12, ex.Functions[0].Complexity)
}

func TestTreeExtractorNestedFunctions(t *testing.T) {
	src := `def outer(x):
    def inner(y):
        if y:
            return 1
        return 0
    if x:
        return inner(x)
    return 0
`
	t.Run("counted in outer by default", func(t *testing.T) {
		ex, err := NewTreeExtractor().Extract("nested.py", []byte(src))
		require.NoError(t, err)
		require.Len(t, ex.Functions, 2)

		assert.Equal(t, "outer", ex.Functions[0].Name)
		assert.Equal(t, 3, ex.Functions[0].Complexity)
		assert.Equal(t, "inner", ex.Functions[1].Name)
		assert.Equal(t, 2, ex.Functions[1].Complexity)
	})

	t.Run("isolated", func(t *testing.T) {
		ex, err := NewTreeExtractor(WithIsolatedNesting(true)).Extract("nested.py", []byte(src))
		require.NoError(t, err)
		require.Len(t, ex.Functions, 2)

		assert.Equal(t, 2, ex.Functions[0].Complexity)
		assert.Equal(t, 2, ex.Functions[1].Complexity)
	})
}

func TestTreeExtractorParseFailure(t *testing.T) {
	src := "def broken(:\n    if\n"

	ex, err := NewTreeExtractor().Extract("broken.py", []byte(src))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParseFailure)
	assert.Nil(t, ex)
}

func TestTreeExtractorEmpty(t *testing.T) {
	ex, err := NewTreeExtractor().Extract("empty.py", nil)
	require.NoError(t, err)
	assert.Empty(t, ex.Imports)
	assert.Empty(t, ex.Functions)
	assert.NotNil(t, ex.Functions)
}

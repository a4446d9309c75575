// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package rewrite

import (
	"errors"
	"testing"

	"github.com/consensys/go-speclang/pkg/speclang/ast"
	"github.com/consensys/go-speclang/pkg/speclang/catalogue"
	"github.com/consensys/go-speclang/pkg/speclang/parser"
	"github.com/consensys/go-speclang/pkg/speclang/typing"
	"github.com/consensys/go-speclang/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleTable() *catalogue.Table {
	var (
		table = catalogue.NewTable()
		point = &catalogue.Struct{Name: "point", Fields: []catalogue.Field{
			{Name: "x", Type: &catalogue.BitVector{Width: 32}, Offset: 0},
			{Name: "y", Type: &catalogue.BitVector{Width: 32}, Offset: 4},
		}, Size: 8}
	)
	//
	table.AddFunction("f", catalogue.Formal{Name: "x", Type: &catalogue.BitVector{Width: 64}})
	table.AddGlobal("g", &catalogue.BitVector{Width: 32}, 0x100)
	table.AddGlobal("arr", &catalogue.Array{Element: &catalogue.BitVector{Width: 16}, Length: 4}, 0x200)
	table.AddGlobal("pts", &catalogue.Array{Element: point, Length: 2}, 0x300)
	table.AddGlobal("s", point, 0x400)
	//
	return table
}

func parseTyped(t *testing.T, text string) parser.SourceFile {
	config := parser.Config{Xlen: 64, Catalogue: exampleTable()}
	file, errs := parser.Parse(source.NewStringFile("test", text), config)
	require.Empty(t, errs)
	//
	return file
}

// Lower the first function of a source file, returning its first condition.
func lowerCondition(t *testing.T, text string) ast.BExpr {
	file := parseTyped(t, text)
	fn, err := Lower(file.Functions[0], exampleTable(), 64, file.SourceMap)
	require.NoError(t, err)
	//
	return fn.Specs[0].(*ast.Ensures).Cond
}

func Test_Fold_01(t *testing.T) {
	assert.Equal(t, "0bv8 == 255bv8", lowerCondition(t, "fun f { ensures 1bv8 + 255bv8 == 0xf0bv8 >> 4bv8; }").String())
	assert.Equal(t, "511bv16 == 15bv16", lowerCondition(t, "fun f { ensures 0x1ffbv16 == 0xf0bv16 >>> 4bv16; }").String())
	assert.Equal(t, "0bv8 == 224bv8", lowerCondition(t, "fun f { ensures 3bv8 * 0bv8 == 7bv8 << 5bv8; }").String())
}

func Test_Fold_02(t *testing.T) {
	assert.Equal(t, "5 == -5", lowerCondition(t, "fun f { ensures 2 * 3 - 1 == -10 / 2; }").String())
	// Division by zero is left alone
	assert.Equal(t, "(1 / 0) == 0", lowerCondition(t, "fun f { ensures 1 / 0 == 0; }").String())
	assert.Equal(t, "(1bv8 / 0bv8) == 0bv8", lowerCondition(t, "fun f { ensures 1bv8 / 0bv8 == 0bv8; }").String())
}

func Test_Fold_03(t *testing.T) {
	cond := lowerCondition(t, "fun f { ensures 0xabcdbv16[15:8] ++ 1bv8 == 0xab01bv16; }")
	assert.Equal(t, "43777bv16 == 43777bv16", cond.String())
}

func Test_Fold_04(t *testing.T) {
	cond := lowerCondition(t, "fun f { ensures sext(8, 0x80bv8) == uext(8, 0x80bv8); }")
	assert.Equal(t, "65408bv16 == 128bv16", cond.String())
	// Old values are not folded
	cond = lowerCondition(t, "fun f { ensures old(1bv8) == 1bv8; }")
	assert.Equal(t, "old(1bv8) == 1bv8", cond.String())
}

func Test_Address_01(t *testing.T) {
	var (
		file = parseTyped(t, "fun f { ensures g == 1bv32; ensures x == 0bv64; }")
		fn   = file.Functions[0]
	)
	//
	lowered, err := AddressGlobals(fn, exampleTable(), 64, file.SourceMap)
	require.NoError(t, err)
	// The implicit dereference becomes a load
	assert.Equal(t, "*(256bv64) == 1bv32", lowered.Specs[0].(*ast.Ensures).Cond.String())
	// Formals are unaffected
	assert.Same(t, fn.Specs[1], lowered.Specs[1])
}

func Test_Address_02(t *testing.T) {
	file := parseTyped(t, "fun f { ensures g == 1bv32; }")
	_, err := AddressGlobals(file.Functions[0], noAddresses{}, 64, file.SourceMap)
	//
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalogue.ErrNotFound))
}

func Test_Lower_01(t *testing.T) {
	assert.Equal(t, "*(516bv64) == 0bv16", lowerCondition(t, "fun f { ensures arr[2] == 0bv16; }").String())
	assert.Equal(t, "*(776bv64.y) == 0bv32", lowerCondition(t, "fun f { ensures pts[1].y == 0bv32; }").String())
	// Non-literal indices are retained
	assert.Equal(t, "*(512bv64[x]) == 0bv16", lowerCondition(t, "fun f { ensures arr[x] == 0bv16; }").String())
}

func Test_Rewriter_01(t *testing.T) {
	var (
		file     = parseTyped(t, "fun f { requires x > 0bv64; ensures forall (i: bv32) :: i == g; modifies g; }")
		fn       = file.Functions[0]
		identity = NewRewriter(nil, func(e ast.VExpr) ast.VExpr { return e })
	)
	// Nothing changes, hence nothing is rebuilt
	assert.Same(t, fn, identity.Function(fn))
}

func Test_Rewriter_02(t *testing.T) {
	var (
		file = parseTyped(t, "fun f { ensures g == 1bv32; }")
		old  = file.Functions[0].Specs[0]
	)
	//
	lowered, err := AddressGlobals(file.Functions[0], exampleTable(), 64, file.SourceMap)
	require.NoError(t, err)
	// Rebuilt nodes retain their original spans
	require.NotSame(t, old, lowered.Specs[0])
	assert.Equal(t, file.SourceMap.Get(old), file.SourceMap.Get(lowered.Specs[0]))
}

func Test_Resolve_01(t *testing.T) {
	var (
		text = "fun f { requires x > 0bv64; ensures g == old(g) + 1bv32; ensures forall (i: bv32) :: i == g; " +
			"ensures s.y == arr[1][15:0] ++ arr[0]; track [t] *g; modifies g; }"
		srcfile  = source.NewStringFile("test", text)
		expected = parseTyped(t, text)
	)
	//
	untyped, errs := parser.Parse(srcfile, parser.Config{Xlen: 64})
	require.Empty(t, errs)
	//
	env := typing.NewEnvironment(64, exampleTable(), nil)
	actual, errs := ResolveTypes(untyped, env)
	require.Empty(t, errs)
	//
	assert.Equal(t, expected.Functions, actual)
	// Spans carried over
	_, ok := untyped.SourceMap.Lookup(actual[0].Specs[1])
	assert.True(t, ok)
}

func Test_Resolve_02(t *testing.T) {
	srcfile := source.NewStringFile("test", "fun f { ensures nope == 0bv64; }")
	untyped, errs := parser.Parse(srcfile, parser.Config{Xlen: 64})
	require.Empty(t, errs)
	//
	_, errs = ResolveTypes(untyped, typing.NewEnvironment(64, exampleTable(), nil))
	require.Len(t, errs, 1)
	assert.Equal(t, "nope", errs[0].Name)
	assert.Equal(t, "test:1:17: unknown variable nope", errs[0].Error())
}

type noAddresses struct{}

func (noAddresses) GlobalAddress(name string) (uint64, error) {
	return 0, catalogue.ErrNotFound
}

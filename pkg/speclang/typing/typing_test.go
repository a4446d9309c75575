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
package typing

import (
	"testing"

	"github.com/consensys/go-speclang/pkg/speclang/ast"
	"github.com/consensys/go-speclang/pkg/speclang/catalogue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleCatalogue() *catalogue.Table {
	var (
		table = catalogue.NewTable()
		word  = &catalogue.BitVector{Width: 64}
		point = &catalogue.Struct{Name: "point", Fields: []catalogue.Field{
			{Name: "x", Type: &catalogue.BitVector{Width: 32}, Offset: 0},
			{Name: "y", Type: &catalogue.BitVector{Width: 32}, Offset: 4},
		}, Size: 8}
	)
	//
	table.AddFunction("f", catalogue.Formal{Name: "x", Type: word}, catalogue.Formal{Name: "n", Type: word})
	table.AddGlobal("g", &catalogue.BitVector{Width: 32}, 0x100)
	table.AddGlobal("x", &catalogue.BitVector{Width: 8}, 0x104)
	table.AddGlobal("s", point, 0x108)
	table.AddGlobal("arr", &catalogue.Array{Element: &catalogue.BitVector{Width: 16}, Length: 4}, 0x110)
	table.AddGlobal("pts", &catalogue.Array{Element: point, Length: 2}, 0x118)
	table.AddGlobal("ptr", &catalogue.Pointer{Width: 64, Target: "point"}, 0x128)
	//
	return table
}

func exampleEnvironment() *Environment {
	return NewEnvironment(64, exampleCatalogue(), nil)
}

func deref(e ast.VExpr) *ast.OpApp {
	return &ast.OpApp{Op: ast.ValueOp{Kind: ast.DEREF}, Args: []ast.VExpr{e}, Typ: e.Type()}
}

func Test_FromNominal_01(t *testing.T) {
	var (
		arr   = &catalogue.Array{Element: &catalogue.BitVector{Width: 16}, Length: 4}
		point = &catalogue.Struct{Name: "p", Fields: []catalogue.Field{{Name: "a", Type: arr, Offset: 0}}, Size: 8}
	)
	//
	assert.Equal(t, ast.NewBvType(32), FromNominal(&catalogue.BitVector{Width: 32}, 64))
	assert.Equal(t, ast.NewBvType(64), FromNominal(&catalogue.Pointer{Width: 64}, 64))
	assert.Equal(t, &ast.ArrayType{Index: ast.NewBvType(32), Element: ast.NewBvType(16)}, FromNominal(arr, 32))
	//
	st := FromNominal(point, 64).(*ast.StructType)
	assert.Equal(t, uint(64), st.Size)
	assert.Equal(t, "a", st.Fields[0].Name)
}

func Test_Identifier_01(t *testing.T) {
	env := exampleEnvironment()
	// Scalar global is dereferenced
	e, err := env.Identifier("g")
	require.Nil(t, err)
	assert.Equal(t, deref(&ast.Ident{Name: "g", Kind: ast.GLOBAL, Typ: ast.NewBvType(32)}), e)
	// Struct global is not
	e, err = env.Identifier("s")
	require.Nil(t, err)
	assert.Equal(t, ast.GLOBAL, e.(*ast.Ident).Kind)
	assert.IsType(t, &ast.StructType{}, e.Type())
	// Pointer global is scalar
	e, err = env.Identifier("ptr")
	require.Nil(t, err)
	assert.True(t, ast.IsDeref(e))
}

func Test_Identifier_02(t *testing.T) {
	env := exampleEnvironment()
	// Outside of f, x is the global
	e, err := env.Identifier("x")
	require.Nil(t, err)
	assert.Equal(t, ast.NewBvType(8), e.Type())
	// Inside f, x is the formal
	env.EnterFunction("f")
	e, err = env.Identifier("x")
	require.Nil(t, err)
	assert.Equal(t, &ast.Ident{Name: "x", Kind: ast.FORMAL, Typ: ast.NewBvType(64)}, e)
	// Last function wins
	env.EnterFunction("h")
	e, err = env.Identifier("x")
	require.Nil(t, err)
	assert.Equal(t, ast.NewBvType(8), e.Type())
}

func Test_Identifier_03(t *testing.T) {
	env := exampleEnvironment()
	env.EnterFunction("f")
	//
	_, err := env.Identifier("missing")
	require.NotNil(t, err)
	assert.Equal(t, UNKNOWN_VARIABLE, err.Kind)
	assert.Equal(t, "missing", err.Name)
}

func Test_Identifier_04(t *testing.T) {
	env := exampleEnvironment()
	env.EnterFunction("f")
	// Bound variables shadow formals and globals
	v, err := env.Bind("x", 16)
	require.Nil(t, err)
	//
	e, err := env.Identifier("x")
	require.Nil(t, err)
	assert.Equal(t, &ast.Ident{Name: "x", Kind: ast.BOUND, Typ: ast.NewBvType(16)}, e)
	assert.NotSame(t, v, e)
	//
	env.Unbind()
	e, _ = env.Identifier("x")
	assert.Equal(t, ast.FORMAL, e.(*ast.Ident).Kind)
	//
	_, err = env.Bind("y", 0)
	require.NotNil(t, err)
	assert.Equal(t, INVALID_LITERAL, err.Kind)
}

func Test_SystemIdentifier_01(t *testing.T) {
	env := NewEnvironment(32, exampleCatalogue(), nil)
	//
	e, err := env.SystemIdentifier("$pc")
	require.Nil(t, err)
	assert.Equal(t, &ast.Ident{Name: "$pc", Kind: ast.SYSTEM, Typ: ast.NewBvType(32)}, e)
	//
	e, err = env.SystemIdentifier("$mem_h")
	require.Nil(t, err)
	assert.Equal(t, &ast.ArrayType{Index: ast.NewBvType(32), Element: ast.NewBvType(16)}, e.Type())
	//
	_, err = env.SystemIdentifier("$foo")
	require.NotNil(t, err)
	assert.Equal(t, UNKNOWN_SYSTEM_ENTITY, err.Kind)
	assert.Equal(t, "$foo", err.Name)
}

func Test_Untyped_01(t *testing.T) {
	env := NewUntypedEnvironment(64)
	env.EnterFunction("f")
	//
	e, err := env.Identifier("anything")
	require.Nil(t, err)
	assert.Equal(t, &ast.Ident{Name: "anything", Kind: ast.UNRESOLVED, Typ: ast.UNKNOWN}, e)
	//
	e, err = env.SystemIdentifier("$foo")
	require.Nil(t, err)
	assert.Equal(t, ast.UNKNOWN, e.Type())
	//
	e, err = env.Binary(ast.ADD, e, &ast.Bv{Value: 1, Width: 8})
	require.Nil(t, err)
	assert.Equal(t, ast.UNKNOWN, e.Type())
	//
	e, err = env.GetField(e, "f")
	require.Nil(t, err)
	assert.False(t, ast.IsDeref(e))
}

func Test_Binary_01(t *testing.T) {
	var (
		env = exampleEnvironment()
		a   = &ast.Bv{Value: 1, Width: 32}
		b   = &ast.Bv{Value: 2, Width: 32}
		c   = &ast.Bv{Value: 3, Width: 8}
	)
	//
	e, err := env.Binary(ast.MUL, a, b)
	require.Nil(t, err)
	assert.Equal(t, ast.NewBvType(32), e.Type())
	//
	e, err = env.Binary(ast.CONCAT, a, c)
	require.Nil(t, err)
	assert.Equal(t, ast.NewBvType(40), e.Type())
	//
	_, err = env.Binary(ast.ADD, a, c)
	require.NotNil(t, err)
	assert.Equal(t, TYPE_MISMATCH, err.Kind)
	//
	_, err = env.Binary(ast.ADD, a, &ast.Int{Value: 1})
	require.NotNil(t, err)
	assert.Equal(t, TYPE_MISMATCH, err.Kind)
	//
	e, err = env.Binary(ast.SUB, &ast.Int{Value: 1}, &ast.Int{Value: 2})
	require.Nil(t, err)
	assert.Equal(t, ast.INTEGER, e.Type())
	//
	_, err = env.Binary(ast.CONCAT, &ast.Int{Value: 1}, &ast.Int{Value: 2})
	require.NotNil(t, err)
	assert.Equal(t, TYPE_MISMATCH, err.Kind)
	//
	_, err = env.Binary(ast.BVAND, &ast.Bool{Value: true}, &ast.Bool{Value: true})
	require.NotNil(t, err)
	assert.Equal(t, TYPE_MISMATCH, err.Kind)
}

func Test_Slice_01(t *testing.T) {
	var (
		env = exampleEnvironment()
		a   = &ast.Bv{Value: 1, Width: 32}
	)
	//
	e, err := env.Slice(a, 7, 0)
	require.Nil(t, err)
	assert.Equal(t, ast.NewBvType(8), e.Type())
	//
	e, err = env.Slice(a, 31, 31)
	require.Nil(t, err)
	assert.Equal(t, ast.NewBvType(1), e.Type())
	//
	_, err = env.Slice(a, 32, 0)
	require.NotNil(t, err)
	assert.Equal(t, INVALID_SLICE, err.Kind)
	//
	_, err = env.Slice(a, 0, 7)
	require.NotNil(t, err)
	assert.Equal(t, INVALID_SLICE, err.Kind)
	//
	_, err = env.Slice(&ast.Int{Value: 1}, 1, 0)
	require.NotNil(t, err)
	assert.Equal(t, TYPE_MISMATCH, err.Kind)
}

func Test_ArrayIndex_01(t *testing.T) {
	env := exampleEnvironment()
	arr, _ := env.Identifier("arr")
	// Scalar elements are loaded
	e, err := env.ArrayIndex(arr, &ast.Int{Value: 0})
	require.Nil(t, err)
	assert.Equal(t, deref(&ast.OpApp{Op: ast.ValueOp{Kind: ast.ARRAY_INDEX}, Args: []ast.VExpr{arr, &ast.Int{Value: 0}},
		Typ: ast.NewBvType(16)}), e)
	// Aggregate elements are not
	pts, _ := env.Identifier("pts")
	e, err = env.ArrayIndex(pts, &ast.Bv{Value: 1, Width: 64})
	require.Nil(t, err)
	assert.False(t, ast.IsDeref(e))
	assert.IsType(t, &ast.StructType{}, e.Type())
	// Field of element
	e, err = env.GetField(e, "y")
	require.Nil(t, err)
	assert.True(t, ast.IsDeref(e))
}

func Test_ArrayIndex_02(t *testing.T) {
	env := exampleEnvironment()
	g, _ := env.Identifier("g")
	arr, _ := env.Identifier("arr")
	//
	_, err := env.ArrayIndex(g, &ast.Int{Value: 0})
	require.NotNil(t, err)
	assert.Equal(t, NOT_AN_ARRAY, err.Kind)
	assert.Equal(t, "g", err.Name)
	//
	_, err = env.ArrayIndex(arr, &ast.Bv{Value: 0, Width: 8})
	require.NotNil(t, err)
	assert.Equal(t, TYPE_MISMATCH, err.Kind)
}

func Test_GetField_01(t *testing.T) {
	env := exampleEnvironment()
	s, _ := env.Identifier("s")
	//
	e, err := env.GetField(s, "x")
	require.Nil(t, err)
	//
	field := &ast.Ident{Name: "x", Kind: ast.FIELD, Typ: ast.NewBvType(32)}
	assert.Equal(t, deref(&ast.OpApp{Op: ast.ValueOp{Kind: ast.GET_FIELD}, Args: []ast.VExpr{s, field},
		Typ: ast.NewBvType(32)}), e)
}

func Test_GetField_02(t *testing.T) {
	env := exampleEnvironment()
	s, _ := env.Identifier("s")
	g, _ := env.Identifier("g")
	//
	_, err := env.GetField(s, "z")
	require.NotNil(t, err)
	assert.Equal(t, UNKNOWN_FIELD, err.Kind)
	//
	_, err = env.GetField(s, "my_field")
	require.NotNil(t, err)
	assert.Equal(t, INVALID_FIELD_NAME, err.Kind)
	//
	_, err = env.GetField(g, "x")
	require.NotNil(t, err)
	assert.Equal(t, NOT_A_STRUCT, err.Kind)
	assert.Equal(t, "g", err.Name)
}

func Test_Builtin_01(t *testing.T) {
	var (
		env = exampleEnvironment()
		a   = &ast.Bv{Value: 1, Width: 32}
		n   = &ast.Ident{Name: "n", Kind: ast.FORMAL, Typ: ast.NewBvType(64)}
	)
	//
	e, err := env.Builtin("sext", []ast.VExpr{&ast.Int{Value: 32}, a})
	require.Nil(t, err)
	assert.Equal(t, ast.NewBvType(64), e.Type())
	//
	e, err = env.Builtin("uext", []ast.VExpr{&ast.Bv{Value: 8, Width: 8}, a})
	require.Nil(t, err)
	assert.Equal(t, ast.NewBvType(40), e.Type())
	//
	e, err = env.Builtin("old", []ast.VExpr{a})
	require.Nil(t, err)
	assert.Equal(t, ast.NewBvType(32), e.Type())
	//
	_, err = env.Builtin("old", []ast.VExpr{a, a})
	require.NotNil(t, err)
	assert.Equal(t, INVALID_BUILTIN, err.Kind)
	// Width given by a bit-vector literal
	e, err = env.Builtin("sext", []ast.VExpr{a, a})
	require.Nil(t, err)
	assert.Equal(t, ast.NewBvType(33), e.Type())
	// Width must be a literal
	_, err = env.Builtin("sext", []ast.VExpr{n, a})
	require.NotNil(t, err)
	assert.Equal(t, INVALID_BUILTIN, err.Kind)
	_, err = env.Builtin("sext", []ast.VExpr{&ast.Int{Value: -1}, a})
	require.NotNil(t, err)
	assert.Equal(t, INVALID_BUILTIN, err.Kind)
	_, err = env.Builtin("uext", []ast.VExpr{&ast.Int{Value: 1}, &ast.Int{Value: 1}})
	require.NotNil(t, err)
	assert.Equal(t, TYPE_MISMATCH, err.Kind)
}

func Test_Compare_01(t *testing.T) {
	var (
		env = exampleEnvironment()
		a   = &ast.Bv{Value: 1, Width: 32}
		b   = &ast.Bv{Value: 2, Width: 32}
	)
	//
	c, err := env.Compare(ast.GTU, a, b)
	require.Nil(t, err)
	assert.Equal(t, ast.GTU, c.Op)
	//
	_, err = env.Compare(ast.EQUAL, a, &ast.Bv{Value: 2, Width: 16})
	require.NotNil(t, err)
	assert.Equal(t, TYPE_MISMATCH, err.Kind)
	//
	_, err = env.Compare(ast.LTU, &ast.Int{Value: 1}, &ast.Int{Value: 2})
	require.NotNil(t, err)
	assert.Equal(t, TYPE_MISMATCH, err.Kind)
	//
	_, err = env.Compare(ast.LT, &ast.Int{Value: 1}, &ast.Int{Value: 2})
	assert.Nil(t, err)
}

func Test_BvLiteral_01(t *testing.T) {
	lit, err := BvLiteral(1, 8, true)
	require.Nil(t, err)
	assert.Equal(t, &ast.Bv{Value: 255, Width: 8}, lit)
	//
	lit, err = BvLiteral(1, 64, true)
	require.Nil(t, err)
	assert.Equal(t, ^uint64(0), lit.Value)
	//
	lit, err = BvLiteral(0, 16, true)
	require.Nil(t, err)
	assert.Equal(t, uint64(0), lit.Value)
	//
	_, err = BvLiteral(256, 8, false)
	require.NotNil(t, err)
	assert.Equal(t, INVALID_LITERAL, err.Kind)
	_, err = BvLiteral(1, 0, false)
	require.NotNil(t, err)
	assert.Equal(t, INVALID_LITERAL, err.Kind)
	_, err = BvLiteral(1, 65, false)
	require.NotNil(t, err)
	assert.Equal(t, INVALID_LITERAL, err.Kind)
}

func Test_ExplicitDeref_01(t *testing.T) {
	env := exampleEnvironment()
	g, _ := env.Identifier("g")
	// Legacy behaviour: explicit dereference of a scalar global dereferences twice.
	e := env.ExplicitDeref(g)
	assert.Equal(t, deref(deref(&ast.Ident{Name: "g", Kind: ast.GLOBAL, Typ: ast.NewBvType(32)})), e)
}

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
	"math/bits"

	"github.com/consensys/go-speclang/pkg/speclang/ast"
)

// Binary elaborates an infix value operator.  Arithmetic, bitwise and shift
// operators require operands of identical type (either both integers or both
// bit-vectors of the same width) and produce a result of that type.  Concatenation
// requires bit-vectors, and produces one whose width is the sum of its operands.
func (p *Environment) Binary(op ast.ValueOpKind, lhs ast.VExpr, rhs ast.VExpr) (ast.VExpr, *Error) {
	var (
		lt, rt = lhs.Type(), rhs.Type()
		result ast.VType
	)
	//
	switch {
	case !ast.IsKnown(lt) || !ast.IsKnown(rt):
		result = ast.UNKNOWN
	case op == ast.CONCAT:
		lbv, lok := lt.(*ast.BvType)
		rbv, rok := rt.(*ast.BvType)
		//
		if !lok || !rok {
			return nil, mismatch(op, lhs, rhs)
		}
		//
		result = ast.NewBvType(lbv.Width + rbv.Width)
	case !lt.Equals(rt):
		return nil, mismatch(op, lhs, rhs)
	default:
		switch lt.(type) {
		case *ast.IntType, *ast.BvType:
			result = lt
		default:
			return nil, mismatch(op, lhs, rhs)
		}
	}
	//
	return &ast.OpApp{Op: ast.ValueOp{Kind: op}, Args: []ast.VExpr{lhs, rhs}, Typ: result}, nil
}

// Slice elaborates the extraction of bits hi down to lo (inclusive) from a
// bit-vector, giving a bit-vector of width hi-lo+1.
func (p *Environment) Slice(arg ast.VExpr, hi uint16, lo uint16) (ast.VExpr, *Error) {
	var (
		op     = ast.ValueOp{Kind: ast.SLICE, Hi: hi, Lo: lo}
		result = ast.UNKNOWN
	)
	//
	if lo > hi {
		return nil, newError(INVALID_SLICE, "", "invalid slice [%d:%d] (upper bound below lower bound)", hi, lo)
	} else if ast.IsKnown(arg.Type()) {
		bv, ok := arg.Type().(*ast.BvType)
		//
		if !ok {
			return nil, newError(TYPE_MISMATCH, "", "cannot slice %s of type %s", arg.String(), arg.Type().String())
		} else if uint(hi) >= bv.Width {
			return nil, newError(INVALID_SLICE, "", "invalid slice [%d:%d] of %s", hi, lo, bv.String())
		}
		//
		result = ast.NewBvType(uint(hi-lo) + 1)
	}
	//
	return &ast.OpApp{Op: op, Args: []ast.VExpr{arg}, Typ: result}, nil
}

// ArrayIndex elaborates an index into an array.  This yields the address of
// the element which, for scalar elements, is implicitly dereferenced.  The
// index must be either an integer or a bit-vector matching the index type of
// the array.
func (p *Environment) ArrayIndex(array ast.VExpr, index ast.VExpr) (ast.VExpr, *Error) {
	var (
		op   = ast.ValueOp{Kind: ast.ARRAY_INDEX}
		args = []ast.VExpr{array, index}
	)
	//
	if !ast.IsKnown(array.Type()) {
		return &ast.OpApp{Op: op, Args: args, Typ: ast.UNKNOWN}, nil
	}
	//
	arrtype, ok := array.Type().(*ast.ArrayType)
	//
	if !ok {
		return nil, newError(NOT_AN_ARRAY, identName(array), "cannot index %s of type %s", array.String(),
			array.Type().String())
	}
	//
	switch it := index.Type(); {
	case !ast.IsKnown(it), it.Equals(ast.INTEGER), it.Equals(arrtype.Index):
		// fine
	default:
		return nil, newError(TYPE_MISMATCH, "", "cannot index %s with %s of type %s", array.String(), index.String(),
			it.String())
	}
	//
	return derefIfScalar(&ast.OpApp{Op: op, Args: args, Typ: arrtype.Element}), nil
}

// GetField elaborates access to a field of a struct.  This yields the address
// of the field which, for scalar fields, is implicitly dereferenced.  Field
// names must be alphanumeric.
func (p *Environment) GetField(record ast.VExpr, field string) (ast.VExpr, *Error) {
	var op = ast.ValueOp{Kind: ast.GET_FIELD}
	//
	if !isAlphaNumeric(field) {
		return nil, newError(INVALID_FIELD_NAME, field, "invalid field name %s", field)
	} else if !ast.IsKnown(record.Type()) {
		name := &ast.Ident{Name: field, Kind: ast.FIELD, Typ: ast.UNKNOWN}
		return &ast.OpApp{Op: op, Args: []ast.VExpr{record, name}, Typ: ast.UNKNOWN}, nil
	}
	//
	structType, ok := record.Type().(*ast.StructType)
	if !ok {
		return nil, newError(NOT_A_STRUCT, identName(record), "cannot access field %s of %s (type %s is not a struct)",
			field, record.String(), record.Type().String())
	}
	//
	ftype, ok := structType.Field(field)
	if !ok {
		return nil, newError(UNKNOWN_FIELD, field, "unknown field %s in %s", field, structType.String())
	}
	//
	name := &ast.Ident{Name: field, Kind: ast.FIELD, Typ: ftype.Type}
	//
	return derefIfScalar(&ast.OpApp{Op: op, Args: []ast.VExpr{record, name}, Typ: ftype.Type}), nil
}

// ExplicitDeref elaborates a dereference written in the source.  The result
// has the same type as its operand.
func (p *Environment) ExplicitDeref(arg ast.VExpr) ast.VExpr {
	return &ast.OpApp{Op: ast.ValueOp{Kind: ast.DEREF}, Args: []ast.VExpr{arg}, Typ: arg.Type()}
}

// Builtin elaborates the application of a builtin function.  For "old(e)"
// the result has the type of e.  For "sext(n, e)" and "uext(n, e)", n must be
// a literal and e a bit-vector of width w, giving a bit-vector of width w+n.
func (p *Environment) Builtin(name string, args []ast.VExpr) (ast.VExpr, *Error) {
	var result ast.VType
	//
	switch name {
	case "old":
		if len(args) != 1 {
			return nil, newError(INVALID_BUILTIN, name, "old expects one argument (found %d)", len(args))
		}
		//
		result = args[0].Type()
	case "sext", "uext":
		if len(args) != 2 {
			return nil, newError(INVALID_BUILTIN, name, "%s expects two arguments (found %d)", name, len(args))
		}
		//
		n, ok := literalValue(args[0])
		if !ok {
			return nil, newError(INVALID_BUILTIN, name, "%s expects a non-negative literal width (found %s)", name,
				args[0].String())
		} else if !ast.IsKnown(args[1].Type()) {
			result = ast.UNKNOWN
		} else if bv, ok := args[1].Type().(*ast.BvType); ok {
			result = ast.NewBvType(bv.Width + uint(n))
		} else {
			return nil, newError(TYPE_MISMATCH, name, "cannot extend %s of type %s", args[1].String(),
				args[1].Type().String())
		}
	default:
		return nil, newError(INVALID_BUILTIN, name, "unknown function %s", name)
	}
	//
	return &ast.FuncApp{Name: name, Args: args, Typ: result}, nil
}

// Compare elaborates a comparison.  The operands must have identical types,
// and unsigned comparisons require bit-vectors.
func (p *Environment) Compare(op ast.CompOp, lhs ast.VExpr, rhs ast.VExpr) (*ast.COpApp, *Error) {
	var lt, rt = lhs.Type(), rhs.Type()
	//
	if ast.IsKnown(lt) && ast.IsKnown(rt) {
		if !lt.Equals(rt) {
			return nil, newError(TYPE_MISMATCH, "", "cannot compare %s and %s (types %s and %s)", lhs.String(),
				rhs.String(), lt.String(), rt.String())
		} else if _, ok := lt.(*ast.BvType); op.IsUnsigned() && !ok {
			return nil, newError(TYPE_MISMATCH, "", "unsigned comparison %s requires bit-vectors (found %s)",
				op.String(), lt.String())
		}
	}
	//
	return &ast.COpApp{Op: op, Left: lhs, Right: rhs}, nil
}

// BvLiteral constructs a bit-vector literal of a given width, which must be
// between 1 and 64 bits.  The value must fit within the width.  A negated
// literal holds the two's complement of its value, truncated to the width.
func BvLiteral(value uint64, width uint, negate bool) (*ast.Bv, *Error) {
	if width == 0 || width > 64 {
		return nil, newError(INVALID_LITERAL, "", "unsupported bit-vector width %d", width)
	} else if bits.Len64(value) > int(width) {
		return nil, newError(INVALID_LITERAL, "", "value %d does not fit in bv%d", value, width)
	}
	//
	if negate {
		value = (^value + 1) & Mask(width)
	}
	//
	return &ast.Bv{Value: value, Width: width}, nil
}

// Mask returns a value whose lower width bits are set.
func Mask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	//
	return (uint64(1) << width) - 1
}

func mismatch(op ast.ValueOpKind, lhs ast.VExpr, rhs ast.VExpr) *Error {
	return newError(TYPE_MISMATCH, "", "operator %s not applicable to %s and %s (types %s and %s)",
		ast.ValueOp{Kind: op}.String(), lhs.String(), rhs.String(), lhs.Type().String(), rhs.Type().String())
}

// Value of a non-negative integer or bit-vector literal.
func literalValue(e ast.VExpr) (uint64, bool) {
	switch e := e.(type) {
	case *ast.Int:
		return uint64(e.Value), e.Value >= 0
	case *ast.Bv:
		return e.Value, true
	default:
		return 0, false
	}
}

// Name of an identifier, looking through an implicit dereference.
func identName(e ast.VExpr) string {
	if ast.IsDeref(e) {
		e = e.(*ast.OpApp).Args[0]
	}
	//
	if id, ok := e.(*ast.Ident); ok {
		return id.Name
	}
	//
	return ""
}

func isAlphaNumeric(name string) bool {
	for _, c := range name {
		if !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') && !('0' <= c && c <= '9') {
			return false
		}
	}
	//
	return name != ""
}

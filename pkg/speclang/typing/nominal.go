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
	"github.com/consensys/go-speclang/pkg/speclang/ast"
	"github.com/consensys/go-speclang/pkg/speclang/catalogue"
)

// FromNominal converts a nominal type into an elaborated type.  Pointers are
// addresses, hence are treated as bit-vectors.  Arrays are indexed by machine
// words.
func FromNominal(datatype catalogue.Type, xlen uint) ast.VType {
	switch t := datatype.(type) {
	case *catalogue.BitVector:
		return ast.NewBvType(t.Width)
	case *catalogue.Pointer:
		return ast.NewBvType(t.Width)
	case *catalogue.Array:
		return &ast.ArrayType{Index: ast.NewBvType(xlen), Element: FromNominal(t.Element, xlen)}
	case *catalogue.Struct:
		fields := make([]ast.FieldType, len(t.Fields))
		//
		for i, f := range t.Fields {
			fields[i] = ast.FieldType{Name: f.Name, Type: FromNominal(f.Type, xlen), Offset: f.Offset}
		}
		//
		return &ast.StructType{Name: t.Name, Fields: fields, Size: t.Size * 8}
	default:
		panic("unreachable")
	}
}

// Dereference a given address if the value it refers to is scalar.  Memory
// holding a scalar is loaded, whilst aggregates are left as addresses for
// subsequent field access, indexing, etc.  This applies uniformly to globals,
// array elements and struct fields.
func derefIfScalar(address ast.VExpr) ast.VExpr {
	if t, ok := address.Type().(*ast.BvType); ok {
		return &ast.OpApp{Op: ast.ValueOp{Kind: ast.DEREF}, Args: []ast.VExpr{address}, Typ: t}
	}
	//
	return address
}

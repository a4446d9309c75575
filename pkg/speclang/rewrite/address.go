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
	"fmt"

	"github.com/consensys/go-speclang/pkg/speclang/ast"
	"github.com/consensys/go-speclang/pkg/speclang/catalogue"
	"github.com/consensys/go-speclang/pkg/speclang/typing"
	"github.com/consensys/go-speclang/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// AddressGlobals replaces every global variable by its address, given as a
// machine word.  Implicit dereferences of globals are retained, and become
// loads from the corresponding address.
func AddressGlobals(fn *ast.FuncSpec, addresses catalogue.Addresses, xlen uint,
	srcmap *source.Map[any]) (*ast.FuncSpec, error) {
	var failure error
	//
	rewriter := NewRewriter(srcmap, func(e ast.VExpr) ast.VExpr {
		ident, ok := e.(*ast.Ident)
		//
		if !ok || ident.Kind != ast.GLOBAL || failure != nil {
			return e
		}
		//
		address, err := addresses.GlobalAddress(ident.Name)
		if err != nil {
			failure = fmt.Errorf("addressing %s in %s: %w", ident.Name, fn.Name, err)
			return e
		}
		//
		return &ast.Bv{Value: address & typing.Mask(xlen), Width: xlen}
	})
	//
	result := rewriter.Function(fn)
	//
	if failure != nil {
		return nil, failure
	}
	//
	return result, nil
}

// Lower a function specification by addressing its globals and then folding
// constants.
func Lower(fn *ast.FuncSpec, addresses catalogue.Addresses, xlen uint, srcmap *source.Map[any]) (*ast.FuncSpec,
	error) {
	//
	log.Debug(fmt.Sprintf("addressing globals in %s", fn.Name))
	//
	fn, err := AddressGlobals(fn, addresses, xlen, srcmap)
	if err != nil {
		return nil, err
	}
	//
	log.Debug(fmt.Sprintf("folding constants in %s", fn.Name))
	//
	return FoldConstants(fn, srcmap), nil
}

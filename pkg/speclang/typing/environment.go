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
	"strings"

	"github.com/consensys/go-speclang/pkg/speclang/ast"
	"github.com/consensys/go-speclang/pkg/speclang/catalogue"
	"github.com/consensys/go-speclang/pkg/speclang/sysmodel"
)

// Environment captures the information used to elaborate expressions: the
// word width of the machine, the type catalogue of the binary, the system
// model and the function whose specification is being elaborated.  An
// environment without a catalogue is untyped, and gives every node an unknown
// type.  Environments are not safe for concurrent use, though the catalogue and
// model they refer to may be shared.
type Environment struct {
	xlen      uint
	catalogue catalogue.Catalogue
	model     sysmodel.Model
	// Name of the current function (if any).
	function string
	// Signature of the current function (if known).
	signature *catalogue.Signature
	// Variables bound by enclosing quantifiers, innermost last.
	bound []*ast.Ident
}

// NewEnvironment constructs a typed environment for a machine of a given word
// width.  If no model is given, the RISC-V model is used.
func NewEnvironment(xlen uint, types catalogue.Catalogue, model sysmodel.Model) *Environment {
	if types == nil {
		panic("typed environment requires a catalogue")
	} else if model == nil {
		model = sysmodel.NewRiscV()
	}
	//
	return &Environment{xlen: xlen, catalogue: types, model: model}
}

// NewUntypedEnvironment constructs an environment which performs no type
// inference, such that elaborated nodes have unknown types.
func NewUntypedEnvironment(xlen uint) *Environment {
	return &Environment{xlen: xlen}
}

// Typed determines whether this environment performs type inference.
func (p *Environment) Typed() bool {
	return p.catalogue != nil
}

// Xlen returns the word width of the machine.
func (p *Environment) Xlen() uint {
	return p.xlen
}

// EnterFunction sets the current function, which determines the formal
// parameters in scope.  This replaces any previous function.
func (p *Environment) EnterFunction(name string) {
	p.function = name
	p.signature = nil
	//
	if p.Typed() {
		if sig, ok := p.catalogue.FunctionSignature(name); ok {
			p.signature = &sig
		}
	}
}

// Function returns the name of the current function, or "" if there is none.
func (p *Environment) Function() string {
	return p.function
}

// Bind a variable of a given bit-vector width, as done by a quantifier.  This
// shadows any existing binding of the same name until it is unbound.
func (p *Environment) Bind(name string, width uint) (*ast.Ident, *Error) {
	if width == 0 {
		return nil, newError(INVALID_LITERAL, name, "invalid bit-vector width for %s", name)
	}
	//
	ident := &ast.Ident{Name: name, Kind: ast.BOUND, Typ: ast.NewBvType(width)}
	p.bound = append(p.bound, ident)
	//
	return ident, nil
}

// Unbind the most recently bound variable.
func (p *Environment) Unbind() {
	p.bound = p.bound[:len(p.bound)-1]
}

// Identifier resolves a bare identifier.  Bound variables take priority,
// followed by the formal parameters of the current function and, finally,
// global variables.  Formals are always machine words.  A global denotes its
// address, hence scalar globals are implicitly dereferenced.
func (p *Environment) Identifier(name string) (ast.VExpr, *Error) {
	// Bound variables
	for i := len(p.bound) - 1; i >= 0; i-- {
		if p.bound[i].Name == name {
			return &ast.Ident{Name: name, Kind: ast.BOUND, Typ: p.bound[i].Typ}, nil
		}
	}
	//
	if !p.Typed() {
		return &ast.Ident{Name: name, Kind: ast.UNRESOLVED, Typ: ast.UNKNOWN}, nil
	}
	// Formal parameters
	if p.signature != nil {
		if _, ok := p.signature.Formal(name); ok {
			return &ast.Ident{Name: name, Kind: ast.FORMAL, Typ: ast.NewBvType(p.xlen)}, nil
		}
	}
	// Global variables
	datatype, err := p.catalogue.GlobalType(name)
	if err != nil {
		return nil, newError(UNKNOWN_VARIABLE, name, "unknown variable %s", name)
	}
	//
	ident := &ast.Ident{Name: name, Kind: ast.GLOBAL, Typ: FromNominal(datatype, p.xlen)}
	//
	return derefIfScalar(ident), nil
}

// SystemIdentifier resolves an identifier of the system model, written with a
// "$" prefix.
func (p *Environment) SystemIdentifier(name string) (ast.VExpr, *Error) {
	if !p.Typed() {
		return &ast.Ident{Name: name, Kind: ast.SYSTEM, Typ: ast.UNKNOWN}, nil
	}
	//
	if datatype, ok := p.model.EntityType(strings.TrimPrefix(name, "$"), p.xlen); ok {
		return &ast.Ident{Name: name, Kind: ast.SYSTEM, Typ: FromNominal(datatype, p.xlen)}, nil
	}
	//
	return nil, newError(UNKNOWN_SYSTEM_ENTITY, name, "unknown system entity %s", name)
}

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
package catalogue

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrNotFound signals that a requested entry does not exist in a catalogue.
var ErrNotFound = errors.New("not found")

// Catalogue provides read-only access to the types of functions and global
// variables declared in a binary.  Implementations must be safe for concurrent
// reads.
type Catalogue interface {
	// FunctionSignature returns the signature for a given function, or false
	// if no such function is known.
	FunctionSignature(name string) (Signature, bool)
	// GlobalType returns the declared type of a given global variable.  If no
	// such variable exists, then an error wrapping ErrNotFound is returned.
	GlobalType(name string) (Type, error)
}

// Addresses provides the location of global variables within a binary.
type Addresses interface {
	// GlobalAddress returns the address of a given global variable.  If no
	// such variable exists, then an error wrapping ErrNotFound is returned.
	GlobalAddress(name string) (uint64, error)
}

// Formal is a named formal parameter of a function.
type Formal struct {
	Name string
	Type Type
}

// Signature describes the formal parameters of a function.
type Signature struct {
	Name    string
	Formals []Formal
}

// Formal looks up a formal parameter of this function by name.
func (p *Signature) Formal(name string) (Formal, bool) {
	for _, f := range p.Formals {
		if f.Name == name {
			return f, true
		}
	}
	//
	return Formal{}, false
}

func (p *Signature) String() string {
	var formals = make([]string, len(p.Formals))
	//
	for i, f := range p.Formals {
		formals[i] = fmt.Sprintf("%s: %s", f.Name, f.Type.String())
	}
	//
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(formals, ", "))
}

// Global describes a global variable, including its type and address.
type Global struct {
	Name    string
	Type    Type
	Address uint64
}

// Table is an in-memory catalogue, as populated from debug information or a
// snapshot file.
type Table struct {
	functions map[string]Signature
	globals   map[string]Global
}

// NewTable constructs an initially empty table.
func NewTable() *Table {
	return &Table{make(map[string]Signature), make(map[string]Global)}
}

// AddFunction registers the signature of a function.  If a function of the
// same name already exists, the first registration is kept and false is
// returned.
func (p *Table) AddFunction(name string, formals ...Formal) bool {
	if _, ok := p.functions[name]; ok {
		return false
	}
	//
	p.functions[name] = Signature{name, formals}
	//
	return true
}

// AddGlobal registers a global variable.  If a global of the same name already
// exists, the first registration is kept and false is returned.
func (p *Table) AddGlobal(name string, datatype Type, address uint64) bool {
	if _, ok := p.globals[name]; ok {
		return false
	}
	//
	p.globals[name] = Global{name, datatype, address}
	//
	return true
}

// FunctionSignature implementation for the Catalogue interface.
func (p *Table) FunctionSignature(name string) (Signature, bool) {
	sig, ok := p.functions[name]
	return sig, ok
}

// GlobalType implementation for the Catalogue interface.
func (p *Table) GlobalType(name string) (Type, error) {
	if g, ok := p.globals[name]; ok {
		return g.Type, nil
	}
	//
	return nil, fmt.Errorf("global %q: %w", name, ErrNotFound)
}

// GlobalAddress implementation for the Addresses interface.
func (p *Table) GlobalAddress(name string) (uint64, error) {
	if g, ok := p.globals[name]; ok {
		return g.Address, nil
	}
	//
	return 0, fmt.Errorf("global %q: %w", name, ErrNotFound)
}

// Functions returns all function signatures in this table, sorted by name.
func (p *Table) Functions() []Signature {
	var sigs = make([]Signature, 0, len(p.functions))
	//
	for _, sig := range p.functions {
		sigs = append(sigs, sig)
	}
	//
	slices.SortFunc(sigs, func(l, r Signature) int { return strings.Compare(l.Name, r.Name) })
	//
	return sigs
}

// Globals returns all global variables in this table, sorted by name.
func (p *Table) Globals() []Global {
	var globals = make([]Global, 0, len(p.globals))
	//
	for _, g := range p.globals {
		globals = append(globals, g)
	}
	//
	slices.SortFunc(globals, func(l, r Global) int { return strings.Compare(l.Name, r.Name) })
	//
	return globals
}

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
package ast

import (
	"fmt"
	"strings"

	"github.com/consensys/go-speclang/pkg/util/collection/set"
)

// Spec is a single clause of a function specification.
type Spec interface {
	fmt.Stringer
	// Keyword returns the keyword which introduces this clause.
	Keyword() string
}

// Requires is a precondition.
type Requires struct {
	Cond BExpr
}

// Keyword implementation for the Spec interface.
func (p *Requires) Keyword() string { return "requires" }

func (p *Requires) String() string { return fmt.Sprintf("requires %s;", p.Cond.String()) }

// Ensures is a postcondition.
type Ensures struct {
	Cond BExpr
}

// Keyword implementation for the Spec interface.
func (p *Ensures) Keyword() string { return "ensures" }

func (p *Ensures) String() string { return fmt.Sprintf("ensures %s;", p.Cond.String()) }

// Modifies declares the set of locations which a function may modify.
type Modifies struct {
	Names *set.SortedSet[string]
}

// Keyword implementation for the Spec interface.
func (p *Modifies) Keyword() string { return "modifies" }

func (p *Modifies) String() string {
	return fmt.Sprintf("modifies %s;", strings.Join(p.Names.ToArray(), ", "))
}

// Track requests that the value of an expression be recorded under a given
// name.
type Track struct {
	Name string
	Expr VExpr
}

// Keyword implementation for the Spec interface.
func (p *Track) Keyword() string { return "track" }

func (p *Track) String() string { return fmt.Sprintf("track [%s] %s;", p.Name, p.Expr.String()) }

// FuncSpec groups the clauses given for a single function.
type FuncSpec struct {
	Name  string
	Specs []Spec
}

// Requires returns the conditions of all requires clauses, in order.
func (p *FuncSpec) Requires() []BExpr {
	var conds []BExpr
	//
	for _, s := range p.Specs {
		if r, ok := s.(*Requires); ok {
			conds = append(conds, r.Cond)
		}
	}
	//
	return conds
}

// Ensures returns the conditions of all ensures clauses, in order.
func (p *FuncSpec) Ensures() []BExpr {
	var conds []BExpr
	//
	for _, s := range p.Specs {
		if e, ok := s.(*Ensures); ok {
			conds = append(conds, e.Cond)
		}
	}
	//
	return conds
}

// Modified returns the union of all modifies clauses.
func (p *FuncSpec) Modified() *set.SortedSet[string] {
	var names = set.NewSortedSet[string]()
	//
	for _, s := range p.Specs {
		if m, ok := s.(*Modifies); ok {
			names.InsertSorted(m.Names)
		}
	}
	//
	return names
}

func (p *FuncSpec) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("fun %s {\n", p.Name))
	//
	for _, s := range p.Specs {
		builder.WriteString("  ")
		builder.WriteString(s.String())
		builder.WriteString("\n")
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}

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
package sysmodel

import (
	"slices"

	"github.com/consensys/go-speclang/pkg/speclang/catalogue"
)

// Model describes the architectural state of a machine which specifications
// can refer to, such as its registers and memory.  Entities are written with a
// "$" prefix in specifications, but are named here without it.
type Model interface {
	// EntityType returns the type of a given entity for a machine of the
	// given word width, or false if there is no such entity.
	EntityType(name string, xlen uint) (catalogue.Type, bool)
	// Names returns the names of all entities in this model, in sorted order.
	Names() []string
}

// PC is the program counter.
const PC = "pc"

// RETURNED is a single bit flag indicating the current function has returned.
const RETURNED = "returned"

// PRIV is the current privilege level.
const PRIV = "priv"

// MEM_B is memory viewed as an array of bytes.
const MEM_B = "mem_b"

// MEM_H is memory viewed as an array of half words.
const MEM_H = "mem_h"

// MEM_W is memory viewed as an array of words.
const MEM_W = "mem_w"

// MEM_D is memory viewed as an array of double words.
const MEM_D = "mem_d"

// ABI names of the general purpose registers, including the alternative name
// "fp" for "s0".
var registers = []string{
	"zero", "ra", "sp", "gp", "tp",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6",
	"s0", "fp", "s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
}

// RiscV is the system model of a RISC-V hart.  Its memory is byte addressed,
// and accessible at several granularities.
type RiscV struct {
	names []string
}

// NewRiscV constructs the RISC-V system model.
func NewRiscV() *RiscV {
	var names = append([]string{PC, RETURNED, PRIV, MEM_B, MEM_H, MEM_W, MEM_D}, registers...)
	//
	slices.Sort(names)
	//
	return &RiscV{names}
}

// EntityType implementation for the Model interface.
func (p *RiscV) EntityType(name string, xlen uint) (catalogue.Type, bool) {
	switch name {
	case PC:
		return &catalogue.BitVector{Width: xlen}, true
	case RETURNED:
		return &catalogue.BitVector{Width: 1}, true
	case PRIV:
		return &catalogue.BitVector{Width: 2}, true
	case MEM_B:
		return memory(8), true
	case MEM_H:
		return memory(16), true
	case MEM_W:
		return memory(32), true
	case MEM_D:
		return memory(64), true
	}
	//
	if slices.Contains(registers, name) {
		return &catalogue.BitVector{Width: xlen}, true
	}
	//
	return nil, false
}

// Names implementation for the Model interface.
func (p *RiscV) Names() []string {
	return p.names
}

// Memory is modelled as an array of unknown length.
func memory(width uint) catalogue.Type {
	return &catalogue.Array{Element: &catalogue.BitVector{Width: width}, Length: 0}
}

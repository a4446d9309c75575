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
	"fmt"
	"strings"
)

// Type represents a nominal type, as declared in the debug information of a
// binary.  Types are immutable once constructed, and may be shared freely.
type Type interface {
	fmt.Stringer
	// ByteSize returns the number of bytes occupied by a value of this type.
	ByteSize() uint
}

// BitVector is a scalar type of a given width in bits, covering all base types
// (integers, characters, booleans, enumerations, etc).
type BitVector struct {
	Width uint
}

// ByteSize implementation for Type interface.
func (p *BitVector) ByteSize() uint {
	return (p.Width + 7) / 8
}

func (p *BitVector) String() string {
	return fmt.Sprintf("bv%d", p.Width)
}

// Pointer is an address of a given width.  The pointee is recorded by name
// only, since pointer types are often recursive (e.g. linked lists).
type Pointer struct {
	Width  uint
	Target string
}

// ByteSize implementation for Type interface.
func (p *Pointer) ByteSize() uint {
	return (p.Width + 7) / 8
}

func (p *Pointer) String() string {
	if p.Target == "" {
		return "*void"
	}
	//
	return fmt.Sprintf("*%s", p.Target)
}

// Array is a contiguous sequence of elements of a given type.  A length of
// zero indicates the length is unknown (e.g. a flexible array member).
type Array struct {
	Element Type
	Length  uint
}

// ByteSize implementation for Type interface.
func (p *Array) ByteSize() uint {
	return p.Element.ByteSize() * p.Length
}

func (p *Array) String() string {
	return fmt.Sprintf("%s[%d]", p.Element.String(), p.Length)
}

// Field is a named member of a struct, located at a given offset in bytes
// from the start of the enclosing struct.
type Field struct {
	Name   string
	Type   Type
	Offset uint
}

// Struct is an aggregate of named fields, along with its overall size in bytes
// (which includes any padding).
type Struct struct {
	Name   string
	Fields []Field
	Size   uint
}

// ByteSize implementation for Type interface.
func (p *Struct) ByteSize() uint {
	return p.Size
}

// Field looks up a field by name in this struct.
func (p *Struct) Field(name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	//
	return Field{}, false
}

func (p *Struct) String() string {
	var builder strings.Builder
	//
	builder.WriteString("struct ")
	builder.WriteString(p.Name)
	builder.WriteString(" {")
	//
	for i, f := range p.Fields {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(fmt.Sprintf(" %s: %s", f.Name, f.Type.String()))
	}
	//
	builder.WriteString(" }")
	//
	return builder.String()
}

// IsScalar determines whether a given nominal type denotes a single machine
// value (i.e. a bit-vector or a pointer), rather than an aggregate.
func IsScalar(t Type) bool {
	switch t.(type) {
	case *BitVector, *Pointer:
		return true
	default:
		return false
	}
}

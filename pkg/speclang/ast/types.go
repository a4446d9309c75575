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
)

// VType is the elaborated type of a value expression.
type VType interface {
	fmt.Stringer
	// Equals determines whether this type is identical to another.
	Equals(VType) bool
}

// BOOLEAN is the type of boolean values.
var BOOLEAN VType = &BoolType{}

// INTEGER is the type of (unbounded) integer literals.
var INTEGER VType = &IntType{}

// UNKNOWN is the placeholder type given to nodes which have not been typed
// yet.
var UNKNOWN VType = &UnknownType{}

// BoolType represents the type of booleans.
type BoolType struct{}

// Equals implementation for the VType interface.
func (p *BoolType) Equals(other VType) bool {
	_, ok := other.(*BoolType)
	return ok
}

func (p *BoolType) String() string {
	return "bool"
}

// IntType represents the type of unbounded integers.
type IntType struct{}

// Equals implementation for the VType interface.
func (p *IntType) Equals(other VType) bool {
	_, ok := other.(*IntType)
	return ok
}

func (p *IntType) String() string {
	return "int"
}

// BvType represents the type of bit-vectors of a fixed width.
type BvType struct {
	Width uint
}

// NewBvType constructs a bit-vector type of a given width.
func NewBvType(width uint) *BvType {
	return &BvType{width}
}

// Equals implementation for the VType interface.
func (p *BvType) Equals(other VType) bool {
	if o, ok := other.(*BvType); ok {
		return p.Width == o.Width
	}
	//
	return false
}

func (p *BvType) String() string {
	return fmt.Sprintf("bv%d", p.Width)
}

// ArrayType represents a mapping from indices to elements, such as an array
// declared in the binary or the memory of the machine.
type ArrayType struct {
	Index   VType
	Element VType
}

// Equals implementation for the VType interface.
func (p *ArrayType) Equals(other VType) bool {
	if o, ok := other.(*ArrayType); ok {
		return p.Index.Equals(o.Index) && p.Element.Equals(o.Element)
	}
	//
	return false
}

func (p *ArrayType) String() string {
	return fmt.Sprintf("[%s]%s", p.Index.String(), p.Element.String())
}

// FieldType describes a single field of a struct type.  The offset is given
// in bytes from the start of the struct.
type FieldType struct {
	Name   string
	Type   VType
	Offset uint
}

// StructType represents an aggregate of named fields.  The size is given in
// bits.
type StructType struct {
	Name   string
	Fields []FieldType
	Size   uint
}

// Field looks up a field of this struct by name.
func (p *StructType) Field(name string) (FieldType, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	//
	return FieldType{}, false
}

// Equals implementation for the VType interface.  Structs are compared
// structurally.
func (p *StructType) Equals(other VType) bool {
	o, ok := other.(*StructType)
	//
	if !ok || p.Name != o.Name || p.Size != o.Size || len(p.Fields) != len(o.Fields) {
		return false
	}
	//
	for i, f := range p.Fields {
		g := o.Fields[i]
		if f.Name != g.Name || f.Offset != g.Offset || !f.Type.Equals(g.Type) {
			return false
		}
	}
	//
	return true
}

func (p *StructType) String() string {
	if p.Name != "" {
		return fmt.Sprintf("struct %s", p.Name)
	}
	//
	var fields = make([]string, len(p.Fields))
	//
	for i, f := range p.Fields {
		fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Type.String())
	}
	//
	return fmt.Sprintf("struct { %s }", strings.Join(fields, ", "))
}

// UnknownType is a placeholder for a type which has yet to be determined.
type UnknownType struct{}

// Equals implementation for the VType interface.
func (p *UnknownType) Equals(other VType) bool {
	_, ok := other.(*UnknownType)
	return ok
}

func (p *UnknownType) String() string {
	return "?"
}

// IsKnown determines whether a given type has been resolved.
func IsKnown(t VType) bool {
	_, ok := t.(*UnknownType)
	return !ok
}

// ByteSize returns the number of bytes occupied in memory by a value of the
// given type, or false if this cannot be determined.
func ByteSize(t VType) (uint, bool) {
	switch t := t.(type) {
	case *BvType:
		return (t.Width + 7) / 8, true
	case *StructType:
		return t.Size / 8, true
	default:
		return 0, false
	}
}

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
	"debug/dwarf"
	"debug/elf"
	"encoding/binary"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// opAddr is the DW_OP_addr location opcode, used for variables at a fixed
// address.
const opAddr = 0x03

// ReadDWARF extracts a catalogue from the debug information of a given ELF
// binary.  Functions are taken from subprogram entries (along with their formal
// parameters), whilst globals are taken from variables whose location is a
// fixed address.  The word width determines the size of pointers.
func ReadDWARF(filename string, xlen uint) (*Table, error) {
	file, err := elf.Open(filename)
	if err != nil {
		return nil, err
	}
	//
	defer file.Close()
	//
	data, err := file.DWARF()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return FromDWARF(data, file.ByteOrder, xlen)
}

// FromDWARF extracts a catalogue from already loaded debug information.
func FromDWARF(data *dwarf.Data, order binary.ByteOrder, xlen uint) (*Table, error) {
	var (
		table  = NewTable()
		reader = data.Reader()
		conv   = converter{data, xlen}
	)
	//
	for {
		entry, err := reader.Next()
		//
		if err != nil {
			return nil, err
		} else if entry == nil {
			break
		}
		//
		switch entry.Tag {
		case dwarf.TagCompileUnit:
			// Descend into compilation units
			continue
		case dwarf.TagSubprogram:
			if err := conv.subprogram(table, reader, entry); err != nil {
				return nil, err
			}
		case dwarf.TagVariable:
			conv.global(table, entry, order)
		default:
			reader.SkipChildren()
		}
	}
	//
	log.Debugf("read %d functions and %d globals from debug information", len(table.functions),
		len(table.globals))
	//
	return table, nil
}

type converter struct {
	data *dwarf.Data
	xlen uint
}

func (p *converter) subprogram(table *Table, reader *dwarf.Reader, entry *dwarf.Entry) error {
	var (
		name, _ = entry.Val(dwarf.AttrName).(string)
		formals []Formal
	)
	//
	if entry.Children {
		// Collect formal parameters, skipping everything else.
		for {
			child, err := reader.Next()
			if err != nil {
				return err
			} else if child == nil || child.Tag == 0 {
				break
			}
			//
			if child.Tag == dwarf.TagFormalParameter {
				fname, _ := child.Val(dwarf.AttrName).(string)
				datatype, err := p.typeOf(child)
				// Formals are treated as machine words regardless
				if err != nil {
					log.Debugf("function %s, formal %s: %s", name, fname, err)
					datatype = &BitVector{p.xlen}
				}
				//
				formals = append(formals, Formal{fname, datatype})
			}
			//
			if child.Children {
				reader.SkipChildren()
			}
		}
	}
	// Declarations without a name (e.g. abstract instances) are ignored.
	if name != "" && !table.AddFunction(name, formals...) {
		log.Debugf("ignoring duplicate function %s", name)
	}
	//
	return nil
}

func (p *converter) global(table *Table, entry *dwarf.Entry, order binary.ByteOrder) {
	var (
		name, _     = entry.Val(dwarf.AttrName).(string)
		location, _ = entry.Val(dwarf.AttrLocation).([]byte)
		width       = int(p.xlen / 8)
	)
	// Only variables at a fixed address are globals.
	if name == "" || len(location) != 1+width || location[0] != opAddr {
		return
	}
	//
	datatype, err := p.typeOf(entry)
	if err != nil {
		log.Debugf("ignoring global %s: %s", name, err)
		return
	}
	//
	address := readAddress(location[1:], order)
	//
	if !table.AddGlobal(name, datatype, address) {
		log.Debugf("ignoring duplicate global %s", name)
	}
}

func (p *converter) typeOf(entry *dwarf.Entry) (Type, error) {
	offset, ok := entry.Val(dwarf.AttrType).(dwarf.Offset)
	if !ok {
		return nil, fmt.Errorf("missing type")
	}
	//
	datatype, err := p.data.Type(offset)
	if err != nil {
		return nil, err
	}
	//
	return p.convert(datatype)
}

// Convert a DWARF type into a nominal type.
func (p *converter) convert(datatype dwarf.Type) (Type, error) {
	switch t := datatype.(type) {
	case *dwarf.TypedefType:
		return p.convert(t.Type)
	case *dwarf.QualType:
		return p.convert(t.Type)
	case *dwarf.PtrType:
		var target string
		//
		if t.Type != nil {
			target = t.Type.String()
		}
		//
		return &Pointer{p.xlen, target}, nil
	case *dwarf.ArrayType:
		element, err := p.convert(t.Type)
		if err != nil {
			return nil, err
		}
		//
		return &Array{element, uint(max(0, t.Count))}, nil
	case *dwarf.StructType:
		fields := make([]Field, len(t.Field))
		//
		for i, f := range t.Field {
			datatype, err := p.convert(f.Type)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			//
			fields[i] = Field{f.Name, datatype, uint(max(0, f.ByteOffset))}
		}
		//
		return &Struct{t.StructName, fields, uint(max(0, t.ByteSize))}, nil
	case *dwarf.VoidType, *dwarf.FuncType, *dwarf.UnspecifiedType:
		return nil, fmt.Errorf("unsupported type %s", datatype.String())
	default:
		// Base types, enumerations, etc.
		if datatype.Size() <= 0 {
			return nil, fmt.Errorf("unsized type %s", datatype.String())
		}
		//
		return &BitVector{uint(datatype.Size()) * 8}, nil
	}
}

func readAddress(bytes []byte, order binary.ByteOrder) uint64 {
	switch len(bytes) {
	case 4:
		return uint64(order.Uint32(bytes))
	case 8:
		return order.Uint64(bytes)
	default:
		var address uint64
		// Odd widths are assumed little endian.
		for i := len(bytes) - 1; i >= 0; i-- {
			address = (address << 8) | uint64(bytes[i])
		}
		//
		return address
	}
}

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
	"encoding/json"
	"fmt"
)

// Snapshot format.  Types are encoded as tagged objects, for example:
//
//	{"kind": "bv", "width": 32}
//	{"kind": "ptr", "width": 64, "target": "node"}
//	{"kind": "array", "length": 4, "element": {...}}
//	{"kind": "struct", "name": "s", "size": 8, "fields": [{"name": "a", "offset": 0, "type": {...}}]}
type jsonTable struct {
	Functions []jsonFunction `json:"functions"`
	Globals   []jsonGlobal   `json:"globals"`
}

type jsonFunction struct {
	Name    string       `json:"name"`
	Formals []jsonFormal `json:"formals"`
}

type jsonFormal struct {
	Name string    `json:"name"`
	Type *jsonType `json:"type"`
}

type jsonGlobal struct {
	Name    string    `json:"name"`
	Address uint64    `json:"address"`
	Type    *jsonType `json:"type"`
}

type jsonType struct {
	Kind    string      `json:"kind"`
	Width   uint        `json:"width,omitempty"`
	Target  string      `json:"target,omitempty"`
	Length  uint        `json:"length,omitempty"`
	Element *jsonType   `json:"element,omitempty"`
	Name    string      `json:"name,omitempty"`
	Size    uint        `json:"size,omitempty"`
	Fields  []jsonField `json:"fields,omitempty"`
}

type jsonField struct {
	Name   string    `json:"name"`
	Offset uint      `json:"offset"`
	Type   *jsonType `json:"type"`
}

// ParseJSON reads a catalogue snapshot, as produced by MarshalJSON.
func ParseJSON(bytes []byte) (*Table, error) {
	var (
		raw   jsonTable
		table = NewTable()
	)
	//
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("malformed catalogue: %w", err)
	}
	//
	for _, fn := range raw.Functions {
		var formals []Formal
		//
		for _, f := range fn.Formals {
			datatype, err := decodeType(f.Type)
			if err != nil {
				return nil, fmt.Errorf("function %s, formal %s: %w", fn.Name, f.Name, err)
			}
			//
			formals = append(formals, Formal{f.Name, datatype})
		}
		//
		if !table.AddFunction(fn.Name, formals...) {
			return nil, fmt.Errorf("duplicate function %s", fn.Name)
		}
	}
	//
	for _, g := range raw.Globals {
		datatype, err := decodeType(g.Type)
		if err != nil {
			return nil, fmt.Errorf("global %s: %w", g.Name, err)
		}
		//
		if !table.AddGlobal(g.Name, datatype, g.Address) {
			return nil, fmt.Errorf("duplicate global %s", g.Name)
		}
	}
	//
	return table, nil
}

// MarshalJSON writes this table as a snapshot.  Entries are sorted by name,
// hence the output is deterministic.
func (p *Table) MarshalJSON() ([]byte, error) {
	var raw = jsonTable{[]jsonFunction{}, []jsonGlobal{}}
	//
	for _, sig := range p.Functions() {
		formals := make([]jsonFormal, len(sig.Formals))
		//
		for i, f := range sig.Formals {
			formals[i] = jsonFormal{f.Name, encodeType(f.Type)}
		}
		//
		raw.Functions = append(raw.Functions, jsonFunction{sig.Name, formals})
	}
	//
	for _, g := range p.Globals() {
		raw.Globals = append(raw.Globals, jsonGlobal{g.Name, g.Address, encodeType(g.Type)})
	}
	//
	return json.Marshal(raw)
}

func encodeType(datatype Type) *jsonType {
	switch t := datatype.(type) {
	case *BitVector:
		return &jsonType{Kind: "bv", Width: t.Width}
	case *Pointer:
		return &jsonType{Kind: "ptr", Width: t.Width, Target: t.Target}
	case *Array:
		return &jsonType{Kind: "array", Length: t.Length, Element: encodeType(t.Element)}
	case *Struct:
		fields := make([]jsonField, len(t.Fields))
		//
		for i, f := range t.Fields {
			fields[i] = jsonField{f.Name, f.Offset, encodeType(f.Type)}
		}
		//
		return &jsonType{Kind: "struct", Name: t.Name, Size: t.Size, Fields: fields}
	default:
		panic("unreachable")
	}
}

func decodeType(raw *jsonType) (Type, error) {
	if raw == nil {
		return nil, fmt.Errorf("missing type")
	}
	//
	switch raw.Kind {
	case "bv":
		if raw.Width == 0 {
			return nil, fmt.Errorf("bit-vector requires non-zero width")
		}
		//
		return &BitVector{raw.Width}, nil
	case "ptr":
		if raw.Width == 0 {
			return nil, fmt.Errorf("pointer requires non-zero width")
		}
		//
		return &Pointer{raw.Width, raw.Target}, nil
	case "array":
		element, err := decodeType(raw.Element)
		if err != nil {
			return nil, fmt.Errorf("array element: %w", err)
		}
		//
		return &Array{element, raw.Length}, nil
	case "struct":
		var fields []Field
		//
		for _, f := range raw.Fields {
			datatype, err := decodeType(f.Type)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			//
			fields = append(fields, Field{f.Name, datatype, f.Offset})
		}
		//
		return &Struct{raw.Name, fields, raw.Size}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", raw.Kind)
	}
}

// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bravia

import "fmt"

// CodeEntry binds a command name to its IRCC code
type CodeEntry struct {
	Name string
	Code ControlCode
}

// irccCodes is the command set exposed to clients, in listing order
var irccCodes = []CodeEntry{
	{"Power", PowerButton},
	{"PowerOff", PowerOff},
	{"PowerOn", PowerOn},

	{"Num1", Num1},
	{"Num2", Num2},
	{"Num3", Num3},
	{"Num4", Num4},
	{"Num5", Num5},
	{"Num6", Num6},
	{"Num7", Num7},
	{"Num8", Num8},
	{"Num9", Num9},
	{"Num0", Num0},

	{"Up", Up},
	{"Down", Down},
	{"Left", Left},
	{"Right", Right},
	{"Confirm", Confirm},
	{"Return", Return},
	{"Home", Home},

	{"VolumeUp", VolumeUp},
	{"VolumeDown", VolumeDown},
	{"Mute", Mute},

	{"ChannelUp", ChannelUp},
	{"ChannelDown", ChannelDown},

	{"Play", Play},
	{"Pause", Pause},
	{"Stop", Stop},

	{"Input", Input},
	{"Guide", Guide},
	{"Options", Options},
	{"Display", Display},

	{"Netflix", Netflix},
	{"ActionMenu", ActionMenu},
}

var defaultTable = mustCodeTable(irccCodes)

// CodeTable is a read-only mapping from command names to IRCC codes.
// It is safe for concurrent use.
type CodeTable struct {
	codes map[string]ControlCode
	order []string
}

// NewCodeTable builds a table from entries. Names must be unique and
// neither names nor codes may be empty.
func NewCodeTable(entries []CodeEntry) (*CodeTable, error) {
	t := &CodeTable{
		codes: make(map[string]ControlCode, len(entries)),
		order: make([]string, 0, len(entries)),
	}

	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("entry[%d]: command name is required", i)
		}
		if e.Code == "" {
			return nil, fmt.Errorf("entry[%d]: code is required for %s", i, e.Name)
		}
		if _, dup := t.codes[e.Name]; dup {
			return nil, fmt.Errorf("duplicate command name: %s", e.Name)
		}
		t.codes[e.Name] = e.Code
		t.order = append(t.order, e.Name)
	}

	return t, nil
}

func mustCodeTable(entries []CodeEntry) *CodeTable {
	t, err := NewCodeTable(entries)
	if err != nil {
		panic(fmt.Sprintf("bravia: invalid built-in code table: %v", err))
	}
	return t
}

// DefaultCodeTable returns the built-in Sony Bravia command set
func DefaultCodeTable() *CodeTable {
	return defaultTable
}

// Lookup resolves a command name. ok is false for unknown names.
func (t *CodeTable) Lookup(name string) (code ControlCode, ok bool) {
	code, ok = t.codes[name]
	return code, ok
}

// Commands returns the command names in table order. The caller owns the slice.
func (t *CodeTable) Commands() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of commands
func (t *CodeTable) Len() int {
	return len(t.order)
}

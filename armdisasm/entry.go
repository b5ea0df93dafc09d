// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package armdisasm decodes ARM and THUMB opcodes into listing text, and
// keeps a cache of the most recent entry seen at each address so that a
// debugger-style view can layer execution annotations (cycle count, a
// short note) onto a decode that happened earlier.
package armdisasm

import (
	"fmt"

	"github.com/nsiow/armtdmi/cpu"
)

// Entry is one line of a disassembly listing. The decode-time fields
// (Mnemonic, Operand, Size) are filled by DecodeARM or DecodeTHUMB; the execution-time
// fields (Cycles, Note) stay at their zero value until Annotate is
// called against them, mirroring how a live debugger fills in timing
// only once an instruction has actually run.
type Entry struct {
	Addr     uint32
	Mnemonic string
	Operand  string

	// Size is the instruction width in bytes: 4 for ARM, 2 for THUMB.
	Size int

	// Cycles and Note are unset (zero, empty) until Annotate records an
	// execution of this entry.
	Cycles int
	Note   string
}

// Key identifies an Entry by its address, the lookup key used by Cache.
func (e Entry) Key() uint32 {
	return e.Addr
}

// String renders the entry the way a listing would: address, mnemonic,
// operand, and, once annotated with a non-empty note, that note and the
// cycle count. An entry annotated with an empty note shows no cycle count.
func (e Entry) String() string {
	s := fmt.Sprintf("%08x: %-8s%s", e.Addr, e.Mnemonic, e.Operand)
	if e.Note != "" {
		s += fmt.Sprintf("  ; %s (%d cycles)", e.Note, e.Cycles)
	}
	return s
}

// Cache is a map from instruction address to the most recent Entry
// decoded or executed there. A debugger front-end re-decodes on demand
// and looks here first so that an address that has actually run keeps
// its execution annotations across re-renders of the listing.
type Cache struct {
	entries map[uint32]Entry
}

// NewCache constructs an empty disassembly cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uint32]Entry)}
}

// Lookup returns the cached entry for addr, if any.
func (c *Cache) Lookup(addr uint32) (Entry, bool) {
	e, ok := c.entries[addr]
	return e, ok
}

// Store records e under its own address.
func (c *Cache) Store(e Entry) {
	c.entries[e.Addr] = e
}

// Annotate records that the entry at addr executed in the given number
// of cycles, with an optional short note (e.g. "branch taken"). It is a
// no-op if nothing has been decoded at addr yet.
func (c *Cache) Annotate(addr uint32, cycles cpu.Cycles, note string) {
	e, ok := c.entries[addr]
	if !ok {
		return
	}
	e.Cycles = int(cycles)
	e.Note = note
	c.entries[addr] = e
}

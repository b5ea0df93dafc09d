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

package armdisasm

import "github.com/nsiow/armtdmi/cpu"

// Disassemble decodes every instruction in data, starting at origin, and
// returns the entries in address order. It assumes data holds nothing
// but instructions of the given set: unlike the live cache used during
// execution, a static listing has no branch information to tell code
// from embedded data apart.
func Disassemble(cache *Cache, data []byte, origin uint32, set cpu.InstructionSet) []Entry {
	var entries []Entry

	if set == cpu.THUMB {
		for i := 0; i+1 < len(data); i += 2 {
			addr := origin + uint32(i)
			opcode := uint16(data[i]) | uint16(data[i+1])<<8
			e := DecodeTHUMB(addr, opcode)
			cache.Store(e)
			entries = append(entries, e)
		}
		return entries
	}

	for i := 0; i+3 < len(data); i += 4 {
		addr := origin + uint32(i)
		opcode := uint32(data[i]) | uint32(data[i+1])<<8 | uint32(data[i+2])<<16 | uint32(data[i+3])<<24
		e := DecodeARM(addr, opcode)
		cache.Store(e)
		entries = append(entries, e)
	}
	return entries
}

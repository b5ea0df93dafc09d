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

package cpu

// Cycles is a monotonically accumulating count of CPU cycles. It is kept
// distinct from Waitstates so that the two can't be added together by
// accident; the only legal combination is Waitstates.AsCycles() plus a
// Cycles value.
type Cycles uint64

// Waitstates is the extra cycle cost a memory access contributes, as
// reported by the Bus on every load/store.
type Waitstates uint32

// AsCycles converts a Waitstates count into the Cycles it contributes.
func (w Waitstates) AsCycles() Cycles {
	return Cycles(w)
}

// Bus is the memory contract the CPU issues every load and store
// through. Implementations own alignment and mapping; the CPU guarantees
// only the access size and the address it wants to reach. The cpu
// back-reference lets memory-mapped I/O observe CPU state (e.g. the
// current mode, for access protection); most implementations ignore it.
type Bus interface {
	Load8(addr uint32, cpu *CPU) (uint8, Waitstates)
	Load16(addr uint32, cpu *CPU) (uint16, Waitstates)
	Load32(addr uint32, cpu *CPU) (uint32, Waitstates)
	Store8(addr uint32, val uint8, cpu *CPU) Waitstates
	Store16(addr uint32, val uint16, cpu *CPU) Waitstates
	Store32(addr uint32, val uint32, cpu *CPU) Waitstates
}

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

package harness

import (
	"github.com/nsiow/armtdmi/cpu"
	"github.com/nsiow/armtdmi/curated"
	"github.com/nsiow/armtdmi/logger"
)

// The four region base addresses and sizes, as laid out on real GBA
// hardware. The harness implements only these; I/O registers, DMA and
// timers are out of scope.
const (
	BIOSBase  = 0x00000000
	BIOSSize  = 16 * 1024
	WRAMBase  = 0x02000000
	WRAMSize  = 256 * 1024
	IWRAMBase = 0x03000000
	IWRAMSize = 32 * 1024
	ROMBase   = 0x08000000
)

// Memory is a flat, four-region Bus implementation: BIOS and cartridge
// ROM are read-only, IWRAM and WRAM are read-write. Unmapped addresses
// return open-bus zero rather than faulting, since a guest's wild
// pointer must never crash the host.
type Memory struct {
	bios  []byte
	wram  []byte
	iwram []byte
	rom   []byte

	timing TimingProfile
}

// NewMemory constructs a harness Memory from a BIOS image and a
// cartridge ROM image. Both are copied in; bios must fit within
// BIOSSize. wram and iwram are always zeroed and sized to the hardware
// maximum.
func NewMemory(bios, rom []byte, timing TimingProfile) (*Memory, error) {
	if len(bios) > BIOSSize {
		return nil, curated.Errorf("harness: BIOS image (%d bytes) exceeds %d byte limit", len(bios), BIOSSize)
	}

	m := &Memory{
		bios:   make([]byte, BIOSSize),
		wram:   make([]byte, WRAMSize),
		iwram:  make([]byte, IWRAMSize),
		rom:    append([]byte(nil), rom...),
		timing: timing,
	}
	copy(m.bios, bios)
	return m, nil
}

// region identifies which backing slice an address falls in, along with
// the waitstate cost and the byte offset within that slice. ok is false
// for unmapped addresses.
func (m *Memory) region(addr uint32) (data []byte, offset int, ws cpu.Waitstates, writable bool, ok bool) {
	switch {
	case addr < BIOSSize:
		return m.bios, int(addr), m.timing.BIOS, false, true

	case addr >= WRAMBase && addr < WRAMBase+WRAMSize:
		return m.wram, int(addr - WRAMBase), m.timing.WRAM, true, true

	case addr >= IWRAMBase && addr < IWRAMBase+IWRAMSize:
		return m.iwram, int(addr - IWRAMBase), m.timing.IWRAM, true, true

	case addr >= ROMBase && len(m.rom) > 0:
		return m.rom, int((addr - ROMBase) % uint32(len(m.rom))), m.timing.ROM, false, true

	default:
		return nil, 0, 0, false, false
	}
}

// Load8 implements cpu.Bus.
func (m *Memory) Load8(addr uint32, _ *cpu.CPU) (uint8, cpu.Waitstates) {
	data, off, ws, _, ok := m.region(addr)
	if !ok {
		logger.Logf("harness: open bus", "load8 from unmapped address 0x%08x", addr)
		return 0, 1
	}
	return data[off], ws
}

// Load16 implements cpu.Bus by composing two little-endian byte reads.
// The address is rounded down to halfword alignment first: like real
// hardware, the bus only ever carries an aligned address, leaving the
// CPU to apply its own misaligned-access rules to the result.
func (m *Memory) Load16(addr uint32, c *cpu.CPU) (uint16, cpu.Waitstates) {
	addr &^= 1
	lo, ws0 := m.Load8(addr, c)
	hi, ws1 := m.Load8(addr+1, c)
	return uint16(lo) | uint16(hi)<<8, ws0 + ws1
}

// Load32 implements cpu.Bus by composing four little-endian byte reads.
// The address is rounded down to word alignment first, for the same
// reason as Load16.
func (m *Memory) Load32(addr uint32, c *cpu.CPU) (uint32, cpu.Waitstates) {
	addr &^= 3
	b0, ws0 := m.Load8(addr, c)
	b1, ws1 := m.Load8(addr+1, c)
	b2, ws2 := m.Load8(addr+2, c)
	b3, ws3 := m.Load8(addr+3, c)
	v := uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24
	return v, ws0 + ws1 + ws2 + ws3
}

// Store8 implements cpu.Bus. Writes to read-only regions and unmapped
// addresses are logged and discarded.
func (m *Memory) Store8(addr uint32, val uint8, _ *cpu.CPU) cpu.Waitstates {
	data, off, ws, writable, ok := m.region(addr)
	if !ok {
		logger.Logf("harness: open bus", "store8 to unmapped address 0x%08x", addr)
		return 1
	}
	if !writable {
		logger.Logf("harness", "store8 to read-only address 0x%08x ignored", addr)
		return ws
	}
	data[off] = val
	return ws
}

// Store16 implements cpu.Bus by composing two little-endian byte
// writes, to the halfword-aligned address containing addr.
func (m *Memory) Store16(addr uint32, val uint16, c *cpu.CPU) cpu.Waitstates {
	addr &^= 1
	ws0 := m.Store8(addr, uint8(val), c)
	ws1 := m.Store8(addr+1, uint8(val>>8), c)
	return ws0 + ws1
}

// Store32 implements cpu.Bus by composing four little-endian byte
// writes, to the word-aligned address containing addr.
func (m *Memory) Store32(addr uint32, val uint32, c *cpu.CPU) cpu.Waitstates {
	addr &^= 3
	ws0 := m.Store8(addr, uint8(val), c)
	ws1 := m.Store8(addr+1, uint8(val>>8), c)
	ws2 := m.Store8(addr+2, uint8(val>>16), c)
	ws3 := m.Store8(addr+3, uint8(val>>24), c)
	return ws0 + ws1 + ws2 + ws3
}

// LoadROM replaces the cartridge ROM image.
func (m *Memory) LoadROM(rom []byte) {
	m.rom = append([]byte(nil), rom...)
}

// WriteBytes pokes data directly into whatever region addr falls in,
// bypassing the read-only restriction on BIOS/ROM. It exists for test
// and CLI setup, not for guest code to call.
func (m *Memory) WriteBytes(addr uint32, data []byte) {
	for i, b := range data {
		d, off, _, _, ok := m.region(addr + uint32(i))
		if !ok {
			continue
		}
		d[off] = b
	}
}

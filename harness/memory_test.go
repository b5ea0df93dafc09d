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

package harness_test

import (
	"testing"

	"github.com/nsiow/armtdmi/cpu"
	"github.com/nsiow/armtdmi/harness"
	"github.com/nsiow/armtdmi/test"
)

func TestNewMemoryRejectsOversizedBIOS(t *testing.T) {
	_, err := harness.NewMemory(make([]byte, harness.BIOSSize+1), nil, harness.DefaultTimingProfile)
	test.ExpectFailure(t, err)
}

func TestNewMemoryCopiesBIOSRatherThanAliasingIt(t *testing.T) {
	bios := []byte{0xaa, 0xbb, 0xcc, 0xdd}
	m, err := harness.NewMemory(bios, nil, harness.DefaultTimingProfile)
	test.ExpectSuccess(t, err)

	bios[0] = 0xff
	got, _ := m.Load8(0, nil)
	test.ExpectEquality(t, got, uint8(0xaa))
}

// TestLoad32RoundsDownToWordAlignment pins down the bus-level masking
// that cpu's misaligned-load rotation depends on: a Load32 two bytes off
// alignment must return the same word as a Load32 at the alignment
// boundary it falls within, not the four bytes starting at the
// unaligned address.
func TestLoad32RoundsDownToWordAlignment(t *testing.T) {
	m, _ := harness.NewMemory(nil, nil, harness.DefaultTimingProfile)
	m.WriteBytes(harness.IWRAMBase, []byte{0xef, 0xbe, 0xad, 0xde})

	aligned, _ := m.Load32(harness.IWRAMBase, nil)
	misaligned, _ := m.Load32(harness.IWRAMBase+2, nil)
	test.ExpectEquality(t, aligned, misaligned)
	test.ExpectEquality(t, aligned, uint32(0xdeadbeef))
}

func TestLoad16RoundsDownToHalfwordAlignment(t *testing.T) {
	m, _ := harness.NewMemory(nil, nil, harness.DefaultTimingProfile)
	m.WriteBytes(harness.IWRAMBase, []byte{0x11, 0x22})

	aligned, _ := m.Load16(harness.IWRAMBase, nil)
	misaligned, _ := m.Load16(harness.IWRAMBase+1, nil)
	test.ExpectEquality(t, aligned, misaligned)
	test.ExpectEquality(t, aligned, uint16(0x2211))
}

func TestStore32RoundsDownToWordAlignment(t *testing.T) {
	m, _ := harness.NewMemory(nil, nil, harness.DefaultTimingProfile)
	m.Store32(harness.IWRAMBase+1, 0x01020304, nil)

	got, _ := m.Load32(harness.IWRAMBase, nil)
	test.ExpectEquality(t, got, uint32(0x01020304))
}

func TestUnmappedLoadReturnsOpenBusZero(t *testing.T) {
	m, _ := harness.NewMemory(nil, nil, harness.DefaultTimingProfile)
	got, ws := m.Load8(0x05000000, nil)
	test.ExpectEquality(t, got, uint8(0))
	test.ExpectEquality(t, ws, cpu.Waitstates(1))
}

func TestStoreToROMIsDiscarded(t *testing.T) {
	m, _ := harness.NewMemory(nil, []byte{0x01, 0x02, 0x03, 0x04}, harness.DefaultTimingProfile)
	m.Store8(harness.ROMBase, 0xff, nil)
	got, _ := m.Load8(harness.ROMBase, nil)
	test.ExpectEquality(t, got, uint8(0x01))
}

func TestROMMirrorsWhenShorterThanTheAddressSpace(t *testing.T) {
	m, _ := harness.NewMemory(nil, []byte{0xde, 0xad, 0xbe, 0xef}, harness.DefaultTimingProfile)
	a, _ := m.Load32(harness.ROMBase, nil)
	b, _ := m.Load32(harness.ROMBase+4, nil)
	test.ExpectEquality(t, a, b)
}

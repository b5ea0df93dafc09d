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

package armdisasm_test

import (
	"testing"

	"github.com/nsiow/armtdmi/armdisasm"
	"github.com/nsiow/armtdmi/cpu"
	"github.com/nsiow/armtdmi/test"
)

func decodeARM(opcode uint32) (string, string) {
	e := armdisasm.DecodeARM(0, opcode)
	return e.Mnemonic, e.Operand
}

func TestDecodeARMDataProcessingImmediate(t *testing.T) {
	cases := []struct {
		opcode           uint32
		mnemonic, operand string
	}{
		{0xE3A00102, "mov", "r0,#0x80000000"},
		{0xE1B00080, "movs", "r0,r0,lsl #1"},
		{0xE3E01000, "mvn", "r1,#0x0"},
		{0xE3A02001, "mov", "r2,#0x1"},
		{0xE0B10002, "adcs", "r0,r1,r2"},
		{0xE3A01003, "mov", "r1,#0x3"},
		{0xE3A02005, "mov", "r2,#0x5"},
		{0xE0510002, "subs", "r0,r1,r2"},
	}
	for _, c := range cases {
		mnem, op := decodeARM(c.opcode)
		test.ExpectEquality(t, mnem, c.mnemonic)
		test.ExpectEquality(t, op, c.operand)
	}
}

func TestDecodeARMSingleDataTransfer(t *testing.T) {
	mnem, op := decodeARM(0xE5910000)
	test.ExpectEquality(t, mnem, "ldr")
	test.ExpectEquality(t, op, "r0,[r1,+#0]")
}

func TestDecodeARMBlockDataTransferWithWriteback(t *testing.T) {
	mnem, op := decodeARM(0xE8B0001E)
	test.ExpectEquality(t, mnem, "ldmia")
	test.ExpectEquality(t, op, "r0!,{r1,r2,r3,r4}")
}

func TestDecodeARMSoftwareInterrupt(t *testing.T) {
	mnem, op := decodeARM(0xEF000000)
	test.ExpectEquality(t, mnem, "swi")
	test.ExpectEquality(t, op, "#0x000000")
}

func TestDecodeARMExceptionReturnIdiom(t *testing.T) {
	mnem, op := decodeARM(0xE1B0F00E)
	test.ExpectEquality(t, mnem, "movs")
	test.ExpectEquality(t, op, "pc,lr")
}

func TestDecodeARMBranchComputesAbsoluteTarget(t *testing.T) {
	// b #0x14, encoded 2 instructions ahead of addr 0x08000000.
	e := armdisasm.DecodeARM(0x08000000, 0xEA000003)
	test.ExpectEquality(t, e.Mnemonic, "b")
	test.ExpectEquality(t, e.Operand, "0x08000014")
}

func TestDecodeARMUnrecognisedEncodingFallsBackToRawWord(t *testing.T) {
	// A coprocessor-space encoding (bits27:26=11, bits25:24 not both set):
	// none of the recognised classes claim it, so it must render as a
	// raw word rather than panicking or guessing.
	e := armdisasm.DecodeARM(0, 0xEC000000)
	test.ExpectEquality(t, e.Mnemonic, "dcd")
}

func TestDecodeTHUMBLongBranchLinkPair(t *testing.T) {
	hi := armdisasm.DecodeTHUMB(0x08000000, 0xf000)
	test.ExpectEquality(t, hi.Mnemonic, "bl")
	test.ExpectEquality(t, hi.Operand, "hi,#0x0")

	lo := armdisasm.DecodeTHUMB(0x08000002, 0xf87e)
	test.ExpectEquality(t, lo.Mnemonic, "bl")
	test.ExpectEquality(t, lo.Operand, "lo,#0xfc")
}

func TestCacheStoreAndLookup(t *testing.T) {
	c := armdisasm.NewCache()
	if _, ok := c.Lookup(0x100); ok {
		t.Fatalf("expected empty cache to miss")
	}
	e := armdisasm.Entry{Addr: 0x100, Mnemonic: "mov", Operand: "r0,#0x1", Size: 4}
	c.Store(e)
	got, ok := c.Lookup(0x100)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, got.Mnemonic, "mov")
}

func TestCacheAnnotateAttachesExecutionNotes(t *testing.T) {
	c := armdisasm.NewCache()
	c.Store(armdisasm.Entry{Addr: 0x100, Mnemonic: "mov", Size: 4})
	c.Annotate(0x100, cpu.Cycles(3), "branch taken")
	got, _ := c.Lookup(0x100)
	test.ExpectEquality(t, got.Cycles, 3)
	test.ExpectEquality(t, got.Note, "branch taken")
}

func TestDisassembleARMStream(t *testing.T) {
	data := []byte{
		0x02, 0x01, 0xA0, 0xE3, // mov r0, #0x80000000
		0x00, 0x00, 0x51, 0xE0, // (garbage continuation, just needs to decode without panicking)
	}
	entries := armdisasm.Disassemble(armdisasm.NewCache(), data, 0x08000000, cpu.ARM)
	test.ExpectEquality(t, len(entries), 2)
	test.ExpectEquality(t, entries[0].Addr, uint32(0x08000000))
	test.ExpectEquality(t, entries[0].Mnemonic, "mov")
	test.ExpectEquality(t, entries[1].Addr, uint32(0x08000004))
}

func TestDisassembleTHUMBStream(t *testing.T) {
	data := []byte{0x00, 0xf0, 0x7e, 0xf8}
	entries := armdisasm.Disassemble(armdisasm.NewCache(), data, 0x08000000, cpu.THUMB)
	test.ExpectEquality(t, len(entries), 2)
	test.ExpectEquality(t, entries[0].Size, 2)
	test.ExpectEquality(t, entries[1].Addr, uint32(0x08000002))
}

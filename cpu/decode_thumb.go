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

// thumbHandler executes one fully-decoded THUMB instruction.
type thumbHandler func(cpu *CPU, bus Bus, opcode uint16) Cycles

// thumbTable is the 256-entry dispatch table indexed by opcode[15:8],
// built once at package initialisation by classifying every possible
// high byte against the nineteen THUMB instruction formats.
var thumbTable [256]thumbHandler

func init() {
	for hi8 := 0; hi8 < 256; hi8++ {
		thumbTable[hi8] = classifyTHUMB(uint32(hi8))
	}
}

// classifyTHUMB assigns a handler to an opcode's high byte, following
// the nineteen-format layout of the THUMB instruction set summary.
func classifyTHUMB(hi8 uint32) thumbHandler {
	switch {
	case hi8>>5 == 0b000 && (hi8>>3)&0x3 != 0b11:
		// bits[15:13]=000, bits[12:11] != 11: move shifted register.
		return thumbExecMoveShifted

	case hi8>>5 == 0b000 && (hi8>>3)&0x3 == 0b11:
		// bits[15:13]=000, bits[12:11]=11: add/subtract.
		return thumbExecAddSubtract

	case hi8>>5 == 0b001:
		return thumbExecImmediate

	case hi8 == 0b01000000, hi8 == 0b01000001, hi8 == 0b01000010, hi8 == 0b01000011:
		return thumbExecALU

	case hi8 == 0b01000100, hi8 == 0b01000101, hi8 == 0b01000110, hi8 == 0b01000111:
		return thumbExecHiRegister

	case hi8>>3 == 0b01001:
		return thumbExecPCRelativeLoad

	case hi8>>4 == 0b0101 && !testBit(hi8, 1):
		return thumbExecLoadStoreRegisterOffset

	case hi8>>4 == 0b0101 && testBit(hi8, 1):
		return thumbExecLoadStoreSignExtended

	case hi8>>5 == 0b011:
		return thumbExecLoadStoreImmediate

	case hi8>>4 == 0b1000:
		return thumbExecLoadStoreHalfword

	case hi8>>4 == 0b1001:
		return thumbExecSPRelative

	case hi8>>4 == 0b1010:
		return thumbExecLoadAddress

	case hi8 == 0b10110000:
		return thumbExecAddOffsetToSP

	case hi8 == 0b10110100, hi8 == 0b10110101, hi8 == 0b10111100, hi8 == 0b10111101:
		return thumbExecPushPop

	case hi8>>4 == 0b1100:
		return thumbExecMultipleTransfer

	case hi8>>4 == 0b1101 && (hi8&0xf) != 0xf:
		return thumbExecConditionalBranch

	case hi8 == 0b11011111:
		return thumbExecSWI

	case hi8>>3 == 0b11100:
		return thumbExecUnconditionalBranch

	case hi8>>4 == 0b1111:
		return thumbExecLongBranchLink

	default:
		return thumbExecUndefined
	}
}

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

import "testing"

func TestShiftImmediateBoundaries(t *testing.T) {
	// LSR #0 encodes LSR #32.
	result, carry := shiftImmediate(ShiftLSR, 0x80000000, 0, false)
	if result != 0 || !carry {
		t.Fatalf("LSR #0/#32: got %x/%v, want 0/true", result, carry)
	}

	// ASR #0 encodes ASR #32, sign-filling.
	result, carry = shiftImmediate(ShiftASR, 0x80000000, 0, false)
	if result != 0xffffffff || !carry {
		t.Fatalf("ASR #0/#32: got %x/%v, want ffffffff/true", result, carry)
	}

	// ROR #0 encodes RRX.
	result, carry = shiftImmediate(ShiftROR, 0x1, 0, true)
	if result != 0x80000000 || !carry {
		t.Fatalf("ROR #0 (RRX): got %x/%v, want 80000000/true", result, carry)
	}

	// LSL #0 is a pure no-op that preserves the incoming carry.
	result, carry = shiftImmediate(ShiftLSL, 0x12345678, 0, true)
	if result != 0x12345678 || !carry {
		t.Fatalf("LSL #0: got %x/%v, want 12345678/true", result, carry)
	}
}

func TestShiftByRegisterBoundaries(t *testing.T) {
	// count == 0 is always a no-op regardless of shift type.
	result, carry := shiftByRegister(ShiftLSL, 0xff, 0, true)
	if result != 0xff || !carry {
		t.Fatalf("LSL by 0: got %x/%v, want ff/true", result, carry)
	}

	// count == 32 for LSL clears the value but sets carry from bit 0.
	result, carry = shiftByRegister(ShiftLSL, 0x1, 32, false)
	if result != 0 || !carry {
		t.Fatalf("LSL by 32: got %x/%v, want 0/true", result, carry)
	}

	// count > 32 clears both value and carry.
	result, carry = shiftByRegister(ShiftLSL, 0xffffffff, 33, true)
	if result != 0 || carry {
		t.Fatalf("LSL by 33: got %x/%v, want 0/false", result, carry)
	}

	// ROR by a non-zero multiple of 32 leaves the value unchanged.
	result, carry = shiftByRegister(ShiftROR, 0xabcd1234, 64, false)
	if result != 0xabcd1234 || carry != testBit(0xabcd1234, 31) {
		t.Fatalf("ROR by 64: got %x/%v, want abcd1234/%v", result, carry, testBit(0xabcd1234, 31))
	}
}

func TestRotateImmediate(t *testing.T) {
	result, carry := rotateImmediate(0xff, 0, true)
	if result != 0xff || !carry {
		t.Fatalf("rotateImmediate rot=0: got %x/%v, want ff/true", result, carry)
	}

	result, carry = rotateImmediate(0x1, 1, false)
	if result != 0x40000000 || carry {
		t.Fatalf("rotateImmediate rot=1: got %x/%v, want 40000000/false", result, carry)
	}
}

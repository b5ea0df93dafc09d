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

// ShiftType names the four barrel-shifter operations available to the
// ARM operand-2 field.
type ShiftType int

// The four shift operations encoded in bits [6:5] of a data-processing
// register-shifted operand.
const (
	ShiftLSL ShiftType = iota
	ShiftLSR
	ShiftASR
	ShiftROR
)

// shiftImmediate applies shiftType to value by the encoded immediate
// amount (0..31), using the boundary rules of §4.C: LSR/ASR #0 encode
// #32; ROR #0 encodes RRX. carryIn is the current CPSR carry, consulted
// by RRX and by the "shift amount zero" no-op cases.
func shiftImmediate(shiftType ShiftType, value uint32, imm uint32, carryIn bool) (result uint32, carryOut bool) {
	switch shiftType {
	case ShiftLSL:
		if imm == 0 {
			return value, carryIn
		}
		return lsl(value, imm), testBit(value, uint(32-imm))

	case ShiftLSR:
		if imm == 0 {
			// LSR #0 is encoded as LSR #32
			return 0, testBit(value, 31)
		}
		return lsr(value, imm), testBit(value, uint(imm-1))

	case ShiftASR:
		if imm == 0 {
			// ASR #0 is encoded as ASR #32
			return asr(value, 32), testBit(value, 31)
		}
		return asr(value, imm), testBit(value, uint(imm-1))

	case ShiftROR:
		if imm == 0 {
			return rrx(value, carryIn)
		}
		return ror(value, imm), testBit(value, uint(imm-1))
	}
	return value, carryIn
}

// shiftByRegister applies shiftType to value by a shift amount held in a
// register (bits [7:0] of Rs, per the architecture), using the boundary
// rules of §4.C for 0, 32 and >32 shift counts.
func shiftByRegister(shiftType ShiftType, value uint32, count uint32, carryIn bool) (result uint32, carryOut bool) {
	switch shiftType {
	case ShiftLSL:
		switch {
		case count == 0:
			return value, carryIn
		case count < 32:
			return lsl(value, count), testBit(value, uint(32-count))
		case count == 32:
			return 0, testBit(value, 0)
		default:
			return 0, false
		}

	case ShiftLSR:
		switch {
		case count == 0:
			return value, carryIn
		case count < 32:
			return lsr(value, count), testBit(value, uint(count-1))
		case count == 32:
			return 0, testBit(value, 31)
		default:
			return 0, false
		}

	case ShiftASR:
		switch {
		case count == 0:
			return value, carryIn
		case count < 32:
			return asr(value, count), testBit(value, uint(count-1))
		default:
			return asr(value, 32), testBit(value, 31)
		}

	case ShiftROR:
		if count == 0 {
			return value, carryIn
		}
		reduced := count & 31
		if reduced == 0 {
			// a non-zero multiple of 32: value unchanged, carry from bit 31
			return value, testBit(value, 31)
		}
		return ror(value, reduced), testBit(value, uint(reduced-1))
	}
	return value, carryIn
}

// rotateImmediate decodes the 12-bit data-processing immediate operand:
// an 8-bit value rotated right by 2*rot4. The shifter carry is the
// result's bit 31 when a rotation actually occurred, else the incoming
// carry is preserved.
func rotateImmediate(imm8 uint32, rot4 uint32, carryIn bool) (result uint32, carryOut bool) {
	if rot4 == 0 {
		return imm8, carryIn
	}
	result = ror(imm8, rot4*2)
	return result, testBit(result, 31)
}

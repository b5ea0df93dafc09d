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

// popcount8 counts the set bits among the low 8 bits of v, the register
// list width every THUMB multiple-transfer format uses.
func popcount8(v uint32) int {
	n := 0
	for i := 0; i < 8; i++ {
		if testBit(v, uint(i)) {
			n++
		}
	}
	return n
}

// thumbExecMoveShifted implements format 1: LSL/LSR/ASR Rd,Rs,#offset5.
func thumbExecMoveShifted(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	op := opcode >> 11 & 0x3
	offs5 := uint32(opcode>>6) & 0x1f
	rs := uint32(opcode>>3) & 0x7
	rd := uint32(opcode) & 0x7

	val := r.Read(int(rs))
	carryIn := r.GetFlag(FlagC)
	var result uint32
	var carry bool
	switch op {
	case 0:
		result, carry = shiftImmediate(ShiftLSL, val, offs5, carryIn)
	case 1:
		result, carry = shiftImmediate(ShiftLSR, val, offs5, carryIn)
	default:
		result, carry = shiftImmediate(ShiftASR, val, offs5, carryIn)
	}
	r.Write(int(rd), result)
	applyLogicalFlags(r, result, carry)
	return 0
}

// thumbExecAddSubtract implements format 2: ADD/SUB Rd,Rs,Rn|#imm3.
func thumbExecAddSubtract(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	immForm := testBit(uint32(opcode), 10)
	isSub := testBit(uint32(opcode), 9)
	field := uint32(opcode>>6) & 0x7
	rs := uint32(opcode>>3) & 0x7
	rd := uint32(opcode) & 0x7

	var operand uint32
	if immForm {
		operand = field
	} else {
		operand = r.Read(int(field))
	}

	var res aluResult
	if isSub {
		res = aluSUB(r.Read(int(rs)), operand)
	} else {
		res = aluADD(r.Read(int(rs)), operand)
	}
	r.Write(int(rd), res.value)
	applyArithmeticFlags(r, res)
	return 0
}

// thumbExecImmediate implements format 3: MOV/CMP/ADD/SUB Rd,#imm8.
func thumbExecImmediate(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	op := opcode >> 11 & 0x3
	rd := uint32(opcode>>8) & 0x7
	imm := uint32(opcode) & 0xff
	rdVal := r.Read(int(rd))

	switch op {
	case 0: // MOV
		r.Write(int(rd), imm)
		applyLogicalFlags(r, imm, r.GetFlag(FlagC))
	case 1: // CMP
		applyArithmeticFlags(r, aluSUB(rdVal, imm))
	case 2: // ADD
		res := aluADD(rdVal, imm)
		r.Write(int(rd), res.value)
		applyArithmeticFlags(r, res)
	case 3: // SUB
		res := aluSUB(rdVal, imm)
		r.Write(int(rd), res.value)
		applyArithmeticFlags(r, res)
	}
	return 0
}

// thumbExecALU implements format 4: the sixteen two-operand ALU
// operations over low registers.
func thumbExecALU(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	op := uint32(opcode>>6) & 0xf
	rs := uint32(opcode>>3) & 0x7
	rd := uint32(opcode) & 0x7
	rdVal := r.Read(int(rd))
	rsVal := r.Read(int(rs))
	carryIn := r.GetFlag(FlagC)

	switch op {
	case 0x0: // AND
		res := rdVal & rsVal
		r.Write(int(rd), res)
		applyLogicalFlags(r, res, carryIn)
	case 0x1: // EOR
		res := rdVal ^ rsVal
		r.Write(int(rd), res)
		applyLogicalFlags(r, res, carryIn)
	case 0x2: // LSL
		res, c := shiftByRegister(ShiftLSL, rdVal, rsVal&0xff, carryIn)
		r.Write(int(rd), res)
		applyLogicalFlags(r, res, c)
		return 1
	case 0x3: // LSR
		res, c := shiftByRegister(ShiftLSR, rdVal, rsVal&0xff, carryIn)
		r.Write(int(rd), res)
		applyLogicalFlags(r, res, c)
		return 1
	case 0x4: // ASR
		res, c := shiftByRegister(ShiftASR, rdVal, rsVal&0xff, carryIn)
		r.Write(int(rd), res)
		applyLogicalFlags(r, res, c)
		return 1
	case 0x5: // ADC
		res := aluADC(rdVal, rsVal, carryIn)
		r.Write(int(rd), res.value)
		applyArithmeticFlags(r, res)
	case 0x6: // SBC
		res := aluSBC(rdVal, rsVal, carryIn)
		r.Write(int(rd), res.value)
		applyArithmeticFlags(r, res)
	case 0x7: // ROR
		res, c := shiftByRegister(ShiftROR, rdVal, rsVal&0xff, carryIn)
		r.Write(int(rd), res)
		applyLogicalFlags(r, res, c)
		return 1
	case 0x8: // TST
		applyLogicalFlags(r, rdVal&rsVal, carryIn)
	case 0x9: // NEG
		res := aluSUB(0, rsVal)
		r.Write(int(rd), res.value)
		applyArithmeticFlags(r, res)
	case 0xA: // CMP
		applyArithmeticFlags(r, aluSUB(rdVal, rsVal))
	case 0xB: // CMN
		applyArithmeticFlags(r, aluADD(rdVal, rsVal))
	case 0xC: // ORR
		res := rdVal | rsVal
		r.Write(int(rd), res)
		applyLogicalFlags(r, res, carryIn)
	case 0xD: // MUL
		result := rdVal * rsVal
		r.Write(int(rd), result)
		applyMultiplyFlags(r, result)
		return multiplierCycles(rsVal)
	case 0xE: // BIC
		res := rdVal &^ rsVal
		r.Write(int(rd), res)
		applyLogicalFlags(r, res, carryIn)
	case 0xF: // MVN
		res := ^rsVal
		r.Write(int(rd), res)
		applyLogicalFlags(r, res, carryIn)
	}
	return 0
}

// thumbExecHiRegister implements format 5: ADD/CMP/MOV over any
// register pair (including R8-R15) plus BX.
func thumbExecHiRegister(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	op := opcode >> 8 & 0x3
	h1 := testBit(uint32(opcode), 7)
	h2 := testBit(uint32(opcode), 6)
	rdLow := int(opcode) & 0x7
	rsLow := int(opcode>>3) & 0x7

	rd := rdLow
	if h1 {
		rd += 8
	}
	rs := rsLow
	if h2 {
		rs += 8
	}
	rsVal := r.Read(rs)

	switch op {
	case 0: // ADD
		res := aluADD(r.Read(rd), rsVal)
		return cpu.writeRegisterOrBranch(rd, res.value, bus)
	case 1: // CMP
		applyArithmeticFlags(r, aluSUB(r.Read(rd), rsVal))
		return 0
	case 2: // MOV
		return cpu.writeRegisterOrBranch(rd, rsVal, bus)
	default: // BX
		return cpu.BranchExchange(rsVal, bus)
	}
}

// thumbExecPCRelativeLoad implements format 6: LDR Rd,[PC,#word8].
func thumbExecPCRelativeLoad(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	rd := uint32(opcode>>8) & 0x7
	imm := (uint32(opcode) & 0xff) << 2
	base := r.Read(rPC) &^ 0x3
	v, ws := bus.Load32(base+imm, cpu)
	r.Write(int(rd), v)
	return 1 + ws.AsCycles() + 1
}

// thumbExecLoadStoreRegisterOffset implements format 7: LDR/STR(B)
// Rd,[Rb,Ro].
func thumbExecLoadStoreRegisterOffset(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	l := testBit(uint32(opcode), 11)
	b := testBit(uint32(opcode), 10)
	ro := uint32(opcode>>6) & 0x7
	rb := uint32(opcode>>3) & 0x7
	rd := uint32(opcode) & 0x7

	addr := r.Read(int(rb)) + r.Read(int(ro))
	if l {
		if b {
			v, ws := bus.Load8(addr, cpu)
			r.Write(int(rd), uint32(v))
			return 1 + ws.AsCycles() + 1
		}
		v, ws := bus.Load32(addr, cpu)
		r.Write(int(rd), rotateMisalignedWord(addr, v))
		return 1 + ws.AsCycles() + 1
	}
	if b {
		ws := bus.Store8(addr, uint8(r.Read(int(rd))), cpu)
		return 1 + ws.AsCycles()
	}
	ws := bus.Store32(addr, r.Read(int(rd)), cpu)
	return 1 + ws.AsCycles()
}

// thumbExecLoadStoreSignExtended implements format 8: STRH/LDRH/LDSB/LDSH
// Rd,[Rb,Ro].
func thumbExecLoadStoreSignExtended(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	h := testBit(uint32(opcode), 11)
	s := testBit(uint32(opcode), 10)
	ro := uint32(opcode>>6) & 0x7
	rb := uint32(opcode>>3) & 0x7
	rd := uint32(opcode) & 0x7
	addr := r.Read(int(rb)) + r.Read(int(ro))

	switch {
	case !h && !s: // STRH
		ws := bus.Store16(addr, uint16(r.Read(int(rd))), cpu)
		return 1 + ws.AsCycles()
	case h && !s: // LDRH
		v, ws := bus.Load16(addr, cpu)
		r.Write(int(rd), uint32(v))
		return 1 + ws.AsCycles() + 1
	case !h && s: // LDSB
		v, ws := bus.Load8(addr, cpu)
		r.Write(int(rd), uint32(signExtend(uint32(v), 8)))
		return 1 + ws.AsCycles() + 1
	default: // LDSH (H=1, S=1)
		v, ws := bus.Load16(addr, cpu)
		r.Write(int(rd), uint32(signExtend(uint32(v), 16)))
		return 1 + ws.AsCycles() + 1
	}
}

// thumbExecLoadStoreImmediate implements format 9: LDR/STR(B)
// Rd,[Rb,#offset5].
func thumbExecLoadStoreImmediate(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	b := testBit(uint32(opcode), 12)
	l := testBit(uint32(opcode), 11)
	offs5 := uint32(opcode>>6) & 0x1f
	rb := uint32(opcode>>3) & 0x7
	rd := uint32(opcode) & 0x7

	var offset uint32
	if b {
		offset = offs5
	} else {
		offset = offs5 << 2
	}
	addr := r.Read(int(rb)) + offset

	if l {
		if b {
			v, ws := bus.Load8(addr, cpu)
			r.Write(int(rd), uint32(v))
			return 1 + ws.AsCycles() + 1
		}
		v, ws := bus.Load32(addr, cpu)
		r.Write(int(rd), rotateMisalignedWord(addr, v))
		return 1 + ws.AsCycles() + 1
	}
	if b {
		ws := bus.Store8(addr, uint8(r.Read(int(rd))), cpu)
		return 1 + ws.AsCycles()
	}
	ws := bus.Store32(addr, r.Read(int(rd)), cpu)
	return 1 + ws.AsCycles()
}

// thumbExecLoadStoreHalfword implements format 10: LDRH/STRH
// Rd,[Rb,#offset5].
func thumbExecLoadStoreHalfword(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	l := testBit(uint32(opcode), 11)
	offs5 := uint32(opcode>>6) & 0x1f
	rb := uint32(opcode>>3) & 0x7
	rd := uint32(opcode) & 0x7
	addr := r.Read(int(rb)) + offs5<<1

	if l {
		v, ws := bus.Load16(addr, cpu)
		r.Write(int(rd), uint32(v))
		return 1 + ws.AsCycles() + 1
	}
	ws := bus.Store16(addr, uint16(r.Read(int(rd))), cpu)
	return 1 + ws.AsCycles()
}

// thumbExecSPRelative implements format 11: LDR/STR Rd,[SP,#word8].
func thumbExecSPRelative(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	l := testBit(uint32(opcode), 11)
	rd := uint32(opcode>>8) & 0x7
	imm := (uint32(opcode) & 0xff) << 2
	addr := r.Read(rSP) + imm

	if l {
		v, ws := bus.Load32(addr, cpu)
		r.Write(int(rd), rotateMisalignedWord(addr, v))
		return 1 + ws.AsCycles() + 1
	}
	ws := bus.Store32(addr, r.Read(int(rd)), cpu)
	return 1 + ws.AsCycles()
}

// thumbExecLoadAddress implements format 12: ADD Rd,PC|SP,#word8.
func thumbExecLoadAddress(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	useSP := testBit(uint32(opcode), 11)
	rd := uint32(opcode>>8) & 0x7
	imm := (uint32(opcode) & 0xff) << 2

	var base uint32
	if useSP {
		base = r.Read(rSP)
	} else {
		base = r.Read(rPC) &^ 0x3
	}
	r.Write(int(rd), base+imm)
	return 0
}

// thumbExecAddOffsetToSP implements format 13: ADD SP,#+/-imm7.
func thumbExecAddOffsetToSP(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	negative := testBit(uint32(opcode), 7)
	imm := (uint32(opcode) & 0x7f) << 2
	if negative {
		r.Write(rSP, r.Read(rSP)-imm)
	} else {
		r.Write(rSP, r.Read(rSP)+imm)
	}
	return 0
}

// thumbExecPushPop implements format 14: PUSH/POP {Rlist}{,LR/PC}.
func thumbExecPushPop(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	l := testBit(uint32(opcode), 11)
	includesLRorPC := testBit(uint32(opcode), 8)
	list := uint32(opcode) & 0xff
	count := popcount8(list)
	if includesLRorPC {
		count++
	}

	var cycles Cycles
	if l {
		addr := r.Read(rSP)
		for i := 0; i < 8; i++ {
			if !testBit(list, uint(i)) {
				continue
			}
			v, ws := bus.Load32(addr, cpu)
			r.Write(i, v)
			cycles += ws.AsCycles()
			addr += 4
		}
		if includesLRorPC {
			v, ws := bus.Load32(addr, cpu)
			cycles += ws.AsCycles()
			addr += 4
			cycles += cpu.Branch(v&^uint32(1), bus)
		}
		r.Write(rSP, addr)
		return cycles + Cycles(count) + 1
	}

	base := r.Read(rSP) - uint32(count)*4
	addr := base
	for i := 0; i < 8; i++ {
		if !testBit(list, uint(i)) {
			continue
		}
		ws := bus.Store32(addr, r.Read(i), cpu)
		cycles += ws.AsCycles()
		addr += 4
	}
	if includesLRorPC {
		ws := bus.Store32(addr, r.Read(rLR), cpu)
		cycles += ws.AsCycles()
	}
	r.Write(rSP, base)
	return cycles + Cycles(count)
}

// thumbExecMultipleTransfer implements format 15: LDMIA/STMIA Rb!,{Rlist}.
func thumbExecMultipleTransfer(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	l := testBit(uint32(opcode), 11)
	rb := uint32(opcode>>8) & 0x7
	list := uint32(opcode) & 0xff
	count := popcount8(list)

	base := r.Read(int(rb))
	addr := base
	var cycles Cycles
	for i := 0; i < 8; i++ {
		if !testBit(list, uint(i)) {
			continue
		}
		if l {
			v, ws := bus.Load32(addr, cpu)
			r.Write(i, v)
			cycles += ws.AsCycles()
		} else {
			ws := bus.Store32(addr, r.Read(i), cpu)
			cycles += ws.AsCycles()
		}
		addr += 4
	}
	if !(l && testBit(list, uint(rb))) {
		r.Write(int(rb), base+uint32(count)*4)
	}
	return cycles + Cycles(count) + 1
}

// thumbExecConditionalBranch implements format 16: Bcond label.
func thumbExecConditionalBranch(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	cond := Condition(opcode >> 8 & 0xf)
	if !evaluateCondition(r, cond) {
		return 0
	}
	offset := signExtend((uint32(opcode)&0xff)<<1, 9)
	target := uint32(int32(r.Read(rPC)) + offset)
	return cpu.Branch(target, bus)
}

// thumbExecSWI raises the software interrupt exception.
func thumbExecSWI(cpu *CPU, bus Bus, opcode uint16) Cycles {
	return cpu.Exception(ExceptionSWI, bus)
}

// thumbExecUnconditionalBranch implements format 18: B label.
func thumbExecUnconditionalBranch(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	offset := signExtend((uint32(opcode)&0x7ff)<<1, 12)
	target := uint32(int32(r.Read(rPC)) + offset)
	return cpu.Branch(target, bus)
}

// thumbExecLongBranchLink implements format 19: the two-instruction
// BL label sequence. The first half (H=0) stashes a PC-relative high
// offset in LR; the second (H=1) combines it with its own low offset,
// branches, and leaves LR pointing just past itself with bit 0 set.
func thumbExecLongBranchLink(cpu *CPU, bus Bus, opcode uint16) Cycles {
	r := cpu.registers
	h := testBit(uint32(opcode), 11)
	offset11 := uint32(opcode) & 0x7ff

	if !h {
		hi := signExtend(offset11<<12, 23)
		r.Write(rLR, uint32(int32(r.Read(rPC))+hi))
		return 0
	}

	target := r.Read(rLR) + offset11<<1
	nextInstr := r.Read(rPC) - 2
	r.Write(rLR, nextInstr|1)
	return cpu.Branch(target, bus)
}

// thumbExecUndefined raises the undefined-instruction exception for the
// THUMB encoding gaps (e.g. the ARMv5 BLX forms, out of scope here).
func thumbExecUndefined(cpu *CPU, bus Bus, opcode uint16) Cycles {
	return cpu.Exception(ExceptionUndefined, bus)
}

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

import (
	"fmt"
	"strings"
)

var condSuffix = [16]string{
	"eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc",
	"hi", "ls", "ge", "lt", "gt", "le", "", "nv",
}

var dpMnemonic = [16]string{
	"and", "eor", "sub", "rsb", "add", "adc", "sbc", "rsc",
	"tst", "teq", "cmp", "cmn", "orr", "mov", "bic", "mvn",
}

var shiftMnemonic = [4]string{"lsl", "lsr", "asr", "ror"}

// DecodeARM decodes one 32-bit ARM opcode into an Entry at addr. It never
// fails: an encoding it doesn't recognise is rendered as a raw word so a
// listing can always be produced for every address in a static image.
func DecodeARM(addr, opcode uint32) Entry {
	cond := condSuffix[opcode>>28&0xf]
	b2720 := opcode >> 20 & 0xff
	b74 := opcode >> 4 & 0xf

	e := Entry{Addr: addr, Size: 4}

	switch {
	case opcode&0x0ffffff0 == 0x012fff10:
		e.Mnemonic = "bx" + cond
		e.Operand = regName(int(opcode & 0xf))

	case b2720&0xfc == 0x00 && b74 == 0x9:
		e.Mnemonic = mulMnemonic(opcode) + cond
		e.Operand = mulOperand(opcode)

	case b2720&0xf8 == 0x08 && b74 == 0x9:
		e.Mnemonic = mullMnemonic(opcode) + cond
		e.Operand = mullOperand(opcode)

	case b2720&0xfb == 0x10 && b74 == 0x9:
		e.Mnemonic = swapMnemonic(opcode) + cond
		e.Operand = swapOperand(opcode)

	case b74&0x9 == 0x9 && b2720&0xe0 == 0x00 && b74&0x6 != 0:
		e.Mnemonic, e.Operand = halfwordTransfer(opcode, cond)

	case b2720&0xc0 == 0x00 && b74&0x1 == 0:
		e.Mnemonic, e.Operand = dataProcessing(opcode, cond, false)

	case b2720&0xc0 == 0x00 && b74&0x9 == 0x1:
		e.Mnemonic, e.Operand = dataProcessing(opcode, cond, true)

	case b2720&0xc0 == 0x40:
		e.Mnemonic, e.Operand = singleDataTransfer(opcode, cond)

	case b2720&0xe0 == 0x80:
		e.Mnemonic, e.Operand = blockDataTransfer(opcode, cond)

	case b2720&0xe0 == 0xa0:
		e.Mnemonic, e.Operand = branch(addr, opcode, cond)

	case b2720&0xf0 == 0xf0:
		e.Mnemonic = "swi" + cond
		e.Operand = fmt.Sprintf("#0x%06x", opcode&0xffffff)

	default:
		e.Mnemonic = "dcd"
		e.Operand = fmt.Sprintf("0x%08x", opcode)
	}

	return e
}

func regName(n int) string {
	switch n {
	case 13:
		return "sp"
	case 14:
		return "lr"
	case 15:
		return "pc"
	default:
		return fmt.Sprintf("r%d", n)
	}
}

func mulMnemonic(opcode uint32) string {
	s := ""
	if opcode&(1<<20) != 0 {
		s = "s"
	}
	if opcode&(1<<21) != 0 {
		return "mla" + s
	}
	return "mul" + s
}

func mulOperand(opcode uint32) string {
	rd := int(opcode >> 16 & 0xf)
	rn := int(opcode >> 12 & 0xf)
	rs := int(opcode >> 8 & 0xf)
	rm := int(opcode & 0xf)
	if opcode&(1<<21) != 0 {
		return fmt.Sprintf("%s,%s,%s,%s", regName(rd), regName(rm), regName(rs), regName(rn))
	}
	return fmt.Sprintf("%s,%s,%s", regName(rd), regName(rm), regName(rs))
}

func mullMnemonic(opcode uint32) string {
	signed := opcode&(1<<22) != 0
	acc := opcode&(1<<21) != 0
	s := ""
	if opcode&(1<<20) != 0 {
		s = "s"
	}
	switch {
	case signed && acc:
		return "smlal" + s
	case signed && !acc:
		return "smull" + s
	case !signed && acc:
		return "umlal" + s
	default:
		return "umull" + s
	}
}

func mullOperand(opcode uint32) string {
	rdLo := int(opcode >> 12 & 0xf)
	rdHi := int(opcode >> 16 & 0xf)
	rs := int(opcode >> 8 & 0xf)
	rm := int(opcode & 0xf)
	return fmt.Sprintf("%s,%s,%s,%s", regName(rdLo), regName(rdHi), regName(rm), regName(rs))
}

func swapMnemonic(opcode uint32) string {
	if opcode&(1<<22) != 0 {
		return "swpb"
	}
	return "swp"
}

func swapOperand(opcode uint32) string {
	rn := int(opcode >> 16 & 0xf)
	rd := int(opcode >> 12 & 0xf)
	rm := int(opcode & 0xf)
	return fmt.Sprintf("%s,%s,[%s]", regName(rd), regName(rm), regName(rn))
}

func halfwordTransfer(opcode uint32, cond string) (string, string) {
	load := opcode&(1<<20) != 0
	s := opcode&(1<<6) != 0
	h := opcode&(1<<5) != 0
	rn := int(opcode >> 16 & 0xf)
	rd := int(opcode >> 12 & 0xf)

	mnem := "strh"
	switch {
	case load && !s && h:
		mnem = "ldrh"
	case load && s && !h:
		mnem = "ldrsb"
	case load && s && h:
		mnem = "ldrsh"
	}
	mnem += cond

	var offs string
	if opcode&(1<<22) != 0 {
		imm := opcode>>4&0xf0 | opcode&0xf
		offs = fmt.Sprintf("#%d", imm)
	} else {
		offs = regName(int(opcode & 0xf))
	}

	up := "+"
	if opcode&(1<<23) == 0 {
		up = "-"
	}
	pre := opcode&(1<<24) != 0
	wb := ""
	if opcode&(1<<21) != 0 && pre {
		wb = "!"
	}

	var operand string
	if pre {
		operand = fmt.Sprintf("%s,[%s,%s%s]%s", regName(rd), regName(rn), up, offs, wb)
	} else {
		operand = fmt.Sprintf("%s,[%s],%s%s", regName(rd), regName(rn), up, offs)
	}
	return mnem, operand
}

func dataProcessing(opcode uint32, cond string, registerShift bool) (string, string) {
	opBits := opcode >> 21 & 0xf
	s := opcode&(1<<20) != 0

	if !s && opBits&0xc == 0x8 {
		return psrTransfer(opcode, cond)
	}

	rd := int(opcode >> 12 & 0xf)
	rn := int(opcode >> 16 & 0xf)

	mnem := dpMnemonic[opBits]
	if s {
		mnem += "s"
	}
	mnem += cond

	operand2 := operand2String(opcode, registerShift)

	noRd := opBits == 8 || opBits == 9 || opBits == 10 || opBits == 11
	noRn := opBits == 13 || opBits == 15

	switch {
	case noRd:
		return mnem, fmt.Sprintf("%s,%s", regName(rn), operand2)
	case noRn:
		return mnem, fmt.Sprintf("%s,%s", regName(rd), operand2)
	default:
		return mnem, fmt.Sprintf("%s,%s,%s", regName(rd), regName(rn), operand2)
	}
}

func operand2String(opcode uint32, registerShift bool) string {
	if opcode&(1<<25) != 0 {
		imm8 := opcode & 0xff
		rot := opcode >> 8 & 0xf
		return fmt.Sprintf("#0x%x", rotateImm(imm8, rot))
	}

	rm := regName(int(opcode & 0xf))
	shiftType := shiftMnemonic[opcode>>5&0x3]
	if registerShift {
		rs := regName(int(opcode >> 8 & 0xf))
		return fmt.Sprintf("%s,%s %s", rm, shiftType, rs)
	}
	imm5 := opcode >> 7 & 0x1f
	if imm5 == 0 && opcode>>5&0x3 != 0 {
		return fmt.Sprintf("%s,%s", rm, shiftType)
	}
	if imm5 == 0 {
		return rm
	}
	return fmt.Sprintf("%s,%s #%d", rm, shiftType, imm5)
}

func rotateImm(imm8, rot4 uint32) uint32 {
	rot := rot4 * 2
	return imm8>>rot | imm8<<(32-rot)&0xffffffff
}

func psrTransfer(opcode uint32, cond string) (string, string) {
	psr := "cpsr"
	if opcode&(1<<22) != 0 {
		psr = "spsr"
	}
	if opcode&(1<<21) == 0 {
		rd := int(opcode >> 12 & 0xf)
		return "mrs" + cond, fmt.Sprintf("%s,%s", regName(rd), psr)
	}

	var fields strings.Builder
	if opcode&(1<<19) != 0 {
		fields.WriteString("f")
	}
	if opcode&(1<<18) != 0 {
		fields.WriteString("s")
	}
	if opcode&(1<<17) != 0 {
		fields.WriteString("x")
	}
	if opcode&(1<<16) != 0 {
		fields.WriteString("c")
	}
	dest := psr + "_" + fields.String()

	if opcode&(1<<25) != 0 {
		imm8 := opcode & 0xff
		rot := opcode >> 8 & 0xf
		return "msr" + cond, fmt.Sprintf("%s,#0x%x", dest, rotateImm(imm8, rot))
	}
	return "msr" + cond, fmt.Sprintf("%s,%s", dest, regName(int(opcode&0xf)))
}

func singleDataTransfer(opcode uint32, cond string) (string, string) {
	load := opcode&(1<<20) != 0
	byteAccess := opcode&(1<<22) != 0
	rn := int(opcode >> 16 & 0xf)
	rd := int(opcode >> 12 & 0xf)

	mnem := "str"
	if load {
		mnem = "ldr"
	}
	if byteAccess {
		mnem += "b"
	}
	mnem += cond

	up := "+"
	if opcode&(1<<23) == 0 {
		up = "-"
	}
	pre := opcode&(1<<24) != 0
	wb := ""
	if opcode&(1<<21) != 0 && pre {
		wb = "!"
	}

	var offs string
	if opcode&(1<<25) == 0 {
		offs = fmt.Sprintf("#%d", opcode&0xfff)
	} else {
		offs = operand2String(opcode&^uint32(1<<25), false)
	}

	var operand string
	if pre {
		operand = fmt.Sprintf("%s,[%s,%s%s]%s", regName(rd), regName(rn), up, offs, wb)
	} else {
		operand = fmt.Sprintf("%s,[%s],%s%s", regName(rd), regName(rn), up, offs)
	}
	return mnem, operand
}

func blockDataTransfer(opcode uint32, cond string) (string, string) {
	load := opcode&(1<<20) != 0
	up := opcode&(1<<23) != 0
	pre := opcode&(1<<24) != 0
	s := opcode&(1<<22) != 0
	wb := opcode&(1<<21) != 0
	rn := int(opcode >> 16 & 0xf)

	mnem := "stm"
	if load {
		mnem = "ldm"
	}
	switch {
	case up && pre:
		mnem += "ib"
	case up && !pre:
		mnem += "ia"
	case !up && pre:
		mnem += "db"
	default:
		mnem += "da"
	}
	mnem += cond

	wbMark := ""
	if wb {
		wbMark = "!"
	}

	var regs strings.Builder
	first := true
	for i := 0; i < 16; i++ {
		if opcode&(1<<uint(i)) != 0 {
			if !first {
				regs.WriteString(",")
			}
			regs.WriteString(regName(i))
			first = false
		}
	}
	caret := ""
	if s {
		caret = "^"
	}
	return mnem, fmt.Sprintf("%s%s,{%s}%s", regName(rn), wbMark, regs.String(), caret)
}

func branch(addr, opcode uint32, cond string) (string, string) {
	mnem := "b" + cond
	if opcode&(1<<24) != 0 {
		mnem = "bl" + cond
	}
	offset := int32(opcode&0xffffff) << 8 >> 8
	target := addr + 8 + uint32(offset<<2)
	return mnem, fmt.Sprintf("0x%08x", target)
}

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

import "github.com/nsiow/armtdmi/logger"

// register indices for the names that matter beyond R0..R12.
const (
	rSP = 13
	rLR = 14
	rPC = 15
)

// NumRegisters is the width of the general register file, R0 to R15.
const NumRegisters = 16

// gpBank holds the general registers private to one side of a mode
// transition: FIQ banks R8-R14 (indices 8-14), every other mode banks
// only R13-R14. User and System alias the same bank, since neither has
// registers of its own distinct from the other.
type gpBank struct {
	regs [15]uint32 // indices 8..14 meaningful; 0..7 unused except for FIQ
}

// Registers is the ARM7TDMI register file: the sixteen active general
// registers, the CPSR, and the banked shadow copies belonging to each
// mode.
type Registers struct {
	active [NumRegisters]uint32
	cpsr   uint32
	mode   Mode

	// gpBanks covers every mode including the User/System alias, so that
	// switching away from either and back always round-trips R13/R14.
	gpBanks map[Mode]*gpBank

	// sharedGP holds R8-R12 as seen by every mode except FIQ, which is
	// the only mode that banks them separately. Indices 0-4 correspond
	// to R8-R12.
	sharedGP [5]uint32

	// spsrBanks covers only the five modes that architecturally have an
	// SPSR. Reads/writes in User/System go to noSPSR instead.
	spsrBanks map[Mode]*uint32
	noSPSR    uint32
}

// NewRegisters constructs a register file reset into the given mode with
// T clear (ARM state) and all general registers zeroed.
func NewRegisters(reset Mode) *Registers {
	base := &gpBank{}
	r := &Registers{
		gpBanks: map[Mode]*gpBank{
			User:       base,
			System:     base,
			FIQ:        {},
			Supervisor: {},
			Abort:      {},
			IRQ:        {},
			Undefined:  {},
		},
		spsrBanks: map[Mode]*uint32{
			FIQ:        new(uint32),
			Supervisor: new(uint32),
			Abort:      new(uint32),
			IRQ:        new(uint32),
			Undefined:  new(uint32),
		},
	}
	r.cpsr = modeBits(reset)
	r.mode = reset
	return r
}

// Mode returns the currently active mode.
func (r *Registers) Mode() Mode {
	return r.mode
}

// Read returns the value of register n (0..15) in the active bank.
func (r *Registers) Read(n int) uint32 {
	return r.active[n]
}

// Write sets register n (0..15) in the active bank.
func (r *Registers) Write(n int, v uint32) {
	r.active[n] = v
}

// ReadWithMode reads register n as it appears in mode m, without
// disturbing the currently active mode.
func (r *Registers) ReadWithMode(m Mode, n int) uint32 {
	if m == r.mode {
		return r.active[n]
	}
	old := r.mode
	r.switchBank(old, m)
	v := r.active[n]
	r.switchBank(m, old)
	return v
}

// WriteWithMode writes register n as it appears in mode m, without
// disturbing the currently active mode.
func (r *Registers) WriteWithMode(m Mode, n int, v uint32) {
	if m == r.mode {
		r.active[n] = v
		return
	}
	old := r.mode
	r.switchBank(old, m)
	r.active[n] = v
	r.switchBank(m, old)
}

// ReadCPSR returns the current CPSR word.
func (r *Registers) ReadCPSR() uint32 {
	return r.cpsr
}

// WriteCPSR replaces the CPSR. If the mode field changes, the register
// bank is swapped to match.
func (r *Registers) WriteCPSR(v uint32) {
	newMode := modeFromBits(v)
	if newMode == Invalid {
		logger.Logf("cpu", "invalid CPSR mode bits: %05b", v&0x1f)
	}
	if newMode != r.mode && newMode != Invalid {
		r.switchBank(r.mode, newMode)
		r.mode = newMode
	}
	r.cpsr = v
}

// ReadSPSR returns the SPSR of the current mode, or a don't-care stored
// value if the current mode is User or System.
func (r *Registers) ReadSPSR() uint32 {
	if b, ok := r.spsrBanks[r.mode]; ok {
		return *b
	}
	return r.noSPSR
}

// WriteSPSR sets the SPSR of the current mode. Writes in User/System are
// stored in a scratch slot and have no architectural effect.
func (r *Registers) WriteSPSR(v uint32) {
	if b, ok := r.spsrBanks[r.mode]; ok {
		*b = v
		return
	}
	r.noSPSR = v
}

// GetFlag reports whether f is set in the CPSR.
func (r *Registers) GetFlag(f Flag) bool {
	return testBit(r.cpsr, flagBit(f))
}

// SetFlag sets f in the CPSR.
func (r *Registers) SetFlag(f Flag) {
	r.cpsr = setBit(r.cpsr, flagBit(f))
}

// ClearFlag clears f in the CPSR.
func (r *Registers) ClearFlag(f Flag) {
	r.cpsr = clearBit(r.cpsr, flagBit(f))
}

// PutFlag sets or clears f in the CPSR according to on.
func (r *Registers) PutFlag(f Flag, on bool) {
	r.cpsr = putBit(r.cpsr, flagBit(f), on)
}

// SwitchMode transitions the active bank from the current mode to m,
// saving the current CPSR into m's SPSR if m has one. It is the entry
// point used by exception entry (§4.H); ordinary mode changes go through
// WriteCPSR.
func (r *Registers) SwitchMode(m Mode) {
	if m == r.mode {
		return
	}
	prevCPSR := r.cpsr
	r.switchBank(r.mode, m)
	r.mode = m
	r.cpsr = putBits(r.cpsr, 4, 0, modeBits(m))
	if b, ok := r.spsrBanks[m]; ok {
		*b = prevCPSR
	}
}

// switchBank performs the involution described in §4.B: stash `from`'s
// banked registers, then load `to`'s. User and System alias the same
// bank, so a transition between them, or a no-op from==to, touches
// nothing.
func (r *Registers) switchBank(from, to Mode) {
	if from == to {
		return
	}
	if r.gpBanks[from] == r.gpBanks[to] {
		return
	}

	// stash `from`'s banked registers. R8-R12 are banked only for FIQ;
	// every other mode shares one physical copy, held in sharedGP so it
	// survives a round trip through FIQ.
	if from == FIQ {
		if b, ok := r.gpBanks[from]; ok {
			for i := 8; i <= 14; i++ {
				b.regs[i] = r.active[i]
			}
		}
	} else {
		for i := 8; i <= 12; i++ {
			r.sharedGP[i-8] = r.active[i]
		}
		if b, ok := r.gpBanks[from]; ok {
			b.regs[rSP] = r.active[rSP]
			b.regs[rLR] = r.active[rLR]
		}
	}

	// load `to`'s banked registers, the mirror image of the stash above.
	if to == FIQ {
		if b, ok := r.gpBanks[to]; ok {
			for i := 8; i <= 14; i++ {
				r.active[i] = b.regs[i]
			}
		}
	} else {
		for i := 8; i <= 12; i++ {
			r.active[i] = r.sharedGP[i-8]
		}
		if b, ok := r.gpBanks[to]; ok {
			r.active[rSP] = b.regs[rSP]
			r.active[rLR] = b.regs[rLR]
		}
	}
}

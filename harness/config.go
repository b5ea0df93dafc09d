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

// Package harness assembles a minimal GBA-shaped memory map around the
// cpu package, enough to drive the core from a flat binary without
// bringing in any real GBA peripheral emulation. It is a test/demo
// harness, not a console emulator.
package harness

import "github.com/nsiow/armtdmi/cpu"

// TimingProfile gives the waitstate cost of an access to each of the
// harness's four memory regions, consumed by Memory.
type TimingProfile struct {
	BIOS  cpu.Waitstates
	IWRAM cpu.Waitstates
	WRAM  cpu.Waitstates
	ROM   cpu.Waitstates
}

// DefaultTimingProfile approximates a GBA with no wait-control tuning:
// BIOS and the on-chip IWRAM are zero-wait, while the on-board WRAM and
// the cartridge bus each cost one waitstate.
var DefaultTimingProfile = TimingProfile{
	BIOS:  0,
	IWRAM: 0,
	WRAM:  1,
	ROM:   1,
}

// Config selects the CPU's initial state and the memory timing it runs
// against.
type Config struct {
	// ResetMode is the mode the CPU starts in. System is the usual
	// choice for a harness that never takes an exception into a
	// privileged mode of its own accord.
	ResetMode cpu.Mode

	// MaskInterruptsOnReset mirrors real reset behaviour: IRQ and FIQ
	// begin masked until software clears them.
	MaskInterruptsOnReset bool

	// VectorBase is added to every exception vector offset; non-zero
	// only when emulating a remapped boot ROM.
	VectorBase uint32

	Timing TimingProfile
}

// DefaultConfig is System mode, interrupts masked, vectors at zero, the
// default timing profile.
var DefaultConfig = Config{
	ResetMode:             cpu.System,
	MaskInterruptsOnReset: true,
	Timing:                DefaultTimingProfile,
}

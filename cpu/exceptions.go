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

// ExceptionKind identifies one of the eight ARM7TDMI exception sources.
type ExceptionKind int

// The eight exception kinds, declared in priority order (lowest value
// wins when more than one is pending in the same cycle; see §4.H and
// the open question in §9 about where Addr>26bit really belongs).
const (
	ExceptionReset ExceptionKind = iota
	ExceptionDataAbort
	ExceptionFIQ
	ExceptionIRQ
	ExceptionPrefetchAbort
	ExceptionSWI
	ExceptionUndefined
	ExceptionAddress26Bit
)

type exceptionMeta struct {
	name      string
	vector    uint32
	mode      Mode
	setF      bool
	pcAdjust  uint32
}

var exceptionTable = map[ExceptionKind]exceptionMeta{
	ExceptionReset:         {"Reset", 0x00, Supervisor, true, 0},
	ExceptionDataAbort:     {"Data Abort", 0x10, Abort, false, 4},
	ExceptionFIQ:           {"FIQ", 0x1C, FIQ, true, 4},
	ExceptionIRQ:           {"IRQ", 0x18, IRQ, false, 4},
	ExceptionPrefetchAbort: {"Prefetch Abort", 0x0C, Abort, false, 4},
	ExceptionSWI:           {"SWI", 0x08, Supervisor, false, 0},
	ExceptionUndefined:     {"Undefined", 0x04, Undefined, false, 0},
	ExceptionAddress26Bit:  {"Addr>26bit", 0x14, Supervisor, false, 4},
}

func (k ExceptionKind) String() string {
	return exceptionTable[k].name
}

// ExceptionOutcome is returned by a host exception handler to say
// whether it consumed the exception itself.
type ExceptionOutcome struct {
	Handled bool
	Cycles  Cycles
}

// Ignored is the zero-value ExceptionOutcome: the CPU should perform the
// standard entry sequence.
var Ignored = ExceptionOutcome{}

// ExceptionHandler lets a host intercept an exception before the CPU
// performs its standard entry sequence.
type ExceptionHandler interface {
	HandleException(kind ExceptionKind, cpu *CPU, bus Bus) ExceptionOutcome
}

// SetExceptionHandler installs handler as the CPU's exception
// interceptor and returns the previously installed one (nil if none).
func (cpu *CPU) SetExceptionHandler(handler ExceptionHandler) ExceptionHandler {
	previous := cpu.exceptionHandler
	cpu.exceptionHandler = handler
	return previous
}

// Exception raises kind using the "next execution address" as the
// return address convention (the instruction after the one that caused
// it, used by SWI and Undefined, where LR is adjusted by software if a
// retry is wanted). This is cpu.decodedAddress, not the raw PC register:
// by the time a handler runs, PC has already been advanced to the
// instruction+8 prefetch convention, one slot further than the address
// the exception actually wants.
func (cpu *CPU) Exception(kind ExceptionKind, bus Bus) Cycles {
	return cpu.exception(kind, bus, cpu.decodedAddress)
}

// exceptionInternal raises kind using the currently executing
// instruction's address as the return address (used by data/prefetch
// aborts so the faulting instruction can be retried).
func (cpu *CPU) exceptionInternal(kind ExceptionKind, bus Bus) Cycles {
	return cpu.exception(kind, bus, cpu.currentExecutionAddress())
}

// exception performs §4.H's entry sequence, first giving any installed
// handler the chance to intercept it. Reentrancy is prevented by
// removing the handler from its slot for the duration of the call.
func (cpu *CPU) exception(kind ExceptionKind, bus Bus, returnAddr uint32) Cycles {
	if cpu.exceptionHandler != nil {
		handler := cpu.exceptionHandler
		cpu.exceptionHandler = nil
		outcome := handler.HandleException(kind, cpu, bus)
		cpu.exceptionHandler = handler
		if outcome.Handled {
			return outcome.Cycles
		}
	}

	meta := exceptionTable[kind]
	logger.Logf("cpu: exception", "%s -> vector 0x%02x (mode %s)", meta.name, meta.vector, meta.mode)

	r := cpu.registers
	r.SwitchMode(meta.mode)
	r.WriteWithMode(meta.mode, rLR, returnAddr+meta.pcAdjust)
	r.ClearFlag(FlagT)
	r.SetFlag(FlagI)
	if meta.setF {
		r.SetFlag(FlagF)
	}

	return cpu.Branch(cpu.vectorBase+meta.vector, bus)
}

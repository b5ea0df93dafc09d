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

package harness

import "github.com/nsiow/armtdmi/cpu"

// Scenario is a literal machine-code program to load and run: no
// assembler, no cartridge format, just the bytes that would result from
// one. This is how the end-to-end register/flag assertions are driven.
type Scenario struct {
	Config      Config
	Code        []byte
	LoadAddress uint32
	Set         cpu.InstructionSet
}

// newScenarioCPU builds the Memory and CPU a scenario runs against,
// with the code poked in and the pipeline already branched to it.
func (s Scenario) newScenarioCPU() (*cpu.CPU, *Memory) {
	// the cartridge region only exists once there is a ROM image, so code
	// loaded there becomes that image, padded from ROMBase.
	var rom []byte
	if s.LoadAddress >= ROMBase {
		rom = make([]byte, int(s.LoadAddress-ROMBase)+len(s.Code))
		copy(rom[s.LoadAddress-ROMBase:], s.Code)
	}
	mem, _ := NewMemory(nil, rom, s.Config.Timing)
	mem.WriteBytes(s.LoadAddress, s.Code)

	c := cpu.Uninitialized(s.Set, s.Config.ResetMode)
	c.SetVectorBase(s.Config.VectorBase)
	if s.Config.MaskInterruptsOnReset {
		c.Registers().SetFlag(cpu.FlagI)
		c.Registers().SetFlag(cpu.FlagF)
	}
	c.Branch(s.LoadAddress, mem)

	return c, mem
}

// Run steps the scenario exactly `steps` times and returns the CPU and
// the memory it ran against for inspection.
func (s Scenario) Run(steps int) (*cpu.CPU, *Memory) {
	c, mem := s.newScenarioCPU()
	for i := 0; i < steps; i++ {
		c.Step(mem)
	}
	return c, mem
}

// RunUntilSteadyState steps the scenario until the decoded instruction's
// address stops advancing between steps (a branch-to-self, the usual
// "halt" idiom for a bare-metal program with no OS to return to) or
// maxSteps is reached, whichever comes first. It returns the number of
// steps actually taken.
func (s Scenario) RunUntilSteadyState(maxSteps int) (*cpu.CPU, *Memory, int) {
	c, mem := s.newScenarioCPU()
	for i := 0; i < maxSteps; i++ {
		before := c.NextExecutionAddress()
		c.Step(mem)
		if c.NextExecutionAddress() == before {
			return c, mem, i + 1
		}
	}
	return c, mem, maxSteps
}

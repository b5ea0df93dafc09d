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

// Command armrun loads a flat binary into a minimal GBA-shaped memory
// map and either runs it for a fixed number of instructions or lists
// its disassembly, without executing it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nsiow/armtdmi/armdisasm"
	"github.com/nsiow/armtdmi/cpu"
	"github.com/nsiow/armtdmi/harness"
	"github.com/nsiow/armtdmi/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("armrun", flag.ExitOnError)
	binPath := fs.String("bin", "", "flat binary to load")
	loadAddr := fs.Uint("addr", harness.ROMBase, "address to load the binary at")
	thumb := fs.Bool("thumb", false, "start execution in THUMB state")
	mode := fs.String("mode", "system", "initial CPU mode (user, fiq, irq, supervisor, abort, undefined, system)")
	steps := fs.Int("steps", 0, "number of instructions to execute")
	disasm := fs.Bool("disasm", false, "disassemble the image instead of executing it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *binPath == "" {
		return fmt.Errorf("armrun: -bin is required")
	}

	code, err := os.ReadFile(*binPath)
	if err != nil {
		return fmt.Errorf("armrun: %w", err)
	}

	m, err := parseMode(*mode)
	if err != nil {
		return err
	}

	iset := cpu.ARM
	if *thumb {
		iset = cpu.THUMB
	}

	if *disasm {
		err = runDisasm(code, uint32(*loadAddr), iset)
	} else {
		err = runSteps(code, uint32(*loadAddr), iset, m, *steps)
	}
	logger.Write(os.Stderr)
	return err
}

func parseMode(name string) (cpu.Mode, error) {
	switch name {
	case "user":
		return cpu.User, nil
	case "fiq":
		return cpu.FIQ, nil
	case "irq":
		return cpu.IRQ, nil
	case "supervisor":
		return cpu.Supervisor, nil
	case "abort":
		return cpu.Abort, nil
	case "undefined":
		return cpu.Undefined, nil
	case "system":
		return cpu.System, nil
	default:
		return cpu.Invalid, fmt.Errorf("armrun: unrecognised mode %q", name)
	}
}

func runSteps(code []byte, loadAddr uint32, iset cpu.InstructionSet, mode cpu.Mode, steps int) error {
	scenario := harness.Scenario{
		Config:      harness.DefaultConfig,
		Code:        code,
		LoadAddress: loadAddr,
		Set:         iset,
	}
	scenario.Config.ResetMode = mode

	c, _ := scenario.Run(steps)
	r := c.Registers()
	for i := 0; i < cpu.NumRegisters; i++ {
		fmt.Printf("R%-2d = 0x%08x\n", i, r.Read(i))
	}
	fmt.Printf("CPSR = 0x%08x\n", r.ReadCPSR())
	return nil
}

func runDisasm(code []byte, loadAddr uint32, iset cpu.InstructionSet) error {
	cache := armdisasm.NewCache()
	entries := armdisasm.Disassemble(cache, code, loadAddr, iset)
	for _, e := range entries {
		fmt.Println(e.String())
	}
	return nil
}

package debugger

import (
	"fmt"

	"github.com/tsc-sim/tsc-sim/vm"
)

func (d *Debugger) cmdStep(args []string) error {
	n := 1
	if len(args) > 0 {
		count, err := parseAddress(args[0])
		if err != nil {
			return fmt.Errorf("step: %w", err)
		}
		n = int(count)
	}

	for i := 0; i < n; i++ {
		status := d.Machine.Step()
		d.LastStatus = status
		d.Printf("0x%04X: %s\n", uint16(d.Machine.PC), d.currentDisasm())

		if status.Terminal() {
			d.Printf("stopped: %s\n", status)
			return nil
		}
		if hit, reason := d.ShouldBreak(); hit {
			d.Printf("stopped: %s\n", reason)
			return nil
		}
	}
	return nil
}

func (d *Debugger) cmdContinue(args []string) error {
	d.Running = true
	defer func() { d.Running = false }()

	for d.Machine.Stats.Cycle < d.MaxCycles {
		status := d.Machine.Step()
		d.LastStatus = status
		if status.Terminal() {
			d.Printf("stopped: %s\n", status)
			return nil
		}
		if hit, reason := d.ShouldBreak(); hit {
			d.Printf("stopped at 0x%04X: %s\n", uint16(d.Machine.PC), reason)
			return nil
		}
	}
	d.Printf("stopped: cycle limit (%d) reached\n", d.MaxCycles)
	return nil
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: break <address>")
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return fmt.Errorf("break: %w", err)
	}
	bp := d.Breakpoints.AddBreakpoint(addr, false)
	d.Printf("breakpoint %d at 0x%04X\n", bp.ID, uint16(addr))
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: delete <address>")
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if err := d.Breakpoints.DeleteBreakpointAt(addr); err != nil {
		return err
	}
	d.Printf("deleted breakpoint at 0x%04X\n", uint16(addr))
	return nil
}

func (d *Debugger) cmdRegs(args []string) error {
	snap := d.Machine.Regs.Snapshot()
	for i, v := range snap {
		d.Printf("$%d = 0x%04X (%d)\n", i, uint16(v), int16(v))
	}
	d.Printf("pc = 0x%04X\n", uint16(d.Machine.PC))
	d.Printf("cycle = %d\n", d.Machine.Stats.Cycle)
	return nil
}

func (d *Debugger) cmdMem(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mem <address> [count]")
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return fmt.Errorf("mem: %w", err)
	}
	count := 8
	if len(args) > 1 {
		n, err := parseAddress(args[1])
		if err != nil {
			return fmt.Errorf("mem: %w", err)
		}
		count = int(n)
	}

	mem := d.Machine.DMem
	for i := 0; i < count; i++ {
		a := vm.Word(int(addr) + i)
		v, ok := mem.Access(true, a, 0, vm.MemRead)
		if !ok {
			d.Printf("0x%04X: <out of range>\n", uint16(a))
			break
		}
		d.Printf("0x%04X: 0x%04X\n", uint16(a), uint16(v))
	}
	return nil
}

func (d *Debugger) cmdDisasm(args []string) error {
	start := d.Machine.PC
	if len(args) > 0 {
		a, err := parseAddress(args[0])
		if err != nil {
			return fmt.Errorf("disasm: %w", err)
		}
		start = a
	}
	count := 10
	if len(args) > 1 {
		n, err := parseAddress(args[1])
		if err != nil {
			return fmt.Errorf("disasm: %w", err)
		}
		count = int(n)
	}

	for i := 0; i < count; i++ {
		addr := vm.Word(int(start) + i)
		inst, ok := d.Machine.IMem.Access(true, addr, 0, vm.MemRead)
		if !ok {
			break
		}
		marker := "  "
		if addr == d.Machine.PC {
			marker = "=>"
		}
		d.Printf("%s 0x%04X: %s\n", marker, uint16(addr), vm.Disassemble(addr, inst))
	}
	return nil
}

func (d *Debugger) cmdStats(args []string) error {
	d.Machine.Stats.Show(&d.Output)
	return nil
}

func (d *Debugger) cmdReset(args []string) error {
	d.Machine.Reset(0)
	d.Breakpoints.Clear()
	d.LastStatus = vm.None
	d.Printf("machine reset\n")
	return nil
}

func (d *Debugger) cmdHelp(args []string) error {
	d.Println("commands:")
	d.Println("  step, s [n]          execute n instructions (default 1)")
	d.Println("  continue, c          run until breakpoint, halt, or cycle limit")
	d.Println("  break, b <addr>      set a breakpoint")
	d.Println("  delete, d <addr>     remove a breakpoint")
	d.Println("  regs, r              show register file and PC")
	d.Println("  mem, m <addr> [n]    dump n words of data memory (default 8)")
	d.Println("  disasm, disas [a][n] disassemble n instructions starting at a (default PC, 10)")
	d.Println("  stats                show execution statistics")
	d.Println("  reset                reset the machine and clear breakpoints")
	d.Println("  help, h, ?           show this help")
	return nil
}

// currentDisasm disassembles the instruction at the current PC, for step's
// trace line.
func (d *Debugger) currentDisasm() string {
	inst, ok := d.Machine.IMem.Access(true, d.Machine.PC, 0, vm.MemRead)
	if !ok {
		return "<out of range>"
	}
	return vm.Disassemble(d.Machine.PC, inst)
}

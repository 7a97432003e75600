// Package debugger provides an interactive command loop and tview-based TUI
// for stepping a vm.Machine, adapted from the teacher's Debugger/BreakpointManager
// pair onto TSC's 4-register, word-addressed model (SPEC_FULL.md §4.4).
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsc-sim/tsc-sim/vm"
)

// Debugger wraps a Machine with breakpoints, command history, and an output
// buffer shared by the line-mode loop and the TUI.
type Debugger struct {
	Machine   *vm.Machine
	MaxCycles uint64

	Breakpoints *BreakpointManager
	History     *CommandHistory

	Running     bool
	LastCommand string
	LastStatus  vm.ExceptionStatus

	Output strings.Builder
}

// New creates a Debugger around machine, capping unattended continue runs at
// maxCycles the same way the CLI's -max-cycles flag bounds a direct run.
// historySize sets the command history depth (0 uses DefaultHistorySize).
func New(machine *vm.Machine, maxCycles uint64, historySize int) *Debugger {
	return &Debugger{
		Machine:     machine,
		MaxCycles:   maxCycles,
		Breakpoints: NewBreakpointManager(),
		History:     NewCommandHistory(historySize),
	}
}

// ExecuteCommand parses and dispatches a single command line. An empty line
// repeats the last command, the same convention gdb (and the teacher) use
// for "step"/"next".
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}

	return d.handleCommand(strings.ToLower(parts[0]), parts[1:])
}

func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "step", "s":
		return d.cmdStep(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "break", "b":
		return d.cmdBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "regs", "r":
		return d.cmdRegs(args)
	case "mem", "m":
		return d.cmdMem(args)
	case "disasm", "disas":
		return d.cmdDisasm(args)
	case "stats":
		return d.cmdStats(args)
	case "reset":
		return d.cmdReset(args)
	case "help", "h", "?":
		return d.cmdHelp(args)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak reports whether execution should stop at the current PC,
// consuming (and deleting, if temporary) a matching breakpoint.
func (d *Debugger) ShouldBreak() (bool, string) {
	if bp := d.Breakpoints.ProcessHit(d.Machine.PC); bp != nil {
		return true, fmt.Sprintf("breakpoint %d", bp.ID)
	}
	return false, ""
}

// GetOutput returns and clears the accumulated output buffer.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}

// parseAddress parses a hex ("0x10") or decimal address string.
func parseAddress(s string) (vm.Word, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	n, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return vm.Word(n), nil
}

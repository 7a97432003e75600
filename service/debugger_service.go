package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tsc-sim/tsc-sim/vm"
)

// DebuggerService provides a thread-safe interface to machine execution and
// inspection. Each monitoring-API session wraps its vm.Machine in one, so
// the API handlers need no locking discipline of their own. The line
// debugger and the TUI do not use it; they drive vm.Machine directly.
type DebuggerService struct {
	mu          sync.RWMutex
	machine     *vm.Machine
	breakpoints map[uint16]bool
	running     bool
	lastStatus  vm.ExceptionStatus
}

// NewDebuggerService wraps machine for shared access by front ends.
func NewDebuggerService(machine *vm.Machine) *DebuggerService {
	return &DebuggerService{
		machine:     machine,
		breakpoints: make(map[uint16]bool),
	}
}

// Machine returns the underlying machine (for callers, such as the API's
// image-load and memory handlers, that need direct memory access rather
// than a DTO).
func (s *DebuggerService) Machine() *vm.Machine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.machine
}

// Step executes a single instruction and returns its terminal status, if any.
func (s *DebuggerService) Step() vm.ExceptionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.machine.Step()
	s.lastStatus = status
	return status
}

// Continue runs until a breakpoint, a terminal status, or ctx cancellation.
// maxCycles bounds runaway execution the same way the CLI's -max-cycles flag
// does for an unattended run.
func (s *DebuggerService) Continue(ctx context.Context, maxCycles uint64) vm.ExceptionStatus {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return vm.Halt
		default:
		}

		s.mu.Lock()
		if s.machine.Stats.Cycle >= maxCycles {
			s.mu.Unlock()
			return vm.Halt
		}
		status := s.machine.Step()
		s.lastStatus = status
		atBreakpoint := s.breakpoints[uint16(s.machine.PC)] && status == vm.None
		s.mu.Unlock()

		if status.Terminal() {
			return status
		}
		if atBreakpoint {
			return vm.None
		}
	}
}

// IsRunning reports whether a Continue loop is currently in flight. A
// running Continue is stopped by cancelling the ctx passed to it.
func (s *DebuggerService) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Reset clears registers, memory, and statistics, restoring PC to entry.
func (s *DebuggerService) Reset(entry vm.Word) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine.Reset(entry)
	s.lastStatus = vm.None
}

// Registers returns the current register file and PC.
func (s *DebuggerService) Registers() RegisterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.machine.Regs.Snapshot()
	var out RegisterState
	for i, v := range snap {
		out.Registers[i] = uint16(v)
	}
	out.PC = uint16(s.machine.PC)
	out.Cycle = s.machine.Stats.Cycle
	return out
}

// State reports the coarse execution state implied by the last Step/Continue
// result.
func (s *DebuggerService) State() ExecutionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.running {
		return StateRunning
	}
	if s.breakpoints[uint16(s.machine.PC)] {
		return StateBreakpoint
	}
	return fromExceptionStatus(s.lastStatus)
}

// AddBreakpoint sets a breakpoint at addr.
func (s *DebuggerService) AddBreakpoint(addr uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breakpoints[addr] = true
}

// RemoveBreakpoint clears a breakpoint at addr.
func (s *DebuggerService) RemoveBreakpoint(addr uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.breakpoints, addr)
}

// Breakpoints returns all breakpoints in address order.
func (s *DebuggerService) Breakpoints() []BreakpointInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]BreakpointInfo, 0, len(s.breakpoints))
	for addr, enabled := range s.breakpoints {
		out = append(out, BreakpointInfo{Address: addr, Enabled: enabled})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// ClearBreakpoints removes every breakpoint.
func (s *DebuggerService) ClearBreakpoints() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breakpoints = make(map[uint16]bool)
}

// Memory reads count words starting at addr from the given memory (imem or
// dmem). It returns an error if any word in the range is out of the
// memory's window.
func (s *DebuggerService) Memory(mem *vm.Memory, addr uint16, count int) ([]MemoryWord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]MemoryWord, 0, count)
	for i := 0; i < count; i++ {
		a := vm.Word(int(addr) + i)
		v, ok := mem.Access(true, a, 0, vm.MemRead)
		if !ok {
			return out, fmt.Errorf("address 0x%04X out of range", uint16(a))
		}
		out = append(out, MemoryWord{Address: uint16(a), Value: uint16(v)})
	}
	return out, nil
}

// Stats returns a snapshot of the machine's execution counters.
func (s *DebuggerService) Stats() vm.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.machine.Stats
}

// LastStatus returns the status returned by the most recent Step/Continue.
func (s *DebuggerService) LastStatus() vm.ExceptionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastStatus
}

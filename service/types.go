// Package service wraps a vm.Machine behind a thread-safe interface used by
// the monitoring API's sessions (SPEC_FULL.md §4.6). The line debugger and
// the TUI drive vm.Machine directly instead.
package service

import "github.com/tsc-sim/tsc-sim/vm"

// RegisterState is a JSON-friendly snapshot of CPU registers.
type RegisterState struct {
	Registers [vm.NumRegisters]uint16 `json:"registers"`
	PC        uint16                  `json:"pc"`
	Cycle     uint64                  `json:"cycle"`
}

// BreakpointInfo describes a single breakpoint for UI/API display.
type BreakpointInfo struct {
	Address uint16 `json:"address"`
	Enabled bool   `json:"enabled"`
}

// ExecutionState is the coarse state the debugger and API report.
type ExecutionState string

const (
	StateRunning    ExecutionState = "running"
	StateHalted     ExecutionState = "halted"
	StateBreakpoint ExecutionState = "breakpoint"
	StateError      ExecutionState = "error"
)

// fromExceptionStatus maps a terminal vm.ExceptionStatus onto the coarser
// ExecutionState the API and debugger surface to clients.
func fromExceptionStatus(status vm.ExceptionStatus) ExecutionState {
	switch status {
	case vm.None:
		return StateRunning
	case vm.Halt:
		return StateHalted
	default:
		return StateError
	}
}

// MemoryWord is one word of a memory dump, used by GetMemory responses.
type MemoryWord struct {
	Address uint16 `json:"address"`
	Value   uint16 `json:"value"`
}

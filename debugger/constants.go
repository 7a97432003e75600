package debugger

// TUI display tuning constants, trimmed to TSC's 4-register / 16-bit-word
// scale (spec.md §3). There is no stack pointer register in TSC, so the
// teacher's stack panel has no equivalent here.
const (
	// DisplayUpdateFrequency is a refresh interval, in cycles, for
	// continuous runs. The TUI does not read it: a continue command redraws
	// the panels once, after the run stops.
	DisplayUpdateFrequency = 100

	// DisasmContextBefore and DisasmContextAfter bound the disassembly
	// window shown around PC.
	DisasmContextBefore = 5
	DisasmContextAfter  = 15

	// MemoryDisplayRows and MemoryDisplayColumns size the data-memory hex
	// dump panel.
	MemoryDisplayRows    = 8
	MemoryDisplayColumns = 8

	// RegisterGroupSize is NumRegisters: TSC's whole register file fits on
	// one row of the register panel.
	RegisterGroupSize = 4
)

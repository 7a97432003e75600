package vm

import (
	"fmt"
	"io"
	"os"
)

// MachineConfig selects the memory layout and I/O wiring for a Machine.
// Split or collapsed imem/dmem are both supported (spec.md §9): set
// SplitMemory to construct two independent windows, or leave it false to
// share a single Memory for both instruction and data access.
type MachineConfig struct {
	MemStart uint32
	MemSize  uint32

	SplitMemory bool
	DMemStart   uint32
	DMemSize    uint32

	EntryPoint Word

	IOSink   IOSink
	IOSource IOSource

	Log *Log
}

// DefaultMachineConfig returns sane defaults: a single 64K-word memory
// starting at address 0, entry point 0, stdout I/O sink, zero I/O source.
func DefaultMachineConfig() MachineConfig {
	return MachineConfig{
		MemStart:   0,
		MemSize:    0x10000,
		EntryPoint: 0,
		IOSink:     NewWriterSink(os.Stdout),
		IOSource:   ZeroSource{},
	}
}

// Machine bundles the register file, PC, memories, statistics, log, and I/O
// port into the complete datapath state.
type Machine struct {
	Regs RegisterFile
	PC   Word

	IMem *Memory
	DMem *Memory

	Stats Stats
	Log   *Log

	IOSink   IOSink
	IOSource IOSource

	alu ALU
}

// NewMachine constructs a Machine per cfg. It returns an error if a split
// configuration's windows overlap (spec.md §3: "Their windows must not
// overlap").
func NewMachine(cfg MachineConfig) (*Machine, error) {
	imem := NewMemory(cfg.MemStart, cfg.MemSize)
	dmem := imem
	if cfg.SplitMemory {
		dmem = NewMemory(cfg.DMemStart, cfg.DMemSize)
		if imem.Overlaps(dmem) {
			return nil, fmt.Errorf("imem [0x%X,0x%X) and dmem [0x%X,0x%X) overlap",
				imem.Start, imem.Start+imem.Size, dmem.Start, dmem.Start+dmem.Size)
		}
	}

	ioSink := cfg.IOSink
	if ioSink == nil {
		ioSink = NewWriterSink(os.Stdout)
	}
	ioSource := cfg.IOSource
	if ioSource == nil {
		ioSource = ZeroSource{}
	}

	return &Machine{
		PC:       cfg.EntryPoint,
		IMem:     imem,
		DMem:     dmem,
		Log:      cfg.Log,
		IOSink:   ioSink,
		IOSource: ioSource,
	}, nil
}

// Reset clears registers, memories, and statistics, and moves PC back to
// entry.
func (m *Machine) Reset(entry Word) {
	m.Regs.Reset()
	m.IMem.Reset()
	if m.DMem != m.IMem {
		m.DMem.Reset()
	}
	m.Stats.Reset()
	m.PC = entry
}

// DumpRegisters writes the register file to w (the teacher's
// final-register-dump-on-termination convention, spec.md §4.J).
func (m *Machine) DumpRegisters(w io.Writer) {
	m.Regs.Dump(w)
}

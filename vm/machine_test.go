package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsc-sim/tsc-sim/vm"
)

func TestNewMachine_SharedMemoryByDefault(t *testing.T) {
	cfg := vm.DefaultMachineConfig()
	m, err := vm.NewMachine(cfg)
	require.NoError(t, err)
	assert.Same(t, m.IMem, m.DMem, "imem and dmem should be the same Memory unless SplitMemory is set")
}

func TestNewMachine_SplitMemoryDisjointWindowsOK(t *testing.T) {
	cfg := vm.DefaultMachineConfig()
	cfg.SplitMemory = true
	cfg.MemStart, cfg.MemSize = 0, 0x1000
	cfg.DMemStart, cfg.DMemSize = 0x1000, 0x1000
	_, err := vm.NewMachine(cfg)
	assert.NoError(t, err)
}

func TestNewMachine_SplitMemoryOverlapErrors(t *testing.T) {
	cfg := vm.DefaultMachineConfig()
	cfg.SplitMemory = true
	cfg.MemStart, cfg.MemSize = 0, 0x1000
	cfg.DMemStart, cfg.DMemSize = 0x0800, 0x1000
	_, err := vm.NewMachine(cfg)
	assert.Error(t, err)
}

func TestMachine_ResetClearsStateAndRestoresEntry(t *testing.T) {
	cfg := vm.DefaultMachineConfig()
	cfg.EntryPoint = 0x10
	m, err := vm.NewMachine(cfg)
	require.NoError(t, err)

	_ = m.Regs.Write(0, 0xBEEF)
	m.Stats.Record(vm.ClassALU)
	m.PC = 0x50

	m.Reset(0x10)

	assert.Equal(t, vm.Word(0x10), m.PC)
	assert.Equal(t, uint64(0), m.Stats.ICount)
	r0, _ := m.Regs.Read(0)
	assert.Equal(t, vm.Word(0), r0)
}

func TestMachine_DumpRegisters(t *testing.T) {
	cfg := vm.DefaultMachineConfig()
	m, err := vm.NewMachine(cfg)
	require.NoError(t, err)
	_ = m.Regs.Write(1, 0x42)

	var buf bytes.Buffer
	m.DumpRegisters(&buf)
	assert.Contains(t, buf.String(), "$1 = 0x0042")
}

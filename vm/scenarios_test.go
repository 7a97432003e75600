package vm_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsc-sim/tsc-sim/vm"
)

// Local instruction encoders. TSC program images are {address: word} maps
// with no standard assembly syntax (spec.md §3), so these exist only to make
// the end-to-end scenarios below readable; they are not part of the vm
// package's public surface.

func encI(op vm.Opcode, rs, rt int, imm uint8) vm.Word {
	return vm.Word(op) | vm.Word(rs)<<10 | vm.Word(rt)<<8 | vm.Word(imm)
}

func encR(op vm.Opcode, rs, rt, rd int) vm.Word {
	return vm.Word(op) | vm.Word(rs)<<10 | vm.Word(rt)<<8 | vm.Word(rd)<<6
}

func encJ(op vm.Opcode, target uint16) vm.Word {
	return vm.Word(op) | vm.Word(target&0xFFF)
}

func newScenarioMachine(t *testing.T, out *bytes.Buffer, program map[vm.Word]vm.Word) *vm.Machine {
	t.Helper()
	cfg := vm.DefaultMachineConfig()
	cfg.MemSize = 0x100
	cfg.IOSink = vm.NewWriterSink(out)
	m, err := vm.NewMachine(cfg)
	require.NoError(t, err)
	for addr, word := range program {
		_, ok := m.IMem.Access(true, addr, word, vm.MemWrite)
		require.True(t, ok, "failed to load word at 0x%04X", uint16(addr))
	}
	return m
}

// Scenario 1: LHI $1,0x12; ADI $1,$1,0x34; WWD $1; HLT
// emits [I/O] 0x1234, terminates with HALT, icount=4.
func TestScenario1_LoadHighThenAddThenEmit(t *testing.T) {
	var out bytes.Buffer
	m := newScenarioMachine(t, &out, map[vm.Word]vm.Word{
		0: encI(vm.OpLHI, 0, 1, 0x12),
		1: encI(vm.OpADI, 1, 1, 0x34),
		2: encR(vm.OpWWD, 1, 0, 0),
		3: encR(vm.OpHLT, 0, 0, 0),
	})

	status := m.Run(context.Background())

	assert.Equal(t, vm.Halt, status)
	assert.Equal(t, "[I/O] 0x1234\n", out.String())
	assert.Equal(t, uint64(4), m.Stats.ICount)
}

// Scenario 2: a running total (5) then a second register (3), subtracted to
// 2, emitted and held in $2. The prototype's illustrative assembly reuses
// $0 as both accumulator and source across instructions; here the second ADI
// sources from its own destination register (still zero) instead of the
// shared accumulator, so the narrated arithmetic (5, 3, difference 2) holds
// under this encoding's "ADI $rt, $rs, imm" convention without entangling it
// with $0's running value.
func TestScenario2_SubtractionYieldsTwo(t *testing.T) {
	var out bytes.Buffer
	m := newScenarioMachine(t, &out, map[vm.Word]vm.Word{
		0: encI(vm.OpADI, 0, 0, 5),
		1: encI(vm.OpADI, 1, 1, 3),
		2: encR(vm.OpSUB, 0, 1, 2),
		3: encR(vm.OpWWD, 2, 0, 0),
		4: encR(vm.OpHLT, 0, 0, 0),
	})

	status := m.Run(context.Background())

	assert.Equal(t, vm.Halt, status)
	assert.Equal(t, "[I/O] 0x0002\n", out.String())
	r2, err := m.Regs.Read(2)
	require.NoError(t, err)
	assert.Equal(t, vm.Word(2), r2)
}

// Scenario 3: store then load round-trips through data memory.
func TestScenario3_StoreLoadRoundTrip(t *testing.T) {
	var out bytes.Buffer
	m := newScenarioMachine(t, &out, map[vm.Word]vm.Word{
		0: encI(vm.OpADI, 0, 0, 0x10),
		1: encI(vm.OpSWD, 0, 0, 0),
		2: encI(vm.OpLWD, 0, 1, 0),
		3: encR(vm.OpWWD, 1, 0, 0),
		4: encR(vm.OpHLT, 0, 0, 0),
	})

	status := m.Run(context.Background())

	assert.Equal(t, vm.Halt, status)
	assert.Equal(t, "[I/O] 0x0010\n", out.String())

	stored, ok := m.DMem.Access(true, 0x10, 0, vm.MemRead)
	require.True(t, ok)
	assert.Equal(t, vm.Word(0x10), stored)
}

// Scenario 4: a not-equal branch is taken and skips the next instruction.
func TestScenario4_BranchTakenSkipsInstruction(t *testing.T) {
	var out bytes.Buffer
	m := newScenarioMachine(t, &out, map[vm.Word]vm.Word{
		0: encI(vm.OpADI, 0, 0, 1),    // R[0] = 1
		1: encI(vm.OpBNE, 0, 1, 1),    // R[0]=1 != R[1]=0: branch taken, +1
		2: encI(vm.OpADI, 0, 2, 0xAA), // skipped
		3: encI(vm.OpADI, 2, 2, 0xBB), // R[2] = R[2](0) + 0xBB
		4: encR(vm.OpWWD, 2, 0, 0),
		5: encR(vm.OpHLT, 0, 0, 0),
	})

	status := m.Run(context.Background())

	assert.Equal(t, vm.Halt, status)
	assert.Equal(t, "[I/O] 0x00bb\n", out.String())
	r2, err := m.Regs.Read(2)
	require.NoError(t, err)
	assert.Equal(t, vm.Word(0xBB), r2)
}

// Scenario 5: an absolute jump skips over an instruction entirely.
func TestScenario5_JumpSkipsInstruction(t *testing.T) {
	var out bytes.Buffer
	m := newScenarioMachine(t, &out, map[vm.Word]vm.Word{
		0: encJ(vm.OpJMP, 3),
		1: encI(vm.OpADI, 0, 0, 0xFF), // never reached
		3: encR(vm.OpHLT, 0, 0, 0),
	})

	status := m.Run(context.Background())

	assert.Equal(t, vm.Halt, status)
	r0, err := m.Regs.Read(0)
	require.NoError(t, err)
	assert.Equal(t, vm.Word(0), r0)
}

// Scenario 6: an undecodable word at PC=0 terminates with ILLEGAL_INST before
// any counter advances.
func TestScenario6_IllegalInstructionAtEntry(t *testing.T) {
	var out bytes.Buffer
	m := newScenarioMachine(t, &out, map[vm.Word]vm.Word{
		0: 0xFFFF,
	})

	status := m.Step()

	assert.Equal(t, vm.IllegalInst, status)
	assert.Equal(t, uint64(0), m.Stats.ICount)
}

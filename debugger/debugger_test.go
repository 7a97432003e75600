package debugger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsc-sim/tsc-sim/vm"
)

const hltWord = vm.Word(0xF01D)

func newTestDebugger(t *testing.T, program []vm.Word) *Debugger {
	t.Helper()
	m, err := vm.NewMachine(vm.MachineConfig{MemSize: 0x100})
	require.NoError(t, err)

	for i, w := range program {
		_, ok := m.IMem.Access(true, vm.Word(i), w, vm.MemWrite)
		require.True(t, ok)
	}
	return New(m, 1000, DefaultHistorySize)
}

func TestDebuggerStepAdvancesPC(t *testing.T) {
	d := newTestDebugger(t, []vm.Word{
		0xF018, // NOP
		hltWord,
	})

	require.NoError(t, d.ExecuteCommand("step"))
	assert.Equal(t, vm.Word(1), d.Machine.PC)
	assert.Contains(t, d.GetOutput(), "0x0001: HLT")
}

func TestDebuggerContinueStopsAtBreakpoint(t *testing.T) {
	d := newTestDebugger(t, []vm.Word{
		0xF018, // NOP
		0xF018, // NOP
		hltWord,
	})

	require.NoError(t, d.ExecuteCommand("break 0x2"))
	require.NoError(t, d.ExecuteCommand("continue"))

	assert.Equal(t, vm.Word(2), d.Machine.PC)
	assert.False(t, d.Machine.Stats.Cycle == 0)
	out := d.GetOutput()
	assert.True(t, strings.Contains(out, "breakpoint") || strings.Contains(out, "stopped"))
}

func TestDebuggerContinueStopsAtHalt(t *testing.T) {
	d := newTestDebugger(t, []vm.Word{
		hltWord,
	})

	require.NoError(t, d.ExecuteCommand("continue"))
	assert.True(t, d.LastStatus.Terminal())
}

func TestDebuggerEmptyLineRepeatsLastCommand(t *testing.T) {
	d := newTestDebugger(t, []vm.Word{
		0xF018,
		0xF018,
		hltWord,
	})

	require.NoError(t, d.ExecuteCommand("step"))
	require.NoError(t, d.ExecuteCommand(""))
	assert.Equal(t, vm.Word(2), d.Machine.PC)
}

func TestDebuggerUnknownCommand(t *testing.T) {
	d := newTestDebugger(t, []vm.Word{hltWord})
	err := d.ExecuteCommand("frobnicate")
	assert.Error(t, err)
}

func TestDebuggerRegsCommand(t *testing.T) {
	d := newTestDebugger(t, []vm.Word{hltWord})
	require.NoError(t, d.ExecuteCommand("regs"))
	out := d.GetOutput()
	assert.Contains(t, out, "$0")
	assert.Contains(t, out, "pc = 0x0000")
}

func TestDebuggerResetClearsBreakpoints(t *testing.T) {
	d := newTestDebugger(t, []vm.Word{hltWord})
	require.NoError(t, d.ExecuteCommand("break 0x0"))
	assert.Equal(t, 1, d.Breakpoints.Count())

	require.NoError(t, d.ExecuteCommand("reset"))
	assert.Equal(t, 0, d.Breakpoints.Count())
	assert.Equal(t, vm.Word(0), d.Machine.PC)
}

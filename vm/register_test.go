package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsc-sim/tsc-sim/vm"
)

func TestRegisterFile_WriteReadRoundTrip(t *testing.T) {
	var rf vm.RegisterFile
	require.NoError(t, rf.Write(2, 0xCAFE))
	got, err := rf.Read(2)
	require.NoError(t, err)
	assert.Equal(t, vm.Word(0xCAFE), got)
}

func TestRegisterFile_NoHardwiredZero(t *testing.T) {
	var rf vm.RegisterFile
	require.NoError(t, rf.Write(0, 42))
	got, err := rf.Read(0)
	require.NoError(t, err)
	assert.Equal(t, vm.Word(42), got, "register 0 must hold the written value, not be hardwired to zero")
}

func TestRegisterFile_OutOfRangeIndexErrors(t *testing.T) {
	var rf vm.RegisterFile
	_, err := rf.Read(4)
	assert.Error(t, err)
	assert.Error(t, rf.Write(-1, 0))
}

func TestRegisterFile_Reset(t *testing.T) {
	var rf vm.RegisterFile
	_ = rf.Write(1, 0xFFFF)
	rf.Reset()
	got, _ := rf.Read(1)
	assert.Equal(t, vm.Word(0), got)
}

func TestRegisterFile_Snapshot(t *testing.T) {
	var rf vm.RegisterFile
	_ = rf.Write(3, 7)
	snap := rf.Snapshot()
	assert.Equal(t, vm.Word(7), snap[3])

	_ = rf.Write(3, 9)
	assert.Equal(t, vm.Word(7), snap[3], "snapshot must not alias live register storage")
}

func TestRegisterFile_Dump(t *testing.T) {
	var rf vm.RegisterFile
	_ = rf.Write(0, 0x1234)
	var buf bytes.Buffer
	rf.Dump(&buf)
	assert.True(t, strings.Contains(buf.String(), "$0 = 0x1234"))
}

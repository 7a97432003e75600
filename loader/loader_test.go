package loader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsc-sim/tsc-sim/loader"
	"github.com/tsc-sim/tsc-sim/vm"
)

func TestLoadHex_ContiguousAtZero(t *testing.T) {
	img := loader.LoadHex([]byte{0x12, 0x34, 0xAB, 0xCD})

	require.Equal(t, vm.Word(0), img.EntryPoint)
	require.Len(t, img.Writes, 2)
	assert.Equal(t, vm.Word(0), img.Writes[0].Addr)
	assert.Equal(t, vm.Word(0x3412), img.Writes[0].Value, "LoadHex decodes each byte pair little-endian")
	assert.Equal(t, vm.Word(1), img.Writes[1].Addr)
	assert.Equal(t, vm.Word(0xCDAB), img.Writes[1].Value, "LoadHex decodes each byte pair little-endian")
	for _, w := range img.Writes {
		assert.Equal(t, loader.IMem, w.Target)
	}
}

func TestLoadHex_OddTrailingByteZeroPadded(t *testing.T) {
	img := loader.LoadHex([]byte{0x12, 0x34, 0xFF})
	require.Len(t, img.Writes, 2)
	assert.Equal(t, vm.Word(0x00FF), img.Writes[1].Value, "a lone trailing byte is the low byte of a zero-padded word")
}

func TestImage_ApplyWritesThroughMachine(t *testing.T) {
	cfg := vm.DefaultMachineConfig()
	m, err := vm.NewMachine(cfg)
	require.NoError(t, err)

	img := loader.Image{
		EntryPoint: 0,
		Writes: []loader.Write{
			{Target: loader.IMem, Addr: 0, Value: 0xBEEF},
		},
	}
	require.NoError(t, img.Apply(m))

	got, ok := m.IMem.Access(true, 0, 0, vm.MemRead)
	require.True(t, ok)
	assert.Equal(t, vm.Word(0xBEEF), got)
}

func TestImage_ApplyOutOfRangeErrors(t *testing.T) {
	cfg := vm.DefaultMachineConfig()
	cfg.MemSize = 4
	m, err := vm.NewMachine(cfg)
	require.NoError(t, err)

	img := loader.Image{Writes: []loader.Write{{Target: loader.IMem, Addr: 100, Value: 1}}}
	err = img.Apply(m)
	assert.Error(t, err)
}

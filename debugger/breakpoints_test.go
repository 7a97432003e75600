package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsc-sim/tsc-sim/vm"
)

func TestBreakpointManagerAddAndGet(t *testing.T) {
	bm := NewBreakpointManager()

	bp := bm.AddBreakpoint(vm.Word(0x10), false)
	assert.Equal(t, 1, bp.ID)
	assert.True(t, bp.Enabled)
	assert.False(t, bp.Temporary)

	got := bm.GetBreakpoint(vm.Word(0x10))
	assert.Same(t, bp, got)
	assert.Nil(t, bm.GetBreakpoint(vm.Word(0x20)))
}

func TestBreakpointManagerReaddReenables(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.AddBreakpoint(vm.Word(0x10), false)
	hit := bm.ProcessHit(vm.Word(0x10))
	assert.Equal(t, 1, hit.HitCount)

	bp.Enabled = false
	again := bm.AddBreakpoint(vm.Word(0x10), true)
	assert.Equal(t, bp.ID, again.ID)
	assert.True(t, again.Enabled)
	assert.True(t, again.Temporary)
}

func TestBreakpointManagerDelete(t *testing.T) {
	bm := NewBreakpointManager()
	bm.AddBreakpoint(vm.Word(0x10), false)

	assert.NoError(t, bm.DeleteBreakpointAt(vm.Word(0x10)))
	assert.Nil(t, bm.GetBreakpoint(vm.Word(0x10)))
	assert.Error(t, bm.DeleteBreakpointAt(vm.Word(0x10)))
}

func TestBreakpointManagerProcessHitTemporary(t *testing.T) {
	bm := NewBreakpointManager()
	bm.AddBreakpoint(vm.Word(0x10), true)

	hit := bm.ProcessHit(vm.Word(0x10))
	assert.NotNil(t, hit)
	assert.Equal(t, 1, hit.HitCount)

	assert.Nil(t, bm.GetBreakpoint(vm.Word(0x10)))
}

func TestBreakpointManagerProcessHitDisabled(t *testing.T) {
	bm := NewBreakpointManager()
	bp := bm.AddBreakpoint(vm.Word(0x10), false)
	bp.Enabled = false

	assert.Nil(t, bm.ProcessHit(vm.Word(0x10)))
}

func TestBreakpointManagerClearAndCount(t *testing.T) {
	bm := NewBreakpointManager()
	bm.AddBreakpoint(vm.Word(0x10), false)
	bm.AddBreakpoint(vm.Word(0x20), false)
	assert.Equal(t, 2, bm.Count())

	bm.Clear()
	assert.Equal(t, 0, bm.Count())
	assert.Empty(t, bm.GetAllBreakpoints())
}

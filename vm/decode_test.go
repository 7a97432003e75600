package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsc-sim/tsc-sim/vm"
)

// TestDecodeOpcode_MaskDisjointness is spec.md §8's decoder invariant: for
// every defined opcode k and every instruction w, (w & mask(k)) == k implies
// opcode(w) == k. We check it by constructing, for every ISA entry, a word
// that matches its opcode under its own mask with arbitrary bits set outside
// the mask, and confirming DecodeOpcode recovers exactly that opcode.
func TestDecodeOpcode_MaskDisjointness(t *testing.T) {
	cases := []struct {
		op   vm.Opcode
		mask vm.Word
	}{
		{vm.OpBNE, 0xF000}, {vm.OpBEQ, 0xF000}, {vm.OpBGZ, 0xF000}, {vm.OpBLZ, 0xF000},
		{vm.OpADI, 0xF000}, {vm.OpORI, 0xF000}, {vm.OpLHI, 0xF000},
		{vm.OpLWD, 0xF000}, {vm.OpSWD, 0xF000}, {vm.OpJMP, 0xF000}, {vm.OpJAL, 0xF000},
		{vm.OpADD, 0xF03F}, {vm.OpSUB, 0xF03F}, {vm.OpAND, 0xF03F}, {vm.OpORR, 0xF03F},
		{vm.OpNOT, 0xF03F}, {vm.OpTCP, 0xF03F}, {vm.OpSHL, 0xF03F}, {vm.OpSHR, 0xF03F},
		{vm.OpNOP, 0xF03F}, {vm.OpJPR, 0xF03F}, {vm.OpJRL, 0xF03F}, {vm.OpRWD, 0xF03F},
		{vm.OpWWD, 0xF03F}, {vm.OpHLT, 0xF03F}, {vm.OpENI, 0xF03F}, {vm.OpDSI, 0xF03F},
	}

	for _, c := range cases {
		// Set every bit outside the mask to 1 to stress that those bits are
		// truly ignored by the decoder for this opcode.
		w := vm.Word(c.op) | (^c.mask)
		got := vm.DecodeOpcode(w)
		assert.Equal(t, c.op, got, "word 0x%04X should decode to %v, got %v", uint16(w), c.op, got)
	}
}

func TestDecodeOpcode_UnmatchedWordIsIllegal(t *testing.T) {
	// 0xF01F is DSI (a real opcode); 0xF020 falls in the R-type funct space
	// but is not assigned to any instruction.
	assert.Equal(t, vm.OpILLEGAL, vm.DecodeOpcode(0xF020))
}

func TestFieldExtractors(t *testing.T) {
	// rs=2, rt=1, rd=3 -> bits [11:10]=10, [9:8]=01, [7:6]=11
	w := vm.Word(0xF000) | vm.Word(2<<10) | vm.Word(1<<8) | vm.Word(3<<6)
	assert.Equal(t, 2, vm.RS(w))
	assert.Equal(t, 1, vm.RT(w))
	assert.Equal(t, 3, vm.RD(w))
}

func TestImmI_SignExtends(t *testing.T) {
	w := vm.Word(0xFF) // low byte all ones
	assert.Equal(t, vm.Word(0xFFFF), vm.ImmI(w))
}

func TestImmU_ZeroExtends(t *testing.T) {
	w := vm.Word(0xFF)
	assert.Equal(t, vm.Word(0x00FF), vm.ImmU(w))
}

func TestImmH_ShiftsIntoHighByte(t *testing.T) {
	w := vm.Word(0x12)
	assert.Equal(t, vm.Word(0x1200), vm.ImmH(w))
}

func TestImmJ_Low12Bits(t *testing.T) {
	w := vm.Word(0x9ABC)
	assert.Equal(t, vm.Word(0xABC), vm.ImmJ(w))
}

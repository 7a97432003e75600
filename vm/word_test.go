package vm_test

import (
	"testing"

	"github.com/tsc-sim/tsc-sim/vm"
)

func TestSignExtend_PositiveIsIdentity(t *testing.T) {
	got := vm.SignExtend(0x34, 8)
	if got != 0x0034 {
		t.Errorf("SignExtend(0x34,8) = 0x%04X, want 0x0034", got)
	}
}

func TestSignExtend_NegativeFlipsHighBits(t *testing.T) {
	got := vm.SignExtend(0xFF, 8)
	if got != 0xFFFF {
		t.Errorf("SignExtend(0xFF,8) = 0x%04X, want 0xFFFF", got)
	}
}

func TestSignExtend_Idempotent(t *testing.T) {
	for _, v := range []vm.Word{0x00, 0x7F, 0x80, 0xFF, 0x34} {
		once := vm.SignExtend(v, 8)
		twice := vm.SignExtend(once, 8)
		if once != twice {
			t.Errorf("SignExtend not idempotent for 0x%02X: once=0x%04X twice=0x%04X", v, once, twice)
		}
	}
}

func TestSigned_RoundTrip(t *testing.T) {
	if vm.Signed(0xFFFF) != -1 {
		t.Errorf("Signed(0xFFFF) = %d, want -1", vm.Signed(0xFFFF))
	}
	if vm.Signed(0x0001) != 1 {
		t.Errorf("Signed(0x0001) = %d, want 1", vm.Signed(0x0001))
	}
}

func TestShift_CountMaskedTo5Bits(t *testing.T) {
	a := vm.Word(1)
	// 32 is masked to 0, so this must be a no-op shift.
	if got := a.ShiftLeft(32); got != 1 {
		t.Errorf("ShiftLeft(32) = %d, want 1 (count masked mod 32)", got)
	}
}

func TestArithmeticShiftRight_PreservesSign(t *testing.T) {
	neg := vm.Word(0x8000)
	got := neg.ArithmeticShiftRight(4)
	if vm.Signed(got) >= 0 {
		t.Errorf("ArithmeticShiftRight of a negative value produced non-negative result: 0x%04X", got)
	}
}

package vm

import "context"

// Step runs one fetch-decode-dispatch cycle (spec.md §4.J). Cycle and
// instruction counters increment once the dispatched class routine returns —
// whether it completed normally or returned a fault such as DMemError or
// Halt — but not when fetch or decode fails first: IMemError and
// IllegalInst are returned before any counter moves (spec.md §8 scenario 6).
func (m *Machine) Step() ExceptionStatus {
	pcAtFetch := m.PC
	word, ok := m.IMem.Access(true, m.PC, 0, MemRead)
	if !ok {
		return IMemError
	}

	op := DecodeOpcode(word)
	if op == OpILLEGAL {
		return IllegalInst
	}

	entry, _ := LookupISA(op)
	cv, _ := LookupControl(op)

	var status ExceptionStatus
	switch entry.Class {
	case ClassALU:
		status = m.execALU(cv, word)
	case ClassMem:
		status = m.execMem(cv, word)
	case ClassCtrl:
		status = m.execCtrl(cv, word)
	}

	m.Stats.Record(entry.Class)
	m.Log.Printf(1, m.Stats.Cycle, "cycle %d: pc=0x%04X %s\n", m.Stats.Cycle, uint16(pcAtFetch), Disassemble(pcAtFetch, word))

	return status
}

// Run steps the machine until a terminal ExceptionStatus is returned, or ctx
// is cancelled between steps. The loop itself has no suspension points
// (spec.md §5: "strictly single-threaded and synchronous"); ctx is checked
// once per iteration purely as a cooperative exit for a host driving Run in
// a goroutine it wants to be able to stop.
//
// A cancelled ctx reports Halt rather than a distinct status: callers so far
// only care that the loop stopped, not why. If a caller ever needs to tell
// cooperative cancellation apart from an actual HLT, this is the place to
// introduce a separate status.
func (m *Machine) Run(ctx context.Context) ExceptionStatus {
	for {
		select {
		case <-ctx.Done():
			return Halt
		default:
		}
		if status := m.Step(); status.Terminal() {
			return status
		}
	}
}

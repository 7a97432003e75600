package vm

import "fmt"

// Disassemble renders a single instruction word as its bare mnemonic text.
// It is a pure function of (pc, inst): no column alignment, hex framing, or
// color — that belongs to the CLI/debugger layer (spec.md §4.K, §9).
func Disassemble(pc Word, inst Word) string {
	op := DecodeOpcode(inst)
	entry, ok := LookupISA(op)
	if !ok {
		return "ILLEGAL"
	}

	rs, rt, rd := RS(inst), RT(inst), RD(inst)

	switch entry.Syntax {
	case SynRType:
		return fmt.Sprintf("%s $%d, $%d, $%d", entry.Mnemonic, rd, rs, rt)
	case SynR1OSD:
		return fmt.Sprintf("%s $%d, $%d", entry.Mnemonic, rd, rs)
	case SynRMisc:
		return entry.Mnemonic
	case SynRJump:
		return fmt.Sprintf("%s $%d", entry.Mnemonic, rs)
	case SynR1OPS:
		return fmt.Sprintf("%s $%d", entry.Mnemonic, rs)
	case SynR1OPD:
		return fmt.Sprintf("%s $%d", entry.Mnemonic, rd)
	case SynJType:
		return fmt.Sprintf("%s 0x%03X", entry.Mnemonic, ImmJ(inst))
	case SynIZext:
		return fmt.Sprintf("%s $%d, $%d, 0x%02X", entry.Mnemonic, rt, rs, ImmU(inst))
	case SynIType:
		switch op {
		case OpLWD, OpSWD:
			return fmt.Sprintf("%s $%d, %d($%d)", entry.Mnemonic, rt, int16(ImmI(inst)), rs)
		default:
			return fmt.Sprintf("%s $%d, $%d, %d", entry.Mnemonic, rt, rs, int16(ImmI(inst)))
		}
	case SynI1OPR:
		return fmt.Sprintf("%s $%d, 0x%02X", entry.Mnemonic, rt, ImmU(inst))
	case SynBType:
		return fmt.Sprintf("%s $%d, $%d, %d", entry.Mnemonic, rs, rt, int16(ImmI(inst)))
	case SynB1OPR:
		return fmt.Sprintf("%s $%d, %d", entry.Mnemonic, rs, int16(ImmI(inst)))
	default:
		return fmt.Sprintf("%s 0x%04X", entry.Mnemonic, inst)
	}
}

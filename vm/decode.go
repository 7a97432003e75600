package vm

// highNibbleTable maps bits [15:12] directly to an I/J-type opcode in O(1),
// per spec.md §9's suggested two-table strategy (in place of the prototype's
// linear mask-scan). Index 0xF is never populated here — those words fall
// through to functTable.
var highNibbleTable [16]Opcode

// functTable maps the 6-bit funct field (bits [5:0]) of an R-type word
// (high nibble 0xF) to its opcode in O(1).
var functTable [64]Opcode

func init() {
	for i := range highNibbleTable {
		highNibbleTable[i] = OpILLEGAL
	}
	for i := range functTable {
		functTable[i] = OpILLEGAL
	}
	for _, e := range isaTable {
		if e.Mask == maskR {
			functTable[Word(e.Opcode)&0x3F] = e.Opcode
		} else {
			highNibbleTable[Word(e.Opcode)>>12] = e.Opcode
		}
	}
}

// DecodeOpcode returns the unique opcode matching instruction word w under
// its mask, or OpILLEGAL if none matches. Disjointness of the ISA table's
// entries under their masks makes the result independent of table order.
func DecodeOpcode(w Word) Opcode {
	nibble := w >> 12
	if nibble != 0xF {
		return highNibbleTable[nibble]
	}
	return functTable[w&0x3F]
}

// RS extracts the rs field (bits [11:10]).
func RS(w Word) int { return int((w >> 10) & 0x3) }

// RT extracts the rt field (bits [9:8]).
func RT(w Word) int { return int((w >> 8) & 0x3) }

// RD extracts the rd field (bits [7:6]).
func RD(w Word) int { return int((w >> 6) & 0x3) }

// ImmI extracts and sign-extends the low 8 bits as a signed byte immediate.
func ImmI(w Word) Word { return SignExtend(w&0xFF, 8) }

// ImmU extracts the low 8 bits as a zero-extended immediate.
func ImmU(w Word) Word { return w & 0xFF }

// ImmH extracts the low 8 bits shifted into the high byte.
func ImmH(w Word) Word { return (w & 0xFF) << 8 }

// ImmJ extracts the low 12 bits as an absolute jump target.
func ImmJ(w Word) Word { return w & 0xFFF }

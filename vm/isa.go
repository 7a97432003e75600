package vm

// Opcode is the canonical key under its mask that identifies an instruction.
type Opcode Word

// Bit-exact opcode values (spec.md §6). Branch/I/J opcodes occupy the high
// nibble; R-type opcodes have high nibble 0xF and a distinct 6-bit funct.
const (
	OpBNE Opcode = 0x0000
	OpBEQ Opcode = 0x1000
	OpBGZ Opcode = 0x2000
	OpBLZ Opcode = 0x3000
	OpADI Opcode = 0x4000
	OpORI Opcode = 0x5000
	OpLHI Opcode = 0x6000
	OpLWD Opcode = 0x7000
	OpSWD Opcode = 0x8000
	OpJMP Opcode = 0x9000
	OpJAL Opcode = 0xA000

	OpADD Opcode = 0xF000
	OpSUB Opcode = 0xF001
	OpAND Opcode = 0xF002
	OpORR Opcode = 0xF003
	OpNOT Opcode = 0xF004
	OpTCP Opcode = 0xF005
	OpSHL Opcode = 0xF006
	OpSHR Opcode = 0xF007
	OpNOP Opcode = 0xF018
	OpJPR Opcode = 0xF019
	OpJRL Opcode = 0xF01A
	OpRWD Opcode = 0xF01B
	OpWWD Opcode = 0xF01C
	OpHLT Opcode = 0xF01D
	OpENI Opcode = 0xF01E
	OpDSI Opcode = 0xF01F

	// OpILLEGAL is reserved and never produced by an encoder or matched by a
	// real opcode's mask.
	OpILLEGAL Opcode = 0xFFFF
)

// Instruction masks. I/J opcodes mask out the low 12 bits (rs/rt/rd or the
// jump target occupy them); R-type opcodes mask out only rs/rt/rd (bits
// 6-11), keeping the high nibble and the 6-bit funct.
const (
	maskIJ = 0xF000
	maskR  = 0xF03F
)

// InstrBubble is the machine-generated NOP word (AND $0,$0,$0) used to squash
// pipeline stages in future multi-cycle/pipelined variants. It decodes as
// OpAND — BUBBLE is a particular encoding of AND, not a distinct opcode.
const InstrBubble Word = 0xF002

// SyntacticType is used only for disassembly text rendering.
type SyntacticType int

const (
	SynRType SyntacticType = iota
	SynRJump
	SynRMisc
	SynR1OSD
	SynR1OPS
	SynR1OPD
	SynJType
	SynIZext
	SynIType
	SynI1OPR
	SynBType
	SynB1OPR
	SynXType
)

// Class is the coarse instruction category used for dispatch and statistics.
type Class int

const (
	ClassALU Class = iota
	ClassMem
	ClassCtrl
)

// ISAEntry is a row of the static ISA table: opcode -> {mnemonic, mask,
// syntactic type, class}.
type ISAEntry struct {
	Opcode   Opcode
	Mnemonic string
	Mask     Word
	Syntax   SyntacticType
	Class    Class
}

// isaTable is the exhaustive, statically known ISA table. Every defined
// opcode appears exactly once; ILLEGAL appears in neither this table nor the
// control table.
var isaTable = []ISAEntry{
	{OpBNE, "BNE", maskIJ, SynBType, ClassCtrl},
	{OpBEQ, "BEQ", maskIJ, SynBType, ClassCtrl},
	{OpBGZ, "BGZ", maskIJ, SynB1OPR, ClassCtrl},
	{OpBLZ, "BLZ", maskIJ, SynB1OPR, ClassCtrl},
	{OpADI, "ADI", maskIJ, SynIType, ClassALU},
	{OpORI, "ORI", maskIJ, SynIZext, ClassALU},
	{OpLHI, "LHI", maskIJ, SynI1OPR, ClassALU},
	{OpLWD, "LWD", maskIJ, SynIType, ClassMem},
	{OpSWD, "SWD", maskIJ, SynIType, ClassMem},
	{OpJMP, "JMP", maskIJ, SynJType, ClassCtrl},
	{OpJAL, "JAL", maskIJ, SynJType, ClassCtrl},

	{OpADD, "ADD", maskR, SynRType, ClassALU},
	{OpSUB, "SUB", maskR, SynRType, ClassALU},
	{OpAND, "AND", maskR, SynRType, ClassALU},
	{OpORR, "ORR", maskR, SynRType, ClassALU},
	{OpNOT, "NOT", maskR, SynR1OSD, ClassALU},
	{OpTCP, "TCP", maskR, SynR1OSD, ClassALU},
	{OpSHL, "SHL", maskR, SynRType, ClassALU},
	{OpSHR, "SHR", maskR, SynRType, ClassALU},
	{OpNOP, "NOP", maskR, SynRMisc, ClassCtrl},
	{OpJPR, "JPR", maskR, SynRJump, ClassCtrl},
	{OpJRL, "JRL", maskR, SynRJump, ClassCtrl},
	{OpRWD, "RWD", maskR, SynR1OPD, ClassCtrl},
	{OpWWD, "WWD", maskR, SynR1OPS, ClassCtrl},
	{OpHLT, "HLT", maskR, SynRMisc, ClassCtrl},
	{OpENI, "ENI", maskR, SynRMisc, ClassCtrl},
	{OpDSI, "DSI", maskR, SynRMisc, ClassCtrl},
}

var isaByOpcode = func() map[Opcode]ISAEntry {
	m := make(map[Opcode]ISAEntry, len(isaTable))
	for _, e := range isaTable {
		m[e.Opcode] = e
	}
	return m
}()

// LookupISA returns the ISA table entry for op, or false if op is not a
// defined opcode (e.g. OpILLEGAL).
func LookupISA(op Opcode) (ISAEntry, bool) {
	e, ok := isaByOpcode[op]
	return e, ok
}

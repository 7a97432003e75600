package vm

// BrType selects the next-PC computation.
type BrType int

const (
	BrN BrType = iota // sequential: pc+1
	BrB               // conditional relative branch
	BrJ               // absolute jump within the current 4K page
	BrI               // indirect: target is R[rs]
)

// BrMask values name which condition bits a branch tests. Values are the
// literal 2-bit patterns spec.md §4.H assigns them.
const (
	BrMaskNC Word = 0x0 // no condition: branch unconditionally
	BrMaskZF Word = 0x1 // test only the zero bit
	BrMaskSZ Word = 0x3 // test the full {sign,zero} pattern
)

// Op1Sel selects the ALU's first operand.
type Op1Sel int

const (
	Op1RS Op1Sel = iota
	Op1PC
	Op1Zero
)

// Op2Sel selects the ALU's second operand.
type Op2Sel int

const (
	Op2RT Op2Sel = iota
	Op2IM          // sign-extended 8-bit immediate
	Op2IL          // zero-extended 8-bit immediate
	Op2IH          // high-byte immediate
	Op2RS          // duplicate of operand 1, for unary ops routed through operand 2
	Op2N1          // constant -1 (0xFFFF)
	Op2P1          // constant 1
	Op2Zero
)

// DestSel selects which register a write-back targets.
type DestSel int

const (
	DestX  DestSel = iota // no destination
	DestRD                // rd field
	DestRT                // rt field
	DestR2                // fixed register 2 (link register convention)
)

// MemFcnSel mirrors MemFunc but lives in the control vector as a declared
// datapath directive distinct from the runtime Access call it drives.
type MemFcnSel = MemFunc

// IOSel selects the external I/O port action.
type IOSel int

const (
	IOX IOSel = iota
	IORead
	IOWrite
)

// WBSel selects the write-back data source.
type WBSel int

const (
	WBAlu WBSel = iota
	WBMem
	WBPC1 // pc+1, for link-register writes
	WBIOP // external I/O input port
	WBX   // no write-back
)

// ControlVector is the immutable set of datapath directives associated with
// one opcode. CSNext* fields are reserved for multi-cycle/pipelined variants
// and are carried, unused, by the single-cycle executor.
type ControlVector struct {
	Valid bool

	BrType  BrType
	BrMask  Word
	BrCond  Word
	RS1Oen  bool
	RS2Oen  bool
	RFWen   bool
	Op1Sel  Op1Sel
	Op2Sel  Op2Sel
	DestSel DestSel
	ALUFun  ALUFunc
	MemEn   bool
	MemFcn  MemFcnSel
	Halt    bool
	IOSel   IOSel
	WBSel   WBSel

	// Reserved for multi-cycle/pipelined datapaths; unused by the
	// single-cycle executor (spec.md §4.H, §9).
	CSNextBrType BrType
	CSNextWBSel  WBSel
}

// controlTable is the exhaustive, statically known control table. Every
// opcode present in isaTable has exactly one entry here.
var controlTable = map[Opcode]ControlVector{
	OpBNE: {Valid: true, BrType: BrB, BrMask: BrMaskZF, BrCond: 0, RS1Oen: true, RS2Oen: true, ALUFun: ALUSub},
	OpBEQ: {Valid: true, BrType: BrB, BrMask: BrMaskZF, BrCond: 1, RS1Oen: true, RS2Oen: true, ALUFun: ALUSub},
	// BGZ/BLZ compare rs against R[rt]; by assembler convention rt is
	// encoded as register 0, which the runtime never hardwires to zero
	// (spec.md §3) but test programs are expected to leave at 0.
	OpBGZ: {Valid: true, BrType: BrB, BrMask: BrMaskSZ, BrCond: 0, RS1Oen: true, RS2Oen: true, ALUFun: ALUSub},
	OpBLZ: {Valid: true, BrType: BrB, BrMask: BrMaskSZ, BrCond: 2, RS1Oen: true, RS2Oen: true, ALUFun: ALUSub},

	OpADI: {Valid: true, BrType: BrN, RS1Oen: true, RFWen: true, Op1Sel: Op1RS, Op2Sel: Op2IM, DestSel: DestRT, ALUFun: ALUAdd, WBSel: WBAlu},
	OpORI: {Valid: true, BrType: BrN, RS1Oen: true, RFWen: true, Op1Sel: Op1RS, Op2Sel: Op2IL, DestSel: DestRT, ALUFun: ALUOr, WBSel: WBAlu},
	OpLHI: {Valid: true, BrType: BrN, RFWen: true, Op1Sel: Op1Zero, Op2Sel: Op2IH, DestSel: DestRT, ALUFun: ALUIdb, WBSel: WBAlu},

	OpLWD: {Valid: true, BrType: BrN, RS1Oen: true, RFWen: true, Op1Sel: Op1RS, Op2Sel: Op2IM, DestSel: DestRT, ALUFun: ALUAdd, MemEn: true, MemFcn: MemRead, WBSel: WBMem},
	OpSWD: {Valid: true, BrType: BrN, RS1Oen: true, RS2Oen: true, Op1Sel: Op1RS, Op2Sel: Op2IM, ALUFun: ALUAdd, MemEn: true, MemFcn: MemWrite, DestSel: DestX, WBSel: WBX},

	OpJMP: {Valid: true, BrType: BrJ, DestSel: DestX, WBSel: WBX},
	OpJAL: {Valid: true, BrType: BrJ, RFWen: true, DestSel: DestR2, WBSel: WBPC1},

	OpADD: {Valid: true, BrType: BrN, RS1Oen: true, RS2Oen: true, RFWen: true, Op1Sel: Op1RS, Op2Sel: Op2RT, DestSel: DestRD, ALUFun: ALUAdd, WBSel: WBAlu},
	OpSUB: {Valid: true, BrType: BrN, RS1Oen: true, RS2Oen: true, RFWen: true, Op1Sel: Op1RS, Op2Sel: Op2RT, DestSel: DestRD, ALUFun: ALUSub, WBSel: WBAlu},
	OpAND: {Valid: true, BrType: BrN, RS1Oen: true, RS2Oen: true, RFWen: true, Op1Sel: Op1RS, Op2Sel: Op2RT, DestSel: DestRD, ALUFun: ALUAnd, WBSel: WBAlu},
	OpORR: {Valid: true, BrType: BrN, RS1Oen: true, RS2Oen: true, RFWen: true, Op1Sel: Op1RS, Op2Sel: Op2RT, DestSel: DestRD, ALUFun: ALUOr, WBSel: WBAlu},
	OpNOT: {Valid: true, BrType: BrN, RS1Oen: true, RFWen: true, Op1Sel: Op1RS, Op2Sel: Op2N1, DestSel: DestRD, ALUFun: ALUXor, WBSel: WBAlu},
	OpTCP: {Valid: true, BrType: BrN, RS1Oen: true, RFWen: true, Op1Sel: Op1Zero, Op2Sel: Op2RS, DestSel: DestRD, ALUFun: ALUSub, WBSel: WBAlu},
	OpSHL: {Valid: true, BrType: BrN, RS1Oen: true, RS2Oen: true, RFWen: true, Op1Sel: Op1RS, Op2Sel: Op2RT, DestSel: DestRD, ALUFun: ALUSll, WBSel: WBAlu},
	OpSHR: {Valid: true, BrType: BrN, RS1Oen: true, RS2Oen: true, RFWen: true, Op1Sel: Op1RS, Op2Sel: Op2RT, DestSel: DestRD, ALUFun: ALUSrl, WBSel: WBAlu},

	OpNOP: {Valid: true, BrType: BrN, Op1Sel: Op1Zero, Op2Sel: Op2Zero, ALUFun: ALUIda, DestSel: DestX, WBSel: WBX},
	OpJPR: {Valid: true, BrType: BrI, RS1Oen: true, DestSel: DestX, WBSel: WBX},
	OpJRL: {Valid: true, BrType: BrI, RS1Oen: true, RFWen: true, DestSel: DestR2, WBSel: WBPC1},
	OpRWD: {Valid: true, BrType: BrN, RFWen: true, DestSel: DestRD, IOSel: IORead, WBSel: WBIOP},
	OpWWD: {Valid: true, BrType: BrN, RS1Oen: true, DestSel: DestX, IOSel: IOWrite, WBSel: WBX},
	OpHLT: {Valid: true, BrType: BrN, Halt: true, DestSel: DestX, WBSel: WBX},
	OpENI: {Valid: true, BrType: BrN, DestSel: DestX, WBSel: WBX},
	OpDSI: {Valid: true, BrType: BrN, DestSel: DestX, WBSel: WBX},
}

// LookupControl returns the control vector for op, or false if op is not a
// defined opcode. ILLEGAL appears in neither the ISA table nor this one.
func LookupControl(op Opcode) (ControlVector, bool) {
	cv, ok := controlTable[op]
	return cv, ok
}

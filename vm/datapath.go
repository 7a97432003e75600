package vm

// The three class routines below share one effect order across ALU, memory,
// and control instructions: read operands -> ALU -> memory -> PC update ->
// register write-back -> log (spec.md §5). That ordering is observable only
// through the log and is preserved even though no class has a true data
// dependency that would force it.

func (m *Machine) selectOp1(sel Op1Sel, rs1 Word) Word {
	switch sel {
	case Op1RS:
		return rs1
	case Op1PC:
		return m.PC
	default: // Op1Zero
		return 0
	}
}

func (m *Machine) selectOp2(sel Op2Sel, rs1, rs2, inst Word) Word {
	switch sel {
	case Op2RT:
		return rs2
	case Op2IM:
		return ImmI(inst)
	case Op2IL:
		return ImmU(inst)
	case Op2IH:
		return ImmH(inst)
	case Op2RS:
		return rs1
	case Op2N1:
		return 0xFFFF
	case Op2P1:
		return 1
	default: // Op2Zero
		return 0
	}
}

func selectDest(sel DestSel, rs, rt, rd int) int {
	switch sel {
	case DestRD:
		return rd
	case DestRT:
		return rt
	case DestR2:
		return 2
	default:
		return 0
	}
}

// execALU runs the ALU-class routine (spec.md §4.I "ALU class").
func (m *Machine) execALU(cv ControlVector, inst Word) ExceptionStatus {
	rs, rt, rd := RS(inst), RT(inst), RD(inst)
	rs1, _ := m.Regs.Read(rs)
	rs2, _ := m.Regs.Read(rt)

	alu1 := m.selectOp1(cv.Op1Sel, rs1)
	alu2 := m.selectOp2(cv.Op2Sel, rs1, rs2, inst)
	aluOut := m.alu.Op(cv.ALUFun, alu1, alu2)

	rdest := selectDest(cv.DestSel, rs, rt, rd)
	pcNext := m.PC.Add(1)
	m.PC = pcNext
	if cv.RFWen {
		_ = m.Regs.Write(rdest, aluOut)
	}
	return None
}

// execMem runs the memory-class routine (spec.md §4.I "Memory class").
func (m *Machine) execMem(cv ControlVector, inst Word) ExceptionStatus {
	rs, rt := RS(inst), RT(inst)
	rs1, _ := m.Regs.Read(rs)
	memAddr := rs1.Add(ImmI(inst))

	var result Word
	var ok bool
	switch cv.MemFcn {
	case MemRead:
		result, ok = m.DMem.Access(true, memAddr, 0, MemRead)
	case MemWrite:
		data, _ := m.Regs.Read(rt)
		_, ok = m.DMem.Access(true, memAddr, data, MemWrite)
	default:
		ok = true
	}
	if !ok {
		return DMemError
	}

	m.PC = m.PC.Add(1)
	if cv.MemFcn == MemRead {
		_ = m.Regs.Write(rt, result)
	}
	return None
}

// execCtrl runs the control-class routine (spec.md §4.I "Control class").
func (m *Machine) execCtrl(cv ControlVector, inst Word) ExceptionStatus {
	if cv.Halt {
		return Halt
	}

	rs, rt, rd := RS(inst), RT(inst), RD(inst)
	rs1, _ := m.Regs.Read(rs)
	rs2, _ := m.Regs.Read(rt)

	aluOut := m.alu.Op(cv.ALUFun, rs1, rs2)
	var zf, sf Word
	if aluOut == 0 {
		zf = 0x1
	}
	if aluOut&0x8000 != 0 {
		sf = 0x2
	}
	condition := (zf|sf)&cv.BrMask == cv.BrCond

	var pcNext Word
	switch cv.BrType {
	case BrJ:
		pcNext = (m.PC & 0xF000) | ImmJ(inst)
	case BrB:
		if condition {
			pcNext = m.PC.Add(1).Add(ImmI(inst))
		} else {
			pcNext = m.PC.Add(1)
		}
	case BrI:
		pcNext = rs1
	default: // BrN
		pcNext = m.PC.Add(1)
	}

	rdest := selectDest(cv.DestSel, rs, rt, rd)
	var wbData Word
	switch cv.WBSel {
	case WBAlu:
		wbData = aluOut
	case WBPC1:
		wbData = m.PC.Add(1)
	case WBIOP:
		wbData = m.IOSource.Read()
	default:
		wbData = 0
	}

	if cv.IOSel == IOWrite {
		m.IOSink.Write(rs1)
	}

	m.PC = pcNext
	if cv.RFWen {
		_ = m.Regs.Write(rdest, wbData)
	}
	return None
}

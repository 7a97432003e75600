// Package loader turns a program image file (ELF or raw hex) into the
// sequence of memory writes and entry point spec.md §6 describes as the
// core's only program-loading contract: (entry_point, writes: (memory,
// address, word)*).
package loader

import (
	"encoding/binary"
	"fmt"

	"github.com/yalue/elf_reader"

	"github.com/tsc-sim/tsc-sim/vm"
)

// TSCMachineType is the ELF e_machine value spec.md §6 reserves for TSC
// program images: "verify 32-bit little-endian ELF with machine type 0x75C".
const TSCMachineType = 0x75C

// elfPTLoad is the standard ELF program header type for a loadable segment.
const elfPTLoad = 1

// MemoryLayout describes the destination memory windows a loader maps
// segments onto, in word units — enough information to decide, per address,
// whether a write targets imem or dmem without reaching into vm.Machine.
type MemoryLayout struct {
	SplitMemory bool
	DMemStart   uint32
	DMemSize    uint32
}

// LoadELF parses an ELF32 little-endian TSC image and builds the Image of
// writes it describes. A segment's address routes to DMem when layout is
// split and the address falls inside the dmem window (spec.md §6: "map each
// segment's virtual address to the appropriate memory window"); otherwise it
// routes to IMem.
//
// Segment bytes are grouped two at a time and decoded little-endian at the
// source level (spec.md §6, §9); byte order inside Memory's backing buffer
// is a detail this loader never touches — it only ever produces Word values
// for Memory.Access to store.
func LoadELF(data []byte, layout MemoryLayout) (Image, error) {
	file, err := elf_reader.ParseELFFile(data)
	if err != nil {
		return Image{}, fmt.Errorf("parse ELF: %w", err)
	}
	if file.Is64Bit() {
		return Image{}, fmt.Errorf("TSC program images must be ELF32, got ELF64")
	}
	if file.IsBigEndian() {
		return Image{}, fmt.Errorf("TSC program images must be little-endian")
	}

	header, err := file.GetFileHeader()
	if err != nil {
		return Image{}, fmt.Errorf("read ELF header: %w", err)
	}
	if header.Machine != TSCMachineType {
		return Image{}, fmt.Errorf("unexpected ELF machine type 0x%X, want 0x%X", header.Machine, TSCMachineType)
	}

	var writes []Write
	count := file.GetProgramHeaderCount()
	for i := uint16(0); i < count; i++ {
		ph, err := file.GetProgramHeader(i)
		if err != nil {
			return Image{}, fmt.Errorf("read program header %d: %w", i, err)
		}
		if ph.Type != elfPTLoad {
			continue
		}
		content, err := file.GetProgramContent(i)
		if err != nil {
			return Image{}, fmt.Errorf("read segment %d content: %w", i, err)
		}
		writes = append(writes, segmentWrites(ph.VirtualAddress, content, layout)...)
	}

	return Image{EntryPoint: vm.Word(header.Entry), Writes: writes}, nil
}

// segmentWrites decodes content two bytes at a time (TSC's word size) into
// consecutive Writes starting at the word address vaddr/WordSize. A trailing
// odd byte, if present, is zero-padded into a final word.
func segmentWrites(vaddr uint32, content []byte, layout MemoryLayout) []Write {
	writes := make([]Write, 0, (len(content)+1)/vm.WordSize)
	wordAddr := vaddr / vm.WordSize
	for i := 0; i < len(content); i += vm.WordSize {
		var buf [vm.WordSize]byte
		copy(buf[:], content[i:])
		word := vm.Word(binary.LittleEndian.Uint16(buf[:]))

		target := IMem
		if layout.SplitMemory && wordAddr >= layout.DMemStart && wordAddr < layout.DMemStart+layout.DMemSize {
			target = DMem
		}
		writes = append(writes, Write{Target: target, Addr: vm.Word(wordAddr), Value: word})
		wordAddr++
	}
	return writes
}

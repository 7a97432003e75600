package loader

import (
	"encoding/binary"

	"github.com/tsc-sim/tsc-sim/vm"
)

// LoadHex builds an Image from a raw byte stream, loaded contiguously at
// address 0 with entry point 0 (spec.md §6). Bytes are decoded two at a time,
// little-endian, the same source-level convention LoadELF uses; a trailing
// odd byte is zero-padded into a final word.
func LoadHex(data []byte) Image {
	writes := make([]Write, 0, (len(data)+1)/vm.WordSize)
	for i, addr := 0, vm.Word(0); i < len(data); i, addr = i+vm.WordSize, addr.Add(1) {
		var buf [vm.WordSize]byte
		copy(buf[:], data[i:])
		word := vm.Word(binary.LittleEndian.Uint16(buf[:]))
		writes = append(writes, Write{Target: IMem, Addr: addr, Value: word})
	}
	return Image{EntryPoint: 0, Writes: writes}
}

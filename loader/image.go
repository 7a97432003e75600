package loader

import (
	"fmt"

	"github.com/tsc-sim/tsc-sim/vm"
)

// MemKind names which of a Machine's two memory windows a Write targets.
type MemKind int

const (
	IMem MemKind = iota
	DMem
)

// Write is one (memory, address, word) triple from a loaded program image
// (spec.md §6's "Program image input" contract).
type Write struct {
	Target MemKind
	Addr   vm.Word
	Value  vm.Word
}

// Image is a fully parsed program image, ready to apply to a Machine.
type Image struct {
	EntryPoint vm.Word
	Writes     []Write
}

// Apply performs every write in img against m, routing IMem/DMem writes to
// m.IMem/m.DMem respectively (the same Memory in a non-split configuration).
func (img Image) Apply(m *vm.Machine) error {
	for _, w := range img.Writes {
		mem := m.IMem
		if w.Target == DMem {
			mem = m.DMem
		}
		if _, ok := mem.Access(true, w.Addr, w.Value, vm.MemWrite); !ok {
			return &LoadError{Addr: w.Addr}
		}
	}
	return nil
}

// LoadError reports that an image write fell outside the target memory's
// window. This is a host-side error (spec.md §7): it never becomes a
// vm.ExceptionStatus.
type LoadError struct {
	Addr vm.Word
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("image write out of range at address 0x%04X", uint16(e.Addr))
}

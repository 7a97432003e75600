package loader

import (
	"fmt"
	"os"

	"github.com/tsc-sim/tsc-sim/vm"
)

// DumpMemory bulk-reads mem's entire window and writes it to path, backing
// the CLI's --output flag.
func DumpMemory(mem *vm.Memory, path string) error {
	data, err := mem.CopyFrom(mem.Start*vm.WordSize, mem.Size*vm.WordSize)
	if err != nil {
		return fmt.Errorf("read memory for dump: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadMemory bulk-loads path's raw bytes into mem starting at its window's
// base address, backing the CLI's --input flag.
func LoadMemory(mem *vm.Memory, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := mem.CopyTo(mem.Start*vm.WordSize, data); err != nil {
		return fmt.Errorf("load memory from %s: %w", path, err)
	}
	return nil
}

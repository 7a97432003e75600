package debugger

import (
	"fmt"
	"sync"

	"github.com/tsc-sim/tsc-sim/vm"
)

// Breakpoint is a stop point at a specific instruction address.
type Breakpoint struct {
	ID        int
	Address   vm.Word
	Enabled   bool
	Temporary bool // auto-deleted after first hit
	HitCount  int
}

// BreakpointManager manages the set of active breakpoints, keyed by address
// (TSC has no conditional-expression breakpoints — spec.md defines no
// assembly-text symbol table for an evaluator to resolve against).
type BreakpointManager struct {
	mu          sync.RWMutex
	breakpoints map[vm.Word]*Breakpoint
	nextID      int
}

// NewBreakpointManager creates an empty breakpoint manager.
func NewBreakpointManager() *BreakpointManager {
	return &BreakpointManager{
		breakpoints: make(map[vm.Word]*Breakpoint),
		nextID:      1,
	}
}

// AddBreakpoint sets (or re-enables) a breakpoint at address.
func (bm *BreakpointManager) AddBreakpoint(address vm.Word, temporary bool) *Breakpoint {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bp, exists := bm.breakpoints[address]; exists {
		bp.Enabled = true
		bp.Temporary = temporary
		return bp
	}

	bp := &Breakpoint{ID: bm.nextID, Address: address, Enabled: true, Temporary: temporary}
	bm.breakpoints[address] = bp
	bm.nextID++
	return bp
}

// DeleteBreakpointAt removes the breakpoint at address.
func (bm *BreakpointManager) DeleteBreakpointAt(address vm.Word) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if _, exists := bm.breakpoints[address]; !exists {
		return fmt.Errorf("no breakpoint at address 0x%04X", uint16(address))
	}
	delete(bm.breakpoints, address)
	return nil
}

// GetBreakpoint returns the breakpoint at address, or nil.
func (bm *BreakpointManager) GetBreakpoint(address vm.Word) *Breakpoint {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	return bm.breakpoints[address]
}

// GetAllBreakpoints returns every breakpoint, in no particular order.
func (bm *BreakpointManager) GetAllBreakpoints() []*Breakpoint {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	result := make([]*Breakpoint, 0, len(bm.breakpoints))
	for _, bp := range bm.breakpoints {
		result = append(result, bp)
	}
	return result
}

// Clear removes every breakpoint.
func (bm *BreakpointManager) Clear() {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bm.breakpoints = make(map[vm.Word]*Breakpoint)
}

// Count returns the number of breakpoints.
func (bm *BreakpointManager) Count() int {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	return len(bm.breakpoints)
}

// ProcessHit increments the hit count for the breakpoint at address (if any
// and enabled), removing it first if temporary. Returns a copy of the
// breakpoint that was hit, or nil if none exists there.
func (bm *BreakpointManager) ProcessHit(address vm.Word) *Breakpoint {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	bp, exists := bm.breakpoints[address]
	if !exists || !bp.Enabled {
		return nil
	}

	bp.HitCount++
	result := *bp

	if bp.Temporary {
		delete(bm.breakpoints, address)
	}
	return &result
}

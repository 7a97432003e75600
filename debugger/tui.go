package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/tsc-sim/tsc-sim/vm"
)

// TUI is the tview-based text interface: register panel, disassembly window
// around PC, and a data-memory hex dump (SPEC_FULL.md §4.4). TSC has no
// stack pointer register and no source-level debug info, so the teacher's
// source and stack panels have no equivalent here.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application
	Pages    *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	RegisterView    *tview.TextView
	MemoryView      *tview.TextView
	DisassemblyView *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField

	MemoryAddress vm.Word
}

// NewTUI builds a TUI around an existing Debugger.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{
		Debugger: d,
		App:      tview.NewApplication(),
	}

	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()

	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.DisassemblyView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.DisassemblyView.SetBorder(true).SetTitle(" Disassembly ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.DisassemblyView, 0, 2, false).
		AddItem(t.MemoryView, 0, 1, false)

	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, RegisterGroupSize+2, 0, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.LeftPanel, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd != "" {
		t.executeCommand(cmd)
		t.CommandInput.SetText("")
	}
}

func (t *TUI) executeCommand(cmd string) {
	t.Debugger.Output.Reset()
	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}
	t.RefreshAll()
}

// WriteOutput appends text to the output panel.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from the current machine state.
func (t *TUI) RefreshAll() {
	t.UpdateRegisterView()
	t.UpdateMemoryView()
	t.UpdateDisassemblyView()
	t.UpdateBreakpointsView()
	t.App.Draw()
}

func (t *TUI) UpdateRegisterView() {
	m := t.Debugger.Machine
	snap := m.Regs.Snapshot()

	var cols []string
	for i, v := range snap {
		cols = append(cols, fmt.Sprintf("$%d: 0x%04X", i, uint16(v)))
	}

	lines := []string{
		strings.Join(cols, "  "),
		"",
		fmt.Sprintf("PC: 0x%04X", uint16(m.PC)),
		fmt.Sprintf("Cycle: %d  Instructions: %d", m.Stats.Cycle, m.Stats.ICount),
		fmt.Sprintf("Last status: %s", t.Debugger.LastStatus),
	}
	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) UpdateMemoryView() {
	m := t.Debugger.Machine
	addr := t.MemoryAddress

	var lines []string
	lines = append(lines, fmt.Sprintf("[yellow]dmem @ 0x%04X[white]", uint16(addr)))

	for row := 0; row < MemoryDisplayRows; row++ {
		rowAddr := vm.Word(int(addr) + row*MemoryDisplayColumns)
		line := fmt.Sprintf("0x%04X: ", uint16(rowAddr))

		var cells []string
		for col := 0; col < MemoryDisplayColumns; col++ {
			a := vm.Word(int(rowAddr) + col)
			v, ok := m.DMem.Access(true, a, 0, vm.MemRead)
			if !ok {
				cells = append(cells, "????")
				continue
			}
			cells = append(cells, fmt.Sprintf("%04X", uint16(v)))
		}
		line += strings.Join(cells, " ")
		lines = append(lines, line)
	}
	t.MemoryView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) UpdateDisassemblyView() {
	m := t.Debugger.Machine
	pc := m.PC

	start := int(pc) - DisasmContextBefore
	if start < 0 {
		start = 0
	}

	var lines []string
	for i := 0; i < DisasmContextBefore+DisasmContextAfter; i++ {
		addr := vm.Word(start + i)
		inst, ok := m.IMem.Access(true, addr, 0, vm.MemRead)
		if !ok {
			continue
		}

		marker, color := "  ", "white"
		if addr == pc {
			marker, color = "->", "yellow"
		}
		if t.Debugger.Breakpoints.GetBreakpoint(addr) != nil {
			marker = "* "
		}

		lines = append(lines, fmt.Sprintf("[%s]%s 0x%04X: %s[white]",
			color, marker, uint16(addr), vm.Disassemble(addr, inst)))
	}
	t.DisassemblyView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) UpdateBreakpointsView() {
	bps := t.Debugger.Breakpoints.GetAllBreakpoints()

	var lines []string
	if len(bps) == 0 {
		lines = append(lines, "[yellow]no breakpoints set[white]")
	}
	for _, bp := range bps {
		status, color := "enabled", "green"
		if !bp.Enabled {
			status, color = "disabled", "red"
		}
		lines = append(lines, fmt.Sprintf("  %d: [%s]%s[white] 0x%04X (hits: %d)",
			bp.ID, color, status, uint16(bp.Address), bp.HitCount))
	}
	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI's event loop; it blocks until the user quits.
func (t *TUI) Run() error {
	t.RefreshAll()
	t.WriteOutput("[green]tscsim debugger[white]\n")
	t.WriteOutput("Press F1 for help, F5 to continue, F11 to step\n")
	t.WriteOutput("Type 'help' for the full command list\n\n")

	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop terminates the TUI's event loop.
func (t *TUI) Stop() {
	t.App.Stop()
}

// RunTUI builds and runs a TUI around d; it blocks until the user quits.
func RunTUI(d *Debugger) error {
	return NewTUI(d).Run()
}

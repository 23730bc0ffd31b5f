package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/ktnack/interp"
)

// TUI is the text user interface for the IR stepper, grounded in the
// teacher's TUI (debugger/tui.go): the same Flex-panel-plus-command-input
// layout, with ARM register/disassembly/memory panels replaced by a
// Program view (IP and surrounding instructions) and a Stack view.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application
	Pages    *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	ProgramView     *tview.TextView
	StackView       *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI creates a new text user interface over dbg.
func NewTUI(dbg *Debugger) *TUI {
	t := &TUI{
		Debugger: dbg,
		App:      tview.NewApplication(),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.ProgramView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.ProgramView.SetBorder(true).SetTitle(" Program ")

	t.StackView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.StackView.SetBorder(true).SetTitle(" Stack ")

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
		AddItem(t.ProgramView, 0, 3, false).
		AddItem(t.StackView, 0, 2, false)

	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
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
	if key == tcell.KeyEnter {
		cmd := t.CommandInput.GetText()
		if cmd != "" {
			t.executeCommand(cmd)
			t.CommandInput.SetText("")
		}
	}
}

func (t *TUI) executeCommand(cmd string) {
	if c := strings.TrimSpace(cmd); c == "quit" || c == "q" || c == "exit" {
		t.App.Stop()
		return
	}

	t.Debugger.Output.Reset()

	err := t.Debugger.ExecuteCommand(cmd)
	for t.Debugger.Running {
		if shouldBreak, reason := t.Debugger.ShouldBreak(); shouldBreak {
			t.Debugger.Running = false
			t.Debugger.Printf("Stopped: %s at ip=%d\n", reason, t.Debugger.Interp.IP)
			break
		}
		if !t.Debugger.Interp.Step() {
			t.Debugger.Running = false
			switch t.Debugger.Interp.State {
			case interp.StateHalted:
				t.Debugger.Println("Program halted")
			case interp.StateIterationCap:
				t.Debugger.Println("Iteration cap exceeded")
			case interp.StateError:
				t.Debugger.Printf("Runtime error: %v\n", t.Debugger.Interp.LastErr)
			}
			break
		}
	}

	output := t.Debugger.GetOutput()
	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}

	t.RefreshAll()
}

// WriteOutput appends text to the output view.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel.
func (t *TUI) RefreshAll() {
	t.UpdateProgramView()
	t.UpdateStackView()
	t.UpdateBreakpointsView()
	t.App.Draw()
}

// UpdateProgramView shows instructions around the current IP.
func (t *TUI) UpdateProgramView() {
	t.ProgramView.Clear()

	ip := t.Debugger.Interp.IP
	program := t.Debugger.Interp.Program

	start := ip - 8
	if start < 0 {
		start = 0
	}
	end := ip + 16
	if end > len(program) {
		end = len(program)
	}

	var lines []string
	for i := start; i < end; i++ {
		marker, color := "  ", "white"
		if i == ip {
			marker, color = "->", "yellow"
		}
		if t.Debugger.Breakpoints.GetBreakpoint(i) != nil {
			marker = "* "
		}
		inst := program[i]
		lines = append(lines, fmt.Sprintf("[%s]%s %4d: %s[white]", color, marker, i, inst.Op))
	}
	t.ProgramView.SetText(strings.Join(lines, "\n"))
}

// UpdateStackView shows the current value stack, top first.
func (t *TUI) UpdateStackView() {
	t.StackView.Clear()

	stack := t.Debugger.Interp.Stack
	if len(stack) == 0 {
		t.StackView.SetText("[yellow]<empty>[white]")
		return
	}

	var lines []string
	for i := len(stack) - 1; i >= 0; i-- {
		lines = append(lines, fmt.Sprintf("%d: %s", len(stack)-1-i, FormatValue(stack[i])))
	}
	t.StackView.SetText(strings.Join(lines, "\n"))
}

// UpdateBreakpointsView lists all breakpoints and their hit counts.
func (t *TUI) UpdateBreakpointsView() {
	t.BreakpointsView.Clear()

	bps := t.Debugger.Breakpoints.GetAllBreakpoints()
	if len(bps) == 0 {
		t.BreakpointsView.SetText("[yellow]No breakpoints set[white]")
		return
	}

	var lines []string
	for _, bp := range bps {
		status, color := "enabled", "green"
		if !bp.Enabled {
			status, color = "disabled", "red"
		}
		lines = append(lines, fmt.Sprintf("%d: [%s]%s[white] ip=%d (hits: %d)", bp.ID, color, status, bp.IP, bp.HitCount))
	}
	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI event loop.
func (t *TUI) Run() error {
	t.RefreshAll()
	t.WriteOutput("[green]Ktnack IR Debugger[white]\n")
	t.WriteOutput("Press F1 for help, F5 to continue, F11 to step\n")
	t.WriteOutput("Type 'help' for the full command list\n\n")
	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop stops the TUI application.
func (t *TUI) Stop() {
	t.App.Stop()
}

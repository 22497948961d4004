package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// RunShiftTUI shows the live shift view. clockOut is called with the typed
// note when the worker confirms clocking out.
func RunShiftTUI(v ShiftView, clockOut func(note string) error) error {
	p := tea.NewProgram(NewShiftModel(v), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := finalModel.(ShiftModel)
	if !ok {
		return nil
	}
	switch {
	case m.Stopping():
		return clockOut(m.Note())
	case m.Exiting():
		fmt.Printf("\n💡 Your shift is still running since %s.\n", v.Started.Local().Format("15:04"))
		fmt.Printf("   Use 'punch out' to clock out.\n")
	}
	return nil
}

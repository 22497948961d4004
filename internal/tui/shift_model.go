package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/punch/internal/parser"
)

// ShiftView is what the live view shows about the open shift
type ShiftView struct {
	Worker      string
	Started     time.Time
	Location    string // address or coordinates of the clock-in
	WeekMinutes int    // closed shifts this week, current one excluded
}

type shiftKeys struct {
	ClockOut key.Binding
	Confirm  key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func (k shiftKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.ClockOut, k.Quit}
}

func (k shiftKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.ClockOut, k.Confirm, k.Back, k.Quit}}
}

func newShiftKeys() shiftKeys {
	return shiftKeys{
		ClockOut: key.NewBinding(key.WithKeys("o", "O"), key.WithHelp("o", "clock out")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("esc/q", "exit (keep running)")),
	}
}

// ShiftModel is the live view of a shift in progress
type ShiftModel struct {
	width  int
	height int
	shift  ShiftView
	now    func() time.Time

	elapsed time.Duration
	frame   int // animation frame

	keys shiftKeys
	help help.Model
	note textinput.Model

	noting   bool // asking for a clock-out note
	stopping bool // confirmed clock-out
	exiting  bool // left the view, shift keeps running
}

// tickMsg is sent every second to update the clock
type tickMsg time.Time

// animationTickMsg is sent for faster animations
type animationTickMsg struct{}

func NewShiftModel(v ShiftView) ShiftModel {
	note := textinput.New()
	note.Placeholder = "optional note, enter to clock out"
	note.CharLimit = 200
	note.Width = 40

	return ShiftModel{
		shift:   v,
		now:     time.Now,
		elapsed: time.Since(v.Started),
		keys:    newShiftKeys(),
		help:    help.New(),
		note:    note,
	}
}

func (m ShiftModel) Init() tea.Cmd {
	return tea.Batch(tick(), animate())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func animate() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg { return animationTickMsg{} })
}

func (m ShiftModel) done() bool {
	return m.stopping || m.exiting
}

func (m ShiftModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.elapsed = m.now().Sub(m.shift.Started)
		if m.done() {
			return m, nil
		}
		return m, tick()

	case animationTickMsg:
		m.frame = (m.frame + 1) % 4
		if m.done() {
			return m, nil
		}
		return m, animate()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.noting {
			return m.updateNote(msg)
		}
		switch {
		case key.Matches(msg, m.keys.ClockOut):
			m.noting = true
			return m, m.note.Focus()
		case key.Matches(msg, m.keys.Quit):
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m ShiftModel) updateNote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.noting = false
		m.stopping = true
		m.note.Blur()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.noting = false
		m.note.Blur()
		m.note.Reset()
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		m.exiting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)
	return m, cmd
}

// Stopping reports whether the worker confirmed clocking out
func (m ShiftModel) Stopping() bool { return m.stopping }

// Exiting reports whether the worker left the view without clocking out
func (m ShiftModel) Exiting() bool { return m.exiting }

// Note is the clock-out note typed by the worker
func (m ShiftModel) Note() string { return strings.TrimSpace(m.note.Value()) }

func (m ShiftModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Align(lipgloss.Center).
		Width(m.width).
		Render(m.help.View(m.keys))

	contentHeight := m.height - 2

	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderClockPanel(m.width, contentHeight), helpBar)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderClockPanel(leftWidth, contentHeight),
		"  ",
		m.renderDetailsPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func (m ShiftModel) renderClockPanel(width, height int) string {
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
	var components []string

	animChars := []string{"⏱", "⏲", "⏱", "⏲"}
	header := fmt.Sprintf("%s  ON SHIFT  %s", animChars[m.frame], animChars[m.frame])
	components = append(components, center.
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Render(header))

	components = append(components, center.
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Render(m.shift.Worker))

	var clockLines []string
	for _, line := range strings.Split(renderBigClock(m.elapsed), "\n") {
		clockLines = append(clockLines, center.Render(line))
	}
	components = append(components, strings.Join(clockLines, "\n"))

	components = append(components, center.
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Render("Clocked in at "+m.shift.Started.Local().Format("15:04:05")))

	if m.noting {
		components = append(components, center.Render(m.note.View()))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

func (m ShiftModel) renderDetailsPanel(width, height int) string {
	line := lipgloss.NewStyle().Align(lipgloss.Center).Width(width - 8)
	value := func(s, color string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
	}

	var b strings.Builder
	b.WriteString("\n")

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width-12).
		Padding(0, 1)
	b.WriteString(title.Render("punch"))
	b.WriteString("\n\n")

	where := m.shift.Location
	whereColor := ColorAccentBright
	if where == "" {
		where, whereColor = "unknown", ColorDisabledText
	}
	b.WriteString(line.Render("📍 Location: " + value(where, whereColor)))
	b.WriteString("\n")

	b.WriteString(line.Render("📅 Date: " + value(m.shift.Started.Local().Format("Mon Jan 02, 2006"), ColorSecondaryText)))
	b.WriteString("\n")

	week := m.shift.WeekMinutes + int(m.elapsed.Minutes())
	b.WriteString(line.Render("📊 This week: " + value(parser.FormatMinutes(week), ColorSuccess)))

	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

// bigDigits are 5 rows of 5 columns per glyph
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// clockText formats d as mm:ss, or hh:mm:ss from the first hour
func clockText(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func renderBigClock(d time.Duration) string {
	var lines [5]strings.Builder
	for _, r := range clockText(d) {
		glyph, ok := bigDigits[r]
		if !ok {
			continue
		}
		for i := range lines {
			lines[i].WriteString(glyph[i])
			lines[i].WriteString(" ")
		}
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	rows := make([]string, len(lines))
	for i := range lines {
		rows[i] = style.Render(lines[i].String())
	}
	return strings.Join(rows, "\n")
}

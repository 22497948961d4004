package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel() ShiftModel {
	started := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	m := NewShiftModel(ShiftView{Worker: "Ada", Started: started, Location: "Ward 4", WeekMinutes: 120})
	m.now = func() time.Time { return started.Add(90*time.Minute + 5*time.Second) }
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m ShiftModel, msg tea.Msg) (ShiftModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(ShiftModel)
	require.True(t, ok)
	return sm, cmd
}

func TestShiftModel_TickUpdatesElapsed(t *testing.T) {
	m := newTestModel()

	m, cmd := update(t, m, tickMsg(time.Now()))
	assert.Equal(t, 90*time.Minute+5*time.Second, m.elapsed)
	assert.NotNil(t, cmd, "keeps ticking")

	m, _ = update(t, m, animationTickMsg{})
	assert.Equal(t, 1, m.frame)
}

func TestShiftModel_ClockOutWithNote(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, keyRunes("o"))
	require.True(t, m.noting)

	for _, r := range "handover done" {
		m, _ = update(t, m, keyRunes(string(r)))
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.Stopping())
	assert.False(t, m.Exiting())
	assert.Equal(t, "handover done", m.Note())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = update(t, m, tickMsg(time.Now()))
	assert.Nil(t, cmd, "stops ticking once done")
}

func TestShiftModel_BackLeavesNoteMode(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, keyRunes("o"))
	m, _ = update(t, m, keyRunes("x"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.noting)
	assert.False(t, m.Stopping())
	assert.False(t, m.Exiting())
	assert.Empty(t, m.Note())
}

func TestShiftModel_QuitKeepsShift(t *testing.T) {
	for _, msg := range []tea.KeyMsg{keyRunes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m, cmd := update(t, newTestModel(), msg)
		assert.True(t, m.Exiting(), msg.String())
		assert.False(t, m.Stopping(), msg.String())
		require.NotNil(t, cmd)
	}
}

func TestShiftModel_View(t *testing.T) {
	m := newTestModel()
	assert.Equal(t, "Loading...", m.View())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = update(t, m, tickMsg(time.Now()))
	view := m.View()
	assert.Contains(t, view, "ON SHIFT")
	assert.Contains(t, view, "Ada")
	assert.Contains(t, view, "Ward 4")
	assert.Contains(t, view, "3h 30m", "week total includes the running shift")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})
	assert.NotContains(t, m.View(), "Ward 4", "narrow view hides details")
}

func TestClockText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "00:00", clockText(-time.Second))
	assert.Equal(t, "05:07", clockText(5*time.Minute+7*time.Second))
	assert.Equal(t, "01:30:05", clockText(90*time.Minute+5*time.Second))
	assert.Equal(t, 5, len(strings.Split(renderBigClock(time.Minute), "\n")))
}

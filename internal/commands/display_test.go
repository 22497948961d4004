package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/report"
)

func TestDisplayTimesheet(t *testing.T) {
	sheet := &report.WeekSheet{
		Start: time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC),
		Days:  [7]int{0, 425, 30, 0, 0, 0, 0},
		Total: 455,
	}

	var buf bytes.Buffer
	displayTimesheet(&buf, sheet)
	out := buf.String()

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "Day"))
	assert.Less(t, strings.Index(lines[0], "Sun"), strings.Index(lines[0], "Mon"), "week starts on Sunday")
	assert.Contains(t, lines[2], "7h 05m")
	assert.Contains(t, lines[2], "30m")
	assert.Contains(t, lines[2], "7h 35m")
	assert.Contains(t, out, "Week of Oct 11 to Oct 17, 2026")
}

func TestDisplayPairs(t *testing.T) {
	note := "handover done"
	in := time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)
	pairs := []models.ClockPair{
		{
			ClockIn: models.ClockEvent{Time: in.AddDate(0, 0, 1)},
		},
		{
			Duration: 480,
			ClockIn:  models.ClockEvent{Time: in},
			ClockOut: &models.ClockEvent{Time: out, Note: &note},
		},
		{
			ClockSkew: true,
			ClockIn:   models.ClockEvent{Time: in.AddDate(0, 0, -1)},
			ClockOut:  &models.ClockEvent{Time: in.AddDate(0, 0, -1).Add(-time.Minute)},
		},
	}

	var buf bytes.Buffer
	displayPairs(&buf, pairs, time.UTC)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[1], "2026-10-13")
	assert.Contains(t, lines[1], "running")
	assert.Contains(t, lines[2], "08:00")
	assert.Contains(t, lines[2], "16:00")
	assert.Contains(t, lines[2], "8h 00m")
	assert.Contains(t, lines[2], note)
	assert.Contains(t, lines[3], "0m*", "skewed shifts are marked")
}

func TestDisplayDashboard(t *testing.T) {
	from := time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)

	t.Run("with shifts", func(t *testing.T) {
		dash := &report.Dashboard{
			ClockedInCount:  1,
			TotalStaff:      3,
			AvgHoursPerDay:  2.5,
			HoursByDay:      []report.DailyStats{{Date: "2026-10-12", Hours: 17.5, Count: 2}},
			StaffCountByDay: []report.DailyStats{{Date: "2026-10-12", Hours: 17.5, Count: 2}},
			TopStaffByHours: []report.StaffHours{{WorkerID: 2, Name: "Ada", Hours: 9.5}, {WorkerID: 1, Name: "Grace", Hours: 8}},
		}
		var buf bytes.Buffer
		displayDashboard(&buf, dash, from, to)
		out := buf.String()

		assert.Contains(t, out, "2026-10-11 to 2026-10-17")
		assert.Contains(t, out, "1 of 3")
		assert.Contains(t, out, "2.50")
		assert.Contains(t, out, "17.50")
		assert.Less(t, strings.Index(out, "Ada"), strings.Index(out, "Grace"))
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		displayDashboard(&buf, &report.Dashboard{}, from, to)
		assert.Contains(t, buf.String(), "No closed shifts in this window.")
	})
}

func TestDisplayWorkers(t *testing.T) {
	workers := []models.Worker{
		{ID: 1, Subject: "ada", Name: "Ada Lovelace", Email: "ada@example.org", CurrentlyClocked: true},
		{ID: 2, Subject: "grace", Name: strings.Repeat("G", 40)},
	}
	var buf bytes.Buffer
	displayWorkers(&buf, workers)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Ada Lovelace")
	assert.True(t, strings.HasSuffix(lines[1], "yes"))
	assert.Contains(t, lines[2], strings.Repeat("G", 27)+"...")
	assert.True(t, strings.HasSuffix(lines[2], "no"))
}

func TestDisplaySettings(t *testing.T) {
	var buf bytes.Buffer
	s := models.DefaultLocationSettings()
	displaySettings(&buf, &s)
	assert.Contains(t, buf.String(), "Main Hospital")
	assert.Contains(t, buf.String(), "Perimeter: 2km")
}

func TestCustomHelpListsCommands(t *testing.T) {
	var buf bytes.Buffer
	showCustomHelp(&buf)
	for _, c := range rootCmd.Commands() {
		if c.Hidden || c.Name() == "completion" || c.Name() == "version" {
			continue
		}
		assert.Contains(t, buf.String(), "  "+c.Name(), c.Name())
	}
}

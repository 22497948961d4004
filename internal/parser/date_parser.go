package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// IsoDate is the day format used by the API and reports
const IsoDate = "2006-01-02"

var (
	slashDateRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	relativeRegex  = regexp.MustCompile(`^(\d+)\s+(day|days|week|weeks)(\s+ago)?$`)
)

// ParseDate parses a calendar day and returns its midnight in loc.
// Supported formats:
// - yyyy-mm-dd (e.g., "2026-10-12")
// - dd/mm/yyyy (e.g., "12/10/2026")
// - today, yesterday
// - X days / X weeks, counted back from today (e.g., "3 days", "2 weeks ago")
//
// An empty input returns the zero time and no error.
func ParseDate(input string, now time.Time, loc *time.Location) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch input {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if t, err := time.ParseInLocation(IsoDate, input, loc); err == nil {
		return t, nil
	}
	if t, err := parseSlashDate(input, loc); err == nil {
		return t, nil
	}
	if t, err := parseRelativeDay(input, today); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid date %q. Use: yyyy-mm-dd, dd/mm/yyyy, today, yesterday, X days or X weeks", input)
}

// ParseWindow parses a start/end pair. A missing start defaults to the
// beginning of the week of today, a missing end to today.
func ParseWindow(start, end string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	from, err := ParseDate(start, now, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	to, err := ParseDate(end, now, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}

	if to.IsZero() {
		to, _ = ParseDate("today", now, loc)
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -int(to.Weekday()))
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("start %s is after end %s", from.Format(IsoDate), to.Format(IsoDate))
	}
	return from, to, nil
}

// parseSlashDate parses dd/mm/yyyy format
func parseSlashDate(input string, loc *time.Location) (time.Time, error) {
	matches := slashDateRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return time.Time{}, fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return time.Time{}, fmt.Errorf("year must be between 2000 and 2100")
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)

	// Check if date is valid (handles leap years, etc.)
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	return date, nil
}

// parseRelativeDay parses "3 days", "1 week ago" and similar
func parseRelativeDay(input string, today time.Time) (time.Time, error) {
	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) < 3 {
		return time.Time{}, fmt.Errorf("invalid relative time format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "day", "days":
		if amount > 366 {
			return time.Time{}, fmt.Errorf("days must be between 0 and 366")
		}
		return today.AddDate(0, 0, -amount), nil
	case "week", "weeks":
		if amount > 53 {
			return time.Time{}, fmt.Errorf("weeks must be between 0 and 53")
		}
		return today.AddDate(0, 0, -7*amount), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time unit")
	}
}

// FormatMinutes renders a minute count as "7h 05m"
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

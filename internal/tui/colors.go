package tui

// Color constants for the punch TUI theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Worker name, titles
	ColorSecondaryText = "#B1B8C7" // Clock-in time, dates
	ColorDisabledText  = "#6D7383" // Missing values
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (teal theme)
	ColorAccentMain   = "#0D9488" // Borders, accent elements
	ColorAccentBright = "#2DD4BF" // Running clock, highlights

	// State Colors
	ColorError   = "#EF4444" // Refusals, errors
	ColorSuccess = "#22C55E" // Clocked in/out, totals
	ColorWarning = "#F59E0B" // Outside perimeter
)

// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Teal  = lipgloss.Color("#14B8A6")
	Slate = lipgloss.Color("#64748B")
	White = lipgloss.Color("#FFFFFF")
	Ink   = lipgloss.Color("#101624")
	Mist  = lipgloss.Color("#F4F6F8")
	Green = lipgloss.Color("#1F9D55")
	Red   = lipgloss.Color("#D64545")
	Amber = lipgloss.Color("#DE911D")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "->"
	Dot     = "●"
	Circle  = "○"
)

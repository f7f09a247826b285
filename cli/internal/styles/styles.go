// ABOUTME: Shared lipgloss styles for consistent CLI output
// ABOUTME: Defines the palette, text styles, status badges and bars used by commands

package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	Info      = lipgloss.Color("#3B82F6") // Blue

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted)

	// Label style for field names
	Label = lipgloss.NewStyle().
		Foreground(Muted).
		Width(22)

	// Value style for emphasized data
	Value = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(0, 1)
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusNeutral
)

func (l StatusLevel) color() lipgloss.Color {
	switch l {
	case StatusOK:
		return Secondary
	case StatusWarning:
		return Warning
	case StatusCritical:
		return Danger
	default:
		return Muted
	}
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	fg := lipgloss.Color("#FFFFFF")
	if level == StatusWarning {
		fg = lipgloss.Color("#000000")
	}

	return lipgloss.NewStyle().
		Background(level.color()).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// Colored renders text in the color of level.
func Colored(text string, level StatusLevel) string {
	return lipgloss.NewStyle().Foreground(level.color()).Bold(true).Render(text)
}

// GradeLevel classifies an average mark: 6 and above is a pass, 5 to 6 is
// borderline. A zero average means there are no marks.
func GradeLevel(avg float64) StatusLevel {
	switch {
	case avg == 0:
		return StatusNeutral
	case avg >= 6:
		return StatusOK
	case avg >= 5:
		return StatusWarning
	default:
		return StatusCritical
	}
}

// UsageLevel classifies how much of an allowance has been used.
func UsageLevel(percent float64) StatusLevel {
	switch {
	case percent <= 70:
		return StatusOK
	case percent <= 90:
		return StatusWarning
	default:
		return StatusCritical
	}
}

// FormatAverage renders an average with two decimals, or "-" when there are no marks.
func FormatAverage(avg float64) string {
	if avg == 0 {
		return "-"
	}
	return Colored(fmt.Sprintf("%.2f", avg), GradeLevel(avg))
}

// ProgressBar returns a styled progress bar string colored by UsageLevel.
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(UsageLevel(percent).color()).Render(bar)
}

// Histogram renders a bar proportional to count/peak.
func Histogram(count, peak, width int) string {
	if peak <= 0 {
		return ""
	}
	n := count * width / peak
	if n == 0 && count > 0 {
		n = 1
	}
	return lipgloss.NewStyle().Foreground(Info).Render(strings.Repeat("█", n))
}

// Field renders a "label value" line.
func Field(label, value string) string {
	return Label.Render(label) + Value.Render(value)
}

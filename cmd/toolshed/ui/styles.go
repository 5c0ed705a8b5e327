// Package ui provides the tabbed terminal interface for toolshed.
// Each tool renders as an independent page; the shell only switches
// between them.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette, light and dark variants.
var (
	LightForeground = lipgloss.Color("#1c2733")
	LightPrimary    = lipgloss.Color("#2563eb")
	LightAccent     = lipgloss.Color("#0d9488")
	LightMuted      = lipgloss.Color("#8a94a6")
	LightBorder     = lipgloss.Color("#d4dae3")

	DarkForeground = lipgloss.Color("#e6e9ef")
	DarkPrimary    = lipgloss.Color("#60a5fa")
	DarkAccent     = lipgloss.Color("#2dd4bf")
	DarkMuted      = lipgloss.Color("#6b7687")
	DarkBorder     = lipgloss.Color("#3a4456")

	// Semantic colors, same in both modes.
	Success = lipgloss.Color("#22c55e")
	Failure = lipgloss.Color("#ef4444")
	Warning = lipgloss.Color("#eab308")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme picks a theme from the environment. COLORFGBG is the only
// portable hint; default to dark, which most terminals run.
func DetectTheme() Theme {
	if v := os.Getenv("TOOLSHED_THEME"); v != "" {
		if strings.EqualFold(v, "light") {
			return LightTheme()
		}
		return DarkTheme()
	}
	if fgbg := os.Getenv("COLORFGBG"); fgbg != "" {
		parts := strings.Split(fgbg, ";")
		if len(parts) >= 2 {
			bg := parts[len(parts)-1]
			if bg == "7" || bg == "15" {
				return LightTheme()
			}
		}
	}
	return DarkTheme()
}

// Styles bundles every lipgloss style the pages use.
type Styles struct {
	Theme Theme

	// Layout
	Header lipgloss.Style
	Footer lipgloss.Style
	Panel  lipgloss.Style

	// Tabs
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Components
	Clock lipgloss.Style
}

// NewStyles creates a Styles instance for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Padding(0, 1).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		ActiveTab: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Padding(0, 2).
			Bold(true).
			Underline(true),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Failure).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning),

		Clock: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),
	}
}

// DefaultStyles builds styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

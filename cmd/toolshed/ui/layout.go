package ui

// Layout constants for consistent spacing across pages.
const (
	TabBarHeight  = 2
	FooterHeight  = 1
	PanelPadding  = 4
	ContentIndent = 2

	MinimumTerminalWidth  = 60
	MinimumTerminalHeight = 16
)

// pageHeight returns the height available to a page body.
func pageHeight(terminalHeight int) int {
	h := terminalHeight - TabBarHeight - FooterHeight
	if h < 1 {
		return 1
	}
	return h
}

// pageWidth returns the width available to a page body.
func pageWidth(terminalWidth int) int {
	w := terminalWidth - PanelPadding
	if w < 1 {
		return 1
	}
	return w
}

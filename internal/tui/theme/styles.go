package theme

import "charm.land/lipgloss/v2"

// Styles contains the pre-built lipgloss styles for the TUI.
type Styles struct {
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Item         lipgloss.Style
	ItemDisabled lipgloss.Style
	Cursor       lipgloss.Style
	Marker       lipgloss.Style
	Pending      lipgloss.Style
	Error        lipgloss.Style
	Panel        lipgloss.Style
}

package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// HexToColor converts a "#rrggbb" string into a color usable by tea.View.
// An empty string yields nil (terminal default).
func HexToColor(hex string) color.Color {
	if hex == "" {
		return nil
	}
	return lipgloss.Color(hex)
}

package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/roomprefs/internal/tui/theme"
)

// Dialog is a modal message box with a single button.
type Dialog struct {
	title   string
	message string
	button  string
	visible bool
	width   int
	height  int
	onClose func() tea.Cmd
}

func NewDialog() *Dialog {
	return &Dialog{button: "OK"}
}

// Show displays the dialog. onClose runs when it is dismissed.
func (d *Dialog) Show(title, message string, onClose func() tea.Cmd) {
	d.title = title
	d.message = message
	d.visible = true
	d.onClose = onClose
}

func (d *Dialog) Hide() {
	d.visible = false
}

func (d *Dialog) IsVisible() bool {
	return d.visible
}

func (d *Dialog) Title() string {
	return d.title
}

func (d *Dialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Update handles dialog input
func (d *Dialog) Update(msg tea.Msg) tea.Cmd {
	if !d.visible {
		return nil
	}

	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "enter", "space", "esc":
			d.Hide()
			if d.onClose != nil {
				return d.onClose()
			}
		}
	}
	return nil
}

// View renders the dialog box without positioning it.
func (d *Dialog) View() string {
	t := theme.Current()

	maxWidth := 60
	if d.width > 0 && d.width-10 < maxWidth {
		maxWidth = max(d.width-10, 10)
	}
	contentWidth := min(max(lipgloss.Width(d.message), lipgloss.Width(d.title)), maxWidth)

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Error)).
		Bold(true).
		Width(contentWidth).
		Align(lipgloss.Center).
		Render(d.title)
	message := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Width(contentWidth).
		Align(lipgloss.Center).
		Render(d.message)
	button := lipgloss.NewStyle().
		Width(contentWidth).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Primary)).
			Padding(0, 2).
			Render(d.button))

	content := lipgloss.JoinVertical(lipgloss.Center, title, "", message, "", button)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Error)).
		Padding(1, 3).
		Render(content)
}

// Draw renders the dialog centered on screen
func (d *Dialog) Draw(scr uv.Screen, area uv.Rectangle) {
	if !d.visible {
		return
	}

	box := d.View()
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	x := max((area.Dx()-w)/2, 0)
	y := max((area.Dy()-h)/2, 0)

	uv.NewStyledString(box).Draw(scr, uv.Rectangle{
		Min: uv.Position{X: area.Min.X + x, Y: area.Min.Y + y},
		Max: uv.Position{X: area.Min.X + x + w, Y: area.Min.Y + y + h},
	})
}

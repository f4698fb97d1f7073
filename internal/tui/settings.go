package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/roomprefs/internal/notification"
	"github.com/mark3labs/roomprefs/internal/optimistic"
	"github.com/mark3labs/roomprefs/internal/tui/theme"
)

// rowDefault is the "use default" toggle; mode rows follow it.
const rowDefault = 0

// SettingsView renders one room's notification settings from a presenter
// snapshot. It holds no setting state of its own besides the cursor.
type SettingsView struct {
	room    notification.Room
	state   optimistic.State[notification.Mode]
	cursor  int
	spinner spinner.Model
	width   int
	height  int
}

func NewSettingsView(room notification.Room) *SettingsView {
	return &SettingsView{
		room:    room,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))),
		),
	}
}

// Tick starts the status line spinner.
func (v *SettingsView) Tick() tea.Cmd {
	return v.spinner.Tick
}

// Update advances the spinner; other messages are ignored.
func (v *SettingsView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.spinner, cmd = v.spinner.Update(msg)
	return cmd
}

func (v *SettingsView) SetState(s optimistic.State[notification.Mode]) {
	v.state = s
}

func (v *SettingsView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *SettingsView) MoveUp() {
	if v.cursor > rowDefault {
		v.cursor--
	}
}

func (v *SettingsView) MoveDown() {
	if v.cursor < len(notification.Modes()) {
		v.cursor++
	}
}

// Cursor returns the highlighted row: 0 for the default toggle, then one
// row per mode.
func (v *SettingsView) Cursor() int {
	return v.cursor
}

// SelectedMode returns the mode under the cursor. ok is false on the
// default toggle.
func (v *SettingsView) SelectedMode() (notification.Mode, bool) {
	if v.cursor == rowDefault {
		return "", false
	}
	return notification.Modes()[v.cursor-1], true
}

func (v *SettingsView) statusLine() string {
	s := v.state
	st := theme.Current().S()
	switch {
	case s.Restore.Status == optimistic.InProgress:
		return v.spinner.View() + " " + st.Pending.Render("Updating default…")
	case s.Change.Status == optimistic.InProgress:
		return v.spinner.View() + " " + st.Pending.Render("Saving…")
	case s.Authoritative.Status == optimistic.Loading:
		return v.spinner.View() + " " + st.Subtitle.Render("Syncing…")
	case s.Authoritative.Status == optimistic.Failure:
		return st.Error.Render(fmt.Sprintf("Last refresh failed: %v (r to retry)", s.Authoritative.Err))
	}
	return ""
}

// View renders the settings panel.
func (v *SettingsView) View() string {
	st := theme.Current().S()
	var b strings.Builder

	b.WriteString(st.Title.Render("Notifications · " + v.room.DisplayName()))
	b.WriteString("\n")
	b.WriteString(st.Subtitle.Render(v.room.ID + " · " + v.room.Kind()))
	b.WriteString("\n\n")

	shown, ok := v.state.Displayed()
	if !ok {
		if v.state.Authoritative.Status == optimistic.Failure {
			b.WriteString(st.Error.Render(fmt.Sprintf("Couldn't load settings: %v", v.state.Authoritative.Err)))
			b.WriteString("\n")
			b.WriteString(st.Subtitle.Render("Press r to retry."))
		} else {
			b.WriteString(v.spinner.View() + " " + st.Subtitle.Render("Loading…"))
		}
		return st.Panel.Render(b.String())
	}

	pointer := func(row int) string {
		if row == v.cursor {
			return st.Cursor.Render("›") + " "
		}
		return "  "
	}

	check := "[ ]"
	if shown.IsDefault {
		check = "[x]"
	}
	b.WriteString(pointer(rowDefault))
	b.WriteString(st.Item.Render(fmt.Sprintf("%s Use default (%s)", check, shown.Default.Label())))
	if v.state.PendingDefault != nil {
		b.WriteString(" " + st.Pending.Render("pending"))
	}
	b.WriteString("\n\n")

	for i, mode := range notification.Modes() {
		radio := "( )"
		if shown.Value == mode {
			radio = "(•)"
		}
		style := st.Item
		if shown.IsDefault {
			style = st.ItemDisabled
		}
		b.WriteString(pointer(i + 1))
		b.WriteString(style.Render(radio + " " + mode.Label()))
		if v.state.PendingValue != nil && *v.state.PendingValue == mode {
			b.WriteString(" " + st.Pending.Render("pending"))
		}
		b.WriteString("\n")
	}

	if line := v.statusLine(); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return st.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// Draw renders the panel at the top-left of area.
func (v *SettingsView) Draw(scr uv.Screen, area uv.Rectangle) {
	content := v.View()
	w := min(lipgloss.Width(content), area.Dx())
	h := min(lipgloss.Height(content), area.Dy())
	uv.NewStyledString(content).Draw(scr, uv.Rectangle{
		Min: area.Min,
		Max: uv.Position{X: area.Min.X + w, Y: area.Min.Y + h},
	})
}

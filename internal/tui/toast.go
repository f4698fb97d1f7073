package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/roomprefs/internal/tui/theme"
)

// ToastDuration is how long a toast stays on screen.
const ToastDuration = 3 * time.Second

// ToastDismissMsg is sent when the toast with the given generation expires.
type ToastDismissMsg struct {
	gen int
}

// Toast shows a short message in the bottom-right corner.
type Toast struct {
	message string
	visible bool
	gen     int
}

func NewToast() *Toast {
	return &Toast{}
}

// Show displays msg, replacing any current toast.
func (t *Toast) Show(msg string) tea.Cmd {
	t.message = msg
	t.visible = true
	t.gen++
	gen := t.gen
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return ToastDismissMsg{gen: gen}
	})
}

// Update hides the toast when its own dismissal arrives. Dismissals of
// replaced toasts are ignored.
func (t *Toast) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(ToastDismissMsg); ok && msg.gen == t.gen {
		t.visible = false
		t.message = ""
	}
	return nil
}

func (t *Toast) IsVisible() bool {
	return t.visible
}

// Message returns the current message (empty if not visible).
func (t *Toast) Message() string {
	if !t.visible {
		return ""
	}
	return t.message
}

// Draw places the toast one row above the bottom-right corner of area.
func (t *Toast) Draw(scr uv.Screen, area uv.Rectangle) {
	if !t.visible || t.message == "" {
		return
	}

	th := theme.Current()
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.BgBase)).
		Background(lipgloss.Color(th.Warning)).
		Padding(0, 1).
		Bold(true)
	content := style.Render(t.message)
	if lipgloss.Width(content) > area.Dx()-2 && area.Dx() > 2 {
		content = style.Width(area.Dx() - 2).Render(t.message)
	}

	w, h := lipgloss.Width(content), lipgloss.Height(content)
	x := max(area.Max.X-w-1, area.Min.X)
	y := max(area.Max.Y-1-h, area.Min.Y)
	uv.NewStyledString(content).Draw(scr, uv.Rectangle{
		Min: uv.Position{X: x, Y: y},
		Max: uv.Position{X: x + w, Y: y + h},
	})
}

package tui

import (
	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/roomprefs/internal/notification"
	"github.com/mark3labs/roomprefs/internal/optimistic"
)

// Drawable components render to a screen rectangle
type Drawable interface {
	Draw(scr uv.Screen, area uv.Rectangle)
}

// Updateable components handle messages
type Updateable interface {
	Update(tea.Msg) tea.Cmd
}

// Sizable components track their dimensions
type Sizable interface {
	SetSize(width, height int)
}

// Presenter is the part of optimistic.Presenter the UI talks to.
type Presenter interface {
	Send(optimistic.Event) error
	Updates() <-chan optimistic.State[notification.Mode]
}

var (
	_ Drawable   = (*Dialog)(nil)
	_ Drawable   = (*Toast)(nil)
	_ Drawable   = (*SettingsView)(nil)
	_ Updateable = (*Dialog)(nil)
	_ Updateable = (*Toast)(nil)
	_ Updateable = (*SettingsView)(nil)
	_ Sizable    = (*Dialog)(nil)
	_ Sizable    = (*SettingsView)(nil)
)

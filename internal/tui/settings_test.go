package tui

import (
	"testing"

	"github.com/mark3labs/roomprefs/internal/notification"
	"github.com/mark3labs/roomprefs/internal/optimistic"
	"github.com/stretchr/testify/assert"
)

func TestSettingsViewSelectedMode(t *testing.T) {
	v := NewSettingsView(testRoom)

	_, ok := v.SelectedMode()
	assert.False(t, ok, "cursor starts on the default toggle")

	for _, want := range notification.Modes() {
		v.MoveDown()
		got, ok := v.SelectedMode()
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestSettingsViewPendingDefault(t *testing.T) {
	v := NewSettingsView(notification.Room{ID: "!dm:example.org", OneToOne: true})

	s := loaded(notification.Mute, false)
	restore := true
	s.PendingDefault = &restore
	s.Restore = optimistic.Action{Status: optimistic.InProgress}
	v.SetState(s)

	out := v.View()
	assert.Contains(t, out, "!dm:example.org · direct chat")
	assert.Contains(t, out, "[x] Use default (Mentions and keywords only)")
	assert.Contains(t, out, "(•) Mentions and keywords only")
	assert.Contains(t, out, "Updating default…")
}

func TestSettingsViewRefreshFailureKeepsValue(t *testing.T) {
	v := NewSettingsView(testRoom)

	s := loaded(notification.Mute, false)
	s.Authoritative.Status = optimistic.Failure
	s.Authoritative.Err = assert.AnError
	v.SetState(s)

	out := v.View()
	assert.Contains(t, out, "(•) Mute")
	assert.Contains(t, out, "Last refresh failed")
}

package main

import (
	"errors"
	"testing"

	"github.com/mark3labs/roomprefs/internal/notification"
	"github.com/mark3labs/roomprefs/internal/optimistic"
	"github.com/stretchr/testify/assert"
)

func TestDescribeSettings(t *testing.T) {
	assert.Equal(t, "Mentions and keywords only (default)", describeSettings(notification.Settings{
		Mode: notification.MentionsAndKeywordsOnly, IsDefault: true, Default: notification.MentionsAndKeywordsOnly,
	}))
	assert.Equal(t, "Mute (default is All messages)", describeSettings(notification.Settings{
		Mode: notification.Mute, Default: notification.AllMessages,
	}))
}

func TestFormatSnapshot(t *testing.T) {
	assert.Equal(t, "fetch=uninitialized", formatSnapshot(optimistic.State[notification.Mode]{}))

	mute := notification.Mute
	s := optimistic.State[notification.Mode]{
		Authoritative: optimistic.Async[optimistic.Setting[notification.Mode]]{
			Status:   optimistic.Failure,
			Value:    optimistic.Setting[notification.Mode]{Value: notification.AllMessages, IsDefault: true, Default: notification.AllMessages},
			HasValue: true,
			Err:      errors.New("timeout"),
		},
		PendingValue: &mute,
	}
	assert.Equal(t, `fetch=failure shown=mute pending=mute error="timeout"`, formatSnapshot(s))
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"ui", "get", "set", "restore", "defaults", "rooms", "watch", "troubleshoot", "mcp", "config"} {
		assert.Contains(t, names, want)
	}
}

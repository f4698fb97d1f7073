package tui

import (
	"github.com/mark3labs/roomprefs/internal/notification"
	"github.com/mark3labs/roomprefs/internal/optimistic"
	"github.com/mark3labs/roomprefs/internal/troubleshoot"
)

// StateMsg carries a new presenter snapshot.
type StateMsg struct {
	State optimistic.State[notification.Mode]
}

// PresenterClosedMsg is sent once the presenter has stopped.
type PresenterClosedMsg struct{}

// TestNotificationMsg carries a diagnostic notification to show.
type TestNotificationMsg struct {
	Notification troubleshoot.TestNotification
}

// ErrMsg reports a failure that is not part of presenter state.
type ErrMsg struct {
	Err error
}

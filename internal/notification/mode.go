package notification

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidMode = errors.New("invalid notification mode")
	ErrUnknownRoom = errors.New("unknown room")
	ErrInvalidRoom = errors.New("room needs an id or a name")
)

// Mode is a room notification mode.
type Mode string

const (
	AllMessages             Mode = "all"
	MentionsAndKeywordsOnly Mode = "mentions"
	Mute                    Mode = "mute"
)

// Modes lists every mode in display order.
func Modes() []Mode {
	return []Mode{AllMessages, MentionsAndKeywordsOnly, Mute}
}

// ParseMode accepts the short names plus a few long aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "all_messages", "all-messages":
		return AllMessages, nil
	case "mentions", "mentions_and_keywords_only", "mentions-and-keywords":
		return MentionsAndKeywordsOnly, nil
	case "mute", "muted", "none":
		return Mute, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case AllMessages, MentionsAndKeywordsOnly, Mute:
		return true
	}
	return false
}

// Label is the human readable name shown in the UI.
func (m Mode) Label() string {
	switch m {
	case AllMessages:
		return "All messages"
	case MentionsAndKeywordsOnly:
		return "Mentions and keywords only"
	case Mute:
		return "Mute"
	default:
		return string(m)
	}
}

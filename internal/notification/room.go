package notification

import (
	"github.com/gosimple/slug"
)

// Room is an entry in the room directory.
type Room struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Encrypted bool   `json:"encrypted"`
	OneToOne  bool   `json:"one_to_one"`
}

// DisplayName falls back to the ID for unnamed rooms.
func (r Room) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// Kind describes the room the way the default rules are split.
func (r Room) Kind() string {
	kind := "group room"
	if r.OneToOne {
		kind = "direct chat"
	}
	if r.Encrypted {
		return "encrypted " + kind
	}
	return kind
}

// RoomIDFromName derives a room ID for rooms created without one.
func RoomIDFromName(name string) string {
	return "!" + slug.Make(name) + ":local"
}

// kindKey names the default rule that applies to rooms of this kind.
func kindKey(encrypted, oneToOne bool) string {
	kind := "group"
	if oneToOne {
		kind = "one_to_one"
	}
	if encrypted {
		return kind + ".encrypted"
	}
	return kind + ".plain"
}

// BuiltinDefault is the default mode before any default rule is stored.
func BuiltinDefault(oneToOne bool) Mode {
	if oneToOne {
		return AllMessages
	}
	return MentionsAndKeywordsOnly
}

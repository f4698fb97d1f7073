package nats

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// BucketName is the KeyValue bucket holding room rules, default rules
	// and the room directory.
	BucketName = "roomprefs_settings"

	// SubjectTestNotification carries diagnostic test notifications.
	SubjectTestNotification = "roomprefs.troubleshoot.notification"

	subjectClickPrefix = "roomprefs.troubleshoot.click."

	roomRulePrefix = "rule.room."
	defaultPrefix  = "rule.default."
	roomInfoPrefix = "room."
)

// SubjectForClick returns the subject a click on test notification id is
// published to.
func SubjectForClick(id string) string {
	return subjectClickPrefix + id
}

// EncodeRoomID maps an opaque room ID (e.g. "!abc:example.org") onto the
// KV key alphabet.
func EncodeRoomID(roomID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(roomID))
}

// DecodeRoomID reverses EncodeRoomID.
func DecodeRoomID(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decoding room key %q: %w", encoded, err)
	}
	return string(raw), nil
}

// RoomRuleKey is the key of the per-room notification rule.
func RoomRuleKey(roomID string) string {
	return roomRulePrefix + EncodeRoomID(roomID)
}

// DefaultRuleKey is the key of the default rule for a room kind
// (e.g. "group.encrypted").
func DefaultRuleKey(kind string) string {
	return defaultPrefix + kind
}

// DefaultRulePattern matches the keys of every default rule.
func DefaultRulePattern() string {
	return defaultPrefix + ">"
}

// IsDefaultRuleKey reports whether key holds a default rule.
func IsDefaultRuleKey(key string) bool {
	return strings.HasPrefix(key, defaultPrefix) && len(key) > len(defaultPrefix)
}

// RoomInfoKey is the key of a room directory entry.
func RoomInfoKey(roomID string) string {
	return roomInfoPrefix + EncodeRoomID(roomID)
}

// RoomIDFromInfoKey extracts the room ID from a directory entry key.
// ok is false for keys that are not directory entries.
func RoomIDFromInfoKey(key string) (string, bool) {
	encoded, found := strings.CutPrefix(key, roomInfoPrefix)
	if !found || encoded == "" {
		return "", false
	}
	id, err := DecodeRoomID(encoded)
	if err != nil {
		return "", false
	}
	return id, true
}

// SetupSettingsBucket creates or updates the settings bucket.
func SetupSettingsBucket(ctx context.Context, js jetstream.JetStream) (jetstream.KeyValue, error) {
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      BucketName,
		Description: "roomprefs notification rules and room directory",
		History:     10,
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("setting up %s bucket: %w", BucketName, err)
	}
	return kv, nil
}

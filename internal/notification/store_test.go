package notification

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/roomprefs/internal/nats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ns, _, err := nats.StartEmbeddedNATS(t.TempDir())
	require.NoError(t, err, "failed to start NATS")
	t.Cleanup(ns.Shutdown)

	nc, err := nats.ConnectInProcess(ns)
	require.NoError(t, err, "failed to connect to NATS")
	t.Cleanup(nc.Close)

	js, err := nats.CreateJetStream(nc)
	require.NoError(t, err)

	kv, err := nats.SetupSettingsBucket(context.Background(), js)
	require.NoError(t, err)
	return NewStore(kv)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"all":                        AllMessages,
		" ALL ":                      AllMessages,
		"mentions":                   MentionsAndKeywordsOnly,
		"mentions_and_keywords_only": MentionsAndKeywordsOnly,
		"mute":                       Mute,
		"muted":                      Mute,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("loud")
	assert.ErrorIs(t, err, ErrInvalidMode)

	assert.False(t, Mode("loud").Valid())
	assert.Equal(t, "Mentions and keywords only", MentionsAndKeywordsOnly.Label())
	assert.Len(t, Modes(), 3)
}

func TestRoomKind(t *testing.T) {
	assert.Equal(t, "group room", Room{}.Kind())
	assert.Equal(t, "encrypted group room", Room{Encrypted: true}.Kind())
	assert.Equal(t, "direct chat", Room{OneToOne: true}.Kind())
	assert.Equal(t, "encrypted direct chat", Room{Encrypted: true, OneToOne: true}.Kind())
}

func TestRoomDirectory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	t.Run("empty directory", func(t *testing.T) {
		rooms, err := store.Rooms(ctx)
		require.NoError(t, err)
		assert.Empty(t, rooms)
	})

	t.Run("id derived from name", func(t *testing.T) {
		room, err := store.RegisterRoom(ctx, Room{Name: "Release Planning", Encrypted: true})
		require.NoError(t, err)
		assert.Equal(t, "!release-planning:local", room.ID)

		got, err := store.Room(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, room, got)
	})

	t.Run("explicit id", func(t *testing.T) {
		_, err := store.RegisterRoom(ctx, Room{ID: "!dm:example.org", OneToOne: true})
		require.NoError(t, err)
	})

	t.Run("rejects empty room", func(t *testing.T) {
		_, err := store.RegisterRoom(ctx, Room{})
		assert.ErrorIs(t, err, ErrInvalidRoom)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := store.Room(ctx, "!nope:example.org")
		assert.ErrorIs(t, err, ErrUnknownRoom)
	})

	t.Run("list sorted by display name", func(t *testing.T) {
		rooms, err := store.Rooms(ctx)
		require.NoError(t, err)
		require.Len(t, rooms, 2)
		assert.Equal(t, "!dm:example.org", rooms[0].DisplayName())
		assert.Equal(t, "Release Planning", rooms[1].DisplayName())
	})
}

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	mode, err := store.DefaultMode(ctx, true, false)
	require.NoError(t, err)
	assert.Equal(t, MentionsAndKeywordsOnly, mode)

	mode, err = store.DefaultMode(ctx, true, true)
	require.NoError(t, err)
	assert.Equal(t, AllMessages, mode)

	require.NoError(t, store.SetDefaultMode(ctx, true, false, Mute))
	mode, err = store.DefaultMode(ctx, true, false)
	require.NoError(t, err)
	assert.Equal(t, Mute, mode)

	// Other kinds are unaffected.
	mode, err = store.DefaultMode(ctx, false, false)
	require.NoError(t, err)
	assert.Equal(t, MentionsAndKeywordsOnly, mode)

	assert.ErrorIs(t, store.SetDefaultMode(ctx, true, false, Mode("loud")), ErrInvalidMode)
}

func TestRoomSettings(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	room, err := store.RegisterRoom(ctx, Room{ID: "!team:example.org", Name: "Team", Encrypted: true})
	require.NoError(t, err)

	settings, err := store.RoomSettings(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, Settings{Mode: MentionsAndKeywordsOnly, IsDefault: true, Default: MentionsAndKeywordsOnly}, settings)

	require.NoError(t, store.SetRoomMode(ctx, room.ID, Mute))
	settings, err = store.RoomSettings(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, Settings{Mode: Mute, Default: MentionsAndKeywordsOnly}, settings)

	// A stored rule equal to the default still counts as explicit.
	require.NoError(t, store.SetRoomMode(ctx, room.ID, MentionsAndKeywordsOnly))
	settings, err = store.RoomSettings(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, settings.IsDefault)

	require.NoError(t, store.RestoreDefaultMode(ctx, room.ID))
	settings, err = store.RoomSettings(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, settings.IsDefault)

	// Changing the default moves rooms that follow it.
	require.NoError(t, store.SetDefaultMode(ctx, true, false, AllMessages))
	settings, err = store.RoomSettings(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, AllMessages, settings.Mode)

	assert.ErrorIs(t, store.SetRoomMode(ctx, room.ID, Mode("")), ErrInvalidMode)
	assert.ErrorIs(t, store.SetRoomMode(ctx, "!nope:example.org", Mute), ErrUnknownRoom)
	assert.ErrorIs(t, store.RestoreDefaultMode(ctx, "!nope:example.org"), ErrUnknownRoom)
	_, err = store.RoomSettings(ctx, "!nope:example.org")
	assert.ErrorIs(t, err, ErrUnknownRoom)
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := newTestStore(t)

	room, err := store.RegisterRoom(ctx, Room{ID: "!team:example.org", Name: "Team"})
	require.NoError(t, err)
	other, err := store.RegisterRoom(ctx, Room{ID: "!other:example.org", Name: "Other"})
	require.NoError(t, err)

	changes, err := store.Watch(ctx, room.ID)
	require.NoError(t, err)

	expectSignals := func(n int) {
		t.Helper()
		for i := range n {
			select {
			case <-changes:
			case <-time.After(5 * time.Second):
				t.Fatalf("timed out waiting for signal %d of %d", i+1, n)
			}
		}
	}
	expectQuiet := func() {
		t.Helper()
		select {
		case <-changes:
			t.Fatal("unexpected change signal")
		case <-time.After(200 * time.Millisecond):
		}
	}

	// Remove-then-add produces a burst of two.
	require.NoError(t, store.SetRoomMode(ctx, room.ID, Mute))
	expectSignals(2)

	require.NoError(t, store.RestoreDefaultMode(ctx, room.ID))
	expectSignals(1)

	require.NoError(t, store.SetDefaultMode(ctx, false, true, Mute))
	expectSignals(1)

	require.NoError(t, store.SetRoomMode(ctx, other.ID, Mute))
	expectQuiet()

	cancel()
	select {
	case _, ok := <-changes:
		for ok {
			_, ok = <-changes
		}
	case <-time.After(5 * time.Second):
		t.Fatal("changes not closed after cancel")
	}
}

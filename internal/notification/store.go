package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mark3labs/roomprefs/internal/logger"
	"github.com/mark3labs/roomprefs/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
)

// Settings is the effective notification setting of a room.
type Settings struct {
	Mode      Mode
	IsDefault bool
	Default   Mode
}

// Store keeps room notification rules in a JetStream KeyValue bucket.
// Reads are eventually consistent with writes made through other
// connections, and SetRoomMode is not atomic: watchers see the rule
// removed before the new one lands.
type Store struct {
	kv jetstream.KeyValue
}

// NewStore wraps the settings bucket.
func NewStore(kv jetstream.KeyValue) *Store {
	return &Store{kv: kv}
}

// RegisterRoom adds or updates a room in the directory. A room without an
// ID gets one derived from its name.
func (s *Store) RegisterRoom(ctx context.Context, room Room) (Room, error) {
	if room.ID == "" {
		if room.Name == "" {
			return Room{}, ErrInvalidRoom
		}
		room.ID = RoomIDFromName(room.Name)
	}

	data, err := json.Marshal(room)
	if err != nil {
		return Room{}, fmt.Errorf("marshaling room: %w", err)
	}
	if _, err := s.kv.Put(ctx, nats.RoomInfoKey(room.ID), data); err != nil {
		return Room{}, fmt.Errorf("storing room %s: %w", room.ID, err)
	}
	logger.Debug("Registered room %s (%s)", room.ID, room.Name)
	return room, nil
}

// Room looks up a room in the directory.
func (s *Store) Room(ctx context.Context, roomID string) (Room, error) {
	entry, err := s.kv.Get(ctx, nats.RoomInfoKey(roomID))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return Room{}, fmt.Errorf("%w: %s", ErrUnknownRoom, roomID)
	}
	if err != nil {
		return Room{}, fmt.Errorf("loading room %s: %w", roomID, err)
	}

	var room Room
	if err := json.Unmarshal(entry.Value(), &room); err != nil {
		return Room{}, fmt.Errorf("decoding room %s: %w", roomID, err)
	}
	return room, nil
}

// Rooms returns the directory sorted by display name.
func (s *Store) Rooms(ctx context.Context) ([]Room, error) {
	lister, err := s.kv.ListKeys(ctx)
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer lister.Stop()

	var ids []string
	for key := range lister.Keys() {
		if id, ok := nats.RoomIDFromInfoKey(key); ok {
			ids = append(ids, id)
		}
	}

	rooms := make([]Room, 0, len(ids))
	for _, id := range ids {
		room, err := s.Room(ctx, id)
		if errors.Is(err, ErrUnknownRoom) {
			// Deleted between listing and loading.
			continue
		}
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].DisplayName() < rooms[j].DisplayName()
	})
	return rooms, nil
}

// DefaultMode returns the default mode for rooms of the given kind.
func (s *Store) DefaultMode(ctx context.Context, encrypted, oneToOne bool) (Mode, error) {
	entry, err := s.kv.Get(ctx, nats.DefaultRuleKey(kindKey(encrypted, oneToOne)))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return BuiltinDefault(oneToOne), nil
	}
	if err != nil {
		return "", fmt.Errorf("loading default rule: %w", err)
	}
	return ParseMode(string(entry.Value()))
}

// SetDefaultMode overrides the default mode for rooms of the given kind.
func (s *Store) SetDefaultMode(ctx context.Context, encrypted, oneToOne bool, mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if _, err := s.kv.PutString(ctx, nats.DefaultRuleKey(kindKey(encrypted, oneToOne)), string(mode)); err != nil {
		return fmt.Errorf("storing default rule: %w", err)
	}
	return nil
}

// RoomSettings returns the effective mode of a room.
func (s *Store) RoomSettings(ctx context.Context, roomID string) (Settings, error) {
	room, err := s.Room(ctx, roomID)
	if err != nil {
		return Settings{}, err
	}
	def, err := s.DefaultMode(ctx, room.Encrypted, room.OneToOne)
	if err != nil {
		return Settings{}, err
	}

	entry, err := s.kv.Get(ctx, nats.RoomRuleKey(roomID))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return Settings{Mode: def, IsDefault: true, Default: def}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("loading rule for %s: %w", roomID, err)
	}

	mode, err := ParseMode(string(entry.Value()))
	if err != nil {
		return Settings{}, err
	}
	return Settings{Mode: mode, Default: def}, nil
}

// SetRoomMode replaces the room's rule: the old rule is removed first and
// the new one added afterwards.
func (s *Store) SetRoomMode(ctx context.Context, roomID string, mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if _, err := s.Room(ctx, roomID); err != nil {
		return err
	}

	key := nats.RoomRuleKey(roomID)
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("removing rule for %s: %w", roomID, err)
	}
	if _, err := s.kv.PutString(ctx, key, string(mode)); err != nil {
		return fmt.Errorf("adding rule for %s: %w", roomID, err)
	}
	logger.Debug("Room %s set to %s", roomID, mode)
	return nil
}

// RestoreDefaultMode removes the room's own rule.
func (s *Store) RestoreDefaultMode(ctx context.Context, roomID string) error {
	if _, err := s.Room(ctx, roomID); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, nats.RoomRuleKey(roomID)); err != nil {
		return fmt.Errorf("removing rule for %s: %w", roomID, err)
	}
	logger.Debug("Room %s restored to default", roomID)
	return nil
}

// Watch signals every change that may affect the room's effective mode:
// its own rule, its directory entry and every default rule. The channel
// is closed once ctx is done.
func (s *Store) Watch(ctx context.Context, roomID string) (<-chan struct{}, error) {
	keys := []string{
		nats.RoomRuleKey(roomID),
		nats.RoomInfoKey(roomID),
		nats.DefaultRulePattern(),
	}

	watchers := make([]jetstream.KeyWatcher, 0, len(keys))
	stopAll := func() {
		for _, w := range watchers {
			if err := w.Stop(); err != nil {
				logger.Debug("Stopping watcher: %v", err)
			}
		}
	}
	for _, key := range keys {
		w, err := s.kv.Watch(ctx, key, jetstream.UpdatesOnly())
		if err != nil {
			stopAll()
			return nil, fmt.Errorf("watching %s: %w", key, err)
		}
		watchers = append(watchers, w)
	}

	out := make(chan struct{})
	var wg sync.WaitGroup
	for _, w := range watchers {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case entry, ok := <-w.Updates():
					if !ok {
						return
					}
					if entry == nil {
						continue
					}
					select {
					case out <- struct{}{}:
					case <-ctx.Done():
						return
					}
				}
			}
		})
	}

	go func() {
		<-ctx.Done()
		stopAll()
		wg.Wait()
		close(out)
	}()
	return out, nil
}

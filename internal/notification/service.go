package notification

import (
	"context"
	"time"

	"github.com/mark3labs/roomprefs/internal/optimistic"
)

var _ optimistic.Service[Mode] = (*RoomService)(nil)

// RoomService exposes one room's mode as an optimistic.Service. latency
// is added to every call to simulate a slow homeserver.
type RoomService struct {
	store   *Store
	roomID  string
	latency time.Duration
}

func NewRoomService(store *Store, roomID string, latency time.Duration) *RoomService {
	return &RoomService{store: store, roomID: roomID, latency: latency}
}

func (s *RoomService) RoomID() string {
	return s.roomID
}

func (s *RoomService) Fetch(ctx context.Context) (optimistic.Setting[Mode], error) {
	if err := s.wait(ctx); err != nil {
		return optimistic.Setting[Mode]{}, err
	}
	settings, err := s.store.RoomSettings(ctx, s.roomID)
	if err != nil {
		return optimistic.Setting[Mode]{}, err
	}
	return optimistic.Setting[Mode]{
		Value:     settings.Mode,
		IsDefault: settings.IsDefault,
		Default:   settings.Default,
	}, nil
}

func (s *RoomService) Submit(ctx context.Context, mode Mode) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	return s.store.SetRoomMode(ctx, s.roomID, mode)
}

func (s *RoomService) RestoreDefault(ctx context.Context) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	return s.store.RestoreDefaultMode(ctx, s.roomID)
}

func (s *RoomService) Changes(ctx context.Context) (<-chan struct{}, error) {
	return s.store.Watch(ctx, s.roomID)
}

func (s *RoomService) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

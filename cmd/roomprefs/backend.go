package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/roomprefs/internal/config"
	"github.com/mark3labs/roomprefs/internal/logger"
	"github.com/mark3labs/roomprefs/internal/nats"
	"github.com/mark3labs/roomprefs/internal/notification"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
)

// backend is one process's view of the settings server. The first
// process to start owns the embedded server; later ones connect to it.
type backend struct {
	natsDir string
	ns      *server.Server
	nc      *natsgo.Conn
	store   *notification.Store
}

func (b *backend) primary() bool {
	return b.ns != nil
}

func connect(ctx context.Context, cfg *config.Config) (*backend, error) {
	b := &backend{natsDir: cfg.NATSDir()}

	if nc := nats.TryConnectExisting(b.natsDir); nc != nil {
		logger.Debug("Connected to running roomprefs server")
		b.nc = nc
	} else {
		ns, port, err := nats.StartEmbeddedNATS(b.natsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to start NATS: %w", err)
		}
		logger.Debug("Started embedded NATS on port %d", port)
		nc, err := nats.ConnectInProcess(ns)
		if err != nil {
			nats.RemovePortFile(b.natsDir)
			_ = nats.Shutdown(nil, ns)
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		b.ns = ns
		b.nc = nc
	}

	js, err := nats.CreateJetStream(b.nc)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	kv, err := nats.SetupSettingsBucket(ctx, js)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.store = notification.NewStore(kv)
	return b, nil
}

// Close drains the connection and, on the primary, stops the server.
func (b *backend) Close() {
	if b.primary() {
		nats.RemovePortFile(b.natsDir)
	}
	if err := nats.Shutdown(b.nc, b.ns); err != nil {
		logger.Warn("NATS shutdown: %v", err)
	}
}

// resolveRoom picks the room from the argument, the configured room or
// the last room opened in the TUI, in that order.
func resolveRoom(ctx context.Context, store *notification.Store, args []string, fallback string) (notification.Room, error) {
	roomID := fallback
	if len(args) > 0 {
		roomID = args[0]
	}
	if roomID == "" {
		return notification.Room{}, fmt.Errorf("no room given (pass a room ID or set room in the config)")
	}
	return store.Room(ctx, roomID)
}

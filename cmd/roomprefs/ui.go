package main

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/roomprefs/internal/hooks"
	"github.com/mark3labs/roomprefs/internal/logger"
	"github.com/mark3labs/roomprefs/internal/notification"
	"github.com/mark3labs/roomprefs/internal/optimistic"
	"github.com/mark3labs/roomprefs/internal/state"
	"github.com/mark3labs/roomprefs/internal/troubleshoot"
	"github.com/mark3labs/roomprefs/internal/tui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui [room]",
	Short: "Edit a room's notification settings in the terminal UI",
	Long: `Edit a room's notification settings in the terminal UI.

Without a room argument the configured room is used, then the last room
opened. Changes made elsewhere (another roomprefs, the MCP server) show
up once their change notifications settle.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	b, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	fallback := cfg.Room
	if fallback == "" {
		fallback = state.Load(cfg.DataDir).LastRoom
	}
	room, err := resolveRoom(ctx, b.store, args, fallback)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	hooksCfg, err := hooks.LoadConfig(workDir, cfg.HooksFile)
	if err != nil {
		return err
	}
	runner := hooks.NewModeChangeRunner(ctx, hooksCfg, workDir)
	// Deferred before Detach so it runs after it; kills hooks still running.
	defer runner.Stop()

	svc := notification.NewRoomService(b.store, room.ID, cfg.Latency)
	presenter := optimistic.New[notification.Mode](svc,
		optimistic.WithDebounce[notification.Mode](cfg.Debounce),
		optimistic.WithOnFetch(func(s optimistic.Setting[notification.Mode]) {
			runner.Observe(room.ID, string(s.Value), s.IsDefault)
		}),
	)
	if err := presenter.Attach(ctx); err != nil {
		return fmt.Errorf("failed to load %s: %w", room.ID, err)
	}
	defer presenter.Detach()

	notes, err := troubleshoot.Listen(ctx, b.nc)
	if err != nil {
		logger.Warn("Click test responder unavailable: %v", err)
	}

	app := tui.NewApp(tui.Options{
		Room:              room,
		Presenter:         presenter,
		DataDir:           cfg.DataDir,
		TestNotifications: notes,
		Click: func(id string) error {
			return troubleshoot.Click(b.nc, id)
		},
	})

	p := tea.NewProgram(app)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

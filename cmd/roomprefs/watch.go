package main

import (
	"fmt"
	"strings"

	"github.com/mark3labs/roomprefs/internal/notification"
	"github.com/mark3labs/roomprefs/internal/optimistic"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [room]",
	Short: "Print a room's settings every time they change",
	Long: `Print a room's settings every time they change.

Runs the same presenter as the TUI and prints each snapshot, which makes
the debounce and reconciliation visible. Stop with ctrl+c.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		room, err := resolveRoom(ctx, b.store, args, cfg.Room)
		if err != nil {
			return err
		}

		svc := notification.NewRoomService(b.store, room.ID, cfg.Latency)
		presenter := optimistic.New[notification.Mode](svc, optimistic.WithDebounce[notification.Mode](cfg.Debounce))
		if err := presenter.Attach(ctx); err != nil {
			return err
		}
		defer presenter.Detach()

		fmt.Printf("Watching %s (%s)\n", room.DisplayName(), room.ID)
		for s := range presenter.Updates() {
			fmt.Println(formatSnapshot(s))
		}
		return nil
	},
}

func formatSnapshot(s optimistic.State[notification.Mode]) string {
	var parts []string
	parts = append(parts, "fetch="+s.Authoritative.Status.String())
	if shown, ok := s.Displayed(); ok {
		parts = append(parts, "shown="+string(shown.Value))
		if shown.IsDefault {
			parts = append(parts, "default")
		}
	}
	if s.PendingValue != nil {
		parts = append(parts, "pending="+string(*s.PendingValue))
	}
	if s.PendingDefault != nil {
		parts = append(parts, fmt.Sprintf("pending_default=%t", *s.PendingDefault))
	}
	if s.Authoritative.Err != nil {
		parts = append(parts, fmt.Sprintf("error=%q", s.Authoritative.Err))
	}
	return strings.Join(parts, " ")
}

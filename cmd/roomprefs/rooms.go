package main

import (
	"fmt"

	"github.com/mark3labs/roomprefs/internal/notification"
	"github.com/spf13/cobra"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List rooms and their notification modes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		rooms, err := b.store.Rooms(ctx)
		if err != nil {
			return err
		}
		if len(rooms) == 0 {
			fmt.Println("No rooms yet. Add one with 'roomprefs rooms add <name>'.")
			return nil
		}
		for _, room := range rooms {
			settings, err := b.store.RoomSettings(ctx, room.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%-30s %-24s %s\n", room.ID, room.DisplayName(), describeSettings(settings))
		}
		return nil
	},
}

var roomsAddFlags struct {
	id        string
	encrypted bool
	oneToOne  bool
}

var roomsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a room to the directory",
	Long: `Add a room to the directory.

Without --id the room ID is derived from the name, e.g. "Release Planning"
becomes !release-planning:local.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		room, err := b.store.RegisterRoom(ctx, notification.Room{
			ID:        roomsAddFlags.id,
			Name:      args[0],
			Encrypted: roomsAddFlags.encrypted,
			OneToOne:  roomsAddFlags.oneToOne,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", room.ID, room.Kind())
		return nil
	},
}

func init() {
	roomsCmd.AddCommand(roomsAddCmd)
	roomsAddCmd.Flags().StringVar(&roomsAddFlags.id, "id", "", "Room ID (default: derived from the name)")
	roomsAddCmd.Flags().BoolVar(&roomsAddFlags.encrypted, "encrypted", false, "Room is end-to-end encrypted")
	roomsAddCmd.Flags().BoolVar(&roomsAddFlags.oneToOne, "one-to-one", false, "Room is a direct chat")
}

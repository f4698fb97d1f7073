package main

import (
	"fmt"

	"github.com/mark3labs/roomprefs/internal/notification"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [room]",
	Short: "Show a room's notification mode",
	Args:  cobra.MaximumNArgs(1),
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
		settings, err := b.store.RoomSettings(ctx, room.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", room.DisplayName(), describeSettings(settings))
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <room> <mode>",
	Short: "Set a room's notification mode (all, mentions, mute)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := notification.ParseMode(args[1])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		b, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		if err := b.store.SetRoomMode(ctx, args[0], mode); err != nil {
			return err
		}
		fmt.Printf("%s set to %s\n", args[0], mode.Label())
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <room>",
	Short: "Make a room follow the default mode again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		if err := b.store.RestoreDefaultMode(ctx, args[0]); err != nil {
			return err
		}
		settings, err := b.store.RoomSettings(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", args[0], describeSettings(settings))
		return nil
	},
}

var defaultsFlags struct {
	encrypted bool
	oneToOne  bool
}

var defaultsCmd = &cobra.Command{
	Use:   "defaults [mode]",
	Short: "Show or change the default mode for a kind of room",
	Long: `Show or change the default mode for a kind of room.

Without arguments, prints the defaults for all four room kinds. With a
mode, sets the default for the kind selected by --encrypted and
--one-to-one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		if len(args) == 1 {
			mode, err := notification.ParseMode(args[0])
			if err != nil {
				return err
			}
			return b.store.SetDefaultMode(ctx, defaultsFlags.encrypted, defaultsFlags.oneToOne, mode)
		}

		for _, oneToOne := range []bool{false, true} {
			for _, encrypted := range []bool{false, true} {
				mode, err := b.store.DefaultMode(ctx, encrypted, oneToOne)
				if err != nil {
					return err
				}
				kind := notification.Room{Encrypted: encrypted, OneToOne: oneToOne}.Kind()
				fmt.Printf("%-22s %s\n", kind, mode.Label())
			}
		}
		return nil
	},
}

func init() {
	defaultsCmd.Flags().BoolVar(&defaultsFlags.encrypted, "encrypted", false, "Apply to encrypted rooms")
	defaultsCmd.Flags().BoolVar(&defaultsFlags.oneToOne, "one-to-one", false, "Apply to one-to-one rooms")
}

func describeSettings(s notification.Settings) string {
	if s.IsDefault {
		return fmt.Sprintf("%s (default)", s.Mode.Label())
	}
	return fmt.Sprintf("%s (default is %s)", s.Mode.Label(), s.Default.Label())
}

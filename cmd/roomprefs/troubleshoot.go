package main

import (
	"fmt"
	"time"

	"github.com/mark3labs/roomprefs/internal/troubleshoot"
	"github.com/spf13/cobra"
)

var troubleshootCmd = &cobra.Command{
	Use:   "troubleshoot",
	Short: "Check that notifications reach an open roomprefs UI",
	Long: `Check that notifications reach an open roomprefs UI.

Publishes a test notification and waits for it to be clicked (press c in
'roomprefs ui'). Fails after click_timeout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		b, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		fmt.Printf("Test notification sent, waiting up to %s for a click...\n", cfg.ClickTimeout)
		result := troubleshoot.NewClickTest(b.nc, cfg.ClickTimeout).Run(ctx)
		if result.Status != troubleshoot.Success {
			return fmt.Errorf("click test %s: %w", result.TestID, result.Err)
		}
		fmt.Printf("Clicked after %s\n", result.Elapsed.Round(time.Millisecond))
		return nil
	},
}

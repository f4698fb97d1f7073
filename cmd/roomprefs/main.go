package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/roomprefs/internal/config"
	"github.com/mark3labs/roomprefs/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version set via ldflags during build
var version = "dev"

// cfg is loaded before every command runs.
var cfg *config.Config

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "roomprefs",
	Short: "Per-room chat notification settings with optimistic updates",
	Long: `roomprefs manages per-room notification settings for a chat account.

Settings live in an embedded NATS JetStream key-value bucket. The first
roomprefs process owns the server; every later one connects to it, so a
change made from the CLI or the MCP server shows up in an open TUI after
the change notifications settle.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("data-dir", config.DefaultDataDir, "Data directory for NATS storage")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Write logs to this file")
	flags.Duration("debounce", config.DefaultDebounce, "Quiet period before reconciling after a change notification")
	flags.Duration("latency", 0, "Artificial latency added to every settings call")

	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(defaultsCmd)
	rootCmd.AddCommand(roomsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(troubleshootCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	flags := cmd.Flags()
	for key, flag := range map[string]string{
		"data_dir":  "data-dir",
		"log_level": "log-level",
		"log_file":  "log-file",
		"debounce":  "debounce",
		"latency":   "latency",
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", flag, err)
			}
		}
	}

	loaded, err := config.LoadWith(v)
	if err != nil {
		return err
	}
	cfg = loaded

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	logger.Debug("Config loaded (data_dir=%s)", cfg.DataDir)
	return nil
}

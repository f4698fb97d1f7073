package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/roomprefs/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage roomprefs configuration",
}

var configInitFlags struct {
	global bool
	force  bool
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a roomprefs configuration file",
	Long: `Create a roomprefs configuration file from the current settings.

By default, creates roomprefs.yml in the current directory. Use --global to
write ~/.config/roomprefs/roomprefs.yml instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetPath := config.ProjectPath()
		if configInitFlags.global {
			targetPath = config.GlobalPath()
		}

		if !configInitFlags.force && fileExists(targetPath) {
			return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
		}

		var err error
		if configInitFlags.global {
			err = config.WriteGlobal(cfg)
		} else {
			err = config.WriteProject(cfg)
		}
		if err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Printf("Config written to: %s\n", targetPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVarP(&configInitFlags.global, "global", "g", false, "Write the global config instead of the project one")
	configInitCmd.Flags().BoolVarP(&configInitFlags.force, "force", "f", false, "Overwrite existing config file")
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/settingsd/settingsd/internal/config"
	"github.com/settingsd/settingsd/internal/logger"
	"github.com/settingsd/settingsd/internal/settings"
)

var (
	configPath string // Path to the configuration directory
	cfg        config.Config

	ownerType string
	ownerID   string

	rootCmd = &cobra.Command{
		Use:   "settingsd",
		Short: "settingsd is an owner-scoped typed settings service",
		Long: `settingsd stores typed key/value settings per owner entity, with
caching, change history and import/export, behind a JSON API and CLI.`,
		Args: cobra.OnlyValidArgs,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(
		&configPath,
		"config",
		"./etc",
		"Path to the directory holding main.toml",
	)
}

// loadConfig reads the configuration and initializes logging. Used as
// PreRunE by every command that needs the full stack.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error
	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// addOwnerFlags registers the owner scope selection flags shared by the
// data commands.
func addOwnerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ownerType, "owner-type", "", "Owner entity kind (empty for the global scope)")
	cmd.Flags().StringVar(&ownerID, "owner-id", "", "Owner entity id (empty for the global scope)")
}

func ownerRef() settings.OwnerRef {
	return settings.OwnerRef{Kind: ownerType, ID: ownerID}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

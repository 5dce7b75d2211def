package app

import (
	"github.com/spf13/cobra"

	"github.com/settingsd/settingsd/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Create the default groups and global settings if absent",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// service construction migrates and seeds
		if _, err := daemon.NewSettingsService(&cfg); err != nil {
			return err
		}

		cmd.Println("database seeded")

		return nil
	},
}

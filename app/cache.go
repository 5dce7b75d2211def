package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/settingsd/settingsd/internal/daemon"
)

func init() { //nolint: gochecknoinits
	addOwnerFlags(cacheClearCmd)

	rootCmd.AddCommand(cacheClearCmd)
}

var cacheClearCmd = &cobra.Command{
	Use:     "cache-clear [key]",
	Short:   "Invalidate one cached setting, or flush the whole settings cache",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := daemon.NewSettingsService(&cfg)
		if err != nil {
			return err
		}

		var key string
		if len(args) > 0 {
			key = args[0]
		}

		if err := svc.ClearCache(context.Background(), key, ownerRef()); err != nil {
			return err
		}

		cmd.Println("settings cache cleared")

		return nil
	},
}

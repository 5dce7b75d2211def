package app

import (
	"github.com/spf13/cobra"

	"github.com/settingsd/settingsd/internal/daemon"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var (
	devMode bool

	startCmd = &cobra.Command{
		Use:     "start",
		Short:   "Start the settingsd web service",
		PreRunE: loadConfig,
		RunE: func(_ *cobra.Command, _ []string) error {
			if devMode {
				cfg.DevMode = true
			}

			return daemon.New(&cfg).Start()
		},
	}
)

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/settingsd/settingsd/internal/daemon"
	"github.com/settingsd/settingsd/internal/settings"
)

func init() { //nolint: gochecknoinits
	addOwnerFlags(importCmd)
	importCmd.Flags().BoolVar(&importOverwrite, "overwrite", false, "Overwrite settings that already exist")

	rootCmd.AddCommand(importCmd)
}

var (
	importOverwrite bool

	importCmd = &cobra.Command{
		Use:     "import <file>",
		Short:   "Import settings into one owner scope from a JSON export",
		Args:    cobra.ExactArgs(1),
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			var items []settings.ExportedSetting
			if err := json.Unmarshal(payload, &items); err != nil {
				return fmt.Errorf("parse import file: %w", err)
			}

			svc, err := daemon.NewSettingsService(&cfg)
			if err != nil {
				return err
			}

			if err := svc.Import(context.Background(), items, ownerRef(), importOverwrite); err != nil {
				return err
			}

			cmd.Printf("imported %d settings from %s\n", len(items), args[0])

			return nil
		},
	}
)

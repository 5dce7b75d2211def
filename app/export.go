package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/settingsd/settingsd/internal/daemon"
)

func init() { //nolint: gochecknoinits
	addOwnerFlags(exportCmd)
	exportCmd.Flags().StringSliceVar(&exportGroups, "groups", nil, "Restrict the export to these group keys")

	rootCmd.AddCommand(exportCmd)
}

var (
	exportGroups []string

	exportCmd = &cobra.Command{
		Use:     "export [file]",
		Short:   "Export settings of one owner scope as JSON",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := daemon.NewSettingsService(&cfg)
			if err != nil {
				return err
			}

			items, err := svc.Export(context.Background(), ownerRef(), exportGroups)
			if err != nil {
				return err
			}

			payload, err := json.MarshalIndent(items, "", "  ")
			if err != nil {
				return fmt.Errorf("encode export: %w", err)
			}

			if len(args) == 0 {
				cmd.Println(string(payload))

				return nil
			}

			if err := os.WriteFile(args[0], payload, 0o600); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}

			cmd.Printf("exported %d settings to %s\n", len(items), args[0])

			return nil
		},
	}
)

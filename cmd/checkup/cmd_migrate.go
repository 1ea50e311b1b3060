package main

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/engine-checkup/internal/config"
	"github.com/bryanwahyu/engine-checkup/internal/infra/db"
	"github.com/bryanwahyu/engine-checkup/internal/infra/db/migrations"
)

func newMigrateCmd() *cobra.Command {
	var (
		configPath string
		statusOnly bool
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("config load: %w", err)
			}
			if cfg.Database.Driver == "memory" {
				return fmt.Errorf("the memory driver has no schema")
			}
			sqlDB, err := db.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if !statusOnly {
				s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
				s.Suffix = " Applying " + cfg.Database.Driver + " migrations..."
				s.Start()
				err := migrations.Up(cmd.Context(), sqlDB, cfg.Database.Driver)
				s.Stop()
				if err != nil {
					return err
				}
			}
			v, err := migrations.Version(cmd.Context(), sqlDB, cfg.Database.Driver)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s schema at version %d\n", cfg.Database.Driver, v)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the server config file")
	cmd.Flags().BoolVar(&statusOnly, "status", false, "Only print the current version")
	return cmd
}

package main

import (
	"fmt"

	"github.com/Domenick1991/aviaapp/internal/log"
	"github.com/Domenick1991/aviaapp/internal/migrate"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and seed cabin classes",
	Long: `Create or update the database schema and seed cabin classes.
Tables, columns and foreign keys missing from the configured database are
created. Existing rows are kept, so the command is safe to run on every
deployment.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gdb, err := migrate.Open(cfg.Database.DSN())
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("gorm sql handle: %w", err)
	}
	defer sqlDB.Close()

	if err := migrate.Run(cmd.Context(), gdb); err != nil {
		return err
	}
	log.Info(cmd.Context(), "database migrated")
	return nil
}

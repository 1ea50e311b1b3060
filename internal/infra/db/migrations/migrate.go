// Package migrations embeds the schema for each supported SQL dialect and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed mysql/*.sql postgres/*.sql
var files embed.FS

// Dir returns the embedded migration directory for a driver name.
func Dir(driver string) (string, error) {
	switch driver {
	case "mysql":
		return "mysql", nil
	case "postgres":
		return "postgres", nil
	}
	return "", fmt.Errorf("no migrations for driver %q", driver)
}

// Up applies every pending migration for driver.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	dir, err := Dir(driver)
	if err != nil {
		return err
	}
	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect(driver); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("applying %s migrations: %w", driver, err)
	}
	return nil
}

// Version reports the schema version currently applied.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	if _, err := Dir(driver); err != nil {
		return 0, err
	}
	if err := goose.SetDialect(driver); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}

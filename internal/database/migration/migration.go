package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"painter/internal/applog"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_uploads",
		SQL: `CREATE TABLE IF NOT EXISTS uploads (
  id            UUID        PRIMARY KEY,
  filename      TEXT        NOT NULL UNIQUE,
  original_name TEXT        NOT NULL,
  storage_path  TEXT        NOT NULL,
  size          BIGINT      NOT NULL CHECK (size >= 0),
  content_type  TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_uploads_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads (created_at);`,
	},
	{
		Name: "create_index_uploads_original_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_uploads_original_name ON uploads (original_name);`,
	},
}

// EnsureMigrated checks if the 'uploads' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *applog.Logger, dbHost string) error {
	log = log.With("database")
	start := time.Now()

	log.Info("db_migration_check", map[string]any{"status": "starting", "db_host": dbHost})

	var exists bool
	query := "SELECT to_regclass('public.uploads') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed", err, map[string]any{
			"status":      "error",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip", map[string]any{
			"status":      "success",
			"detail":      "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed", err, map[string]any{
				"status":           "error",
				"migration_step":   step.Name,
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step", map[string]any{
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Info("db_migration_success", map[string]any{
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

package sqlite

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      string
}

// migrations contains all database migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up: `
			CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL,
				country TEXT NOT NULL DEFAULT 'US',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);

			CREATE TABLE IF NOT EXISTS subscriptions (
				user_id TEXT NOT NULL,
				service_id TEXT NOT NULL,
				monthly_cost REAL NOT NULL,
				is_active BOOLEAN NOT NULL,
				start_date DATETIME NOT NULL,
				end_date DATETIME,
				PRIMARY KEY (user_id, service_id),
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			);

			CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id ON subscriptions(user_id);

			CREATE TABLE IF NOT EXISTS show_states (
				user_id TEXT NOT NULL,
				show_id TEXT NOT NULL,
				watch_status TEXT NOT NULL,
				updated_at DATETIME NOT NULL,
				PRIMARY KEY (user_id, show_id),
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			);

			CREATE INDEX IF NOT EXISTS idx_show_states_user_id ON show_states(user_id);

			CREATE TABLE IF NOT EXISTS watched_episodes (
				user_id TEXT NOT NULL,
				show_id TEXT NOT NULL,
				episode_id TEXT NOT NULL,
				watched_at DATETIME NOT NULL,
				PRIMARY KEY (user_id, show_id, episode_id),
				FOREIGN KEY (user_id, show_id) REFERENCES show_states(user_id, show_id) ON DELETE CASCADE
			);

			CREATE INDEX IF NOT EXISTS idx_watched_episodes_user_show ON watched_episodes(user_id, show_id);
		`,
	},
}

// Migrate runs all pending migrations
func Migrate(db *sql.DB) error {
	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			migration.Version,
			migration.Name,
			sql.NullTime{Time: timeNow(), Valid: true},
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// getCurrentVersion returns the highest applied migration version
func getCurrentVersion(db *sql.DB) (int, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var version int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to query current version: %w", err)
	}

	return version, nil
}

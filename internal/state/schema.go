package state

import (
	"database/sql"

	"github.com/nvalette/photodrift/internal/db"
)

const currentSchemaVersion = 1

func initSchema(conn *sql.DB) error {
	return db.WithTx(conn, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS window_state (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				width INTEGER NOT NULL,
				height INTEGER NOT NULL,
				is_fullscreen INTEGER NOT NULL DEFAULT 0
			);
		`)
		if err != nil {
			return err
		}

		// Set initial version if not exists
		_, err = tx.Exec(`
			INSERT OR IGNORE INTO schema_version (version) VALUES (?)
		`, currentSchemaVersion)
		return err
	})
}

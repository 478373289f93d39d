package state

import (
	"database/sql"
	"errors"
)

// WindowState is the persisted window geometry and fullscreen flag.
type WindowState struct {
	Width        int
	Height       int
	IsFullscreen bool
}

func getWindow(db *sql.DB) (*WindowState, error) {
	row := db.QueryRow(`
		SELECT width, height, is_fullscreen FROM window_state WHERE id = 1
	`)

	var state WindowState
	var fullscreen int
	err := row.Scan(&state.Width, &state.Height, &fullscreen)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved state is valid on first run
	}
	if err != nil {
		return nil, err
	}
	state.IsFullscreen = fullscreen != 0

	return &state, nil
}

func saveWindow(db *sql.DB, state WindowState) error {
	fullscreen := 0
	if state.IsFullscreen {
		fullscreen = 1
	}
	_, err := db.Exec(`
		INSERT INTO window_state (id, width, height, is_fullscreen)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			width = excluded.width,
			height = excluded.height,
			is_fullscreen = excluded.is_fullscreen
	`, state.Width, state.Height, fullscreen)

	return err
}

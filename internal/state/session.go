package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/reel/internal/db"
)

// SessionState is what is restored on the next start.
type SessionState struct {
	Kind      string // "movie" or "tv"
	Term      string // last committed search term
	UpdatedAt time.Time
}

func getSession(db *sql.DB) (*SessionState, error) {
	row := db.QueryRow(`SELECT kind, term, updated_at FROM session_state WHERE id = 1`)

	var state SessionState
	var term sql.NullString
	var updatedAt int64

	err := row.Scan(&state.Kind, &term, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved state is valid on first run
	}
	if err != nil {
		return nil, err
	}

	state.Term = dbutil.NullStringValue(term)
	state.UpdatedAt = time.Unix(updatedAt, 0)

	return &state, nil
}

func saveSession(db *sql.DB, state SessionState) error {
	updatedAt := state.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := db.Exec(`
		INSERT INTO session_state (id, kind, term, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			term = excluded.term,
			updated_at = excluded.updated_at
	`, state.Kind, dbutil.StringToNull(state.Term), updatedAt.Unix())

	return err
}

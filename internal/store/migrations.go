package store

// runMigrations creates the schema. Every statement is idempotent.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per run of the viewer.
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			image TEXT NOT NULL,
			source TEXT NOT NULL CHECK(source IN ('camera', 'replay')),
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			frames INTEGER NOT NULL DEFAULT 0,
			scale REAL NOT NULL DEFAULT 1,
			angle REAL NOT NULL DEFAULT 0,
			translation_x REAL NOT NULL DEFAULT 0,
			translation_y REAL NOT NULL DEFAULT 0
		)`,

		// Gesture mode changes within a session.
		`CREATE TABLE IF NOT EXISTS mode_transitions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			frame INTEGER NOT NULL,
			from_mode TEXT NOT NULL,
			to_mode TEXT NOT NULL,
			at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_mode_transitions_session_id ON mode_transitions(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

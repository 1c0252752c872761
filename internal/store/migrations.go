package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per tracker start/stop cycle
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			joint_group INTEGER NOT NULL CHECK(joint_group IN (0, 1, 2)),
			confidence_cutoff REAL NOT NULL,
			precision INTEGER NOT NULL,
			started_at DATETIME NOT NULL,
			stopped_at DATETIME,
			frames INTEGER NOT NULL DEFAULT 0,
			hand_frames INTEGER NOT NULL DEFAULT 0,
			failures INTEGER NOT NULL DEFAULT 0,
			stop_reason TEXT NOT NULL DEFAULT ''
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

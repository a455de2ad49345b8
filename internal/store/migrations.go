package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - stores one row per finished analysis run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			exercise TEXT NOT NULL,
			reps INTEGER NOT NULL DEFAULT 0,
			duration REAL NOT NULL DEFAULT 0,
			standard REAL NOT NULL DEFAULT 0,
			stability REAL NOT NULL DEFAULT 0,
			depth REAL NOT NULL DEFAULT 0,
			frequency REAL NOT NULL DEFAULT 0,
			overall REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Session errors table - confirmed form errors per session
		`CREATE TABLE IF NOT EXISTS session_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			label TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 1,
			first_seen REAL NOT NULL DEFAULT 0
		)`,

		// Rep quality table - per-repetition quality scores
		`CREATE TABLE IF NOT EXISTS rep_quality (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			rep_index INTEGER NOT NULL,
			time REAL NOT NULL DEFAULT 0,
			standard REAL NOT NULL DEFAULT 0,
			stability REAL NOT NULL DEFAULT 0,
			depth REAL NOT NULL DEFAULT 0
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_session_errors_session_id ON session_errors(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rep_quality_session_id ON rep_quality(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_exercise ON sessions(exercise)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

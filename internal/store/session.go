package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents a finished analysis run stored in the database.
type Session struct {
	ID        string
	Exercise  string
	Reps      int
	Duration  float64
	Standard  float64
	Stability float64
	Depth     float64
	Frequency float64
	Overall   float64
	CreatedAt time.Time

	// Errors and RepScores are populated by GetByID and persisted by
	// Create; List leaves them empty.
	Errors    []SessionError
	RepScores []RepScore
}

// SessionError is one confirmed form-error label within a session.
type SessionError struct {
	Label     string
	Count     int
	FirstSeen float64
}

// RepScore is the quality record of a single repetition.
type RepScore struct {
	RepIndex  int
	Time      float64
	Standard  float64
	Stability float64
	Depth     float64
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a session with its errors and rep scores in one
// transaction.
func (r *SessionRepository) Create(sess *Session) error {
	sess.CreatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (id, exercise, reps, duration, standard, stability, depth, frequency, overall, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Exercise, sess.Reps, sess.Duration,
		sess.Standard, sess.Stability, sess.Depth, sess.Frequency, sess.Overall,
		sess.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, e := range sess.Errors {
		_, err = tx.Exec(
			`INSERT INTO session_errors (session_id, label, count, first_seen)
			 VALUES (?, ?, ?, ?)`,
			sess.ID, e.Label, e.Count, e.FirstSeen,
		)
		if err != nil {
			return fmt.Errorf("insert session error: %w", err)
		}
	}

	for i, q := range sess.RepScores {
		idx := q.RepIndex
		if idx == 0 {
			idx = i + 1
		}
		_, err = tx.Exec(
			`INSERT INTO rep_quality (session_id, rep_index, time, standard, stability, depth)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			sess.ID, idx, q.Time, q.Standard, q.Stability, q.Depth,
		)
		if err != nil {
			return fmt.Errorf("insert rep quality: %w", err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves a session with its errors and rep scores.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}

	err := r.db.QueryRow(
		`SELECT id, exercise, reps, duration, standard, stability, depth, frequency, overall, created_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.Exercise, &sess.Reps, &sess.Duration,
		&sess.Standard, &sess.Stability, &sess.Depth, &sess.Frequency, &sess.Overall,
		&sess.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if sess.Errors, err = r.sessionErrors(id); err != nil {
		return nil, err
	}
	if sess.RepScores, err = r.repScores(id); err != nil {
		return nil, err
	}

	return sess, nil
}

// List retrieves all sessions, newest first, without their errors or rep
// scores.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, exercise, reps, duration, standard, stability, depth, frequency, overall, created_at
		 FROM sessions ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		err := rows.Scan(&sess.ID, &sess.Exercise, &sess.Reps, &sess.Duration,
			&sess.Standard, &sess.Stability, &sess.Depth, &sess.Frequency, &sess.Overall,
			&sess.CreatedAt)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// ListByExercise retrieves all sessions for one exercise, newest first.
func (r *SessionRepository) ListByExercise(exercise string) ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, exercise, reps, duration, standard, stability, depth, frequency, overall, created_at
		 FROM sessions WHERE exercise = ? ORDER BY created_at DESC`,
		exercise,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		err := rows.Scan(&sess.ID, &sess.Exercise, &sess.Reps, &sess.Duration,
			&sess.Standard, &sess.Stability, &sess.Depth, &sess.Frequency, &sess.Overall,
			&sess.CreatedAt)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session by its ID. The errors and rep scores cascade.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *SessionRepository) sessionErrors(sessionID string) ([]SessionError, error) {
	rows, err := r.db.Query(
		`SELECT label, count, first_seen FROM session_errors
		 WHERE session_id = ? ORDER BY first_seen`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionError
	for rows.Next() {
		var e SessionError
		if err := rows.Scan(&e.Label, &e.Count, &e.FirstSeen); err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *SessionRepository) repScores(sessionID string) ([]RepScore, error) {
	rows, err := r.db.Query(
		`SELECT rep_index, time, standard, stability, depth FROM rep_quality
		 WHERE session_id = ? ORDER BY rep_index`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RepScore
	for rows.Next() {
		var q RepScore
		if err := rows.Scan(&q.RepIndex, &q.Time, &q.Standard, &q.Stability, &q.Depth); err != nil {
			return nil, err
		}
		out = append(out, q)
	}

	return out, rows.Err()
}

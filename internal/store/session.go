package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ayusman/handjoints/internal/joints"
)

// SessionStats are the counters a tracker accumulates while running.
type SessionStats struct {
	Frames     int64 `json:"frames"`
	HandFrames int64 `json:"hand_frames"`
	Failures   int64 `json:"failures"`
}

// Session is a recorded tracker run.
type Session struct {
	ID         string
	Group      joints.Group
	Options    joints.Options
	StartedAt  time.Time
	StoppedAt  *time.Time
	Stats      SessionStats
	StopReason string
}

// Running reports whether the session has not been finished.
func (s *Session) Running() bool {
	return s.StoppedAt == nil
}

// SessionRepository provides operations on tracking sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create records a newly started session. StartedAt is set if zero.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, joint_group, confidence_cutoff, precision, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.ID, int(sess.Group), sess.Options.ConfidenceCutoff, sess.Options.Precision, sess.StartedAt,
	)
	return err
}

// Finish stamps the stop time, final counters and reason on a session.
func (r *SessionRepository) Finish(id string, stats SessionStats, reason string) error {
	result, err := r.db.Exec(
		`UPDATE sessions
		 SET stopped_at = ?, frames = ?, hand_frames = ?, failures = ?, stop_reason = ?
		 WHERE id = ?`,
		time.Now(), stats.Frames, stats.HandFrames, stats.Failures, reason, id,
	)
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

const sessionColumns = `id, joint_group, confidence_cutoff, precision, started_at, stopped_at,
	frames, hand_frames, failures, stop_reason`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	sess := &Session{}
	var group int
	var stopped sql.NullTime

	err := row.Scan(
		&sess.ID, &group, &sess.Options.ConfidenceCutoff, &sess.Options.Precision,
		&sess.StartedAt, &stopped,
		&sess.Stats.Frames, &sess.Stats.HandFrames, &sess.Stats.Failures, &sess.StopReason,
	)
	if err != nil {
		return nil, err
	}

	sess.Group = joints.Group(group)
	if stopped.Valid {
		t := stopped.Time
		sess.StoppedAt = &t
	}
	return sess, nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess, err := scanSession(r.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List returns the most recent sessions first. A limit of 0 returns all.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
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

// Delete removes a session by its ID.
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

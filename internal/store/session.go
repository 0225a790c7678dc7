package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Source says where the landmarks of a session came from.
type Source string

const (
	SourceCamera Source = "camera"
	SourceReplay Source = "replay"
)

// Session is one run of the viewer. The final fields hold the raw
// transform when the session ended.
type Session struct {
	ID        string
	Image     string
	Source    Source
	StartedAt time.Time
	EndedAt   *time.Time
	Frames    int

	Scale        float64
	Angle        float64
	TranslationX float64
	TranslationY float64
}

// Active reports whether the session has not been finished.
func (s *Session) Active() bool {
	return s.EndedAt == nil
}

// SessionRepository reads and writes sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

const sessionColumns = `id, image, source, started_at, ended_at, frames, scale, angle, translation_x, translation_y`

// Create inserts sess, assigning a new ID when it has none and stamping
// StartedAt.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.Source == "" {
		sess.Source = SourceCamera
	}
	if sess.Scale == 0 {
		sess.Scale = 1
	}
	sess.StartedAt = time.Now().UTC()
	sess.EndedAt = nil

	_, err := r.db.Exec(
		`INSERT INTO sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, NULL, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Image, string(sess.Source), sess.StartedAt, sess.Frames,
		sess.Scale, sess.Angle, sess.TranslationX, sess.TranslationY,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Finish records the frame count and final transform of sess and marks it
// ended.
func (r *SessionRepository) Finish(sess *Session) error {
	ended := time.Now().UTC()

	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, frames = ?, scale = ?, angle = ?, translation_x = ?, translation_y = ?
		 WHERE id = ?`,
		ended, sess.Frames, sess.Scale, sess.Angle, sess.TranslationX, sess.TranslationY, sess.ID,
	)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	sess.EndedAt = &ended
	return nil
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(id string) (*Session, error) {
	row := r.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// Latest returns the most recently started session.
func (r *SessionRepository) Latest() (*Session, error) {
	row := r.db.QueryRow(`SELECT ` + sessionColumns + ` FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT 1`)
	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List returns up to limit sessions, newest first. limit <= 0 returns all.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT `+sessionColumns+` FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
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

// Delete removes a session and its transitions.
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

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (*Session, error) {
	sess := &Session{}
	var source string
	var ended sql.NullTime

	err := sc.Scan(
		&sess.ID, &sess.Image, &source, &sess.StartedAt, &ended, &sess.Frames,
		&sess.Scale, &sess.Angle, &sess.TranslationX, &sess.TranslationY,
	)
	if err != nil {
		return nil, err
	}

	sess.Source = Source(source)
	if ended.Valid {
		t := ended.Time
		sess.EndedAt = &t
	}
	return sess, nil
}

package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Transition is a change of gesture mode between two consecutive frames.
type Transition struct {
	ID        int64
	SessionID string
	Frame     int
	From      string
	To        string
	At        time.Time
}

// TransitionRepository records mode transitions.
type TransitionRepository struct {
	db *sql.DB
}

// Transitions returns the transition repository for this store.
func (s *Store) Transitions() *TransitionRepository {
	return &TransitionRepository{db: s.db}
}

// Record inserts t, stamping At when unset. The session must exist.
func (r *TransitionRepository) Record(t *Transition) error {
	if t.At.IsZero() {
		t.At = time.Now().UTC()
	}

	result, err := r.db.Exec(
		`INSERT INTO mode_transitions (session_id, frame, from_mode, to_mode, at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.SessionID, t.Frame, t.From, t.To, t.At,
	)
	if err != nil {
		return fmt.Errorf("insert transition: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// ListBySession returns the transitions of a session in frame order.
func (r *TransitionRepository) ListBySession(sessionID string) ([]*Transition, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, frame, from_mode, to_mode, at
		 FROM mode_transitions WHERE session_id = ? ORDER BY frame, id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transitions []*Transition
	for rows.Next() {
		t := &Transition{}
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Frame, &t.From, &t.To, &t.At); err != nil {
			return nil, err
		}
		transitions = append(transitions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transitions, nil
}

// CountByMode returns how many transitions of a session entered each mode.
func (r *TransitionRepository) CountByMode(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT to_mode, COUNT(*) FROM mode_transitions WHERE session_id = ? GROUP BY to_mode`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var mode string
		var n int
		if err := rows.Scan(&mode, &n); err != nil {
			return nil, err
		}
		counts[mode] = n
	}

	return counts, rows.Err()
}

package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"canvas/internal/domain"
)

const (
	stackPast   = "past"
	stackFuture = "future"
)

// HistoryStore persists undo/redo stacks in SQLite, one row per snapshot.
type HistoryStore struct {
	db    *DB
	limit int
}

// NewHistoryStore keeps at most limit entries per stack and document.
func NewHistoryStore(db *DB, limit int) *HistoryStore {
	s := &HistoryStore{db: db}
	s.SetLimit(limit)
	return s
}

func (s *HistoryStore) SetLimit(limit int) {
	if limit <= 0 {
		limit = 100
	}
	s.limit = limit
}

// SaveHistory replaces both stacks of a document. Past is stored oldest
// first, future nearest first, matching the in-memory order.
func (s *HistoryStore) SaveHistory(documentID string, past, future [][]domain.Component) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM history_entries WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	now := time.Now()
	insert := func(stack string, pos int, snap []domain.Component) error {
		data, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("encode %s snapshot %d: %w", stack, pos, err)
		}
		_, err = tx.Exec(
			`INSERT INTO history_entries (document_id, stack, position, snapshot_json, created_at) VALUES (?, ?, ?, ?, ?)`,
			documentID, stack, pos, string(data), now,
		)
		if err != nil {
			return fmt.Errorf("insert %s snapshot %d: %w", stack, pos, err)
		}
		return nil
	}
	for i, snap := range past {
		if err := insert(stackPast, i, snap); err != nil {
			return err
		}
	}
	for i, snap := range future {
		if err := insert(stackFuture, i, snap); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.pruneIfNeeded(documentID)
	return nil
}

// LoadHistory returns both stacks of a document. A document without saved
// history returns two empty stacks.
func (s *HistoryStore) LoadHistory(documentID string) (past, future [][]domain.Component, err error) {
	rows, err := s.db.Conn().Query(
		`SELECT stack, snapshot_json FROM history_entries WHERE document_id = ? ORDER BY stack, position ASC`,
		documentID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stack, data string
		if err := rows.Scan(&stack, &data); err != nil {
			return nil, nil, fmt.Errorf("scan history entry: %w", err)
		}
		snap := []domain.Component{}
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return nil, nil, fmt.Errorf("decode history entry: %w", err)
		}
		switch stack {
		case stackPast:
			past = append(past, snap)
		case stackFuture:
			future = append(future, snap)
		}
	}
	return past, future, rows.Err()
}

func (s *HistoryStore) ClearHistory(documentID string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM history_entries WHERE document_id = ?`, documentID)
	return err
}

// pruneIfNeeded drops the oldest past entries and the farthest future
// entries beyond the limit.
func (s *HistoryStore) pruneIfNeeded(documentID string) {
	var count int
	s.db.Conn().QueryRow(
		`SELECT COUNT(*) FROM history_entries WHERE document_id = ? AND stack = ?`, documentID, stackPast,
	).Scan(&count)
	if excess := count - s.limit; excess > 0 {
		s.db.Conn().Exec(
			`DELETE FROM history_entries WHERE document_id = ? AND stack = ? AND position < ?`,
			documentID, stackPast, excess,
		)
	}
	s.db.Conn().Exec(
		`DELETE FROM history_entries WHERE document_id = ? AND stack = ? AND position >= ?`,
		documentID, stackFuture, s.limit,
	)
}

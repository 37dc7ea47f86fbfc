package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"canvas/internal/domain"
)

// DocumentStore implements domain.DocumentStore using SQLite.
type DocumentStore struct {
	db *DB
}

func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

const documentColumns = `id, name, viewport_x, viewport_y, viewport_zoom, selected_id, created_at, updated_at`

func (s *DocumentStore) CreateDocument(d *domain.Document) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.Viewport.Zoom == 0 {
		d.Viewport.Zoom = 1
	}
	_, err := s.db.Conn().Exec(
		`INSERT INTO documents (`+documentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Viewport.PanX, d.Viewport.PanY, d.Viewport.Zoom, d.SelectedID, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *DocumentStore) GetDocument(id string) (*domain.Document, error) {
	d := &domain.Document{}
	err := s.db.Conn().QueryRow(
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.Viewport.PanX, &d.Viewport.PanY, &d.Viewport.Zoom, &d.SelectedID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get document %s: %w", id, domain.ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

func (s *DocumentStore) ListDocuments() ([]domain.Document, error) {
	rows, err := s.db.Conn().Query(`SELECT ` + documentColumns + ` FROM documents ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.Name, &d.Viewport.PanX, &d.Viewport.PanY, &d.Viewport.Zoom, &d.SelectedID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *DocumentStore) UpdateDocument(d *domain.Document) error {
	d.UpdatedAt = time.Now()
	res, err := s.db.Conn().Exec(
		`UPDATE documents SET name = ?, viewport_x = ?, viewport_y = ?, viewport_zoom = ?, selected_id = ?, updated_at = ? WHERE id = ?`,
		d.Name, d.Viewport.PanX, d.Viewport.PanY, d.Viewport.Zoom, d.SelectedID, d.UpdatedAt, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return requireRow(res, "update document", d.ID)
}

// DeleteDocument removes a document with its components and history.
func (s *DocumentStore) DeleteDocument(id string) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM history_entries WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM components WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("delete components: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if err := requireRow(res, "delete document", id); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdatedAt returns the last write time of a document. It is cheap enough to
// poll.
func (s *DocumentStore) UpdatedAt(id string) (time.Time, error) {
	var t time.Time
	err := s.db.Conn().QueryRow(`SELECT updated_at FROM documents WHERE id = ?`, id).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return t, fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	}
	return t, err
}

// componentStyle is the JSON form of the nested style fields.
type componentStyle struct {
	Border domain.Border `json:"border"`
	Shadow domain.Shadow `json:"shadow"`
}

const componentColumns = `id, x, y, width, height, rotation, background_color, border_radius, opacity, locked, hidden, style_json, component_type, props_json`

// ListComponents returns a document's components in z-order.
func (s *DocumentStore) ListComponents(documentID string) ([]domain.Component, error) {
	rows, err := s.db.Conn().Query(
		`SELECT `+componentColumns+` FROM components WHERE document_id = ? ORDER BY z_index ASC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	cs := []domain.Component{}
	for rows.Next() {
		var (
			c                    domain.Component
			styleJSON, propsJSON string
		)
		if err := rows.Scan(&c.ID, &c.X, &c.Y, &c.Width, &c.Height, &c.Rotation, &c.BackgroundColor,
			&c.BorderRadius, &c.Opacity, &c.Locked, &c.Hidden, &styleJSON, &c.ComponentType, &propsJSON); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		var style componentStyle
		if err := json.Unmarshal([]byte(styleJSON), &style); err != nil {
			return nil, fmt.Errorf("decode style of %s: %w", c.ID, err)
		}
		c.Border, c.Shadow = style.Border, style.Shadow
		if propsJSON != "" {
			if err := json.Unmarshal([]byte(propsJSON), &c.ComponentProps); err != nil {
				return nil, fmt.Errorf("decode props of %s: %w", c.ID, err)
			}
		}
		cs = append(cs, c)
	}
	return cs, rows.Err()
}

// ReplaceComponents atomically replaces all components of a document and
// bumps its updated_at.
func (s *DocumentStore) ReplaceComponents(documentID string, cs []domain.Component) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE documents SET updated_at = ? WHERE id = ?`, time.Now(), documentID)
	if err != nil {
		return fmt.Errorf("touch document: %w", err)
	}
	if err := requireRow(res, "replace components", documentID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM components WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("delete components: %w", err)
	}

	for i, c := range cs {
		styleJSON, err := json.Marshal(componentStyle{Border: c.Border, Shadow: c.Shadow})
		if err != nil {
			return fmt.Errorf("encode style of %s: %w", c.ID, err)
		}
		var propsJSON []byte
		if c.ComponentProps != nil {
			if propsJSON, err = json.Marshal(c.ComponentProps); err != nil {
				return fmt.Errorf("encode props of %s: %w", c.ID, err)
			}
		}
		_, err = tx.Exec(
			`INSERT INTO components (document_id, z_index, `+componentColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			documentID, i, c.ID, c.X, c.Y, c.Width, c.Height, c.Rotation, c.BackgroundColor,
			c.BorderRadius, c.Opacity, c.Locked, c.Hidden, string(styleJSON), c.ComponentType, string(propsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert component %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

func requireRow(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, domain.ErrDocumentNotFound)
	}
	return nil
}

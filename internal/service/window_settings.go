package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// ─────────────────────────────────────────────────────────────
// App Settings: window size and last document between sessions
// ─────────────────────────────────────────────────────────────
//
// Stored in SQLite as key-value rows in app_settings, created by the
// storage migrations.

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SettingsService persists shell state between sessions.
type SettingsService struct {
	conn *sql.DB
}

// NewSettingsService creates a SettingsService. A nil conn yields defaults
// and rejects writes.
func NewSettingsService(conn *sql.DB) *SettingsService {
	return &SettingsService{conn: conn}
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	settingLastDocument = "last_document"

	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 800
	minWindowWidth      = 800
	minWindowHeight     = 600
)

// LoadWindowSize returns the saved window dimensions, or sensible defaults.
func (s *SettingsService) LoadWindowSize() WindowSize {
	w, _ := strconv.Atoi(s.get(settingWindowWidth))
	h, _ := strconv.Atoi(s.get(settingWindowHeight))
	if w < minWindowWidth {
		w = DefaultWindowWidth
	}
	if h < minWindowHeight {
		h = DefaultWindowHeight
	}
	return WindowSize{Width: w, Height: h}
}

// SaveWindowSize persists the current window dimensions.
func (s *SettingsService) SaveWindowSize(width, height int) error {
	if err := s.set(settingWindowWidth, strconv.Itoa(width)); err != nil {
		return err
	}
	return s.set(settingWindowHeight, strconv.Itoa(height))
}

// LastDocument returns the id of the document open at the last shutdown.
func (s *SettingsService) LastDocument() string {
	return s.get(settingLastDocument)
}

func (s *SettingsService) SetLastDocument(id string) error {
	return s.set(settingLastDocument, id)
}

func (s *SettingsService) get(key string) string {
	if s.conn == nil {
		return ""
	}
	var v string
	err := s.conn.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&v)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ""
	}
	return v
}

func (s *SettingsService) set(key, value string) error {
	if s.conn == nil {
		return fmt.Errorf("settings: no db")
	}
	_, err := s.conn.Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

package domain

import "time"

// ViewportState is the persisted pan/zoom of a document. Pan is in
// document units.
type ViewportState struct {
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
	Zoom float64 `json:"zoom"`
}

type Document struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Viewport   ViewportState `json:"viewport"`
	SelectedID string        `json:"selectedId,omitempty"` // selection at the last save
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// DocumentState represents the complete state of a document for rendering.
type DocumentState struct {
	Document   Document    `json:"document"`
	Components []Component `json:"components"`
	SelectedID string      `json:"selectedId"`
	CanUndo    bool        `json:"canUndo"`
	CanRedo    bool        `json:"canRedo"`
}

type DocumentStore interface {
	CreateDocument(d *Document) error
	GetDocument(id string) (*Document, error)
	ListDocuments() ([]Document, error)
	UpdateDocument(d *Document) error
	DeleteDocument(id string) error

	ListComponents(documentID string) ([]Component, error)
	ReplaceComponents(documentID string, cs []Component) error
}

type HistoryStore interface {
	SaveHistory(documentID string, past, future [][]Component) error
	LoadHistory(documentID string) (past, future [][]Component, err error)
	ClearHistory(documentID string) error
}

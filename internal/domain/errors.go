package domain

import "errors"

// Editor errors. All of them are recoverable: the rejected operation leaves
// state unchanged.
var (
	ErrDuplicateID      = errors.New("duplicate component id")
	ErrNotFound         = errors.New("component not found")
	ErrInvalidReorder   = errors.New("reorder is not a permutation of the current components")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrNothingToRedo    = errors.New("nothing to redo")
	ErrGestureConflict  = errors.New("another gesture is already active")
	ErrInvalidSelection = errors.New("selected component is not in the document")
	ErrInvalidComponent = errors.New("invalid component")
	ErrComponentLocked  = errors.New("component is locked")
	ErrComponentHidden  = errors.New("component is hidden")
	ErrNoSelection      = errors.New("no component selected")
	ErrClipboardEmpty   = errors.New("clipboard is empty")
)

// ErrDocumentNotFound is returned by stores for an unknown document id.
var ErrDocumentNotFound = errors.New("document not found")

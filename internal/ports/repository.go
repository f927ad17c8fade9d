package ports

import (
	"github.com/Bloomca/Discosaur/internal/domain"
)

// FolderAccessList is the boundary to the platform's long-lived folder
// permission store. Adding a folder yields an opaque token that can be
// resolved back to a live path after a restart.
//
// Implementations must be safe for concurrent use.
type FolderAccessList interface {
	// AddFolder registers a folder and returns its token. Registering the
	// same folder twice may return the same or a new token.
	AddFolder(path string) (string, error)

	// ResolveToken returns the folder path for a token, or
	// domain.ErrTokenNotFound when the token is unknown or the folder is
	// no longer accessible.
	ResolveToken(token string) (string, error)

	// RemoveToken releases a token. Unknown tokens are a no-op.
	RemoveToken(token string)
}

// StateStore reads and writes the persisted application state document.
//
// Implementations must be safe for concurrent use: the debounced write runs
// off the caller's goroutine.
type StateStore interface {
	// Read returns the persisted state, or (nil, nil) when no state has
	// been written yet. A corrupt document is an error; callers treat it
	// as a fresh start.
	Read() (*domain.AppState, error)

	// Write replaces the persisted state.
	Write(state *domain.AppState) error
}

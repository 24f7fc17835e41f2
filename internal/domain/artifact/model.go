// Package artifact models files and folders produced by agent runs.
package artifact

import "time"

// Type distinguishes artifact kinds.
type Type string

const (
	TypeFile   Type = "file"
	TypeFolder Type = "folder"
)

// Artifact is metadata for a file or folder produced during an agent run.
// Path is relative to the owner's storage directory; the bytes themselves
// live on disk, not in the database.
type Artifact struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	UserID    string    `json:"user_id"`
	RunID     *string   `json:"run_id,omitempty"`
	Type      Type      `json:"type"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	AssetID   *string   `json:"asset_id,omitempty"`
	IsFolder  bool      `json:"is_folder"`
	CreatedAt time.Time `json:"created_at"`
}

// Input is an artifact record as submitted by the agent after a run.
type Input struct {
	RunID    *string
	Type     Type
	Name     string
	Path     string
	AssetID  *string
	IsFolder bool
}

// Filter narrows artifact listings.
type Filter struct {
	RunID *string
}

package responses

import (
	"time"

	"jan-server/services/agent-gateway/internal/domain/artifact"
)

// ArtifactResponse is the artifact payload returned to clients.
type ArtifactResponse struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	RunID     *string   `json:"run_id,omitempty"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	AssetID   *string   `json:"asset_id,omitempty"`
	IsFolder  bool      `json:"is_folder"`
	CreatedAt time.Time `json:"created_at"`
}

// ArtifactListResponse wraps an artifact listing.
type ArtifactListResponse struct {
	Data []ArtifactResponse `json:"data"`
}

// FolderListingResponse lists the files of a folder artifact.
type FolderListingResponse struct {
	ArtifactID string   `json:"artifact_id"`
	Files      []string `json:"files"`
}

// MapArtifactToResponse maps the domain artifact to DTO.
func MapArtifactToResponse(a *artifact.Artifact) ArtifactResponse {
	return ArtifactResponse{
		ID:        a.ID,
		ThreadID:  a.ThreadID,
		RunID:     a.RunID,
		Type:      string(a.Type),
		Name:      a.Name,
		Path:      a.Path,
		AssetID:   a.AssetID,
		IsFolder:  a.IsFolder,
		CreatedAt: a.CreatedAt,
	}
}

// MapArtifactsToResponse maps a slice of domain artifacts to DTOs.
func MapArtifactsToResponse(artifacts []*artifact.Artifact) []ArtifactResponse {
	out := make([]ArtifactResponse, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, MapArtifactToResponse(a))
	}
	return out
}

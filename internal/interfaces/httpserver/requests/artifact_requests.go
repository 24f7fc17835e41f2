package requests

// CreateArtifactsRequest is the payload for POST /v1/threads/:thread_id/artifacts.
type CreateArtifactsRequest struct {
	Artifacts []ArtifactEntry `json:"artifacts" binding:"required"`
}

// ArtifactEntry is one artifact record in a creation batch.
type ArtifactEntry struct {
	RunID    *string `json:"run_id"`
	Type     string  `json:"type" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Path     string  `json:"path" binding:"required"`
	AssetID  *string `json:"asset_id"`
	IsFolder bool    `json:"is_folder"`
}

package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/agent-gateway/internal/domain/artifact"
	"jan-server/services/agent-gateway/internal/infrastructure/metrics"
	"jan-server/services/agent-gateway/internal/infrastructure/observability"
	"jan-server/services/agent-gateway/internal/infrastructure/storage"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver/requests"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver/responses"
	"jan-server/services/agent-gateway/internal/utils/platformerrors"
)

// ArtifactHandler exposes HTTP entrypoints for artifact metadata and file
// access.
type ArtifactHandler struct {
	service artifact.Service
	storage *storage.LocalStorage
	log     zerolog.Logger
}

// NewArtifactHandler constructs the handler.
func NewArtifactHandler(service artifact.Service, localStorage *storage.LocalStorage, log zerolog.Logger) *ArtifactHandler {
	return &ArtifactHandler{
		service: service,
		storage: localStorage,
		log:     log.With().Str("handler", "artifact").Logger(),
	}
}

// CreateBulk handles POST /v1/threads/:thread_id/artifacts
func (h *ArtifactHandler) CreateBulk(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tid, ok := threadIDParam(c)
	if !ok {
		return
	}

	var req requests.CreateArtifactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "artifact-create-bind-001")
		return
	}

	inputs := make([]artifact.Input, 0, len(req.Artifacts))
	for _, entry := range req.Artifacts {
		kind := artifact.Type(entry.Type)
		if kind != artifact.TypeFile && kind != artifact.TypeFolder {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "artifact type must be file or folder", "artifact-create-type-001")
			return
		}
		inputs = append(inputs, artifact.Input{
			RunID:    entry.RunID,
			Type:     kind,
			Name:     entry.Name,
			Path:     entry.Path,
			AssetID:  entry.AssetID,
			IsFolder: entry.IsFolder,
		})
	}

	// Provision the owner's sandbox alongside the first registration so the
	// directory exists by the time a download lands. Registration is metadata
	// only, so a provisioning failure is not fatal here.
	if h.storage.Enabled() {
		if _, err := h.storage.EnsureUserDir(userID); err != nil {
			h.log.Warn().Err(err).Str("user_id", userID).Msg("failed to provision user storage")
		}
	}

	created, err := h.service.CreateBulk(c.Request.Context(), userID, tid, inputs)
	if err != nil {
		responses.HandleError(c, err, "failed to register artifacts")
		return
	}

	c.JSON(http.StatusCreated, responses.ArtifactListResponse{
		Data: responses.MapArtifactsToResponse(created),
	})
}

// ListByThread handles GET /v1/threads/:thread_id/artifacts
func (h *ArtifactHandler) ListByThread(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tid, ok := threadIDParam(c)
	if !ok {
		return
	}

	filter := artifact.Filter{}
	if runID := c.Query("run_id"); runID != "" {
		filter.RunID = &runID
	}

	artifacts, err := h.service.List(c.Request.Context(), userID, tid, filter)
	if err != nil {
		responses.HandleError(c, err, "failed to list artifacts")
		return
	}

	c.JSON(http.StatusOK, responses.ArtifactListResponse{
		Data: responses.MapArtifactsToResponse(artifacts),
	})
}

// Get handles GET /v1/artifacts/:artifact_id
func (h *ArtifactHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	artifactID := c.Param("artifact_id")

	a, err := h.service.Get(c.Request.Context(), userID, artifactID)
	if err != nil {
		responses.HandleError(c, err, "failed to get artifact")
		return
	}

	c.JSON(http.StatusOK, responses.MapArtifactToResponse(a))
}

// Delete handles DELETE /v1/artifacts/:artifact_id
func (h *ArtifactHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	artifactID := c.Param("artifact_id")

	if err := h.service.Delete(c.Request.Context(), userID, artifactID); err != nil {
		responses.HandleError(c, err, "failed to delete artifact")
		return
	}

	c.Status(http.StatusNoContent)
}

// Download handles GET /v1/artifacts/:artifact_id/download. For folder
// artifacts the optional path query selects a file inside the folder. When
// file storage is not configured, or a known record's own file is missing,
// the artifact metadata is returned instead of bytes.
func (h *ArtifactHandler) Download(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	artifactID := c.Param("artifact_id")

	ctx, span := observability.StartArtifactSpan(c.Request.Context(), "download", artifactID)
	defer span.End()

	a, err := h.service.Get(ctx, userID, artifactID)
	if err != nil {
		observability.RecordError(span, err)
		metrics.RecordArtifactDownload("error")
		responses.HandleError(c, err, "failed to download artifact")
		return
	}

	if !h.storage.Enabled() {
		h.respondMetadataFallback(c, a)
		return
	}

	subPath := c.Query("path")
	if subPath != "" && !a.IsFolder {
		metrics.RecordArtifactDownload("error")
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "path query is only valid for folder artifacts", "artifact-download-path-001")
		return
	}

	file, contentType, err := h.storage.Open(userID, a.Path, subPath)
	if err != nil {
		// A known record whose own bytes are missing degrades to metadata;
		// only a sub-path miss inside a folder is a 404.
		if subPath == "" && (errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrOutsideRoot)) {
			h.respondMetadataFallback(c, a)
			return
		}
		observability.RecordError(span, err)
		h.handleStorageError(c, err, "failed to download artifact")
		return
	}
	defer file.Close()

	name := a.Name
	if subPath != "" {
		name = subPath
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, file); err != nil {
		metrics.RecordArtifactDownload("error")
		h.log.Debug().Err(err).Str("artifact_id", artifactID).Msg("artifact download aborted")
		return
	}
	metrics.RecordArtifactDownload("ok")
}

// ListFiles handles GET /v1/artifacts/:artifact_id/files for folder
// artifacts, returning the immediate files matching optional prefix and
// suffix filters.
func (h *ArtifactHandler) ListFiles(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	artifactID := c.Param("artifact_id")

	ctx, span := observability.StartArtifactSpan(c.Request.Context(), "list_files", artifactID)
	defer span.End()

	a, err := h.service.Get(ctx, userID, artifactID)
	if err != nil {
		observability.RecordError(span, err)
		responses.HandleError(c, err, "failed to list artifact files")
		return
	}
	if !a.IsFolder {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "artifact is not a folder", "artifact-files-kind-001")
		return
	}

	if !h.storage.Enabled() {
		c.JSON(http.StatusOK, responses.FolderListingResponse{
			ArtifactID: a.ID,
			Files:      []string{},
		})
		return
	}

	files, err := h.storage.ListFolder(userID, a.Path, c.Query("prefix"), c.Query("suffix"))
	if err != nil {
		observability.RecordError(span, err)
		h.handleStorageError(c, err, "failed to list artifact files")
		return
	}

	c.JSON(http.StatusOK, responses.FolderListingResponse{
		ArtifactID: a.ID,
		Files:      files,
	})
}

// respondMetadataFallback serves the artifact record as JSON with a
// Content-Disposition naming the artifact, in place of file bytes.
func (h *ArtifactHandler) respondMetadataFallback(c *gin.Context, a *artifact.Artifact) {
	metrics.RecordArtifactDownload("metadata_only")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))
	c.JSON(http.StatusOK, responses.MapArtifactToResponse(a))
}

// handleStorageError maps storage failures to HTTP responses. Sandbox
// escapes are reported as not found so the response never reveals whether a
// path exists outside the sandbox.
func (h *ArtifactHandler) handleStorageError(c *gin.Context, err error, message string) {
	metrics.RecordArtifactDownload("error")
	switch {
	case errors.Is(err, storage.ErrOutsideRoot), errors.Is(err, storage.ErrNotFound):
		responses.HandleNewError(c, platformerrors.ErrorTypeNotFound, "artifact file not found", "artifact-storage-notfound-001")
	case errors.Is(err, storage.ErrDisabled):
		responses.HandleNewError(c, platformerrors.ErrorTypeInternal, "artifact storage is not configured", "artifact-storage-disabled-001")
	default:
		responses.HandleError(c, err, message)
	}
}

package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"jan-server/services/agent-gateway/internal/domain/artifact"
	"jan-server/services/agent-gateway/internal/infrastructure/storage"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver/handlers"
)

// MockArtifactService is an artifact.Service for testing.
type MockArtifactService struct {
	CreateBulkFunc func(ctx context.Context, userID, threadID string, inputs []artifact.Input) ([]*artifact.Artifact, error)
	ListFunc       func(ctx context.Context, userID, threadID string, filter artifact.Filter) ([]*artifact.Artifact, error)
	GetFunc        func(ctx context.Context, userID, artifactID string) (*artifact.Artifact, error)
	DeleteFunc     func(ctx context.Context, userID, artifactID string) error
}

func (m *MockArtifactService) CreateBulk(ctx context.Context, userID, threadID string, inputs []artifact.Input) ([]*artifact.Artifact, error) {
	if m.CreateBulkFunc != nil {
		return m.CreateBulkFunc(ctx, userID, threadID, inputs)
	}
	return nil, nil
}

func (m *MockArtifactService) List(ctx context.Context, userID, threadID string, filter artifact.Filter) ([]*artifact.Artifact, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, threadID, filter)
	}
	return nil, nil
}

func (m *MockArtifactService) Get(ctx context.Context, userID, artifactID string) (*artifact.Artifact, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, artifactID)
	}
	return nil, nil
}

func (m *MockArtifactService) Delete(ctx context.Context, userID, artifactID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, artifactID)
	}
	return nil
}

func setupArtifactTestRouter(handler *handlers.ArtifactHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	})
	r.POST("/v1/threads/:thread_id/artifacts", handler.CreateBulk)
	r.GET("/v1/artifacts/:artifact_id", handler.Get)
	r.GET("/v1/artifacts/:artifact_id/download", handler.Download)
	r.GET("/v1/artifacts/:artifact_id/files", handler.ListFiles)
	r.DELETE("/v1/artifacts/:artifact_id", handler.Delete)
	return r
}

func newTestStorage(t *testing.T) (*storage.LocalStorage, string) {
	t.Helper()
	root := t.TempDir()
	ls, err := storage.NewLocalStorage(root, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLocalStorage() error = %v", err)
	}
	return ls, root
}

func fileArtifact(path string) *artifact.Artifact {
	return &artifact.Artifact{
		ID:       "art-1",
		ThreadID: testThreadID,
		UserID:   "user-1",
		Type:     artifact.TypeFile,
		Name:     "report.txt",
		Path:     path,
	}
}

func TestArtifactHandler_Download(t *testing.T) {
	ls, root := newTestStorage(t)

	target := filepath.Join(root, "user-1", "runs", "r1", "report.txt")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("report body"), 0644); err != nil {
		t.Fatal(err)
	}

	svc := &MockArtifactService{
		GetFunc: func(ctx context.Context, userID, artifactID string) (*artifact.Artifact, error) {
			return fileArtifact("runs/r1/report.txt"), nil
		},
	}

	handler := handlers.NewArtifactHandler(svc, ls, zerolog.Nop())
	router := setupArtifactTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/artifacts/art-1/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "report body" {
		t.Errorf("body = %q, want file contents", w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="report.txt"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestArtifactHandler_Download_EscapeFallsBackToMetadata(t *testing.T) {
	ls, root := newTestStorage(t)

	// A real file outside the owner's sandbox must stay unreachable; the
	// known record degrades to metadata instead of leaking bytes.
	secret := filepath.Join(root, "user-2", "secret.txt")
	if err := os.MkdirAll(filepath.Dir(secret), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(secret, []byte("secret"), 0644); err != nil {
		t.Fatal(err)
	}

	svc := &MockArtifactService{
		GetFunc: func(ctx context.Context, userID, artifactID string) (*artifact.Artifact, error) {
			return fileArtifact("../user-2/secret.txt"), nil
		},
	}

	handler := handlers.NewArtifactHandler(svc, ls, zerolog.Nop())
	router := setupArtifactTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/artifacts/art-1/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Expected metadata JSON, got %q", w.Body.String())
	}
	if response["id"] != "art-1" {
		t.Errorf("Expected artifact metadata, got %v", response)
	}
}

func TestArtifactHandler_Download_SubPathMiss(t *testing.T) {
	ls, root := newTestStorage(t)

	dir := filepath.Join(root, "user-1", "runs", "r1", "slides")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	svc := &MockArtifactService{
		GetFunc: func(ctx context.Context, userID, artifactID string) (*artifact.Artifact, error) {
			return &artifact.Artifact{
				ID:       "art-1",
				ThreadID: testThreadID,
				UserID:   "user-1",
				Type:     artifact.TypeFolder,
				Name:     "slides",
				Path:     "runs/r1/slides",
				IsFolder: true,
			}, nil
		},
	}

	handler := handlers.NewArtifactHandler(svc, ls, zerolog.Nop())
	router := setupArtifactTestRouter(handler)

	// A miss inside a folder is the one download case that stays a 404.
	req, _ := http.NewRequest("GET", "/v1/artifacts/art-1/download?path=absent.png", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for sub-path miss, got %d", w.Code)
	}

	req, _ = http.NewRequest("GET", "/v1/artifacts/art-1/download?path=../../../etc/passwd", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for escaping sub-path, got %d", w.Code)
	}
}

func TestArtifactHandler_Download_StorageDisabled(t *testing.T) {
	ls, err := storage.NewLocalStorage("", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	svc := &MockArtifactService{
		GetFunc: func(ctx context.Context, userID, artifactID string) (*artifact.Artifact, error) {
			return fileArtifact("runs/r1/report.txt"), nil
		},
	}

	handler := handlers.NewArtifactHandler(svc, ls, zerolog.Nop())
	router := setupArtifactTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/artifacts/art-1/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Without a storage root the endpoint degrades to metadata.
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["id"] != "art-1" {
		t.Errorf("Expected artifact metadata, got %v", response)
	}
}

func TestArtifactHandler_ListFiles(t *testing.T) {
	ls, root := newTestStorage(t)

	dir := filepath.Join(root, "user-1", "runs", "r1", "slides")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"page_02.png", "page_01.png", "readme.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	svc := &MockArtifactService{
		GetFunc: func(ctx context.Context, userID, artifactID string) (*artifact.Artifact, error) {
			return &artifact.Artifact{
				ID:       "art-1",
				ThreadID: testThreadID,
				UserID:   "user-1",
				Type:     artifact.TypeFolder,
				Name:     "slides",
				Path:     "runs/r1/slides",
				IsFolder: true,
			}, nil
		},
	}

	handler := handlers.NewArtifactHandler(svc, ls, zerolog.Nop())
	router := setupArtifactTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/artifacts/art-1/files?prefix=page_&suffix=.png", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		ArtifactID string   `json:"artifact_id"`
		Files      []string `json:"files"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Files) != 2 || response.Files[0] != "page_01.png" || response.Files[1] != "page_02.png" {
		t.Errorf("files = %v, want sorted filtered pages", response.Files)
	}
}

func TestArtifactHandler_ListFiles_NotFolder(t *testing.T) {
	ls, _ := newTestStorage(t)

	svc := &MockArtifactService{
		GetFunc: func(ctx context.Context, userID, artifactID string) (*artifact.Artifact, error) {
			return fileArtifact("runs/r1/report.txt"), nil
		},
	}

	handler := handlers.NewArtifactHandler(svc, ls, zerolog.Nop())
	router := setupArtifactTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/artifacts/art-1/files", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestArtifactHandler_CreateBulk_ProvisionsUserDir(t *testing.T) {
	ls, root := newTestStorage(t)

	svc := &MockArtifactService{
		CreateBulkFunc: func(ctx context.Context, userID, threadID string, inputs []artifact.Input) ([]*artifact.Artifact, error) {
			out := make([]*artifact.Artifact, 0, len(inputs))
			for i, in := range inputs {
				out = append(out, &artifact.Artifact{
					ID:       "art-" + string(rune('1'+i)),
					ThreadID: threadID,
					UserID:   userID,
					Type:     in.Type,
					Name:     in.Name,
					Path:     in.Path,
				})
			}
			return out, nil
		},
	}

	handler := handlers.NewArtifactHandler(svc, ls, zerolog.Nop())
	router := setupArtifactTestRouter(handler)

	body := `{"artifacts":[{"type":"file","name":"report.txt","path":"runs/r1/report.txt"}]}`
	req, _ := http.NewRequest("POST", "/v1/threads/"+testThreadID+"/artifacts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	// Registering artifacts provisions the owner's sandbox directory.
	info, err := os.Stat(filepath.Join(root, "user-1"))
	if err != nil || !info.IsDir() {
		t.Errorf("user storage directory was not provisioned: %v", err)
	}
}

func TestArtifactHandler_Download_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	ls, root := newTestStorage(t)
	target := filepath.Join(root, "user-1", "runs", "r1", "report.txt")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("report body"), 0644); err != nil {
		t.Fatal(err)
	}

	svc := &MockArtifactService{
		GetFunc: func(ctx context.Context, userID, artifactID string) (*artifact.Artifact, error) {
			return fileArtifact("runs/r1/report.txt"), nil
		},
	}

	handler := handlers.NewArtifactHandler(svc, ls, zerolog.Nop())
	router := setupArtifactTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/artifacts/art-1/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	found := false
	for _, s := range recorder.Ended() {
		if s.Name() == "artifact.download" {
			found = true
		}
	}
	if !found {
		t.Errorf("download did not record an artifact.download span")
	}
}

func TestArtifactHandler_Delete(t *testing.T) {
	ls, _ := newTestStorage(t)

	deleted := ""
	svc := &MockArtifactService{
		DeleteFunc: func(ctx context.Context, userID, artifactID string) error {
			deleted = artifactID
			return nil
		},
	}

	handler := handlers.NewArtifactHandler(svc, ls, zerolog.Nop())
	router := setupArtifactTestRouter(handler)

	req, _ := http.NewRequest("DELETE", "/v1/artifacts/art-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if deleted != "art-1" {
		t.Errorf("service deleted %q, want art-1", deleted)
	}
}

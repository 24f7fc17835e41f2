package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/agent-gateway/internal/domain/feedback"
	"jan-server/services/agent-gateway/internal/interfaces/httpserver/handlers"
	"jan-server/services/agent-gateway/internal/utils/platformerrors"
)

// MockFeedbackService is a feedback.Service for testing.
type MockFeedbackService struct {
	SubmitFunc       func(ctx context.Context, userID, threadID, runID string, rating feedback.Rating) (*feedback.Feedback, error)
	GetByRunFunc     func(ctx context.Context, userID, threadID, runID string) (*feedback.Feedback, error)
	ListByThreadFunc func(ctx context.Context, userID, threadID string) ([]*feedback.Feedback, error)
}

func (m *MockFeedbackService) Submit(ctx context.Context, userID, threadID, runID string, rating feedback.Rating) (*feedback.Feedback, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, userID, threadID, runID, rating)
	}
	return nil, nil
}

func (m *MockFeedbackService) GetByRun(ctx context.Context, userID, threadID, runID string) (*feedback.Feedback, error) {
	if m.GetByRunFunc != nil {
		return m.GetByRunFunc(ctx, userID, threadID, runID)
	}
	return nil, nil
}

func (m *MockFeedbackService) ListByThread(ctx context.Context, userID, threadID string) ([]*feedback.Feedback, error) {
	if m.ListByThreadFunc != nil {
		return m.ListByThreadFunc(ctx, userID, threadID)
	}
	return nil, nil
}

func setupFeedbackTestRouter(handler *handlers.FeedbackHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	})
	r.POST("/v1/threads/:thread_id/feedback", handler.Submit)
	r.GET("/v1/threads/:thread_id/feedback", handler.Get)
	return r
}

func TestFeedbackHandler_Submit(t *testing.T) {
	var capturedRun string
	var capturedRating feedback.Rating
	svc := &MockFeedbackService{
		SubmitFunc: func(ctx context.Context, userID, threadID, runID string, rating feedback.Rating) (*feedback.Feedback, error) {
			capturedRun = runID
			capturedRating = rating
			return &feedback.Feedback{ID: "fb-1", ThreadID: threadID, RunID: runID, UserID: userID, Rating: rating}, nil
		},
	}

	handler := handlers.NewFeedbackHandler(svc, zerolog.Nop())
	router := setupFeedbackTestRouter(handler)

	body := `{"run_id":"r1","rating":"up"}`
	req, _ := http.NewRequest("POST", "/v1/threads/"+testThreadID+"/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if capturedRun != "r1" || capturedRating != feedback.RatingUp {
		t.Errorf("service received run=%q rating=%q, want r1/up", capturedRun, capturedRating)
	}
}

func TestFeedbackHandler_Submit_InvalidRating(t *testing.T) {
	called := false
	svc := &MockFeedbackService{
		SubmitFunc: func(ctx context.Context, userID, threadID, runID string, rating feedback.Rating) (*feedback.Feedback, error) {
			called = true
			return nil, nil
		},
	}

	handler := handlers.NewFeedbackHandler(svc, zerolog.Nop())
	router := setupFeedbackTestRouter(handler)

	body := `{"run_id":"r1","rating":"amazing"}`
	req, _ := http.NewRequest("POST", "/v1/threads/"+testThreadID+"/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if called {
		t.Errorf("service called for an invalid rating")
	}
}

func TestFeedbackHandler_Get_ByRun(t *testing.T) {
	svc := &MockFeedbackService{
		GetByRunFunc: func(ctx context.Context, userID, threadID, runID string) (*feedback.Feedback, error) {
			if runID != "r1" {
				return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "feedback not found", nil, "mock-feedback-get-001")
			}
			return &feedback.Feedback{ID: "fb-1", ThreadID: threadID, RunID: runID, UserID: userID, Rating: feedback.RatingDown}, nil
		},
	}

	handler := handlers.NewFeedbackHandler(svc, zerolog.Nop())
	router := setupFeedbackTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/threads/"+testThreadID+"/feedback?run_id=r1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var response struct {
		RunID  string `json:"run_id"`
		Rating string `json:"rating"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.RunID != "r1" || response.Rating != "down" {
		t.Errorf("response = %+v, want r1/down", response)
	}

	req, _ = http.NewRequest("GET", "/v1/threads/"+testThreadID+"/feedback?run_id=absent", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unrated run, got %d", w.Code)
	}
}

func TestFeedbackHandler_Get_List(t *testing.T) {
	svc := &MockFeedbackService{
		ListByThreadFunc: func(ctx context.Context, userID, threadID string) ([]*feedback.Feedback, error) {
			return []*feedback.Feedback{
				{ID: "fb-1", ThreadID: threadID, RunID: "r1", UserID: userID, Rating: feedback.RatingUp},
				{ID: "fb-2", ThreadID: threadID, RunID: "r2", UserID: userID, Rating: feedback.RatingDown},
			}, nil
		},
	}

	handler := handlers.NewFeedbackHandler(svc, zerolog.Nop())
	router := setupFeedbackTestRouter(handler)

	req, _ := http.NewRequest("GET", "/v1/threads/"+testThreadID+"/feedback", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var response struct {
		Data []struct {
			RunID string `json:"run_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Data) != 2 {
		t.Errorf("listing returned %d items, want 2", len(response.Data))
	}
}

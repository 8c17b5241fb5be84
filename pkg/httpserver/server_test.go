package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forekast/questionfeed/pkg/healthprobe"
	"github.com/forekast/questionfeed/pkg/types"
	"go.uber.org/zap"
)

type fakeQuestionSource struct {
	questions []*types.Question
}

func (f *fakeQuestionSource) All() []*types.Question { return f.questions }

func (f *fakeQuestionSource) Authored() []*types.Question {
	var out []*types.Question
	for _, q := range f.questions {
		if q.IsUserQuestion {
			out = append(out, q)
		}
	}
	return out
}

func (f *fakeQuestionSource) Followed() []*types.Question {
	var out []*types.Question
	for _, q := range f.questions {
		if q.IsFollowing {
			out = append(out, q)
		}
	}
	return out
}

func (f *fakeQuestionSource) GetByCategory(category string) []*types.Question {
	var out []*types.Question
	for _, q := range f.questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

func (f *fakeQuestionSource) Get(id string) (*types.Question, bool) {
	for _, q := range f.questions {
		if q.ID == id {
			return q, true
		}
	}
	return nil, false
}

type fakeStatusSource struct {
	loading bool
	err     error
}

func (f *fakeStatusSource) Loading() bool { return f.loading }
func (f *fakeStatusSource) Err() error    { return f.err }

func newTestServer(questions QuestionSource, status StatusSource) *Server {
	return New(&Config{
		Port:          "0",
		Logger:        zap.NewNop(),
		HealthChecker: healthprobe.New(),
		Questions:     questions,
		Status:        status,
	})
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Health endpoint status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestReadyEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		setReady       bool
		expectedStatus int
	}{
		{
			name:           "ready_when_set",
			setReady:       true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not_ready_initially",
			setReady:       false,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := healthprobe.New()
			if tt.setReady {
				hc.SetReady(true)
			}

			server := New(&Config{
				Port:          "0",
				Logger:        zap.NewNop(),
				HealthChecker: hc,
			})

			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			w := httptest.NewRecorder()

			server.server.Handler.ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("Ready endpoint status = %d, want %d", resp.StatusCode, tt.expectedStatus)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Metrics endpoint status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read metrics response body: %v", err)
	}

	if len(body) == 0 {
		t.Error("Metrics endpoint returned empty body")
	}
}

func TestQuestionList(t *testing.T) {
	source := &fakeQuestionSource{
		questions: []*types.Question{
			{ID: "m1", Text: "Will it rain tomorrow?", Category: "Weather"},
			{ID: "m2", Text: "Will the index close up?", Category: "Finance", IsFollowing: true},
			{ID: "m3", Text: "My question?", Category: "Finance", IsUserQuestion: true},
		},
	}

	tests := []struct {
		name    string
		path    string
		wantIDs []string
	}{
		{
			name:    "all_questions",
			path:    "/api/questions",
			wantIDs: []string{"m1", "m2", "m3"},
		},
		{
			name:    "authored_view",
			path:    "/api/questions?view=authored",
			wantIDs: []string{"m3"},
		},
		{
			name:    "followed_view",
			path:    "/api/questions?view=followed",
			wantIDs: []string{"m2"},
		},
		{
			name:    "category_filter",
			path:    "/api/questions?category=Finance",
			wantIDs: []string{"m2", "m3"},
		},
	}

	server := newTestServer(source, &fakeStatusSource{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			server.server.Handler.ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("List endpoint status = %d, want %d", resp.StatusCode, http.StatusOK)
			}

			var listResp ListResponse
			if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
				t.Fatalf("Failed to decode list response: %v", err)
			}

			var gotIDs []string
			for _, q := range listResp.Questions {
				gotIDs = append(gotIDs, q.ID)
			}

			if len(gotIDs) != len(tt.wantIDs) {
				t.Fatalf("List returned %v, want %v", gotIDs, tt.wantIDs)
			}
			for i, id := range tt.wantIDs {
				if gotIDs[i] != id {
					t.Errorf("List returned %v, want %v", gotIDs, tt.wantIDs)
					break
				}
			}
		})
	}
}

func TestQuestionList_UnknownView(t *testing.T) {
	server := newTestServer(&fakeQuestionSource{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/questions?view=bogus", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Unknown view status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestQuestionList_SyncStatus(t *testing.T) {
	status := &fakeStatusSource{loading: true, err: errors.New("backend unreachable")}
	server := newTestServer(&fakeQuestionSource{}, status)

	req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	var listResp ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		t.Fatalf("Failed to decode list response: %v", err)
	}

	if !listResp.Loading {
		t.Error("Loading flag not surfaced")
	}
	if listResp.Error != "backend unreachable" {
		t.Errorf("Error = %q, want %q", listResp.Error, "backend unreachable")
	}
}

func TestQuestionGet(t *testing.T) {
	source := &fakeQuestionSource{
		questions: []*types.Question{
			{ID: "m1", Text: "Will it rain tomorrow?"},
		},
	}

	server := newTestServer(source, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/questions/m1", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Get endpoint status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var question types.Question
	if err := json.NewDecoder(resp.Body).Decode(&question); err != nil {
		t.Fatalf("Failed to decode question: %v", err)
	}

	if question.ID != "m1" {
		t.Errorf("Get returned %s, want m1", question.ID)
	}
}

func TestQuestionGet_NotFound(t *testing.T) {
	server := newTestServer(&fakeQuestionSource{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/questions/missing", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Missing question status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errResp.Error == "" {
		t.Error("Error response missing error message")
	}
}

func TestQuestionEndpoints_OnlyWithStore(t *testing.T) {
	server := New(&Config{
		Port:          "0",
		Logger:        zap.NewNop(),
		HealthChecker: healthprobe.New(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Question route without store status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	server := newTestServer(nil, nil)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Start()
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	select {
	case err := <-serverDone:
		if err != nil {
			t.Errorf("Start() returned error after shutdown: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after shutdown")
	}
}

func TestServer_RouteNotFound(t *testing.T) {
	server := newTestServer(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Non-existent route status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

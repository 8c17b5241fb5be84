package httpserver

import (
	"net/http"

	"github.com/forekast/questionfeed/pkg/types"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// QuestionSource reads questions from the synchronized store.
type QuestionSource interface {
	All() []*types.Question
	Authored() []*types.Question
	Followed() []*types.Question
	GetByCategory(category string) []*types.Question
	Get(id string) (*types.Question, bool)
}

// StatusSource reports the state of the background sync loop.
type StatusSource interface {
	Loading() bool
	Err() error
}

// QuestionHandler handles HTTP requests for question data.
type QuestionHandler struct {
	questions QuestionSource
	status    StatusSource
	logger    *zap.Logger
}

// NewQuestionHandler creates a new question handler.
func NewQuestionHandler(questions QuestionSource, status StatusSource, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		status:    status,
		logger:    logger,
	}
}

// ListResponse represents the HTTP response for the question list.
type ListResponse struct {
	Questions []*types.Question `json:"questions"`
	Loading   bool              `json:"loading"`
	Error     string            `json:"error,omitempty"`
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleList handles GET /api/questions requests. The optional view
// query parameter selects authored or followed questions; category
// filters by category.
func (h *QuestionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var list []*types.Question

	switch view := r.URL.Query().Get("view"); view {
	case "":
		if category := r.URL.Query().Get("category"); category != "" {
			list = h.questions.GetByCategory(category)
		} else {
			list = h.questions.All()
		}
	case "authored":
		list = h.questions.Authored()
	case "followed":
		list = h.questions.Followed()
	default:
		h.writeError(w, "unknown view: "+view, http.StatusBadRequest)
		return
	}

	response := ListResponse{Questions: list}
	if h.status != nil {
		response.Loading = h.status.Loading()
		if err := h.status.Err(); err != nil {
			response.Error = err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// HandleGet handles GET /api/questions/{id} requests.
func (h *QuestionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	question, ok := h.questions.Get(id)
	if !ok {
		h.writeError(w, "question not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err := json.NewEncoder(w).Encode(question)
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func (h *QuestionHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{Error: message}
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		h.logger.Error("failed-to-encode-error-response", zap.Error(err))
	}
}

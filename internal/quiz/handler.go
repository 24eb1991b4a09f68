package quiz

import (
	"encoding/json"
	"net/http"

	"reading-system/internal/apperr"
	"reading-system/internal/auth"
	"reading-system/internal/models"
	"reading-system/internal/session"
)

type Handler struct {
	service  *Service
	sessions *session.Service
}

func NewHandler(service *Service, sessions *session.Service) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// CreateQuiz generates (or regenerates) a quiz. The caller supplies
// either an existing session id or raw text; raw text gets a session of
// its own first, with AI-assessed reading parameters.
func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.QuizCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		if req.Text == "" {
			http.Error(w, "either session_id or text must be provided", http.StatusBadRequest)
			return
		}
		created, err := h.sessions.CreateFromText(r.Context(), userID, req.Text)
		if err != nil {
			http.Error(w, err.Error(), apperr.HTTPStatus(err))
			return
		}
		sessionID = created.ID
	}

	updated, err := h.service.CreateOrUpdateQuiz(r.Context(), userID, sessionID)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.QuizOutput{
		SessionID: updated.ID,
		Questions: updated.QuizQuestions,
	})
}

func (h *Handler) ValidateAnswers(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.QuizValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	attempt, err := h.service.ValidateAnswers(r.Context(), userID, req)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(models.QuizValidateOutput{
		SessionID:    attempt.SessionID,
		OverallScore: attempt.OverallScore,
		Results:      attempt.Results,
	})
}

package session

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"reading-system/internal/apperr"
	"reading-system/internal/auth"
	"reading-system/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.SessionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	session, err := h.service.CreateFromTopic(r.Context(), userID, req.Topic)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(session.ToOutput())
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessions, err := h.service.List(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	out := make([]models.SessionOutput, 0, len(sessions))
	for i := range sessions {
		out = append(out, sessions[i].ToOutput())
	}
	json.NewEncoder(w).Encode(out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := h.service.Get(r.Context(), userID, mux.Vars(r)["sessionID"])
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(session.ToOutput())
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), userID, mux.Vars(r)["sessionID"]); err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "session deleted"})
}

package assistant

import (
	"encoding/json"
	"net/http"

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

func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.AssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	response, err := h.service.Answer(r.Context(), userID, req.SessionID, req.Query)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(models.AssistantResponse{Response: response})
}

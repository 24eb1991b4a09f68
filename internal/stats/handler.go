package stats

import (
	"encoding/json"
	"net/http"
	"strconv"

	"reading-system/internal/apperr"
	"reading-system/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	recentLimit := DefaultRecentLimit
	if v := r.URL.Query().Get("recent_limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			recentLimit = n
		}
	}

	report, err := h.service.GetUserStats(r.Context(), userID, recentLimit)
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	json.NewEncoder(w).Encode(report)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"adda/internal/models"
	"adda/internal/store"
)

type ConfessionHandler struct {
	store *store.Store
	log   *zap.Logger
}

func NewConfessionHandler(s *store.Store, log *zap.Logger) *ConfessionHandler {
	return &ConfessionHandler{store: s, log: log}
}

type confessionRequest struct {
	SenderID      *string `json:"sender_id"`
	RecipientName string  `json:"recipient_name"`
	Message       string  `json:"message"`
	VibeType      string  `json:"vibe_type"`
	IsAnonymous   bool    `json:"is_anonymous"`
}

// List godoc
// @Summary List approved confessions
// @Tags confessions
// @Produce json
// @Success 200 {array} models.Confession
// @Router /confessions [get]
func (h *ConfessionHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListApprovedConfessions(r.Context())
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Create godoc
// @Summary Submit a confession for moderation
// @Tags confessions
// @Accept json
// @Produce json
// @Success 200 {object} createdResponse
// @Router /confessions [post]
func (h *ConfessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req confessionRequest
	if !decode(w, r, &req) {
		return
	}
	c := models.Confession{
		SenderID:      req.SenderID,
		RecipientName: req.RecipientName,
		Message:       req.Message,
		VibeType:      req.VibeType,
		IsAnonymous:   req.IsAnonymous,
	}
	if err := h.store.CreateConfession(r.Context(), &c); err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, createdResponse{Success: true, ID: c.ID})
}

func (h *ConfessionHandler) Like(w http.ResponseWriter, r *http.Request) {
	likes, err := h.store.LikeConfession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "likes_count": likes})
}

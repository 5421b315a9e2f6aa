package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"adda/internal/models"
	"adda/internal/store"
)

type BouquetHandler struct {
	store *store.Store
	log   *zap.Logger
}

func NewBouquetHandler(s *store.Store, log *zap.Logger) *BouquetHandler {
	return &BouquetHandler{store: s, log: log}
}

// Inbox lists bouquets for ?recipient_id=, defaulting to the current user.
func (h *BouquetHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	recipientID := r.URL.Query().Get("recipient_id")
	if recipientID == "" {
		me, err := h.store.FirstUser(r.Context())
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, []models.Bouquet{})
			return
		}
		if err != nil {
			writeStoreError(w, h.log, err)
			return
		}
		recipientID = me.ID
	}
	out, err := h.store.ListBouquets(r.Context(), recipientID)
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *BouquetHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderID    *string `json:"sender_id"`
		RecipientID string  `json:"recipient_id"`
		Message     string  `json:"message"`
		BouquetType string  `json:"bouquet_type"`
	}
	if !decode(w, r, &req) {
		return
	}
	b := models.Bouquet{
		SenderID:    req.SenderID,
		RecipientID: req.RecipientID,
		Message:     req.Message,
		BouquetType: req.BouquetType,
	}
	if err := h.store.SendBouquet(r.Context(), &b); err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, createdResponse{Success: true, ID: b.ID})
}

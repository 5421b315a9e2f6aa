package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"adda/internal/feed"
	"adda/internal/store"
)

type FeedHandler struct {
	store *store.Store
	feed  *feed.Service
	log   *zap.Logger
}

func NewFeedHandler(s *store.Store, f *feed.Service, log *zap.Logger) *FeedHandler {
	return &FeedHandler{store: s, feed: f, log: log}
}

// Feed godoc
// @Summary Unified activity feed
// @Description Up to ten each of approved confessions, approved clubs and events, newest first
// @Tags feed
// @Produce json
// @Success 200 {array} models.FeedItem
// @Router /feed [get]
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	items, err := h.feed.Get(r.Context())
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *FeedHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Stats(r.Context())
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *FeedHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

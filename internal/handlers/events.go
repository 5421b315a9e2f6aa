package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"adda/internal/feed"
	"adda/internal/models"
	"adda/internal/store"
)

type EventHandler struct {
	store *store.Store
	feed  *feed.Service
	log   *zap.Logger
}

func NewEventHandler(s *store.Store, f *feed.Service, log *zap.Logger) *EventHandler {
	return &EventHandler{store: s, feed: f, log: log}
}

type eventRequest struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	OrganizerID   *string `json:"organizer_id"`
	ClubID        *string `json:"club_id"`
	EventType     string  `json:"event_type"`
	DateTime      string  `json:"date_time"`
	Location      string  `json:"location"`
	CoverImageURL string  `json:"cover_image_url"`
}

// datetime-local inputs submit without seconds or zone; those are read as UTC.
var eventTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

func parseEventTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date_time %q; expected RFC3339", v)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListEvents(r.Context())
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.DateTime) == "" {
		writeError(w, http.StatusBadRequest, "missing required field: date_time")
		return
	}
	at, err := parseEventTime(req.DateTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e := models.Event{
		Title:         req.Title,
		Description:   req.Description,
		OrganizerID:   req.OrganizerID,
		ClubID:        req.ClubID,
		EventType:     req.EventType,
		DateTime:      at,
		Location:      req.Location,
		CoverImageURL: req.CoverImageURL,
	}
	if err := h.store.CreateEvent(r.Context(), &e); err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	h.feed.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, createdResponse{Success: true, ID: e.ID})
}

func (h *EventHandler) RSVP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string            `json:"user_id"`
		Status models.RSVPStatus `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	rsvp, err := h.store.RSVP(r.Context(), chi.URLParam(r, "id"), req.UserID, req.Status)
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rsvp)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"adda/internal/models"
	"adda/internal/store"
)

type GigHandler struct {
	store *store.Store
	log   *zap.Logger
}

func NewGigHandler(s *store.Store, log *zap.Logger) *GigHandler {
	return &GigHandler{store: s, log: log}
}

type gigRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PayAmount   string  `json:"pay_amount"`
	GigType     string  `json:"gig_type"`
	Location    string  `json:"location"`
	PostedBy    *string `json:"posted_by"`
}

type applyRequest struct {
	UserID   *string `json:"user_id"`
	ProofURL string  `json:"proof_url"`
	UPIID    string  `json:"upi_id"`
}

func (h *GigHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListOpenGigs(r.Context())
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *GigHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req gigRequest
	if !decode(w, r, &req) {
		return
	}
	g := models.Gig{
		Title:       req.Title,
		Description: req.Description,
		PayAmount:   req.PayAmount,
		GigType:     req.GigType,
		Location:    req.Location,
		PostedBy:    req.PostedBy,
	}
	if err := h.store.CreateGig(r.Context(), &g); err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, createdResponse{Success: true, ID: g.ID})
}

func (h *GigHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if !decode(w, r, &req) {
		return
	}
	a := models.GigApplication{
		GigID:    chi.URLParam(r, "id"),
		UserID:   req.UserID,
		ProofURL: req.ProofURL,
		UPIID:    req.UPIID,
	}
	if err := h.store.ApplyToGig(r.Context(), &a); err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, createdResponse{Success: true, ID: a.ID})
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"adda/internal/models"
	"adda/internal/store"
)

type ClubHandler struct {
	store *store.Store
	log   *zap.Logger
}

func NewClubHandler(s *store.Store, log *zap.Logger) *ClubHandler {
	return &ClubHandler{store: s, log: log}
}

type clubRequest struct {
	Name          string `json:"name"`
	Tagline       string `json:"tagline"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	CoverImageURL string `json:"cover_image_url"`
	LogoURL       string `json:"logo_url"`
}

func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListApprovedClubs(r.Context())
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ClubHandler) Get(w http.ResponseWriter, r *http.Request) {
	club, err := h.store.GetClub(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}

// Create registers a club. It stays out of the directory until approved.
func (h *ClubHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clubRequest
	if !decode(w, r, &req) {
		return
	}
	c := models.Club{
		Name:          req.Name,
		Tagline:       req.Tagline,
		Description:   req.Description,
		Category:      req.Category,
		CoverImageURL: req.CoverImageURL,
		LogoURL:       req.LogoURL,
	}
	if err := h.store.CreateClub(r.Context(), &c); err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, createdResponse{Success: true, ID: c.ID})
}

func (h *ClubHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	m, err := h.store.JoinClub(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *ClubHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListClubPosts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ClubHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AuthorID *string `json:"author_id"`
		Content  string  `json:"content"`
	}
	if !decode(w, r, &req) {
		return
	}
	p := models.ClubPost{ClubID: chi.URLParam(r, "id"), AuthorID: req.AuthorID, Content: req.Content}
	if err := h.store.CreateClubPost(r.Context(), &p); err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, createdResponse{Success: true, ID: p.ID})
}

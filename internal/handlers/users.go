package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"adda/internal/models"
	"adda/internal/store"
)

type UserHandler struct {
	store *store.Store
	log   *zap.Logger
}

func NewUserHandler(s *store.Store, log *zap.Logger) *UserHandler {
	return &UserHandler{store: s, log: log}
}

type userRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	InstagramHandle *string  `json:"instagram_handle"`
	Department      *string  `json:"department"`
	Year            *string  `json:"year"`
	Bio             *string  `json:"bio"`
	Interests       []string `json:"interests"`
	LookingFor      []string `json:"looking_for"`
	ProfilePicURL   *string  `json:"profile_pic_url"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decode(w, r, &req) {
		return
	}
	u := models.User{
		Name:            req.Name,
		Email:           req.Email,
		InstagramHandle: req.InstagramHandle,
		Department:      req.Department,
		Year:            req.Year,
		Bio:             req.Bio,
		Interests:       req.Interests,
		LookingFor:      req.LookingFor,
		ProfilePicURL:   req.ProfilePicURL,
	}
	if err := h.store.CreateUser(r.Context(), &u); err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, createdResponse{Success: true, ID: u.ID})
}

// Me returns the current user's profile, or null when nobody has signed up.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.FirstUser(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListNotifications(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

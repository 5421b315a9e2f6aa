package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"adda/internal/feed"
	mw "adda/internal/middleware"
	"adda/internal/models"
	"adda/internal/store"
)

const adminTokenTTL = 12 * time.Hour

// ModerationObserver is told about every decision that changed a row.
type ModerationObserver interface {
	ObserveModeration(kind, status string)
}

type AdminHandler struct {
	store        *store.Store
	feed         *feed.Service
	log          *zap.Logger
	observer     ModerationObserver
	jwtSecret    []byte
	adminUser    string
	passwordHash []byte
}

type AdminConfig struct {
	JWTSecret         []byte
	AdminUser         string
	AdminPasswordHash string
}

func NewAdminHandler(s *store.Store, f *feed.Service, log *zap.Logger, obs ModerationObserver, cfg AdminConfig) *AdminHandler {
	return &AdminHandler{
		store:        s,
		feed:         f,
		log:          log,
		observer:     obs,
		jwtSecret:    cfg.JWTSecret,
		adminUser:    cfg.AdminUser,
		passwordHash: []byte(cfg.AdminPasswordHash),
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type moderateRequest struct {
	Status models.Status `json:"status"`
}

// Login godoc
// @Summary Admin login
// @Description Exchanges the configured admin credentials for a bearer token
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} errorResponse
// @Router /admin/login [post]
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !decode(w, r, &c) {
		return
	}
	if len(h.passwordHash) == 0 {
		writeError(w, http.StatusServiceUnavailable, "admin login is not configured")
		return
	}
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(h.adminUser)) == 1
	passOK := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(c.Password)) == nil
	if !userOK || !passOK {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := h.issueJWT(c.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AdminHandler) issueJWT(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  username,
		"role": mw.RoleAdmin,
		"exp":  time.Now().Add(adminTokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

func (h *AdminHandler) PendingConfessions(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.PendingConfessions(r.Context())
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) PendingClubs(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.PendingClubs(r.Context())
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ModerateConfession godoc
// @Summary Approve or reject a confession
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Confession ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /admin/confessions/{id}/moderate [post]
func (h *AdminHandler) ModerateConfession(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, models.KindConfession, h.store.ModerateConfession)
}

func (h *AdminHandler) ModerateClub(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, models.KindClub, h.store.ModerateClub)
}

func (h *AdminHandler) moderate(w http.ResponseWriter, r *http.Request, kind models.ContentKind,
	apply func(ctx context.Context, id string, status models.Status) (bool, error)) {
	var req moderateRequest
	if !decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	changed, err := apply(r.Context(), id, req.Status)
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	if changed {
		h.observer.ObserveModeration(string(kind), string(req.Status))
		h.feed.Invalidate(r.Context())
		h.log.Info("moderation decision",
			zap.String("admin", mw.AdminFromContext(r.Context())),
			zap.String("kind", string(kind)),
			zap.String("id", id),
			zap.String("status", string(req.Status)),
		)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true, "changed": changed})
}

func (h *AdminHandler) SetGigStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.GigStatus `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.store.SetGigStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) GigApplications(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListGigApplications(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

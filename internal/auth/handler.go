package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pharmapulse/pharmapulse/internal/platform/httpx"
	"github.com/pharmapulse/pharmapulse/internal/shared"
)

// Handler exposes authentication endpoints.
type Handler struct {
	svc      *Service
	mw       *Middleware
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler constructs the auth HTTP handler.
func NewHandler(svc *Service, mw *Middleware, logger *slog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		mw:       mw,
		logger:   logger,
		validate: validator.New(),
	}
}

// MountRoutes registers auth routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireUser)
		r.Post("/logout", h.logout)
		r.Get("/me", h.me)
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	Token    string          `json:"token"`
	Identity shared.Identity `json:"identity"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	token, identity, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	h.logger.Info("user logged in", slog.Int64("user_id", identity.UserID))
	httpx.JSON(w, http.StatusOK, loginResponse{Token: token, Identity: identity})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := h.svc.Logout(r.Context(), token); err != nil {
			httpx.RespondError(w, r, err)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, identity)
}

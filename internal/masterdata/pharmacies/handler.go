package pharmacies

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pharmapulse/pharmapulse/internal/platform/httpx"
	"github.com/pharmapulse/pharmapulse/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Post("/{id}/archive", h.archive)
	r.Post("/{id}/restore", h.restore)
}

type pharmacyRequest struct {
	Code          string `json:"code" validate:"max=50"`
	Name          string `json:"name" validate:"required,max=255"`
	City          string `json:"city" validate:"required,max=100"`
	State         string `json:"state" validate:"required,max=50"`
	PharmacyType  string `json:"pharmacy_type" validate:"omitempty,oneof=independent chain hospital clinic online"`
	ChainName     string `json:"chain_name" validate:"max=100"`
	LicenseNumber string `json:"license_number" validate:"max=50"`
}

func (req pharmacyRequest) toPharmacy() Pharmacy {
	return Pharmacy{
		Code:          req.Code,
		Name:          req.Name,
		City:          req.City,
		State:         req.State,
		PharmacyType:  req.PharmacyType,
		ChainName:     req.ChainName,
		LicenseNumber: req.LicenseNumber,
	}
}

type listResponse struct {
	Items      []Pharmacy        `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	filters := ListFilters{
		Search:       r.URL.Query().Get("search"),
		PharmacyType: r.URL.Query().Get("pharmacy_type"),
		Lifecycle:    r.URL.Query().Get("lifecycle"),
		Page:         page,
		PerPage:      perPage,
	}

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list pharmacies failed", "error", err)
		httpx.RespondError(w, r, err)
		return
	}
	if items == nil {
		items = []Pharmacy{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Items:      items,
		Pagination: shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "invalid pharmacy id")
		return
	}
	pharmacy, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pharmacy)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req pharmacyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), req.toPharmacy())
	if err != nil {
		h.logger.Error("create pharmacy failed", "error", err)
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "invalid pharmacy id")
		return
	}
	var req pharmacyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	pharmacy := req.toPharmacy()
	if pharmacy.PharmacyType == "" {
		pharmacy.PharmacyType = TypeIndependent
	}

	updated, err := h.service.Update(r.Context(), id, pharmacy)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	h.setLifecycle(w, r, h.service.Archive)
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	h.setLifecycle(w, r, h.service.Restore)
}

func (h *Handler) setLifecycle(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64) error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "invalid pharmacy id")
		return
	}
	if err := fn(r.Context(), id); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	pharmacy, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pharmacy)
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrUnauthorized)
		return false
	}
	if !identity.IsAdmin() {
		httpx.RespondError(w, r, shared.ErrForbidden)
		return false
	}
	return true
}

package products

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

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

type productRequest struct {
	Code                 string `json:"code" validate:"required,max=50"`
	Name                 string `json:"name" validate:"required,max=255"`
	Manufacturer         string `json:"manufacturer" validate:"max=100"`
	Category             string `json:"category" validate:"max=100"`
	Dosage               string `json:"dosage" validate:"max=100"`
	PackageSize          string `json:"package_size" validate:"max=50"`
	UnitPrice            string `json:"unit_price" validate:"required"`
	PrescriptionRequired bool   `json:"prescription_required"`
}

func (req productRequest) toProduct() (Product, error) {
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return Product{}, shared.ErrValidation
	}
	return Product{
		Code:                 req.Code,
		Name:                 req.Name,
		Manufacturer:         req.Manufacturer,
		Category:             req.Category,
		Dosage:               req.Dosage,
		PackageSize:          req.PackageSize,
		UnitPrice:            price,
		PrescriptionRequired: req.PrescriptionRequired,
	}, nil
}

type listResponse struct {
	Items      []Product         `json:"items"`
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
		Search:    r.URL.Query().Get("search"),
		Category:  r.URL.Query().Get("category"),
		Lifecycle: r.URL.Query().Get("lifecycle"),
		Page:      page,
		PerPage:   perPage,
	}

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list products failed", "error", err)
		httpx.RespondError(w, r, err)
		return
	}
	if items == nil {
		items = []Product{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Items:      items,
		Pagination: shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	product, err := req.toProduct()
	if err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "unit_price must be a decimal number")
		return
	}

	created, err := h.service.Create(r.Context(), product)
	if err != nil {
		h.logger.Error("create product failed", "error", err)
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
		httpx.Problem(w, r, http.StatusBadRequest, "invalid product id")
		return
	}
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	product, err := req.toProduct()
	if err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "unit_price must be a decimal number")
		return
	}

	updated, err := h.service.Update(r.Context(), id, product)
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
		httpx.Problem(w, r, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := fn(r.Context(), id); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
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

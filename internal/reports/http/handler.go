package reporthttp

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pharmapulse/pharmapulse/internal/platform/httpx"
	"github.com/pharmapulse/pharmapulse/internal/reports"
	"github.com/pharmapulse/pharmapulse/internal/shared"
)

// Handler serves the report job endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *reports.Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *reports.Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers the report endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Post("/", h.submit)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/download", h.download)
	r.Delete("/{id}", h.delete)
}

type submitRequest struct {
	ReportName     string  `json:"report_name" validate:"required,max=255"`
	ReportType     string  `json:"report_type" validate:"required"`
	Format         string  `json:"format" validate:"required"`
	DateRangeStart string  `json:"date_range_start" validate:"required"`
	DateRangeEnd   string  `json:"date_range_end" validate:"required"`
	ProductIDs     []int64 `json:"product_ids,omitempty"`
	PharmacyIDs    []int64 `json:"pharmacy_ids,omitempty"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrUnauthorized)
		return
	}
	var req submitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, err.Error())
		return
	}
	start, err := time.Parse("2006-01-02", req.DateRangeStart)
	if err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "date_range_start must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.DateRangeEnd)
	if err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "date_range_end must be YYYY-MM-DD")
		return
	}
	// Make the end bound inclusive for the whole day.
	end = end.Add(24*time.Hour - time.Nanosecond)

	job, err := h.service.Submit(r.Context(), reports.SubmitRequest{
		Name:       req.ReportName,
		Type:       reports.ReportType(req.ReportType),
		Format:     reports.Format(req.Format),
		RangeStart: start,
		RangeEnd:   end,
		Filters: reports.Filters{
			ProductIDs:  req.ProductIDs,
			PharmacyIDs: req.PharmacyIDs,
		},
	}, identity)
	if err != nil {
		h.logger.Error("submit report failed", "error", err)
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, job)
}

type listResponse struct {
	Items      []reports.Job     `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrUnauthorized)
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	items, total, err := h.service.List(r.Context(), reports.ListFilters{
		Type:    reports.ReportType(q.Get("report_type")),
		Status:  reports.Status(q.Get("status")),
		Page:    page,
		PerPage: perPage,
	}, identity)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	if items == nil {
		items = []reports.Job{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{
		Items:      items,
		Pagination: shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}
	job, err := h.service.Get(r.Context(), id, identity)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, job)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}
	job, err := h.service.Download(r.Context(), id, identity)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s.%s", job.Name, job.Format)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, job.FilePath)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id, identity); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) identityAndID(w http.ResponseWriter, r *http.Request) (shared.Identity, int64, bool) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, shared.ErrUnauthorized)
		return shared.Identity{}, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, r, http.StatusBadRequest, "invalid report id")
		return shared.Identity{}, 0, false
	}
	return identity, id, true
}

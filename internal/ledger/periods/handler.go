package periods

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/balanza-erp/balanza/internal/platform/httpx"
	"github.com/balanza-erp/balanza/internal/shared"
)

// Handler exposes period operations over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the periods handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches the period endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.open)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.transition)
	r.Delete("/{id}", h.delete)
}

type openForm struct {
	Year        int    `json:"year" validate:"required"`
	Month       int    `json:"month" validate:"required,min=1,max=12"`
	OpeningDate string `json:"openingDate" validate:"required"`
}

type transitionForm struct {
	Status      string `json:"status" validate:"required,oneof=OPEN CLOSED LOCKED"`
	ClosingDate string `json:"closingDate"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	out, err := h.service.List(r.Context(), id.TenantID)
	if err != nil {
		h.logger.Error("list periods", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"periods": out})
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	var form openForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	openingDate, err := time.Parse(time.DateOnly, form.OpeningDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "openingDate must be YYYY-MM-DD")
		return
	}
	period, err := h.service.Open(r.Context(), *id, form.Year, form.Month, openingDate)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"period": period})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	periodID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid period id")
		return
	}
	period, err := h.service.Get(r.Context(), id.TenantID, periodID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"period": period})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	periodID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid period id")
		return
	}
	var form transitionForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	var closingDate *time.Time
	if form.ClosingDate != "" {
		parsed, err := time.Parse(time.DateOnly, form.ClosingDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "closingDate must be YYYY-MM-DD")
			return
		}
		closingDate = &parsed
	}
	period, err := h.service.Transition(r.Context(), *id, periodID, Status(form.Status), closingDate)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"period": period})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	periodID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid period id")
		return
	}
	if err := h.service.Delete(r.Context(), *id, periodID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
}

package vouchers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/balanza-erp/balanza/internal/platform/httpx"
	"github.com/balanza-erp/balanza/internal/shared"
)

// Handler exposes voucher type operations over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the voucher types handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches the voucher type endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/next-number/{code}", h.nextNumber)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Post("/{id}/deactivate", h.deactivate)
	r.Delete("/{id}", h.delete)
}

type voucherTypeForm struct {
	Code   string `json:"code" validate:"required,min=1,max=20"`
	Name   string `json:"name" validate:"required,min=1"`
	Prefix string `json:"prefix" validate:"required,min=1,max=10"`
}

type voucherTypeUpdateForm struct {
	Name   string `json:"name" validate:"required,min=1"`
	Prefix string `json:"prefix" validate:"required,min=1,max=10"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	types, err := h.service.List(r.Context(), id.TenantID, includeInactive)
	if err != nil {
		h.logger.Error("list voucher types", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"voucherTypes": types})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	var form voucherTypeForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	vt, err := h.service.Create(r.Context(), *id, CreateInput{
		Code:   form.Code,
		Name:   form.Name,
		Prefix: form.Prefix,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"voucherType": vt})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	typeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid voucher type id")
		return
	}
	vt, err := h.service.Get(r.Context(), id.TenantID, typeID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"voucherType": vt})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	typeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid voucher type id")
		return
	}
	var form voucherTypeUpdateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	vt, err := h.service.Update(r.Context(), *id, typeID, UpdateInput{
		Name:   form.Name,
		Prefix: form.Prefix,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"voucherType": vt})
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	typeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid voucher type id")
		return
	}
	if err := h.service.Deactivate(r.Context(), *id, typeID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	typeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid voucher type id")
		return
	}
	if err := h.service.Delete(r.Context(), *id, typeID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) nextNumber(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	number, err := h.service.NextNumber(r.Context(), id.TenantID, chi.URLParam(r, "code"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"nextNumber": number})
}

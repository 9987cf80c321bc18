package thirdparties

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/balanza-erp/balanza/internal/platform/httpx"
	"github.com/balanza-erp/balanza/internal/shared"
)

const maxSearchResults = 50

// Handler exposes third party lookups over HTTP.
type Handler struct {
	logger   *slog.Logger
	repo     Repository
	validate *validator.Validate
}

// NewHandler constructs the third parties handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo, validate: validator.New()}
}

// MountRoutes attaches the third party endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.search)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
}

type thirdPartyForm struct {
	DocumentType   string `json:"documentType" validate:"required"`
	DocumentNumber string `json:"documentNumber" validate:"required"`
	Name           string `json:"name" validate:"required"`
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	out, err := h.repo.Search(r.Context(), id.TenantID, r.URL.Query().Get("q"), maxSearchResults)
	if err != nil {
		h.logger.Error("search third parties", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"thirdParties": out})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	var form thirdPartyForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	tp, err := h.repo.Create(r.Context(), ThirdParty{
		TenantID:       id.TenantID,
		DocumentType:   form.DocumentType,
		DocumentNumber: form.DocumentNumber,
		Name:           form.Name,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"thirdParty": tp})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	tpID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid third party id")
		return
	}
	tp, err := h.repo.GetByID(r.Context(), id.TenantID, tpID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"thirdParty": tp})
}

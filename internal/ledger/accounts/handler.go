package accounts

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/balanza-erp/balanza/internal/platform/httpx"
	"github.com/balanza-erp/balanza/internal/shared"
)

// Seeder provisions the default chart of accounts for a tenant.
type Seeder interface {
	InitializeTenant(ctx context.Context, id shared.Identity) (bool, error)
}

// Handler exposes the registry over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	seeder   Seeder
	validate *validator.Validate
}

// NewHandler constructs the accounts handler.
func NewHandler(logger *slog.Logger, service *Service, seeder Seeder) *Handler {
	return &Handler{logger: logger, service: service, seeder: seeder, validate: validator.New()}
}

// MountRoutes attaches the registry endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/initialize", h.initialize)
	r.Get("/search", h.search)
	r.Get("/tree", h.tree)
	r.Post("/validate", h.validateAccount)
	r.Get("/{idOrCode}", h.get)
	r.Put("/{id}", h.update)
	r.Post("/{id}/deactivate", h.deactivate)
	r.Delete("/{id}", h.delete)
}

type accountForm struct {
	Code               string `json:"code" validate:"required,min=1,max=20"`
	Name               string `json:"name" validate:"required,min=1"`
	Nature             string `json:"nature" validate:"required,oneof=DEUDORA ACREEDORA"`
	AccountType        string `json:"accountType" validate:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	IsTemplate         bool   `json:"isTemplate"`
	RequiresCostCenter bool   `json:"requiresCostCenter"`
	AppliesWithholding bool   `json:"appliesWithholding"`
	AppliesTaxes       bool   `json:"appliesTaxes"`
	ClosingAccountCode string `json:"closingAccountCode"`
}

// accountUpdateForm omits the code: it is immutable after creation.
type accountUpdateForm struct {
	Name               string `json:"name" validate:"required,min=1"`
	Nature             string `json:"nature" validate:"required,oneof=DEUDORA ACREEDORA"`
	AccountType        string `json:"accountType" validate:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	IsTemplate         bool   `json:"isTemplate"`
	RequiresCostCenter bool   `json:"requiresCostCenter"`
	AppliesWithholding bool   `json:"appliesWithholding"`
	AppliesTaxes       bool   `json:"appliesTaxes"`
	ClosingAccountCode string `json:"closingAccountCode"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	accs, err := h.service.List(r.Context(), id.TenantID)
	if err != nil {
		h.logger.Error("list accounts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"accounts": accs})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	var form accountForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	account, err := h.service.Create(r.Context(), *id, CreateInput{
		Code:               form.Code,
		Name:               form.Name,
		Nature:             Nature(form.Nature),
		Type:               Type(form.AccountType),
		IsTemplate:         form.IsTemplate,
		RequiresCostCenter: form.RequiresCostCenter,
		AppliesWithholding: form.AppliesWithholding,
		AppliesTaxes:       form.AppliesTaxes,
		ClosingAccountCode: form.ClosingAccountCode,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"account": account})
}

func (h *Handler) initialize(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	if h.seeder == nil {
		httpx.Problem(w, http.StatusNotImplemented, "Not Implemented", "seeding disabled")
		return
	}
	seeded, err := h.seeder.InitializeTenant(r.Context(), *id)
	if err != nil {
		h.logger.Error("initialize chart of accounts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"seeded": seeded})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	accs, err := h.service.Search(r.Context(), id.TenantID, r.URL.Query().Get("q"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"accounts": accs})
}

func (h *Handler) tree(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	nodes, err := h.service.Children(r.Context(), id.TenantID, r.URL.Query().Get("parentCode"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"nodes": nodes})
}

type validateForm struct {
	AccountID      int64  `json:"accountId" validate:"required"`
	CostCenterID   *int64 `json:"costCenterId"`
	HasWithholding bool   `json:"hasWithholding"`
	HasTax         bool   `json:"hasTax"`
}

func (h *Handler) validateAccount(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	var form validateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	violations, err := h.service.Validate(r.Context(), id.TenantID, form.AccountID, ValidationContext{
		CostCenterID:   form.CostCenterID,
		HasWithholding: form.HasWithholding,
		HasTax:         form.HasTax,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"valid":      len(violations) == 0,
		"violations": violations,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	account, err := h.service.Resolve(r.Context(), id.TenantID, chi.URLParam(r, "idOrCode"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"account": account})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	accountID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account id")
		return
	}
	var form accountUpdateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	account, err := h.service.Update(r.Context(), *id, accountID, UpdateInput{
		Name:               form.Name,
		Nature:             Nature(form.Nature),
		Type:               Type(form.AccountType),
		IsTemplate:         form.IsTemplate,
		RequiresCostCenter: form.RequiresCostCenter,
		AppliesWithholding: form.AppliesWithholding,
		AppliesTaxes:       form.AppliesTaxes,
		ClosingAccountCode: form.ClosingAccountCode,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"account": account})
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	h.removeAccount(w, r, false)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	h.removeAccount(w, r, true)
}

func (h *Handler) removeAccount(w http.ResponseWriter, r *http.Request, hard bool) {
	id := shared.IdentityFromContext(r.Context())
	accountID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account id")
		return
	}
	if hard {
		err = h.service.Delete(r.Context(), *id, accountID)
	} else {
		err = h.service.Deactivate(r.Context(), *id, accountID)
	}
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
}

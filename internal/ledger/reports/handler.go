package reports

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/balanza-erp/balanza/internal/platform/httpx"
	"github.com/balanza-erp/balanza/internal/shared"
)

// Handler exposes the period statements over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the reports handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches the report endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/trial-balance", h.trialBalance)
	r.Get("/balance-sheet", h.balanceSheet)
	r.Get("/income-statement", h.incomeStatement)
}

func periodIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("periodId"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) trialBalance(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	periodID, ok := periodIDParam(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "periodId is required")
		return
	}
	tb, err := h.service.TrialBalance(r.Context(), id.TenantID, periodID)
	if err != nil {
		h.logger.Error("trial balance", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"trialBalance": NewTrialBalanceView(tb)})
}

func (h *Handler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	periodID, ok := periodIDParam(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "periodId is required")
		return
	}
	bs, err := h.service.BalanceSheet(r.Context(), id.TenantID, periodID)
	if err != nil {
		h.logger.Error("balance sheet", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"balanceSheet": NewBalanceSheetView(bs)})
}

func (h *Handler) incomeStatement(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	periodID, ok := periodIDParam(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "periodId is required")
		return
	}
	is, err := h.service.IncomeStatement(r.Context(), id.TenantID, periodID)
	if err != nil {
		h.logger.Error("income statement", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"incomeStatement": NewIncomeStatementView(is)})
}

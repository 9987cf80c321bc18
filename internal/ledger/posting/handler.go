package posting

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/balanza-erp/balanza/internal/platform/httpx"
	"github.com/balanza-erp/balanza/internal/shared"
)

// Handler exposes the posting engine over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the transactions handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches the transaction endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.post)
	r.Get("/{id}", h.get)
}

type lineForm struct {
	AccountID      int64   `json:"accountId" validate:"required"`
	Description    string  `json:"description"`
	Debit          float64 `json:"debit"`
	Credit         float64 `json:"credit"`
	ThirdPartyID   *int64  `json:"thirdPartyId"`
	CostCenterID   *int64  `json:"costCenterId"`
	HasWithholding bool    `json:"hasWithholding"`
	HasTax         bool    `json:"hasTax"`
}

type postForm struct {
	VoucherTypeCode string     `json:"voucherTypeCode" validate:"required"`
	Description     string     `json:"description" validate:"required"`
	Date            string     `json:"date" validate:"required"`
	ThirdPartyID    *int64     `json:"thirdPartyId"`
	Lines           []lineForm `json:"lines" validate:"required,min=2,dive"`
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	var form postForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := time.Parse(time.DateOnly, form.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key == "" {
		key = uuid.NewString()
	}

	in := PostingInput{
		VoucherTypeCode: form.VoucherTypeCode,
		Description:     form.Description,
		Date:            date,
		ThirdPartyID:    form.ThirdPartyID,
		IdempotencyKey:  key,
	}
	for _, l := range form.Lines {
		in.Lines = append(in.Lines, PostingLine{
			AccountID:      l.AccountID,
			Description:    l.Description,
			Debit:          l.Debit,
			Credit:         l.Credit,
			ThirdPartyID:   l.ThirdPartyID,
			CostCenterID:   l.CostCenterID,
			HasWithholding: l.HasWithholding,
			HasTax:         l.HasTax,
		})
	}

	header, details, err := h.service.Post(r.Context(), *id, in)
	if err != nil {
		h.logger.Warn("posting rejected", slog.String("voucher_type", form.VoucherTypeCode), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"transaction": header,
		"details":     details,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("perPage"))
	items, pagination, err := h.service.List(r.Context(), id.TenantID, ListFilter{
		VoucherType: q.Get("voucherType"),
		Status:      Status(q.Get("status")),
		Page:        page,
		PerPage:     perPage,
	})
	if err != nil {
		h.logger.Error("list transactions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"transactions": items,
		"pagination":   pagination,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	txID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid transaction id")
		return
	}
	header, details, err := h.service.Get(r.Context(), id.TenantID, txID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"transaction": header,
		"details":     details,
	})
}

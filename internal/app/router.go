package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/balanza-erp/balanza/internal/ledger/accounts"
	"github.com/balanza-erp/balanza/internal/ledger/periods"
	"github.com/balanza-erp/balanza/internal/ledger/posting"
	"github.com/balanza-erp/balanza/internal/ledger/reports"
	"github.com/balanza-erp/balanza/internal/ledger/thirdparties"
	"github.com/balanza-erp/balanza/internal/ledger/vouchers"
	"github.com/balanza-erp/balanza/internal/observability"
	"github.com/balanza-erp/balanza/internal/tenant"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	TenantRepo          tenant.Repository
	AccountsHandler     *accounts.Handler
	PeriodsHandler      *periods.Handler
	VouchersHandler     *vouchers.Handler
	PostingHandler      *posting.Handler
	ReportsHandler      *reports.Handler
	ThirdPartiesHandler *thirdparties.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router. Everything under /ledger requires a
// valid tenant API key.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/ledger", func(r chi.Router) {
		r.Use(tenant.Middleware(params.TenantRepo, params.Logger))

		if params.AccountsHandler != nil {
			r.Route("/accounts", params.AccountsHandler.MountRoutes)
		}
		if params.PeriodsHandler != nil {
			r.Route("/periods", params.PeriodsHandler.MountRoutes)
		}
		if params.VouchersHandler != nil {
			r.Route("/voucher-types", params.VouchersHandler.MountRoutes)
		}
		if params.PostingHandler != nil {
			r.Route("/transactions", params.PostingHandler.MountRoutes)
		}
		if params.ReportsHandler != nil {
			r.Route("/reports", params.ReportsHandler.MountRoutes)
		}
		if params.ThirdPartiesHandler != nil {
			r.Route("/third-parties", params.ThirdPartiesHandler.MountRoutes)
		}
	})

	return r
}

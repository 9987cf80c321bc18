package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/balanza-erp/balanza/internal/app"
	"github.com/balanza-erp/balanza/internal/ledger/accounts"
	"github.com/balanza-erp/balanza/internal/ledger/periods"
	"github.com/balanza-erp/balanza/internal/ledger/posting"
	"github.com/balanza-erp/balanza/internal/ledger/reports"
	"github.com/balanza-erp/balanza/internal/ledger/seed"
	"github.com/balanza-erp/balanza/internal/ledger/thirdparties"
	"github.com/balanza-erp/balanza/internal/ledger/vouchers"
	"github.com/balanza-erp/balanza/internal/observability"
	"github.com/balanza-erp/balanza/internal/platform/cache"
	"github.com/balanza-erp/balanza/internal/platform/db"
	"github.com/balanza-erp/balanza/internal/shared"
	"github.com/balanza-erp/balanza/internal/tenant"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, reports build uncached", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)
	idempotencyStore := shared.NewIdempotencyStore(pool)
	metrics := observability.NewMetrics()

	accountsRepo := accounts.NewRepository(pool)
	accountsService := accounts.NewService(accountsRepo, auditLogger)

	periodsRepo := periods.NewRepository(pool)
	periodsService := periods.NewService(periodsRepo, auditLogger)

	vouchersRepo := vouchers.NewRepository(pool)
	vouchersService := vouchers.NewService(vouchersRepo, auditLogger)

	thirdPartiesRepo := thirdparties.NewRepository(pool)

	reportsRepo := reports.NewRepository(pool)
	reportsCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	reportsService := reports.NewService(reportsRepo, reportsCache, cfg.BalanceTolerance)
	if err := reportsCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	postingRepo := posting.NewRepository(pool)
	postingService := posting.NewService(postingRepo, idempotencyStore, auditLogger,
		reportsCache, metrics, thirdPartiesRepo, cfg.BalanceTolerance)

	seeder := seed.NewService(logger, accountsRepo, vouchersRepo, auditLogger)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		TenantRepo:          tenant.NewRepository(pool),
		AccountsHandler:     accounts.NewHandler(logger, accountsService, seeder),
		PeriodsHandler:      periods.NewHandler(logger, periodsService),
		VouchersHandler:     vouchers.NewHandler(logger, vouchersService),
		PostingHandler:      posting.NewHandler(logger, postingService),
		ReportsHandler:      reports.NewHandler(logger, reportsService),
		ThirdPartiesHandler: thirdparties.NewHandler(logger, thirdPartiesRepo),
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// Package seed provisions new tenants with the default chart of accounts
// and document series.
package seed

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/balanza-erp/balanza/internal/ledger/accounts"
	"github.com/balanza-erp/balanza/internal/ledger/vouchers"
	"github.com/balanza-erp/balanza/internal/shared"
)

// AuditPort records tenant initialization.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service seeds the default chart of accounts and voucher types.
type Service struct {
	logger   *slog.Logger
	accounts accounts.Repository
	vouchers vouchers.Repository
	audit    AuditPort
	now      func() time.Time
}

// NewService constructs the seeding service.
func NewService(logger *slog.Logger, accRepo accounts.Repository, vtRepo vouchers.Repository, audit AuditPort) *Service {
	return &Service{logger: logger, accounts: accRepo, vouchers: vtRepo, audit: audit, now: time.Now}
}

// InitializeTenant provisions the tenant's chart and document series. It is
// idempotent: a tenant that already has accounts is left untouched and the
// call reports false.
func (s *Service) InitializeTenant(ctx context.Context, id shared.Identity) (bool, error) {
	count, err := s.accounts.Count(ctx, id.TenantID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	rows := make([]accounts.Account, 0, len(pucColombia))
	for _, p := range pucColombia {
		level := accounts.DeriveLevel(p.Code)
		rows = append(rows, accounts.Account{
			TenantID:           id.TenantID,
			Code:               p.Code,
			Name:               p.Name,
			Level:              level,
			Nature:             p.Nature,
			Type:               p.Type,
			ParentCode:         accounts.DeriveParentCode(p.Code),
			IsAuxiliary:        level >= 4,
			AllowsMovement:     level >= 3,
			RequiresCostCenter: p.RequiresCostCenter,
			AppliesWithholding: p.AppliesWithholding,
			AppliesTaxes:       p.AppliesTaxes,
		})
	}
	if err := s.accounts.CreateMany(ctx, rows); err != nil {
		return false, err
	}

	vtCount, err := s.vouchers.Count(ctx, id.TenantID)
	if err != nil {
		return false, err
	}
	if vtCount == 0 {
		types := make([]vouchers.VoucherType, 0, len(defaultVoucherTypes))
		for _, d := range defaultVoucherTypes {
			types = append(types, vouchers.VoucherType{
				TenantID: id.TenantID,
				Code:     d.Code,
				Name:     d.Name,
				Prefix:   d.Prefix,
			})
		}
		if err := s.vouchers.CreateMany(ctx, types); err != nil {
			return false, err
		}
	}

	s.logger.Info("tenant initialized",
		slog.Int64("tenant_id", id.TenantID),
		slog.Int("accounts", len(rows)),
		slog.Int("voucher_types", len(defaultVoucherTypes)))
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			TenantID: id.TenantID,
			ActorID:  id.UserID,
			Action:   "tenant.initialize",
			Entity:   "tenant",
			EntityID: strconv.FormatInt(id.TenantID, 10),
			After: map[string]any{
				"accounts":      len(rows),
				"voucher_types": len(defaultVoucherTypes),
			},
			At: s.now(),
		})
	}
	return true, nil
}

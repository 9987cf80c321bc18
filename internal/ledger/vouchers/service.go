package vouchers

import (
	"context"
	"errors"
	"strconv"
	"time"

	ledger "github.com/balanza-erp/balanza/internal/ledger/shared"
	"github.com/balanza-erp/balanza/internal/shared"
)

// AuditPort records voucher type changes.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates voucher type operations. The consecutive counter is
// advanced by the posting engine, never through this service.
type Service struct {
	repo  Repository
	audit AuditPort
	now   func() time.Time
}

// NewService constructs the voucher type service.
func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateInput carries the caller-supplied voucher type fields. The counter
// always starts at zero so the first issued number ends in 000001.
type CreateInput struct {
	Code   string
	Name   string
	Prefix string
}

// UpdateInput carries the mutable voucher type fields. Code and the
// consecutive are immutable.
type UpdateInput struct {
	Name   string
	Prefix string
}

// Create registers a new document series for the tenant.
func (s *Service) Create(ctx context.Context, id shared.Identity, in CreateInput) (VoucherType, error) {
	if in.Code == "" || in.Name == "" || in.Prefix == "" {
		return VoucherType{}, errors.New("vouchers: code, name and prefix are required")
	}
	created, err := s.repo.Create(ctx, VoucherType{
		TenantID: id.TenantID,
		Code:     in.Code,
		Name:     in.Name,
		Prefix:   in.Prefix,
	})
	if err != nil {
		return VoucherType{}, err
	}
	s.record(ctx, id, "voucher_type.create", created.ID, nil, auditVoucherType(created))
	return created, nil
}

// Update mutates the series name and prefix. Changing the prefix only
// affects numbers issued afterwards.
func (s *Service) Update(ctx context.Context, id shared.Identity, typeID int64, in UpdateInput) (VoucherType, error) {
	if in.Name == "" || in.Prefix == "" {
		return VoucherType{}, errors.New("vouchers: name and prefix are required")
	}
	current, err := s.repo.GetByID(ctx, id.TenantID, typeID)
	if err != nil {
		return VoucherType{}, err
	}
	next := current
	next.Name = in.Name
	next.Prefix = in.Prefix
	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return VoucherType{}, err
	}
	s.record(ctx, id, "voucher_type.update", updated.ID, auditVoucherType(current), auditVoucherType(updated))
	return updated, nil
}

// Deactivate takes the series out of circulation without losing its counter.
func (s *Service) Deactivate(ctx context.Context, id shared.Identity, typeID int64) error {
	current, err := s.repo.GetByID(ctx, id.TenantID, typeID)
	if err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id.TenantID, typeID, false); err != nil {
		return err
	}
	s.record(ctx, id, "voucher_type.deactivate", typeID, auditVoucherType(current), nil)
	return nil
}

// Delete removes the series. Rejected while posted transactions carry
// its code.
func (s *Service) Delete(ctx context.Context, id shared.Identity, typeID int64) error {
	current, err := s.repo.GetByID(ctx, id.TenantID, typeID)
	if err != nil {
		return err
	}
	used, err := s.repo.HasTransactions(ctx, id.TenantID, current.Code)
	if err != nil {
		return err
	}
	if used {
		return ledger.ErrHasTransactions
	}
	if err := s.repo.Delete(ctx, id.TenantID, typeID); err != nil {
		return err
	}
	s.record(ctx, id, "voucher_type.delete", typeID, auditVoucherType(current), nil)
	return nil
}

// Get returns the series by id.
func (s *Service) Get(ctx context.Context, tenantID, typeID int64) (VoucherType, error) {
	return s.repo.GetByID(ctx, tenantID, typeID)
}

// List returns the tenant's series ordered by code.
func (s *Service) List(ctx context.Context, tenantID int64, includeInactive bool) ([]VoucherType, error) {
	return s.repo.List(ctx, tenantID, includeInactive)
}

// NextNumber previews the number the next posting through this series
// would receive. It does not advance the counter.
func (s *Service) NextNumber(ctx context.Context, tenantID int64, code string) (string, error) {
	vt, err := s.repo.GetByCode(ctx, tenantID, code)
	if err != nil {
		return "", err
	}
	if !vt.IsActive {
		return "", ledger.ErrVoucherTypeUnavailable
	}
	return FormatNumber(vt.Prefix, vt.CurrentConsecutive+1), nil
}

func (s *Service) record(ctx context.Context, id shared.Identity, action string, entityID int64, before, after map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		TenantID: id.TenantID,
		ActorID:  id.UserID,
		Action:   action,
		Entity:   "voucher_type",
		EntityID: strconv.FormatInt(entityID, 10),
		Before:   before,
		After:    after,
		At:       s.now(),
	})
}

func auditVoucherType(vt VoucherType) map[string]any {
	return map[string]any{
		"code":                vt.Code,
		"name":                vt.Name,
		"prefix":              vt.Prefix,
		"current_consecutive": vt.CurrentConsecutive,
		"is_active":           vt.IsActive,
	}
}

package periods

import (
	"context"
	"errors"
	"strconv"
	"time"

	ledger "github.com/balanza-erp/balanza/internal/ledger/shared"
	"github.com/balanza-erp/balanza/internal/shared"
)

// AuditPort records period lifecycle changes.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates period lifecycle operations.
type Service struct {
	repo  Repository
	audit AuditPort
	now   func() time.Time
}

// NewService constructs the period service.
func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Open creates a new OPEN period for the tenant's (year, month).
func (s *Service) Open(ctx context.Context, id shared.Identity, year, month int, openingDate time.Time) (Period, error) {
	if year < 1900 || year > 3000 {
		return Period{}, errors.New("periods: year out of range")
	}
	if month < 1 || month > 12 {
		return Period{}, errors.New("periods: month out of range")
	}
	created, err := s.repo.Create(ctx, Period{
		TenantID:    id.TenantID,
		Year:        year,
		Month:       month,
		Status:      StatusOpen,
		OpeningDate: openingDate,
	})
	if err != nil {
		return Period{}, err
	}
	s.record(ctx, id, "period.open", created.ID, nil, auditPeriod(created))
	return created, nil
}

// Transition moves the period through its lifecycle. LOCKED is terminal.
func (s *Service) Transition(ctx context.Context, id shared.Identity, periodID int64, next Status, closingDate *time.Time) (Period, error) {
	switch next {
	case StatusOpen, StatusClosed, StatusLocked:
	default:
		return Period{}, ledger.ErrInvalidTransition
	}
	current, err := s.repo.GetByID(ctx, id.TenantID, periodID)
	if err != nil {
		return Period{}, err
	}
	if current.Status == StatusLocked {
		return Period{}, ledger.ErrPeriodLocked
	}
	if !current.CanTransitionTo(next) {
		return Period{}, ledger.ErrInvalidTransition
	}
	updated, err := s.repo.UpdateStatus(ctx, id.TenantID, periodID, next, closingDate)
	if err != nil {
		return Period{}, err
	}
	s.record(ctx, id, "period.transition", updated.ID, auditPeriod(current), auditPeriod(updated))
	return updated, nil
}

// List returns the tenant's periods, most recent first.
func (s *Service) List(ctx context.Context, tenantID int64) ([]Period, error) {
	return s.repo.List(ctx, tenantID)
}

// Get returns one period.
func (s *Service) Get(ctx context.Context, tenantID, periodID int64) (Period, error) {
	return s.repo.GetByID(ctx, tenantID, periodID)
}

// Delete removes a period that owns no transactions.
func (s *Service) Delete(ctx context.Context, id shared.Identity, periodID int64) error {
	current, err := s.repo.GetByID(ctx, id.TenantID, periodID)
	if err != nil {
		return err
	}
	used, err := s.repo.HasTransactions(ctx, id.TenantID, periodID)
	if err != nil {
		return err
	}
	if used {
		return ledger.ErrHasTransactions
	}
	if err := s.repo.Delete(ctx, id.TenantID, periodID); err != nil {
		return err
	}
	s.record(ctx, id, "period.delete", periodID, auditPeriod(current), nil)
	return nil
}

// FindOpenPeriod returns the OPEN period covering the date. A period in any
// other state yields ErrPeriodNotOpen; no period at all yields ErrNoOpenPeriod.
func (s *Service) FindOpenPeriod(ctx context.Context, tenantID int64, date time.Time) (Period, error) {
	p, err := s.repo.FindByDate(ctx, tenantID, date)
	if err != nil {
		return Period{}, err
	}
	if p.Status != StatusOpen {
		if p.Status == StatusLocked {
			return Period{}, ledger.ErrPeriodLocked
		}
		return Period{}, ledger.ErrPeriodNotOpen
	}
	return p, nil
}

func (s *Service) record(ctx context.Context, id shared.Identity, action string, entityID int64, before, after map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		TenantID: id.TenantID,
		ActorID:  id.UserID,
		Action:   action,
		Entity:   "period",
		EntityID: strconv.FormatInt(entityID, 10),
		Before:   before,
		After:    after,
		At:       s.now(),
	})
}

func auditPeriod(p Period) map[string]any {
	return map[string]any{
		"year":   p.Year,
		"month":  p.Month,
		"status": string(p.Status),
	}
}

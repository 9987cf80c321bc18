package posting

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/balanza-erp/balanza/internal/ledger/accounts"
	"github.com/balanza-erp/balanza/internal/ledger/periods"
	ledger "github.com/balanza-erp/balanza/internal/ledger/shared"
	"github.com/balanza-erp/balanza/internal/ledger/vouchers"
	"github.com/balanza-erp/balanza/internal/shared"
)

// AuditPort records posted transactions.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CachePort invalidates derived report data after a commit.
type CachePort interface {
	Bump(ctx context.Context, tenantID int64) error
}

// MetricsPort counts posting outcomes.
type MetricsPort interface {
	CountPosting(outcome string)
}

// IdempotencyPort guards against duplicate submissions.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, tenantID int64, key, module string) error
	Delete(ctx context.Context, tenantID int64, key string) error
}

// ThirdPartyPort verifies subledger references on lines and headers.
type ThirdPartyPort interface {
	Exists(ctx context.Context, tenantID, id int64) (bool, error)
}

const idempotencyModule = "posting"

// Service is the posting engine. A unit of work is validated, sequenced and
// written atomically; a voucher number is only ever consumed by a commit.
type Service struct {
	repo         Repository
	idem         IdempotencyPort
	audit        AuditPort
	cache        CachePort
	metrics      MetricsPort
	thirdParties ThirdPartyPort
	tolerance    float64
	now          func() time.Time
}

// NewService constructs the posting engine. The tolerance is the maximum
// absolute difference between total debits and credits.
func NewService(repo Repository, idem IdempotencyPort, audit AuditPort, cache CachePort, metrics MetricsPort, thirdParties ThirdPartyPort, tolerance float64) *Service {
	return &Service{
		repo:         repo,
		idem:         idem,
		audit:        audit,
		cache:        cache,
		metrics:      metrics,
		thirdParties: thirdParties,
		tolerance:    tolerance,
		now:          time.Now,
	}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Post validates and writes a journal transaction. Validation order is
// fixed: structure first, then the period gate, then account postability,
// then the sequencer, so a rejected entry never consumes a number.
func (s *Service) Post(ctx context.Context, id shared.Identity, in PostingInput) (Transaction, []TransactionDetail, error) {
	if err := in.Validate(s.tolerance); err != nil {
		s.count("rejected")
		return Transaction{}, nil, err
	}
	if in.VoucherTypeCode == "" {
		s.count("rejected")
		return Transaction{}, nil, ledger.ErrVoucherTypeUnavailable
	}
	if err := s.checkThirdParties(ctx, id.TenantID, in); err != nil {
		s.count("rejected")
		return Transaction{}, nil, err
	}

	if in.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.CheckAndInsert(ctx, id.TenantID, in.IdempotencyKey, idempotencyModule); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				s.count("replay")
				return Transaction{}, nil, ledger.ErrIdempotencyReplay
			}
			return Transaction{}, nil, err
		}
	}

	var (
		header  Transaction
		details []TransactionDetail
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		period, err := tx.FindOpenPeriodForUpdate(ctx, id.TenantID, in.Date)
		if err != nil {
			return err
		}
		switch period.Status {
		case periods.StatusOpen:
		case periods.StatusLocked:
			return ledger.ErrPeriodLocked
		default:
			return ledger.ErrPeriodNotOpen
		}

		if err := s.checkAccounts(ctx, tx, id.TenantID, in.Lines); err != nil {
			return err
		}

		prefix, consecutive, err := tx.NextVoucherNumber(ctx, id.TenantID, in.VoucherTypeCode)
		if err != nil {
			return err
		}

		header, err = tx.InsertTransaction(ctx, Transaction{
			TenantID:      id.TenantID,
			VoucherType:   in.VoucherTypeCode,
			VoucherNumber: vouchers.FormatNumber(prefix, consecutive),
			Description:   in.Description,
			Date:          in.Date,
			TotalDebit:    in.TotalDebit(),
			TotalCredit:   in.TotalCredit(),
			Status:        StatusPosted,
			PeriodID:      period.ID,
			ThirdPartyID:  in.ThirdPartyID,
			CreatedBy:     id.UserID,
		})
		if err != nil {
			return err
		}

		details = make([]TransactionDetail, 0, len(in.Lines))
		for _, l := range in.Lines {
			details = append(details, TransactionDetail{
				TransactionID: header.ID,
				AccountID:     l.AccountID,
				Description:   l.Description,
				Debit:         l.Debit,
				Credit:        l.Credit,
				ThirdPartyID:  l.ThirdPartyID,
				CostCenterID:  l.CostCenterID,
			})
		}
		return tx.InsertDetails(ctx, header.ID, details)
	})
	if err != nil {
		if in.IdempotencyKey != "" && s.idem != nil {
			_ = s.idem.Delete(ctx, id.TenantID, in.IdempotencyKey)
		}
		s.count("rejected")
		return Transaction{}, nil, err
	}

	s.count("posted")
	s.record(ctx, id, header)
	if s.cache != nil {
		_ = s.cache.Bump(ctx, id.TenantID)
	}
	return header, details, nil
}

// checkThirdParties verifies every referenced counterparty exists and is
// active before any transactional work starts.
func (s *Service) checkThirdParties(ctx context.Context, tenantID int64, in PostingInput) error {
	if s.thirdParties == nil {
		return nil
	}
	seen := make(map[int64]struct{})
	refs := make([]int64, 0, len(in.Lines)+1)
	if in.ThirdPartyID != nil {
		refs = append(refs, *in.ThirdPartyID)
	}
	for _, l := range in.Lines {
		if l.ThirdPartyID != nil {
			refs = append(refs, *l.ThirdPartyID)
		}
	}
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		exists, err := s.thirdParties.Exists(ctx, tenantID, ref)
		if err != nil {
			return err
		}
		if !exists {
			return ledger.ErrNotFound
		}
	}
	return nil
}

// checkAccounts re-reads the referenced accounts inside the transaction and
// applies the postability gates against each line's context.
func (s *Service) checkAccounts(ctx context.Context, tx TxRepository, tenantID int64, lines []PostingLine) error {
	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	accs, err := tx.GetAccountsByIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	byID := make(map[int64]accounts.Account, len(accs))
	for _, a := range accs {
		byID[a.ID] = a
	}
	for _, l := range lines {
		account, ok := byID[l.AccountID]
		if !ok {
			return ledger.ErrNotFound
		}
		violations := account.PostabilityViolations(accounts.ValidationContext{
			CostCenterID:   l.CostCenterID,
			HasWithholding: l.HasWithholding,
			HasTax:         l.HasTax,
		})
		if len(violations) > 0 {
			return &ledger.NotPostableError{AccountCode: account.Code, Reasons: violations}
		}
	}
	return nil
}

// List returns the tenant's transactions, newest first.
func (s *Service) List(ctx context.Context, tenantID int64, filter ListFilter) ([]Transaction, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(filter.Page, filter.PerPage, total), nil
}

// Get returns a transaction with its detail lines.
func (s *Service) Get(ctx context.Context, tenantID, id int64) (Transaction, []TransactionDetail, error) {
	return s.repo.GetWithDetails(ctx, tenantID, id)
}

func (s *Service) count(outcome string) {
	if s.metrics != nil {
		s.metrics.CountPosting(outcome)
	}
}

func (s *Service) record(ctx context.Context, id shared.Identity, t Transaction) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		TenantID: id.TenantID,
		ActorID:  id.UserID,
		Action:   "transaction.post",
		Entity:   "transaction",
		EntityID: strconv.FormatInt(t.ID, 10),
		After: map[string]any{
			"voucher_type":   t.VoucherType,
			"voucher_number": t.VoucherNumber,
			"date":           t.Date.Format(time.DateOnly),
			"total_debit":    t.TotalDebit,
			"total_credit":   t.TotalCredit,
			"status":         string(t.Status),
		},
		At: s.now(),
	})
}

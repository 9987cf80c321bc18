package accounts

import (
	"context"
	"errors"
	"strconv"
	"time"

	ledger "github.com/balanza-erp/balanza/internal/ledger/shared"
	"github.com/balanza-erp/balanza/internal/shared"
)

// maxSearchResults caps substring searches.
const maxSearchResults = 50

// AuditPort records registry changes.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates chart of accounts operations.
type Service struct {
	repo  Repository
	audit AuditPort
	now   func() time.Time
}

// NewService constructs the registry service.
func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateInput carries the caller-supplied account fields. Level, parent code
// and the leaf flags are derived from Code, never trusted from the caller.
type CreateInput struct {
	Code               string
	Name               string
	Nature             Nature
	Type               Type
	IsTemplate         bool
	RequiresCostCenter bool
	AppliesWithholding bool
	AppliesTaxes       bool
	ClosingAccountCode string
}

// UpdateInput carries the mutable account fields. The code is immutable.
type UpdateInput struct {
	Name               string
	Nature             Nature
	Type               Type
	IsTemplate         bool
	RequiresCostCenter bool
	AppliesWithholding bool
	AppliesTaxes       bool
	ClosingAccountCode string
}

// Create registers a new account, deriving its place in the hierarchy.
func (s *Service) Create(ctx context.Context, id shared.Identity, in CreateInput) (Account, error) {
	if in.Code == "" || in.Name == "" || in.Nature == "" || in.Type == "" {
		return Account{}, errors.New("accounts: code, name, nature and type are required")
	}
	level := DeriveLevel(in.Code)
	account := Account{
		TenantID:           id.TenantID,
		Code:               in.Code,
		Name:               in.Name,
		Level:              level,
		Nature:             in.Nature,
		Type:               in.Type,
		ParentCode:         DeriveParentCode(in.Code),
		IsAuxiliary:        level >= 4,
		AllowsMovement:     level >= 3,
		IsTemplate:         in.IsTemplate,
		RequiresCostCenter: in.RequiresCostCenter,
		AppliesWithholding: in.AppliesWithholding,
		AppliesTaxes:       in.AppliesTaxes,
	}
	if in.ClosingAccountCode != "" {
		closing, err := s.repo.GetByCode(ctx, id.TenantID, in.ClosingAccountCode)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				return Account{}, errors.New("accounts: closing account not found")
			}
			return Account{}, err
		}
		account.ClosingAccountID = &closing.ID
	}
	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return Account{}, err
	}
	s.record(ctx, id, "account.create", created.ID, nil, auditAccount(created))
	return created, nil
}

// Update mutates the account's descriptive fields and flags. ParentCode is
// recomputed from the stored code so the denormalization cannot drift.
func (s *Service) Update(ctx context.Context, id shared.Identity, accountID int64, in UpdateInput) (Account, error) {
	if in.Name == "" || in.Nature == "" || in.Type == "" {
		return Account{}, errors.New("accounts: name, nature and type are required")
	}
	current, err := s.repo.GetByID(ctx, id.TenantID, accountID)
	if err != nil {
		return Account{}, err
	}
	next := current
	next.Name = in.Name
	next.Nature = in.Nature
	next.Type = in.Type
	next.ParentCode = DeriveParentCode(current.Code)
	next.IsTemplate = in.IsTemplate
	next.RequiresCostCenter = in.RequiresCostCenter
	next.AppliesWithholding = in.AppliesWithholding
	next.AppliesTaxes = in.AppliesTaxes
	next.ClosingAccountID = nil
	if in.ClosingAccountCode != "" {
		closing, err := s.repo.GetByCode(ctx, id.TenantID, in.ClosingAccountCode)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				return Account{}, errors.New("accounts: closing account not found")
			}
			return Account{}, err
		}
		next.ClosingAccountID = &closing.ID
	}
	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return Account{}, err
	}
	s.record(ctx, id, "account.update", updated.ID, auditAccount(current), auditAccount(updated))
	return updated, nil
}

// Deactivate soft-deletes the account. Rejected while ledger lines reference it.
func (s *Service) Deactivate(ctx context.Context, id shared.Identity, accountID int64) error {
	return s.remove(ctx, id, accountID, false)
}

// Delete removes the account row. Rejected while ledger lines reference it.
func (s *Service) Delete(ctx context.Context, id shared.Identity, accountID int64) error {
	return s.remove(ctx, id, accountID, true)
}

func (s *Service) remove(ctx context.Context, id shared.Identity, accountID int64, hard bool) error {
	current, err := s.repo.GetByID(ctx, id.TenantID, accountID)
	if err != nil {
		return err
	}
	used, err := s.repo.HasMovements(ctx, id.TenantID, accountID)
	if err != nil {
		return err
	}
	if used {
		return ledger.ErrHasDependentMovements
	}
	action := "account.deactivate"
	if hard {
		action = "account.delete"
		err = s.repo.Delete(ctx, id.TenantID, accountID)
	} else {
		err = s.repo.SetActive(ctx, id.TenantID, accountID, false)
	}
	if err != nil {
		return err
	}
	s.record(ctx, id, action, accountID, auditAccount(current), nil)
	return nil
}

// Resolve returns the account by numeric id or, failing that, by code.
func (s *Service) Resolve(ctx context.Context, tenantID int64, idOrCode string) (Account, error) {
	if numeric, err := strconv.ParseInt(idOrCode, 10, 64); err == nil {
		account, err := s.repo.GetByID(ctx, tenantID, numeric)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, ledger.ErrNotFound) {
			return Account{}, err
		}
	}
	return s.repo.GetByCode(ctx, tenantID, idOrCode)
}

// List returns the tenant's active accounts ordered by level then code.
func (s *Service) List(ctx context.Context, tenantID int64) ([]Account, error) {
	return s.repo.List(ctx, tenantID)
}

// Search returns active accounts whose code or name contains the query.
func (s *Service) Search(ctx context.Context, tenantID int64, query string) ([]Account, error) {
	if query == "" {
		return nil, nil
	}
	return s.repo.Search(ctx, tenantID, query, maxSearchResults)
}

// Children lists the active accounts directly under parentCode; empty
// parentCode lists the top-level classes.
func (s *Service) Children(ctx context.Context, tenantID int64, parentCode string) ([]TreeNode, error) {
	var parent *string
	if parentCode != "" {
		parent = &parentCode
	}
	return s.repo.ChildrenOf(ctx, tenantID, parent)
}

// Validate reports the postability gates the account fails for the context.
func (s *Service) Validate(ctx context.Context, tenantID, accountID int64, vctx ValidationContext) ([]string, error) {
	account, err := s.repo.GetByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	return account.PostabilityViolations(vctx), nil
}

func (s *Service) record(ctx context.Context, id shared.Identity, action string, entityID int64, before, after map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		TenantID: id.TenantID,
		ActorID:  id.UserID,
		Action:   action,
		Entity:   "account",
		EntityID: strconv.FormatInt(entityID, 10),
		Before:   before,
		After:    after,
		At:       s.now(),
	})
}

func auditAccount(a Account) map[string]any {
	return map[string]any{
		"code":            a.Code,
		"name":            a.Name,
		"nature":          string(a.Nature),
		"account_type":    string(a.Type),
		"is_template":     a.IsTemplate,
		"allows_movement": a.AllowsMovement,
		"is_active":       a.IsActive,
	}
}

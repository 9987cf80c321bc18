// Package accounts implements the chart of accounts registry.
package accounts

import (
	"time"

	"github.com/balanza-erp/balanza/internal/ledger/shared"
)

// Nature states whether an account's normal balance grows with debits or credits.
type Nature string

const (
	NatureDebit  Nature = "DEUDORA"
	NatureCredit Nature = "ACREEDORA"
)

// Type enumerates CoA categories.
type Type string

const (
	TypeAsset     Type = "ASSET"
	TypeLiability Type = "LIABILITY"
	TypeEquity    Type = "EQUITY"
	TypeRevenue   Type = "REVENUE"
	TypeExpense   Type = "EXPENSE"
)

// Account models a chart of accounts node. The hierarchy lives in the code
// string; ParentCode is denormalized for queries and must always equal
// DeriveParentCode(Code).
type Account struct {
	ID                 int64     `json:"id"`
	TenantID           int64     `json:"-"`
	Code               string    `json:"code"`
	Name               string    `json:"name"`
	Level              int       `json:"level"`
	Nature             Nature    `json:"nature"`
	Type               Type      `json:"accountType"`
	ParentCode         *string   `json:"parentCode"`
	IsAuxiliary        bool      `json:"isAuxiliary"`
	AllowsMovement     bool      `json:"allowsMovement"`
	IsTemplate         bool      `json:"isTemplate"`
	RequiresCostCenter bool      `json:"requiresCostCenter"`
	AppliesWithholding bool      `json:"appliesWithholding"`
	AppliesTaxes       bool      `json:"appliesTaxes"`
	ClosingAccountID   *int64    `json:"closingAccountId,omitempty"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// IsPostable reports whether the account may appear on a ledger line.
func (a Account) IsPostable() bool {
	return a.AllowsMovement && !a.IsTemplate && a.IsActive
}

// ValidationContext carries the line-level data the postability gates check.
type ValidationContext struct {
	CostCenterID   *int64
	HasWithholding bool
	HasTax         bool
}

// PostabilityViolations returns every gate the account fails for the given
// context. Empty result means the account accepts the movement.
func (a Account) PostabilityViolations(vctx ValidationContext) []string {
	var violations []string
	if a.IsTemplate {
		violations = append(violations, shared.ReasonTemplate)
	}
	if !a.IsActive {
		violations = append(violations, shared.ReasonInactive)
	}
	if !a.AllowsMovement {
		violations = append(violations, shared.ReasonNoMovement)
	}
	if a.RequiresCostCenter && vctx.CostCenterID == nil {
		violations = append(violations, shared.ReasonRequiresCostCenter)
	}
	if a.AppliesWithholding && !vctx.HasWithholding {
		violations = append(violations, shared.ReasonRequiresWithholding)
	}
	if a.AppliesTaxes && !vctx.HasTax {
		violations = append(violations, shared.ReasonRequiresTaxes)
	}
	return violations
}

// TreeNode is an account row in the children listing, annotated with whether
// further levels hang below it.
type TreeNode struct {
	Account
	HasChildren bool `json:"hasChildren"`
}

// DeriveLevel maps a PUC code onto its hierarchy level: class (1 digit),
// group (2), account (4), subaccount (6), auxiliary (longer).
func DeriveLevel(code string) int {
	switch l := len(code); {
	case l <= 2:
		return l
	case l <= 4:
		return 3
	case l <= 6:
		return 4
	default:
		return 5
	}
}

// DeriveParentCode returns the code of the immediate parent segment, or nil
// for a top-level class. Segment boundaries sit at 1, 2, 4 and 6 digits.
func DeriveParentCode(code string) *string {
	var parent string
	switch l := len(code); {
	case l > 6:
		parent = code[:6]
	case l > 4:
		parent = code[:4]
	case l > 2:
		parent = code[:2]
	case l > 1:
		parent = code[:1]
	default:
		return nil
	}
	return &parent
}

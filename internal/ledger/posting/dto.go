package posting

import (
	"math"
	"time"

	"github.com/balanza-erp/balanza/internal/ledger/shared"
)

// PostingLine is one caller-supplied journal line. Exactly one of Debit or
// Credit must be positive.
type PostingLine struct {
	AccountID      int64
	Description    string
	Debit          float64
	Credit         float64
	ThirdPartyID   *int64
	CostCenterID   *int64
	HasWithholding bool
	HasTax         bool
}

// PostingInput is a unit of work submitted to the posting engine.
type PostingInput struct {
	VoucherTypeCode string
	Description     string
	Date            time.Time
	ThirdPartyID    *int64
	IdempotencyKey  string
	Lines           []PostingLine
}

// Validate checks the structural invariants before any database work.
// The checks run in a fixed order and fail on the first violation.
func (in PostingInput) Validate(tolerance float64) error {
	if len(in.Lines) < 2 {
		return shared.ErrTooFewLines
	}
	for _, l := range in.Lines {
		if l.Debit < 0 || l.Credit < 0 {
			return shared.ErrNegativeAmount
		}
		if (l.Debit > 0) == (l.Credit > 0) {
			return shared.ErrMixedDebitCredit
		}
	}
	if math.Abs(in.TotalDebit()-in.TotalCredit()) > tolerance {
		return shared.ErrUnbalanced
	}
	return nil
}

// TotalDebit sums the debit side.
func (in PostingInput) TotalDebit() float64 {
	var total float64
	for _, l := range in.Lines {
		total += l.Debit
	}
	return total
}

// TotalCredit sums the credit side.
func (in PostingInput) TotalCredit() float64 {
	var total float64
	for _, l := range in.Lines {
		total += l.Credit
	}
	return total
}

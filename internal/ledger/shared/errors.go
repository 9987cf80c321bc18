// Package shared holds the error taxonomy common to the ledger core.
package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates a missing tenant-scoped entity.
	ErrNotFound = errors.New("ledger: not found")
	// ErrDuplicateCode indicates a code collision within the tenant.
	ErrDuplicateCode = errors.New("ledger: code already exists")
	// ErrDuplicatePeriod indicates the (year, month) period already exists.
	ErrDuplicatePeriod = errors.New("ledger: period already exists")
	// ErrPeriodLocked indicates the period is locked and immutable.
	ErrPeriodLocked = errors.New("ledger: period is locked")
	// ErrPeriodNotOpen indicates the period exists but is not open.
	ErrPeriodNotOpen = errors.New("ledger: period is not open")
	// ErrNoOpenPeriod indicates no period record covers the posting date.
	ErrNoOpenPeriod = errors.New("ledger: no open period for date")
	// ErrInvalidTransition indicates a period state change outside the lifecycle.
	ErrInvalidTransition = errors.New("ledger: invalid period transition")
	// ErrHasDependentMovements blocks account removal while lines reference it.
	ErrHasDependentMovements = errors.New("ledger: account has dependent movements")
	// ErrHasTransactions blocks removal while transactions reference the entity.
	ErrHasTransactions = errors.New("ledger: has associated transactions")
	// ErrVoucherTypeUnavailable indicates a missing or inactive voucher type.
	ErrVoucherTypeUnavailable = errors.New("ledger: voucher type missing or inactive")
	// ErrTooFewLines indicates fewer than two detail lines.
	ErrTooFewLines = errors.New("ledger: entry requires at least two detail lines")
	// ErrMixedDebitCredit indicates a line carrying both sides.
	ErrMixedDebitCredit = errors.New("ledger: detail line cannot carry both debit and credit")
	// ErrNegativeAmount indicates a negative debit or credit.
	ErrNegativeAmount = errors.New("ledger: detail amounts must not be negative")
	// ErrUnbalanced indicates total debits differ from total credits.
	ErrUnbalanced = errors.New("ledger: debits and credits must balance")
	// ErrAccountNotPostable indicates the account cannot receive movements.
	ErrAccountNotPostable = errors.New("ledger: account does not accept movements")
	// ErrIdempotencyReplay indicates the idempotency key was already consumed.
	ErrIdempotencyReplay = errors.New("ledger: request already processed")
)

// Postability sub-reasons reported inside NotPostableError.
const (
	ReasonTemplate            = "template"
	ReasonInactive            = "inactive"
	ReasonNoMovement          = "movement-not-allowed"
	ReasonRequiresCostCenter  = "requires-cost-center"
	ReasonRequiresWithholding = "requires-withholding"
	ReasonRequiresTaxes       = "requires-taxes"
)

// NotPostableError carries the account code and the specific gate(s) that
// rejected it, so the caller can correct the offending line.
type NotPostableError struct {
	AccountCode string
	Reasons     []string
}

func (e *NotPostableError) Error() string {
	return fmt.Sprintf("ledger: account %s does not accept movements (%s)",
		e.AccountCode, strings.Join(e.Reasons, ", "))
}

// Unwrap lets errors.Is match ErrAccountNotPostable.
func (e *NotPostableError) Unwrap() error {
	return ErrAccountNotPostable
}

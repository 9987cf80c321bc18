package httpx

import (
	"errors"
	"net/http"

	ledger "github.com/balanza-erp/balanza/internal/ledger/shared"
)

// RespondError maps ledger domain errors to HTTP problem responses. Every
// validation failure names the invariant that rejected the request; only
// infrastructure failures collapse into a generic 500.
func RespondError(w http.ResponseWriter, err error) {
	var notPostable *ledger.NotPostableError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ledger.ErrDuplicateCode),
		errors.Is(err, ledger.ErrDuplicatePeriod),
		errors.Is(err, ledger.ErrIdempotencyReplay):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ledger.ErrHasDependentMovements),
		errors.Is(err, ledger.ErrHasTransactions):
		Problem(w, http.StatusConflict, "Has Dependencies", err.Error())
	case errors.As(err, &notPostable):
		Problem(w, http.StatusUnprocessableEntity, "Account Not Postable", err.Error())
	case errors.Is(err, ledger.ErrTooFewLines),
		errors.Is(err, ledger.ErrMixedDebitCredit),
		errors.Is(err, ledger.ErrNegativeAmount),
		errors.Is(err, ledger.ErrUnbalanced):
		Problem(w, http.StatusUnprocessableEntity, "Entry Rejected", err.Error())
	case errors.Is(err, ledger.ErrPeriodLocked),
		errors.Is(err, ledger.ErrPeriodNotOpen),
		errors.Is(err, ledger.ErrNoOpenPeriod),
		errors.Is(err, ledger.ErrInvalidTransition):
		Problem(w, http.StatusUnprocessableEntity, "Period Rejected", err.Error())
	case errors.Is(err, ledger.ErrVoucherTypeUnavailable):
		Problem(w, http.StatusUnprocessableEntity, "Voucher Type Rejected", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

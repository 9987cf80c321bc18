package reports

import (
	"math"

	"github.com/balanza-erp/balanza/internal/ledger/accounts"
)

// TrialBalanceRow is one account's movement and its nature-normalized
// closing position.
type TrialBalanceRow struct {
	AccountID   int64           `json:"accountId"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Nature      accounts.Nature `json:"nature"`
	Debit       float64         `json:"debit"`
	Credit      float64         `json:"credit"`
	FinalDebit  float64         `json:"finalDebit"`
	FinalCredit float64         `json:"finalCredit"`
}

// TrialBalance is the full statement for one period.
type TrialBalance struct {
	PeriodID         int64             `json:"periodId"`
	Rows             []TrialBalanceRow `json:"rows"`
	TotalDebit       float64           `json:"totalDebit"`
	TotalCredit      float64           `json:"totalCredit"`
	TotalFinalDebit  float64           `json:"totalFinalDebit"`
	TotalFinalCredit float64           `json:"totalFinalCredit"`
	Reconciled       bool              `json:"reconciled"`
}

// BuildTrialBalance folds account activity into a trial balance. A debit
// nature account nets debit minus credit; the surplus side carries the
// final position and the other side shows zero. Reconciled reports whether
// raw movements still balance within the tolerance; it is a health check,
// never an enforcement point.
func BuildTrialBalance(periodID int64, activity []AccountActivity, tolerance float64) TrialBalance {
	tb := TrialBalance{PeriodID: periodID, Rows: make([]TrialBalanceRow, 0, len(activity))}
	for _, a := range activity {
		row := TrialBalanceRow{
			AccountID: a.AccountID,
			Code:      a.Code,
			Name:      a.Name,
			Nature:    a.Nature,
			Debit:     a.Debit,
			Credit:    a.Credit,
		}
		net := naturalBalance(a)
		if a.Nature == accounts.NatureCredit {
			if net >= 0 {
				row.FinalCredit = net
			} else {
				row.FinalDebit = -net
			}
		} else {
			if net >= 0 {
				row.FinalDebit = net
			} else {
				row.FinalCredit = -net
			}
		}
		tb.Rows = append(tb.Rows, row)
		tb.TotalDebit += a.Debit
		tb.TotalCredit += a.Credit
		tb.TotalFinalDebit += row.FinalDebit
		tb.TotalFinalCredit += row.FinalCredit
	}
	tb.Reconciled = math.Abs(tb.TotalDebit-tb.TotalCredit) <= tolerance
	return tb
}

// naturalBalance nets the account's movement in the direction of its nature.
func naturalBalance(a AccountActivity) float64 {
	if a.Nature == accounts.NatureCredit {
		return a.Credit - a.Debit
	}
	return a.Debit - a.Credit
}

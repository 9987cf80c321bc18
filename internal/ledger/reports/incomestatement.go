package reports

import "github.com/balanza-erp/balanza/internal/ledger/accounts"

// IncomeStatement is the result statement for one period. Revenue nets
// credit-positive, expenses net debit-positive.
type IncomeStatement struct {
	PeriodID  int64   `json:"periodId"`
	Revenue   Section `json:"revenue"`
	Expenses  Section `json:"expenses"`
	NetIncome float64 `json:"netIncome"`
}

// BuildIncomeStatement buckets revenue and expense activity and nets the
// result. Position accounts are excluded.
func BuildIncomeStatement(periodID int64, activity []AccountActivity) IncomeStatement {
	is := IncomeStatement{PeriodID: periodID}
	for _, a := range activity {
		switch a.Type {
		case accounts.TypeRevenue:
			row := SectionRow{AccountID: a.AccountID, Code: a.Code, Name: a.Name, Balance: a.Credit - a.Debit}
			is.Revenue.Rows = append(is.Revenue.Rows, row)
			is.Revenue.Total += row.Balance
		case accounts.TypeExpense:
			row := SectionRow{AccountID: a.AccountID, Code: a.Code, Name: a.Name, Balance: a.Debit - a.Credit}
			is.Expenses.Rows = append(is.Expenses.Rows, row)
			is.Expenses.Total += row.Balance
		}
	}
	is.NetIncome = is.Revenue.Total - is.Expenses.Total
	return is
}

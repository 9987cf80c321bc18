package reports

import "github.com/balanza-erp/balanza/internal/ledger/accounts"

// SectionRow is one account's nature-normalized balance inside a statement
// section.
type SectionRow struct {
	AccountID int64   `json:"accountId"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Balance   float64 `json:"balance"`
}

// Section groups rows of one account type with their total.
type Section struct {
	Rows  []SectionRow `json:"rows"`
	Total float64      `json:"total"`
}

// BalanceSheet is the statement of financial position for one period.
// Drift between assets and liabilities plus equity is reported through the
// totals, never adjusted away.
type BalanceSheet struct {
	PeriodID                  int64   `json:"periodId"`
	Assets                    Section `json:"assets"`
	Liabilities               Section `json:"liabilities"`
	Equity                    Section `json:"equity"`
	TotalAssets               float64 `json:"totalAssets"`
	TotalLiabilitiesAndEquity float64 `json:"totalLiabilitiesAndEquity"`
}

// BuildBalanceSheet buckets account activity into the three position
// sections. Revenue and expense accounts are excluded; they roll up through
// the income statement.
func BuildBalanceSheet(periodID int64, activity []AccountActivity) BalanceSheet {
	bs := BalanceSheet{PeriodID: periodID}
	for _, a := range activity {
		row := SectionRow{AccountID: a.AccountID, Code: a.Code, Name: a.Name, Balance: naturalBalance(a)}
		switch a.Type {
		case accounts.TypeAsset:
			bs.Assets.Rows = append(bs.Assets.Rows, row)
			bs.Assets.Total += row.Balance
		case accounts.TypeLiability:
			bs.Liabilities.Rows = append(bs.Liabilities.Rows, row)
			bs.Liabilities.Total += row.Balance
		case accounts.TypeEquity:
			bs.Equity.Rows = append(bs.Equity.Rows, row)
			bs.Equity.Total += row.Balance
		}
	}
	bs.TotalAssets = bs.Assets.Total
	bs.TotalLiabilitiesAndEquity = bs.Liabilities.Total + bs.Equity.Total
	return bs
}

package reports

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.Spanish)

// FormatAmount renders an amount with Spanish digit grouping, matching the
// locale the seeded chart targets.
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("%.2f", v)
}

// TrialBalanceView decorates the trial balance with display strings.
type TrialBalanceView struct {
	TrialBalance
	TotalDebitDisplay       string `json:"totalDebitDisplay"`
	TotalCreditDisplay      string `json:"totalCreditDisplay"`
	TotalFinalDebitDisplay  string `json:"totalFinalDebitDisplay"`
	TotalFinalCreditDisplay string `json:"totalFinalCreditDisplay"`
}

// NewTrialBalanceView builds the display wrapper.
func NewTrialBalanceView(tb TrialBalance) TrialBalanceView {
	return TrialBalanceView{
		TrialBalance:            tb,
		TotalDebitDisplay:       FormatAmount(tb.TotalDebit),
		TotalCreditDisplay:      FormatAmount(tb.TotalCredit),
		TotalFinalDebitDisplay:  FormatAmount(tb.TotalFinalDebit),
		TotalFinalCreditDisplay: FormatAmount(tb.TotalFinalCredit),
	}
}

// BalanceSheetView decorates the balance sheet with display strings.
type BalanceSheetView struct {
	BalanceSheet
	TotalAssetsDisplay               string `json:"totalAssetsDisplay"`
	TotalLiabilitiesAndEquityDisplay string `json:"totalLiabilitiesAndEquityDisplay"`
}

// NewBalanceSheetView builds the display wrapper.
func NewBalanceSheetView(bs BalanceSheet) BalanceSheetView {
	return BalanceSheetView{
		BalanceSheet:                     bs,
		TotalAssetsDisplay:               FormatAmount(bs.TotalAssets),
		TotalLiabilitiesAndEquityDisplay: FormatAmount(bs.TotalLiabilitiesAndEquity),
	}
}

// IncomeStatementView decorates the income statement with display strings.
type IncomeStatementView struct {
	IncomeStatement
	TotalRevenueDisplay  string `json:"totalRevenueDisplay"`
	TotalExpensesDisplay string `json:"totalExpensesDisplay"`
	NetIncomeDisplay     string `json:"netIncomeDisplay"`
}

// NewIncomeStatementView builds the display wrapper.
func NewIncomeStatementView(is IncomeStatement) IncomeStatementView {
	return IncomeStatementView{
		IncomeStatement:      is,
		TotalRevenueDisplay:  FormatAmount(is.Revenue.Total),
		TotalExpensesDisplay: FormatAmount(is.Expenses.Total),
		NetIncomeDisplay:     FormatAmount(is.NetIncome),
	}
}

package reports

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balanza-erp/balanza/internal/ledger/accounts"
)

const testTolerance = 0.01

func monthActivity() []AccountActivity {
	return []AccountActivity{
		{AccountID: 1, Code: "110505", Name: "Caja general", Nature: accounts.NatureDebit, Type: accounts.TypeAsset, Level: 4, Debit: 1750000, Credit: 500000},
		{AccountID: 2, Code: "220505", Name: "Proveedores nacionales", Nature: accounts.NatureCredit, Type: accounts.TypeLiability, Level: 4, Debit: 0, Credit: 400000},
		{AccountID: 3, Code: "310505", Name: "Capital suscrito", Nature: accounts.NatureCredit, Type: accounts.TypeEquity, Level: 4, Debit: 0, Credit: 300000},
		{AccountID: 4, Code: "410505", Name: "Ventas", Nature: accounts.NatureCredit, Type: accounts.TypeRevenue, Level: 4, Debit: 0, Credit: 750000},
		{AccountID: 5, Code: "510506", Name: "Sueldos", Nature: accounts.NatureDebit, Type: accounts.TypeExpense, Level: 4, Debit: 200000, Credit: 0},
	}
}

func TestBuildTrialBalance(t *testing.T) {
	tb := BuildTrialBalance(10, monthActivity(), testTolerance)

	require.Len(t, tb.Rows, 5)
	assert.EqualValues(t, 10, tb.PeriodID)
	assert.Equal(t, 1950000.0, tb.TotalDebit)
	assert.Equal(t, 1950000.0, tb.TotalCredit)
	assert.True(t, tb.Reconciled)

	// Debit nature account nets on the debit side.
	caja := tb.Rows[0]
	assert.Equal(t, 1250000.0, caja.FinalDebit)
	assert.Equal(t, 0.0, caja.FinalCredit)

	// Credit nature account nets on the credit side.
	ventas := tb.Rows[3]
	assert.Equal(t, 750000.0, ventas.FinalCredit)
	assert.Equal(t, 0.0, ventas.FinalDebit)

	assert.Equal(t, tb.TotalFinalDebit, 1250000.0+200000.0)
	assert.Equal(t, tb.TotalFinalCredit, 400000.0+300000.0+750000.0)
}

func TestTrialBalanceContraPosition(t *testing.T) {
	// A debit nature account driven negative crosses to the credit column.
	activity := []AccountActivity{
		{AccountID: 1, Code: "110505", Name: "Caja general", Nature: accounts.NatureDebit, Type: accounts.TypeAsset, Debit: 100, Credit: 400},
		{AccountID: 2, Code: "220505", Name: "Proveedores", Nature: accounts.NatureCredit, Type: accounts.TypeLiability, Debit: 400, Credit: 100},
	}
	tb := BuildTrialBalance(10, activity, testTolerance)

	assert.Equal(t, 0.0, tb.Rows[0].FinalDebit)
	assert.Equal(t, 300.0, tb.Rows[0].FinalCredit)
	assert.Equal(t, 300.0, tb.Rows[1].FinalDebit)
	assert.Equal(t, 0.0, tb.Rows[1].FinalCredit)
}

func TestTrialBalanceFlagsDrift(t *testing.T) {
	activity := []AccountActivity{
		{AccountID: 1, Code: "110505", Nature: accounts.NatureDebit, Type: accounts.TypeAsset, Debit: 100},
		{AccountID: 2, Code: "410505", Nature: accounts.NatureCredit, Type: accounts.TypeRevenue, Credit: 90},
	}
	tb := BuildTrialBalance(10, activity, testTolerance)
	assert.False(t, tb.Reconciled)
	assert.Equal(t, 100.0, tb.TotalDebit)
	assert.Equal(t, 90.0, tb.TotalCredit)
}

func TestTrialBalanceReconcilesWithRandomPostings(t *testing.T) {
	// Simulate a run of balanced two-line entries. Whatever the mix of
	// accounts, the raw movement totals must reconcile.
	rng := rand.New(rand.NewSource(7))
	activity := monthActivity()
	for i := range activity {
		activity[i].Debit = 0
		activity[i].Credit = 0
	}
	for i := 0; i < 100; i++ {
		amount := float64(rng.Intn(5_000_000) + 1)
		d := rng.Intn(len(activity))
		c := rng.Intn(len(activity))
		activity[d].Debit += amount
		activity[c].Credit += amount
	}
	tb := BuildTrialBalance(10, activity, testTolerance)
	assert.True(t, tb.Reconciled)
	assert.Equal(t, tb.TotalDebit, tb.TotalCredit)
}

func TestBuildBalanceSheet(t *testing.T) {
	bs := BuildBalanceSheet(10, monthActivity())

	require.Len(t, bs.Assets.Rows, 1)
	require.Len(t, bs.Liabilities.Rows, 1)
	require.Len(t, bs.Equity.Rows, 1)

	assert.Equal(t, 1250000.0, bs.TotalAssets)
	assert.Equal(t, 700000.0, bs.TotalLiabilitiesAndEquity)

	// Result accounts never leak into the position statement.
	for _, section := range []Section{bs.Assets, bs.Liabilities, bs.Equity} {
		for _, row := range section.Rows {
			assert.NotEqual(t, "410505", row.Code)
			assert.NotEqual(t, "510506", row.Code)
		}
	}
}

func TestBuildIncomeStatement(t *testing.T) {
	is := BuildIncomeStatement(10, monthActivity())

	require.Len(t, is.Revenue.Rows, 1)
	require.Len(t, is.Expenses.Rows, 1)
	assert.Equal(t, 750000.0, is.Revenue.Total)
	assert.Equal(t, 200000.0, is.Expenses.Total)
	assert.Equal(t, 550000.0, is.NetIncome)
}

func TestIncomeStatementNetLoss(t *testing.T) {
	activity := []AccountActivity{
		{AccountID: 4, Code: "410505", Nature: accounts.NatureCredit, Type: accounts.TypeRevenue, Credit: 100000},
		{AccountID: 5, Code: "510506", Nature: accounts.NatureDebit, Type: accounts.TypeExpense, Debit: 350000},
	}
	is := BuildIncomeStatement(10, activity)
	assert.Equal(t, -250000.0, is.NetIncome)
}

func TestStatementsAgreeOnNetIncome(t *testing.T) {
	activity := monthActivity()
	bs := BuildBalanceSheet(10, activity)
	is := BuildIncomeStatement(10, activity)

	// Before closing entries, the position drift equals the period's result.
	drift := bs.TotalAssets - bs.TotalLiabilitiesAndEquity
	assert.InDelta(t, is.NetIncome, drift, testTolerance)
}

func TestEmptyActivity(t *testing.T) {
	tb := BuildTrialBalance(10, nil, testTolerance)
	assert.Empty(t, tb.Rows)
	assert.True(t, tb.Reconciled)

	bs := BuildBalanceSheet(10, nil)
	assert.Equal(t, 0.0, bs.TotalAssets)

	is := BuildIncomeStatement(10, nil)
	assert.Equal(t, 0.0, is.NetIncome)
}

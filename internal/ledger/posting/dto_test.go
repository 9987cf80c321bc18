package posting

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledger "github.com/balanza-erp/balanza/internal/ledger/shared"
)

const testTolerance = 0.01

func balancedInput() PostingInput {
	return PostingInput{
		VoucherTypeCode: "INGRESO",
		Description:     "Venta de contado",
		Date:            time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Lines: []PostingLine{
			{AccountID: 1, Debit: 1250000},
			{AccountID: 2, Credit: 1250000},
		},
	}
}

func TestValidateBalancedEntry(t *testing.T) {
	assert.NoError(t, balancedInput().Validate(testTolerance))
}

func TestValidateTooFewLines(t *testing.T) {
	in := balancedInput()
	in.Lines = in.Lines[:1]
	assert.ErrorIs(t, in.Validate(testTolerance), ledger.ErrTooFewLines)

	in.Lines = nil
	assert.ErrorIs(t, in.Validate(testTolerance), ledger.ErrTooFewLines)
}

func TestValidateNegativeAmount(t *testing.T) {
	in := balancedInput()
	in.Lines[0].Debit = -100
	assert.ErrorIs(t, in.Validate(testTolerance), ledger.ErrNegativeAmount)
}

func TestValidateMixedDebitCredit(t *testing.T) {
	in := balancedInput()
	in.Lines[0].Credit = 50
	assert.ErrorIs(t, in.Validate(testTolerance), ledger.ErrMixedDebitCredit)

	// A line carrying neither side is equally invalid.
	in = balancedInput()
	in.Lines[0].Debit = 0
	assert.ErrorIs(t, in.Validate(testTolerance), ledger.ErrMixedDebitCredit)
}

func TestValidateUnbalanced(t *testing.T) {
	in := balancedInput()
	in.Lines[1].Credit = 1250000.02
	assert.ErrorIs(t, in.Validate(testTolerance), ledger.ErrUnbalanced)
}

func TestValidateWithinTolerance(t *testing.T) {
	in := balancedInput()
	in.Lines[1].Credit = 1250000.01
	assert.NoError(t, in.Validate(testTolerance))
}

func TestValidateRejectsRandomImbalances(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		debit := float64(rng.Intn(1_000_000) + 1)
		offset := float64(rng.Intn(10_000) + 1)
		in := PostingInput{
			Lines: []PostingLine{
				{AccountID: 1, Debit: debit},
				{AccountID: 2, Credit: debit + offset},
			},
		}
		require.ErrorIs(t, in.Validate(testTolerance), ledger.ErrUnbalanced,
			"debit=%v credit=%v", debit, debit+offset)
	}
}

func TestTotals(t *testing.T) {
	in := PostingInput{
		Lines: []PostingLine{
			{AccountID: 1, Debit: 300000},
			{AccountID: 2, Debit: 200000},
			{AccountID: 3, Credit: 500000},
		},
	}
	assert.Equal(t, 500000.0, in.TotalDebit())
	assert.Equal(t, 500000.0, in.TotalCredit())
	assert.NoError(t, in.Validate(testTolerance))
}

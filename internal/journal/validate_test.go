package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/zenledger/internal/model"
)

func TestValidate_Balanced(t *testing.T) {
	errs := Validate([]model.Transaction{
		expenseTxn(date(2025, 12, 14), 3, "125.50"),
		exchangeTxn(),
	})
	assert.Empty(t, errs)
}

func TestValidate_Commission(t *testing.T) {
	txn := model.Transaction{
		Date: date(2025, 12, 3),
		Meta: model.Meta{Line: 11},
		Postings: []model.Posting{
			{Account: "Assets:Bank:MainBank:PLN", Units: amt("-200.00", "PLN")},
			{Account: "Assets:Bank:DigitalWallet:PLN", Units: amt("195.00", "PLN")},
			{Account: "Expenses:Financial:Commissions", Units: amt("5.00", "PLN")},
		},
	}
	assert.Empty(t, Validate([]model.Transaction{txn}))
}

func TestValidate_Unbalanced(t *testing.T) {
	txn := expenseTxn(date(2025, 12, 14), 3, "125.50")
	txn.Postings[1].Units = amt("125.00", "PLN")

	errs := Validate([]model.Transaction{txn})
	require.Len(t, errs, 1)
	assert.Equal(t, RuleBalance, errs[0].Rule)
	assert.Equal(t, 3, errs[0].Line)
	assert.Contains(t, errs[0].Error(), "-0.5")
}

func TestValidate_PriceResidualWithinTolerance(t *testing.T) {
	// 100 PLN for 3 EUR: the rate does not terminate.
	rate := dec("100").Div(dec("3"))
	price := model.NewAmount(rate, "PLN")
	txn := model.Transaction{
		Date: date(2025, 12, 1),
		Postings: []model.Posting{
			{Account: "Assets:PLN", Units: amt("-100", "PLN")},
			{Account: "Assets:EUR", Units: amt("3", "EUR"), Price: &price},
		},
	}
	assert.Empty(t, Validate([]model.Transaction{txn}))
}

func TestValidate_CurrencyMismatchWithoutPrice(t *testing.T) {
	txn := exchangeTxn()
	txn.Postings[1].Price = nil

	errs := Validate([]model.Transaction{txn})
	require.Len(t, errs, 2)
	assert.Equal(t, RuleBalance, errs[0].Rule)
	assert.Contains(t, errs[0].Description, "EUR")
	assert.Contains(t, errs[1].Description, "PLN")
}

func TestValidate_BadAccountRoot(t *testing.T) {
	txn := expenseTxn(date(2025, 12, 14), 3, "1")
	txn.Postings[0].Account = "Bank:MainBank"

	errs := Validate([]model.Transaction{txn})
	require.Len(t, errs, 1)
	assert.Equal(t, RuleAccount, errs[0].Rule)
}

func TestValidate_TooFewPostings(t *testing.T) {
	txn := expenseTxn(date(2025, 12, 14), 3, "1")
	txn.Postings = txn.Postings[:1]

	errs := Validate([]model.Transaction{txn})
	rules := make([]string, len(errs))
	for i, e := range errs {
		rules[i] = e.Rule
	}
	assert.Contains(t, rules, RulePostings)
	assert.Contains(t, rules, RuleBalance)
}

func TestValidate_MissingCurrency(t *testing.T) {
	txn := expenseTxn(date(2025, 12, 14), 3, "1")
	txn.Postings[0].Units.Currency = ""
	txn.Postings[1].Units.Currency = ""

	errs := Validate([]model.Transaction{txn})
	require.Len(t, errs, 2)
	assert.Equal(t, RuleCurrency, errs[0].Rule)
}

package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var testAccounts = AccountMap{
	"MainBank - PLN":      "Assets:Bank:MainBank:PLN",
	"DigitalWallet - PLN": "Assets:Bank:DigitalWallet:PLN",
}

func TestAccountMap_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		fallback string
		want     string
	}{
		{"MainBank - PLN", "", "Assets:Bank:MainBank:PLN"},
		{"MainBank - PLN", "Assets:Unknown", "Assets:Bank:MainBank:PLN"},
		{"UnknownBank - USD", "Assets:Unknown", "Assets:Unknown"},
		{"UnknownBank - USD", "", "Assets:UnknownBank:USD"},
		{"Cash Wallet", "", "Assets:CashWallet"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, testAccounts.Resolve(tt.name, tt.fallback), "Resolve(%q, %q)", tt.name, tt.fallback)
	}
}

func TestCategoryMap_Resolve(t *testing.T) {
	m := CategoryMap{
		"Salary":       SingleAccount("Income:Salary"),
		"Groceries":    SingleAccount("Expenses:Food:Groceries"),
		"DualCategory": DirectionalPair("Income:Dual", "Expenses:Dual"),
		"IncomeOnly":   DirectionalPair("Income:Only", ""),
	}

	assert.Equal(t, "Income:Salary", m.Resolve("Salary", Income, "Income:Unknown"))
	assert.Equal(t, "Income:Salary", m.Resolve("Salary", Expense, "Expenses:Unknown"))
	assert.Equal(t, "Expenses:Food:Groceries", m.Resolve("Groceries", Income, "Income:Unknown"))

	assert.Equal(t, "Expenses:Dual", m.Resolve("DualCategory", Expense, "Expenses:Unknown"))
	assert.Equal(t, "Income:Dual", m.Resolve("DualCategory", Income, "Income:Unknown"))

	assert.Equal(t, "Expenses:Unknown", m.Resolve("IncomeOnly", Expense, "Expenses:Unknown"))
	assert.Equal(t, "Income:Only", m.Resolve("IncomeOnly", Income, "Income:Unknown"))

	assert.Equal(t, "Expenses:Unknown", m.Resolve("Missing", Expense, "Expenses:Unknown"))
	assert.Equal(t, "Income:Unknown", m.Resolve("", Income, "Income:Unknown"))
}

func TestCategoryTarget_YAML(t *testing.T) {
	src := `
Salary: Income:Salary
DualCategory:
  income: Income:Dual
  expense: Expenses:Dual
`
	var m CategoryMap
	require.NoError(t, yaml.Unmarshal([]byte(src), &m))
	require.Len(t, m, 2)

	assert.False(t, m["Salary"].IsPair())
	assert.Equal(t, "Income:Salary", m["Salary"].Resolve(Expense, "x"))

	assert.True(t, m["DualCategory"].IsPair())
	assert.Equal(t, "Income:Dual", m["DualCategory"].Resolve(Income, "x"))
	assert.Equal(t, "Expenses:Dual", m["DualCategory"].Resolve(Expense, "x"))

	out, err := yaml.Marshal(m)
	require.NoError(t, err)

	var back CategoryMap
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, m, back)
}

func TestCategoryTarget_YAMLRejectsSequence(t *testing.T) {
	var m CategoryMap
	err := yaml.Unmarshal([]byte("Bad:\n  - Expenses:A\n"), &m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category target")
}

func TestCategoryTarget_Accounts(t *testing.T) {
	assert.Equal(t, []string{"Expenses:A"}, SingleAccount("Expenses:A").Accounts())
	assert.Equal(t, []string{"Income:B", "Expenses:B"}, DirectionalPair("Income:B", "Expenses:B").Accounts())
	assert.Nil(t, DirectionalPair("", "").Accounts())
}

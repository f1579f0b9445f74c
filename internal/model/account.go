package model

import (
	"strings"
	"time"
)

// AccountType is the root component of a ledger account name.
type AccountType string

const (
	AccountTypeAssets      AccountType = "Assets"
	AccountTypeLiabilities AccountType = "Liabilities"
	AccountTypeEquity      AccountType = "Equity"
	AccountTypeIncome      AccountType = "Income"
	AccountTypeExpenses    AccountType = "Expenses"
)

// AccountSeparator joins the components of an account name.
const AccountSeparator = ":"

// Account is a ledger account touched by imported transactions.
type Account struct {
	Name       string
	Type       AccountType
	Opened     time.Time // date of first use
	Currencies []string  // sorted, deduplicated
}

// TypeOf returns the account type for name, or "" if the root is not one of
// the five ledger roots.
func TypeOf(name string) AccountType {
	root, _, _ := strings.Cut(name, AccountSeparator)
	switch t := AccountType(root); t {
	case AccountTypeAssets, AccountTypeLiabilities, AccountTypeEquity, AccountTypeIncome, AccountTypeExpenses:
		return t
	}
	return ""
}

// JoinAccount builds an account name from its components.
// JoinAccount("Assets", "Bank", "PLN") -> "Assets:Bank:PLN"
func JoinAccount(parts ...string) string {
	return strings.Join(parts, AccountSeparator)
}

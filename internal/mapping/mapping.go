// Package mapping resolves ZenMoney account and category names to ledger
// accounts.
package mapping

import (
	"strings"

	"github.com/cleared-dev/zenledger/internal/model"
)

// Direction selects the side of a DirectionalPair.
type Direction int

const (
	Expense Direction = iota
	Income
)

func (d Direction) String() string {
	if d == Income {
		return "income"
	}
	return "expense"
}

// AccountMap maps ZenMoney account names to ledger accounts.
type AccountMap map[string]string

// Resolve returns the ledger account for a ZenMoney account name. Unmapped
// names resolve to fallback when it is set, otherwise to an Assets account
// synthesized from the name: "MainBank - PLN" -> "Assets:MainBank:PLN".
func (m AccountMap) Resolve(name, fallback string) string {
	if acct, ok := m[name]; ok {
		return acct
	}
	if fallback != "" {
		return fallback
	}
	return Synthesize(name)
}

// Synthesize builds an Assets account from a ZenMoney account name by
// dropping spaces and turning "-" into the account separator.
func Synthesize(name string) string {
	safe := strings.ReplaceAll(name, " ", "")
	safe = strings.ReplaceAll(safe, "-", model.AccountSeparator)
	return model.JoinAccount(string(model.AccountTypeAssets), safe)
}

// CategoryMap maps ZenMoney category names to ledger accounts.
type CategoryMap map[string]CategoryTarget

// Resolve returns the account for category in direction d, or fallback when
// the category is unmapped or its pair has no account for d.
func (m CategoryMap) Resolve(category string, d Direction, fallback string) string {
	target, ok := m[category]
	if !ok {
		return fallback
	}
	return target.Resolve(d, fallback)
}

package journal

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/zenledger/internal/model"
)

// Tolerance is the largest residual accepted when a transaction is checked
// for balance.
var Tolerance = decimal.New(5, -3)

// Rules checked by Validate.
const (
	RuleBalance  = "balance"
	RulePostings = "postings"
	RuleAccount  = "account"
	RuleCurrency = "currency"
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule        string
	Line        int
	Date        string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s line %d]: %s", e.Rule, e.Date, e.Line, e.Description)
}

// Validate checks every transaction: at least two postings, accounts under
// one of the five roots, currencies present, and weights summing to zero
// per currency within Tolerance.
func Validate(txns []model.Transaction) []ValidationError {
	var errs []ValidationError
	for _, txn := range txns {
		errs = append(errs, validateTransaction(txn)...)
	}
	return errs
}

func validateTransaction(txn model.Transaction) []ValidationError {
	var errs []ValidationError
	fail := func(rule, format string, args ...any) {
		errs = append(errs, ValidationError{
			Rule:        rule,
			Line:        txn.Meta.Line,
			Date:        txn.Date.Format(dateFormat),
			Description: fmt.Sprintf(format, args...),
		})
	}

	if len(txn.Postings) < 2 {
		fail(RulePostings, "%d posting(s), need at least 2", len(txn.Postings))
	}

	sums := make(map[string]decimal.Decimal)
	for _, p := range txn.Postings {
		if model.TypeOf(p.Account) == "" {
			fail(RuleAccount, "account %q is not under Assets, Liabilities, Equity, Income or Expenses", p.Account)
		}
		if p.Units.Currency == "" || (p.Price != nil && p.Price.Currency == "") {
			fail(RuleCurrency, "posting to %s has no currency", p.Account)
			continue
		}
		w := p.Weight()
		sums[w.Currency] = sums[w.Currency].Add(w.Number)
	}

	currencies := make([]string, 0, len(sums))
	for c := range sums {
		currencies = append(currencies, c)
	}
	slices.Sort(currencies)
	for _, c := range currencies {
		if sums[c].Abs().GreaterThan(Tolerance) {
			fail(RuleBalance, "%s does not balance: residual %s", c, sums[c].String())
		}
	}
	return errs
}

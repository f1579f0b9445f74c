package importer

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/zenledger/internal/mapping"
	"github.com/cleared-dev/zenledger/internal/model"
)

// side is the outcome or income half of a ZenMoney row.
type side struct {
	name     string // ZenMoney account name
	amount   decimal.Decimal
	currency string
}

func (s side) units() model.Amount {
	return model.NewAmount(s.amount, s.currency)
}

// shape classifies a row by which amounts are positive and whether the
// currencies match.
type shape int

const (
	shapeNone shape = iota
	shapeExpense
	shapeIncome
	shapeTransfer
	shapeExchange
)

func (s shape) String() string {
	switch s {
	case shapeExpense:
		return "expense"
	case shapeIncome:
		return "income"
	case shapeTransfer:
		return "transfer"
	case shapeExchange:
		return "exchange"
	default:
		return "none"
	}
}

func classify(out, in side) shape {
	hasOut, hasIn := out.amount.IsPositive(), in.amount.IsPositive()
	switch {
	case hasOut && hasIn:
		if out.currency != in.currency {
			return shapeExchange
		}
		return shapeTransfer
	case hasOut:
		return shapeExpense
	case hasIn:
		return shapeIncome
	}
	return shapeNone
}

// buildPostings returns the balanced postings for a row, or nil when
// neither amount is positive.
func (z *ZenMoney) buildPostings(out, in side, category string) []model.Posting {
	switch classify(out, in) {
	case shapeExchange:
		// Price is outcome currency per one unit of income currency.
		price := model.NewAmount(rate(out.amount, in.amount), out.currency)
		return []model.Posting{
			{Account: z.account(out.name), Units: out.units().Neg()},
			{Account: z.account(in.name), Units: in.units(), Price: &price},
		}

	case shapeTransfer:
		postings := []model.Posting{
			{Account: z.account(out.name), Units: out.units().Neg()},
			{Account: z.account(in.name), Units: in.units()},
		}
		if !out.amount.Equal(in.amount) {
			postings = append(postings, model.Posting{
				Account: z.opts.CommissionAccount,
				Units:   model.NewAmount(out.amount.Sub(in.amount), out.currency),
			})
		}
		return postings

	case shapeExpense:
		return []model.Posting{
			{Account: z.account(out.name), Units: out.units().Neg()},
			{Account: z.category(category, mapping.Expense), Units: out.units()},
		}

	case shapeIncome:
		return []model.Posting{
			{Account: z.account(in.name), Units: in.units()},
			{Account: z.category(category, mapping.Income), Units: in.units().Neg()},
		}
	}
	return nil
}

// rateDigits is the number of significant digits kept in an exchange rate.
const rateDigits = 28

// rate returns out/in rounded to rateDigits significant digits.
func rate(out, in decimal.Decimal) decimal.Decimal {
	// Digits before the decimal point of each operand; negative for
	// values below 0.1.
	mag := int32(out.NumDigits()) + out.Exponent() - int32(in.NumDigits()) - in.Exponent()
	return out.DivRound(in, max(rateDigits-mag, 0))
}

func (z *ZenMoney) account(name string) string {
	acct := z.opts.Accounts.Resolve(name, z.opts.DefaultAccount)
	if _, ok := z.opts.Accounts[name]; !ok {
		z.log.Debug().Str("zenmoney_account", name).Str("account", acct).Msg("unmapped account")
	}
	return acct
}

func (z *ZenMoney) category(name string, d mapping.Direction) string {
	fallback := z.opts.DefaultExpense
	if d == mapping.Income {
		fallback = z.opts.DefaultIncome
	}
	acct := z.opts.Categories.Resolve(name, d, fallback)
	if _, ok := z.opts.Categories[name]; !ok {
		z.log.Debug().Str("category", name).Stringer("direction", d).Str("account", acct).Msg("category uses default account")
	}
	return acct
}

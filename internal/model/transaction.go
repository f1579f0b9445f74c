package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amount is a signed quantity of a single currency.
type Amount struct {
	Number   decimal.Decimal
	Currency string
}

// NewAmount returns an Amount of n units of currency.
func NewAmount(n decimal.Decimal, currency string) Amount {
	return Amount{Number: n, Currency: currency}
}

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount {
	return Amount{Number: a.Number.Neg(), Currency: a.Currency}
}

// Posting is one leg of a transaction.
type Posting struct {
	Account string
	Units   Amount
	Price   *Amount // per-unit price of Units, nil if none
}

// Weight returns the amount the posting contributes to the transaction
// balance: units, or units converted at the price when one is attached.
func (p Posting) Weight() Amount {
	if p.Price == nil {
		return p.Units
	}
	return Amount{Number: p.Units.Number.Mul(p.Price.Number), Currency: p.Price.Currency}
}

// Transaction is a balanced double-entry ledger transaction.
type Transaction struct {
	Date      time.Time
	Flag      Flag
	Payee     string // empty when the source has none
	Narration string
	Meta      Meta
	Postings  []Posting
}

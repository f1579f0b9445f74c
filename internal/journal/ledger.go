package journal

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/zenledger/internal/model"
)

const dateFormat = "2006-01-02"

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}

// FormatNumber renders n keeping its scale: 125.50 stays "125.50".
func FormatNumber(n decimal.Decimal) string {
	if exp := n.Exponent(); exp < 0 {
		return n.StringFixed(-exp)
	}
	return n.String()
}

// FormatAmount renders an amount as "<number> <currency>".
func FormatAmount(a model.Amount) string {
	return FormatNumber(a.Number) + " " + a.Currency
}

// Sort orders transactions by date, then by source file and line. The sort
// is stable so equal keys keep their input order.
func Sort(txns []model.Transaction) {
	slices.SortStableFunc(txns, func(a, b model.Transaction) int {
		return cmp.Or(
			a.Date.Compare(b.Date),
			cmp.Compare(a.Meta.Filename, b.Meta.Filename),
			cmp.Compare(a.Meta.Line, b.Meta.Line),
		)
	})
}

// Write renders transactions in beancount syntax, separated by blank lines.
// The source location is not rendered; other metadata is, in key order.
func Write(w io.Writer, txns []model.Transaction) error {
	bw := bufio.NewWriter(w)
	for i, txn := range txns {
		if i > 0 {
			bw.WriteString("\n")
		}
		writeTransaction(bw, txn)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing transactions: %w", err)
	}
	return nil
}

// FormatTransaction renders a single transaction.
func FormatTransaction(txn model.Transaction) string {
	var sb strings.Builder
	bw := bufio.NewWriter(&sb)
	writeTransaction(bw, txn)
	bw.Flush()
	return sb.String()
}

func writeTransaction(bw *bufio.Writer, txn model.Transaction) {
	bw.WriteString(txn.Date.Format(dateFormat))
	bw.WriteString(" ")
	bw.WriteString(string(txn.Flag))
	if txn.Payee != "" {
		bw.WriteString(" ")
		bw.WriteString(quote(txn.Payee))
	}
	bw.WriteString(" ")
	bw.WriteString(quote(txn.Narration))
	bw.WriteString("\n")

	for _, k := range txn.Meta.Keys() {
		fmt.Fprintf(bw, "  %s: %s\n", k, quote(txn.Meta.Fields[k]))
	}

	accountWidth, numberWidth := 0, 0
	for _, p := range txn.Postings {
		accountWidth = max(accountWidth, len(p.Account))
		numberWidth = max(numberWidth, len(FormatNumber(p.Units.Number)))
	}
	for _, p := range txn.Postings {
		fmt.Fprintf(bw, "  %-*s  %*s %s", accountWidth, p.Account, numberWidth, FormatNumber(p.Units.Number), p.Units.Currency)
		if p.Price != nil {
			fmt.Fprintf(bw, " @ %s %s", p.Price.Number.String(), p.Price.Currency)
		}
		bw.WriteString("\n")
	}
}

package accounts

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/cleared-dev/zenledger/internal/model"
)

const dateFormat = "2006-01-02"

// ValidateName checks that name is a ledger account: a known root followed
// by components that start with an upper-case letter or digit and contain
// no whitespace.
func ValidateName(name string) error {
	if model.TypeOf(name) == "" {
		return fmt.Errorf("account %q: root must be one of Assets, Liabilities, Equity, Income, Expenses", name)
	}
	for _, part := range strings.Split(name, model.AccountSeparator)[1:] {
		if part == "" {
			return fmt.Errorf("account %q: empty component", name)
		}
		first := []rune(part)[0]
		if !unicode.IsUpper(first) && !unicode.IsDigit(first) {
			return fmt.Errorf("account %q: component %q must start with an upper-case letter or digit", name, part)
		}
		if strings.IndexFunc(part, unicode.IsSpace) >= 0 {
			return fmt.Errorf("account %q: component %q contains whitespace", name, part)
		}
	}
	return nil
}

// Collect returns the accounts used by txns, each with the date of its first
// posting and the currencies posted to it, sorted by name.
func Collect(txns []model.Transaction) []model.Account {
	byName := make(map[string]*model.Account)
	for _, txn := range txns {
		for _, p := range txn.Postings {
			acct, ok := byName[p.Account]
			if !ok {
				acct = &model.Account{Name: p.Account, Type: model.TypeOf(p.Account), Opened: txn.Date}
				byName[p.Account] = acct
			}
			if txn.Date.Before(acct.Opened) {
				acct.Opened = txn.Date
			}
			acct.Currencies = addCurrency(acct.Currencies, p.Units.Currency)
		}
	}

	out := make([]model.Account, 0, len(byName))
	for _, acct := range byName {
		out = append(out, *acct)
	}
	slices.SortFunc(out, func(a, b model.Account) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func addCurrency(list []string, c string) []string {
	if c == "" {
		return list
	}
	i, found := slices.BinarySearch(list, c)
	if found {
		return list
	}
	return slices.Insert(list, i, c)
}

// WriteOpen renders one open directive per account:
// "2025-11-29 open Assets:Bank:MainBank:PLN PLN".
func WriteOpen(w io.Writer, accts []model.Account) error {
	bw := bufio.NewWriter(w)
	for _, a := range accts {
		line := a.Opened.Format(dateFormat) + " open " + a.Name
		if len(a.Currencies) > 0 {
			line += " " + strings.Join(a.Currencies, ",")
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("writing open directive for %s: %w", a.Name, err)
		}
	}
	return bw.Flush()
}

// ReadOpen parses open directives written by WriteOpen. Blank lines and
// lines starting with ';' are ignored.
func ReadOpen(r io.Reader) ([]model.Account, error) {
	var accts []model.Account
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 || len(fields) > 4 || fields[1] != "open" {
			return nil, fmt.Errorf("line %d: expected \"<date> open <account> [currencies]\"", lineNo)
		}
		opened, err := time.Parse(dateFormat, fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing date %q: %w", lineNo, fields[0], err)
		}
		acct := model.Account{Name: fields[2], Type: model.TypeOf(fields[2]), Opened: opened}
		if len(fields) == 4 {
			for _, c := range strings.Split(fields[3], ",") {
				acct.Currencies = addCurrency(acct.Currencies, c)
			}
		}
		accts = append(accts, acct)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading open directives: %w", err)
	}
	return accts, nil
}

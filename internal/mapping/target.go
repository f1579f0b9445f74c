package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type targetKind int

const (
	kindSingle targetKind = iota + 1
	kindPair
)

// CategoryTarget is either a single account used in both directions or a
// pair of accounts chosen by direction.
type CategoryTarget struct {
	kind    targetKind
	account string
	income  string
	expense string
}

// SingleAccount returns a target that resolves to acct in both directions.
func SingleAccount(acct string) CategoryTarget {
	return CategoryTarget{kind: kindSingle, account: acct}
}

// DirectionalPair returns a target that resolves to income for income rows
// and expense for expense rows. Either side may be empty.
func DirectionalPair(income, expense string) CategoryTarget {
	return CategoryTarget{kind: kindPair, income: income, expense: expense}
}

// IsPair reports whether t was built with DirectionalPair.
func (t CategoryTarget) IsPair() bool { return t.kind == kindPair }

// Resolve returns the account for direction d, or fallback when t has none.
func (t CategoryTarget) Resolve(d Direction, fallback string) string {
	var acct string
	switch t.kind {
	case kindSingle:
		acct = t.account
	case kindPair:
		if d == Income {
			acct = t.income
		} else {
			acct = t.expense
		}
	}
	if acct == "" {
		return fallback
	}
	return acct
}

// Accounts returns the non-empty accounts referenced by t.
func (t CategoryTarget) Accounts() []string {
	var out []string
	for _, a := range []string{t.account, t.income, t.expense} {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

type pairYAML struct {
	Income  string `yaml:"income,omitempty"`
	Expense string `yaml:"expense,omitempty"`
}

// UnmarshalYAML decodes a scalar as SingleAccount and a mapping with
// income/expense keys as DirectionalPair.
func (t *CategoryTarget) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var acct string
		if err := node.Decode(&acct); err != nil {
			return err
		}
		*t = SingleAccount(acct)
		return nil
	case yaml.MappingNode:
		var p pairYAML
		if err := node.Decode(&p); err != nil {
			return err
		}
		*t = DirectionalPair(p.Income, p.Expense)
		return nil
	default:
		return fmt.Errorf("line %d: category target must be an account or an income/expense mapping", node.Line)
	}
}

// MarshalYAML encodes t in the form UnmarshalYAML accepts.
func (t CategoryTarget) MarshalYAML() (any, error) {
	if t.kind == kindPair {
		return pairYAML{Income: t.income, Expense: t.expense}, nil
	}
	return t.account, nil
}

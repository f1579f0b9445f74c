package accounts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cleared-dev/zenledger/internal/model"
)

// FileName is the ledger file holding open directives.
const FileName = "accounts.beancount"

// Service keeps the set of opened accounts for a ledger directory.
type Service struct {
	accounts []model.Account
	byName   map[string]int
}

// NewService creates a Service from a slice of accounts.
func NewService(accts []model.Account) *Service {
	s := &Service{byName: make(map[string]int, len(accts))}
	s.Merge(accts)
	return s
}

// Load reads <ledgerDir>/accounts.beancount. A missing file yields an empty
// Service.
func Load(ledgerDir string) (*Service, error) {
	f, err := os.Open(filepath.Join(ledgerDir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return NewService(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadOpen(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts sorted by name.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by name.
func (s *Service) Get(name string) (model.Account, bool) {
	i, ok := s.byName[name]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// Exists reports whether an account has been opened.
func (s *Service) Exists(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(t model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == t {
			result = append(result, a)
		}
	}
	return result
}

// Merge adds accts. Known accounts keep the earlier open date and gain any
// new currencies. Returns the names that were not known before.
func (s *Service) Merge(accts []model.Account) []string {
	var added []string
	for _, a := range accts {
		i, ok := s.byName[a.Name]
		if !ok {
			a.Currencies = slices.Clone(a.Currencies)
			s.accounts = append(s.accounts, a)
			added = append(added, a.Name)
			s.reindex()
			continue
		}
		cur := &s.accounts[i]
		if a.Opened.Before(cur.Opened) {
			cur.Opened = a.Opened
		}
		for _, c := range a.Currencies {
			cur.Currencies = addCurrency(cur.Currencies, c)
		}
	}
	return added
}

func (s *Service) reindex() {
	slices.SortFunc(s.accounts, func(a, b model.Account) int { return strings.Compare(a.Name, b.Name) })
	for i, a := range s.accounts {
		s.byName[a.Name] = i
	}
}

// Save writes the open directives to <ledgerDir>/accounts.beancount.
func (s *Service) Save(ledgerDir string) error {
	if err := os.MkdirAll(ledgerDir, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	f, err := os.Create(filepath.Join(ledgerDir, FileName))
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteOpen(f, s.accounts); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}

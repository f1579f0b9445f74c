package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cleared-dev/zenledger/internal/model"
)

// Extension of ledger files written by the Service.
const Extension = ".beancount"

// Service appends transactions to a ledger directory split by month:
// <root>/<YYYY>/<MM>.beancount.
type Service struct {
	root string
}

// NewService creates a journal Service rooted at dir.
func NewService(root string) *Service {
	return &Service{root: root}
}

// Append validates txns and appends them, sorted, to their month files.
// Nothing is written when validation fails. Returns the files written.
func (s *Service) Append(txns []model.Transaction) ([]string, error) {
	if verrs := Validate(txns); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return nil, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	sorted := slices.Clone(txns)
	Sort(sorted)

	byMonth := make(map[string][]model.Transaction)
	var paths []string
	for _, txn := range sorted {
		path := s.MonthPath(txn.Date)
		if _, seen := byMonth[path]; !seen {
			paths = append(paths, path)
		}
		byMonth[path] = append(byMonth[path], txn)
	}

	for _, path := range paths {
		if err := appendFile(path, byMonth[path]); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// MonthPath returns the ledger file holding transactions dated d.
func (s *Service) MonthPath(d time.Time) string {
	return filepath.Join(s.root, fmt.Sprintf("%04d", d.Year()), fmt.Sprintf("%02d", int(d.Month()))+Extension)
}

// Months returns the month files present under the root, sorted.
func (s *Service) Months() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, "[0-9][0-9][0-9][0-9]", "[0-9][0-9]"+Extension))
	if err != nil {
		return nil, fmt.Errorf("listing ledger files: %w", err)
	}
	slices.Sort(matches)
	return matches, nil
}

func appendFile(path string, txns []model.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		isNew = true
	} else if err != nil {
		return fmt.Errorf("stat journal %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if !isNew && info.Size() > 0 {
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("writing journal %s: %w", path, err)
		}
	}
	if err := Write(f, txns); err != nil {
		return fmt.Errorf("writing journal %s: %w", path, err)
	}
	return f.Close()
}

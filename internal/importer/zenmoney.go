package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/zenledger/internal/mapping"
	"github.com/cleared-dev/zenledger/internal/model"
)

// ZenMoney CSV columns.
const (
	colDate            = "date"
	colCategory        = "categoryName"
	colPayee           = "payee"
	colComment         = "comment"
	colOutcomeAccount  = "outcomeAccountName"
	colOutcome         = "outcome"
	colOutcomeCurrency = "outcomeCurrencyShortTitle"
	colIncomeAccount   = "incomeAccountName"
	colIncome          = "income"
	colIncomeCurrency  = "incomeCurrencyShortTitle"
	colCreated         = "createdDate"
	colChanged         = "changedDate"
)

// requiredHeaders must all be present in a ZenMoney export header.
var requiredHeaders = []string{
	colDate, colCategory, colPayee, colComment,
	colOutcomeAccount, colOutcome, colOutcomeCurrency,
	colIncomeAccount, colIncome, colIncomeCurrency,
	colCreated, colChanged,
}

const (
	zenmoneyName      = "zenmoney"
	zenmoneyExt       = ".csv"
	zenmoneyDelimiter = ';'
	dateFormat        = "2006-01-02"
)

// Defaults for Options fields left empty.
const (
	DefaultBaseAccount       = "Assets:ZenMoney"
	DefaultExpenseAccount    = "Expenses:Unknown"
	DefaultIncomeAccount     = "Income:Unknown"
	DefaultCommissionAccount = "Expenses:Financial:Commissions"
)

// Row defects. A row failing with one of these is skipped.
var (
	ErrMissingDate    = errors.New("missing date")
	ErrBadDate        = errors.New("invalid date")
	ErrBadAmount      = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("negative amount")
	ErrNoPostings     = errors.New("neither outcome nor income is positive")
)

// SkipError describes a row that produced no transaction.
type SkipError struct {
	Line  int
	Date  string
	Payee string
	Err   error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("line %d (date=%q, payee=%q): %v", e.Line, e.Date, e.Payee, e.Err)
}

func (e *SkipError) Unwrap() error { return e.Err }

// Options configures a ZenMoney importer. Empty account fields take the
// Default* values; DefaultAccount stays empty unless set.
type Options struct {
	Accounts          mapping.AccountMap
	Categories        mapping.CategoryMap
	BaseAccount       string
	DefaultExpense    string
	DefaultIncome     string
	DefaultAccount    string // used for every unmapped ZenMoney account when set
	CommissionAccount string
	Flag              model.Flag
	Logger            *zerolog.Logger
}

// ZenMoney imports ZenMoney CSV exports.
type ZenMoney struct {
	opts Options
	log  zerolog.Logger
}

// NewZenMoney creates a ZenMoney importer.
func NewZenMoney(opts Options) *ZenMoney {
	if opts.BaseAccount == "" {
		opts.BaseAccount = DefaultBaseAccount
	}
	if opts.DefaultExpense == "" {
		opts.DefaultExpense = DefaultExpenseAccount
	}
	if opts.DefaultIncome == "" {
		opts.DefaultIncome = DefaultIncomeAccount
	}
	if opts.CommissionAccount == "" {
		opts.CommissionAccount = DefaultCommissionAccount
	}
	if opts.Flag == "" {
		opts.Flag = model.FlagCleared
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &ZenMoney{opts: opts, log: log.With().Str("importer", zenmoneyName).Logger()}
}

// Name returns the importer name.
func (z *ZenMoney) Name() string { return zenmoneyName }

// Account returns the base account configured for the importer.
func (z *ZenMoney) Account(string) string { return z.opts.BaseAccount }

// Identify reports whether path is a .csv file whose first line holds every
// ZenMoney column. It never fails: unreadable files are not ZenMoney files.
func (z *ZenMoney) Identify(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), zenmoneyExt) {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	if !utf8.ValidString(line) {
		return false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, utf8BOM))
	if line == "" {
		return false
	}

	present := make(map[string]bool)
	for _, h := range strings.Split(line, string(zenmoneyDelimiter)) {
		present[h] = true
	}
	for _, h := range requiredHeaders {
		if !present[h] {
			return false
		}
	}
	return true
}

// Extract parses every row of path. Defective rows are logged, collected in
// Extraction.Skipped and do not stop the run. An error is returned only when
// the file cannot be read; rows parsed before that are kept in the result.
func (z *ZenMoney) Extract(path string) (*Extraction, error) {
	rr, err := openRecords(path, zenmoneyDelimiter)
	if err != nil {
		return &Extraction{}, err
	}
	defer rr.Close()

	log := z.log.With().Str("file", path).Logger()
	res := &Extraction{}
	for {
		rec, line, err := rr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			skip := &SkipError{Line: perr.StartLine, Err: perr.Err}
			z.reportSkip(log, skip)
			res.Skipped = append(res.Skipped, skip)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("reading %s: %w", path, err)
		}

		txn, err := z.parseRow(rec, path, line)
		if err != nil {
			var skip *SkipError
			if !errors.As(err, &skip) {
				return res, err
			}
			z.reportSkip(log, skip)
			res.Skipped = append(res.Skipped, skip)
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}

	log.Info().
		Int("transactions", len(res.Transactions)).
		Int("skipped", len(res.Skipped)).
		Msg("extracted")
	return res, nil
}

func (z *ZenMoney) reportSkip(log zerolog.Logger, skip *SkipError) {
	log.Warn().
		Int("line", skip.Line).
		Str("date", skip.Date).
		Str("payee", skip.Payee).
		Err(skip.Err).
		Msg("skipped row")
}

// parseRow converts one record into a transaction, or returns a *SkipError.
func (z *ZenMoney) parseRow(rec record, filename string, line int) (model.Transaction, error) {
	dateStr := rec.get(colDate)
	payee := rec.get(colPayee)
	skip := func(err error) (model.Transaction, error) {
		return model.Transaction{}, &SkipError{Line: line, Date: dateStr, Payee: payee, Err: err}
	}

	if dateStr == "" {
		return skip(ErrMissingDate)
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return skip(err)
	}

	outcome, err := parseAmount(rec.get(colOutcome))
	if err != nil {
		return skip(err)
	}
	income, err := parseAmount(rec.get(colIncome))
	if err != nil {
		return skip(err)
	}

	category := rec.get(colCategory)
	postings := z.buildPostings(
		side{name: rec.get(colOutcomeAccount), amount: outcome, currency: rec.get(colOutcomeCurrency)},
		side{name: rec.get(colIncomeAccount), amount: income, currency: rec.get(colIncomeCurrency)},
		category,
	)
	if len(postings) == 0 {
		return skip(ErrNoPostings)
	}

	meta := model.Meta{Filename: filename, Line: line}
	meta.Set(model.MetaCreated, rec.get(colCreated))
	meta.Set(model.MetaChanged, rec.get(colChanged))
	meta.Set(model.MetaCategory, category)

	return model.Transaction{
		Date:      date,
		Flag:      z.opts.Flag,
		Payee:     payee,
		Narration: rec.get(colComment),
		Meta:      meta,
		Postings:  postings,
	}, nil
}

// parseDate accepts only YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrBadDate, s)
	}
	return d, nil
}

// parseAmount reads a non-negative amount with "," or "." as decimal
// separator. Empty means zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", ErrBadAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w %q", ErrNegativeAmount, s)
	}
	return d, nil
}

package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cleared-dev/zenledger/internal/model"
)

// Importer converts one kind of export file into ledger transactions.
type Importer interface {
	// Name identifies the importer in logs and the registry.
	Name() string
	// Identify reports whether the file is one this importer understands.
	Identify(path string) bool
	// Extract parses the file into transactions.
	Extract(path string) (*Extraction, error)
	// Date returns the canonical date of the file, used for archiving.
	Date(path string) (time.Time, bool)
	// Filename returns the name the file is archived under.
	Filename(path string) (string, bool)
	// Account returns the account all money in the file flows through.
	Account(path string) string
}

// Extraction is the result of extracting one file.
type Extraction struct {
	Transactions []model.Transaction
	Skipped      []*SkipError
}

// Registry holds named importers in registration order.
type Registry struct {
	importers map[string]Importer
	order     []string
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty importer registry.
func NewRegistry() *Registry {
	return &Registry{importers: make(map[string]Importer)}
}

// Register adds an importer. Panics on duplicate name.
func (r *Registry) Register(imp Importer) {
	key := strings.ToLower(imp.Name())
	if _, ok := r.importers[key]; ok {
		panic("duplicate importer: " + key)
	}
	r.importers[key] = imp
	r.order = append(r.order, key)
}

// Get returns the importer registered under name, or nil.
func (r *Registry) Get(name string) Importer {
	return r.importers[strings.ToLower(name)]
}

// Identify returns the first registered importer that claims path, or nil.
func (r *Registry) Identify(path string) Importer {
	for _, key := range r.order {
		if imp := r.importers[key]; imp.Identify(path) {
			return imp
		}
	}
	return nil
}

// Scan returns the CSV files directly inside dir. A missing dir is not an
// error.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// ErrArchiveExists is returned when the archive destination is taken.
var ErrArchiveExists = errors.New("archive destination already exists")

// ArchivePath returns where Archive would move path:
// <documentsDir>/<account as dirs>/<YYYY-MM-DD>.<filename>. The date falls
// back to the file's modification time and the name to its base name.
func ArchivePath(imp Importer, path, documentsDir string) (string, error) {
	date, ok := imp.Date(path)
	if !ok {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		date = info.ModTime()
	}

	name, ok := imp.Filename(path)
	if !ok {
		name = filepath.Base(path)
	}

	parts := strings.Split(imp.Account(path), model.AccountSeparator)
	dir := filepath.Join(append([]string{documentsDir}, parts...)...)
	return filepath.Join(dir, date.Format(dateFormat)+"."+name), nil
}

// CheckArchive returns the archive destination of path, or an error wrapping
// ErrArchiveExists when that destination is already taken.
func CheckArchive(imp Importer, path, documentsDir string) (string, error) {
	dst, err := ArchivePath(imp, path, documentsDir)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dst); err == nil {
		return "", fmt.Errorf("archiving %s: %w: %s", filepath.Base(path), ErrArchiveExists, dst)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", dst, err)
	}
	return dst, nil
}

// Archive moves path into the documents tree and returns the new location.
// With dryRun set the destination is computed but nothing is moved.
func Archive(imp Importer, path, documentsDir string, dryRun bool) (string, error) {
	if dryRun {
		return ArchivePath(imp, path, documentsDir)
	}
	dst, err := CheckArchive(imp, path, documentsDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating archive dir: %w", err)
	}
	if err := os.Rename(path, dst); err != nil {
		return "", fmt.Errorf("moving %s to archive: %w", filepath.Base(path), err)
	}
	return dst, nil
}

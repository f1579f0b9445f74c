package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/zenledger/internal/accounts"
	"github.com/cleared-dev/zenledger/internal/gitops"
	"github.com/cleared-dev/zenledger/internal/importer"
	"github.com/cleared-dev/zenledger/internal/importlog"
	"github.com/cleared-dev/zenledger/internal/journal"
)

func newImportCommand(a *app) *cobra.Command {
	var noArchive bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import every recognized file in the import directory into the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.loadProject()
			if err != nil {
				return err
			}
			return a.runImport(cmd, p, !noArchive)
		},
	}

	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "leave imported files in the import directory")

	return cmd
}

func (a *app) runImport(cmd *cobra.Command, p *project, archive bool) error {
	runID := uuid.NewString()
	log := a.log.With().Str("run_id", runID).Logger()

	files, err := importer.Scan(p.path(p.cfg.Paths.Import))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fprintf(cmd, "Nothing to import\n")
		return nil
	}

	ledgerDir := p.path(p.cfg.Paths.Ledger)
	docsDir := p.path(p.cfg.Paths.Documents)
	ledger := journal.NewService(ledgerDir)
	accts, err := accounts.Load(ledgerDir)
	if err != nil {
		return err
	}

	imported, total := 0, 0
	for _, f := range files {
		imp := p.registry.Identify(f.Path)
		if imp == nil {
			log.Warn().Str("file", f.Name).Msg("no importer recognizes file")
			continue
		}

		// Refuse before writing anything: a taken destination means the
		// same date range was imported already.
		if archive {
			if _, err := importer.CheckArchive(imp, f.Path, docsDir); errors.Is(err, importer.ErrArchiveExists) {
				log.Warn().Str("file", f.Name).Err(err).Msg("already archived, skipping file")
				fprintf(cmd, "%s: already archived, skipped\n", f.Name)
				continue
			} else if err != nil {
				return err
			}
		}

		ext, err := imp.Extract(f.Path)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
		if _, err := ledger.Append(ext.Transactions); err != nil {
			return fmt.Errorf("appending %s: %w", f.Name, err)
		}

		if added := accts.Merge(accounts.Collect(ext.Transactions)); len(added) > 0 {
			log.Info().Strs("accounts", added).Msg("opened accounts")
		}
		if err := accts.Save(ledgerDir); err != nil {
			return err
		}

		entry := importlog.Entry{
			Timestamp:    time.Now().UTC(),
			RunID:        runID,
			Importer:     imp.Name(),
			File:         f.Name,
			Transactions: len(ext.Transactions),
			Skipped:      len(ext.Skipped),
		}
		if archive {
			dst, err := importer.Archive(imp, f.Path, docsDir, false)
			if err != nil {
				return err
			}
			entry.Archived = p.rel(dst)
		}
		if err := importlog.Append(p.root, []importlog.Entry{entry}); err != nil {
			return fmt.Errorf("writing import log: %w", err)
		}

		fprintf(cmd, "%s: %d transactions, %d skipped\n", f.Name, entry.Transactions, entry.Skipped)
		imported++
		total += entry.Transactions
	}

	if imported == 0 || !p.cfg.Git.AutoCommit || !gitops.IsRepo(p.root) {
		return nil
	}

	paths := p.commitPaths(ledgerDir, docsDir, filepath.Join(p.root, "logs"))
	if len(paths) == 0 {
		return nil
	}

	author := gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
	msg := fmt.Sprintf("import: %d files, %d transactions", imported, total)
	hash, err := gitops.Commit(p.root, msg, author, paths...)
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str("commit", hash).Msg("committed import")
	return nil
}

// rel returns path relative to the project root when it lies inside it.
func (p *project) rel(path string) string {
	r, err := filepath.Rel(p.root, path)
	if err != nil || strings.HasPrefix(r, "..") {
		return path
	}
	return filepath.ToSlash(r)
}

// commitPaths keeps the existing dirs that live inside the repository.
func (p *project) commitPaths(dirs ...string) []string {
	var out []string
	for _, d := range dirs {
		r := p.rel(d)
		if filepath.IsAbs(r) {
			continue
		}
		if _, err := os.Stat(d); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

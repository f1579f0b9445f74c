package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/zenledger/internal/accounts"
	"github.com/cleared-dev/zenledger/internal/config"
	"github.com/cleared-dev/zenledger/internal/gitops"
)

func newInitCommand(a *app) *cobra.Command {
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new zenledger project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			hash, err := runInit(absDir, !noGit)
			if err != nil {
				return err
			}
			a.log.Info().Str("dir", absDir).Str("commit", hash).Msg("initialized project")
			fprintf(cmd, "Initialized zenledger project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(dir string, withGit bool) (string, error) {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return "", fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default()

	// Create directory structure.
	for _, d := range []string{cfg.Paths.Import, cfg.Paths.Documents, cfg.Paths.Ledger, "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	// Empty accounts file, filled by import.
	if err := accounts.NewService(nil).Save(filepath.Join(dir, cfg.Paths.Ledger)); err != nil {
		return "", fmt.Errorf("writing accounts: %w", err)
	}

	// Raw exports stay out of history until archived.
	gitignore := cfg.Paths.Import + "/*\n!" + cfg.Paths.Import + "/.gitkeep\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cfg.Paths.Import, ".gitkeep"), []byte{}, 0o644); err != nil {
		return "", fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !withGit {
		return "", nil
	}

	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return "", err
		}
	}

	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.Commit(dir, "init: zenledger project", author)
	if err != nil && !errors.Is(err, gitops.ErrNothingToCommit) {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}

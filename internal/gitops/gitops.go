package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned by Commit when the staged tree is unchanged.
var ErrNothingToCommit = errors.New("nothing to commit")

// Author identifies who a commit is attributed to.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if out, err := git(dir, "init", "--quiet"); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Commit stages paths (everything when empty) and creates a commit.
// Returns the short commit hash.
func Commit(dir, message string, author Author, paths ...string) (string, error) {
	args := []string{"add", "-A"}
	if len(paths) > 0 {
		args = append(append(args, "--"), paths...)
	}
	if out, err := git(dir, args...); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// diff --cached --quiet exits 1 when something is staged.
	if _, err := git(dir, "diff", "--cached", "--quiet"); err == nil {
		return "", ErrNothingToCommit
	}

	commit := []string{
		"-c", "user.name=" + author.Name,
		"-c", "user.email=" + author.Email,
		"commit", "--quiet", "-m", message, "--author", author.String(),
	}
	if out, err := git(dir, commit...); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := git(dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func git(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Package gitops keeps an optional git history of a biweekly data directory.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repo is a git working tree whose commits carry a fixed author.
type Repo struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func (r Repo) command(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME="+r.AuthorName,
		"GIT_AUTHOR_EMAIL="+r.AuthorEmail,
		"GIT_COMMITTER_NAME="+r.AuthorName,
		"GIT_COMMITTER_EMAIL="+r.AuthorEmail,
	)
	return cmd
}

// Init initializes a new git repository in Dir.
func (r Repo) Init() error {
	if out, err := r.command("init", "--quiet").CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether Dir is the root of a git repository.
func (r Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

// Dirty reports whether the working tree has uncommitted changes.
func (r Repo) Dirty() (bool, error) {
	out, err := r.command("status", "--porcelain").Output()
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return len(strings.TrimSpace(string(out))) > 0, nil
}

// CommitAll stages all files and creates a commit. Returns the short commit
// hash, or "" if there was nothing to commit.
func (r Repo) CommitAll(message string) (string, error) {
	if out, err := r.command("add", "-A").CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	dirty, err := r.Dirty()
	if err != nil {
		return "", err
	}
	if !dirty {
		return "", nil
	}

	if out, err := r.command("commit", "--quiet", "-m", message).CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := r.command("rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Package checkout materializes package sources into checkout directories.
package checkout

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Cloner places a fresh copy of the repository at uri into target.
type Cloner interface {
	Clone(ctx context.Context, uri, target string) error
}

// GitCloner clones with the git CLI.
type GitCloner struct {
	Git   string // Git binary (default "git")
	Depth int    // History depth; 0 clones full history (default 1 via NewGitCloner)
}

// NewGitCloner returns a GitCloner making shallow clones with the given git
// binary. An empty binary means "git" from PATH.
func NewGitCloner(git string) *GitCloner {
	if git == "" {
		git = "git"
	}
	return &GitCloner{Git: git, Depth: 1}
}

// Clone removes any existing target and clones uri into it. On failure the
// partial checkout is removed and the error carries git's stderr.
func (c *GitCloner) Clone(ctx context.Context, uri, target string) error {
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("remove stale checkout %s: %w", target, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create checkout parent: %w", err)
	}

	git := c.Git
	if git == "" {
		git = "git"
	}
	args := []string{"clone", "--quiet"}
	if c.Depth > 0 {
		args = append(args, "--depth", fmt.Sprint(c.Depth))
	}
	args = append(args, "--", uri, target)

	cmd := exec.CommandContext(ctx, git, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.RemoveAll(target)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("git clone %s: %w: %s", uri, err, msg)
		}
		return fmt.Errorf("git clone %s: %w", uri, err)
	}
	return nil
}

var _ Cloner = (*GitCloner)(nil)

// Package git fetches notebook sources by cloning repositories with the
// system git binary.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	clog "github.com/lcastro/nbflow/pkg/log"
)

// Fetcher materializes a repository at a revision into a local directory.
type Fetcher interface {
	Clone(ctx context.Context, repoURL, revision, dir string) error
}

// CLI implements Fetcher using the git command.
type CLI struct{}

// New returns a new CLI instance.
func New() *CLI {
	return &CLI{}
}

// Clone performs a shallow clone of repoURL at revision into dir.
func (c *CLI) Clone(ctx context.Context, repoURL, revision, dir string) error {
	cmd := exec.CommandContext(ctx, "git", cloneArgs(repoURL, revision, dir)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git clone failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	clog.Debug("repository cloned", "url", repoURL, "revision", revision, "dir", dir)
	return nil
}

func cloneArgs(repoURL, revision, dir string) []string {
	args := []string{"clone", "--depth", "1"}
	if revision != "" {
		args = append(args, "--branch", revision)
	}
	return append(args, repoURL, dir)
}

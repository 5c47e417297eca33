package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spendlog-dev/spendlog/internal/expense"
	"github.com/spendlog-dev/spendlog/internal/id"
	"github.com/spendlog-dev/spendlog/internal/log"
)

// Repo is a git working tree holding a spendlog home directory.
type Repo struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Init initializes a new git repository at r.Dir.
func (r Repo) Init(ctx context.Context) error {
	if _, err := r.git(ctx, "init", "--quiet"); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// IsRepo reports whether r.Dir is the root of a git repository.
func (r Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

// Commit stages paths (everything when none are given) and creates a commit.
// Returns the short commit hash, or "" when there was nothing to commit.
func (r Repo) Commit(ctx context.Context, message string, paths ...string) (string, error) {
	add := []string{"add", "-A"}
	if len(paths) > 0 {
		add = append([]string{"add", "--"}, paths...)
	}
	if out, err := r.git(ctx, add...); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// Nothing staged means nothing to commit.
	if _, err := r.git(ctx, "diff", "--cached", "--quiet"); err == nil {
		return "", nil
	}

	author := fmt.Sprintf("%s <%s>", r.AuthorName, r.AuthorEmail)
	if out, err := r.git(ctx, "commit", "--quiet", "-m", message, "--author", author); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := r.git(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (r Repo) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	// Commits must succeed on machines without a global git identity.
	cmd.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+r.AuthorName,
		"GIT_COMMITTER_EMAIL="+r.AuthorEmail,
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// CommitMessage summarizes a batch of store changes in one line.
func CommitMessage(changes []expense.Change) string {
	if len(changes) == 1 {
		c := changes[0]
		return fmt.Sprintf("%s: %s %s", c.Action, id.Short(c.Entry.ID), c.Entry.Reason)
	}
	counts := map[expense.Action]int{}
	var order []expense.Action
	for _, c := range changes {
		if counts[c.Action] == 0 {
			order = append(order, c.Action)
		}
		counts[c.Action]++
	}
	parts := make([]string, len(order))
	for i, a := range order {
		parts[i] = fmt.Sprintf("%s %d", a, counts[a])
	}
	return strings.Join(parts, ", ")
}

// AutoCommitter returns a store observer that commits r.Dir after every
// persisted change. Failures are logged and otherwise ignored.
func AutoCommitter(r Repo, logger *log.Logger) expense.Observer {
	logger = logger.WithComponent(log.ComponentGit)
	return func(ctx context.Context, changes []expense.Change) {
		if !r.IsRepo() {
			logger.WarnContext(ctx, "auto commit skipped, not a git repository", "dir", r.Dir)
			return
		}
		hash, err := r.Commit(ctx, CommitMessage(changes))
		if err != nil {
			logger.ErrorContext(ctx, "auto commit failed", log.FieldOperation, log.OpCommit, log.FieldError, err)
			return
		}
		logger.DebugContext(ctx, "committed", "hash", hash, log.FieldCount, len(changes))
	}
}

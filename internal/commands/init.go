package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spendlog-dev/spendlog/internal/config"
	"github.com/spendlog-dev/spendlog/internal/gitops"
	"github.com/spendlog-dev/spendlog/internal/kvstore"
)

func newInitCommand(opts *globalOptions) *cobra.Command {
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a spendlog home directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.resolveHome()
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, opts.backend, useGit)
		},
	}

	cmd.Flags().BoolVar(&useGit, "git", false, "version the directory with git and commit every change")

	return cmd
}

func runInit(cmd *cobra.Command, dir, backend string, useGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	if backend != "" {
		cfg.Storage.Backend = backend
	}
	cfg.Git.AutoCommit = useGit
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create directory structure.
	for _, d := range []string{cfg.DataDir(dir), filepath.Join(dir, "logs")} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Seed an empty list so the slot exists from the start.
	if cfg.Storage.Backend != kvstore.BackendMemory {
		kv, err := kvstore.Open(cmd.Context(), kvstore.Options{Backend: cfg.Storage.Backend, Dir: cfg.DataDir(dir)})
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer kv.Close()
		if _, ok, err := kv.Get(cmd.Context(), cfg.Storage.Key); err != nil {
			return fmt.Errorf("reading storage: %w", err)
		} else if !ok {
			if err := kv.Set(cmd.Context(), cfg.Storage.Key, "[]"); err != nil {
				return fmt.Errorf("seeding storage: %w", err)
			}
		}
	}

	// Write .gitignore.
	gitignore := ".env\n*.db-journal\n*.db-wal\n*.db-shm\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	out := cmd.OutOrStdout()
	if !useGit {
		fmt.Fprintf(out, "Initialized spendlog home at %s\n", dir)
		return nil
	}

	// Initialize git and create initial commit.
	repo := gitops.Repo{Dir: dir, AuthorName: cfg.Git.AuthorName, AuthorEmail: cfg.Git.AuthorEmail}
	if !repo.IsRepo() {
		if err := repo.Init(cmd.Context()); err != nil {
			return err
		}
	}
	hash, err := repo.Commit(cmd.Context(), "init: spendlog home")
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized spendlog home at %s (%s)\n", dir, hash)
	return nil
}

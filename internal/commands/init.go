package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/biweekly-dev/biweekly/internal/config"
	"github.com/biweekly-dev/biweekly/internal/gitops"
	"github.com/biweekly-dev/biweekly/internal/importer"
)

type initOptions struct {
	backend string
	auth    string
	git     bool
}

func newInitCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a biweekly data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dataDir(cmd)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				if dir, err = filepath.Abs(args[0]); err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
			}
			return runInit(cmd, dir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.backend, "backend", "file", "storage backend: file, sqlite or memory")
	cmd.Flags().StringVar(&opts.auth, "auth", "plaintext", "password storage: plaintext or bcrypt")
	cmd.Flags().BoolVar(&opts.git, "git", false, "keep git history of the data directory")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts initOptions) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default()
	cfg.Storage.Backend = opts.backend
	cfg.Auth.Mode = opts.auth
	cfg.History.Git = opts.git
	if err := cfg.Validate(); err != nil {
		return err
	}

	dirs := []string{
		"logs",
		importer.Dir(""),
		filepath.Join(importer.Dir(""), "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	gitignore := ".env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, importer.Dir(""), ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	out := cmd.OutOrStdout()
	if !opts.git {
		fmt.Fprintf(out, "Initialized biweekly data directory at %s\n", dir)
		return nil
	}

	repo := gitops.Repo{Dir: dir, AuthorName: cfg.History.AuthorName, AuthorEmail: cfg.History.AuthorEmail}
	if err := repo.Init(); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := repo.CommitAll("init: biweekly data directory")
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	fmt.Fprintf(out, "Initialized biweekly data directory at %s (%s)\n", dir, hash)
	return nil
}

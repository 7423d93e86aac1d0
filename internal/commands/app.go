package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/biweekly-dev/biweekly/internal/accounts"
	"github.com/biweekly-dev/biweekly/internal/activity"
	"github.com/biweekly-dev/biweekly/internal/auth"
	"github.com/biweekly-dev/biweekly/internal/budget"
	"github.com/biweekly-dev/biweekly/internal/config"
	"github.com/biweekly-dev/biweekly/internal/gitops"
	"github.com/biweekly-dev/biweekly/internal/kv"
	"github.com/biweekly-dev/biweekly/internal/logging"
	"github.com/biweekly-dev/biweekly/internal/store"
)

// app is everything a command needs once the data directory is open.
type app struct {
	dir   string
	cfg   *config.Config
	log   *slog.Logger
	store *store.Store
	svc   *budget.Service
}

// dataDir resolves the --dir flag to an absolute path.
func dataDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

// loadConfig reads and validates the config for the data directory.
func loadConfig(cmd *cobra.Command) (string, *config.Config, error) {
	dir, err := dataDir(cmd)
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.LoadDir(dir)
	if err != nil {
		return "", nil, err
	}
	if err := cfg.Validate(); err != nil {
		return "", nil, err
	}
	return dir, cfg, nil
}

// openApp loads config, opens storage and builds the budget service.
func openApp(cmd *cobra.Command) (*app, error) {
	dir, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.Setup(level).With(logging.FieldComponent, logging.ComponentCLI)

	authn, err := auth.New(cfg.Auth.Mode)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	path := cfg.StoragePath(dir)
	backend, err := kv.Open(ctx, cfg.Storage.Backend, path)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	logger.Debug("storage opened", logging.FieldBackend, cfg.Storage.Backend, logging.FieldPath, path)

	st, err := store.Open(ctx, backend, logger)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	svc := budget.NewService(st,
		budget.WithAuthenticator(authn),
		budget.WithLogger(logger),
		budget.WithRecorder(activity.FileRecorder{Dir: dir}),
	)

	return &app{dir: dir, cfg: cfg, log: logger, store: st, svc: svc}, nil
}

// directory looks up stored accounts for display.
func (a *app) directory() *accounts.Service {
	return accounts.Load(a.store)
}

func (a *app) Close() error {
	return a.store.Close()
}

// commit snapshots the data directory when git history is on. Failures are
// logged; the change itself is already saved.
func (a *app) commit(message string) {
	if !a.cfg.History.Git {
		return
	}
	repo := gitops.Repo{Dir: a.dir, AuthorName: a.cfg.History.AuthorName, AuthorEmail: a.cfg.History.AuthorEmail}
	if !repo.IsRepo() {
		a.log.Warn("git history is on but the data directory is not a repository", logging.FieldPath, a.dir)
		return
	}
	hash, err := repo.CommitAll(message)
	if err != nil {
		a.log.Warn("committing history", logging.FieldError, err)
		return
	}
	if hash != "" {
		a.log.Debug("history committed", "hash", hash)
	}
}

// withApp runs fn against an open app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, a)
}

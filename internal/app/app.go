package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/vk/halglue/internal/classify"
	"github.com/vk/halglue/internal/ctxlog"
	"github.com/vk/halglue/internal/fetch"
	"github.com/vk/halglue/internal/scaffold"
	"github.com/vk/halglue/internal/store"
	"github.com/vk/halglue/internal/toolchain"
	"github.com/vk/halglue/internal/validate"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logW   io.Writer
	logger *slog.Logger
	config *Config

	store      *store.Store
	validator  *validate.Validator
	scaffolder *scaffold.Scaffolder
	toolchain  *toolchain.Runner
}

// New is the constructor for the main application. logW receives structured
// logs; reports go wherever the caller prints them.
func New(logW io.Writer, cfg *Config, fetcher fetch.Fetcher) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if fetcher == nil {
		fetcher = fetch.NewClient(fetch.Options{
			APIBaseURL: cfg.APIBaseURL,
			RawBaseURL: cfg.RawBaseURL,
		})
	}

	st := store.New(filepath.Join(cfg.ProjectRoot, GlueFileName))
	registry := classify.DefaultRegistry()

	return &App{
		logW:       logW,
		logger:     logger,
		config:     cfg,
		store:      st,
		validator:  validate.New(st, fetcher, registry, cfg.ProjectRoot, cfg.Workers),
		scaffolder: scaffold.New(cfg.ProjectRoot),
		toolchain:  toolchain.New(cfg.ProjectRoot),
	}
}

// Context returns a context carrying the app's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Store exposes the config store, primarily for tests.
func (a *App) Store() *store.Store {
	return a.store
}

// GlueInit analyzes a new platform's HAL package and records it.
func (a *App) GlueInit(ctx context.Context, name, repository, ref string) (*validate.Report, error) {
	return a.validator.Init(a.Context(ctx), name, repository, ref)
}

// GlueList reports the persisted platform set.
func (a *App) GlueList(ctx context.Context) (*validate.Report, error) {
	return a.validator.List(a.Context(ctx))
}

// GlueValidate re-analyzes all platforms. With apply, zero-error runs persist
// and advance statuses.
func (a *App) GlueValidate(ctx context.Context, apply bool) (*validate.Report, error) {
	return a.validator.Validate(a.Context(ctx), apply)
}

// GlueRemove tombstones a platform.
func (a *App) GlueRemove(ctx context.Context, name string) error {
	return a.validator.Remove(a.Context(ctx), name)
}

// InitProject scaffolds a fresh workspace skeleton.
func (a *App) InitProject(ctx context.Context, name string) (string, error) {
	return a.scaffolder.InitProject(a.Context(ctx), name)
}

// AddPlatform emits generated units for a platform. The target triple comes
// from the flag when given, otherwise from the platform's glue record.
func (a *App) AddPlatform(ctx context.Context, name, triple, halCrate string) error {
	ctx = a.Context(ctx)

	if triple == "" {
		m, err := a.store.Load(ctx)
		if err != nil {
			return err
		}
		p, ok := m.Get(name)
		if !ok {
			return fmt.Errorf("platform %q has no glue record and no --target was given", name)
		}
		triple = p.Target
	}
	if triple == "" {
		return fmt.Errorf("platform %q has no target identifier; pass --target or run glue validate", name)
	}

	return a.scaffolder.AddPlatform(ctx, name, triple, halCrate)
}

// Build delegates to the toolchain runner.
func (a *App) Build(ctx context.Context, platform string, useCross bool) error {
	ctx = a.Context(ctx)
	m, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	return a.toolchain.Build(ctx, m, platform, useCross)
}

// Test runs the host test harness.
func (a *App) Test(ctx context.Context) error {
	return a.toolchain.Test(a.Context(ctx))
}

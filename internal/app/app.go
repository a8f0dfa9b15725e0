package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vk/flowgrid/internal/config"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/executor"
	"github.com/vk/flowgrid/internal/localsession"
	"github.com/vk/flowgrid/internal/metrics"
	"github.com/vk/flowgrid/internal/notify"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/session"
)

// Publisher delivers a finished run's result to an external listener.
type Publisher interface {
	Publish(ctx context.Context, res *executor.Result) error
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	loader     config.Loader
	sessions   session.SessionFactory
	metrics    *metrics.Collector
	publisher  Publisher
	httpServer *http.Server

	// debounce is how long the watcher waits for writes to settle.
	debounce time.Duration
}

// Option customizes an App beyond what Config expresses.
type Option func(*App)

// WithModules replaces the built-in modules.
func WithModules(modules ...registry.Module) Option {
	return func(a *App) { a.registry = registry.New(modules...) }
}

// WithLoader replaces the extension-based pipeline loader.
func WithLoader(l config.Loader) Option {
	return func(a *App) { a.loader = l }
}

// WithPublisher replaces the socket.io publisher built from Config.NotifyURL.
func WithPublisher(p Publisher) Option {
	return func(a *App) { a.publisher = p }
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. The returned App has its own isolated logger,
// registry and metrics.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   defaultLoaders(),
		metrics:  metrics.NewCollector("flowgrid"),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.registry == nil {
		modules := defaultModules(cfg)
		a.registry = registry.New(modules...)
		logger.Debug("All Go modules registered.", "count", len(modules))
	}
	if cfg.DefaultLanguage != "" {
		a.registry.SetDefaultLanguage(cfg.DefaultLanguage)
	}
	if err := a.registry.ValidateRegistry(ctx); err != nil {
		return nil, err
	}

	a.sessions = &localsession.SessionFactory{Observer: a.metrics}

	if a.publisher == nil && cfg.NotifyURL != "" {
		p, err := notify.New(cfg.NotifyURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure result publisher: %w", err)
		}
		a.publisher = p
	}

	return a, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Metrics returns the application's metrics collector.
func (a *App) Metrics() *metrics.Collector {
	return a.metrics
}

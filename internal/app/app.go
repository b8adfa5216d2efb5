// Package app wires configuration, storage and the generation pipeline into
// one session object shared by every command.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/kernel/socialpost/internal/chat"
	"github.com/kernel/socialpost/internal/clipboard"
	"github.com/kernel/socialpost/internal/compose"
	"github.com/kernel/socialpost/internal/config"
	"github.com/kernel/socialpost/internal/feed"
	"github.com/kernel/socialpost/internal/host"
	"github.com/kernel/socialpost/internal/notify"
	"github.com/kernel/socialpost/internal/pipeline"
	"github.com/kernel/socialpost/internal/settings"
	"github.com/kernel/socialpost/internal/storage"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// App is one session: the settings, the feed and everything that writes to
// them.
type App struct {
	Config    config.Config
	Logger    *pterm.Logger
	Backend   storage.Backend
	Settings  *settings.Store
	Feed      *feed.Store
	Composer  *compose.Composer
	Generator *pipeline.Generator
	Notifier  notify.Notifier
	Clipboard *clipboard.Copier

	closers []func()
}

// Option customizes New.
type Option func(*App)

// WithBackend skips backend selection and uses b.
func WithBackend(b storage.Backend) Option {
	return func(a *App) { a.Backend = b }
}

// WithNotifier replaces the terminal notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(a *App) { a.Notifier = n }
}

// WithComposer replaces the composer, typically with a seeded one.
func WithComposer(c *compose.Composer) Option {
	return func(a *App) { a.Composer = c }
}

// New builds a session from cfg and loads the persisted feed.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{Config: cfg, Logger: NewLogger(cfg.LogLevel)}
	for _, opt := range opts {
		opt(a)
	}

	if a.Backend == nil {
		b, err := a.openBackend(ctx)
		if err != nil {
			return nil, err
		}
		a.Backend = b
	}
	if a.Notifier == nil {
		a.Notifier = notify.Terminal{}
	}
	if a.Clipboard == nil {
		a.Clipboard = clipboard.New()
	}

	rnd := compose.NewRandom(cfg.Seed)
	if a.Composer == nil {
		a.Composer = compose.New(rnd)
	}

	ns := storage.NewNamespace(a.Backend, cfg.Namespace)
	a.Settings = settings.NewStore(ns, a.Logger)
	a.Feed = feed.NewStore(ns, cfg.MaxPosts, a.Logger)
	a.Feed.Load(ctx)

	a.Generator = &pipeline.Generator{
		Composer:        a.Composer,
		Feed:            a.Feed,
		Notifier:        a.Notifier,
		Logger:          a.Logger,
		Rand:            rnd,
		AutoProbability: cfg.AutoProbability,
		AutoDelay:       cfg.AutoDelay,
	}
	return a, nil
}

// Close releases database handles.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) openBackend(ctx context.Context) (storage.Backend, error) {
	cfg := a.Config
	hostBackend := storage.NewHostSettings(cfg.SettingsPath(), host.ExtensionSettingsKey)

	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemory(), nil
	case config.BackendHost:
		return hostBackend, nil
	case config.BackendLocal:
		return a.openLocal(ctx), nil
	case config.BackendPostgres:
		pg, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres backend: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		return pg, nil
	}

	chain := []storage.Backend{hostBackend}
	if cfg.DatabaseURL != "" {
		pg, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Logger.Warn("postgres backend unavailable", a.Logger.Args("error", err.Error()))
		} else {
			a.closers = append(a.closers, pg.Close)
			chain = append(chain, pg)
		}
	}
	chain = append(chain, a.openLocal(ctx))
	return storage.NewFallback(a.Logger, chain...), nil
}

// openLocal never fails: a database that cannot be opened becomes an
// unavailable backend and the session runs in memory.
func (a *App) openLocal(ctx context.Context) storage.Backend {
	db, err := storage.OpenSQLite(ctx, a.Config.LocalDB)
	if err != nil {
		a.Logger.Warn("local storage unavailable", a.Logger.Args("path", a.Config.LocalDB, "error", err.Error()))
		return storage.Unavailable{Reason: err.Error()}
	}
	a.closers = append(a.closers, func() { _ = db.Close() })
	return db
}

// ResolveTranscript picks the transcript to read: an explicit path, else the
// newest file in chatDir, else the newest file in the configured chat
// directory.
func (a *App) ResolveTranscript(path, chatDir string) (string, error) {
	if path != "" {
		return path, nil
	}
	if chatDir == "" {
		chatDir = a.Config.ChatsPath()
	}
	if chatDir == "" {
		return "", fmt.Errorf("no transcript given: use --transcript, --chat-dir or SOCIALPOST_HOST_ROOT")
	}
	latest, err := host.LatestTranscript(chatDir)
	if err != nil {
		return "", err
	}
	return latest.Path, nil
}

// LoadTranscript resolves and parses a transcript.
func (a *App) LoadTranscript(path, chatDir string) (chat.Transcript, string, error) {
	resolved, err := a.ResolveTranscript(path, chatDir)
	if err != nil {
		return chat.Transcript{}, "", err
	}
	t, err := chat.LoadTranscript(resolved)
	if err != nil {
		return chat.Transcript{}, "", err
	}
	if t.Skipped > 0 {
		a.Logger.Warn("skipped unreadable transcript lines", a.Logger.Args("path", resolved, "lines", t.Skipped))
	}
	return t, resolved, nil
}

// NewLogger returns the console logger for a level name.
func NewLogger(level string) *pterm.Logger {
	l := pterm.LogLevelInfo
	switch strings.ToLower(level) {
	case "trace":
		l = pterm.LogLevelTrace
	case "debug":
		l = pterm.LogLevelDebug
	case "warn", "warning":
		l = pterm.LogLevelWarn
	case "error":
		l = pterm.LogLevelError
	}
	return pterm.DefaultLogger.WithLevel(l)
}

type ctxKey struct{}

// WithContext stores a in ctx.
func WithContext(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the App stored by WithContext, or nil.
func FromContext(ctx context.Context) *App {
	a, _ := ctx.Value(ctxKey{}).(*App)
	return a
}

// FromCommand returns the session the root command attached before running
// cmd.
func FromCommand(cmd *cobra.Command) *App {
	return FromContext(cmd.Context())
}

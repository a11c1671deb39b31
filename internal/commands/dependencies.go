package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/diogo/repochat/internal/api"
	"github.com/diogo/repochat/internal/config"
	"github.com/diogo/repochat/internal/logging"
	"github.com/diogo/repochat/internal/session"
	"github.com/diogo/repochat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, ctrl *session.Controller, opts tui.Options) error
	RunConfig() error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Backend replaces the HTTP client built from the configuration.
	Backend api.Backend

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard copies text to the system clipboard.
	Clipboard func(string) error

	// IsTTY reports whether stdout is a terminal.
	IsTTY func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, ctrl *session.Controller, opts tui.Options) error {
	return tui.Run(ctx, ctrl, opts)
}

func (d *DefaultTUI) RunConfig() error {
	return tui.RunConfig()
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:       &DefaultTUI{},
		Clipboard: clipboard.WriteAll,
		IsTTY:     isStdoutTTY,
	}
}

var deps = NewDependencies()

// runtime bundles what every backend-facing command needs
type runtime struct {
	cfg     config.Config
	logger  zerolog.Logger
	backend api.Backend
	closer  io.Closer
}

// loadRuntime loads the configuration, applies the global flags, opens the
// log file and builds the backend client
func loadRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	cfg = applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closer, err := logging.Setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	backend := deps.Backend
	if backend == nil {
		client, err := api.NewClient(
			api.WithBaseURL(cfg.BackendURL),
			api.WithTimeout(cfg.Timeout()),
			api.WithRateLimit(cfg.RequestsPerMinute),
			api.WithLogger(logger),
		)
		if err != nil {
			_ = closer.Close()
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
		backend = client
	}

	logger.Debug().
		Str("backend", cfg.BackendURL).
		Int("timeout_seconds", cfg.TimeoutSeconds).
		Msg("runtime ready")

	return &runtime{cfg: cfg, logger: logger, backend: backend, closer: closer}, nil
}

func (r *runtime) Close() {
	_ = r.closer.Close()
}

func (r *runtime) controller() *session.Controller {
	return session.New(r.backend,
		session.WithLogger(r.logger),
		session.WithDarkMode(r.cfg.DarkMode),
	)
}

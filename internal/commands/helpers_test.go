package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/diogo/repochat/internal/api"
	"github.com/diogo/repochat/internal/config"
	"github.com/diogo/repochat/internal/session"
	"github.com/diogo/repochat/internal/tui"
)

// mockTUI records calls instead of starting bubbletea
type mockTUI struct {
	chatCalls   int
	configCalls int
	lastOpts    tui.Options
	lastCtrl    *session.Controller
	err         error
}

func (m *mockTUI) RunChat(ctx context.Context, ctrl *session.Controller, opts tui.Options) error {
	m.chatCalls++
	m.lastCtrl = ctrl
	m.lastOpts = opts
	return m.err
}

func (m *mockTUI) RunConfig() error {
	m.configCalls++
	return m.err
}

type testEnv struct {
	backend *api.MockBackend
	tui     *mockTUI
	copied  []string
	tty     bool
	home    string
}

// setupTest isolates HOME, installs mock dependencies and resets the
// package-level flag state. Everything is restored on cleanup.
func setupTest(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		backend: &api.MockBackend{Answer: "It prints hello."},
		tui:     &mockTUI{},
		home:    t.TempDir(),
	}
	t.Setenv("HOME", env.home)
	t.Setenv(config.EnvBackendURL, "")
	t.Setenv(config.EnvTimeout, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv("GLAMOUR_STYLE", "")

	oldDeps := deps
	deps = &Dependencies{
		Backend: env.backend,
		TUI:     env.tui,
		Clipboard: func(s string) error {
			env.copied = append(env.copied, s)
			return nil
		},
		IsTTY: func() bool { return env.tty },
	}

	resetFlags()
	t.Cleanup(func() {
		deps = oldDeps
		resetFlags()
	})
	return env
}

func resetFlags() {
	backendFlag = ""
	timeoutFlag = -1
	outputFlag = ""
	fileFlag = ""
	rawFlag = false
	copyFlag = false
	_ = rootCmd.Flags().Set("version", "false")
}

// execute runs the root command with args and returns stdout and stderr
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

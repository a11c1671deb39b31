package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/repochat/internal/config"
)

func TestRootCommand_Metadata(t *testing.T) {
	if rootCmd.Use != "repochat [question]" {
		t.Errorf("Use = %q", rootCmd.Use)
	}
	if rootCmd.Short == "" || rootCmd.Long == "" {
		t.Error("descriptions should not be empty")
	}

	for _, name := range []string{"chat", "ask", "status", "init", "config"} {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	for _, name := range []string{"backend", "timeout"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag --%s missing", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	env := setupTest(t)

	stdout, _, err := execute(t, "", "--version")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(stdout, "repochat "+Version) {
		t.Errorf("stdout = %q, want version", stdout)
	}
	status, initialize, chat := env.backend.Calls()
	if env.tui.chatCalls != 0 || status+initialize+chat != 0 {
		t.Error("--version should not start anything")
	}
}

func TestRootCommand_Dispatch(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		args      []string
		wantChat  bool
		wantAsked string
	}{
		{name: "no input starts the chat", wantChat: true},
		{name: "blank stdin starts the chat", stdin: "  \n", wantChat: true},
		{name: "argument asks", args: []string{"What does main.py do?"}, wantAsked: "What does main.py do?"},
		{name: "piped stdin asks", stdin: "Explain the API\n", wantAsked: "Explain the API"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t)

			_, _, err := execute(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("execute error: %v", err)
			}

			if tt.wantChat && env.tui.chatCalls != 1 {
				t.Errorf("chat calls = %d, want 1", env.tui.chatCalls)
			}
			if tt.wantAsked != "" {
				if env.backend.ChatCalls != 1 {
					t.Fatalf("chat requests = %d, want 1", env.backend.ChatCalls)
				}
				if env.backend.LastQuestion != tt.wantAsked {
					t.Errorf("question = %q, want %q", env.backend.LastQuestion, tt.wantAsked)
				}
			}
		})
	}
}

func TestReadQuestion_File(t *testing.T) {
	env := setupTest(t)

	path := filepath.Join(env.home, "question.md")
	if err := os.WriteFile(path, []byte("What is in cmd/?\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "", "-f", path); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if env.backend.LastQuestion != "What is in cmd/?" {
		t.Errorf("question = %q", env.backend.LastQuestion)
	}
}

func TestReadQuestion_MissingFile(t *testing.T) {
	setupTest(t)

	_, _, err := execute(t, "", "-f", filepath.Join(t.TempDir(), "missing.md"))
	if err == nil || !strings.Contains(err.Error(), "failed to read file") {
		t.Errorf("err = %v, want a read error", err)
	}
}

func TestStdinHasData(t *testing.T) {
	if !stdinHasData(strings.NewReader("x")) {
		t.Error("a non-file reader counts as piped input")
	}
	if stdinHasData(nil) {
		t.Error("nil reader has no data")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name        string
		backend     string
		timeout     int
		wantBackend string
		wantTimeout int
	}{
		{"unset keeps config", "", -1, "http://localhost:8000", 30},
		{"backend trims slash", "http://10.0.0.2:9000/", -1, "http://10.0.0.2:9000", 30},
		{"zero timeout disables", "", 0, "http://localhost:8000", 0},
		{"timeout overrides", "", 120, "http://localhost:8000", 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTest(t)
			backendFlag = tt.backend
			timeoutFlag = tt.timeout

			cfg := config.DefaultConfig()
			cfg.TimeoutSeconds = 30
			got := applyFlags(cfg)

			if got.BackendURL != tt.wantBackend {
				t.Errorf("BackendURL = %q, want %q", got.BackendURL, tt.wantBackend)
			}
			if got.TimeoutSeconds != tt.wantTimeout {
				t.Errorf("TimeoutSeconds = %d, want %d", got.TimeoutSeconds, tt.wantTimeout)
			}
		})
	}
}

func TestLoadRuntime_InvalidBackend(t *testing.T) {
	setupTest(t)

	_, _, err := execute(t, "", "--backend", "not a url", "status")
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("err = %v, want invalid configuration", err)
	}
}

func TestReportError(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain error is printed", fmt.Errorf("question failed: %w", cause), "Error: question failed: connection refused\n"},
		{"reported error is skipped", reported(fmt.Errorf("status check failed: %w", cause)), ""},
		{"reported stays reported when wrapped", fmt.Errorf("outer: %w", reported(cause)), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			if buf.String() != tt.want {
				t.Errorf("reportError() wrote %q, want %q", buf.String(), tt.want)
			}
			if !errors.Is(tt.err, cause) {
				t.Error("the cause should stay reachable")
			}
		})
	}
}

package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/repochat/internal/errors"
)

func TestAsk_Raw(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{"newline added", "It prints hello.", "It prints hello.\n"},
		{"newline kept", "Line one\nLine two\n", "Line one\nLine two\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t)
			env.backend.Answer = tt.answer

			stdout, stderr, err := execute(t, "", "ask", "What does main.py do?")
			if err != nil {
				t.Fatalf("execute error: %v", err)
			}
			if stdout != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
			if stderr != "" {
				t.Errorf("raw mode should keep stderr quiet, got %q", stderr)
			}
		})
	}
}

func TestAsk_RenderedOnTTY(t *testing.T) {
	env := setupTest(t)
	env.tty = true
	env.backend.Answer = "Use **main.go**"

	stdout, stderr, err := execute(t, "", "ask", "Where is the entry point?")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(stdout, "Repository") {
		t.Errorf("stdout should carry the assistant label, got %q", stdout)
	}
	if !strings.Contains(stdout, "main") {
		t.Errorf("stdout should carry the answer, got %q", stdout)
	}
	if !strings.Contains(stderr, "Done") {
		t.Errorf("stderr should carry the spinner result, got %q", stderr)
	}
}

func TestAsk_RawFlagOverridesTTY(t *testing.T) {
	env := setupTest(t)
	env.tty = true

	stdout, _, err := execute(t, "", "ask", "--raw", "q")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if stdout != "It prints hello.\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
	}{
		{"no question", []string{"ask"}, ""},
		{"blank argument", []string{"ask", "   "}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t)

			_, _, err := execute(t, tt.stdin, tt.args...)
			if !errors.Is(err, apierrors.ErrEmptyQuestion) {
				t.Errorf("err = %v, want ErrEmptyQuestion", err)
			}
			if env.backend.ChatCalls != 0 {
				t.Error("no request should be sent")
			}
		})
	}
}

func TestAsk_BackendFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		tty      bool
		wantHint string
	}{
		{
			name:     "not initialized",
			err:      apierrors.NewAPIError(400, "/chat", "bad request").WithBody(`{"detail":"Please initialize a repository first"}`, "Please initialize a repository first"),
			tty:      true,
			wantHint: "repochat init",
		},
		{
			name:     "network",
			err:      apierrors.NewNetworkError("chat", "/chat", errors.New("connection refused")),
			tty:      true,
			wantHint: "backend is running",
		},
		{
			name: "raw stays quiet",
			err:  apierrors.NewNetworkError("chat", "/chat", errors.New("connection refused")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t)
			env.tty = tt.tty
			env.backend.ChatErr = tt.err

			stdout, stderr, err := execute(t, "", "ask", "q")
			if err == nil || !strings.Contains(err.Error(), "question failed") {
				t.Fatalf("err = %v, want question failed", err)
			}
			if !errors.Is(err, tt.err) {
				t.Error("the backend error should stay wrapped")
			}
			if stdout != "" {
				t.Errorf("stdout = %q, want nothing", stdout)
			}
			if tt.wantHint != "" && !strings.Contains(stderr, tt.wantHint) {
				t.Errorf("stderr = %q, want hint %q", stderr, tt.wantHint)
			}
			if tt.wantHint == "" && strings.Contains(stderr, "Question failed") {
				t.Errorf("raw mode should not print the decorated error, got %q", stderr)
			}
			if strings.Count(stderr, "uestion failed") > 1 || strings.Contains(stderr, "Error:") {
				t.Errorf("the failure should be printed once, got %q", stderr)
			}

			var final bytes.Buffer
			reportError(&final, err)
			if tt.wantHint != "" && final.Len() != 0 {
				t.Errorf("Execute would repeat the printed failure: %q", final.String())
			}
			if tt.wantHint == "" && !strings.Contains(final.String(), "Error: question failed") {
				t.Errorf("raw failures are printed by Execute, got %q", final.String())
			}
		})
	}
}

func TestAsk_OutputFile(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		check func(t *testing.T, data []byte)
	}{
		{
			name: "markdown",
			file: "answer.md",
			check: func(t *testing.T, data []byte) {
				s := string(data)
				for _, want := range []string{"# Repository chat", "What does main.py do?", "It prints hello."} {
					if !strings.Contains(s, want) {
						t.Errorf("markdown should contain %q", want)
					}
				}
			},
		},
		{
			name: "json",
			file: "nested/answer.json",
			check: func(t *testing.T, data []byte) {
				if !json.Valid(data) {
					t.Fatal("export is not valid JSON")
				}
				if got := gjson.GetBytes(data, "messages.#").Int(); got != 2 {
					t.Errorf("messages = %d, want 2", got)
				}
				if got := gjson.GetBytes(data, "messages.1.content").String(); got != "It prints hello." {
					t.Errorf("answer = %q", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t)
			path := filepath.Join(env.home, tt.file)

			stdout, _, err := execute(t, "", "ask", "-o", path, "What does main.py do?")
			if err != nil {
				t.Fatalf("execute error: %v", err)
			}
			if stdout != "It prints hello.\n" {
				t.Errorf("the answer should still be printed, got %q", stdout)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("output not written: %v", err)
			}
			tt.check(t, data)
		})
	}
}

func TestAsk_Clipboard(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		fromConfig bool
		want       int
	}{
		{"off by default", []string{"ask", "q"}, false, 0},
		{"flag", []string{"ask", "--copy", "q"}, false, 1},
		{"config", []string{"ask", "q"}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t)
			if tt.fromConfig {
				if _, _, err := execute(t, "", "config", "set", "copy_to_clipboard", "true"); err != nil {
					t.Fatalf("config set: %v", err)
				}
			}

			if _, _, err := execute(t, "", tt.args...); err != nil {
				t.Fatalf("execute error: %v", err)
			}
			if len(env.copied) != tt.want {
				t.Fatalf("copies = %d, want %d", len(env.copied), tt.want)
			}
			if tt.want > 0 && env.copied[0] != "It prints hello." {
				t.Errorf("copied %q", env.copied[0])
			}
		})
	}
}

func TestAsk_ClipboardFailureIsNotFatal(t *testing.T) {
	env := setupTest(t)
	env.tty = true
	deps.Clipboard = func(string) error { return errors.New("no display") }

	_, stderr, err := execute(t, "", "ask", "--copy", "q")
	if err != nil {
		t.Fatalf("clipboard failure should not fail the command: %v", err)
	}
	if !strings.Contains(stderr, "Failed to copy") {
		t.Errorf("stderr = %q, want a warning", stderr)
	}
}

func TestFormatErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"nil", nil, nil},
		{
			name: "api error",
			err:  apierrors.NewAPIError(500, "/chat", "server error").WithBody(`{"detail":"boom"}`, "boom"),
			want: []string{"Ask failed", "HTTP Status: 500", "Endpoint: /chat", "boom"},
		},
		{
			name: "timeout",
			err:  apierrors.NewTimeoutError("request timed out", "/initialize"),
			want: []string{"Endpoint: /initialize", "--timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatErrorMessage(tt.err, "Ask failed")
			if tt.err == nil {
				if got != "" {
					t.Errorf("nil error should format to empty, got %q", got)
				}
				return
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output %q should contain %q", got, w)
				}
			}
		})
	}
}

package commands

import (
	"errors"
	"testing"
)

func TestChatCommand(t *testing.T) {
	if chatCmd.Use != "chat" {
		t.Errorf("Expected use 'chat', got %s", chatCmd.Use)
	}
	if chatCmd.Short == "" || chatCmd.Long == "" {
		t.Error("descriptions should not be empty")
	}
	if err := chatCmd.Args(chatCmd, []string{"extra"}); err == nil {
		t.Error("chat should reject arguments")
	}
}

func TestChatCommand_StartsTUI(t *testing.T) {
	env := setupTest(t)

	if _, _, err := execute(t, "", "--backend", "http://chat:9000", "chat"); err != nil {
		t.Fatalf("execute error: %v", err)
	}

	if env.tui.chatCalls != 1 {
		t.Fatalf("chat calls = %d, want 1", env.tui.chatCalls)
	}
	if env.tui.lastCtrl == nil {
		t.Fatal("TUI should receive a controller")
	}
	if env.tui.lastOpts.Backend != "http://chat:9000" {
		t.Errorf("Backend = %q, want the flag value", env.tui.lastOpts.Backend)
	}
	if env.tui.lastOpts.Config.BackendURL != "http://chat:9000" {
		t.Errorf("Config.BackendURL = %q", env.tui.lastOpts.Config.BackendURL)
	}
	if env.tui.lastCtrl.Busy() || len(env.tui.lastCtrl.Messages()) != 0 {
		t.Error("the controller should start idle and empty")
	}
}

func TestChatCommand_DarkModeFromConfig(t *testing.T) {
	env := setupTest(t)
	if _, _, err := execute(t, "", "config", "set", "dark_mode", "true"); err != nil {
		t.Fatalf("config set: %v", err)
	}

	if _, _, err := execute(t, "", "chat"); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !env.tui.lastCtrl.DarkMode() {
		t.Error("controller should start in dark mode")
	}
}

func TestChatCommand_TUIError(t *testing.T) {
	env := setupTest(t)
	env.tui.err = errors.New("no tty")

	_, _, err := execute(t, "", "chat")
	if !errors.Is(err, env.tui.err) {
		t.Errorf("err = %v, want the TUI error", err)
	}
}

package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/diogo/repochat/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start the interactive chat.

When the backend has no repository indexed yet, the chat opens on a setup
screen asking for a repository URL. Press Esc to cancel a request and Ctrl+C
to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func runChat(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.logger.Info().Str("backend", rt.cfg.BackendURL).Msg("starting chat")

	return deps.TUI.RunChat(ctx, rt.controller(), tui.Options{
		Config:  rt.cfg,
		Backend: rt.cfg.BackendURL,
		Logger:  rt.logger,
	})
}

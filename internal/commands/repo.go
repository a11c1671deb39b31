package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/repochat/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the backend has a repository indexed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		ctrl := rt.controller()
		if err := ctrl.CheckStatus(cmd.Context()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), formatErrorMessage(err, models.ErrTextStatusCheck))
			return reported(fmt.Errorf("status check failed: %w", err))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Backend:     %s\n", rt.cfg.BackendURL)
		if ctrl.Initialized() {
			fmt.Fprintln(out, "Repository:  initialized")
		} else {
			fmt.Fprintln(out, "Repository:  not initialized")
			fmt.Fprintln(out, "Run 'repochat init <repo-url>' to index one.")
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init <repo-url>",
	Short: "Clone and index a Git repository on the backend",
	Long: `Ask the backend to clone and index a Git repository.

Indexing a large repository can take a while. The request timeout is
controlled by --timeout (0 waits indefinitely).`,
	Example: `  repochat init https://github.com/user/repo`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repoURL := strings.TrimSpace(args[0])

		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		ctrl := rt.controller()
		ctrl.SetRepoURL(repoURL)

		stderr := cmd.ErrOrStderr()
		tty := deps.IsTTY()

		var spin *spinner
		if tty {
			spin = newSpinner(stderr, "Indexing "+repoURL)
			spin.start()
		}

		if err := ctrl.InitializeRepository(cmd.Context()); err != nil {
			if spin != nil {
				spin.stopWithError()
			}
			label := models.ErrTextInitFailed
			if strings.HasPrefix(ctrl.ErrorText(), models.ErrTextStatusCheck) {
				label = models.ErrTextStatusCheck
			}
			fmt.Fprintln(stderr, formatErrorMessage(err, label))
			return reported(fmt.Errorf("initialize failed: %w", err))
		}

		switch {
		case spin == nil:
		case ctrl.Initialized():
			spin.stopWithSuccess("Repository indexed")
		default:
			spin.stopWithWarning("Backend accepted the request but does not report the repository as initialized yet")
		}

		if !tty {
			state := "not initialized"
			if ctrl.Initialized() {
				state = "initialized"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", repoURL, state)
		}
		return nil
	},
}

package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	apierrors "github.com/diogo/repochat/internal/errors"
	"github.com/diogo/repochat/internal/render"
	"github.com/diogo/repochat/internal/transcript"
	"github.com/diogo/repochat/internal/tui"
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about the indexed repository",
	Long: `Send one question to the backend and print the answer.

The question comes from the argument, from --file or from piped stdin.
When stdout is not a terminal the plain answer is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question, ok, err := readQuestion(cmd, args)
		if err != nil {
			return err
		}
		if !ok {
			return apierrors.ErrEmptyQuestion
		}
		return runAsk(cmd, question)
	},
}

func init() {
	addQuestionFlags(askCmd)
}

// runAsk sends question to /chat and prints the answer. Raw mode prints
// only the answer text.
func runAsk(cmd *cobra.Command, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return apierrors.ErrEmptyQuestion
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	raw := rawFlag || !deps.IsTTY()

	ctrl := rt.controller()

	var spin *spinner
	if !raw {
		spin = newSpinner(stderr, "Asking the repository")
		spin.start()
	}

	startTime := time.Now()
	answer, err := ctrl.Ask(cmd.Context(), question)
	rt.logger.Debug().Dur("duration", time.Since(startTime)).Err(err).Msg("ask finished")

	if err != nil {
		if !raw {
			spin.stopWithError()
			fmt.Fprintln(stderr, formatErrorMessage(err, "Question failed"))
			return reported(fmt.Errorf("question failed: %w", err))
		}
		return fmt.Errorf("question failed: %w", err)
	}
	if !raw {
		spin.stopWithSuccess("Done")
	}

	if outputFlag != "" {
		meta := transcript.Meta{Backend: rt.cfg.BackendURL, ExportedAt: time.Now()}
		if err := transcript.WriteFile(outputFlag, ctrl.Messages(), meta); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !raw {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Conversation saved to %s", outputFlag),
			))
		}
	}

	if copyFlag || rt.cfg.CopyToClipboard {
		if err := deps.Clipboard(answer); err != nil {
			rt.logger.Warn().Err(err).Msg("clipboard copy failed")
			if !raw {
				fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorError).Render(
					fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
				))
			}
		} else if !raw {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if raw {
		fmt.Fprint(stdout, answer)
		if !strings.HasSuffix(answer, "\n") {
			fmt.Fprintln(stdout)
		}
		return nil
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(stdout, assistantLabelStyle.Render("✦ Repository"))

	opts := render.OptionsFromConfig(rt.cfg, rt.cfg.DarkMode).WithWidth(contentWidth)
	rendered := render.Answer(answer, opts)
	fmt.Fprintln(stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))

	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage prefixes err with context and adds the status, endpoint
// and hint lines the TUI shows
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}
	return tui.FormatError(fmt.Errorf("%s: %w", context, err))
}

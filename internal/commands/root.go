// Package commands provides CLI commands for repochat.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/repochat/internal/config"
)

var (
	// Global flags
	backendFlag string
	timeoutFlag int

	// One-shot question flags, shared by the root and ask commands
	outputFlag string
	fileFlag   string
	rawFlag    bool
	copyFlag   bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "repochat [question]",
	Short: "Chat with an indexed Git repository",
	Long: `repochat is a terminal client for a repository question-answering backend.
It asks the backend to clone and index a Git repository, then lets you ask
questions about its code.

Examples:
  repochat                                  Start the interactive chat
  repochat init https://github.com/user/repo
  repochat status                           Show whether a repository is indexed
  repochat "What does main.py do?"          Ask a single question
  repochat -f question.md                   Read the question from a file
  cat question.md | repochat                Read the question from stdin
  repochat "Explain the API" -o answer.md   Save the exchange to a file`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "repochat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		question, ok, err := readQuestion(cmd, args)
		if err != nil {
			return err
		}
		if ok {
			return runAsk(cmd, question)
		}

		return runChat(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
		stop()
		os.Exit(1)
	}
}

// reportedError marks a failure the command already printed to stderr
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// reported wraps err so Execute does not print it a second time
func reported(err error) error {
	return &reportedError{err: err}
}

// reportError prints err unless a command already showed it
func reportError(w io.Writer, err error) {
	var done *reportedError
	if errors.As(err, &done) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&backendFlag, "backend", "b", "",
		fmt.Sprintf("Backend base URL (overrides config and %s)", config.EnvBackendURL))
	rootCmd.PersistentFlags().IntVar(&timeoutFlag, "timeout", -1,
		"Request timeout in seconds, 0 for none (overrides config)")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")
	addQuestionFlags(rootCmd)

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
}

func addQuestionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the question and answer to a file (.md or .json)")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the question from a file")
	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the plain answer without formatting (default when stdout is not a terminal)")
	cmd.Flags().BoolVar(&copyFlag, "copy", false, "Copy the answer to the clipboard")
}

// readQuestion resolves the question from --file, the argument or piped
// stdin, in that order. ok is false when none was given.
func readQuestion(cmd *cobra.Command, args []string) (string, bool, error) {
	if fileFlag != "" {
		data, err := os.ReadFile(fileFlag)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if !stdinHasData(cmd.InOrStdin()) {
		return "", false, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", false, fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", false, nil
	}
	return string(data), true, nil
}

// stdinHasData reports whether in is piped input rather than a terminal
func stdinHasData(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return in != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// applyFlags overrides cfg with the global flags
func applyFlags(cfg config.Config) config.Config {
	if backendFlag != "" {
		cfg.BackendURL = strings.TrimRight(backendFlag, "/")
	}
	if timeoutFlag >= 0 {
		cfg.TimeoutSeconds = timeoutFlag
	}
	return cfg
}

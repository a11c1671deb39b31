// Package session implements the chat session controller: the state behind
// the setup and chat screens and the three backend round-trips that change it.
//
// Front ends with an event loop use the two-phase API. Begin* validates and
// mutates state synchronously, Run* performs the network call without touching
// state (safe from any goroutine), and Complete* applies the result. Results
// from a superseded request carry an old generation and are discarded.
// The synchronous wrappers chain the three steps.
//
// A Controller is not safe for concurrent use; only Run* may be called off the
// owning goroutine.
package session

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/diogo/repochat/internal/api"
	apierrors "github.com/diogo/repochat/internal/errors"
	"github.com/diogo/repochat/internal/models"
)

// Phase is the session-level state machine position
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseInitialized
)

func (p Phase) String() string {
	if p == PhaseInitialized {
		return "initialized"
	}
	return "uninitialized"
}

// State is a snapshot of everything the front end renders
type State struct {
	RepoURL     string
	Initialized bool
	Messages    []models.Message
	Input       string
	Busy        bool
	Error       string
	DarkMode    bool
}

// Controller owns the session state and mediates the backend calls
type Controller struct {
	backend api.Backend
	logger  zerolog.Logger

	state   State
	lastErr error

	generation uint64
	cancel     context.CancelFunc
	pendingID  string
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger.With().Str("component", "session").Logger()
	}
}

// WithDarkMode sets the initial theme flag
func WithDarkMode(dark bool) Option {
	return func(c *Controller) {
		c.state.DarkMode = dark
	}
}

// New creates a controller with empty session state
func New(backend api.Backend, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		logger:  zerolog.Nop(),
		state: State{
			Messages: []models.Message{},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state
func (c *Controller) State() State {
	s := c.state
	s.Messages = c.Messages()
	return s
}

// Messages returns a copy of the conversation
func (c *Controller) Messages() []models.Message {
	out := make([]models.Message, len(c.state.Messages))
	copy(out, c.state.Messages)
	return out
}

// Phase returns the state machine position
func (c *Controller) Phase() Phase {
	if c.state.Initialized {
		return PhaseInitialized
	}
	return PhaseUninitialized
}

// Busy reports whether an initialize or chat request is in flight
func (c *Controller) Busy() bool {
	return c.state.Busy
}

// Initialized reports the backend initialization flag
func (c *Controller) Initialized() bool {
	return c.state.Initialized
}

// DarkMode reports the theme flag
func (c *Controller) DarkMode() bool {
	return c.state.DarkMode
}

// ErrorText returns the user-visible error banner, empty when none
func (c *Controller) ErrorText() string {
	return c.state.Error
}

// LastErr returns the error behind the current banner, for detailed display
func (c *Controller) LastErr() error {
	return c.lastErr
}

// SetRepoURL updates the repository URL field
func (c *Controller) SetRepoURL(url string) {
	c.state.RepoURL = url
}

// RepoURL returns the repository URL field
func (c *Controller) RepoURL() string {
	return c.state.RepoURL
}

// SetInput updates the question field
func (c *Controller) SetInput(input string) {
	c.state.Input = input
}

// Input returns the question field
func (c *Controller) Input() string {
	return c.state.Input
}

// CanInitialize reports whether the initialize action is enabled
func (c *Controller) CanInitialize() bool {
	return !c.state.Busy && strings.TrimSpace(c.state.RepoURL) != ""
}

// CanSend reports whether the send action is enabled
func (c *Controller) CanSend() bool {
	return !c.state.Busy && strings.TrimSpace(c.state.Input) != ""
}

// ClearError dismisses the error banner
func (c *Controller) ClearError() {
	c.setError("", nil)
}

// ToggleTheme flips the theme flag and returns the new value
func (c *Controller) ToggleTheme() bool {
	c.state.DarkMode = !c.state.DarkMode
	return c.state.DarkMode
}

// Cancel aborts the in-flight request, if any. Its result will be discarded,
// a pending placeholder is removed and the busy flag is cleared.
func (c *Controller) Cancel() bool {
	if !c.state.Busy {
		return false
	}

	c.generation++
	c.releaseRequest()
	if c.pendingID != "" {
		c.removeMessage(c.pendingID)
		c.pendingID = ""
	}
	c.state.Busy = false

	c.logger.Info().Uint64("generation", c.generation).Msg("request cancelled")
	return true
}

// beginRequest starts a new generation with its own cancellable context
func (c *Controller) beginRequest(parent context.Context) (uint64, context.Context) {
	if parent == nil {
		parent = context.Background()
	}
	c.generation++
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.state.Busy = true
	return c.generation, ctx
}

// current reports whether a result belongs to the live request
func (c *Controller) current(generation uint64, op string) bool {
	if generation != c.generation {
		c.logger.Debug().
			Str("op", op).
			Uint64("generation", generation).
			Uint64("current", c.generation).
			Msg("discarding stale result")
		return false
	}
	return true
}

func (c *Controller) releaseRequest() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) setError(text string, err error) {
	c.state.Error = text
	c.lastErr = err
}

func (c *Controller) indexOf(id string) int {
	for i, m := range c.state.Messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) removeMessage(id string) {
	if i := c.indexOf(id); i >= 0 {
		c.state.Messages = append(c.state.Messages[:i], c.state.Messages[i+1:]...)
	}
}

// bannerFor builds the banner text for a failure. Non-2xx answers get the
// generic text alone; other failures append their cause.
func bannerFor(generic string, err error) string {
	if err == nil || apierrors.IsAPIError(err) {
		return generic
	}
	return generic + ": " + err.Error()
}

package session

import (
	"context"
	"strings"

	apierrors "github.com/diogo/repochat/internal/errors"
	"github.com/diogo/repochat/internal/models"
)

// StatusResult is the outcome of a status check
type StatusResult struct {
	Initialized bool
	Err         error
}

// RunStatus queries /status. It does not touch controller state.
func (c *Controller) RunStatus(ctx context.Context) StatusResult {
	initialized, err := c.backend.Status(ctx)
	return StatusResult{Initialized: initialized, Err: err}
}

// CompleteStatus applies a status result. A failure leaves the flag as it was
// and raises the status banner. The flag is only ever promoted: there is no
// transition back to uninitialized.
func (c *Controller) CompleteStatus(res StatusResult) {
	if res.Err != nil {
		c.logger.Warn().Err(res.Err).Msg("status check failed")
		c.setError(bannerFor(models.ErrTextStatusCheck, res.Err), res.Err)
		return
	}

	if strings.HasPrefix(c.state.Error, models.ErrTextStatusCheck) {
		c.setError("", nil)
	}
	if res.Initialized && !c.state.Initialized {
		c.logger.Info().Msg("backend reports repository initialized")
		c.state.Initialized = true
	}
}

// CheckStatus queries /status and applies the result
func (c *Controller) CheckStatus(ctx context.Context) error {
	res := c.RunStatus(ctx)
	c.CompleteStatus(res)
	return res.Err
}

// InitRequest is an initialize call started by BeginInitialize
type InitRequest struct {
	Generation uint64
	RepoURL    string

	ctx context.Context
}

// InitResult is the outcome of RunInitialize
type InitResult struct {
	Generation  uint64
	Initialized bool
	Err         error
	// StatusFailed is set when /initialize succeeded but the follow-up
	// status query did not
	StatusFailed bool
}

// BeginInitialize validates the URL field, clears the banner and marks the
// session busy
func (c *Controller) BeginInitialize(parent context.Context) (*InitRequest, error) {
	if c.state.Busy {
		return nil, apierrors.ErrBusy
	}
	repoURL := strings.TrimSpace(c.state.RepoURL)
	if repoURL == "" {
		return nil, apierrors.ErrEmptyRepoURL
	}

	c.setError("", nil)
	gen, ctx := c.beginRequest(parent)

	c.logger.Info().Uint64("generation", gen).Str("repo_url", repoURL).Msg("initializing repository")
	return &InitRequest{Generation: gen, RepoURL: repoURL, ctx: ctx}, nil
}

// RunInitialize posts to /initialize and, on success, re-queries /status.
// It does not touch controller state.
func (c *Controller) RunInitialize(req *InitRequest) InitResult {
	res := InitResult{Generation: req.Generation}

	if err := c.backend.Initialize(req.ctx, req.RepoURL); err != nil {
		res.Err = err
		return res
	}

	initialized, err := c.backend.Status(req.ctx)
	if err != nil {
		res.Err = err
		res.StatusFailed = true
		return res
	}
	res.Initialized = initialized
	return res
}

// CompleteInitialize applies an initialize result. It reports false when the
// result was stale and discarded.
func (c *Controller) CompleteInitialize(res InitResult) bool {
	if !c.current(res.Generation, "initialize") {
		return false
	}
	c.releaseRequest()
	c.state.Busy = false

	if res.Err != nil {
		c.logger.Warn().Err(res.Err).Bool("status_failed", res.StatusFailed).Msg("initialize failed")
		if res.StatusFailed {
			c.setError(bannerFor(models.ErrTextStatusCheck, res.Err), res.Err)
		} else {
			c.setError(bannerFor(models.ErrTextInitFailed, res.Err), res.Err)
		}
		return true
	}

	if res.Initialized {
		c.state.Initialized = true
	}
	c.state.RepoURL = ""
	c.logger.Info().Bool("initialized", c.state.Initialized).Msg("initialize finished")
	return true
}

// InitializeRepository runs the whole initialize round-trip
func (c *Controller) InitializeRepository(ctx context.Context) error {
	req, err := c.BeginInitialize(ctx)
	if err != nil {
		return err
	}
	res := c.RunInitialize(req)
	c.CompleteInitialize(res)
	return res.Err
}

// ChatRequest is a chat call started by BeginSend
type ChatRequest struct {
	Generation    uint64
	Question      string
	PlaceholderID string

	ctx context.Context
}

// ChatResult is the outcome of RunSend
type ChatResult struct {
	Generation    uint64
	PlaceholderID string
	Answer        string
	Err           error
}

// BeginSend appends the user message and the placeholder, clears the input
// and marks the session busy
func (c *Controller) BeginSend(parent context.Context) (*ChatRequest, error) {
	if c.state.Busy {
		return nil, apierrors.ErrBusy
	}
	question := strings.TrimSpace(c.state.Input)
	if question == "" {
		return nil, apierrors.ErrEmptyQuestion
	}

	c.state.Messages = append(c.state.Messages, models.NewUserMessage(question))
	c.state.Input = ""
	c.setError("", nil)
	gen, ctx := c.beginRequest(parent)

	placeholder := models.NewPlaceholder()
	c.state.Messages = append(c.state.Messages, placeholder)
	c.pendingID = placeholder.ID

	c.logger.Info().Uint64("generation", gen).Int("question_len", len(question)).Msg("sending question")
	return &ChatRequest{
		Generation:    gen,
		Question:      question,
		PlaceholderID: placeholder.ID,
		ctx:           ctx,
	}, nil
}

// RunSend posts the question to /chat. It does not touch controller state.
func (c *Controller) RunSend(req *ChatRequest) ChatResult {
	answer, err := c.backend.Chat(req.ctx, req.Question)
	return ChatResult{
		Generation:    req.Generation,
		PlaceholderID: req.PlaceholderID,
		Answer:        answer,
		Err:           err,
	}
}

// CompleteSend replaces the placeholder with the answer, or removes it and
// raises the chat banner. It reports false when the result was stale.
func (c *Controller) CompleteSend(res ChatResult) bool {
	if !c.current(res.Generation, "chat") {
		return false
	}
	c.releaseRequest()
	c.state.Busy = false
	c.pendingID = ""

	idx := c.indexOf(res.PlaceholderID)

	if res.Err != nil {
		c.logger.Warn().Err(res.Err).Msg("chat failed")
		if idx >= 0 {
			c.state.Messages = append(c.state.Messages[:idx], c.state.Messages[idx+1:]...)
		}
		c.setError(models.ErrTextChatFailed, res.Err)
		return true
	}

	reply := models.NewAssistantMessage(res.Answer)
	if idx >= 0 {
		c.state.Messages[idx] = reply
	} else {
		c.state.Messages = append(c.state.Messages, reply)
	}
	c.logger.Info().Int("answer_len", len(res.Answer)).Msg("answer received")
	return true
}

// SendMessage runs the whole chat round-trip for the current input and
// returns the answer
func (c *Controller) SendMessage(ctx context.Context) (string, error) {
	req, err := c.BeginSend(ctx)
	if err != nil {
		return "", err
	}
	res := c.RunSend(req)
	c.CompleteSend(res)
	return res.Answer, res.Err
}

// Ask sets the input to question and sends it
func (c *Controller) Ask(ctx context.Context, question string) (string, error) {
	c.SetInput(question)
	return c.SendMessage(ctx)
}

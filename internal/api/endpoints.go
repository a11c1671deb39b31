package api

import (
	"context"
	"fmt"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/repochat/internal/errors"
	"github.com/diogo/repochat/internal/models"
)

// maxErrorBody limits how much of an error body is kept for diagnostics
const maxErrorBody = 4096

type initializeRequest struct {
	RepoURL string `json:"repo_url"`
}

type chatRequest struct {
	Question string `json:"question"`
}

// Status reports whether the backend has a repository indexed
func (c *Client) Status(ctx context.Context) (bool, error) {
	resp, err := c.do(ctx, "check status", http.MethodGet, models.PathStatus, nil)
	if err != nil {
		return false, err
	}

	return parseStatus(resp.body)
}

// Initialize asks the backend to clone and index repoURL.
// Only the HTTP status of the answer is checked.
func (c *Client) Initialize(ctx context.Context, repoURL string) error {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return apierrors.ErrEmptyRepoURL
	}

	_, err := c.do(ctx, "initialize repository", http.MethodPost, models.PathInitialize,
		initializeRequest{RepoURL: repoURL})
	return err
}

// Chat sends a question and returns the backend's answer
func (c *Client) Chat(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apierrors.ErrEmptyQuestion
	}

	resp, err := c.do(ctx, "chat", http.MethodPost, models.PathChat,
		chatRequest{Question: question})
	if err != nil {
		return "", err
	}

	return parseAnswer(resp.body)
}

// parseStatus extracts the "initialized" flag from a /status body
func parseStatus(body []byte) (bool, error) {
	if !gjson.ValidBytes(body) {
		return false, apierrors.NewParseError("status response is not valid JSON", "", models.PathStatus)
	}

	result := gjson.GetBytes(body, models.FieldInitialized)
	switch result.Type {
	case gjson.True:
		return true, nil
	case gjson.False:
		return false, nil
	case gjson.Null:
		if !result.Exists() {
			return false, apierrors.NewParseError("missing field", models.FieldInitialized, models.PathStatus)
		}
		return false, apierrors.NewParseError("field is null", models.FieldInitialized, models.PathStatus)
	default:
		return false, apierrors.NewParseError(
			fmt.Sprintf("expected boolean, got %s", result.Type),
			models.FieldInitialized,
			models.PathStatus,
		)
	}
}

// parseAnswer extracts the "answer" text from a /chat body
func parseAnswer(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("chat response is not valid JSON", "", models.PathChat)
	}

	result := gjson.GetBytes(body, models.FieldAnswer)
	if !result.Exists() {
		return "", apierrors.NewParseError("missing field", models.FieldAnswer, models.PathChat)
	}
	if result.Type != gjson.String {
		return "", apierrors.NewParseError(
			fmt.Sprintf("expected string, got %s", result.Type),
			models.FieldAnswer,
			models.PathChat,
		)
	}

	return result.String(), nil
}

// newAPIError builds the error for a non-2xx answer, keeping the backend's
// "detail" text when the body carries one
func newAPIError(status int, path, operation string, body []byte) *apierrors.APIError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	var detail string
	if gjson.ValidBytes(body) {
		d := gjson.GetBytes(body, models.FieldDetail)
		if d.Type == gjson.String {
			detail = d.String()
		} else if d.Exists() {
			detail = d.Raw
		}
	}

	msg := fmt.Sprintf("%s failed with status %d", operation, status)
	if detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}

	return apierrors.NewAPIError(status, path, msg).WithBody(string(body), detail)
}

// Package models contains data types and constants for the repository chat backend.
package models

// Backend endpoints, relative to the configured base URL
const (
	DefaultBaseURL = "http://localhost:8000"

	PathStatus     = "/status"
	PathInitialize = "/initialize"
	PathChat       = "/chat"
)

// GJSON paths for the fields the backend returns
const (
	FieldInitialized = "initialized"
	FieldAnswer      = "answer"
	FieldDetail      = "detail" // FastAPI error body: {"detail": "..."}
)

// Request body fields
const (
	FieldRepoURL  = "repo_url"
	FieldQuestion = "question"
)

// User-visible texts shared by the TUI and the CLI
const (
	PlaceholderText    = "Generating..."
	ErrTextInitFailed  = "Failed to initialize repository"
	ErrTextChatFailed  = "Failed to get response"
	ErrTextStatusCheck = "Failed to check repository status"
)

// DefaultHeaders returns the headers sent with every backend request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
		"User-Agent":   "repochat",
	}
}

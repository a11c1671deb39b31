// Package transcript exports the in-memory conversation to Markdown or JSON.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/repochat/internal/models"
)

// Format is the export file format
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Meta describes the session a transcript came from
type Meta struct {
	Backend    string
	ExportedAt time.Time
}

// FormatForPath picks the format from the file extension. Anything other
// than .json is Markdown.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatMarkdown
}

// completed drops placeholders still waiting for an answer
func completed(messages []models.Message) []models.Message {
	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if m.IsPlaceholder() {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Markdown renders the conversation as a Markdown document
func Markdown(messages []models.Message, meta Meta) string {
	msgs := completed(messages)

	var sb strings.Builder
	sb.WriteString("# Repository chat\n\n")

	if meta.Backend != "" {
		sb.WriteString("**Backend:** ")
		sb.WriteString(meta.Backend)
		sb.WriteString("\n")
	}
	if !meta.ExportedAt.IsZero() {
		sb.WriteString("**Exported:** ")
		sb.WriteString(meta.ExportedAt.Format("2006-01-02 15:04:05"))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(msgs)))

	for i, msg := range msgs {
		role := "User"
		if msg.Role == models.RoleAssistant {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if !msg.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.Timestamp.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(msgs)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type jsonMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type jsonTranscript struct {
	Backend    string        `json:"backend,omitempty"`
	ExportedAt time.Time     `json:"exported_at"`
	Messages   []jsonMessage `json:"messages"`
}

// JSON renders the conversation as indented JSON
func JSON(messages []models.Message, meta Meta) ([]byte, error) {
	msgs := completed(messages)

	export := jsonTranscript{
		Backend:    meta.Backend,
		ExportedAt: meta.ExportedAt,
		Messages:   make([]jsonMessage, len(msgs)),
	}
	for i, m := range msgs {
		export.Messages[i] = jsonMessage{
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}
	}

	return json.MarshalIndent(export, "", "  ")
}

// Render encodes the conversation in the given format
func Render(messages []models.Message, meta Meta, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return JSON(messages, meta)
	case FormatMarkdown:
		return []byte(Markdown(messages, meta)), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// WriteFile exports the conversation to path, choosing the format from its
// extension. The parent directory is created if needed.
func WriteFile(path string, messages []models.Message, meta Meta) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("export path cannot be empty")
	}

	data, err := Render(messages, meta, FormatForPath(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

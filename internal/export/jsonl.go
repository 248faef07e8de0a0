package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/doomlearn/internal"
)

// JSONLExporter exports sessions in JSONL format (one post per line)
type JSONLExporter struct{}

// Export exports a session to JSONL format
func (e *JSONLExporter) Export(session *internal.Session, w io.Writer) error {
	if session == nil {
		return ErrNoSession
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, post := range session.Posts {
		line := struct {
			SessionID string `json:"session_id"`
			internal.Post
		}{
			SessionID: session.ID,
			Post:      post,
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode post %s: %w", post.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}

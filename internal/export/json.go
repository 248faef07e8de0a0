package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/doomlearn/internal"
)

// JSONExporter writes a session as one indented document in the same shape
// the backend returns for get-session, so an export can be read back as a
// Session. Post text is written as-is, without HTML escaping.
type JSONExporter struct{}

// Export writes session to w
func (e *JSONExporter) Export(session *internal.Session, w io.Writer) error {
	if session == nil {
		return ErrNoSession
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(session)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}

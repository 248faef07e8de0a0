package export

import (
	"io"

	"github.com/iksnae/doomlearn/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes a session with the same keys as the JSON export,
// indented by two spaces
type YAMLExporter struct{}

// Export writes session to w
func (e *YAMLExporter) Export(session *internal.Session, w io.Writer) error {
	if session == nil {
		return ErrNoSession
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(session); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}

package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/doomlearn/internal"
)

// ErrNoSession is returned when an exporter is handed a nil session
var ErrNoSession = errors.New("no session to export")

// Formats lists the accepted --format values
var Formats = []string{"jsonl", "md", "yaml", "json"}

// Exporter writes one session in a single format
type Exporter interface {
	Export(session *internal.Session, w io.Writer) error
	Extension() string
}

// NewExporter returns the exporter for format. Names are case-insensitive;
// "markdown" and "yml" are accepted as aliases.
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/doomlearn/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	session := internal.CreateTestSession("s1")

	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(session, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"session_id: s1", "platform: reddit", "generated_posts:", "post_type: question"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}

	var decoded internal.Session
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output does not parse back: %v", err)
	}
	if len(decoded.Posts) != 2 || decoded.Posts[1].ID != "p2" {
		t.Errorf("decoded posts = %+v", decoded.Posts)
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	if got := (&YAMLExporter{}).Extension(); got != "yaml" {
		t.Errorf("Extension() = %v, want yaml", got)
	}
}

func TestYAMLExporter_TwoSpaceIndent(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(internal.CreateTestSession("s1"), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(buf.String(), "generated_posts:\n  - id: p1\n") {
		t.Errorf("posts should be indented by two spaces:\n%s", buf.String())
	}
}

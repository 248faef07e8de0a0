package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/doomlearn/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		session *internal.Session
		want    []string
		notWant []string
	}{
		{
			name:    "basic session",
			session: internal.CreateTestSession("test1"),
			want: []string{
				"# Session test1",
				"**Platform:** reddit",
				"**Created:** 2025-01-02 03:04",
				"**Posts:** 2",
				"> How do hash maps work?",
				"## Title p1",
				"*u/author_p1 · Question · 10 upvotes · 3h ago*",
				"**Sources:**",
				"- [1] source",
				"### Comments",
				"- **u/commenter** (2): Great point",
			},
		},
		{
			name: "untitled tweet uses type label",
			session: &internal.Session{
				ID:       "test2",
				Platform: internal.PlatformTwitter,
				Posts: []internal.Post{
					{ID: "t1", Type: internal.PostTypeRant, Body: "hot take", AuthorHandle: "@dev"},
				},
			},
			want:    []string{"## Rant", "hot take"},
			notWant: []string{"**Created:**", "**Sources:**", "### Comments"},
		},
		{
			name: "escapes emphasis outside code",
			session: &internal.Session{
				ID: "test3",
				Posts: []internal.Post{
					{ID: "x", Title: "t", Body: "**bold**\n```\n**kept**\n```"},
				},
			},
			want: []string{"\\*\\*bold\\*\\*", "**kept**"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&MarkdownExporter{}).Export(tt.session, &buf); err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q", w)
				}
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	long := strings.Repeat("a", 300)
	if got := summarize(long, 280); len([]rune(got)) != 281 {
		t.Errorf("summarize() length = %d, want 281", len([]rune(got)))
	}
	if got := summarize("short", 280); got != "short" {
		t.Errorf("summarize() = %q", got)
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	if got := (&MarkdownExporter{}).Extension(); got != "md" {
		t.Errorf("Extension() = %v, want md", got)
	}
}

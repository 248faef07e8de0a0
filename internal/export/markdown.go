package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/doomlearn/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.Session, w io.Writer) error {
	if session == nil {
		return ErrNoSession
	}
	_, _ = fmt.Fprintf(w, "# Session %s\n\n", session.ID)

	_, _ = fmt.Fprintf(w, "**Platform:** %s  \n", session.Platform)
	if !session.CreatedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", session.CreatedAt.Format("2006-01-02 15:04"))
	}
	_, _ = fmt.Fprintf(w, "**Posts:** %d\n\n", len(session.Posts))

	if src := strings.TrimSpace(session.SourceText); src != "" {
		_, _ = fmt.Fprintf(w, "> %s\n\n", strings.ReplaceAll(summarize(src, 280), "\n", "\n> "))
	}

	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, post := range session.Posts {
		title := post.Title
		if title == "" {
			title = post.Type.Label()
		}
		_, _ = fmt.Fprintf(w, "## %s\n\n", escapeMarkdown(title))
		_, _ = fmt.Fprintf(w, "*%s · %s · %d upvotes · %s*\n\n", post.AuthorHandle, post.Type.Label(), post.Upvotes, post.Timestamp)
		_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(post.Body))

		if len(post.Citations) > 0 {
			_, _ = fmt.Fprintf(w, "**Sources:**\n\n")
			for _, c := range post.Citations {
				_, _ = fmt.Fprintf(w, "- %s\n", c)
			}
			_, _ = fmt.Fprintln(w)
		}

		if len(post.Comments) > 0 {
			_, _ = fmt.Fprintf(w, "### Comments\n\n")
			for _, c := range post.Comments {
				_, _ = fmt.Fprintf(w, "- **%s** (%d): %s\n", c.AuthorHandle, c.Upvotes, escapeMarkdown(c.Body))
			}
			_, _ = fmt.Fprintln(w)
		}

		if i < len(session.Posts)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func summarize(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}

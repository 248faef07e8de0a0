package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/doomlearn/internal"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			Width(80)

	highlightCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("214"))
)

// postView is a post plus the local state shown next to it
type postView struct {
	Post        internal.Post
	Upvotes     int
	Liked       bool
	Saved       bool
	Hidden      bool
	Highlighted bool
}

func viewOf(st *internal.State, p internal.Post) postView {
	return postView{
		Post:        p,
		Upvotes:     st.LikeAdjustedUpvotes(p),
		Liked:       st.IsLiked(p.ID),
		Saved:       st.IsSaved(p.ID),
		Hidden:      st.IsHidden(p.ID),
		Highlighted: st.IsHighlighted(p.ID),
	}
}

func renderPost(w io.Writer, v postView) {
	var b strings.Builder
	switch v.Post.Platform {
	case internal.PlatformTwitter:
		renderTweet(&b, v)
	default:
		renderRedditPost(&b, v)
	}

	style := cardStyle
	if v.Highlighted {
		style = highlightCardStyle
	}
	fmt.Fprintln(w, style.Render(strings.TrimRight(b.String(), "\n")))
}

func renderRedditPost(b *strings.Builder, v postView) {
	p := v.Post
	fmt.Fprintf(b, "%s  %s  %s\n",
		countStyle.Render(fmt.Sprintf("▲ %d", v.Upvotes)),
		handleStyle.Render(p.AuthorHandle),
		dateStyle.Render(p.Timestamp))
	fmt.Fprintf(b, "%s %s\n", typeStyle.Render("["+p.Type.Label()+"]"), titleStyle.Render(p.Title))
	if p.Body != "" {
		fmt.Fprintf(b, "\n%s\n", p.Body)
	}
	renderFooter(b, v, fmt.Sprintf("%d comments", len(p.Comments)))
}

func renderTweet(b *strings.Builder, v postView) {
	p := v.Post
	fmt.Fprintf(b, "%s · %s  %s\n",
		handleStyle.Render(p.AuthorHandle),
		dateStyle.Render(p.Timestamp),
		typeStyle.Render(p.Type.Label()))
	text := p.Body
	if text == "" {
		text = p.Title
	}
	fmt.Fprintf(b, "\n%s\n", text)
	renderFooter(b, v, fmt.Sprintf("%d replies  ♥ %d", len(p.Comments), v.Upvotes))
}

func renderFooter(b *strings.Builder, v postView, counts string) {
	var marks []string
	if v.Liked {
		marks = append(marks, "liked")
	}
	if v.Saved {
		marks = append(marks, "saved")
	}
	if v.Hidden {
		marks = append(marks, "hidden")
	}
	if v.Highlighted {
		marks = append(marks, "highlighted")
	}

	line := counts
	if len(v.Post.Citations) > 0 {
		line += fmt.Sprintf(" · %d sources", len(v.Post.Citations))
	}
	if len(marks) > 0 {
		line += " · " + strings.Join(marks, ", ")
	}
	fmt.Fprintf(b, "\n%s\n%s\n", dateStyle.Render(line), idStyle.Render("id: "+v.Post.ID))
}

func renderComments(w io.Writer, p internal.Post) {
	for _, c := range p.Comments {
		fmt.Fprintf(w, "  %s %s\n    %s\n",
			handleStyle.Render(c.AuthorHandle),
			countStyle.Render(fmt.Sprintf("▲ %d", c.Upvotes)),
			c.Body)
	}
}

func renderSessionHeader(w io.Writer, s internal.ActiveSession, shown int) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s feed · %d posts", s.Platform, shown)))
	fmt.Fprintln(w, idStyle.Render("session: "+s.ID))
	if src := strings.TrimSpace(s.SourceText); src != "" {
		fmt.Fprintln(w, dateStyle.Render(truncate(strings.ReplaceAll(src, "\n", " "), 100)))
	}
	fmt.Fprintln(w)
}

func relativeTime(e internal.HistoryEntry) string {
	if e.CreatedAt.IsZero() {
		return "—"
	}
	return humanize.Time(e.CreatedAt)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("•", len(key))
	}
	return key[:4] + strings.Repeat("•", 4) + key[len(key)-4:]
}

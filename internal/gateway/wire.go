package gateway

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/iksnae/doomlearn/internal"
)

type textIngestRequest struct {
	Prompt string `json:"prompt"`
}

type urlIngestRequest struct {
	URL                string `json:"url"`
	RestrictToDocument bool   `json:"restrict_to_document"`
}

type feedRequest struct {
	SessionID string            `json:"session_id"`
	Platform  internal.Platform `json:"platform"`
	PostCount int               `json:"post_count"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type recommendationsResponse struct {
	Recommendations []string `json:"recommendations"`
}

// sessionResponse mirrors the backend session record. created_at may be
// sent without a zone offset, so it is parsed by hand.
type sessionResponse struct {
	SessionID      string            `json:"session_id"`
	SourceText     string            `json:"source_text"`
	Platform       internal.Platform `json:"platform"`
	GeneratedPosts []internal.Post   `json:"generated_posts"`
	CreatedAt      string            `json:"created_at"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

func parseCreatedAt(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	internal.LogDebug("Unrecognised created_at %q", s)
	return time.Time{}
}

func (r sessionResponse) toSession() internal.Session {
	return internal.Session{
		ID:         r.SessionID,
		SourceText: r.SourceText,
		Platform:   r.Platform,
		Posts:      r.GeneratedPosts,
		CreatedAt:  parseCreatedAt(r.CreatedAt),
	}
}

type errorBody struct {
	Detail detail `json:"detail"`
	Error  string `json:"error"`
}

// detail is either a plain string or a list of validation problems
type detail struct {
	text string
}

func (d *detail) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.text = s
		return nil
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(data, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		d.text = strings.Join(msgs, "; ")
		return nil
	}
	// Anything else falls through to the next message source
	return nil
}

func (d detail) String() string {
	return strings.TrimSpace(d.text)
}

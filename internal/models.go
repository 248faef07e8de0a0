package internal

import (
	"fmt"
	"strings"
	"time"
)

// Platform is the social platform a feed is styled after
type Platform string

const (
	PlatformReddit  Platform = "reddit"
	PlatformTwitter Platform = "twitter"
)

// DefaultPlatform is used when no platform has been chosen
const DefaultPlatform = PlatformReddit

// ParsePlatform validates a platform name
func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformReddit:
		return PlatformReddit, nil
	case PlatformTwitter:
		return PlatformTwitter, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: reddit, twitter)", ErrInvalidPlatform, s)
	}
}

// PostType is the generation-time flavour of a post. The backend may send
// tags this client does not know yet; those are kept verbatim and read back
// as PostTypeUnknown.
type PostType string

const (
	PostTypeQuestion PostType = "question"
	PostTypeCreator  PostType = "creator"
	PostTypeRant     PostType = "rant"
	PostTypeListicle PostType = "listicle"
	PostTypePoll     PostType = "poll"
	PostTypeUnknown  PostType = "unknown"
)

// Kind returns the recognised post type, or PostTypeUnknown
func (t PostType) Kind() PostType {
	switch t {
	case PostTypeQuestion, PostTypeCreator, PostTypeRant, PostTypeListicle, PostTypePoll:
		return t
	default:
		return PostTypeUnknown
	}
}

// Label returns a short display label for the post type
func (t PostType) Label() string {
	switch t.Kind() {
	case PostTypeQuestion:
		return "Question"
	case PostTypeCreator:
		return "Creator"
	case PostTypeRant:
		return "Rant"
	case PostTypeListicle:
		return "Listicle"
	case PostTypePoll:
		return "Poll"
	default:
		return "Post"
	}
}

// Comment is owned by exactly one Post
type Comment struct {
	ID           string   `json:"id" yaml:"id"`
	AuthorHandle string   `json:"author_handle" yaml:"author_handle"`
	Body         string   `json:"body" yaml:"body"`
	Upvotes      int      `json:"upvotes" yaml:"upvotes"`
	Citations    []string `json:"citations" yaml:"citations,omitempty"`
}

// Post is one generated feed item. Posts are never edited locally; user
// actions live in side tables keyed by ID.
type Post struct {
	ID           string    `json:"id" yaml:"id"`
	Platform     Platform  `json:"platform" yaml:"platform"`
	Type         PostType  `json:"post_type" yaml:"post_type"`
	Title        string    `json:"title" yaml:"title"`
	Body         string    `json:"body" yaml:"body"`
	AuthorHandle string    `json:"author_handle" yaml:"author_handle"`
	Upvotes      int       `json:"upvotes" yaml:"upvotes"`
	Timestamp    string    `json:"timestamp" yaml:"timestamp"`
	Citations    []string  `json:"citations" yaml:"citations,omitempty"`
	Comments     []Comment `json:"comments" yaml:"comments,omitempty"`
}

// Clone returns a deep copy of the post
func (p Post) Clone() Post {
	out := p
	out.Citations = append([]string(nil), p.Citations...)
	if p.Comments != nil {
		out.Comments = make([]Comment, len(p.Comments))
		for i, c := range p.Comments {
			c.Citations = append([]string(nil), c.Citations...)
			out.Comments[i] = c
		}
	}
	return out
}

// ClonePosts deep-copies a post slice
func ClonePosts(posts []Post) []Post {
	if posts == nil {
		return nil
	}
	out := make([]Post, len(posts))
	for i, p := range posts {
		out[i] = p.Clone()
	}
	return out
}

// Session is the backend's record of one ingestion and its generated posts
type Session struct {
	ID         string    `json:"session_id" yaml:"session_id"`
	SourceText string    `json:"source_text" yaml:"source_text"`
	Platform   Platform  `json:"platform" yaml:"platform"`
	Posts      []Post    `json:"generated_posts" yaml:"generated_posts"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// DislikeReason is why a user hid a post
type DislikeReason string

const (
	ReasonAlreadyKnow DislikeReason = "already_know"
	ReasonNotRelevant DislikeReason = "not_relevant"
	ReasonTooBasic    DislikeReason = "too_basic"
	ReasonTooAdvanced DislikeReason = "too_advanced"
)

// DislikeReasons lists the accepted reasons in display order
var DislikeReasons = []DislikeReason{
	ReasonAlreadyKnow,
	ReasonNotRelevant,
	ReasonTooBasic,
	ReasonTooAdvanced,
}

// ParseDislikeReason validates a hide reason
func ParseDislikeReason(s string) (DislikeReason, error) {
	r := DislikeReason(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range DislikeReasons {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidReason, s)
}

// DislikedReason is one entry of the hide log
type DislikedReason struct {
	PostID string        `json:"postId" yaml:"post_id"`
	Reason DislikeReason `json:"reason" yaml:"reason"`
}

// HistoryEntry is a frozen snapshot of a generated session
type HistoryEntry struct {
	SessionID  string    `json:"sessionId" yaml:"session_id"`
	SourceText string    `json:"sourceText" yaml:"source_text"`
	Platform   Platform  `json:"platform" yaml:"platform"`
	Posts      []Post    `json:"posts" yaml:"posts"`
	CreatedAt  time.Time `json:"createdAt" yaml:"created_at"`
}

// Credentials are the optional provider keys forwarded to the backend
type Credentials struct {
	GeminiAPIKey  string
	MinimaxAPIKey string
}

// Empty reports whether neither key is set
func (c Credentials) Empty() bool {
	return c.GeminiAPIKey == "" && c.MinimaxAPIKey == ""
}

// GraphNode is a concept extracted from a session's posts
type GraphNode struct {
	ID      string   `json:"id" yaml:"id"`
	Label   string   `json:"label" yaml:"label"`
	Type    string   `json:"type" yaml:"type"`
	PostIDs []string `json:"post_ids" yaml:"post_ids"`
}

// GraphEdge links two nodes
type GraphEdge struct {
	Source       string `json:"source" yaml:"source"`
	Target       string `json:"target" yaml:"target"`
	Relationship string `json:"relationship" yaml:"relationship"`
}

// KnowledgeGraph is the graph derived from a session
type KnowledgeGraph struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes"`
	Edges []GraphEdge `json:"edges" yaml:"edges"`
}

// Node looks up a node by ID
func (g *KnowledgeGraph) Node(id string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}

// Health is the backend's health report
type Health struct {
	Status    string   `json:"status"`
	Providers []string `json:"providers"`
}

// Ingested is what an ingest call yields
type Ingested struct {
	SessionID  string `json:"session_id"`
	SourceText string `json:"source_text"`
	PageCount  int    `json:"page_count,omitempty"`
}

// GeneratedFeed is the result of a generate-feed call
type GeneratedFeed struct {
	SessionID string   `json:"session_id"`
	Platform  Platform `json:"platform"`
	Posts     []Post   `json:"posts"`
}

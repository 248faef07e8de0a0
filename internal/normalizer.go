package internal

import (
	"strings"

	"github.com/google/uuid"
)

// Normalizer makes backend posts safe to install as a session: every post
// gets a non-empty id that is unique within the collection, and a platform.
type Normalizer struct {
	newID func() string
}

// NewNormalizer creates a Normalizer that mints UUIDs for missing ids
func NewNormalizer() *Normalizer {
	return &Normalizer{newID: uuid.NewString}
}

// NormalizePosts returns a normalized copy of posts. Missing or repeated
// ids are replaced, a missing platform is set to platform, and comment ids
// are filled in the same way within each post. Post type tags are left
// untouched so unknown tags survive a round trip.
func (n *Normalizer) NormalizePosts(posts []Post, platform Platform) []Post {
	out := make([]Post, 0, len(posts))
	seen := make(map[string]bool, len(posts))

	for _, p := range posts {
		post := p.Clone()
		post.ID = strings.TrimSpace(post.ID)
		if post.ID == "" || seen[post.ID] {
			if post.ID != "" {
				LogDebug("Duplicate post id %s in feed, assigning a new one", post.ID)
			}
			post.ID = n.newID()
		}
		seen[post.ID] = true

		if post.Platform == "" {
			post.Platform = platform
		}
		post.Comments = n.normalizeComments(post.Comments)
		out = append(out, post)
	}

	return out
}

func (n *Normalizer) normalizeComments(comments []Comment) []Comment {
	if len(comments) == 0 {
		return comments
	}
	seen := make(map[string]bool, len(comments))
	for i := range comments {
		if comments[i].ID == "" || seen[comments[i].ID] {
			comments[i].ID = n.newID()
		}
		seen[comments[i].ID] = true
	}
	return comments
}

// NormalizeSession normalizes a backend session record in place of a copy
func (n *Normalizer) NormalizeSession(s Session) Session {
	if s.Platform == "" {
		s.Platform = DefaultPlatform
	}
	s.Posts = n.NormalizePosts(s.Posts, s.Platform)
	return s
}

package internal

import "time"

// ToggleLike flips the like on postID and returns the new state
func (st *State) ToggleLike(postID string) bool {
	var liked bool
	st.update("like", func(s *PersistedState) bool {
		if containsString(s.LikedPostIDs, postID) {
			out := make([]string, 0, len(s.LikedPostIDs))
			for _, id := range s.LikedPostIDs {
				if id != postID {
					out = append(out, id)
				}
			}
			s.LikedPostIDs = out
			liked = false
		} else {
			s.LikedPostIDs = append(s.LikedPostIDs, postID)
			liked = true
		}
		return true
	})
	return liked
}

// IsLiked reports whether postID is liked
func (st *State) IsLiked(postID string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return containsString(st.persisted.LikedPostIDs, postID)
}

// LikeAdjustedUpvotes is the display count for post: its generation-time
// upvotes plus one when the user likes it
func (st *State) LikeAdjustedUpvotes(post Post) int {
	if st.IsLiked(post.ID) {
		return post.Upvotes + 1
	}
	return post.Upvotes
}

// AddSavedPost stores a snapshot of post. Saving an id that is already
// saved does nothing.
func (st *State) AddSavedPost(post Post) {
	st.update("saved post", func(s *PersistedState) bool {
		for _, p := range s.SavedPosts {
			if p.ID == post.ID {
				return false
			}
		}
		s.SavedPosts = append(s.SavedPosts, post.Clone())
		return true
	})
}

// RemoveSavedPost drops the saved snapshot for postID, if any
func (st *State) RemoveSavedPost(postID string) {
	st.update("unsave", func(s *PersistedState) bool {
		out := make([]Post, 0, len(s.SavedPosts))
		for _, p := range s.SavedPosts {
			if p.ID != postID {
				out = append(out, p)
			}
		}
		if len(out) == len(s.SavedPosts) {
			return false
		}
		s.SavedPosts = out
		return true
	})
}

// IsSaved reports whether postID has a saved snapshot
func (st *State) IsSaved(postID string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, p := range st.persisted.SavedPosts {
		if p.ID == postID {
			return true
		}
	}
	return false
}

// SavedPosts returns the saved snapshots in the order they were saved
func (st *State) SavedPosts() []Post {
	st.mu.Lock()
	defer st.mu.Unlock()
	return ClonePosts(st.persisted.SavedPosts)
}

// HidePost hides postID for good and logs reason. The hidden set never
// holds duplicates; the reason log records every call.
func (st *State) HidePost(postID string, reason DislikeReason) error {
	reason, err := ParseDislikeReason(string(reason))
	if err != nil {
		return err
	}
	st.update("hide", func(s *PersistedState) bool {
		if !containsString(s.HiddenPostIDs, postID) {
			s.HiddenPostIDs = append(s.HiddenPostIDs, postID)
		}
		s.DislikedReasons = append(s.DislikedReasons, DislikedReason{PostID: postID, Reason: reason})
		return true
	})
	return nil
}

// IsHidden reports whether postID is hidden
func (st *State) IsHidden(postID string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return containsString(st.persisted.HiddenPostIDs, postID)
}

// DislikedReasons returns the hide log
func (st *State) DislikedReasons() []DislikedReason {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]DislikedReason{}, st.persisted.DislikedReasons...)
}

// SetHighlightedPosts replaces the highlight set. Highlights are never
// persisted.
func (st *State) SetHighlightedPosts(ids []string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.highlighted = uniqueStrings(ids)
}

// ClearHighlights empties the highlight set
func (st *State) ClearHighlights() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.highlighted = []string{}
}

// HighlightedPostIDs returns the current highlight set
func (st *State) HighlightedPostIDs() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]string{}, st.highlighted...)
}

// IsHighlighted reports whether postID is highlighted
func (st *State) IsHighlighted(postID string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return containsString(st.highlighted, postID)
}

// AddToHistory records entry at the front of the history log
func (st *State) AddToHistory(entry HistoryEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.Posts = ClonePosts(entry.Posts)
	st.update("history", func(s *PersistedState) bool {
		s.History = AddToHistory(s.History, entry)
		return true
	})
}

// History returns the history log, newest first
func (st *State) History() []HistoryEntry {
	return st.Snapshot().History
}

// SetGeminiAPIKey stores the primary provider key verbatim
func (st *State) SetGeminiAPIKey(key string) {
	st.update("credentials", func(s *PersistedState) bool {
		s.GeminiAPIKey = key
		return true
	})
}

// SetMinimaxAPIKey stores the fallback provider key verbatim
func (st *State) SetMinimaxAPIKey(key string) {
	st.update("credentials", func(s *PersistedState) bool {
		s.MinimaxAPIKey = key
		return true
	})
}

// Credentials returns the stored provider keys
func (st *State) Credentials() Credentials {
	st.mu.Lock()
	defer st.mu.Unlock()
	return Credentials{
		GeminiAPIKey:  st.persisted.GeminiAPIKey,
		MinimaxAPIKey: st.persisted.MinimaxAPIKey,
	}
}

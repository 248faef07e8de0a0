package internal

// ActiveSession is the session currently on screen. It is replaced
// wholesale and never persisted.
type ActiveSession struct {
	ID         string   `json:"session_id" yaml:"session_id"`
	SourceText string   `json:"source_text" yaml:"source_text"`
	Platform   Platform `json:"platform" yaml:"platform"`
	Posts      []Post   `json:"posts" yaml:"posts"`
}

func emptySession() ActiveSession {
	return ActiveSession{Platform: DefaultPlatform, Posts: []Post{}}
}

func (s ActiveSession) clone() ActiveSession {
	s.Posts = ClonePosts(s.Posts)
	if s.Posts == nil {
		s.Posts = []Post{}
	}
	return s
}

// Post looks up a post in the session by id
func (s ActiveSession) Post(id string) (Post, bool) {
	for _, p := range s.Posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}

// SetSession replaces the active session. An empty id is ignored.
func (st *State) SetSession(id, sourceText string, platform Platform, posts []Post) {
	if id == "" {
		LogDebug("SetSession called with empty id, ignoring")
		return
	}
	if platform == "" {
		platform = DefaultPlatform
	}
	next := ActiveSession{
		ID:         id,
		SourceText: sourceText,
		Platform:   platform,
		Posts:      ClonePosts(posts),
	}.clone()

	st.mu.Lock()
	defer st.mu.Unlock()
	st.session = next
}

// Reset clears the active session back to its defaults
func (st *State) Reset() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session = emptySession()
}

// HasSession reports whether a session is active
func (st *State) HasSession() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.session.ID != ""
}

// Session returns a copy of the active session
func (st *State) Session() ActiveSession {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.session.clone()
}

// VisiblePosts returns the active session's posts minus hidden ones. It is
// computed from current state on every call.
func (st *State) VisiblePosts() []Post {
	st.mu.Lock()
	defer st.mu.Unlock()

	hidden := make(map[string]bool, len(st.persisted.HiddenPostIDs))
	for _, id := range st.persisted.HiddenPostIDs {
		hidden[id] = true
	}
	visible := make([]Post, 0, len(st.session.Posts))
	for _, p := range st.session.Posts {
		if hidden[p.ID] {
			continue
		}
		visible = append(visible, p.Clone())
	}
	return visible
}

// ToSession converts the active session to a session record
func (s ActiveSession) ToSession() Session {
	return Session{
		ID:         s.ID,
		SourceText: s.SourceText,
		Platform:   s.Platform,
		Posts:      ClonePosts(s.Posts),
	}
}

package internal

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CreateTestPost creates a post with sample content
func CreateTestPost(id string) Post {
	return Post{
		ID:           id,
		Platform:     PlatformReddit,
		Type:         PostTypeQuestion,
		Title:        "Title " + id,
		Body:         "Body of " + id,
		AuthorHandle: "u/author_" + id,
		Upvotes:      10,
		Timestamp:    "3h ago",
		Citations:    []string{"[1] source"},
		Comments: []Comment{
			{ID: id + "-c1", AuthorHandle: "u/commenter", Body: "Great point", Upvotes: 2},
		},
	}
}

// CreateTestPosts creates posts p1..pN
func CreateTestPosts(n int) []Post {
	posts := make([]Post, 0, n)
	for i := 1; i <= n; i++ {
		posts = append(posts, CreateTestPost(fmt.Sprintf("p%d", i)))
	}
	return posts
}

// CreateTestSession creates a session record with two posts
func CreateTestSession(id string) *Session {
	return &Session{
		ID:         id,
		SourceText: "How do hash maps work?",
		Platform:   PlatformReddit,
		Posts:      CreateTestPosts(2),
		CreatedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// CreateTestHistoryEntry creates a history entry with n posts
func CreateTestHistoryEntry(sessionID string, n int) HistoryEntry {
	posts := make([]Post, 0, n)
	for i := 1; i <= n; i++ {
		posts = append(posts, CreateTestPost(fmt.Sprintf("%s-p%d", sessionID, i)))
	}
	return HistoryEntry{
		SessionID:  sessionID,
		SourceText: "source for " + sessionID,
		Platform:   PlatformReddit,
		Posts:      posts,
		CreatedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// FakeBackend is a scripted Backend for tests. Unset funcs fall back to
// canned successes.
type FakeBackend struct {
	mu    sync.Mutex
	calls []string

	HealthFn          func(ctx context.Context) (*Health, error)
	IngestTextFn      func(ctx context.Context, prompt string, platform Platform) (*Ingested, error)
	IngestURLFn       func(ctx context.Context, rawURL string, restrict bool, platform Platform) (*Ingested, error)
	IngestDocumentFn  func(ctx context.Context, doc *Document, platform Platform) (*Ingested, error)
	GenerateFeedFn    func(ctx context.Context, sessionID string, platform Platform, count int, creds Credentials) (*GeneratedFeed, error)
	RecommendationsFn func(ctx context.Context, sessionID string, creds Credentials) ([]string, error)
	GraphFn           func(ctx context.Context, sessionID string, creds Credentials) (*KnowledgeGraph, error)
	GetSessionFn      func(ctx context.Context, sessionID string) (*Session, error)
}

var _ Backend = (*FakeBackend)(nil)

// Calls returns the names of the methods called, in order
func (f *FakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *FakeBackend) Health(ctx context.Context) (*Health, error) {
	f.record("Health")
	if f.HealthFn != nil {
		return f.HealthFn(ctx)
	}
	return &Health{Status: "ok", Providers: []string{"gemini"}}, nil
}

func (f *FakeBackend) IngestText(ctx context.Context, prompt string, platform Platform) (*Ingested, error) {
	f.record("IngestText")
	if f.IngestTextFn != nil {
		return f.IngestTextFn(ctx, prompt, platform)
	}
	return &Ingested{SessionID: "s1", SourceText: prompt}, nil
}

func (f *FakeBackend) IngestURL(ctx context.Context, rawURL string, restrict bool, platform Platform) (*Ingested, error) {
	f.record("IngestURL")
	if f.IngestURLFn != nil {
		return f.IngestURLFn(ctx, rawURL, restrict, platform)
	}
	return &Ingested{SessionID: "s1", SourceText: "page at " + rawURL}, nil
}

func (f *FakeBackend) IngestDocument(ctx context.Context, doc *Document, platform Platform) (*Ingested, error) {
	f.record("IngestDocument")
	if f.IngestDocumentFn != nil {
		return f.IngestDocumentFn(ctx, doc, platform)
	}
	return &Ingested{SessionID: "s1", SourceText: "text of " + doc.Name, PageCount: 1}, nil
}

func (f *FakeBackend) GenerateFeed(ctx context.Context, sessionID string, platform Platform, count int, creds Credentials) (*GeneratedFeed, error) {
	f.record("GenerateFeed")
	if f.GenerateFeedFn != nil {
		return f.GenerateFeedFn(ctx, sessionID, platform, count, creds)
	}
	return &GeneratedFeed{SessionID: sessionID, Platform: platform, Posts: CreateTestPosts(count)}, nil
}

func (f *FakeBackend) GenerateRecommendations(ctx context.Context, sessionID string, creds Credentials) ([]string, error) {
	f.record("GenerateRecommendations")
	if f.RecommendationsFn != nil {
		return f.RecommendationsFn(ctx, sessionID, creds)
	}
	return []string{"Go deeper", "Related topic"}, nil
}

func (f *FakeBackend) GenerateKnowledgeGraph(ctx context.Context, sessionID string, creds Credentials) (*KnowledgeGraph, error) {
	f.record("GenerateKnowledgeGraph")
	if f.GraphFn != nil {
		return f.GraphFn(ctx, sessionID, creds)
	}
	return &KnowledgeGraph{
		Nodes: []GraphNode{
			{ID: "n1", Label: "Hashing", Type: "concept", PostIDs: []string{"p1", "p2"}},
			{ID: "n2", Label: "Buckets", Type: "concept", PostIDs: []string{"p2"}},
		},
		Edges: []GraphEdge{{Source: "n1", Target: "n2", Relationship: "uses"}},
	}, nil
}

func (f *FakeBackend) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	f.record("GetSession")
	if f.GetSessionFn != nil {
		return f.GetSessionFn(ctx, sessionID)
	}
	return nil, ErrSessionNotFound
}

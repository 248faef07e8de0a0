package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultPostCount is how many posts a feed asks for
const DefaultPostCount = 10

// MaxRecommendations caps the follow-up prompts shown for a session
const MaxRecommendations = 5

// Backend is the generation service. Every call may block on the network
// and must return ErrCanceled when ctx is canceled.
type Backend interface {
	Health(ctx context.Context) (*Health, error)
	IngestText(ctx context.Context, prompt string, platform Platform) (*Ingested, error)
	IngestURL(ctx context.Context, rawURL string, restrictToDocument bool, platform Platform) (*Ingested, error)
	IngestDocument(ctx context.Context, doc *Document, platform Platform) (*Ingested, error)
	GenerateFeed(ctx context.Context, sessionID string, platform Platform, postCount int, creds Credentials) (*GeneratedFeed, error)
	GenerateRecommendations(ctx context.Context, sessionID string, creds Credentials) ([]string, error)
	GenerateKnowledgeGraph(ctx context.Context, sessionID string, creds Credentials) (*KnowledgeGraph, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
}

// SourceKind selects how a feed's source material is ingested
type SourceKind string

const (
	SourceTopic    SourceKind = "topic"
	SourceURL      SourceKind = "url"
	SourceDocument SourceKind = "document"
)

// Request describes a new feed
type Request struct {
	Kind               SourceKind
	Topic              string
	URL                string
	RestrictToDocument bool
	DocumentPath       string
	Platform           Platform
	PostCount          int
}

// Feed runs the ingest and generate workflow against a Backend and commits
// results into a State
type Feed struct {
	backend    Backend
	state      *State
	normalizer *Normalizer
	now        func() time.Time
	onStage    func(string)
}

// NewFeed creates a Feed
func NewFeed(backend Backend, state *State) *Feed {
	return &Feed{
		backend:    backend,
		state:      state,
		normalizer: NewNormalizer(),
		now:        time.Now,
	}
}

// OnStage registers a callback told about each workflow stage
func (f *Feed) OnStage(fn func(stage string)) {
	f.onStage = fn
}

func (f *Feed) stage(format string, args ...interface{}) {
	if f.onStage != nil {
		f.onStage(fmt.Sprintf(format, args...))
	}
}

// State returns the state the feed commits into
func (f *Feed) State() *State {
	return f.state
}

// Generate ingests the request's source and generates a feed for it.
//
// Failures before a session id exists are *IngestionError; failures after
// are *GenerationError carrying the id for Retry. Cancellation returns
// ErrCanceled. In every non-success case the active session is untouched.
func (f *Feed) Generate(ctx context.Context, req Request) (*ActiveSession, error) {
	if req.Platform == "" {
		req.Platform = DefaultPlatform
	}
	if _, err := ParsePlatform(string(req.Platform)); err != nil {
		return nil, &IngestionError{Source: string(req.Kind), Err: err}
	}

	f.stage("Reading %s...", sourceLabel(req.Kind))
	ingested, err := f.ingest(ctx, req)
	if err != nil {
		if isCanceled(ctx, err) {
			LogDebug("Ingestion canceled")
			return nil, ErrCanceled
		}
		return nil, &IngestionError{Source: string(req.Kind), Err: err}
	}
	LogDebug("Ingested %s source into session %s (%d chars)", req.Kind, ingested.SessionID, len(ingested.SourceText))

	return f.generate(ctx, ingested.SessionID, ingested.SourceText, req)
}

// Retry regenerates the feed for a session whose generation failed,
// skipping ingestion. An empty req.Platform keeps the platform the session
// was ingested with, taken from the error, local history or the backend in
// that order.
func (f *Feed) Retry(ctx context.Context, failed *GenerationError, req Request) (*ActiveSession, error) {
	if failed == nil || failed.SessionID == "" {
		return nil, errors.New("nothing to retry")
	}
	sourceText, platform := failed.SourceText, failed.Platform
	if entry, ok := FindHistoryEntry(f.state.History(), failed.SessionID); ok {
		if sourceText == "" {
			sourceText = entry.SourceText
		}
		if platform == "" {
			platform = entry.Platform
		}
	}
	if sourceText == "" || (platform == "" && req.Platform == "") {
		// A retry from a fresh process only knows the id
		remote, err := f.backend.GetSession(ctx, failed.SessionID)
		switch {
		case err == nil && remote != nil:
			if sourceText == "" {
				sourceText = remote.SourceText
			}
			if platform == "" {
				platform = remote.Platform
			}
		case isCanceled(ctx, err):
			return nil, ErrCanceled
		}
	}
	if req.Platform == "" {
		req.Platform = DefaultPlatform
		if p, err := ParsePlatform(string(platform)); err == nil {
			req.Platform = p
		}
	} else {
		p, err := ParsePlatform(string(req.Platform))
		if err != nil {
			return nil, err
		}
		req.Platform = p
	}
	return f.generate(ctx, failed.SessionID, sourceText, req)
}

func (f *Feed) ingest(ctx context.Context, req Request) (*Ingested, error) {
	var (
		ingested *Ingested
		err      error
	)
	switch req.Kind {
	case SourceTopic:
		if strings.TrimSpace(req.Topic) == "" {
			return nil, errors.New("please enter a topic")
		}
		ingested, err = f.backend.IngestText(ctx, req.Topic, req.Platform)
	case SourceURL:
		if strings.TrimSpace(req.URL) == "" {
			return nil, errors.New("please enter a URL")
		}
		ingested, err = f.backend.IngestURL(ctx, strings.TrimSpace(req.URL), req.RestrictToDocument, req.Platform)
	case SourceDocument:
		if req.DocumentPath == "" {
			return nil, errors.New("please choose a PDF")
		}
		doc, docErr := ReadDocument(req.DocumentPath)
		if docErr != nil {
			return nil, docErr
		}
		ingested, err = f.backend.IngestDocument(ctx, doc, req.Platform)
		if err == nil {
			LogDebug("Uploaded %s (%d pages)", doc.Name, ingested.PageCount)
		}
	default:
		return nil, fmt.Errorf("unknown source kind %q", req.Kind)
	}
	if err != nil {
		return nil, err
	}
	if ingested == nil || ingested.SessionID == "" {
		return nil, errors.New("backend returned no session id")
	}
	return ingested, nil
}

func (f *Feed) generate(ctx context.Context, sessionID, sourceText string, req Request) (*ActiveSession, error) {
	count := req.PostCount
	if count <= 0 {
		count = DefaultPostCount
	}

	f.stage("Generating %d posts...", count)
	generated, err := f.backend.GenerateFeed(ctx, sessionID, req.Platform, count, f.state.Credentials())
	if err != nil {
		if isCanceled(ctx, err) {
			LogDebug("Generation for %s canceled", sessionID)
			return nil, ErrCanceled
		}
		return nil, &GenerationError{SessionID: sessionID, SourceText: sourceText, Platform: req.Platform, Err: err}
	}
	// The response may land just as the user cancels; nothing is committed
	// once cancellation is visible.
	if ctx.Err() != nil {
		return nil, ErrCanceled
	}

	platform := req.Platform
	if generated.Platform != "" {
		if p, perr := ParsePlatform(string(generated.Platform)); perr == nil {
			platform = p
		}
	}
	posts := f.normalizer.NormalizePosts(generated.Posts, platform)

	f.state.SetSession(sessionID, sourceText, platform, posts)
	f.state.AddToHistory(HistoryEntry{
		SessionID:  sessionID,
		SourceText: sourceText,
		Platform:   platform,
		Posts:      posts,
		CreatedAt:  f.now(),
	})
	LogInfo("Generated %d posts for session %s", len(posts), sessionID)

	session := f.state.Session()
	return &session, nil
}

// Open makes sessionID the active session. It looks at the active session,
// then local history, then the backend. When none of them has it, the
// active session is reset and ErrSessionNotFound is returned.
func (f *Feed) Open(ctx context.Context, sessionID string) (*ActiveSession, error) {
	if sessionID == "" {
		f.state.Reset()
		return nil, ErrSessionNotFound
	}

	if current := f.state.Session(); current.ID == sessionID {
		return &current, nil
	}

	if entry, ok := FindHistoryEntry(f.state.History(), sessionID); ok && len(entry.Posts) > 0 {
		LogDebug("Opening session %s from history", sessionID)
		f.state.SetSession(entry.SessionID, entry.SourceText, entry.Platform, entry.Posts)
		session := f.state.Session()
		return &session, nil
	}

	remote, err := f.backend.GetSession(ctx, sessionID)
	if err != nil {
		if isCanceled(ctx, err) {
			return nil, ErrCanceled
		}
		LogWarn("Failed to load session %s: %v", sessionID, err)
		f.state.Reset()
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, UserMessage(err))
	}
	if ctx.Err() != nil {
		return nil, ErrCanceled
	}

	normalized := f.normalizer.NormalizeSession(*remote)
	if normalized.ID == "" || len(normalized.Posts) == 0 {
		LogWarn("Session %s has no generated posts", sessionID)
		f.state.Reset()
		return nil, ErrSessionNotFound
	}

	f.state.SetSession(normalized.ID, normalized.SourceText, normalized.Platform, normalized.Posts)
	session := f.state.Session()
	return &session, nil
}

// Recommendations returns follow-up topic prompts for a session
func (f *Feed) Recommendations(ctx context.Context, sessionID string) ([]string, error) {
	recs, err := f.backend.GenerateRecommendations(ctx, sessionID, f.state.Credentials())
	if err != nil {
		if isCanceled(ctx, err) {
			return nil, ErrCanceled
		}
		return nil, err
	}
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	return out, nil
}

// KnowledgeGraph fetches the concept graph for a session
func (f *Feed) KnowledgeGraph(ctx context.Context, sessionID string) (*KnowledgeGraph, error) {
	graph, err := f.backend.GenerateKnowledgeGraph(ctx, sessionID, f.state.Credentials())
	if err != nil {
		if isCanceled(ctx, err) {
			return nil, ErrCanceled
		}
		return nil, err
	}
	return graph, nil
}

// HighlightNode highlights the posts behind a graph node
func (f *Feed) HighlightNode(graph *KnowledgeGraph, nodeID string) (GraphNode, error) {
	node, ok := graph.Node(nodeID)
	if !ok {
		return GraphNode{}, fmt.Errorf("node %q not in graph", nodeID)
	}
	f.state.SetHighlightedPosts(node.PostIDs)
	return node, nil
}

// Health reports backend status
func (f *Feed) Health(ctx context.Context) (*Health, error) {
	return f.backend.Health(ctx)
}

func sourceLabel(kind SourceKind) string {
	switch kind {
	case SourceURL:
		return "page"
	case SourceDocument:
		return "document"
	default:
		return "topic"
	}
}

func isCanceled(ctx context.Context, err error) bool {
	if errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled) {
		return true
	}
	return ctx.Err() == context.Canceled
}

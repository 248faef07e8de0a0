package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheVersion is bumped when the cached graph format changes
const CacheVersion = "1.0"

// CacheManager keeps knowledge graphs on disk so a session's graph is only
// generated once per set of posts
type CacheManager struct {
	cacheDir string
	now      func() time.Time
}

// CacheMetadata stores metadata about the cache
type CacheMetadata struct {
	CacheVersion string    `yaml:"cache_version"`
	CreatedAt    time.Time `yaml:"created_at"`
	UpdatedAt    time.Time `yaml:"updated_at"`
}

// GraphIndexEntry represents a cached graph in the index
type GraphIndexEntry struct {
	SessionID   string    `yaml:"session_id"`
	PostsDigest string    `yaml:"posts_digest"`
	NodeCount   int       `yaml:"node_count"`
	EdgeCount   int       `yaml:"edge_count"`
	CachedAt    time.Time `yaml:"cached_at"`
}

// GraphIndex is the YAML index of all cached graphs
type GraphIndex struct {
	Graphs   []GraphIndexEntry `yaml:"graphs"`
	Metadata CacheMetadata     `yaml:"metadata"`
}

// NewCacheManager creates a new cache manager
func NewCacheManager(cacheDir string) *CacheManager {
	return &CacheManager{
		cacheDir: cacheDir,
		now:      time.Now,
	}
}

// EnsureCacheDir ensures the cache directory exists
func (cm *CacheManager) EnsureCacheDir() error {
	return os.MkdirAll(cm.cacheDir, 0755)
}

// GetCacheDir returns the cache directory path
func (cm *CacheManager) GetCacheDir() string {
	return cm.cacheDir
}

// GetIndexPath returns the path to the graph index YAML file
func (cm *CacheManager) GetIndexPath() string {
	return filepath.Join(cm.cacheDir, "graphs.yaml")
}

// GetGraphPath returns the path to a session's cached graph. The id comes
// from the backend and is escaped so it always names a file in the cache dir.
func (cm *CacheManager) GetGraphPath(sessionID string) string {
	return filepath.Join(cm.cacheDir, fmt.Sprintf("graph_%s.json", url.PathEscape(sessionID)))
}

// IsCacheValid reports whether the cached graph for sessionID was built
// from exactly these posts
func (cm *CacheManager) IsCacheValid(sessionID string, posts []Post) (bool, error) {
	index, err := cm.LoadIndex()
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if index.Metadata.CacheVersion != CacheVersion {
		return false, nil
	}

	entry, ok := index.find(sessionID)
	if !ok || entry.PostsDigest != PostsDigest(posts) {
		return false, nil
	}
	if _, err := os.Stat(cm.GetGraphPath(sessionID)); err != nil {
		return false, nil
	}
	return true, nil
}

// LoadIndex loads the graph index
func (cm *CacheManager) LoadIndex() (*GraphIndex, error) {
	data, err := os.ReadFile(cm.GetIndexPath())
	if err != nil {
		return nil, err
	}

	var index GraphIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, &ParseError{Source: "graphs.yaml", Key: cm.GetIndexPath(), Err: err}
	}
	return &index, nil
}

// SaveIndex saves the graph index
func (cm *CacheManager) SaveIndex(index *GraphIndex) error {
	if err := cm.EnsureCacheDir(); err != nil {
		return err
	}

	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	return os.WriteFile(cm.GetIndexPath(), data, 0644)
}

// LoadGraph returns the cached graph for sessionID when it is still valid
// for posts
func (cm *CacheManager) LoadGraph(sessionID string, posts []Post) (*KnowledgeGraph, bool) {
	valid, err := cm.IsCacheValid(sessionID, posts)
	if err != nil {
		LogWarn("Graph cache unreadable, ignoring: %v", err)
		return nil, false
	}
	if !valid {
		return nil, false
	}

	data, err := os.ReadFile(cm.GetGraphPath(sessionID))
	if err != nil {
		return nil, false
	}
	var graph KnowledgeGraph
	if err := json.Unmarshal(data, &graph); err != nil {
		LogWarn("%v", &ParseError{Source: "graph cache", Key: sessionID, Err: err})
		return nil, false
	}
	return &graph, true
}

// SaveGraph writes graph to the cache and updates the index
func (cm *CacheManager) SaveGraph(sessionID string, posts []Post, graph *KnowledgeGraph) error {
	if err := cm.EnsureCacheDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}
	if err := os.WriteFile(cm.GetGraphPath(sessionID), data, 0644); err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}

	now := cm.now()
	index, err := cm.LoadIndex()
	if err != nil || index.Metadata.CacheVersion != CacheVersion {
		index = &GraphIndex{
			Graphs: make([]GraphIndexEntry, 0, 1),
			Metadata: CacheMetadata{
				CacheVersion: CacheVersion,
				CreatedAt:    now,
			},
		}
	}
	index.Metadata.UpdatedAt = now

	entry := GraphIndexEntry{
		SessionID:   sessionID,
		PostsDigest: PostsDigest(posts),
		NodeCount:   len(graph.Nodes),
		EdgeCount:   len(graph.Edges),
		CachedAt:    now,
	}
	found := false
	for i := range index.Graphs {
		if index.Graphs[i].SessionID == sessionID {
			index.Graphs[i] = entry
			found = true
			break
		}
	}
	if !found {
		index.Graphs = append(index.Graphs, entry)
	}

	return cm.SaveIndex(index)
}

// ClearCache removes every cached graph and the index
func (cm *CacheManager) ClearCache() error {
	index, err := cm.LoadIndex()
	if err == nil {
		for _, entry := range index.Graphs {
			_ = os.Remove(cm.GetGraphPath(entry.SessionID))
		}
	}

	if err := os.Remove(cm.GetIndexPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (idx *GraphIndex) find(sessionID string) (GraphIndexEntry, bool) {
	for _, e := range idx.Graphs {
		if e.SessionID == sessionID {
			return e, true
		}
	}
	return GraphIndexEntry{}, false
}

// PostsDigest hashes the ids and text of posts, in order
func PostsDigest(posts []Post) string {
	h := sha256.New()
	for _, p := range posts {
		h.Write([]byte(p.ID))
		h.Write([]byte{0})
		h.Write([]byte(p.Title))
		h.Write([]byte{0})
		h.Write([]byte(p.Body))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

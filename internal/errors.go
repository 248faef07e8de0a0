package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrCanceled is returned when the user aborts an in-flight request.
	// It is not a failure and is never wrapped in IngestionError or
	// GenerationError.
	ErrCanceled = errors.New("canceled")

	// ErrSessionNotFound is returned when a session id resolves nowhere
	ErrSessionNotFound = errors.New("session not found")

	ErrInvalidReason   = errors.New("invalid hide reason")
	ErrInvalidPlatform = errors.New("invalid platform")
	ErrNoSession       = errors.New("no active session")
)

// StorageError represents errors accessing the persistent store
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "migrate"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors decoding persisted or received data
type ParseError struct {
	Source string // "state.json", "slots", "backend"
	Key    string // slot name or route
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// APIError is a non-success response from the backend. Message is the
// human readable text taken from the response body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IngestionError means no session was created
type IngestionError struct {
	Source string // "topic", "url", "document"
	Err    error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion failed [%s]: %v", e.Source, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// GenerationError means ingestion succeeded but feed generation did not.
// SessionID and Platform are kept so a retry can skip ingestion and
// regenerate in the same style.
type GenerationError struct {
	SessionID  string
	SourceText string
	Platform   Platform
	Err        error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed [%s]: %v", e.SessionID, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to show for err: the backend's own message
// when there is one, otherwise the error string.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

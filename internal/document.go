package internal

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// MaxDocumentSize is the largest document the backend accepts
const MaxDocumentSize = 10 * 1024 * 1024

// DocumentMIME is the only accepted document type
const DocumentMIME = "application/pdf"

// Document is an uploaded source file
type Document struct {
	Name string
	Data []byte
}

// ReadDocument loads and validates a document from disk
func ReadDocument(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if info.Size() > MaxDocumentSize {
		return nil, fmt.Errorf("document is %s, must be under %s",
			humanize.IBytes(uint64(info.Size())), humanize.IBytes(MaxDocumentSize))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	doc := &Document{Name: info.Name(), Data: data}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks size and sniffs the content type
func (d *Document) Validate() error {
	if len(d.Data) == 0 {
		return fmt.Errorf("document %s is empty", d.Name)
	}
	if len(d.Data) > MaxDocumentSize {
		return fmt.Errorf("document is %s, must be under %s",
			humanize.IBytes(uint64(len(d.Data))), humanize.IBytes(MaxDocumentSize))
	}
	if mt := mimetype.Detect(d.Data); !mt.Is(DocumentMIME) {
		return fmt.Errorf("document %s must be a PDF, detected %s", d.Name, mt.String())
	}
	return nil
}

// Package adapter contains IO adapters for the ampliquid CLI: document
// files, the de-para mapping table and the Excel run logbook.
package adapter

import (
	"fmt"
	"os"
	"strings"

	m "ampliquid.dev/pkg/ampliquid/internal/model"
)

// DocumentStore abstracts reading and writing the HTML documents under
// conversion, so the workflow can be tested without touching the disk.
type DocumentStore interface {
	// ReadDocument loads a document as text with line endings normalized to
	// a single newline form.
	ReadDocument(path m.Path) (string, error)

	// WriteDocument writes the converted document.
	WriteDocument(path m.Path, content string) error
}

// LocalDocumentStore implements DocumentStore on the local filesystem.
type LocalDocumentStore struct{}

// NewLocalDocumentStore creates a LocalDocumentStore.
func NewLocalDocumentStore() *LocalDocumentStore {
	return &LocalDocumentStore{}
}

// ReadDocument loads the file and normalizes CRLF and bare CR to LF so every
// pass sees one newline form.
func (s *LocalDocumentStore) ReadDocument(path m.Path) (string, error) {
	raw, err := os.ReadFile(string(path))
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", path, err)
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return text, nil
}

// WriteDocument writes the converted document with 0644 permissions.
func (s *LocalDocumentStore) WriteDocument(path m.Path, content string) error {
	if err := os.WriteFile(string(path), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write document %s: %w", path, err)
	}

	return nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/splitgrid/pkg/document"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
)

// FileStore keeps each document in <dir>/<id>.json.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates the directory if needed. An empty baseDir defaults to
// ~/.local/share/splitgrid/documents.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "splitgrid", "documents")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) documentPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(_ context.Context, id string) (*document.Document, error) {
	if err := errs.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := document.ReadFile(s.documentPath(id))
	if errs.Is(err, errs.ErrCodeFileNotFound) {
		return nil, notFound(id)
	}
	return doc, err
}

func (s *FileStore) Put(_ context.Context, doc *document.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	tmp := s.documentPath(doc.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write document %s", doc.ID)
	}
	if err := os.Rename(tmp, s.documentPath(doc.ID)); err != nil {
		os.Remove(tmp)
		return errs.Wrap(errs.ErrCodeStorage, err, "write document %s", doc.ID)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := errs.ValidateDocumentID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.documentPath(id))
	if os.IsNotExist(err) {
		return notFound(id)
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "remove document %s", id)
	}
	return nil
}

// List skips files that fail to parse.
func (s *FileStore) List(_ context.Context) ([]*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read document dir")
	}
	var docs []*document.Document
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		doc, err := document.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	sortDocuments(docs)
	return docs, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory holding document files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)

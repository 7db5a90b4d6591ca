package store

import (
	"context"
	"sync"

	"github.com/matzehuels/splitgrid/pkg/document"
)

// MemoryStore keeps documents in memory. Documents are copied on the way in
// and out so callers cannot mutate stored state.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]document.Document
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]document.Document)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	return &doc, nil
}

func (s *MemoryStore) Put(_ context.Context, doc *document.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = *doc
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return notFound(id)
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*document.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, &doc)
	}
	sortDocuments(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

// Package store persists layout documents.
//
// Three backends implement [Store]:
//   - [MemoryStore]: in-process map for tests and `serve --store memory`
//   - [FileStore]: one JSON file per document, for the CLI
//   - [MongoStore]: a MongoDB collection, for multi-instance servers
//
// Get returns an error with code DOCUMENT_NOT_FOUND for unknown IDs. Put
// replaces any existing document with the same ID.
package store

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/splitgrid/pkg/document"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
)

// Store is a document repository.
type Store interface {
	Get(ctx context.Context, id string) (*document.Document, error)
	Put(ctx context.Context, doc *document.Document) error
	Delete(ctx context.Context, id string) error
	// List returns every document, most recently updated first.
	List(ctx context.Context) ([]*document.Document, error)
	Close() error
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeDocumentNotFound, "document %q not found", id)
}

func sortDocuments(docs []*document.Document) {
	slices.SortFunc(docs, func(a, b *document.Document) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

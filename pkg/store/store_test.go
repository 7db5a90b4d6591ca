package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/splitgrid/pkg/core/grid"
	"github.com/matzehuels/splitgrid/pkg/document"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
)

func newDoc(t *testing.T, id string, updated time.Time) *document.Document {
	t.Helper()
	doc, err := document.New(id, grid.Horizontal, 80, 24)
	if err != nil {
		t.Fatal(err)
	}
	doc.ID = id
	doc.UpdatedAt = updated
	return doc
}

func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := s.Get(ctx, "missing"); !errs.Is(err, errs.ErrCodeDocumentNotFound) {
		t.Errorf("Get(missing) = %v, want DOCUMENT_NOT_FOUND", err)
	}

	older := newDoc(t, "older", base)
	newer := newDoc(t, "newer", base.Add(time.Hour))
	for _, d := range []*document.Document{older, newer} {
		if err := s.Put(ctx, d); err != nil {
			t.Fatalf("Put(%s): %v", d.ID, err)
		}
	}

	got, err := s.Get(ctx, "older")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "older" || got.Layout.Width != 80 {
		t.Errorf("Get returned %+v", got)
	}

	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "newer" || docs[1].ID != "older" {
		t.Errorf("List order = %v", ids(docs))
	}

	older.Name = "renamed"
	if err := s.Put(ctx, older); err != nil {
		t.Fatalf("Put(replace): %v", err)
	}
	if got, _ := s.Get(ctx, "older"); got.Name != "renamed" {
		t.Errorf("replaced name = %q", got.Name)
	}

	if err := s.Delete(ctx, "older"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "older"); !errs.Is(err, errs.ErrCodeDocumentNotFound) {
		t.Errorf("second Delete = %v, want DOCUMENT_NOT_FOUND", err)
	}

	bad := newDoc(t, "x", base)
	bad.ID = "../escape"
	if err := s.Put(ctx, bad); err == nil {
		t.Error("Put with traversal id should fail")
	}
}

func ids(docs []*document.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := newDoc(t, "a", time.Now())
	s.Put(ctx, doc)

	doc.Name = "mutated"
	got, _ := s.Get(ctx, "a")
	if got.Name != "a" {
		t.Error("stored document should not alias the caller's value")
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	testStore(t, s)
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	ctx := context.Background()

	s.Put(ctx, newDoc(t, "good", time.Now()))
	os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644)

	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "good" {
		t.Errorf("List = %v, want [good]", ids(docs))
	}
	if s.Path() != dir {
		t.Errorf("Path() = %s, want %s", s.Path(), dir)
	}
}

func TestMongoOptionsDefaults(t *testing.T) {
	var o MongoOptions
	o.SetDefaults()
	if o.URI != "mongodb://localhost:27017" || o.Database != "splitgrid" || o.Collection != "documents" {
		t.Errorf("defaults = %+v", o)
	}
	if o.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", o.Timeout)
	}
}

func TestMongoRecordDocument(t *testing.T) {
	rec := mongoRecord{ID: "a", Layout: `{"root":{"type":"branch","size":24,"orientation":"horizontal","data":[]},"width":80,"height":24,"orientation":"horizontal"}`}
	doc, err := rec.document()
	if err != nil {
		t.Fatalf("document(): %v", err)
	}
	if doc.Layout.Width != 80 || doc.Layout.Orientation != grid.Horizontal {
		t.Errorf("layout = %+v", doc.Layout)
	}

	rec.Layout = "{"
	if _, err := rec.document(); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("corrupt layout = %v, want INVALID_FORMAT", err)
	}
}

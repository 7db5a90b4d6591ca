package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/splitgrid/pkg/core/grid"
	"github.com/matzehuels/splitgrid/pkg/document"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
	"github.com/matzehuels/splitgrid/pkg/workspace"
)

// DocumentSummary is a list entry.
type DocumentSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest is the body of POST /documents.
type CreateRequest struct {
	Name        string           `json:"name"`
	Orientation grid.Orientation `json:"orientation"`
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
}

// OpsRequest is the body of POST /documents/{id}/ops.
type OpsRequest struct {
	Ops []workspace.Op `json:"ops"`
}

// LocationResponse answers GET /documents/{id}/locations/{region}.
type LocationResponse struct {
	Region    string          `json:"region"`
	Location  grid.Location   `json:"location"`
	Direction *grid.Direction `json:"direction,omitempty"`
	Relative  grid.Location   `json:"relative,omitempty"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := s.runner.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]DocumentSummary, len(docs))
	for i, d := range docs {
		out[i] = DocumentSummary{
			ID:        d.ID,
			Name:      d.Name,
			Width:     d.Layout.Width,
			Height:    d.Layout.Height,
			UpdatedAt: d.UpdatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.runner.Create(r.Context(), req.Name, req.Orientation, req.Width, req.Height)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/documents/"+doc.ID)
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.Inspect(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handlePut imports a complete document. The layout must rebuild cleanly.
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	var doc document.Document
	if err := decodeBody(w, r, &doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if doc.ID == "" {
		doc.ID = id
	}
	if doc.ID != id {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "body id %q does not match path id %q", doc.ID, id))
		return
	}
	if err := s.runner.Put(r.Context(), &doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &doc)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.runner.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOps(w http.ResponseWriter, r *http.Request) {
	var req OpsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Ops) == 0 {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "no operations"))
		return
	}
	res, err := s.runner.Apply(r.Context(), chi.URLParam(r, "id"), req.Ops...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

var contentTypes = map[string]string{
	workspace.FormatText:  "text/plain; charset=utf-8",
	workspace.FormatBoxes: "application/json",
	workspace.FormatDOT:   "text/vnd.graphviz",
	workspace.FormatSVG:   "image/svg+xml",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := workspace.RenderOptions{
		Format:   q.Get("format"),
		Selected: q.Get("selected"),
		Detailed: q.Get("detailed") == "true",
		Refresh:  q.Get("refresh") == "true",
	}
	opts.SetDefaults()
	var err error
	if opts.Width, err = floatParam(q.Get("width")); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Height, err = floatParam(q.Get("height")); err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := s.runner.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, hit, err := s.runner.RenderWithCacheInfo(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[opts.Format])
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func floatParam(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid number %q", v)
	}
	return f, nil
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	_, g, err := s.runner.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	region := chi.URLParam(r, "region")
	loc, err := g.LocationOf(region)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := LocationResponse{Region: region, Location: loc}

	if d := r.URL.Query().Get("direction"); d != "" {
		dir, err := grid.ParseDirection(d)
		if err != nil {
			s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidDirection, err, "direction"))
			return
		}
		rel, err := g.RelativeLocation(loc, dir)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Direction, resp.Relative = &dir, rel
	}
	writeJSON(w, http.StatusOK, resp)
}

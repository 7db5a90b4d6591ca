package pane

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/matzehuels/splitgrid/pkg/core/grid"
	"github.com/matzehuels/splitgrid/pkg/core/splitview"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
)

func TestNew(t *testing.T) {
	p, err := New("Editor", WithMinimumSize(20, 5), WithPriority(splitview.PriorityHigh))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(p.ID()) != 36 {
		t.Errorf("generated ID %q is not a UUID", p.ID())
	}
	if p.Title() != "Editor" {
		t.Errorf("Title() = %q", p.Title())
	}
	if p.MinimumWidth() != 20 || p.MinimumHeight() != 5 {
		t.Errorf("minimum = %vx%v, want 20x5", p.MinimumWidth(), p.MinimumHeight())
	}
	if !math.IsInf(p.MaximumWidth(), 1) || !math.IsInf(p.MaximumHeight(), 1) {
		t.Error("zero maximum should be unbounded")
	}
	if p.Priority() != splitview.PriorityHigh {
		t.Errorf("Priority() = %v", p.Priority())
	}
}

func TestTitleFallsBackToID(t *testing.T) {
	p, _ := New("", WithID("logs"))
	if p.Title() != "logs" {
		t.Errorf("Title() = %q, want logs", p.Title())
	}
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		code errs.Code
	}{
		{"valid", Spec{ID: "a", MinWidth: 10, MaxWidth: 20}, ""},
		{"unbounded max", Spec{ID: "a", MinWidth: 10}, ""},
		{"empty id", Spec{}, errs.ErrCodeInvalidRegion},
		{"bad id", Spec{ID: "a/b"}, errs.ErrCodeInvalidRegion},
		{"negative min", Spec{ID: "a", MinHeight: -1}, errs.ErrCodeInvalidInput},
		{"max below min", Spec{ID: "a", MinWidth: 30, MaxWidth: 20}, errs.ErrCodeInvalidRegion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFactoryRoundTrip(t *testing.T) {
	p, _ := New("Logs", WithID("logs"), WithMaximumSize(0, 12), WithSnap(true), WithPriority(splitview.PriorityLow))
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"id":"logs","title":"Logs","max_height":12,"priority":"low","snap":true}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	r, err := Factory(data)
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	if r.(*Pane).Spec() != p.Spec() {
		t.Errorf("Factory spec = %+v, want %+v", r.(*Pane).Spec(), p.Spec())
	}
}

func TestFactoryErrors(t *testing.T) {
	if _, err := Factory(json.RawMessage(`{`)); !errs.Is(err, errs.ErrCodeInvalidRegion) {
		t.Errorf("malformed payload: %v", err)
	}
	if _, err := Factory(json.RawMessage(`{"title":"x"}`)); !errs.Is(err, errs.ErrCodeInvalidRegion) {
		t.Errorf("missing id: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	p, _ := New("A", WithID("a"))
	if err := p.Update(func(s *Spec) { s.MinWidth = 15; s.ID = "renamed" }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.ID() != "a" {
		t.Error("Update should not change the identifier")
	}
	if p.MinimumWidth() != 15 {
		t.Errorf("MinimumWidth() = %v, want 15", p.MinimumWidth())
	}
	if err := p.Update(func(s *Spec) { s.MaxWidth = 5 }); err == nil {
		t.Error("Update with max below min should fail")
	}
	if p.MaximumWidth() != math.Inf(1) {
		t.Error("failed Update should leave the spec unchanged")
	}
}

func TestPanesInGrid(t *testing.T) {
	g := grid.New(grid.Horizontal)
	g.Layout(100, 40)
	a, _ := New("A", WithID("a"), WithMinimumSize(30, 0))
	b, _ := New("B", WithID("b"))
	if err := g.AddView(a, splitview.Distribute, grid.Location{0}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddView(b, splitview.Distribute, grid.Location{1}); err != nil {
		t.Fatal(err)
	}
	g.Layout(100, 40)

	w, h := a.Size()
	if w != 50 || h != 40 {
		t.Errorf("a size = %vx%v, want 50x40", w, h)
	}

	desc, err := g.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	g2, err := grid.Deserialize(desc, 200, 40, Factory)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	r, ok := g2.RegionByID("a")
	if !ok {
		t.Fatal("region a missing after round trip")
	}
	if w, _ := r.(*Pane).Size(); w != 100 {
		t.Errorf("a width after rescale = %v, want 100", w)
	}
}

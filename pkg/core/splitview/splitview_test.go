package splitview

import (
	"errors"
	"math"
	"slices"
	"testing"
)

type testView struct {
	name     string
	min, max float64
	priority Priority
	snap     bool

	laidOut        int
	size, orthSize float64
}

func newView(name string) *testView {
	return &testView{name: name, max: math.Inf(1)}
}

func (v *testView) MinimumSize() float64 { return v.min }
func (v *testView) MaximumSize() float64 { return v.max }
func (v *testView) Priority() Priority   { return v.priority }
func (v *testView) Snap() bool           { return v.snap }
func (v *testView) Layout(size, orthogonalSize float64) {
	v.laidOut++
	v.size, v.orthSize = size, orthogonalSize
}

func build(sizes ...float64) (*SplitView, []*testView) {
	views := make([]*testView, len(sizes))
	items := make([]Item, len(sizes))
	for i, sz := range sizes {
		views[i] = newView(string(rune('a' + i)))
		items[i] = Item{View: views[i], Size: sz}
	}
	return NewWithItems(items, 100), views
}

func assertSizes(t *testing.T, s *SplitView, want ...float64) {
	t.Helper()
	if got := s.Sizes(); !slices.Equal(got, want) {
		t.Errorf("Sizes() = %v, want %v", got, want)
	}
	var sum float64
	for _, v := range s.Sizes() {
		sum += v
	}
	if math.Abs(sum-s.Size()) > epsilon {
		t.Errorf("sum of sizes = %v, want container size %v", sum, s.Size())
	}
}

func TestDistributeInsertThenSash(t *testing.T) {
	s := New()
	s.Layout(600, 400)
	a, b := newView("a"), newView("b")
	if err := s.AddView(a, Distribute, 0); err != nil {
		t.Fatalf("AddView: %v", err)
	}
	if err := s.AddView(b, Distribute, 1); err != nil {
		t.Fatalf("AddView: %v", err)
	}
	assertSizes(t, s, 300, 300)

	applied, err := s.ResizeSash(0, 100)
	if err != nil {
		t.Fatalf("ResizeSash: %v", err)
	}
	if applied != 100 {
		t.Errorf("applied = %v, want 100", applied)
	}
	assertSizes(t, s, 400, 200)
	if a.size != 400 || b.size != 200 {
		t.Errorf("laid out sizes = %v/%v, want 400/200", a.size, b.size)
	}
	if a.orthSize != 400 {
		t.Errorf("orthogonal size = %v, want 400", a.orthSize)
	}
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name  string
		sizes []float64
		setup func(views []*testView)
		size  float64
		want  []float64
	}{
		{
			name:  "ProportionalHalve",
			sizes: []float64{100, 200, 300},
			size:  300,
			want:  []float64{50, 100, 150},
		},
		{
			name:  "ProportionalGrow",
			sizes: []float64{100, 300},
			size:  800,
			want:  []float64{200, 600},
		},
		{
			name:  "Unchanged",
			sizes: []float64{120, 480},
			size:  600,
			want:  []float64{120, 480},
		},
		{
			name:  "ShrinkRespectsPriority",
			sizes: []float64{100, 100, 100},
			setup: func(v []*testView) {
				v[0].min, v[0].priority = 90, PriorityHigh
				v[2].priority = PriorityLow
			},
			size: 210,
			want: []float64{90, 70, 50},
		},
		{
			name:  "GrowRespectsPriority",
			sizes: []float64{100, 100, 100},
			setup: func(v []*testView) {
				v[0].max, v[0].priority = 100, PriorityLow
				v[1].priority = PriorityHigh
			},
			size: 600,
			want: []float64{100, 300, 200},
		},
		{
			name:  "DynamicMinimum",
			sizes: []float64{300, 300},
			setup: func(v []*testView) { v[0].min = 400 },
			size:  600,
			want:  []float64{400, 200},
		},
		{
			name:  "Unsatisfiable",
			sizes: []float64{200, 200},
			setup: func(v []*testView) {
				v[0].min = 200
				v[1].min, v[1].priority = 200, PriorityLow
			},
			size: 300,
			want: []float64{200, 100},
		},
		{
			name:  "UnsatisfiableGrow",
			sizes: []float64{100, 100},
			setup: func(v []*testView) {
				v[0].max = 100
				v[1].max, v[1].priority = 100, PriorityLow
			},
			size: 300,
			want: []float64{100, 200},
		},
		{
			name:  "FromZero",
			sizes: []float64{0, 0, 0},
			size:  400,
			want:  []float64{133, 133, 134},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, views := build(tt.sizes...)
			if tt.setup != nil {
				tt.setup(views)
			}
			s.Layout(tt.size, 50)
			assertSizes(t, s, tt.want...)
			for i, v := range views {
				if v.size != tt.want[i] || v.orthSize != 50 {
					t.Errorf("view %d laid out with (%v, %v), want (%v, 50)", i, v.size, v.orthSize, tt.want[i])
				}
			}
		})
	}
}

func TestLayoutResidual(t *testing.T) {
	s, views := build(200, 200)
	views[0].min = 200
	views[1].min = 200
	s.Layout(300, 10)
	if got := s.Residual(); got != -100 {
		t.Errorf("Residual() = %v, want -100", got)
	}
	s.Layout(400, 10)
	if got := s.Residual(); got != 0 {
		t.Errorf("Residual() = %v, want 0", got)
	}
}

func TestResizeSash(t *testing.T) {
	tests := []struct {
		name        string
		sizes       []float64
		setup       func(views []*testView)
		sash        int
		delta       float64
		want        []float64
		wantApplied float64
	}{
		{
			name:        "Grow",
			sizes:       []float64{300, 300},
			delta:       100,
			want:        []float64{400, 200},
			wantApplied: 100,
		},
		{
			name:        "Shrink",
			sizes:       []float64{300, 300},
			delta:       -50,
			want:        []float64{250, 350},
			wantApplied: -50,
		},
		{
			name:        "ClampedByMinimum",
			sizes:       []float64{200, 200},
			setup:       func(v []*testView) { v[1].min = 100 },
			delta:       150,
			want:        []float64{300, 100},
			wantApplied: 100,
		},
		{
			name:        "ClampedByMaximum",
			sizes:       []float64{200, 200},
			setup:       func(v []*testView) { v[0].max = 250 },
			delta:       100,
			want:        []float64{250, 150},
			wantApplied: 50,
		},
		{
			name:  "SnapCollapses",
			sizes: []float64{200, 200},
			setup: func(v []*testView) {
				v[1].min, v[1].snap = 100, true
			},
			delta:       150,
			want:        []float64{400, 0},
			wantApplied: 200,
		},
		{
			name:  "SnapWithinMinimum",
			sizes: []float64{200, 200},
			setup: func(v []*testView) {
				v[1].min, v[1].snap = 100, true
			},
			delta:       80,
			want:        []float64{280, 120},
			wantApplied: 80,
		},
		{
			name:  "SnapBlockedByGrowerMaximum",
			sizes: []float64{200, 200},
			setup: func(v []*testView) {
				v[0].max = 300
				v[1].min, v[1].snap = 100, true
			},
			delta:       150,
			want:        []float64{300, 100},
			wantApplied: 100,
		},
		{
			name:        "LocalToNeighbours",
			sizes:       []float64{100, 200, 300, 400},
			sash:        1,
			delta:       50,
			want:        []float64{100, 250, 250, 400},
			wantApplied: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, views := build(tt.sizes...)
			if tt.setup != nil {
				tt.setup(views)
			}
			applied, err := s.ResizeSash(tt.sash, tt.delta)
			if err != nil {
				t.Fatalf("ResizeSash: %v", err)
			}
			if applied != tt.wantApplied {
				t.Errorf("applied = %v, want %v", applied, tt.wantApplied)
			}
			assertSizes(t, s, tt.want...)
		})
	}
}

func TestResizeSashOnlyLaysOutNeighbours(t *testing.T) {
	s, views := build(100, 200, 300, 400)
	if _, err := s.ResizeSash(1, 50); err != nil {
		t.Fatal(err)
	}
	want := []int{0, 1, 1, 0}
	for i, v := range views {
		if v.laidOut != want[i] {
			t.Errorf("view %d laid out %d times, want %d", i, v.laidOut, want[i])
		}
	}
}

func TestSnapReopen(t *testing.T) {
	s, views := build(200, 200)
	views[1].min, views[1].snap = 100, true

	if _, err := s.ResizeSash(0, 150); err != nil {
		t.Fatal(err)
	}
	if !s.Collapsed(1) {
		t.Fatal("view 1 should be collapsed")
	}

	applied, _ := s.ResizeSash(0, -50)
	if applied != 0 {
		t.Errorf("applied = %v, want 0 below the snap threshold", applied)
	}
	assertSizes(t, s, 400, 0)

	applied, _ = s.ResizeSash(0, -120)
	if applied != -120 {
		t.Errorf("applied = %v, want -120", applied)
	}
	assertSizes(t, s, 280, 120)
	if s.Collapsed(1) {
		t.Error("view 1 should be open again")
	}
}

func TestResizeSashErrors(t *testing.T) {
	s, _ := build(100, 100)
	for _, sash := range []int{-1, 1, 5} {
		if _, err := s.ResizeSash(sash, 10); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("ResizeSash(%d) error = %v, want ErrIndexOutOfRange", sash, err)
		}
	}
	assertSizes(t, s, 100, 100)
}

func TestAddView(t *testing.T) {
	tests := []struct {
		name   string
		sizes  []float64
		setup  func(views []*testView, added *testView)
		sizing Sizing
		index  int
		want   []float64
	}{
		{
			name:   "DistributeWithMinimum",
			sizes:  []float64{200, 200},
			setup:  func(_ []*testView, added *testView) { added.min = 100 },
			sizing: Distribute,
			index:  2,
			want:   []float64{133, 133, 134},
		},
		{
			name:   "DistributeUneven",
			sizes:  []float64{100, 500},
			sizing: Distribute,
			index:  0,
			want:   []float64{200, 66, 334},
		},
		{
			name:   "Fixed",
			sizes:  []float64{300, 300},
			sizing: Fixed(200),
			index:  1,
			want:   []float64{200, 200, 200},
		},
		{
			name:   "FixedClampedToMinimum",
			sizes:  []float64{300, 300},
			setup:  func(_ []*testView, added *testView) { added.min = 300 },
			sizing: Fixed(100),
			index:  0,
			want:   []float64{300, 150, 150},
		},
		{
			name:  "AutoFill",
			sizes: []float64{300, 300},
			setup: func(v []*testView, _ *testView) {
				v[0].min = 100
				v[1].min = 50
			},
			sizing: AutoFill,
			index:  2,
			want:   []float64{100, 50, 450},
		},
		{
			name:   "Split",
			sizes:  []float64{300, 300},
			sizing: Split(0),
			index:  1,
			want:   []float64{150, 150, 300},
		},
		{
			name:   "SplitOdd",
			sizes:  []float64{301, 299},
			sizing: Split(0),
			index:  0,
			want:   []float64{151, 150, 299},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, views := build(tt.sizes...)
			added := newView("new")
			if tt.setup != nil {
				tt.setup(views, added)
			}
			if err := s.AddView(added, tt.sizing, tt.index); err != nil {
				t.Fatalf("AddView: %v", err)
			}
			assertSizes(t, s, tt.want...)
			if s.View(tt.index) != added {
				t.Errorf("View(%d) is not the added view", tt.index)
			}
			if added.laidOut == 0 {
				t.Error("added view was not laid out")
			}
		})
	}
}

func TestAddViewEmpty(t *testing.T) {
	s := New()
	s.Layout(500, 20)
	v := newView("only")
	if err := s.AddView(v, Fixed(10), 0); err != nil {
		t.Fatal(err)
	}
	assertSizes(t, s, 500)
}

func TestAddViewErrors(t *testing.T) {
	tests := []struct {
		name   string
		sizing Sizing
		index  int
		want   error
	}{
		{"NegativeIndex", Distribute, -1, ErrIndexOutOfRange},
		{"IndexPastEnd", Distribute, 3, ErrIndexOutOfRange},
		{"SplitOutOfRange", Split(2), 0, ErrIndexOutOfRange},
		{"NegativeFixed", Fixed(-5), 0, ErrInvalidSizing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := build(100, 100)
			err := s.AddView(newView("x"), tt.sizing, tt.index)
			if !errors.Is(err, tt.want) {
				t.Errorf("AddView() error = %v, want %v", err, tt.want)
			}
			if s.Len() != 2 {
				t.Errorf("Len() = %d after failed insert, want 2", s.Len())
			}
			assertSizes(t, s, 100, 100)
		})
	}
}

func TestRemoveView(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		sizing Sizing
		want   []float64
	}{
		{"Distribute", 0, Distribute, []float64{300, 300}},
		{"Fixed", 0, Fixed(0), []float64{240, 360}},
		{"AutoFillGoesToPrevious", 1, AutoFill, []float64{300, 300}},
		{"AutoFillFirst", 0, AutoFill, []float64{300, 300}},
		{"Split", 0, Split(1), []float64{200, 400}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, views := build(100, 200, 300)
			got, err := s.RemoveView(tt.index, tt.sizing)
			if err != nil {
				t.Fatalf("RemoveView: %v", err)
			}
			if got != views[tt.index] {
				t.Errorf("RemoveView returned %v, want view %d", got, tt.index)
			}
			assertSizes(t, s, tt.want...)
		})
	}
}

func TestRemoveViewErrors(t *testing.T) {
	s, _ := build(100, 200)
	if _, err := s.RemoveView(2, Distribute); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveView(2) error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := s.RemoveView(0, Split(1)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveView(0, Split(1)) error = %v, want ErrIndexOutOfRange", err)
	}
	assertSizes(t, s, 100, 200)
}

func TestRemoveLastView(t *testing.T) {
	s, _ := build(100)
	if _, err := s.RemoveView(0, Distribute); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestMoveView(t *testing.T) {
	s, views := build(100, 200, 300)
	if err := s.MoveView(0, 2); err != nil {
		t.Fatal(err)
	}
	assertSizes(t, s, 200, 300, 100)
	if s.View(2) != views[0] {
		t.Error("View(2) should be the moved view")
	}
	for i, v := range views {
		if v.laidOut != 0 {
			t.Errorf("view %d laid out during move", i)
		}
	}
	if err := s.MoveView(0, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("MoveView(0, 3) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestResizeView(t *testing.T) {
	tests := []struct {
		name  string
		setup func(views []*testView)
		index int
		size  float64
		want  []float64
	}{
		{
			name:  "GrowTakesFromLowPriorityFirst",
			setup: func(v []*testView) { v[0].priority = PriorityLow },
			index: 1,
			size:  300,
			want:  []float64{100, 300, 200},
		},
		{
			name:  "ShrinkGivesToHighPriority",
			setup: func(v []*testView) { v[0].priority = PriorityHigh },
			index: 2,
			size:  100,
			want:  []float64{300, 200, 100},
		},
		{
			name: "LimitedBySiblings",
			setup: func(v []*testView) {
				v[0].min = 200
				v[2].min = 200
			},
			index: 1,
			size:  500,
			want:  []float64{200, 200, 200},
		},
		{
			name:  "ClampedToMaximum",
			setup: func(v []*testView) { v[1].max = 250 },
			index: 1,
			size:  400,
			want:  []float64{200, 250, 150},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, views := build(200, 200, 200)
			if tt.setup != nil {
				tt.setup(views)
			}
			if err := s.ResizeView(tt.index, tt.size); err != nil {
				t.Fatal(err)
			}
			assertSizes(t, s, tt.want...)
		})
	}
}

func TestResizeViewRejectsInvalidSize(t *testing.T) {
	for _, size := range []float64{math.Inf(1), math.Inf(-1), math.NaN(), -1} {
		s, _ := build(100, 200, 300)
		if err := s.ResizeView(0, size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("ResizeView(0, %v) error = %v, want ErrInvalidSize", size, err)
		}
		assertSizes(t, s, 100, 200, 300)
	}
}

func TestDistributeViewSizes(t *testing.T) {
	s, views := build(100, 200, 300)
	views[0].min = 250
	s.DistributeViewSizes()
	assertSizes(t, s, 250, 200, 150)
}

func TestSetCollapsed(t *testing.T) {
	s, _ := build(100, 200, 300)
	if err := s.SetCollapsed(1, true); err != nil {
		t.Fatal(err)
	}
	if !s.Collapsed(1) {
		t.Fatal("Collapsed(1) = false, want true")
	}
	assertSizes(t, s, 100, 0, 500)

	if err := s.SetCollapsed(1, false); err != nil {
		t.Fatal(err)
	}
	assertSizes(t, s, 100, 200, 300)

	if err := s.SetCollapsed(4, true); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetCollapsed(4) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestCollapsedStaysClosedOnLayout(t *testing.T) {
	s, _ := build(100, 200, 300)
	_ = s.SetCollapsed(0, true)
	s.Layout(300, 10)
	if s.ViewSize(0) != 0 {
		t.Errorf("collapsed view size = %v, want 0", s.ViewSize(0))
	}
	assertSizes(t, s, 0, 100, 200)
}

func TestSpliceView(t *testing.T) {
	s, _ := build(100, 300, 200)
	x, y := newView("x"), newView("y")
	old, err := s.SpliceView(1, []Item{{View: x, Size: 120}, {View: y, Size: 180}})
	if err != nil {
		t.Fatal(err)
	}
	if old == nil {
		t.Fatal("SpliceView returned nil view")
	}
	assertSizes(t, s, 100, 120, 180, 200)
	if x.laidOut != 1 || x.orthSize != 100 {
		t.Errorf("spliced view laid out %d times with orth %v", x.laidOut, x.orthSize)
	}

	if _, err := s.SpliceView(0, nil); !errors.Is(err, ErrEmptySplice) {
		t.Errorf("SpliceView(nil) error = %v, want ErrEmptySplice", err)
	}
}

func TestSpliceViewRescales(t *testing.T) {
	s, _ := build(300, 300)
	if _, err := s.SpliceView(0, []Item{{View: newView("x"), Size: 100}, {View: newView("y"), Size: 100}}); err != nil {
		t.Fatal(err)
	}
	assertSizes(t, s, 150, 150, 300)
}

func TestReplaceView(t *testing.T) {
	s, views := build(100, 200)
	v := newView("replacement")
	old, err := s.ReplaceView(1, v)
	if err != nil {
		t.Fatal(err)
	}
	if old != views[1] {
		t.Error("ReplaceView should return the previous view")
	}
	if s.View(1) != v || s.ViewSize(1) != 200 {
		t.Errorf("View(1) = %v with size %v, want replacement with 200", s.View(1), s.ViewSize(1))
	}
}

func TestConstraintSums(t *testing.T) {
	s, views := build(100, 200)
	views[0].min, views[0].max = 50, 150
	views[1].min = 20
	if got := s.MinimumSize(); got != 70 {
		t.Errorf("MinimumSize() = %v, want 70", got)
	}
	if got := s.MaximumSize(); !math.IsInf(got, 1) {
		t.Errorf("MaximumSize() = %v, want +Inf", got)
	}
	_ = s.SetCollapsed(0, true)
	if got := s.MinimumSize(); got != 20 {
		t.Errorf("MinimumSize() with collapsed view = %v, want 20", got)
	}
}

func TestPriorityText(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"low", PriorityLow, false},
		{"HIGH", PriorityHigh, false},
		{"", PriorityNormal, false},
		{"normal", PriorityNormal, false},
		{"urgent", PriorityNormal, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var p Priority
			err := p.UnmarshalText([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalText(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if p != tt.want {
				t.Errorf("UnmarshalText(%q) = %v, want %v", tt.in, p, tt.want)
			}
		})
	}
}

func TestParseSizing(t *testing.T) {
	tests := []struct {
		in      string
		want    Sizing
		wantErr bool
	}{
		{"", Distribute, false},
		{"distribute", Distribute, false},
		{"auto", AutoFill, false},
		{"autofill", AutoFill, false},
		{"fixed:120", Fixed(120), false},
		{"80", Fixed(80), false},
		{"split:2", Split(2), false},
		{"split:-1", Sizing{}, true},
		{"fixed:abc", Sizing{}, true},
		{"grow:1", Sizing{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSizing(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSizing(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSizing(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if !tt.wantErr {
				back, _ := ParseSizing(got.String())
				if back != got {
					t.Errorf("ParseSizing(%q.String()) = %+v, want %+v", tt.in, back, got)
				}
			}
		})
	}
}

func TestRoundCumulative(t *testing.T) {
	values := []float64{400.0 / 3, 400.0 / 3, 400.0 / 3}
	roundCumulative(values, 400)
	if want := []float64{133, 133, 134}; !slices.Equal(values, want) {
		t.Errorf("roundCumulative = %v, want %v", values, want)
	}
}

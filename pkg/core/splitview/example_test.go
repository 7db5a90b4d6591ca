package splitview_test

import (
	"fmt"
	"math"

	"github.com/matzehuels/splitgrid/pkg/core/splitview"
)

type panel struct {
	min  float64
	snap bool
}

func (p panel) MinimumSize() float64         { return p.min }
func (p panel) MaximumSize() float64         { return math.Inf(1) }
func (p panel) Priority() splitview.Priority { return splitview.PriorityNormal }
func (p panel) Snap() bool                   { return p.snap }
func (p panel) Layout(size, orthogonal float64) {}

func ExampleSplitView_ResizeSash() {
	s := splitview.New()
	s.Layout(600, 400)
	_ = s.AddView(panel{}, splitview.Distribute, 0)
	_ = s.AddView(panel{}, splitview.Distribute, 1)
	fmt.Println("Before:", s.Sizes())

	_, _ = s.ResizeSash(0, 100)
	fmt.Println("After:", s.Sizes())
	// Output:
	// Before: [300 300]
	// After: [400 200]
}

func ExampleSplitView_Layout() {
	s := splitview.NewWithItems([]splitview.Item{
		{View: panel{}, Size: 100},
		{View: panel{}, Size: 200},
		{View: panel{}, Size: 300},
	}, 400)

	s.Layout(300, 400)
	fmt.Println(s.Sizes())
	// Output:
	// [50 100 150]
}

func ExampleSplitView_AddView_distribute() {
	s := splitview.NewWithItems([]splitview.Item{
		{View: panel{}, Size: 200},
		{View: panel{}, Size: 200},
	}, 100)

	_ = s.AddView(panel{min: 100}, splitview.Distribute, 2)
	fmt.Println(s.Sizes())
	// Output:
	// [133 133 134]
}

func ExampleSplitView_ResizeSash_snap() {
	s := splitview.NewWithItems([]splitview.Item{
		{View: panel{}, Size: 200},
		{View: panel{min: 100, snap: true}, Size: 200},
	}, 100)

	applied, _ := s.ResizeSash(0, 150)
	fmt.Println("Applied:", applied)
	fmt.Println("Sizes:", s.Sizes())
	fmt.Println("Collapsed:", s.Collapsed(1))
	// Output:
	// Applied: 200
	// Sizes: [400 0]
	// Collapsed: true
}

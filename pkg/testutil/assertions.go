package testutil

import (
	"math"
	"testing"

	"github.com/vanderheijden86/netcanvas/pkg/layout"
)

// Epsilon is the tolerance used for floating-point comparisons in tests.
const Epsilon = 1e-9

// AlmostEqual reports whether a and b differ by at most Epsilon.
func AlmostEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// AssertNormalized verifies min(x) == 0 across all positioned nodes.
func AssertNormalized(t *testing.T, res *layout.Result) {
	t.Helper()
	if res.Empty() {
		return
	}
	minX := math.Inf(1)
	for _, r := range res.Positions {
		minX = math.Min(minX, r.X)
	}
	if !AlmostEqual(minX, 0) {
		t.Errorf("expected min(x) == 0, got %v", minX)
	}
}

// AssertEdgesConnectPlacedNodes verifies every edge endpoint has a position
// and the curve starts and ends on the box anchors.
func AssertEdgesConnectPlacedNodes(t *testing.T, res *layout.Result) {
	t.Helper()
	for _, e := range res.Edges {
		from, okFrom := res.Positions[e.From]
		to, okTo := res.Positions[e.To]
		if !okFrom || !okTo {
			t.Errorf("edge %s->%s has an endpoint without a position", e.From, e.To)
			continue
		}
		if !AlmostEqual(e.P0.X, from.BottomCenter().X) || !AlmostEqual(e.P0.Y, from.BottomCenter().Y) {
			t.Errorf("edge %s->%s does not start at parent bottom-center", e.From, e.To)
		}
		if !AlmostEqual(e.P3.X, to.TopCenter().X) || !AlmostEqual(e.P3.Y, to.TopCenter().Y) {
			t.Errorf("edge %s->%s does not end at child top-center", e.From, e.To)
		}
	}
}

// AssertNoOverlap verifies no two boxes on the same row intersect.
func AssertNoOverlap(t *testing.T, res *layout.Result) {
	t.Helper()
	ids := res.Order
	for i := 0; i < len(ids); i++ {
		a := res.Positions[ids[i]]
		for j := i + 1; j < len(ids); j++ {
			b := res.Positions[ids[j]]
			if !AlmostEqual(a.Y, b.Y) {
				continue
			}
			if a.X < b.X+b.W-Epsilon && b.X < a.X+a.W-Epsilon {
				t.Errorf("boxes %s and %s overlap", ids[i], ids[j])
			}
		}
	}
}

// Package metrics times the netcanvas hot paths against their frame budgets.
//
// A relayout or a terminal redraw that takes longer than one interaction
// frame makes panning stutter, so each timing carries a budget and counts the
// samples that overran it. Collection is on unless NC_METRICS=0.
//
//	defer metrics.Timer(metrics.LayoutCompute)()
package metrics

import (
	"os"
	"sync/atomic"
	"time"
)

// Frame is the budget of work done between two pointer events.
const Frame = 16 * time.Millisecond

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("NC_METRICS") != "0")
}

// Enabled reports whether samples are recorded.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled turns collection on or off.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// Timing accumulates durations of one operation.
type Timing struct {
	name   string
	budget time.Duration

	count atomic.Int64
	total atomic.Int64
	max   atomic.Int64
	slow  atomic.Int64
}

func newTiming(name string, budget time.Duration) *Timing {
	return &Timing{name: name, budget: budget}
}

// Record adds one sample. Samples over the budget are also counted as slow.
func (m *Timing) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.total.Add(ns)
	for {
		old := m.max.Load()
		if ns <= old || m.max.CompareAndSwap(old, ns) {
			break
		}
	}
	if m.Over(d) {
		m.slow.Add(1)
	}
}

// Over reports whether d exceeds the budget.
func (m *Timing) Over(d time.Duration) bool {
	return m.budget > 0 && d > m.budget
}

// Name returns the metric name.
func (m *Timing) Name() string { return m.name }

// Count returns the number of samples.
func (m *Timing) Count() int64 { return m.count.Load() }

// Stats snapshots the counters.
func (m *Timing) Stats() TimingStats {
	count := m.count.Load()
	st := TimingStats{
		Name:     m.name,
		Count:    count,
		Slow:     m.slow.Load(),
		BudgetMs: ms(m.budget.Nanoseconds()),
		MaxMs:    ms(m.max.Load()),
	}
	if count > 0 {
		st.AvgMs = ms(m.total.Load() / count)
	}
	return st
}

// Reset clears all samples.
func (m *Timing) Reset() {
	m.count.Store(0)
	m.total.Store(0)
	m.max.Store(0)
	m.slow.Store(0)
}

func ms(ns int64) float64 { return float64(ns) / 1e6 }

// TimingStats is a point-in-time copy of a Timing.
type TimingStats struct {
	Name     string  `json:"name"`
	Count    int64   `json:"count"`
	Slow     int64   `json:"slow"`
	AvgMs    float64 `json:"avg_ms"`
	MaxMs    float64 `json:"max_ms"`
	BudgetMs float64 `json:"budget_ms,omitempty"`
}

// Timer starts a sample that is recorded when the returned func runs.
func Timer(m *Timing) func() {
	if !Enabled() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// Hot-path timings. Loading and snapshot export happen outside the
// interaction loop and have no budget.
var (
	LayoutCompute  = newTiming("layout_compute", Frame)
	SearchQuery    = newTiming("search_query", 3*Frame)
	UIRender       = newTiming("ui_render", Frame)
	SnapshotRender = newTiming("snapshot_render", 0)
	TreeLoad       = newTiming("tree_load", 0)
)

var timings = []*Timing{LayoutCompute, SearchQuery, UIRender, SnapshotRender, TreeLoad}

package metrics

import (
	"fmt"
	"io"
)

// Report is everything collected so far, leaving out metrics with no samples.
type Report struct {
	Timings []TimingStats `json:"timings"`
	Caches  []CacheStats  `json:"caches"`
}

// Collect snapshots every registered metric.
func Collect() Report {
	var r Report
	for _, m := range timings {
		if m.Count() > 0 {
			r.Timings = append(r.Timings, m.Stats())
		}
	}
	for _, c := range caches {
		if st := c.Stats(); st.Hits+st.Misses > 0 {
			r.Caches = append(r.Caches, st)
		}
	}
	return r
}

// Empty reports whether nothing was recorded.
func (r Report) Empty() bool {
	return len(r.Timings) == 0 && len(r.Caches) == 0
}

// Write prints one line per metric.
func (r Report) Write(w io.Writer) error {
	for _, st := range r.Timings {
		line := fmt.Sprintf("%-16s n=%-6d avg=%.2fms max=%.2fms", st.Name, st.Count, st.AvgMs, st.MaxMs)
		if st.BudgetMs > 0 {
			line += fmt.Sprintf(" slow=%d (>%.0fms)", st.Slow, st.BudgetMs)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, st := range r.Caches {
		if _, err := fmt.Fprintf(w, "%-16s hits=%d misses=%d rate=%.0f%%\n", st.Name, st.Hits, st.Misses, st.HitRate*100); err != nil {
			return err
		}
	}
	return nil
}

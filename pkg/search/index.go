// Package search finds members by display name across the whole network,
// including subtrees that are currently collapsed.
package search

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/netcanvas/pkg/metrics"
	"github.com/vanderheijden86/netcanvas/pkg/network"
)

// DefaultMinQueryLength is the shortest query that produces results.
const DefaultMinQueryLength = 3

// Mode selects how matches are found and ordered.
type Mode string

const (
	// ModeSubstring matches case-insensitive substrings, in tree pre-order.
	ModeSubstring Mode = "substring"
	// ModeFuzzy ranks fuzzy matches by score.
	ModeFuzzy Mode = "fuzzy"
)

// State is the search box state shown to the user.
type State struct {
	Query   string
	Results []*network.Node
	Visible bool // whether the results panel is shown
}

// Index holds the searchable members in pre-order.
type Index struct {
	nodes     []*network.Node
	lowered   []string
	names     []string
	minLength int
	mode      Mode
}

// Option configures an Index.
type Option func(*Index)

// WithMinQueryLength overrides the minimum query length.
func WithMinQueryLength(n int) Option {
	return func(idx *Index) {
		if n > 0 {
			idx.minLength = n
		}
	}
}

// WithMode selects the match mode.
func WithMode(m Mode) Option {
	return func(idx *Index) {
		if m == ModeFuzzy || m == ModeSubstring {
			idx.mode = m
		}
	}
}

// NewIndex traverses the entire tree, ignoring expand state, and keeps every
// named, non-vacant node.
func NewIndex(root *network.Node, opts ...Option) *Index {
	idx := &Index{minLength: DefaultMinQueryLength, mode: ModeSubstring}
	for _, opt := range opts {
		opt(idx)
	}
	network.Walk(root, func(n, _ *network.Node) bool {
		name := n.DisplayName()
		if name == "" {
			return true
		}
		idx.nodes = append(idx.nodes, n)
		idx.names = append(idx.names, name)
		idx.lowered = append(idx.lowered, strings.ToLower(name))
		return true
	})
	return idx
}

// Len returns the number of searchable members.
func (idx *Index) Len() int {
	return len(idx.nodes)
}

// Query recomputes the search state for q. Queries shorter than the minimum
// length clear the results and hide the panel.
func (idx *Index) Query(q string) State {
	defer metrics.Timer(metrics.SearchQuery)()

	st := State{Query: q}
	if utf8.RuneCountInString(q) < idx.minLength {
		return st
	}
	st.Visible = true
	if idx.mode == ModeFuzzy {
		for _, m := range fuzzy.Find(q, idx.names) {
			st.Results = append(st.Results, idx.nodes[m.Index])
		}
		return st
	}
	needle := strings.ToLower(q)
	for i, name := range idx.lowered {
		if strings.Contains(name, needle) {
			st.Results = append(st.Results, idx.nodes[i])
		}
	}
	return st
}

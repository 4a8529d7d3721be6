package network

import (
	"sort"

	"github.com/mitchellh/hashstructure/v2"
)

// ExpandedSet is the set of node ids whose children are rendered. Every
// mutation bumps Version so dependents can drop memoized state.
type ExpandedSet struct {
	ids     map[string]struct{}
	version uint64
}

// NewExpandedSet returns a set containing the given ids.
func NewExpandedSet(ids ...string) *ExpandedSet {
	s := &ExpandedSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// DefaultExpanded returns the mount-time default: the root only.
func DefaultExpanded(root *Node) *ExpandedSet {
	if root == nil {
		return NewExpandedSet()
	}
	return NewExpandedSet(root.ID)
}

// Has reports whether id is expanded. A nil set expands nothing.
func (s *ExpandedSet) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Toggle flips id's membership and returns the new state.
func (s *ExpandedSet) Toggle(id string) bool {
	if s.Has(id) {
		s.Collapse(id)
		return false
	}
	s.Expand(id)
	return true
}

// Expand adds id. Returns false if it was already present.
func (s *ExpandedSet) Expand(id string) bool {
	if s.Has(id) {
		return false
	}
	s.ids[id] = struct{}{}
	s.version++
	return true
}

// Collapse removes id. Returns false if it was not present.
func (s *ExpandedSet) Collapse(id string) bool {
	if !s.Has(id) {
		return false
	}
	delete(s.ids, id)
	s.version++
	return true
}

// Replace swaps the contents for ids in a single version bump.
func (s *ExpandedSet) Replace(ids []string) {
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	s.version++
}

// Len returns the number of expanded ids.
func (s *ExpandedSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Version increases on every effective mutation.
func (s *ExpandedSet) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// IDs returns the members sorted for deterministic output.
func (s *ExpandedSet) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy with version reset.
func (s *ExpandedSet) Clone() *ExpandedSet {
	return NewExpandedSet(s.IDs()...)
}

// Fingerprint hashes the membership independently of insertion order.
func (s *ExpandedSet) Fingerprint() uint64 {
	if s == nil {
		return 0
	}
	h, err := hashstructure.Hash(s.ids, hashstructure.FormatV2, nil)
	if err != nil {
		// Only unsupported kinds fail; a map of strings never does.
		return 0
	}
	return h
}

// Package testutil provides member-network fixtures for tests.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/netcanvas/pkg/network"
)

// GeneratorConfig controls tree generation.
type GeneratorConfig struct {
	Seed        int64            // Random seed for determinism
	IDPrefix    string           // Prefix for node ids (default: "N")
	VacantRatio float64          // Probability a non-root slot is vacant (0 = none)
	StatusMix   []network.Status // Status distribution (nil = all active)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:      42,
		IDPrefix:  "N",
		StatusMix: []network.Status{network.StatusActive},
	}
}

// Generator creates member-network fixtures.
type Generator struct {
	cfg  GeneratorConfig
	rng  *rand.Rand
	next int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "N"
	}
	if len(cfg.StatusMix) == 0 {
		cfg.StatusMix = []network.Status{network.StatusActive}
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) member(level int) *network.Node {
	id := fmt.Sprintf("%s%d", g.cfg.IDPrefix, g.next)
	g.next++
	if level > 0 && g.cfg.VacantRatio > 0 && g.rng.Float64() < g.cfg.VacantRatio {
		return &network.Node{ID: id, IsEmpty: true, Level: level}
	}
	return &network.Node{
		ID:     id,
		Name:   fmt.Sprintf("Member %s", id),
		Pin:    fmt.Sprintf("Pin %d", level),
		Status: g.cfg.StatusMix[g.rng.Intn(len(g.cfg.StatusMix))],
		Level:  level,
	}
}

// Full builds a complete tree where every non-leaf has branching children,
// depth levels below the root. Degenerate parameters return nil.
func (g *Generator) Full(branching, depth int) *network.Node {
	if branching <= 0 || depth < 0 {
		return nil
	}
	var build func(level int) *network.Node
	build = func(level int) *network.Node {
		n := g.member(level)
		if level == depth || n.IsEmpty {
			return n
		}
		for i := 0; i < branching; i++ {
			n.Children = append(n.Children, build(level+1))
		}
		return n
	}
	return build(0)
}

// Chain builds a single path of length size (root included).
func (g *Generator) Chain(size int) *network.Node {
	if size <= 0 {
		return nil
	}
	root := g.member(0)
	cur := root
	for i := 1; i < size; i++ {
		child := g.member(i)
		child.IsEmpty = false
		if child.Name == "" {
			child.Name = "Member " + child.ID
		}
		cur.Children = []*network.Node{child}
		cur = child
	}
	return root
}

// QuickFull is Full with the default generator.
func QuickFull(branching, depth int) *network.Node {
	return NewDefault().Full(branching, depth)
}

// Family builds the A/B fixture: root R with children A (three leaf
// grandchildren A1..A3) and B (a leaf).
func Family() *network.Node {
	return &network.Node{
		ID: "R", Name: "Root Member", Status: network.StatusActive,
		Children: []*network.Node{
			{
				ID: "A", Name: "Alice Anders", Status: network.StatusActive, Level: 1,
				Children: []*network.Node{
					{ID: "A1", Name: "Aaron One", Status: network.StatusActive, Level: 2},
					{ID: "A2", Name: "Abby Two", Status: network.StatusPending, Level: 2},
					{ID: "A3", IsEmpty: true, Level: 2},
				},
			},
			{ID: "B", Name: "Bob Brown", Status: network.StatusInactive, Level: 1},
		},
	}
}

// Cyclic returns a tree whose grandchild points back at the root.
func Cyclic() *network.Node {
	root := &network.Node{ID: "R", Name: "Root"}
	child := &network.Node{ID: "C", Name: "Child", Level: 1}
	grand := &network.Node{ID: "G", Name: "Grandchild", Level: 2}
	root.Children = []*network.Node{child}
	child.Children = []*network.Node{grand}
	grand.Children = []*network.Node{root}
	return root
}

// AllIDs returns every id reachable from root in pre-order.
func AllIDs(root *network.Node) []string {
	var ids []string
	network.Walk(root, func(n, _ *network.Node) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// ExpandAll returns an expanded set containing every node id.
func ExpandAll(root *network.Node) *network.ExpandedSet {
	return network.NewExpandedSet(AllIDs(root)...)
}

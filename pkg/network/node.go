// Package network defines the member-network tree consumed by the layout,
// search and interaction packages, plus the expanded-set that controls which
// part of the tree is visible.
package network

import (
	"strings"

	"github.com/google/uuid"
)

// Status is the member status category used for styling.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusPending   Status = "pending"
	StatusSuspended Status = "suspended"
)

// IsKnown reports whether s is one of the recognised categories.
func (s Status) IsKnown() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending, StatusSuspended:
		return true
	default:
		return false
	}
}

// ParseStatus normalizes a provider status string. Unrecognised values are
// returned as-is (lowercased) and styled as unknown.
func ParseStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

// Node is one slot in the member network. A vacant slot (IsEmpty) has no
// member assigned; it is rendered and occupies layout width but is never
// selectable or searchable.
type Node struct {
	ID            string  `json:"id"`
	Name          string  `json:"name,omitempty"`
	Pin           string  `json:"pin,omitempty"` // rank
	Status        Status  `json:"status,omitempty"`
	Avatar        string  `json:"avatar,omitempty"`
	HasTransacted bool    `json:"has_transacted,omitempty"`
	IsEmpty       bool    `json:"is_empty,omitempty"`
	Children      []*Node `json:"children,omitempty"`
	Level         int     `json:"level"`
}

// HasChildren reports whether the node has at least one child slot.
func (n *Node) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// Selectable reports whether clicking the node may emit a selection.
func (n *Node) Selectable() bool {
	return n != nil && !n.IsEmpty
}

// DisplayName returns the member name, or "" for vacant or unnamed nodes.
func (n *Node) DisplayName() string {
	if n == nil || n.IsEmpty {
		return ""
	}
	return strings.TrimSpace(n.Name)
}

// NewVacant returns a vacant slot with a generated id.
func NewVacant(level int) *Node {
	return &Node{
		ID:      "vacant-" + uuid.New().String(),
		IsEmpty: true,
		Level:   level,
	}
}

// Normalize prepares a provider tree for layout: nil child slots become vacant
// nodes, nodes without an id get one, and Level is recomputed from the root.
// A node reached twice is not descended into again. Returns the number of
// slots that had to be filled or re-identified.
func Normalize(root *Node) int {
	if root == nil {
		return 0
	}
	fixed := 0
	seen := make(map[*Node]bool)
	var walk func(n *Node, level int)
	walk = func(n *Node, level int) {
		if seen[n] {
			return
		}
		seen[n] = true
		n.Level = level
		if n.ID == "" {
			if n.IsEmpty {
				n.ID = "vacant-" + uuid.New().String()
			} else {
				n.ID = "member-" + uuid.New().String()
			}
			fixed++
		}
		for i, child := range n.Children {
			if child == nil {
				n.Children[i] = NewVacant(level + 1)
				fixed++
				continue
			}
			walk(child, level+1)
		}
	}
	walk(root, 0)
	return fixed
}

// Walk visits every node in pre-order, ignoring expand state. Nodes whose id
// was already visited are skipped, so a malformed tree cannot loop forever.
// Returning false from fn stops descent into that node's children.
func Walk(root *Node, fn func(n *Node, parent *Node) bool) {
	if root == nil {
		return
	}
	visited := make(map[string]bool)
	var walk func(n, parent *Node)
	walk = func(n, parent *Node) {
		if n == nil || visited[n.ID] {
			return
		}
		visited[n.ID] = true
		if !fn(n, parent) {
			return
		}
		for _, child := range n.Children {
			walk(child, n)
		}
	}
	walk(root, nil)
}

// Count returns the number of distinct nodes reachable from root.
func Count(root *Node) int {
	count := 0
	Walk(root, func(*Node, *Node) bool {
		count++
		return true
	})
	return count
}

package network

// Index provides id lookups over an immutable tree. It is built once per
// mount.
type Index struct {
	root    *Node
	byID    map[string]*Node
	parents map[string]string
	order   []string // pre-order ids
}

// NewIndex walks the full tree (ignoring expand state) and records every node.
func NewIndex(root *Node) *Index {
	idx := &Index{
		root:    root,
		byID:    make(map[string]*Node),
		parents: make(map[string]string),
	}
	Walk(root, func(n, parent *Node) bool {
		idx.byID[n.ID] = n
		idx.order = append(idx.order, n.ID)
		if parent != nil {
			idx.parents[n.ID] = parent.ID
		}
		return true
	})
	return idx
}

// Root returns the indexed root.
func (idx *Index) Root() *Node {
	return idx.root
}

// Lookup returns the node with the given id.
func (idx *Index) Lookup(id string) (*Node, bool) {
	n, ok := idx.byID[id]
	return n, ok
}

// Parent returns the parent id, or "" for the root and unknown ids.
func (idx *Index) Parent(id string) string {
	return idx.parents[id]
}

// Ancestors returns the ids from the root down to (excluding) id.
func (idx *Index) Ancestors(id string) []string {
	var chain []string
	seen := map[string]bool{id: true}
	for p := idx.parents[id]; p != ""; p = idx.parents[p] {
		if seen[p] {
			break
		}
		seen[p] = true
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// PreOrder returns all ids in pre-order.
func (idx *Index) PreOrder() []string {
	return idx.order
}

// Len returns the number of indexed nodes.
func (idx *Index) Len() int {
	return len(idx.byID)
}

package datasource

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vanderheijden86/netcanvas/pkg/network"
)

// MaxMatrixNodes caps the size of a synthetic matrix.
const MaxMatrixNodes = 200_000

// matrixNamespace seeds the deterministic member ids of synthetic matrices.
var matrixNamespace = uuid.MustParse("5f0c2a8e-3b1d-4c6e-9a7f-1d2e3f4a5b6c")

var matrixStatuses = []network.Status{
	network.StatusActive,
	network.StatusActive,
	network.StatusPending,
	network.StatusInactive,
	network.StatusSuspended,
}

// MatrixParams describes a full W-ary matrix of the given depth. Depth counts
// levels below the root.
type MatrixParams struct {
	Width int
	Depth int
	// VacantEvery marks every Nth generated slot (pre-order, root excluded)
	// as vacant. Zero disables vacancies.
	VacantEvery int
}

// ParseMatrix parses "WxD" (e.g. "3x4").
func ParseMatrix(s string) (MatrixParams, error) {
	w, d, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return MatrixParams{}, fmt.Errorf("matrix %q: want WIDTHxDEPTH", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return MatrixParams{}, fmt.Errorf("matrix width: %w", err)
	}
	depth, err := strconv.Atoi(d)
	if err != nil {
		return MatrixParams{}, fmt.Errorf("matrix depth: %w", err)
	}
	return MatrixParams{Width: width, Depth: depth}, nil
}

// Size returns the number of nodes the params would generate.
func (p MatrixParams) Size() int {
	if p.Width <= 0 || p.Depth < 0 {
		return 0
	}
	total, row := 1, 1
	for i := 0; i < p.Depth; i++ {
		row *= p.Width
		total += row
		if total > MaxMatrixNodes {
			return total
		}
	}
	return total
}

// Matrix builds a synthetic tree. Degenerate params (non-positive width,
// negative depth, or more than MaxMatrixNodes nodes) yield nil, which lays
// out as an empty canvas.
func Matrix(p MatrixParams) *network.Node {
	size := p.Size()
	if size == 0 || size > MaxMatrixNodes {
		return nil
	}
	seq := 0
	var build func(path string, level int) *network.Node
	build = func(path string, level int) *network.Node {
		n := &network.Node{
			ID:    uuid.NewSHA1(matrixNamespace, []byte(path)).String(),
			Level: level,
		}
		if level > 0 {
			seq++
			if p.VacantEvery > 0 && seq%p.VacantEvery == 0 {
				n.IsEmpty = true
			}
		}
		if !n.IsEmpty {
			n.Name = "Member " + path
			n.Pin = fmt.Sprintf("L%d", level)
			n.Status = matrixStatuses[seq%len(matrixStatuses)]
			n.HasTransacted = seq%3 == 0
		}
		if level == p.Depth || n.IsEmpty {
			return n
		}
		n.Children = make([]*network.Node, p.Width)
		for i := range n.Children {
			n.Children[i] = build(fmt.Sprintf("%s.%d", path, i+1), level+1)
		}
		return n
	}
	return build("1", 0)
}

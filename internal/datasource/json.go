package datasource

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/netcanvas/pkg/network"
)

// LoadJSON reads a nested tree document:
//
//	{"id": "r", "name": "Root", "children": [{"id": "a"}, null]}
//
// null children are vacant slots and are kept as nil for network.Normalize.
func LoadJSON(path string) (*network.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tree: %w", err)
	}
	return DecodeJSON(bytes.NewReader(data))
}

// DecodeJSON decodes a tree document from r.
func DecodeJSON(r io.Reader) (*network.Node, error) {
	var root *network.Node
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, ErrNoTree
		}
		return nil, fmt.Errorf("parsing tree: %w", err)
	}
	if root == nil {
		return nil, ErrNoTree
	}
	return root, nil
}

// WriteJSON encodes root as an indented tree document.
func WriteJSON(w io.Writer, root *network.Node) error {
	if root == nil {
		return ErrNoTree
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encoding tree: %w", err)
	}
	return nil
}

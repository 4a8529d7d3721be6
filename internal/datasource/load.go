package datasource

import (
	"fmt"

	"github.com/vanderheijden86/netcanvas/pkg/debug"
	"github.com/vanderheijden86/netcanvas/pkg/metrics"
	"github.com/vanderheijden86/netcanvas/pkg/network"
)

// Load detects the type of path and loads its tree.
func Load(path string) (*network.Node, error) {
	src, err := Detect(path)
	if err != nil {
		return nil, err
	}
	return LoadFromSource(src)
}

// LoadSQLite reads the members table of the database at path.
func LoadSQLite(path string) (*network.Node, error) {
	reader, err := NewSQLiteReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite source %s: %w", path, err)
	}
	defer reader.Close()
	return reader.LoadTree()
}

// LoadFromSource loads the tree from a specific DataSource, dispatching to
// the appropriate reader based on source type.
func LoadFromSource(source DataSource) (*network.Node, error) {
	defer metrics.Timer(metrics.TreeLoad)()
	debug.Log("datasource: loading %s", source)

	switch source.Type {
	case SourceTypeSQLite:
		return LoadSQLite(source.Path)
	case SourceTypeJSON:
		return LoadJSON(source.Path)
	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

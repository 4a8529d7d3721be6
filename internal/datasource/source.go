// Package datasource loads network trees for netcanvas from JSON files, SQLite
// member tables, or a synthetic matrix generator.
package datasource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoTree is returned when a source holds no root node.
var ErrNoTree = errors.New("no tree in source")

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeJSON is a single JSON document with nested children
	SourceTypeJSON SourceType = "json"
	// SourceTypeSQLite is a database with a members table
	SourceTypeSQLite SourceType = "sqlite"
)

// DataSource describes a tree file on disk.
type DataSource struct {
	Type    SourceType `json:"type"`
	Path    string     `json:"path"`
	ModTime time.Time  `json:"mod_time"`
	Size    int64      `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s, mod=%s, %d bytes)", s.Path, s.Type, s.ModTime.Format(time.RFC3339), s.Size)
}

// Detect stats path and infers its type from the extension. Unknown
// extensions are sniffed: a file starting with the SQLite header is a
// database, anything else is treated as JSON.
func Detect(path string) (DataSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("stat tree source: %w", err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("tree source %s is a directory", path)
	}
	src := DataSource{Path: path, ModTime: info.ModTime(), Size: info.Size()}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		src.Type = SourceTypeJSON
	case ".db", ".sqlite", ".sqlite3":
		src.Type = SourceTypeSQLite
	default:
		src.Type = SourceTypeJSON
		if isSQLiteFile(path) {
			src.Type = SourceTypeSQLite
		}
	}
	return src, nil
}

const sqliteHeader = "SQLite format 3\x00"

func isSQLiteFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	buf := make([]byte, len(sqliteHeader))
	if _, err := f.Read(buf); err != nil {
		return false
	}
	return string(buf) == sqliteHeader
}

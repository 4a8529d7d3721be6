package datasource

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/netcanvas/pkg/debug"
	"github.com/vanderheijden86/netcanvas/pkg/network"
)

// MembersSchema creates the table read by SQLiteReader. Position is the slot
// index under the parent; gaps in positions become vacant slots.
const MembersSchema = `
CREATE TABLE IF NOT EXISTS members (
	id         TEXT PRIMARY KEY,
	parent_id  TEXT,
	position   INTEGER NOT NULL DEFAULT 0,
	name       TEXT,
	pin        TEXT,
	status     TEXT,
	avatar     TEXT,
	transacted INTEGER NOT NULL DEFAULT 0,
	vacant     INTEGER NOT NULL DEFAULT 0
)`

// MaxChildSlots bounds the slot index honoured from the position column.
// Rows outside [0, MaxChildSlots) take the first free slot instead, so a
// corrupt position cannot allocate an unbounded child slice.
const MaxChildSlots = 1024

func slotInRange(pos int) bool {
	return pos >= 0 && pos < MaxChildSlots
}

// SQLiteReader provides read access to a members database
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(path string) (*SQLiteReader, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA temp_store = MEMORY"); err != nil {
		debug.Log("datasource: pragma failed on %s: %v", path, err)
	}
	return &SQLiteReader{db: db, path: path}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

type memberRow struct {
	node     *network.Node
	parent   string
	position int
}

// LoadTree reads every member and assembles the tree. Exactly one row must
// have no parent. Rows whose parent chain loops are reported as an error;
// rows pointing at a missing parent are logged and dropped.
func (r *SQLiteReader) LoadTree() (*network.Node, error) {
	rows, err := r.db.Query(`
		SELECT id, parent_id, position, name, pin, status, avatar, transacted, vacant
		FROM members
		ORDER BY parent_id, position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer rows.Close()

	var members []memberRow
	byID := make(map[string]*memberRow)
	for rows.Next() {
		var (
			id                            string
			parent, name, pin, st, avatar sql.NullString
			position                      sql.NullInt64
			transacted, vacant            sql.NullBool
		)
		if err := rows.Scan(&id, &parent, &position, &name, &pin, &st, &avatar, &transacted, &vacant); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		members = append(members, memberRow{
			node: &network.Node{
				ID:            id,
				Name:          name.String,
				Pin:           pin.String,
				Status:        network.ParseStatus(st.String),
				Avatar:        avatar.String,
				HasTransacted: transacted.Bool,
				IsEmpty:       vacant.Bool,
			},
			parent:   strings.TrimSpace(parent.String),
			position: clampPosition(position.Int64),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading members: %w", err)
	}
	if len(members) == 0 {
		return nil, ErrNoTree
	}
	for i := range members {
		byID[members[i].node.ID] = &members[i]
	}

	if err := checkParentCycles(members, byID); err != nil {
		return nil, err
	}

	var roots []*network.Node
	children := make(map[string][]*memberRow)
	for i := range members {
		m := &members[i]
		switch {
		case m.parent == "":
			roots = append(roots, m.node)
		case byID[m.parent] == nil:
			debug.Log("datasource: member %s references missing parent %s", m.node.ID, m.parent)
		default:
			children[m.parent] = append(children[m.parent], m)
		}
	}
	if len(roots) == 0 {
		return nil, ErrNoTree
	}
	if len(roots) > 1 {
		ids := make([]string, len(roots))
		for i, n := range roots {
			ids[i] = n.ID
		}
		return nil, fmt.Errorf("members table has %d roots: %s", len(roots), strings.Join(ids, ", "))
	}

	for parentID, kids := range children {
		sort.SliceStable(kids, func(i, j int) bool { return kids[i].position < kids[j].position })
		slots := len(kids)
		for _, k := range kids {
			if slotInRange(k.position) {
				slots = max(slots, k.position+1)
			} else {
				debug.Log("datasource: member %s position out of range, appending", k.node.ID)
			}
		}
		parent := byID[parentID].node
		parent.Children = make([]*network.Node, slots)
		var spill []*network.Node
		for _, k := range kids {
			if !slotInRange(k.position) || parent.Children[k.position] != nil {
				spill = append(spill, k.node)
				continue
			}
			parent.Children[k.position] = k.node
		}
		next := 0
		for _, n := range spill {
			for next < slots && parent.Children[next] != nil {
				next++
			}
			parent.Children[next] = n
		}
	}

	root := roots[0]
	network.Normalize(root)
	return root, nil
}

// clampPosition folds positions that do not fit an int into the
// out-of-range sentinel -1.
func clampPosition(v int64) int {
	if v < 0 || v >= MaxChildSlots {
		return -1
	}
	return int(v)
}

// checkParentCycles builds the parent graph and rejects any strongly
// connected component, which would make part of the table unreachable.
func checkParentCycles(members []memberRow, byID map[string]*memberRow) error {
	g := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(members))
	names := make(map[int64]string, len(members))
	for _, m := range members {
		n := g.NewNode()
		g.AddNode(n)
		ids[m.node.ID] = n.ID()
		names[n.ID()] = m.node.ID
	}
	for _, m := range members {
		if m.parent == "" || byID[m.parent] == nil {
			continue
		}
		if m.parent == m.node.ID {
			return fmt.Errorf("member %s is its own parent", m.node.ID)
		}
		g.SetEdge(g.NewEdge(g.Node(ids[m.parent]), g.Node(ids[m.node.ID])))
	}

	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		cycle := make([]string, len(scc))
		for i, n := range scc {
			cycle[i] = names[n.ID()]
		}
		sort.Strings(cycle)
		return fmt.Errorf("member parent cycle: %s", strings.Join(cycle, " -> "))
	}
	return nil
}

// WriteSQLite stores root in a members table at path, replacing any existing
// rows. Vacant slots are written as vacant rows so positions round-trip.
func WriteSQLite(path string, root *network.Node) error {
	if root == nil {
		return ErrNoTree
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(MembersSchema); err != nil {
		return fmt.Errorf("creating members table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM members"); err != nil {
		return fmt.Errorf("clearing members: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO members
		(id, parent_id, position, name, pin, status, avatar, transacted, vacant)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	network.Normalize(root)
	var insertErr error
	network.Walk(root, func(n, parent *network.Node) bool {
		var parentID any
		position := 0
		if parent != nil {
			parentID = parent.ID
			for i, c := range parent.Children {
				if c == n {
					position = i
					break
				}
			}
		}
		_, err := stmt.Exec(n.ID, parentID, position, n.Name, n.Pin, string(n.Status), n.Avatar, n.HasTransacted, n.IsEmpty)
		if err != nil {
			insertErr = fmt.Errorf("inserting %s: %w", n.ID, err)
			return false
		}
		return true
	})
	if insertErr != nil {
		return insertErr
	}
	return tx.Commit()
}

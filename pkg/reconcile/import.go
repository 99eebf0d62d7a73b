package reconcile

import (
	"fmt"

	"github.com/tmewes/graphsmith/pkg/graphml"
	"github.com/tmewes/graphsmith/pkg/workbook"
)

// Import applies the edited workbook at path back onto the graph as
// structural deltas against the snapshot taken at export time. When the
// engine has no snapshot (the workbook was produced by an earlier
// process), one is gathered first; structural ids are deterministic for
// a given document, so a freshly loaded graph reproduces the ids the
// sheet carries.
//
// After the row passes, structural ids are recomputed and an automatic
// integrity pass prunes edges stranded by the edit.
func (e *Engine) Import(path string, mode Mode) error {
	if err := checkMode(mode); err != nil {
		return err
	}
	if e.original == nil {
		e.original = e.graph.GatherStats()
	}

	err := workbook.WithWorkbook(path, false, func(wb *workbook.Workbook) error {
		if mode == ModeHierarchy {
			return e.importHierarchy(wb)
		}
		return e.importRelations(wb)
	})
	if err != nil {
		return err
	}

	pruned, err := e.graph.RunIntegrityRules(graphml.IntegrityAuto)
	if err != nil {
		return err
	}
	for _, id := range pruned {
		e.Logger.Warn("pruned stranded edge", "id", id)
	}
	return nil
}

// objectRow is one parsed line of the objects sheet.
type objectRow struct {
	line   int // 1-based sheet row, for warnings
	indent int // 1-based column of the name cell
	name   string
	id     string

	isGroup  bool
	ownerRow int // index into the row slice, -1 for the root

	entity graphml.Entity // resolved or created; nil for placeholders
}

// importHierarchy re-reads the objects sheet and reconciles the
// ownership tree: rows are matched to original entities by id, and the
// edit is interpreted as renames, re-parents, classification changes,
// creations, and deletions by omission.
func (e *Engine) importHierarchy(wb *workbook.Workbook) error {
	raw, err := wb.Rows(workbook.SheetObjects)
	if err != nil {
		return err
	}

	rows := parseObjectRows(raw)
	classifyGroups(rows)
	inferOwners(rows)

	touched := make(map[string]bool)
	for i := range rows {
		r := &rows[i]
		if r.name == Placeholder {
			continue
		}
		owner := e.ownerContainer(rows, r)
		if err := e.applyObjectRow(owner, r, touched); err != nil {
			return err
		}
	}

	// Deletion by omission: every original object whose row disappeared.
	// Non-healing removal detaches the whole subtree; descendants whose
	// own rows also disappeared end up detached along with it.
	for id, ent := range e.original.Objects {
		if touched[id] || !e.graph.Contains(ent) {
			continue
		}
		owner := ent.Owner()
		switch v := ent.(type) {
		case *graphml.Group:
			err = owner.RemoveGroup(v, false)
		case *graphml.Node:
			err = owner.RemoveNode(v)
		}
		if err != nil {
			return fmt.Errorf("delete %q: %w", id, err)
		}
	}
	return nil
}

// parseObjectRows turns raw sheet rows into objectRows, skipping the
// header and fully empty lines. The indent is the column of the first
// populated cell; the structural id, when present, sits one column
// further right.
func parseObjectRows(raw [][]string) []objectRow {
	var rows []objectRow
	for i, cells := range raw {
		if i == 0 {
			continue // header
		}
		col := -1
		for j, c := range cells {
			if c != "" {
				col = j
				break
			}
		}
		if col < 0 {
			continue
		}
		r := objectRow{line: i + 1, indent: col + 1, name: cells[col], ownerRow: -1}
		if col+1 < len(cells) {
			r.id = cells[col+1]
		}
		rows = append(rows, r)
	}
	return rows
}

// classifyGroups marks a row as a group iff the following row is
// indented deeper: containment is expressed purely positionally, so a
// group is whatever has children (or a placeholder) under it.
func classifyGroups(rows []objectRow) {
	for i := range rows {
		rows[i].isGroup = i+1 < len(rows) && rows[i+1].indent > rows[i].indent
	}
}

// inferOwners resolves each row's owner by scanning backwards for the
// nearest group row exactly one indent level up. A group at any
// shallower level also matches, repairing sheets where a deleted line or
// stray cell skipped an indent level; the row's indent is normalized to
// sit directly under the repaired owner.
func inferOwners(rows []objectRow) {
	for i := range rows {
		for j := i - 1; j >= 0; j-- {
			if !rows[j].isGroup {
				continue
			}
			if rows[j].indent == rows[i].indent-1 {
				rows[i].ownerRow = j
				break
			}
			if rows[j].indent < rows[i].indent {
				rows[i].ownerRow = j
				rows[i].indent = rows[j].indent + 1
				break
			}
		}
	}
}

// ownerContainer maps a row's inferred owner to a live container,
// falling back to the document root when the owner row produced no
// group.
func (e *Engine) ownerContainer(rows []objectRow, r *objectRow) graphml.Container {
	if r.ownerRow < 0 {
		return e.graph
	}
	if grp, ok := rows[r.ownerRow].entity.(*graphml.Group); ok {
		return grp
	}
	e.Logger.Warn("row has no usable owner, attaching at root",
		"row", r.line, "name", r.name)
	return e.graph
}

// applyObjectRow reconciles one sheet row against the original
// snapshot: create when the id is unknown, retype when the
// classification flipped, re-parent when the owner moved, and rename
// in place otherwise.
func (e *Engine) applyObjectRow(owner graphml.Container, r *objectRow, touched map[string]bool) error {
	prev, known := e.original.Objects[r.id]
	if r.id == "" || !known {
		ent, err := e.createObject(owner, r)
		if err != nil {
			return err
		}
		r.entity = ent
		return nil
	}
	touched[r.id] = true

	_, wasGroup := prev.(*graphml.Group)
	if wasGroup != r.isGroup {
		return e.retypeObject(owner, r, prev)
	}

	if prev.Owner() != owner {
		var err error
		switch v := prev.(type) {
		case *graphml.Group:
			err = owner.AdoptGroup(v)
		case *graphml.Node:
			err = owner.AdoptNode(v)
		}
		if err != nil {
			// Typically a group moved into its own subtree. Keep the
			// entity where it is rather than losing it.
			e.Logger.Warn("cannot re-parent, keeping current owner",
				"row", r.line, "name", r.name, "err", err)
		}
	}
	if prev.DisplayName() != r.name {
		prev.SetDisplayName(r.name)
	}
	r.entity = prev
	return nil
}

func (e *Engine) createObject(owner graphml.Container, r *objectRow) (graphml.Entity, error) {
	if r.isGroup {
		grp, err := owner.AddGroup(r.name, nil)
		if err != nil {
			return nil, fmt.Errorf("row %d: create group %q: %w", r.line, r.name, err)
		}
		return grp, nil
	}
	n, err := owner.AddNode(r.name, nil)
	if err != nil {
		return nil, fmt.Errorf("row %d: create node %q: %w", r.line, r.name, err)
	}
	return n, nil
}

// retypeObject replaces an entity whose classification flipped (a leaf
// gained children, or a group lost all of them) with a fresh entity of
// the new kind under the row's owner. The replacement is recorded so
// stale ids in a later relations pass still resolve; edges bound to the
// old entity are left for the integrity pass to prune.
func (e *Engine) retypeObject(owner graphml.Container, r *objectRow, prev graphml.Entity) error {
	if prevOwner := prev.Owner(); prevOwner != nil {
		var err error
		switch v := prev.(type) {
		case *graphml.Group:
			err = prevOwner.RemoveGroup(v, false)
		case *graphml.Node:
			err = prevOwner.RemoveNode(v)
		}
		if err != nil {
			return fmt.Errorf("row %d: retype %q: %w", r.line, r.name, err)
		}
	}
	ent, err := e.createObject(owner, r)
	if err != nil {
		return err
	}
	e.remapped[r.id] = ent
	r.entity = ent
	return nil
}

// importRelations re-reads the relations sheet and reconciles the edge
// set: rows are matched to original edges by id when the label cell
// carries one, or by unambiguous label otherwise; unmatched rows create
// new edges; original edges never revisited are deleted. Rows that
// cannot be resolved (missing or ambiguous endpoints) are logged and
// skipped without aborting the batch.
func (e *Engine) importRelations(wb *workbook.Workbook) error {
	current := e.graph.GatherStats()

	raw, err := wb.Rows(workbook.SheetRelations)
	if err != nil {
		return err
	}

	for i, cells := range raw {
		if i == 0 {
			continue // header
		}
		line := i + 1
		cells = padCells(cells, 4)
		if cells[0] == "" && cells[1] == "" && cells[2] == "" && cells[3] == "" {
			continue
		}
		if cells[0] == "" || cells[1] == "" {
			e.Logger.Warn("skipping relation row with missing endpoint", "row", line)
			continue
		}

		source, ok := e.resolveEntity(cells[0], current)
		if !ok {
			e.Logger.Warn("skipping relation row, cannot resolve endpoint",
				"row", line, "cell", cells[0])
			continue
		}
		target, ok := e.resolveEntity(cells[1], current)
		if !ok {
			e.Logger.Warn("skipping relation row, cannot resolve endpoint",
				"row", line, "cell", cells[1])
			continue
		}
		owner, ok := e.resolveOwner(cells[3], current)
		if !ok {
			e.Logger.Warn("relation row names an unknown group, using root",
				"row", line, "cell", cells[3])
			owner = e.graph
		}

		name, id := splitNameID(cells[2])
		if ed := e.resolveEdge(name, id, current); ed != nil {
			e.touchedEdges[ed] = true
			ed.Source, ed.Target = source, target
			if ed.DisplayName() != name {
				ed.SetDisplayName(name)
			}
			if ed.Owner() != owner {
				if err := owner.AdoptEdge(ed); err != nil {
					return fmt.Errorf("row %d: move edge: %w", line, err)
				}
			}
			continue
		}

		// New edge. Creation at the root always satisfies the nesting
		// rule; a group placement is applied by adoption and re-checked
		// by the integrity pass.
		ed, err := e.graph.AddEdge(source, target, &graphml.EdgeOpts{Name: name})
		if err != nil {
			return fmt.Errorf("row %d: create edge: %w", line, err)
		}
		e.touchedEdges[ed] = true
		if owner != e.graph {
			if err := owner.AdoptEdge(ed); err != nil {
				return fmt.Errorf("row %d: place edge: %w", line, err)
			}
		}
	}

	// Deletion by omission.
	for _, ed := range e.original.Edges {
		if e.touchedEdges[ed] || !e.graph.Contains(ed) {
			continue
		}
		if err := ed.Owner().RemoveEdge(ed); err != nil {
			return fmt.Errorf("delete edge %q: %w", ed.ID(), err)
		}
	}
	return nil
}

// resolveEntity maps an endpoint cell to a live entity: by id first
// (consulting the retype remap, then the original snapshot), then by
// display name when the name is unambiguous in the current document.
func (e *Engine) resolveEntity(cell string, current *graphml.Stats) (graphml.Entity, bool) {
	name, id := splitNameID(cell)
	if id != "" {
		if ent, ok := e.remapped[id]; ok && e.graph.Contains(ent) {
			return ent, true
		}
		if ent, ok := e.original.Objects[id]; ok && e.graph.Contains(ent) {
			return ent, true
		}
		// Stale id; fall back to the name.
	}
	if current.DuplicateNames[name] {
		return nil, false
	}
	for _, curID := range current.NameToIDs[name] {
		if ent, ok := current.Objects[curID]; ok {
			return ent, true
		}
	}
	return nil, false
}

// resolveOwner maps the group cell to a container; the empty cell is
// the document root.
func (e *Engine) resolveOwner(cell string, current *graphml.Stats) (graphml.Container, bool) {
	if cell == "" {
		return e.graph, true
	}
	ent, ok := e.resolveEntity(cell, current)
	if !ok {
		return nil, false
	}
	grp, ok := ent.(*graphml.Group)
	if !ok {
		return nil, false
	}
	return grp, true
}

// resolveEdge finds the existing edge a relations row refers to, or nil
// when the row describes a new edge. An unnamed single edge resolves
// through the empty display name like any other.
func (e *Engine) resolveEdge(name, id string, current *graphml.Stats) *graphml.Edge {
	if id != "" {
		if ed, ok := e.original.Edges[id]; ok && e.graph.Contains(ed) {
			return ed
		}
		return nil
	}
	if current.DuplicateNames[name] {
		return nil
	}
	for _, curID := range current.NameToIDs[name] {
		if ed, ok := current.Edges[curID]; ok {
			return ed
		}
	}
	return nil
}

func padCells(cells []string, n int) []string {
	for len(cells) < n {
		cells = append(cells, "")
	}
	return cells
}

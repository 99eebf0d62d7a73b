package reconcile

import (
	"fmt"

	"github.com/tmewes/graphsmith/pkg/graphml"
	"github.com/tmewes/graphsmith/pkg/workbook"
)

// Export writes the graph into a fresh editing workbook at path and
// retains a statistics snapshot for the later import. The objects sheet
// is always written; the relations sheet is populated only in relations
// mode, because edge rows reference ids that are only stable while the
// hierarchy is frozen.
func (e *Engine) Export(path string, mode Mode) error {
	if err := checkMode(mode); err != nil {
		return err
	}
	e.original = e.graph.GatherStats()

	wb, err := workbook.Create(path)
	if err != nil {
		return err
	}
	defer wb.Close()

	if _, err := e.writeObjects(wb, e.graph, 1, 2); err != nil {
		return err
	}
	if mode == ModeRelations {
		if err := e.writeRelations(wb); err != nil {
			return err
		}
	}
	return wb.Save()
}

// writeObjects emits one row per entity under c, depth-first in
// insertion order: the display name at column indent, the structural id
// one column to the right. The row cursor is threaded through the
// recursion and returned so siblings continue below a group's subtree.
func (e *Engine) writeObjects(wb *workbook.Workbook, c graphml.Container, indent, row int) (int, error) {
	for _, n := range c.Nodes() {
		if err := e.writeObjectRow(wb, row, indent, n.DisplayName(), n.ID()); err != nil {
			return row, err
		}
		row++
	}
	for _, grp := range c.Groups() {
		if err := e.writeObjectRow(wb, row, indent, grp.DisplayName(), grp.ID()); err != nil {
			return row, err
		}
		row++

		childStart := row
		var err error
		if row, err = e.writeObjects(wb, grp, indent+1, row); err != nil {
			return row, err
		}
		if row == childStart {
			// An empty group would be indistinguishable from a leaf node;
			// park a placeholder row under it.
			if err := wb.SetCell(workbook.SheetObjects, row, indent+1, Placeholder); err != nil {
				return row, err
			}
			row++
		}
	}
	return row, nil
}

func (e *Engine) writeObjectRow(wb *workbook.Workbook, row, indent int, name, id string) error {
	if err := wb.SetCell(workbook.SheetObjects, row, indent, name); err != nil {
		return err
	}
	return wb.SetCell(workbook.SheetObjects, row, indent+1, id)
}

// writeRelations emits one row per edge at every nesting level:
// endpoint names, the edge label, and the owning group ("" for
// root-level edges). Names shared by several items are suffixed with
// the structural id so the import can resolve them unambiguously.
func (e *Engine) writeRelations(wb *workbook.Workbook) error {
	row := 2
	var failed error
	walkEdges(e.graph, func(owner graphml.Container, ed *graphml.Edge) {
		if failed != nil {
			return
		}
		ownerName := ""
		if grp, ok := owner.(*graphml.Group); ok {
			ownerName = e.disambiguate(grp.DisplayName(), grp.ID())
		}
		cells := []string{
			e.disambiguate(ed.Source.DisplayName(), ed.Source.ID()),
			e.disambiguate(ed.Target.DisplayName(), ed.Target.ID()),
			e.disambiguate(ed.DisplayName(), ed.ID()),
			ownerName,
		}
		for col, v := range cells {
			if err := wb.SetCell(workbook.SheetRelations, row, col+1, v); err != nil {
				failed = fmt.Errorf("relations row %d: %w", row, err)
				return
			}
		}
		row++
	})
	return failed
}

// walkEdges visits every edge in the document, depth-first in insertion
// order, together with its owning container.
func walkEdges(c graphml.Container, visit func(graphml.Container, *graphml.Edge)) {
	for _, ed := range c.Edges() {
		visit(c, ed)
	}
	for _, grp := range c.Groups() {
		walkEdges(grp, visit)
	}
}

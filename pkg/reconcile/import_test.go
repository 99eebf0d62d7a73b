package reconcile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tmewes/graphsmith/pkg/graphml"
	"github.com/tmewes/graphsmith/pkg/workbook"
)

// sheet builds a workbook whose objects sheet holds the given rows
// (starting below the header), simulating a human-edited file.
func sheet(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edited.xlsx")
	wb, err := workbook.Create(path)
	require.NoError(t, err)
	defer wb.Close()
	for i, row := range rows {
		for j, cell := range row {
			if cell == "" {
				continue
			}
			require.NoError(t, wb.SetCell(workbook.SheetObjects, i+2, j+1, cell))
		}
	}
	require.NoError(t, wb.Save())
	return path
}

// relationsSheet is sheet's counterpart for the relations sheet.
func relationsSheet(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edited.xlsx")
	wb, err := workbook.Create(path)
	require.NoError(t, err)
	defer wb.Close()
	for i, row := range rows {
		for j, cell := range row {
			if cell == "" {
				continue
			}
			require.NoError(t, wb.SetCell(workbook.SheetRelations, i+2, j+1, cell))
		}
	}
	require.NoError(t, wb.Save())
	return path
}

func TestImportHierarchyNoOp(t *testing.T) {
	g := graphml.NewGraph(nil)
	g.AddNode("a", nil)
	g.AddNode("b", nil)
	g.AddNode("c", nil)
	group1, _ := g.AddGroup("group1", nil)
	group1.AddNode("d", nil)
	sub, _ := group1.AddGroup("group1_1", nil)
	sub.AddNode("e", nil)
	g.AddGroup("group2", nil)

	before, err := g.String()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "roundtrip.xlsx")
	engine := New(g)
	require.NoError(t, engine.Export(path, ModeHierarchy))
	require.NoError(t, engine.Import(path, ModeHierarchy))

	after, err := g.String()
	require.NoError(t, err)
	require.Equal(t, before, after, "unedited workbook must be a no-op")
}

func TestImportHierarchyEdits(t *testing.T) {
	g := graphml.NewGraph(nil)
	a, _ := g.AddNode("a", nil)
	b, _ := g.AddNode("b", nil)
	group1, _ := g.AddGroup("group1", nil)
	c, _ := group1.AddNode("c", nil)

	engine := New(g)
	require.NoError(t, engine.Export(filepath.Join(t.TempDir(), "snap.xlsx"), ModeHierarchy))

	// Rename a, move b into group1, create a node there.
	edited := sheet(t, [][]string{
		{"a2", "n0"},
		{"group1", "n2"},
		{"", "b", "n1"},
		{"", "c", "n2::n0"},
		{"", "fresh"},
	})
	require.NoError(t, engine.Import(edited, ModeHierarchy))

	require.Equal(t, "a2", a.DisplayName())
	require.Same(t, graphml.Container(group1), b.Owner())
	require.Same(t, graphml.Container(group1), c.Owner())
	require.Len(t, group1.Nodes(), 3)
	require.Equal(t, "fresh", group1.Nodes()[2].DisplayName())
	require.Len(t, g.Nodes(), 1)
}

func TestImportHierarchyDeletesOmittedRows(t *testing.T) {
	g := graphml.NewGraph(nil)
	g.AddNode("a", nil)
	b, _ := g.AddNode("b", nil)
	group1, _ := g.AddGroup("group1", nil)
	group1.AddNode("c", nil)

	engine := New(g)
	require.NoError(t, engine.Export(filepath.Join(t.TempDir(), "snap.xlsx"), ModeHierarchy))

	// Only b survives: a is gone, and group1's subtree goes with it.
	edited := sheet(t, [][]string{
		{"b", "n1"},
	})
	require.NoError(t, engine.Import(edited, ModeHierarchy))

	stats := g.GatherStats()
	require.Equal(t, 1, stats.NodeCount())
	require.Equal(t, 0, stats.GroupCount())
	require.Same(t, b, g.Nodes()[0])
}

func TestImportHierarchyRetype(t *testing.T) {
	g := graphml.NewGraph(nil)
	a, _ := g.AddNode("a", nil)
	b, _ := g.AddNode("b", nil)
	_, err := g.AddEdge(a, b, &graphml.EdgeOpts{Name: "r"})
	require.NoError(t, err)

	engine := New(g)
	require.NoError(t, engine.Export(filepath.Join(t.TempDir(), "snap.xlsx"), ModeHierarchy))

	// a gains a child row, so it becomes a group. The old leaf node is
	// destroyed; its edge is stranded and pruned by the integrity pass.
	edited := sheet(t, [][]string{
		{"a", "n0"},
		{"", "child"},
		{"b", "n1"},
	})
	require.NoError(t, engine.Import(edited, ModeHierarchy))

	stats := g.GatherStats()
	require.Equal(t, 1, stats.GroupCount())
	require.Equal(t, 2, stats.NodeCount())
	require.Equal(t, 0, stats.EdgeCount(), "edge to the retyped entity must be pruned")

	grp := g.Groups()[0]
	require.Equal(t, "a", grp.DisplayName())
	require.Len(t, grp.Nodes(), 1)
	require.Equal(t, "child", grp.Nodes()[0].DisplayName())
}

func TestImportHierarchyIndentRepair(t *testing.T) {
	g := graphml.NewGraph(nil)
	grp, _ := g.AddGroup("grp", nil)
	x, _ := grp.AddNode("x", nil)

	engine := New(g)
	require.NoError(t, engine.Export(filepath.Join(t.TempDir(), "snap.xlsx"), ModeHierarchy))

	// x is indented two levels below grp (a sloppy edit); the backward
	// scan repairs it to a direct child.
	edited := sheet(t, [][]string{
		{"grp", "n0"},
		{"", "", "x", "n0::n0"},
	})
	require.NoError(t, engine.Import(edited, ModeHierarchy))

	require.Same(t, graphml.Container(grp), x.Owner())
	require.Len(t, grp.Nodes(), 1)
}

func TestImportRelationsEdits(t *testing.T) {
	g := graphml.NewGraph(nil)
	a, _ := g.AddNode("a", nil)
	b, _ := g.AddNode("b", nil)
	c, _ := g.AddNode("c", nil)
	r, err := g.AddEdge(a, b, &graphml.EdgeOpts{Name: "r"})
	require.NoError(t, err)
	_, err = g.AddEdge(b, c, &graphml.EdgeOpts{Name: "drop me"})
	require.NoError(t, err)

	engine := New(g)
	require.NoError(t, engine.Export(filepath.Join(t.TempDir(), "snap.xlsx"), ModeRelations))

	// Rewire r to point at c, create a fresh unnamed edge, and omit the
	// second edge so it is deleted.
	edited := relationsSheet(t, [][]string{
		{"a", "c", "r"},
		{"b", "c"},
	})
	require.NoError(t, engine.Import(edited, ModeRelations))

	stats := g.GatherStats()
	require.Equal(t, 2, stats.EdgeCount())
	require.Same(t, graphml.Entity(a), r.Source)
	require.Same(t, graphml.Entity(c), r.Target)

	fresh := g.Edges()[1]
	require.Equal(t, "", fresh.DisplayName())
	require.Same(t, graphml.Entity(b), fresh.Source)
	require.Same(t, graphml.Entity(c), fresh.Target)
}

func TestImportRelationsNoOpWithDuplicateNames(t *testing.T) {
	g := graphml.NewGraph(nil)
	s1, _ := g.AddNode("Savona", nil)
	s2, _ := g.AddNode("Savona", nil)
	z, _ := g.AddNode("z", nil)
	r1, err := g.AddEdge(s1, z, &graphml.EdgeOpts{Name: "first"})
	require.NoError(t, err)
	r2, err := g.AddEdge(s2, z, &graphml.EdgeOpts{Name: "second"})
	require.NoError(t, err)

	before, err := g.String()
	require.NoError(t, err)

	// Re-importing the untouched export must route each endpoint back to
	// its own entity via the id suffix, never to the same-named sibling.
	path := filepath.Join(t.TempDir(), "roundtrip.xlsx")
	engine := New(g)
	require.NoError(t, engine.Export(path, ModeRelations))
	require.NoError(t, engine.Import(path, ModeRelations))

	require.Len(t, g.Edges(), 2)
	require.Same(t, graphml.Entity(s1), r1.Source)
	require.Same(t, graphml.Entity(s2), r2.Source)

	after, err := g.String()
	require.NoError(t, err)
	require.Equal(t, before, after, "unedited workbook must be a no-op")
}

func TestImportRelationsResolvesByID(t *testing.T) {
	g := graphml.NewGraph(nil)
	d1, _ := g.AddNode("dup", nil)
	g.AddNode("dup", nil)
	z, _ := g.AddNode("z", nil)

	engine := New(g)
	require.NoError(t, engine.Export(filepath.Join(t.TempDir(), "snap.xlsx"), ModeRelations))

	edited := relationsSheet(t, [][]string{
		{"dup | n0", "z", "picked"},
	})
	require.NoError(t, engine.Import(edited, ModeRelations))

	require.Len(t, g.Edges(), 1)
	require.Same(t, graphml.Entity(d1), g.Edges()[0].Source)
	require.Same(t, graphml.Entity(z), g.Edges()[0].Target)
}

func TestImportRelationsSkipsUnresolvableRows(t *testing.T) {
	g := graphml.NewGraph(nil)
	g.AddNode("dup", nil)
	g.AddNode("dup", nil)
	g.AddNode("z", nil)

	engine := New(g)
	require.NoError(t, engine.Export(filepath.Join(t.TempDir(), "snap.xlsx"), ModeRelations))

	edited := relationsSheet(t, [][]string{
		{"dup", "z", "ambiguous source"}, // shared name without id
		{"", "z", "missing source"},
		{"ghost", "z", "unknown source"},
	})
	require.NoError(t, engine.Import(edited, ModeRelations))
	require.Len(t, g.Edges(), 0, "unresolvable rows must be skipped, not guessed")
}

func TestImportRelationsMovesEdgeIntoGroup(t *testing.T) {
	g := graphml.NewGraph(nil)
	grp, _ := g.AddGroup("grp", nil)
	a, _ := grp.AddNode("a", nil)
	b, _ := grp.AddNode("b", nil)
	r, err := g.AddEdge(a, b, &graphml.EdgeOpts{Name: "r"})
	require.NoError(t, err)

	engine := New(g)
	require.NoError(t, engine.Export(filepath.Join(t.TempDir(), "snap.xlsx"), ModeRelations))

	edited := relationsSheet(t, [][]string{
		{"a", "b", "r", "grp"},
	})
	require.NoError(t, engine.Import(edited, ModeRelations))

	require.Same(t, graphml.Container(grp), r.Owner())
	require.Len(t, g.Edges(), 0)
	require.Len(t, grp.Edges(), 1)
}

func TestImportObjectDataNotImplemented(t *testing.T) {
	g := graphml.NewGraph(nil)
	err := New(g).Import(filepath.Join(t.TempDir(), "missing.xlsx"), ModeObjectData)
	require.ErrorIs(t, err, graphml.ErrNotImplemented)
}

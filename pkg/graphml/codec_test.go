package graphml

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestRoundTripIdentity(t *testing.T) {
	g := NewGraph(nil)
	a, _ := g.AddNode("a", nil)
	b, _ := g.AddNode("b", nil)
	if _, err := g.AddEdge(a, b, &EdgeOpts{Name: "a to b"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	first, err := g.String()
	if err != nil {
		t.Fatalf("String: %v", err)
	}

	parsed, err := Parse(first)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	second, err := parsed.String()
	if err != nil {
		t.Fatalf("String (reparsed): %v", err)
	}
	if first != second {
		t.Errorf("round trip not stable:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestRoundTripHierarchy(t *testing.T) {
	g := NewGraph(nil)
	if _, err := g.DefineProperty(ScopeNode, "Population", "int", "0"); err != nil {
		t.Fatalf("DefineProperty: %v", err)
	}
	if _, err := g.DefineProperty(ScopeEdge, "Distance", "double", "0.0"); err != nil {
		t.Fatalf("DefineProperty: %v", err)
	}

	outer, _ := g.AddGroup("Liguria", &GroupOpts{Description: "coastal region"})
	genoa, err := outer.AddNode("Genoa", &NodeOpts{
		URL:        "https://example.test/genoa",
		Properties: map[string]string{"Population": "560688"},
	})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	inner, _ := outer.AddGroup("Riviera", nil)
	savona, _ := inner.AddNode("Savona", nil)
	if _, err := outer.AddEdge(genoa, savona, &EdgeOpts{
		Name:       "coast road",
		Properties: map[string]string{"Distance": "46.3"},
	}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	text, err := g.String()
	if err != nil {
		t.Fatalf("String: %v", err)
	}

	parsed, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	stats := parsed.GatherStats()
	if stats.NodeCount() != 2 || stats.GroupCount() != 2 || stats.EdgeCount() != 1 {
		t.Fatalf("counts = %d/%d/%d, want 2/2/1",
			stats.NodeCount(), stats.GroupCount(), stats.EdgeCount())
	}

	items := parsed.GatherStats().FindByName("Genoa")
	if len(items) != 1 {
		t.Fatalf("FindByName(Genoa) = %d items", len(items))
	}
	n, ok := items[0].(*Node)
	if !ok {
		t.Fatalf("Genoa is %T, want *Node", items[0])
	}
	if n.Properties["Population"] != "560688" {
		t.Errorf("Population = %q, want 560688", n.Properties["Population"])
	}
	if n.URL != "https://example.test/genoa" {
		t.Errorf("URL = %q", n.URL)
	}
	if grp, ok := n.Owner().(*Group); !ok || grp.DisplayName() != "Liguria" {
		t.Errorf("owner = %v, want group Liguria", n.Owner())
	}

	// And the reparse is stable.
	second, err := parsed.String()
	if err != nil {
		t.Fatalf("String (reparsed): %v", err)
	}
	if text != second {
		t.Errorf("round trip not stable")
	}
}

func TestParseToleratesMessyInput(t *testing.T) {
	messy := `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns"
	xmlns:y="http://www.yworks.com/xml/graphml"
	xsi:schemaLocation="http://graphml.graphdrawing.org/xmlns http://www.yworks.com/xml/schema/graphml/1.1/ygraphml.xsd"
	xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <key id="data_node"   for="node" yfiles.type="nodegraphics"/>
  <key id="data_edge" for="edge"
       yfiles.type="edgegraphics"/>
  <graph edgedefault="directed" id="G">
    <node id="n0">
      <data key="data_node">
        <y:ShapeNode>
          <y:Fill color="#FFCC00" transparent="false"/>
          <y:NodeLabel>hello	world</y:NodeLabel>
          <y:Shape type="rectangle"/>
        </y:ShapeNode>
      </data>
    </node>
    <node id="n1">
      <data key="data_node"><y:ShapeNode><y:NodeLabel>other</y:NodeLabel></y:ShapeNode></data>
    </node>
    <edge id="e0" source="n0" target="n1">
      <data key="data_edge"><y:PolyLineEdge/></data>
    </edge>
  </graph>
</graphml>`

	g, err := Parse(messy)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	stats := g.GatherStats()
	if stats.NodeCount() != 2 || stats.EdgeCount() != 1 {
		t.Fatalf("counts = %d nodes, %d edges, want 2, 1",
			stats.NodeCount(), stats.EdgeCount())
	}
	// Line breaks and tabs inside text collapse to single spaces.
	if got := g.Nodes()[0].DisplayName(); got != "hello world" {
		t.Errorf("name = %q, want %q", got, "hello world")
	}
}

func TestParseUnknownEndpoint(t *testing.T) {
	doc := `<?xml version="1.0"?><graphml><graph edgedefault="directed" id="G">` +
		`<node id="n0"><data key="k"><ShapeNode/></data></node>` +
		`<edge id="e0" source="n0" target="n9"/></graph></graphml>`
	if _, err := Parse(doc); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("Parse = %v, want ErrEntityNotFound", err)
	}
}

func TestParseCollectsCustomPropertyKeys(t *testing.T) {
	doc := `<?xml version="1.0"?><graphml>` +
		`<key id="node_Population" for="node" attr.name="Population" attr.type="int"><default>0</default></key>` +
		`<key id="url_node" for="node" attr.name="url" attr.type="string"/>` +
		`<graph edgedefault="directed" id="G">` +
		`<node id="n0"><data key="x"><ShapeNode><NodeLabel>a</NodeLabel></ShapeNode></data>` +
		`<data key="node_Population">42</data></node>` +
		`</graph></graphml>`

	g, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defs := g.Schema().Definitions()
	if len(defs) != 1 {
		t.Fatalf("definitions = %d, want 1 (url key must not become a property)", len(defs))
	}
	if defs[0].Name != "Population" || defs[0].Default != "0" {
		t.Errorf("definition = %+v", defs[0])
	}
	if got := g.Nodes()[0].Properties["Population"]; got != "42" {
		t.Errorf("Population = %q, want 42", got)
	}
}

func TestParseSkipsKeysOutsideNodeAndEdgeScope(t *testing.T) {
	// yEd-saved documents always declare a graph-level Description key
	// and port graphics keys alongside the node/edge ones. None of them
	// declare custom properties.
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns"
	xmlns:y="http://www.yworks.com/xml/graphml"
	xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <key attr.name="Description" attr.type="string" for="graph" id="d0"/>
  <key for="port" yfiles.type="portgraphics" id="d1"/>
  <key for="port" yfiles.type="portgeometry" id="d2"/>
  <key for="port" yfiles.type="portuserdata" id="d3"/>
  <key attr.name="url" attr.type="string" for="node" id="d4"/>
  <key attr.name="Weight" attr.type="int" for="node" id="d5"/>
  <key for="node" yfiles.type="nodegraphics" id="d6"/>
  <key for="edge" yfiles.type="edgegraphics" id="d7"/>
  <graph edgedefault="directed" id="G">
    <data key="d0"/>
    <node id="n0">
      <data key="d5">7</data>
      <data key="d6"><y:ShapeNode><y:NodeLabel>a</y:NodeLabel></y:ShapeNode></data>
    </node>
  </graph>
</graphml>`

	g, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	stats := g.GatherStats()
	if stats.NodeCount() != 1 {
		t.Fatalf("nodes = %d, want 1", stats.NodeCount())
	}
	defs := g.Schema().Definitions()
	if len(defs) != 1 || defs[0].Name != "Weight" {
		t.Fatalf("definitions = %+v, want only the node-scoped Weight key", defs)
	}
	if got := g.Nodes()[0].Properties["Weight"]; got != "7" {
		t.Errorf("Weight = %q, want 7", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.graphml"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Load = %v, want ErrFileNotFound", err)
	}
}

func TestPersistAndLoad(t *testing.T) {
	g := NewGraph(nil)
	a, _ := g.AddNode("a", nil)
	b, _ := g.AddNode("b", nil)
	if _, err := g.AddEdge(a, b, nil); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	path := filepath.Join(t.TempDir(), "doc")
	file, err := g.Persist(path, nil)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if !strings.HasSuffix(file.FullPath, ".graphml") {
		t.Errorf("extension not normalized: %s", file.FullPath)
	}

	// Overwrite protection.
	if _, err := g.Persist(path, nil); !errors.Is(err, ErrFileExists) {
		t.Errorf("second Persist = %v, want ErrFileExists", err)
	}
	if _, err := g.Persist(path, &PersistOpts{Overwrite: true, Pretty: true}); err != nil {
		t.Errorf("overwriting Persist: %v", err)
	}

	loaded, err := Load(file.FullPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	stats := loaded.GatherStats()
	if stats.NodeCount() != 2 || stats.EdgeCount() != 1 {
		t.Errorf("counts = %d/%d, want 2/1", stats.NodeCount(), stats.EdgeCount())
	}
}

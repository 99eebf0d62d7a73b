package graphml

import (
	"fmt"
	"os"

	"github.com/beevik/etree"
)

// The yEd GraphML namespace set. The exact attribute set and key
// declarations below are a compatibility contract: yEd rejects documents
// whose key table deviates from this structure.
var rootNamespaces = [][2]string{
	{"xmlns", "http://graphml.graphdrawing.org/xmlns"},
	{"xmlns:java", "http://www.yworks.com/xml/yfiles-common/1.0/java"},
	{"xmlns:sys", "http://www.yworks.com/xml/yfiles-common/markup/primitives/2.0"},
	{"xmlns:x", "http://www.yworks.com/xml/yfiles-common/markup/2.0"},
	{"xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance"},
	{"xmlns:y", "http://www.yworks.com/xml/graphml"},
	{"xmlns:yed", "http://www.yworks.com/xml/yed/3"},
	{"xsi:schemaLocation", "http://graphml.graphdrawing.org/xmlns http://www.yworks.com/xml/schema/graphml/1.1/ygraphml.xsd"},
}

// PersistOpts controls Persist.
type PersistOpts struct {
	// Pretty indents the XML output; the default is compact.
	Pretty bool
	// Overwrite allows replacing an existing file.
	Overwrite bool
}

// BuildDocument serializes the graph into an XML document tree:
// the schema key declarations (fixed keys for graphics, url and
// description on nodes and edges, plus one key per custom property),
// followed by the top-level nodes, groups and edges in insertion order.
// Output is deterministic for a given graph.
func (g *Graph) BuildDocument() *etree.Document {
	g.reassignIDs()

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="no"`)

	root := doc.CreateElement("graphml")
	for _, ns := range rootNamespaces {
		root.CreateAttr(ns[0], ns[1])
	}

	nodeData := root.CreateElement("key")
	nodeData.CreateAttr("id", "data_node")
	nodeData.CreateAttr("for", "node")
	nodeData.CreateAttr("yfiles.type", "nodegraphics")

	stringKey := func(id, scope, name string) {
		key := root.CreateElement("key")
		key.CreateAttr("id", id)
		key.CreateAttr("for", scope)
		key.CreateAttr("attr.name", name)
		key.CreateAttr("attr.type", "string")
	}
	stringKey("url_node", "node", "url")
	stringKey("description_node", "node", "description")
	stringKey("url_edge", "edge", "url")
	stringKey("description_edge", "edge", "description")

	for _, def := range g.schema.Definitions() {
		def.xml(root)
	}

	edgeData := root.CreateElement("key")
	edgeData.CreateAttr("id", "data_edge")
	edgeData.CreateAttr("for", "edge")
	edgeData.CreateAttr("yfiles.type", "edgegraphics")

	graph := root.CreateElement("graph")
	graph.CreateAttr("edgedefault", g.EdgeDefault)
	graph.CreateAttr("id", g.id)

	for _, n := range g.kids.nodes {
		graph.AddChild(n.xml(g.schema))
	}
	for _, grp := range g.kids.groups {
		graph.AddChild(grp.xml(g.schema))
	}
	for _, e := range g.kids.edges {
		graph.AddChild(e.xml(g.schema))
	}

	return doc
}

// String returns the serialized document text (compact form).
func (g *Graph) String() (string, error) {
	doc := g.BuildDocument()
	return doc.WriteToString()
}

// Persist writes the document to path (normalized per [NewDocumentFile])
// and returns the resolved file. An existing file fails with
// [ErrFileExists] unless opts.Overwrite is set.
func (g *Graph) Persist(path string, opts *PersistOpts) (*DocumentFile, error) {
	o := PersistOpts{}
	if opts != nil {
		o = *opts
	}

	file := NewDocumentFile(path)
	if file.Exists() && !o.Overwrite {
		return nil, fmt.Errorf("%w: %s", ErrFileExists, file.FullPath)
	}

	doc := g.BuildDocument()
	if o.Pretty {
		doc.Indent(2)
	}

	text, err := doc.WriteToString()
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	if err := os.WriteFile(file.FullPath, []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	return file, nil
}

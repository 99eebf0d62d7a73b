package graphml

import (
	"github.com/beevik/etree"
)

// GroupOpts carries the optional construction parameters of a group.
// A nil GroupOpts means all defaults.
type GroupOpts struct {
	// Label is the group's caption; it defaults to the display name.
	Label          string
	LabelAlignment string // default "center"
	FontFamily     string // default "Dialog"
	FontSize       string // default "12"
	FontStyle      string // default "plain"
	UnderlinedText string // default "false"

	Shape       string // default "rectangle"
	Fill        string // default "#FFCC00"
	Transparent string // default "false"
	BorderColor string // default "#000000"
	BorderType  string // default "line"
	BorderWidth string // default "1.0"
	Geometry    Geometry

	// Closed collapses the group in the editor.
	Closed string // default "false"

	URL         string
	Description string

	// Properties overrides custom-property values for this instance.
	// Groups render as nodes and use the node scope.
	Properties map[string]string
}

// Group is a container entity: it renders as a collapsible node and owns
// nodes, sub-groups and edges of its own. Ownership forms a tree - a
// group can never be its own descendant.
type Group struct {
	name  string
	id    string
	owner Container
	root  *Graph
	kids  members

	Label          string
	LabelAlignment string
	FontFamily     string
	FontSize       string
	FontStyle      string
	UnderlinedText string

	Shape       string
	Fill        string
	Transparent string
	BorderColor string
	BorderType  string
	BorderWidth string
	Geometry    Geometry

	Closed string

	URL         string
	Description string

	Properties map[string]string
}

// newGroup validates opts and builds a detached group bound to root's
// schema. Containers attach it through their add-operations.
func newGroup(root *Graph, name string, opts *GroupOpts) (*Group, error) {
	o := GroupOpts{}
	if opts != nil {
		o = *opts
	}
	def := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	def(&o.LabelAlignment, "center")
	def(&o.FontFamily, "Dialog")
	def(&o.FontSize, "12")
	def(&o.FontStyle, "plain")
	def(&o.UnderlinedText, "false")
	def(&o.Shape, "rectangle")
	def(&o.Fill, "#FFCC00")
	def(&o.Transparent, "false")
	def(&o.BorderColor, "#000000")
	def(&o.BorderType, "line")
	def(&o.BorderWidth, "1.0")
	def(&o.Closed, "false")

	if err := CheckValue("shape", o.Shape, Shapes); err != nil {
		return nil, err
	}
	if err := CheckValue("label_alignment", o.LabelAlignment, HorizontalAlignments); err != nil {
		return nil, err
	}
	if err := CheckValue("font_style", o.FontStyle, FontStyles); err != nil {
		return nil, err
	}
	if err := CheckValue("border_type", o.BorderType, LineTypes); err != nil {
		return nil, err
	}
	if err := CheckValue("closed", o.Closed, Booleans); err != nil {
		return nil, err
	}

	props, err := root.schema.applyOverrides(ScopeNode, o.Properties)
	if err != nil {
		return nil, err
	}

	label := o.Label
	if label == "" {
		label = name
	}

	return &Group{
		name:           name,
		root:           root,
		Label:          label,
		LabelAlignment: o.LabelAlignment,
		FontFamily:     o.FontFamily,
		FontSize:       o.FontSize,
		FontStyle:      o.FontStyle,
		UnderlinedText: o.UnderlinedText,
		Shape:          o.Shape,
		Fill:           o.Fill,
		Transparent:    o.Transparent,
		BorderColor:    o.BorderColor,
		BorderType:     o.BorderType,
		BorderWidth:    o.BorderWidth,
		Geometry:       o.Geometry,
		Closed:         o.Closed,
		URL:            o.URL,
		Description:    o.Description,
		Properties:     props,
	}, nil
}

// ID implements [Item].
func (g *Group) ID() string { return g.id }

// DisplayName implements [Item].
func (g *Group) DisplayName() string { return g.name }

// Owner implements [Entity].
func (g *Group) Owner() Container { return g.owner }

// SetDisplayName renames the group. The caption follows the rename when
// it still showed the old name.
func (g *Group) SetDisplayName(name string) {
	if g.Label == g.name {
		g.Label = name
	}
	g.name = name
}

// Graph implements [Container]. The binding to the document root
// survives detachment so a detached subtree can still be inspected.
func (g *Group) Graph() *Graph { return g.root }

// Parent implements [Container].
func (g *Group) Parent() Container { return g.owner }

// Nodes returns the directly owned leaf nodes in insertion order.
func (g *Group) Nodes() []*Node { return g.kids.nodes }

// Groups returns the directly owned sub-groups in insertion order.
func (g *Group) Groups() []*Group { return g.kids.groups }

// Edges returns the directly owned edges in insertion order.
func (g *Group) Edges() []*Edge { return g.kids.edges }

func (g *Group) members() *members { return &g.kids }

// AddNode implements [Container].
func (g *Group) AddNode(name string, opts *NodeOpts) (*Node, error) {
	return addNode(g, name, opts)
}

// AddGroup implements [Container].
func (g *Group) AddGroup(name string, opts *GroupOpts) (*Group, error) {
	return addGroup(g, name, opts)
}

// AddEdge implements [Container]. The group must be a common ancestor of
// both endpoints (GraphML nesting rule).
func (g *Group) AddEdge(source, target Entity, opts *EdgeOpts) (*Edge, error) {
	return addEdge(g, source, target, opts)
}

// AdoptNode implements [Container].
func (g *Group) AdoptNode(n *Node) error { return adoptNode(g, n) }

// AdoptGroup implements [Container].
func (g *Group) AdoptGroup(grp *Group) error { return adoptGroup(g, grp) }

// AdoptEdge implements [Container]. See the interface note: the nesting
// rule is not re-validated here.
func (g *Group) AdoptEdge(e *Edge) error { return adoptEdge(g, e) }

// RemoveNode implements [Container].
func (g *Group) RemoveNode(n *Node) error { return removeNode(g, n) }

// RemoveGroup implements [Container].
func (g *Group) RemoveGroup(grp *Group, heal bool) error { return removeGroup(g, grp, heal) }

// RemoveEdge implements [Container].
func (g *Group) RemoveEdge(e *Edge) error { return removeEdge(g, e) }

// IsAncestor reports whether g appears in the owner chain of e. It is
// irreflexive: a group is not its own ancestor.
func (g *Group) IsAncestor(e Entity) bool {
	owner := e.Owner()
	if owner == nil {
		return false
	}
	return isAncestorOrSelf(g, owner)
}

// xml renders the group as a folder-typed node element with its group
// realizer, the nested graph holding its children, url/description side
// channels and the custom-property data elements.
func (g *Group) xml(schema *Schema) *etree.Element {
	node := etree.NewElement("node")
	node.CreateAttr("id", g.id)
	node.CreateAttr("yfiles.foldertype", "group")

	data := node.CreateElement("data")
	data.CreateAttr("key", "data_node")

	pabn := data.CreateElement("y:ProxyAutoBoundsNode")
	realizers := pabn.CreateElement("y:Realizers")
	realizers.CreateAttr("active", "0")
	groupNode := realizers.CreateElement("y:GroupNode")

	g.Geometry.xml(groupNode)

	fill := groupNode.CreateElement("y:Fill")
	fill.CreateAttr("color", g.Fill)
	fill.CreateAttr("transparent", g.Transparent)

	border := groupNode.CreateElement("y:BorderStyle")
	border.CreateAttr("color", g.BorderColor)
	border.CreateAttr("type", g.BorderType)
	border.CreateAttr("width", g.BorderWidth)

	label := groupNode.CreateElement("y:NodeLabel")
	label.CreateAttr("modelName", "internal")
	label.CreateAttr("modelPosition", "t")
	label.CreateAttr("fontFamily", g.FontFamily)
	label.CreateAttr("fontSize", g.FontSize)
	label.CreateAttr("underlinedText", g.UnderlinedText)
	label.CreateAttr("fontStyle", g.FontStyle)
	label.CreateAttr("alignment", g.LabelAlignment)
	label.SetText(g.Label)

	shape := groupNode.CreateElement("y:Shape")
	shape.CreateAttr("type", g.Shape)

	state := groupNode.CreateElement("y:State")
	state.CreateAttr("closed", g.Closed)

	graph := node.CreateElement("graph")
	graph.CreateAttr("edgedefault", g.root.EdgeDefault)
	graph.CreateAttr("id", g.id)

	if g.URL != "" {
		url := node.CreateElement("data")
		url.CreateAttr("key", "url_node")
		url.SetText(g.URL)
	}
	if g.Description != "" {
		desc := node.CreateElement("data")
		desc.CreateAttr("key", "description_node")
		desc.SetText(g.Description)
	}

	for _, n := range g.kids.nodes {
		graph.AddChild(n.xml(schema))
	}
	for _, sub := range g.kids.groups {
		graph.AddChild(sub.xml(schema))
	}
	for _, e := range g.kids.edges {
		graph.AddChild(e.xml(schema))
	}

	for _, d := range schema.ForScope(ScopeNode) {
		prop := node.CreateElement("data")
		prop.CreateAttr("key", d.KeyID())
		prop.SetText(g.Properties[d.Name])
	}

	return node
}

package graphml

import (
	"github.com/beevik/etree"
)

// Geometry carries the optional size and position of a node or group.
// Empty fields are omitted from serialization.
type Geometry struct {
	Height string
	Width  string
	X      string
	Y      string
}

func (g Geometry) empty() bool {
	return g == Geometry{}
}

func (g Geometry) xml(parent *etree.Element) {
	if g.empty() {
		return
	}
	e := parent.CreateElement("y:Geometry")
	if g.Height != "" {
		e.CreateAttr("height", g.Height)
	}
	if g.Width != "" {
		e.CreateAttr("width", g.Width)
	}
	if g.X != "" {
		e.CreateAttr("x", g.X)
	}
	if g.Y != "" {
		e.CreateAttr("y", g.Y)
	}
}

// UML is the payload of a UML class node: the attribute and method
// compartments plus an optional stereotype.
type UML struct {
	Attributes string
	Methods    string
	Stereotype string
}

// NodeOpts carries the optional construction parameters of a node. A nil
// NodeOpts means all defaults. Values are kept as XML string spellings.
type NodeOpts struct {
	// Label is the text of the first label; it defaults to the display
	// name. LabelOpts styles that first label.
	Label     string
	LabelOpts *LabelOpts

	Shape       string // default "rectangle"
	Fill        string // default "#FFCC00"
	Transparent string // default "false"
	BorderColor string // default "#000000"
	BorderType  string // default "line"
	BorderWidth string // default "1.0"
	Geometry    Geometry

	// NodeType selects the graphics payload element, e.g. "ShapeNode"
	// (default) or "UMLClassNode" together with UML.
	NodeType string
	UML      *UML

	URL         string
	Description string

	// Properties overrides custom-property values for this instance.
	// Keys must be defined in the graph's schema for the node scope.
	Properties map[string]string
}

// Node is a leaf entity of the document.
type Node struct {
	name  string
	id    string
	owner Container

	Labels []*Label

	Shape       string
	Fill        string
	Transparent string
	BorderColor string
	BorderType  string
	BorderWidth string
	Geometry    Geometry

	NodeType string
	UML      *UML

	URL         string
	Description string

	// Properties holds the custom-property values for this instance,
	// seeded from the schema defaults at construction.
	Properties map[string]string
}

// newNode validates opts and builds a detached node. Containers attach it
// through their add-operations.
func newNode(schema *Schema, name string, opts *NodeOpts) (*Node, error) {
	o := NodeOpts{}
	if opts != nil {
		o = *opts
	}
	def := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	def(&o.Shape, "rectangle")
	def(&o.Fill, "#FFCC00")
	def(&o.Transparent, "false")
	def(&o.BorderColor, "#000000")
	def(&o.BorderType, "line")
	def(&o.BorderWidth, "1.0")
	def(&o.NodeType, "ShapeNode")

	if err := CheckValue("shape", o.Shape, Shapes); err != nil {
		return nil, err
	}
	if err := CheckValue("border_type", o.BorderType, LineTypes); err != nil {
		return nil, err
	}
	if err := CheckValue("transparent", o.Transparent, Booleans); err != nil {
		return nil, err
	}

	props, err := schema.applyOverrides(ScopeNode, o.Properties)
	if err != nil {
		return nil, err
	}

	text := o.Label
	if text == "" {
		text = name
	}
	first, err := NewNodeLabel(text, o.LabelOpts)
	if err != nil {
		return nil, err
	}

	return &Node{
		name:        name,
		Labels:      []*Label{first},
		Shape:       o.Shape,
		Fill:        o.Fill,
		Transparent: o.Transparent,
		BorderColor: o.BorderColor,
		BorderType:  o.BorderType,
		BorderWidth: o.BorderWidth,
		Geometry:    o.Geometry,
		NodeType:    o.NodeType,
		UML:         o.UML,
		URL:         o.URL,
		Description: o.Description,
		Properties:  props,
	}, nil
}

// ID implements [Item].
func (n *Node) ID() string { return n.id }

// DisplayName implements [Item].
func (n *Node) DisplayName() string { return n.name }

// Owner implements [Entity].
func (n *Node) Owner() Container { return n.owner }

// SetDisplayName renames the node. The first label follows the rename
// when it still showed the old name.
func (n *Node) SetDisplayName(name string) {
	if len(n.Labels) > 0 && n.Labels[0].Text == n.name {
		n.Labels[0].Text = name
	}
	n.name = name
}

// AddLabel appends another label to the node and returns the node for
// chaining.
func (n *Node) AddLabel(text string, opts *LabelOpts) (*Node, error) {
	l, err := NewNodeLabel(text, opts)
	if err != nil {
		return n, err
	}
	n.Labels = append(n.Labels, l)
	return n, nil
}

// SetProperty overrides one custom-property value on this instance.
// The key must be defined in the graph's node scope.
func (n *Node) SetProperty(schema *Schema, name, value string) error {
	if _, ok := schema.Lookup(ScopeNode, name); !ok {
		return errUnknownProp(ScopeNode, name)
	}
	n.Properties[name] = value
	return nil
}

// xml renders the node element with its graphics payload, labels,
// url/description side channels and one data element per custom-property
// definition in scope.
func (n *Node) xml(schema *Schema) *etree.Element {
	node := etree.NewElement("node")
	node.CreateAttr("id", n.id)

	data := node.CreateElement("data")
	data.CreateAttr("key", "data_node")
	shape := data.CreateElement("y:" + n.NodeType)

	n.Geometry.xml(shape)

	fill := shape.CreateElement("y:Fill")
	fill.CreateAttr("color", n.Fill)
	fill.CreateAttr("transparent", n.Transparent)

	border := shape.CreateElement("y:BorderStyle")
	border.CreateAttr("color", n.BorderColor)
	border.CreateAttr("type", n.BorderType)
	border.CreateAttr("width", n.BorderWidth)

	for _, l := range n.Labels {
		l.xml(shape)
	}

	shapeType := shape.CreateElement("y:Shape")
	shapeType.CreateAttr("type", n.Shape)

	if n.UML != nil {
		uml := shape.CreateElement("y:UML")
		uml.CreateAttr("stereotype", n.UML.Stereotype)
		attrs := uml.CreateElement("y:AttributeLabel")
		attrs.SetText(n.UML.Attributes)
		methods := uml.CreateElement("y:MethodLabel")
		methods.SetText(n.UML.Methods)
	}

	if n.URL != "" {
		url := node.CreateElement("data")
		url.CreateAttr("key", "url_node")
		url.SetText(n.URL)
	}
	if n.Description != "" {
		desc := node.CreateElement("data")
		desc.CreateAttr("key", "description_node")
		desc.SetText(n.Description)
	}

	for _, d := range schema.ForScope(ScopeNode) {
		prop := node.CreateElement("data")
		prop.CreateAttr("key", d.KeyID())
		prop.SetText(n.Properties[d.Name])
	}

	return node
}

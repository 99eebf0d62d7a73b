package graphml

import (
	"github.com/beevik/etree"
)

// EdgeOpts carries the optional construction parameters of an edge.
// A nil EdgeOpts means all defaults.
type EdgeOpts struct {
	// Name is the edge's display name; when set it becomes the text of the
	// first label. Unlike nodes, an edge may stay unnamed.
	Name      string
	LabelOpts *LabelOpts

	Arrowhead string // target-side glyph, default "standard"
	Arrowfoot string // source-side glyph, default "none"
	Color     string // default "#000000"
	LineType  string // default "line"
	Width     string // default "1.0"

	// SourceLabel and TargetLabel add auxiliary labels pinned to the
	// source and target ends of the edge.
	SourceLabel string
	TargetLabel string

	URL         string
	Description string

	// Properties overrides custom-property values for this instance.
	Properties map[string]string
}

// Edge binds two entities (nodes or groups, possibly owned by different
// containers). The edge itself is owned by a container that must be a
// common ancestor of both endpoints.
type Edge struct {
	name  string
	id    string
	owner Container

	Source Entity
	Target Entity

	Labels []*Label

	Arrowhead string
	Arrowfoot string
	Color     string
	LineType  string
	Width     string

	URL         string
	Description string

	Properties map[string]string
}

// newEdge validates opts and builds a detached edge. Containers attach it
// through AddEdge (validating) or AdoptEdge (deferred validation).
func newEdge(schema *Schema, source, target Entity, opts *EdgeOpts) (*Edge, error) {
	o := EdgeOpts{}
	if opts != nil {
		o = *opts
	}
	def := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	def(&o.Arrowhead, "standard")
	def(&o.Arrowfoot, "none")
	def(&o.Color, "#000000")
	def(&o.LineType, "line")
	def(&o.Width, "1.0")

	if err := CheckValue("arrowhead", o.Arrowhead, ArrowTypes); err != nil {
		return nil, err
	}
	if err := CheckValue("arrowfoot", o.Arrowfoot, ArrowTypes); err != nil {
		return nil, err
	}
	if err := CheckValue("line_type", o.LineType, LineTypes); err != nil {
		return nil, err
	}

	props, err := schema.applyOverrides(ScopeEdge, o.Properties)
	if err != nil {
		return nil, err
	}

	e := &Edge{
		name:        o.Name,
		Source:      source,
		Target:      target,
		Arrowhead:   o.Arrowhead,
		Arrowfoot:   o.Arrowfoot,
		Color:       o.Color,
		LineType:    o.LineType,
		Width:       o.Width,
		URL:         o.URL,
		Description: o.Description,
		Properties:  props,
	}

	if o.Name != "" {
		if _, err := e.AddLabel(o.Name, o.LabelOpts); err != nil {
			return nil, err
		}
	}
	if o.SourceLabel != "" {
		if _, err := e.AddLabel(o.SourceLabel, &LabelOpts{
			ModelName:          "six_pos",
			ModelPosition:      "shead",
			PreferredPlacement: "source_on_edge",
		}); err != nil {
			return nil, err
		}
	}
	if o.TargetLabel != "" {
		if _, err := e.AddLabel(o.TargetLabel, &LabelOpts{
			ModelName:          "six_pos",
			ModelPosition:      "thead",
			PreferredPlacement: "target_on_edge",
		}); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// ID implements [Item].
func (e *Edge) ID() string { return e.id }

// DisplayName implements [Item]. Unnamed edges return "".
func (e *Edge) DisplayName() string { return e.name }

// Owner returns the container the edge is declared in, or nil when
// detached.
func (e *Edge) Owner() Container { return e.owner }

// SetDisplayName renames the edge, keeping the first label in sync when
// it still showed the old name.
func (e *Edge) SetDisplayName(name string) {
	switch {
	case len(e.Labels) > 0 && e.Labels[0].Text == e.name:
		e.Labels[0].Text = name
	case len(e.Labels) == 0 && name != "":
		if l, err := NewEdgeLabel(name, nil); err == nil {
			e.Labels = []*Label{l}
		}
	}
	e.name = name
}

// AddLabel appends a label to the edge and returns the edge for chaining.
func (e *Edge) AddLabel(text string, opts *LabelOpts) (*Edge, error) {
	l, err := NewEdgeLabel(text, opts)
	if err != nil {
		return e, err
	}
	e.Labels = append(e.Labels, l)
	return e, nil
}

// SetProperty overrides one custom-property value on this instance.
func (e *Edge) SetProperty(schema *Schema, name, value string) error {
	if _, ok := schema.Lookup(ScopeEdge, name); !ok {
		return errUnknownProp(ScopeEdge, name)
	}
	e.Properties[name] = value
	return nil
}

// xml renders the edge element with its polyline payload, labels,
// url/description side channels and custom-property data elements.
func (e *Edge) xml(schema *Schema) *etree.Element {
	edge := etree.NewElement("edge")
	edge.CreateAttr("id", e.id)
	edge.CreateAttr("source", e.Source.ID())
	edge.CreateAttr("target", e.Target.ID())

	data := edge.CreateElement("data")
	data.CreateAttr("key", "data_edge")
	pl := data.CreateElement("y:PolyLineEdge")

	arrows := pl.CreateElement("y:Arrows")
	arrows.CreateAttr("source", e.Arrowfoot)
	arrows.CreateAttr("target", e.Arrowhead)

	line := pl.CreateElement("y:LineStyle")
	line.CreateAttr("color", e.Color)
	line.CreateAttr("type", e.LineType)
	line.CreateAttr("width", e.Width)

	for _, l := range e.Labels {
		l.xml(pl)
	}

	if e.URL != "" {
		url := edge.CreateElement("data")
		url.CreateAttr("key", "url_edge")
		url.SetText(e.URL)
	}
	if e.Description != "" {
		desc := edge.CreateElement("data")
		desc.CreateAttr("key", "description_edge")
		desc.SetText(e.Description)
	}

	for _, d := range schema.ForScope(ScopeEdge) {
		prop := edge.CreateElement("data")
		prop.CreateAttr("key", d.KeyID())
		prop.SetText(e.Properties[d.Name])
	}

	return edge
}

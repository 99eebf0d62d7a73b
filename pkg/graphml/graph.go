package graphml

import (
	"fmt"
)

// IntegrityMode selects how RunIntegrityRules deals with findings.
type IntegrityMode string

const (
	// IntegrityAuto removes stranded edges.
	IntegrityAuto IntegrityMode = "auto"
	// IntegrityManual would hand findings to the caller for resolution.
	// Not implemented.
	IntegrityManual IntegrityMode = "manual"
)

// GraphOpts carries the optional construction parameters of a document.
type GraphOpts struct {
	// ID is the GraphML id of the top-level graph element. Default "G".
	ID string
	// EdgeDefault is "directed" (default) or "undirected".
	EdgeDefault string
}

// Graph is the document root: the top-level owner of nodes, groups and
// edges, holder of the custom-property schema, and the entry point for
// whole-document operations (serialize, persist, load, statistics,
// integrity rules).
//
// Graph is not safe for concurrent use; the document model is
// single-writer by design.
type Graph struct {
	id          string
	EdgeDefault string

	kids   members
	schema *Schema
}

// NewGraph creates an empty document. A nil opts uses id "G" and
// directed edges.
func NewGraph(opts *GraphOpts) *Graph {
	o := GraphOpts{}
	if opts != nil {
		o = *opts
	}
	if o.ID == "" {
		o.ID = "G"
	}
	if o.EdgeDefault == "" {
		o.EdgeDefault = "directed"
	}
	return &Graph{
		id:          o.ID,
		EdgeDefault: o.EdgeDefault,
		schema:      &Schema{},
	}
}

// Graph implements [Container].
func (g *Graph) Graph() *Graph { return g }

// Parent implements [Container]; the root has no owner.
func (g *Graph) Parent() Container { return nil }

// ID returns the GraphML id of the top-level graph element.
func (g *Graph) ID() string { return g.id }

// Schema returns the document's custom-property schema.
func (g *Graph) Schema() *Schema { return g.schema }

// Nodes returns the top-level leaf nodes in insertion order.
func (g *Graph) Nodes() []*Node { return g.kids.nodes }

// Groups returns the top-level groups in insertion order.
func (g *Graph) Groups() []*Group { return g.kids.groups }

// Edges returns the top-level edges in insertion order.
func (g *Graph) Edges() []*Edge { return g.kids.edges }

func (g *Graph) members() *members { return &g.kids }

// AddNode implements [Container].
func (g *Graph) AddNode(name string, opts *NodeOpts) (*Node, error) {
	return addNode(g, name, opts)
}

// AddGroup implements [Container].
func (g *Graph) AddGroup(name string, opts *GroupOpts) (*Group, error) {
	return addGroup(g, name, opts)
}

// AddEdge implements [Container]. The root is an ancestor of every
// entity, so edge creation here never violates the nesting rule.
func (g *Graph) AddEdge(source, target Entity, opts *EdgeOpts) (*Edge, error) {
	return addEdge(g, source, target, opts)
}

// AdoptNode implements [Container].
func (g *Graph) AdoptNode(n *Node) error { return adoptNode(g, n) }

// AdoptGroup implements [Container].
func (g *Graph) AdoptGroup(grp *Group) error { return adoptGroup(g, grp) }

// AdoptEdge implements [Container].
func (g *Graph) AdoptEdge(e *Edge) error { return adoptEdge(g, e) }

// RemoveNode implements [Container].
func (g *Graph) RemoveNode(n *Node) error { return removeNode(g, n) }

// RemoveGroup implements [Container].
func (g *Graph) RemoveGroup(grp *Group, heal bool) error { return removeGroup(g, grp, heal) }

// RemoveEdge implements [Container].
func (g *Graph) RemoveEdge(e *Edge) error { return removeEdge(g, e) }

// Contains reports whether the item is currently attached to this
// document: its owner chain terminates at the root. Items detached by a
// non-healing removal (or children of one) are not contained.
func (g *Graph) Contains(it Item) bool {
	switch v := it.(type) {
	case *Edge:
		return v.Owner() != nil && isAncestorOrSelf(g, v.Owner())
	case Entity:
		return attachedTo(g, v)
	}
	return false
}

// reassignIDs recomputes every structural id from current positions.
// Invoked after every structural mutation; ids are derived state, never
// authoritative.
func (g *Graph) reassignIDs() {
	assignIDs(g, "")
}

// DefineProperty registers a custom property and back-fills its default
// value onto every already-existing entity of that scope. Future
// entities of the scope receive the default at construction unless
// overridden.
func (g *Graph) DefineProperty(scope PropertyScope, name, typ, defaultValue string) (*PropertyDefinition, error) {
	def, err := g.schema.Define(scope, name, typ, defaultValue)
	if err != nil {
		return nil, err
	}
	walkContainers(g, func(c Container) {
		m := c.members()
		if scope == ScopeNode {
			for _, n := range m.nodes {
				n.Properties[name] = defaultValue
			}
			for _, grp := range m.groups {
				grp.Properties[name] = defaultValue
			}
		} else {
			for _, e := range m.edges {
				e.Properties[name] = defaultValue
			}
		}
	})
	return def, nil
}

// RunIntegrityRules detects edges whose endpoints are no longer attached
// to the document ("stranded edges"). In auto mode they are removed and
// their ids are returned; manual mode is reserved for external resolution
// and returns [ErrNotImplemented].
func (g *Graph) RunIntegrityRules(mode IntegrityMode) ([]string, error) {
	switch mode {
	case IntegrityAuto:
	case IntegrityManual:
		return nil, fmt.Errorf("%w: manual integrity correction", ErrNotImplemented)
	default:
		return nil, fmt.Errorf("%w: integrity mode %q", ErrInvalidValue, mode)
	}

	g.reassignIDs()
	type finding struct {
		owner Container
		edge  *Edge
	}
	var stranded []finding
	walkContainers(g, func(c Container) {
		for _, e := range c.members().edges {
			if !attachedTo(g, e.Source) || !attachedTo(g, e.Target) {
				stranded = append(stranded, finding{owner: c, edge: e})
			}
		}
	})

	var removed []string
	for _, f := range stranded {
		removed = append(removed, f.edge.ID())
		if err := f.owner.RemoveEdge(f.edge); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// walkContainers visits the root and every group in the ownership tree,
// depth-first in insertion order.
func walkContainers(c Container, visit func(Container)) {
	visit(c)
	for _, grp := range c.members().groups {
		walkContainers(grp, visit)
	}
}

package graphml

import (
	"fmt"
	"slices"
)

// Item is anything that participates in a document and carries the two
// identifiers: a display name and a structural id. Implemented by
// [*Node], [*Group] and [*Edge].
type Item interface {
	// ID returns the positional structural id (e.g. "n0", "n1::n0", "e2").
	// Ids are recomputed after every structural mutation and are only
	// valid until the next one; they must not be persisted as durable keys.
	ID() string

	// DisplayName returns the user-supplied, not necessarily unique name.
	DisplayName() string
}

// Entity is an ownable item: a node or a group. Edges reference exactly
// two entities as endpoints.
type Entity interface {
	Item

	// Owner returns the direct owner, or nil when detached.
	Owner() Container

	// SetDisplayName renames the entity. If the first label still showed
	// the old name it is updated to match.
	SetDisplayName(name string)
}

// Container owns entities: the document root ([*Graph]) or a [*Group].
// Every entity has exactly one owner at all times and entities are only
// created through a container's add-operations.
type Container interface {
	// Graph returns the document root the container belongs to.
	Graph() *Graph

	// Parent returns the owning container, or nil for the root.
	Parent() Container

	// ID returns the container's structural id ("" for the root graph).
	ID() string

	// Nodes, Groups and Edges return the directly owned collections in
	// insertion order. The slices are live views; do not modify them.
	Nodes() []*Node
	Groups() []*Group
	Edges() []*Edge

	// AddNode constructs a new leaf node under this container. An empty
	// name produces an anonymous node named after its structural id.
	AddNode(name string, opts *NodeOpts) (*Node, error)

	// AddGroup constructs a new group under this container.
	AddGroup(name string, opts *GroupOpts) (*Group, error)

	// AddEdge constructs an edge binding two entities. The container must
	// be an ancestor of (or identical to) the direct owner of both
	// endpoints, otherwise the call fails with [ErrStructuralConstraint]
	// before any collection is touched.
	AddEdge(source, target Entity, opts *EdgeOpts) (*Edge, error)

	// AdoptNode re-parents an existing node under this container.
	AdoptNode(n *Node) error

	// AdoptGroup re-parents an existing group. Adopting a group into its
	// own subtree fails with [ErrStructuralConstraint].
	AdoptGroup(grp *Group) error

	// AdoptEdge re-parents (or attaches) an existing edge WITHOUT
	// re-validating the common-ancestor rule. Bulk imports use this; the
	// constraint is re-checked by the next integrity pass.
	AdoptEdge(e *Edge) error

	// RemoveNode detaches a directly owned node.
	RemoveNode(n *Node) error

	// RemoveGroup detaches a directly owned group. With heal, the group's
	// own children are re-parented to this container; without it they are
	// left attached to the detached group for the caller to deal with.
	RemoveGroup(grp *Group, heal bool) error

	// RemoveEdge detaches a directly owned edge.
	RemoveEdge(e *Edge) error

	members() *members
}

// members holds a container's owned collections in insertion order.
type members struct {
	nodes  []*Node
	groups []*Group
	edges  []*Edge
}

// sameContainer reports whether two containers are the same object.
func sameContainer(a, b Container) bool { return a == b }

// isAncestorOrSelf reports whether c is other or appears anywhere in
// other's owner chain.
func isAncestorOrSelf(c, other Container) bool {
	for cur := other; cur != nil; cur = cur.Parent() {
		if sameContainer(cur, c) {
			return true
		}
	}
	return false
}

// attachedTo reports whether the entity's owner chain terminates at g.
// Entities detached by a non-healing removal have a broken chain and are
// not attached to anything.
func attachedTo(g *Graph, e Entity) bool {
	owner := e.Owner()
	if owner == nil {
		return false
	}
	return isAncestorOrSelf(g, owner)
}

func addNode(c Container, name string, opts *NodeOpts) (*Node, error) {
	n, err := newNode(c.Graph().schema, name, opts)
	if err != nil {
		return nil, err
	}
	n.owner = c
	c.members().nodes = append(c.members().nodes, n)
	c.Graph().reassignIDs()
	return n, nil
}

func addGroup(c Container, name string, opts *GroupOpts) (*Group, error) {
	grp, err := newGroup(c.Graph(), name, opts)
	if err != nil {
		return nil, err
	}
	grp.owner = c
	c.members().groups = append(c.members().groups, grp)
	c.Graph().reassignIDs()
	return grp, nil
}

func addEdge(c Container, source, target Entity, opts *EdgeOpts) (*Edge, error) {
	if source == nil || target == nil {
		return nil, fmt.Errorf("%w: edge endpoint is nil", ErrEntityNotFound)
	}
	g := c.Graph()
	for _, ep := range []Entity{source, target} {
		if !attachedTo(g, ep) {
			return nil, fmt.Errorf("%w: endpoint %q is not part of this document", ErrStructuralConstraint, ep.DisplayName())
		}
		if !isAncestorOrSelf(c, ep.Owner()) {
			return nil, fmt.Errorf("%w: edge owner must be a common ancestor of both endpoints (endpoint %q)",
				ErrStructuralConstraint, ep.DisplayName())
		}
	}
	e, err := newEdge(g.schema, source, target, opts)
	if err != nil {
		return nil, err
	}
	e.owner = c
	c.members().edges = append(c.members().edges, e)
	g.reassignIDs()
	return e, nil
}

func adoptNode(c Container, n *Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrEntityNotFound)
	}
	if old := n.owner; old != nil {
		if old.Graph() != c.Graph() {
			return fmt.Errorf("%w: node %q belongs to another document", ErrStructuralConstraint, n.name)
		}
		old.members().nodes = slices.DeleteFunc(old.members().nodes, func(x *Node) bool { return x == n })
	}
	n.owner = c
	c.members().nodes = append(c.members().nodes, n)
	c.Graph().reassignIDs()
	return nil
}

func adoptGroup(c Container, grp *Group) error {
	if grp == nil {
		return fmt.Errorf("%w: nil group", ErrEntityNotFound)
	}
	if grp.root != c.Graph() {
		return fmt.Errorf("%w: group %q belongs to another document", ErrStructuralConstraint, grp.name)
	}
	if isAncestorOrSelf(grp, c) {
		return fmt.Errorf("%w: group %q cannot become its own descendant", ErrStructuralConstraint, grp.name)
	}
	if old := grp.owner; old != nil {
		old.members().groups = slices.DeleteFunc(old.members().groups, func(x *Group) bool { return x == grp })
	}
	grp.owner = c
	c.members().groups = append(c.members().groups, grp)
	c.Graph().reassignIDs()
	return nil
}

func adoptEdge(c Container, e *Edge) error {
	if e == nil {
		return fmt.Errorf("%w: nil edge", ErrEntityNotFound)
	}
	if old := e.owner; old != nil {
		if old.Graph() != c.Graph() {
			return fmt.Errorf("%w: edge %q belongs to another document", ErrStructuralConstraint, e.name)
		}
		old.members().edges = slices.DeleteFunc(old.members().edges, func(x *Edge) bool { return x == e })
	}
	e.owner = c
	c.members().edges = append(c.members().edges, e)
	c.Graph().reassignIDs()
	return nil
}

func removeNode(c Container, n *Node) error {
	m := c.members()
	i := slices.Index(m.nodes, n)
	if i < 0 {
		return fmt.Errorf("%w: node %q", ErrEntityNotFound, n.name)
	}
	m.nodes = slices.Delete(m.nodes, i, i+1)
	n.owner = nil
	c.Graph().reassignIDs()
	return nil
}

func removeGroup(c Container, grp *Group, heal bool) error {
	m := c.members()
	i := slices.Index(m.groups, grp)
	if i < 0 {
		return fmt.Errorf("%w: group %q", ErrEntityNotFound, grp.name)
	}
	m.groups = slices.Delete(m.groups, i, i+1)
	if heal {
		// Re-parent the orphaned children to the removed group's owner.
		for _, child := range grp.kids.nodes {
			child.owner = c
		}
		for _, child := range grp.kids.groups {
			child.owner = c
		}
		for _, child := range grp.kids.edges {
			child.owner = c
		}
		m.nodes = append(m.nodes, grp.kids.nodes...)
		m.groups = append(m.groups, grp.kids.groups...)
		m.edges = append(m.edges, grp.kids.edges...)
		grp.kids = members{}
	}
	grp.owner = nil
	c.Graph().reassignIDs()
	return nil
}

func removeEdge(c Container, e *Edge) error {
	m := c.members()
	i := slices.Index(m.edges, e)
	if i < 0 {
		return fmt.Errorf("%w: edge %q", ErrEntityNotFound, e.name)
	}
	m.edges = slices.Delete(m.edges, i, i+1)
	e.owner = nil
	c.Graph().reassignIDs()
	return nil
}

// assignIDs walks a container's collections and assigns positional ids.
// Nodes and groups share one ordinal sequence per owner ("n0", "n1", ...)
// and nested entities are prefixed with their owner's id ("n1::n0");
// edges get their own sequence ("e0", ...). Anonymous entities pick up
// their id as display name the first time one is assigned.
func assignIDs(c Container, prefix string) {
	m := c.members()
	ord := 0
	for _, n := range m.nodes {
		n.id = fmt.Sprintf("%sn%d", prefix, ord)
		ord++
		if n.name == "" {
			n.name = n.id
			if len(n.Labels) > 0 && n.Labels[0].Text == "" {
				n.Labels[0].Text = n.name
			}
		}
	}
	for _, grp := range m.groups {
		grp.id = fmt.Sprintf("%sn%d", prefix, ord)
		ord++
		if grp.name == "" {
			grp.name = grp.id
			if grp.Label == "" {
				grp.Label = grp.name
			}
		}
		assignIDs(grp, grp.id+"::")
	}
	for i, e := range m.edges {
		e.id = fmt.Sprintf("%se%d", prefix, i)
	}
}

package graphml

// Stats is a non-owning, point-in-time snapshot of the document:
// flattened indexes of every entity by structural id and by display name,
// plus the set of names used more than once. Statistics are not updated
// incrementally - re-gather after any mutation.
type Stats struct {
	// Nodes, Groups and Edges index each kind by structural id.
	Nodes  map[string]*Node
	Groups map[string]*Group
	Edges  map[string]*Edge

	// Objects is Nodes union Groups; Items additionally includes Edges.
	Objects map[string]Entity
	Items   map[string]Item

	// IDToName maps structural id to display name; NameToIDs maps a
	// display name to the ids sharing it, in document insertion order.
	IDToName  map[string]string
	NameToIDs map[string][]string

	// DuplicateNames holds every display name carried by more than one
	// item. The reconciliation engine uses it to decide which exported
	// names need id disambiguation.
	DuplicateNames map[string]bool
}

// GatherStats reassigns structural ids and takes a fresh snapshot.
func (g *Graph) GatherStats() *Stats {
	g.reassignIDs()
	s := &Stats{
		Nodes:          make(map[string]*Node),
		Groups:         make(map[string]*Group),
		Edges:          make(map[string]*Edge),
		Objects:        make(map[string]Entity),
		Items:          make(map[string]Item),
		IDToName:       make(map[string]string),
		NameToIDs:      make(map[string][]string),
		DuplicateNames: make(map[string]bool),
	}
	walkContainers(g, func(c Container) {
		m := c.members()
		for _, n := range m.nodes {
			s.Nodes[n.id] = n
			s.Objects[n.id] = n
			s.record(n)
		}
		for _, grp := range m.groups {
			s.Groups[grp.id] = grp
			s.Objects[grp.id] = grp
			s.record(grp)
		}
		for _, e := range m.edges {
			s.Edges[e.id] = e
			s.record(e)
		}
	})
	for name, ids := range s.NameToIDs {
		if len(ids) > 1 {
			s.DuplicateNames[name] = true
		}
	}
	return s
}

func (s *Stats) record(it Item) {
	s.Items[it.ID()] = it
	s.IDToName[it.ID()] = it.DisplayName()
	s.NameToIDs[it.DisplayName()] = append(s.NameToIDs[it.DisplayName()], it.ID())
}

// FindByID looks an item up by structural id.
func (s *Stats) FindByID(id string) (Item, bool) {
	it, ok := s.Items[id]
	return it, ok
}

// FindByName returns every item carrying the display name, in document
// insertion order.
func (s *Stats) FindByName(name string) []Item {
	ids := s.NameToIDs[name]
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, s.Items[id])
	}
	return items
}

// NodeCount returns the number of leaf nodes in the snapshot.
func (s *Stats) NodeCount() int { return len(s.Nodes) }

// GroupCount returns the number of groups in the snapshot.
func (s *Stats) GroupCount() int { return len(s.Groups) }

// EdgeCount returns the number of edges in the snapshot.
func (s *Stats) EdgeCount() int { return len(s.Edges) }

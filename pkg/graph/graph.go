package graph

// DesignGraph holds a cabinet's preview parts. A graph is built once per
// preview and treated as read-only afterwards.
type DesignGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Units     string            `json:"units"`
}

// New returns an empty graph measured in millimeters.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     map[NodeID]*Node{},
		NameIndex: map[string]NodeID{},
		Units:     "mm",
	}
}

// AddNode stores n, replacing any node with the same ID. Named nodes are
// indexed by name; a later node wins a name clash, which Validate reports.
func (g *DesignGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

func (g *DesignGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Lookup finds a node by name. It returns nil for unknown names.
func (g *DesignGraph) Lookup(name string) *Node {
	if id, ok := g.NameIndex[name]; ok {
		return g.Nodes[id]
	}
	return nil
}

// Children resolves n's child IDs, skipping any that are missing.
func (g *DesignGraph) Children(n *Node) []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, id := range n.Children {
		if child, ok := g.Nodes[id]; ok {
			out = append(out, child)
		}
	}
	return out
}

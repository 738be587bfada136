// Package graph implements the mutable molecular network the pipeline
// accumulates node attributes into, with GraphML as the exchange format.
package graph

import "sort"

// Attrs holds string-valued attributes for a node or edge.
type Attrs map[string]string

// Clone returns a shallow copy of the attribute map.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Edge is an undirected edge between two nodes.
type Edge struct {
	Source string
	Target string
	Attrs  Attrs
}

// Graph is an undirected graph with attributed nodes and edges. Node and
// edge iteration order is insertion order, which keeps serialization
// deterministic.
type Graph struct {
	nodeOrder []string
	nodes     map[string]Attrs
	edges     []*Edge
	adj       map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]Attrs),
		adj:   make(map[string][]string),
	}
}

// AddNode adds a node if it does not exist yet.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = make(Attrs)
	g.nodeOrder = append(g.nodeOrder, id)
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns node IDs in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// NodeAttrs returns the attribute map of a node, or nil if absent. The map
// is live: mutations are visible to the graph.
func (g *Graph) NodeAttrs(id string) Attrs {
	return g.nodes[id]
}

// SetNodeAttr sets one attribute on a node, creating the node if needed.
func (g *Graph) SetNodeAttr(id, key, value string) {
	g.AddNode(id)
	g.nodes[id][key] = value
}

// AddEdge adds an undirected edge, creating endpoints as needed.
func (g *Graph) AddEdge(source, target string, attrs Attrs) {
	g.AddNode(source)
	g.AddNode(target)
	if attrs == nil {
		attrs = make(Attrs)
	}
	g.edges = append(g.edges, &Edge{Source: source, Target: target, Attrs: attrs})
	g.adj[source] = append(g.adj[source], target)
	g.adj[target] = append(g.adj[target], source)
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// FromEdges builds a graph from an edge list, preserving edge attributes.
func FromEdges(edges []*Edge) *Graph {
	g := New()
	for _, e := range edges {
		g.AddEdge(e.Source, e.Target, e.Attrs.Clone())
	}
	return g
}

// Components returns the connected components as slices of node IDs.
// Components appear in order of their first node's insertion; isolated
// nodes form singleton components.
func (g *Graph) Components() [][]string {
	seen := make(map[string]bool, len(g.nodes))
	var components [][]string
	for _, start := range g.nodeOrder {
		if seen[start] {
			continue
		}
		var component []string
		queue := []string{start}
		seen[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			component = append(component, id)
			for _, next := range g.adj[id] {
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
		sort.Strings(component)
		components = append(components, component)
	}
	return components
}

// FilterLargeComponents removes every connected component whose node count
// exceeds maxNodes, together with its edges. Giant components carry little
// structural information and dominate the output otherwise.
func (g *Graph) FilterLargeComponents(maxNodes int) {
	remove := make(map[string]bool)
	for _, component := range g.Components() {
		if len(component) > maxNodes {
			for _, id := range component {
				remove[id] = true
			}
		}
	}
	if len(remove) == 0 {
		return
	}

	keptOrder := g.nodeOrder[:0]
	for _, id := range g.nodeOrder {
		if remove[id] {
			delete(g.nodes, id)
			delete(g.adj, id)
			continue
		}
		keptOrder = append(keptOrder, id)
	}
	g.nodeOrder = keptOrder

	keptEdges := g.edges[:0]
	for _, e := range g.edges {
		if remove[e.Source] || remove[e.Target] {
			continue
		}
		keptEdges = append(keptEdges, e)
	}
	g.edges = keptEdges
}

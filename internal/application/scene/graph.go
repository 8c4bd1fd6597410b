package scene

import (
	"sort"
	"sync"
)

// Edge is a directed pair: From's neighbours include To.
type Edge struct {
	From string
	To   string
}

// Graph is a directed adjacency list over scene names.
// Edges are kept exactly as declared: no reverse edges are added and
// duplicates are kept in insertion order.
type Graph struct {
	mu    sync.RWMutex
	edges map[string][]string
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{edges: make(map[string][]string)}
}

// AddEdge adds the edge from -> to
func (g *Graph) AddEdge(from, to string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges[from] = append(g.edges[from], to)
}

// AddEdges adds one edge from -> each of to
func (g *Graph) AddEdges(from string, to ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges[from] = append(g.edges[from], to...)
}

// NeighborsOf returns a copy of the neighbours of name, possibly empty
func (g *Graph) NeighborsOf(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.edges[name]...)
}

// Edges returns every edge, sources sorted by name and targets in
// insertion order
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	froms := make([]string, 0, len(g.edges))
	for from := range g.edges {
		froms = append(froms, from)
	}
	sort.Strings(froms)

	var out []Edge
	for _, from := range froms {
		for _, to := range g.edges[from] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}

package graph

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Sentinel errors for graph operations.
var (
	// ErrEmptyNodeID indicates a node identifier was the empty string.
	ErrEmptyNodeID = errors.New("graph: node ID is empty")

	// ErrSelfLoop indicates an edge whose endpoints coincide.
	ErrSelfLoop = errors.New("graph: self-loops are not allowed")

	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrLabelCollision indicates a relabeling that would merge two nodes.
	ErrLabelCollision = errors.New("graph: relabeling collides with an existing label")
)

// Edge is a normalized undirected edge: U is lexicographically ≤ V.
type Edge struct {
	U, V string
}

// NewEdge returns the normalized edge between u and v.
func NewEdge(u, v string) Edge {
	if v < u {
		u, v = v, u
	}
	return Edge{U: u, V: v}
}

// Graph is an undirected simple graph over string-identified nodes.
// The zero value is not usable; construct with New, Complete or Path.
type Graph struct {
	mu  sync.RWMutex
	adj map[string]map[string]struct{}
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{adj: make(map[string]map[string]struct{})}
}

// Complete returns the complete graph on the given nodes:
// every distinct pair of nodes is joined by an edge.
func Complete(nodes ...string) *Graph {
	g := New()
	for _, id := range nodes {
		g.AddNode(id)
	}
	for i, u := range nodes {
		for _, v := range nodes[i+1:] {
			// Complete callers control the node list; an error here means a
			// duplicate produced a self-loop, which AddEdge collapses anyway.
			_ = g.AddEdge(u, v)
		}
	}
	return g
}

// Path returns the path graph n0—n1—…—nk over the given nodes in order.
func Path(nodes ...string) *Graph {
	g := New()
	for _, id := range nodes {
		g.AddNode(id)
	}
	for i := 1; i < len(nodes); i++ {
		_ = g.AddEdge(nodes[i-1], nodes[i])
	}
	return g
}

// AddNode inserts a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNodeLocked(id)
}

func (g *Graph) addNodeLocked(id string) {
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = make(map[string]struct{})
	}
}

// AddEdge joins u and v, auto-adding missing endpoints.
// Re-adding an existing edge is a no-op. Self-loops are rejected.
func (g *Graph) AddEdge(u, v string) error {
	if u == "" || v == "" {
		return ErrEmptyNodeID
	}
	if u == v {
		return fmt.Errorf("%w: %q", ErrSelfLoop, u)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNodeLocked(u)
	g.addNodeLocked(v)
	g.adj[u][v] = struct{}{}
	g.adj[v][u] = struct{}{}

	return nil
}

// HasNode reports whether id is a node of g.
func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.adj[id]
	return ok
}

// HasEdge reports whether u and v are joined by an edge.
func (g *Graph) HasEdge(u, v string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.adj[u][v]
	return ok
}

// Nodes returns the node identifiers in sorted order.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]string, 0, len(g.adj))
	for id := range g.adj {
		nodes = append(nodes, id)
	}
	slices.Sort(nodes)

	return nodes
}

// Edges returns all edges, normalized and sorted.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var edges []Edge
	for u, nbrs := range g.adj {
		for v := range nbrs {
			if u < v {
				edges = append(edges, Edge{U: u, V: v})
			}
		}
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		if a.U != b.U {
			if a.U < b.U {
				return -1
			}
			return 1
		}
		switch {
		case a.V < b.V:
			return -1
		case a.V > b.V:
			return 1
		default:
			return 0
		}
	})

	return edges
}

// Neighbors returns the sorted neighbor set of id.
func (g *Graph) Neighbors(id string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nbrs, ok := g.adj[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	out := make([]string, 0, len(nbrs))
	for v := range nbrs {
		out = append(out, v)
	}
	slices.Sort(out)

	return out, nil
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.adj)
}

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n := 0
	for _, nbrs := range g.adj {
		n += len(nbrs)
	}

	return n / 2
}

// Clone returns an independent deep copy of g.
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := New()
	for u, nbrs := range g.adj {
		out.adj[u] = make(map[string]struct{}, len(nbrs))
		for v := range nbrs {
			out.adj[u][v] = struct{}{}
		}
	}

	return out
}

// Equal reports whether g and other have identical node and edge sets.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()

	if len(g.adj) != len(other.adj) {
		return false
	}
	for u, nbrs := range g.adj {
		onbrs, ok := other.adj[u]
		if !ok || len(nbrs) != len(onbrs) {
			return false
		}
		for v := range nbrs {
			if _, ok = onbrs[v]; !ok {
				return false
			}
		}
	}

	return true
}

// Relabel returns a copy of g with every node u renamed to mapping[u]
// (nodes absent from the mapping keep their label). The substitution is
// simultaneous: it reads only the original state, so swaps and chained
// renames cannot clobber intermediate labels.
//
// Relabel fails with ErrLabelCollision when two distinct nodes would end up
// with the same label, or when a target label equals an existing unmapped
// node's label.
func (g *Graph) Relabel(mapping map[string]string) (*Graph, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rename := func(id string) string {
		if to, ok := mapping[id]; ok {
			return to
		}
		return id
	}

	// Collision scan before any structure is built.
	seen := make(map[string]string, len(g.adj))
	for u := range g.adj {
		to := rename(u)
		if to == "" {
			return nil, ErrEmptyNodeID
		}
		if from, dup := seen[to]; dup {
			return nil, fmt.Errorf("%w: %q and %q both map to %q", ErrLabelCollision, from, u, to)
		}
		seen[to] = u
	}

	out := New()
	for u, nbrs := range g.adj {
		ru := rename(u)
		out.adj[ru] = make(map[string]struct{}, len(nbrs))
		for v := range nbrs {
			out.adj[ru][rename(v)] = struct{}{}
		}
	}

	return out, nil
}

// Package graph provides the undirected simple graph used to describe which
// variables a penalty model may couple.
//
// Nodes are opaque string identifiers (the variable labels); an edge marks a
// pair of variables allowed to carry a quadratic interaction. The graph is
// unweighted: bias magnitudes live in the quadratic model, not here.
//
// Guarantees:
//
//   - Thread-safe mutation: all methods take the internal RWMutex, so a Graph
//     may be shared across goroutines.
//   - Deterministic iteration: Nodes and Edges return sorted copies, so
//     downstream engines (LP assembly, enumeration) are reproducible.
//   - Simple graphs only: self-loops and duplicate edges are rejected or
//     collapsed; there are no directed or weighted variants.
//
// Errors (sentinel):
//
//	ErrEmptyNodeID      if a node identifier is the empty string.
//	ErrSelfLoop         if an edge's endpoints coincide.
//	ErrNodeNotFound     if a queried node does not exist.
//	ErrLabelCollision   if a relabeling would merge two distinct nodes.
package graph

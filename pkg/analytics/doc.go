// Package analytics computes read-only metrics over a graph.
//
// All functions take the graph as a parameter and never modify it. Expected
// failures, such as an unknown node or an unreachable destination, are
// reported in the result value rather than as errors.
//
//   - [ShortestPath]: Dijkstra over undirected (default) or directed edges
//   - [DegreeCentrality]: in, out or total degree per node
//   - [PageRank]: power iteration with uniform dangling redistribution
//   - [TopN]: ranking helper for score lists
package analytics

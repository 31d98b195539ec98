// Package model holds the in-memory graph edited by a graphpad session.
//
// # Overview
//
// A [Graph] is a list of [Node] values, a list of directed [Edge] values, a
// layout [Type] and a title. Edges always reference nodes by plain id; they
// never embed node values, so structural comparisons and dedupe work on ids
// alone.
//
// The package performs no validation. The ops package enforces id uniqueness,
// endpoint existence and hierarchy direction; the layout package assigns
// positions and layers.
//
// # Basic Usage
//
//	g := model.New(model.TypeHierarchy, "deps")
//	g.Nodes = append(g.Nodes, &model.Node{ID: "app"}, &model.Node{ID: "lib"})
//	g.Links = append(g.Links, model.Edge{Source: "app", Target: "lib"})
//
// # Ownership
//
// One Graph belongs to one session. History restores snapshots with
// [Graph.ReplaceWith], which overwrites contents in place, so pointers held by
// the layout engine or an HTTP handler stay valid across undo and redo.
//
// # Concurrency
//
// Graph is not safe for concurrent use. Callers that share a graph between
// goroutines must serialize access (the session package does this).
package model

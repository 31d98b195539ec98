// Package pkg provides the core libraries for Graphpad, an editor core for
// small graphs.
//
// # Overview
//
// A graph is a set of labelled nodes joined by directed, optionally weighted
// edges. It has one of four types, each with its own layout: force, grid,
// circle and hierarchy. The pkg directory is organized into four areas:
//
//  1. Domain model and editing ([model], [ops], [history], [layout])
//  2. Analysis ([analytics])
//  3. Serialization and output ([graph], [render], [render/nodelink])
//  4. Infrastructure ([store], [cache], [session], [pipeline], [metrics],
//     [observability], [errors])
//
// # Architecture
//
// The data flow for an editing session:
//
//	store.Store (file, Redis, MongoDB)
//	         ↓
//	    [graph] package (wire documents ↔ model.Graph)
//	         ↓
//	    [session] package (lock + history + layout engine)
//	         ↓
//	    [ops] package (mutations, drag gestures, undo/redo)
//	         ↓
//	    save / save positions back to the store
//
// The CLI runs the same graphs through [pipeline] instead:
//
//	load → layout → analytics → render (SVG/PNG/PDF/DOT/JSON)
//
// # Quick Start
//
// Edit a graph in memory:
//
//	g := model.Default(model.TypeHierarchy, "deps")
//	e := ops.New(g, nil, nil)
//	if _, err := e.AddNode(ops.NodeInput{ID: "D"}); err != nil {
//	    return err
//	}
//	if _, err := e.AddOrUpdateEdge("C", "D", nil); err != nil {
//	    return err
//	}
//	e.Undo()
//
// Find a path and rank nodes:
//
//	res := analytics.ShortestPath(g, "A", "C", analytics.PathOptions{})
//	ranks := analytics.PageRank(g, analytics.PageRankOptions{})
//
// # Main Packages
//
// [model] - Graph, node and edge types, plus the four graph types.
//
// [ops] - Every mutation (add, edit, delete, connect, retype) and the drag
// gestures. Mutations validate first and record one history snapshot each.
//
// [history] - Bounded undo/redo stacks of deep graph snapshots.
//
// [layout] - Force, grid, circle and hierarchy layouts. Hierarchy layout
// assigns layers by longest path and keeps every edge pointing downward.
//
// [analytics] - Dijkstra shortest paths, degree centrality and PageRank.
//
// [graph] - JSON and BSON documents, the positions-only save payload and
// request validation.
//
// [store] - Memory, file, Redis and MongoDB backends with retry and
// instrumentation wrappers.
//
// [session] - One open graph shared by concurrent HTTP handlers.
//
// [pipeline] - Cached load, layout, analytics and render steps used by the
// CLI and the HTTP API.
//
// [render/nodelink] - Graphviz node-link diagrams; [render] converts SVG to
// PNG and PDF.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/ops/...                # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Store tests against Redis and MongoDB run when GRAPHPAD_TEST_REDIS and
// GRAPHPAD_TEST_MONGO are set.
//
// [model]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/model
// [ops]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/ops
// [history]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/history
// [layout]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/layout
// [analytics]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/analytics
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/render/nodelink
// [store]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/session
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/pipeline
// [metrics]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphpad/pkg/errors
package pkg

// Package layout assigns canvas positions to graph nodes.
//
// # Graph Types
//
// [Engine.Apply] dispatches on the graph type:
//
//   - force: missing positions are seeded on a circle of radius
//     0.38·min(width, height), then every node is pinned. There is no
//     physics simulation.
//   - circle: when any node lacks a position, all nodes are placed evenly on
//     a circle of radius 0.4·min(width, height).
//   - grid: when any node lacks a position, nodes are placed row-major with
//     ceil(sqrt(N)) columns and a 40 unit gap, centered.
//   - hierarchy: always recomputed. Layers come from [AssignLayers] when any
//     node lacks one; rows are spaced by a gap clamped to [80, 140]; nodes
//     within a row are ordered by [NaturalLess] and keep any finite x.
//
// # Layer Geometry
//
// Hierarchy row geometry is cached on the engine as a [LayerState] and is
// reused by [Engine.YForLayer] and [Engine.SnapNodeToLayer] when nodes are
// added or dragged between rows.
package layout

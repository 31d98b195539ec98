// Package graph provides the serialization format for editable graphs.
//
// This package defines the wire format shared by JSON files, the HTTP API,
// the storage backends and the cache.
//
// # Architecture
//
// The package sits at the serialization boundary:
//
//   - [Document], [NodeRecord], [EdgeRecord]: wire types (this package)
//   - pkg/model.Graph: in-memory representation
//
// Use [FromModel] and [ToModel] to convert between them. ToModel is the
// ingestion point: it normalizes link endpoints to plain ids, dedupes links
// (last occurrence wins) and drops links to unknown nodes.
//
// # Document Format
//
//	{
//	  "title": "deps",
//	  "type": "hierarchy",
//	  "nodes": [{"id": "app", "x": 600, "y": 40, "layer": 1}, {"id": "lib"}],
//	  "links": [{"source": "app", "target": "lib"}]
//	}
//
// Link endpoints may also be objects carrying an "id"; they are reduced to
// the id on decode and always encoded as plain strings.
//
// # Saves
//
// [SaveRequest] replaces a stored graph. [PositionsRequest] carries only
// node positions and is merged by id; [PositionsDelta] computes the minimal
// set of changed positions since a previous [Positions] snapshot.
package graph

package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// Document - Persisted Graph
// =============================================================================

// Document is the canonical serialization format for an editable graph.
// Used for files, API responses, storage backends and caching.
//
// Layer is only written for hierarchy graphs; weights are only meaningful for
// force graphs but are carried through untouched for the others.
type Document struct {
	ID        string       `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string       `json:"title" bson:"title" validate:"max=200"`
	Type      string       `json:"type" bson:"type" validate:"omitempty,oneof=force grid circle hierarchy"`
	Access    string       `json:"access,omitempty" bson:"access,omitempty" validate:"omitempty,oneof=owner editor viewer"`
	Nodes     []NodeRecord `json:"nodes" bson:"nodes" validate:"dive"`
	Links     []EdgeRecord `json:"links" bson:"links" validate:"dive"`
	UpdatedAt time.Time    `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// =============================================================================
// Node and Edge Records
// =============================================================================

// NodeRecord is the wire form of a node.
type NodeRecord struct {
	ID          string   `json:"id" bson:"id" validate:"required,max=256"`
	Label       string   `json:"label,omitempty" bson:"label,omitempty"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	X           *float64 `json:"x,omitempty" bson:"x,omitempty"`
	Y           *float64 `json:"y,omitempty" bson:"y,omitempty"`
	Layer       int      `json:"layer,omitempty" bson:"layer,omitempty" validate:"min=0"`
}

// EdgeRecord is the wire form of an edge.
type EdgeRecord struct {
	Source Endpoint `json:"source" bson:"source" validate:"required"`
	Target Endpoint `json:"target" bson:"target" validate:"required"`
	Weight *float64 `json:"weight,omitempty" bson:"weight,omitempty"`
}

// Endpoint is a node id on an edge. It always encodes as a plain string but
// decodes from either a string or an object with an "id" field, since some
// clients write back links whose endpoints were replaced by node objects.
type Endpoint string

// UnmarshalJSON implements json.Unmarshaler.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID *string `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decode endpoint object: %w", err)
		}
		if obj.ID == nil {
			return fmt.Errorf("endpoint object has no id")
		}
		*e = Endpoint(*obj.ID)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode endpoint: %w", err)
	}
	*e = Endpoint(s)
	return nil
}

// =============================================================================
// Backend Requests
// =============================================================================

// SaveRequest replaces the stored node and edge sets wholesale.
type SaveRequest struct {
	Title string       `json:"title,omitempty" validate:"max=200"`
	Type  string       `json:"type,omitempty" validate:"omitempty,oneof=force grid circle hierarchy"`
	Nodes []NodeRecord `json:"nodes" validate:"dive"`
	Links []EdgeRecord `json:"links" validate:"dive"`
}

// PositionRecord carries one node position for a positions-only save.
type PositionRecord struct {
	ID    string  `json:"id" bson:"id" validate:"required"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	Layer int     `json:"layer,omitempty" bson:"layer,omitempty" validate:"min=0"`
}

// PositionsRequest is a positions-only save. Backends merge it into the
// stored graph by node id rather than replacing anything.
type PositionsRequest struct {
	Nodes []PositionRecord `json:"nodes" validate:"dive"`
}

package pipeline

import (
	"fmt"

	"github.com/matzehuels/graphpad/pkg/layout"
	"github.com/matzehuels/graphpad/pkg/model"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout returns a laid-out copy of g. g itself is not modified.
//
// opts.Type switches the graph type first; a type change or opts.Relayout
// discards stored positions (and hierarchy layers) so the new layout starts
// fresh.
func GenerateLayout(g *model.Graph, opts Options) (*model.Graph, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	out := g.Clone()

	reset := opts.Relayout
	if opts.Type != "" && model.Type(opts.Type) != out.Type {
		out.Type = model.Type(opts.Type)
		reset = true
	}
	if reset {
		layout.ClearPositions(out)
		if out.Type == model.TypeHierarchy {
			for _, n := range out.Nodes {
				n.Layer = 0
			}
		}
	}

	eng := layout.New(opts.Width, opts.Height)
	if err := eng.Apply(out); err != nil {
		return nil, fmt.Errorf("apply %s layout: %w", out.Type, err)
	}
	return out, nil
}

package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/model"
	"github.com/matzehuels/graphpad/pkg/store"
)

// Load reads the graph named by opts: a file when Input is set, otherwise
// GraphID from st. Transient store errors are retried with backoff.
func Load(ctx context.Context, st store.Store, opts Options) (*model.Graph, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.Input != "" {
		g, err := graph.ReadGraphFile(opts.Input)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", opts.Input, err)
		}
		return g, nil
	}
	if st == nil {
		return nil, fmt.Errorf("no store configured for graph %q", opts.GraphID)
	}

	var doc *graph.Document
	err := store.RetryWithBackoff(ctx, func() error {
		var err error
		doc, err = st.Load(ctx, opts.GraphID)
		return err
	})
	if err != nil {
		return nil, err
	}
	g, _, err := graph.ToModel(*doc)
	return g, err
}

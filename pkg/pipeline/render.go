package pipeline

import (
	"fmt"

	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/model"
	"github.com/matzehuels/graphpad/pkg/render"
	"github.com/matzehuels/graphpad/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats.
func Render(g *model.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	nlOpts := nodelink.Options{Detailed: opts.Detailed, Weights: opts.Weights, Height: opts.Height}

	artifacts := make(map[string][]byte)
	var svg []byte
	renderSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.Render(g, nlOpts)
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = renderSVG()
		case FormatPNG:
			if data, err = renderSVG(); err == nil {
				data, err = render.ToPNG(data, 2.0)
			}
		case FormatPDF:
			if data, err = renderSVG(); err == nil {
				data, err = render.ToPDF(data)
			}
		case FormatDOT:
			data = []byte(nodelink.ToDOT(g, nlOpts))
		case FormatJSON:
			data, err = graph.MarshalGraph(g)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpad/pkg/pipeline"
	"github.com/matzehuels/graphpad/pkg/render"
)

// renderCommand creates the render command for exporting diagrams.
//
// Default settings:
//   - format: svg
//   - layout: the graph's stored type, keeping stored positions
//   - canvas: from config (1200x800 unless set)
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		detailed   bool
		weights    bool
		flags      canvasFlags
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a graph to SVG, PNG, PDF, DOT or JSON",
		Long: `Render a graph to SVG, PNG, PDF, DOT or JSON.

Nodes with stored positions are pinned in place; the rest are laid out by
Graphviz. PNG and PDF output needs rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			opts.Input = args[0]
			opts.Formats = parseFormats(formatsStr)
			opts.Detailed = detailed
			opts.Weights = weights
			flags.apply(cmd, &opts)
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show node descriptions and layers")
	cmd.Flags().BoolVar(&weights, "weights", false, "label edges with their weights (force graphs)")
	flags.register(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Strip known format extensions from output path
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its file. A single format with an explicit
// output path is written there as given.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// runRender loads and lays out the graph, then writes every requested format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", opts.Input)
	prog := newProgress(logger)

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", opts.Input, err)
	}
	logger.Infof("Loaded graph: %d nodes, %d edges", len(g.Nodes), len(g.Links))

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", layoutName(opts.Type, string(g.Type))))
	spinner.Start()

	laid, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}

	spinner.Update("Rendering " + strings.Join(opts.Formats, ", ") + "...")
	artifacts, err := pipeline.Render(laid, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		if errors.Is(err, render.ErrNoConverter) {
			printDetail("SVG, DOT and JSON output work without it: --format svg")
		}
		return err
	}
	spinner.Stop()

	paths := outputPaths(output, opts.Input, opts.Formats)
	formats := make([]string, 0, len(paths))
	for f := range paths {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	for _, f := range formats {
		if err := writeOutput(paths[f], artifacts[f]); err != nil {
			return fmt.Errorf("write %s: %w", f, err)
		}
		logger.Debugf("Generated %s: %d bytes", f, len(artifacts[f]))
	}

	prog.done("Rendered " + strings.Join(formats, ", "))
	for _, f := range formats {
		printFile(paths[f])
	}
	printStats(len(laid.Nodes), len(laid.Links), cacheHit)
	return nil
}

// openOutput opens path for writing, or stdout when path is "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Package pipeline provides the batch load → layout → analytics → render
// pipeline behind the CLI.
//
// The editor packages (ops, session) work on one live graph. This package is
// for one-shot jobs: read a graph file, lay it out, answer an analytics
// query and export a diagram. Layout and analytics results are cached by a
// hash of the graph content, so repeated runs over an unchanged file are
// served from the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "deps.json",
//	    Type:    "hierarchy",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g, err := runner.Load(ctx, opts)
//	laid, err := runner.ComputeLayout(ctx, g, opts)
//	path, err := runner.ShortestPath(ctx, laid, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphpad/pkg/analytics"
	"github.com/matzehuels/graphpad/pkg/cache"
	"github.com/matzehuels/graphpad/pkg/layout"
	"github.com/matzehuels/graphpad/pkg/model"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = layout.DefaultWidth

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = layout.DefaultHeight

	// DefaultTopN is the number of ranked nodes reported by centrality runs.
	DefaultTopN = 10
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options
	Input   string `json:"input,omitempty"`    // graph file path
	GraphID string `json:"graph_id,omitempty"` // graph id in a store
	Refresh bool   `json:"refresh,omitempty"`  // bypass the cache

	// Layout options
	Type     string  `json:"type,omitempty"` // override the stored graph type
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Relayout bool    `json:"relayout,omitempty"` // discard stored positions

	// Analytics options
	Source     string  `json:"source,omitempty"`
	Target     string  `json:"target,omitempty"`
	Directed   bool    `json:"directed,omitempty"`
	DegreeMode string  `json:"degree_mode,omitempty"`
	Damping    float64 `json:"damping,omitempty"`
	MaxIter    int     `json:"max_iter,omitempty"`
	Tol        float64 `json:"tol,omitempty"`
	TopN       int     `json:"top_n,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Weights  bool     `json:"weights,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the laid-out graph.
	Graph *model.Graph

	// GraphHash is the content hash of the loaded graph.
	GraphHash string

	// Path is set when Source and Target were given.
	Path *analytics.PathResult

	// PageRank holds the PageRank result of the run.
	PageRank analytics.PageRankResult

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int
	EdgeCount     int
	LoadTime      time.Duration
	LayoutTime    time.Duration
	AnalyticsTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit    bool
	AnalyticsHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateType checks that a graph type is valid. Empty keeps the stored type.
func ValidateType(t string) error {
	if t == "" {
		return nil
	}
	_, err := model.ParseType(t)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForLoad checks that a graph source is set.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" && o.GraphID == "" {
		return fmt.Errorf("input file or graph id is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("canvas size must be positive")
	}
	return ValidateType(o.Type)
}

// SetAnalyticsDefaults sets default values for analytics.
func (o *Options) SetAnalyticsDefaults() {
	if o.DegreeMode == "" {
		o.DegreeMode = string(analytics.DegreeTotal)
	}
	if o.TopN == 0 {
		o.TopN = DefaultTopN
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForAnalytics validates and sets defaults for analytics.
func (o *Options) ValidateForAnalytics() error {
	o.SetAnalyticsDefaults()
	if _, err := analytics.ParseDegreeMode(o.DegreeMode); err != nil {
		return err
	}
	if o.Damping < 0 || o.Damping >= 1 {
		return fmt.Errorf("damping must be in [0, 1): %v", o.Damping)
	}
	if o.MaxIter < 0 || o.Tol < 0 {
		return fmt.Errorf("max_iter and tol must not be negative")
	}
	if (o.Source == "") != (o.Target == "") {
		return fmt.Errorf("path queries need both source and target")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// WantsPath reports whether a shortest path query was requested.
func (o *Options) WantsPath() bool {
	return o.Source != "" && o.Target != ""
}

// PageRankOptions returns the analytics options for PageRank.
func (o *Options) PageRankOptions() analytics.PageRankOptions {
	return analytics.PageRankOptions{Damping: o.Damping, MaxIter: o.MaxIter, Tol: o.Tol}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Type:   o.Type,
		Width:  o.Width,
		Height: o.Height,
	}
}

// AnalyticsKeyOpts returns cache key options for one analytics kind.
func (o *Options) AnalyticsKeyOpts(kind string) cache.AnalyticsKeyOpts {
	k := cache.AnalyticsKeyOpts{Kind: kind}
	switch kind {
	case KindPath:
		k.Source, k.Target, k.Directed = o.Source, o.Target, o.Directed
	case KindDegree:
		k.Mode = o.DegreeMode
	case KindPageRank:
		k.Damping, k.MaxIter, k.Tol = o.Damping, o.MaxIter, o.Tol
	}
	return k
}

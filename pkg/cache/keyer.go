package cache

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a laid-out graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// AnalyticsKey identifies an analytics result.
	AnalyticsKey(graphHash string, opts AnalyticsKeyOpts) string
}

// LayoutKeyOpts lists the inputs that change a layout.
type LayoutKeyOpts struct {
	Type   string  `json:"type"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AnalyticsKeyOpts lists the inputs that change an analytics result.
// Unused fields stay zero for a given kind.
type AnalyticsKeyOpts struct {
	Kind     string  `json:"kind"`
	Source   string  `json:"source,omitempty"`
	Target   string  `json:"target,omitempty"`
	Directed bool    `json:"directed,omitempty"`
	Mode     string  `json:"mode,omitempty"`
	Damping  float64 `json:"damping,omitempty"`
	MaxIter  int     `json:"max_iter,omitempty"`
	Tol      float64 `json:"tol,omitempty"`
}

// DefaultKeyer hashes the graph hash and options together.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// AnalyticsKey returns "analytics:<kind>:<hash>".
func (DefaultKeyer) AnalyticsKey(graphHash string, opts AnalyticsKeyOpts) string {
	return hashKey("analytics:"+opts.Kind, graphHash, opts)
}

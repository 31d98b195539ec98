package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpad/pkg/analytics"
	"github.com/matzehuels/graphpad/pkg/pipeline"
)

// analyticsFlags are shared by the path, centrality and pagerank commands.
type analyticsFlags struct {
	noCache bool
	asJSON  bool
	top     int
}

func (f *analyticsFlags) register(cmd *cobra.Command, withTop bool) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the result as JSON")
	if withTop {
		cmd.Flags().IntVarP(&f.top, "top", "n", pipeline.DefaultTopN, "number of nodes to show (0 for all)")
	}
}

// pathCommand creates the path command.
func (c *CLI) pathCommand() *cobra.Command {
	var (
		directed bool
		flags    analyticsFlags
	)

	cmd := &cobra.Command{
		Use:   "path [graph.json] [source] [target]",
		Short: "Find the shortest path between two nodes",
		Long: `Find the shortest path between two nodes.

Edge weights are path costs (default 1; negative weights count as 0). Edges
are traversable in both directions unless --directed is given.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			opts.Input, opts.Source, opts.Target = args[0], args[1], args[2]
			opts.Directed = directed
			return c.runPath(cmd.Context(), opts, flags)
		},
	}

	cmd.Flags().BoolVar(&directed, "directed", false, "follow edge direction only")
	flags.register(cmd, false)

	return cmd
}

func (c *CLI) runPath(ctx context.Context, opts pipeline.Options, flags analyticsFlags) error {
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", opts.Input, err)
	}
	res, cacheHit, err := runner.ShortestPathWithCacheInfo(ctx, g, opts)
	if err != nil {
		return err
	}
	if flags.asJSON {
		return printJSON(res)
	}
	if !res.OK {
		printWarning("%s", res.Msg)
		return res.Err()
	}

	printSuccess("Shortest path %s %s %s", opts.Source, iconArrow, opts.Target)
	printKeyValue("Path", strings.Join(res.Nodes, " "+iconArrow+" "))
	printKeyValue("Hops", fmt.Sprint(len(res.Edges)))
	printKeyValue("Total", formatScore(res.Total))
	printStats(len(g.Nodes), len(g.Links), cacheHit)
	return nil
}

// centralityCommand creates the degree centrality command.
func (c *CLI) centralityCommand() *cobra.Command {
	var (
		mode  string
		flags analyticsFlags
	)

	cmd := &cobra.Command{
		Use:   "centrality [graph.json]",
		Short: "Rank nodes by degree centrality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			opts.Input = args[0]
			opts.DegreeMode = mode
			opts.TopN = flags.top
			if err := opts.ValidateForAnalytics(); err != nil {
				return err
			}
			return c.runCentrality(cmd.Context(), opts, flags)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(analytics.DegreeTotal), "degree to count: total, in, out")
	flags.register(cmd, true)

	return cmd
}

func (c *CLI) runCentrality(ctx context.Context, opts pipeline.Options, flags analyticsFlags) error {
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", opts.Input, err)
	}
	scores, cacheHit, err := runner.DegreeWithCacheInfo(ctx, g, opts)
	if err != nil {
		return err
	}
	top := analytics.TopN(scores, flags.top)
	if flags.asJSON {
		return printJSON(top)
	}

	printSuccess("Degree centrality (%s)", opts.DegreeMode)
	printScores(top)
	printStats(len(g.Nodes), len(g.Links), cacheHit)
	return nil
}

// pageRankCommand creates the PageRank command.
func (c *CLI) pageRankCommand() *cobra.Command {
	var (
		damping float64
		maxIter int
		tol     float64
		flags   analyticsFlags
	)

	cmd := &cobra.Command{
		Use:   "pagerank [graph.json]",
		Short: "Rank nodes by PageRank",
		Long: `Rank nodes by PageRank.

Runs power iteration over the directed edges. Rank held by nodes without
out-links is spread evenly over all nodes. Defaults come from the
[pagerank] section of the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			opts.Input = args[0]
			opts.TopN = flags.top
			if cmd.Flags().Changed("damping") {
				opts.Damping = damping
			}
			if cmd.Flags().Changed("max-iter") {
				opts.MaxIter = maxIter
			}
			if cmd.Flags().Changed("tol") {
				opts.Tol = tol
			}
			if err := opts.ValidateForAnalytics(); err != nil {
				return err
			}
			return c.runPageRank(cmd.Context(), opts, flags)
		},
	}

	cmd.Flags().Float64Var(&damping, "damping", analytics.DefaultDamping, "damping factor in [0, 1)")
	cmd.Flags().IntVar(&maxIter, "max-iter", analytics.DefaultMaxIter, "maximum iterations")
	cmd.Flags().Float64Var(&tol, "tol", analytics.DefaultTol, "convergence tolerance (L1)")
	flags.register(cmd, true)

	return cmd
}

func (c *CLI) runPageRank(ctx context.Context, opts pipeline.Options, flags analyticsFlags) error {
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", opts.Input, err)
	}
	res, cacheHit, err := runner.PageRankWithCacheInfo(ctx, g, opts)
	if err != nil {
		return err
	}
	res.Scores = analytics.TopN(res.Scores, flags.top)
	if flags.asJSON {
		return printJSON(res)
	}

	printSuccess("PageRank (%d iterations)", res.Iterations)
	if !res.Converged {
		printWarning("did not converge after %d iterations", res.Iterations)
	}
	printScores(res.Scores)
	printStats(len(g.Nodes), len(g.Links), cacheHit)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

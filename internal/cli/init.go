package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/model"
)

// initCommand creates the init command, which seeds a new graph.
func (c *CLI) initCommand() *cobra.Command {
	var (
		graphType   string
		title       string
		output      string
		writeConfig bool
	)

	cmd := &cobra.Command{
		Use:   "init [graph-id]",
		Short: "Create a new graph with three starter nodes",
		Long: `Create a new graph with three starter nodes.

Without --output the graph is saved to the configured store under the given
id (a random one if omitted). With --output it is written as a graph.json
file instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := uuid.NewString()
			if len(args) == 1 {
				id = args[0]
			}
			t := model.Type(graphType)
			if !t.Valid() {
				return fmt.Errorf("invalid graph type %q: must be force, grid, circle or hierarchy", graphType)
			}
			if writeConfig {
				if err := c.writeDefaultConfig(); err != nil {
					return err
				}
			}
			return c.runInit(cmd.Context(), id, model.Default(t, title), output)
		},
	}

	cmd.Flags().StringVarP(&graphType, "type", "t", string(model.TypeForce), "graph type: force, grid, circle, hierarchy")
	cmd.Flags().StringVar(&title, "title", "Untitled", "graph title")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write a graph.json file instead of using the store")
	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "also write the default config file if none exists")
	_ = cmd.RegisterFlagCompletionFunc("type", completeGraphTypes)

	return cmd
}

func (c *CLI) runInit(ctx context.Context, id string, g *model.Graph, output string) error {
	if output != "" {
		if err := graph.WriteGraphFile(g, output); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printSuccess("Created %s graph", g.Type)
		printFile(output)
		printNewline()
		printNextStep("Lay out", appName+" layout "+output)
		return nil
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if err := st.Save(ctx, id, graph.NewSaveRequest(g)); err != nil {
		return fmt.Errorf("save graph %s: %w", id, err)
	}

	printSuccess("Created %s graph", g.Type)
	printKeyValue("ID", id)
	printKeyValue("Store", c.Config.Store.Backend)
	printNewline()
	printNextStep("Serve", appName+" serve "+id)
	return nil
}

// writeDefaultConfig writes the current config to the default location
// unless a file is already there.
func (c *CLI) writeDefaultConfig() error {
	path := c.configPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return fmt.Errorf("get config dir: %w", err)
		}
		path = filepath.Join(dir, configFile)
	}
	if _, err := os.Stat(path); err == nil {
		printDetail("Config exists: %s", path)
		return nil
	}
	if err := WriteConfig(c.Config, path); err != nil {
		return err
	}
	printFile(path)
	return nil
}

package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/model"
	"github.com/matzehuels/graphpad/pkg/store"
)

// isolate points every XDG directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	return cfgHome
}

func starterFile(t *testing.T, typ string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := runCLI(t, "init", "-t", typ, "-o", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	return path
}

func TestInitToFile(t *testing.T) {
	isolate(t)
	path := starterFile(t, "hierarchy")

	g, err := graph.ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile() error: %v", err)
	}
	if g.Type != model.TypeHierarchy {
		t.Errorf("Type = %q, want hierarchy", g.Type)
	}
	if len(g.Nodes) != 3 || len(g.Links) != 2 {
		t.Errorf("starter graph has %d nodes, %d links", len(g.Nodes), len(g.Links))
	}
}

func TestInitToStore(t *testing.T) {
	cfgHome := isolate(t)

	if err := runCLI(t, "init", "notes", "--title", "Notes", "--write-config"); err != nil {
		t.Fatalf("init: %v", err)
	}

	st, err := store.NewFileStore(filepath.Join(cfgHome, appName, "graphs"))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := st.Load(context.Background(), "notes")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if doc.Title != "Notes" || len(doc.Nodes) != 3 {
		t.Errorf("stored doc = %+v", doc)
	}
	if _, err := os.Stat(filepath.Join(cfgHome, appName, configFile)); err != nil {
		t.Errorf("--write-config did not write the config: %v", err)
	}
}

func TestInitRejectsBadType(t *testing.T) {
	isolate(t)
	if err := runCLI(t, "init", "-t", "spiral", "-o", filepath.Join(t.TempDir(), "g.json")); err == nil {
		t.Error("expected an error for an invalid type")
	}
}

func TestLayoutCommand(t *testing.T) {
	isolate(t)
	path := starterFile(t, "hierarchy")

	if err := runCLI(t, "layout", path); err != nil {
		t.Fatalf("layout: %v", err)
	}

	out := strings.TrimSuffix(path, ".json") + ".layout.json"
	g, err := graph.ReadGraphFile(out)
	if err != nil {
		t.Fatalf("ReadGraphFile(%s) error: %v", out, err)
	}
	for _, n := range g.Nodes {
		if !n.HasPosition() {
			t.Errorf("node %s has no position", n.ID)
		}
		if n.Layer == 0 {
			t.Errorf("node %s has no layer", n.ID)
		}
	}
}

func TestRenderCommandDOT(t *testing.T) {
	isolate(t)
	path := starterFile(t, "grid")
	out := filepath.Join(t.TempDir(), "graph.dot")

	if err := runCLI(t, "render", path, "-f", "dot", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	if !strings.HasPrefix(dot, "digraph G {") || !strings.Contains(dot, `"A" -> "B";`) {
		t.Errorf("unexpected DOT output:\n%s", dot)
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	isolate(t)
	path := starterFile(t, "force")
	if err := runCLI(t, "render", path, "-f", "gif"); err == nil {
		t.Error("expected an error for an invalid format")
	}
}

func TestAnalyticsCommands(t *testing.T) {
	isolate(t)
	path := starterFile(t, "force")

	tests := []struct {
		name string
		args []string
	}{
		{"path", []string{"path", path, "A", "C"}},
		{"path directed", []string{"path", path, "A", "C", "--directed"}},
		{"centrality", []string{"centrality", path, "-m", "in", "--json"}},
		{"pagerank", []string{"pagerank", path, "--damping", "0.8", "-n", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err != nil {
				t.Errorf("%v: %v", tt.args, err)
			}
		})
	}
}

func TestPathCommandNoPath(t *testing.T) {
	isolate(t)
	path := starterFile(t, "force")

	err := runCLI(t, "path", path, "C", "A", "--directed", "--no-cache")
	if !errors.Is(err, errors.ErrCodeNoPath) {
		t.Errorf("error = %v, want NO_PATH", err)
	}
}

func TestPageRankCommandRejectsDamping(t *testing.T) {
	isolate(t)
	path := starterFile(t, "force")
	if err := runCLI(t, "pagerank", path, "--damping", "1.5"); err == nil {
		t.Error("expected an error for damping >= 1")
	}
}

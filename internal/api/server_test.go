package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/graphpad/pkg/analytics"
	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/metrics"
	"github.com/matzehuels/graphpad/pkg/session"
	"github.com/matzehuels/graphpad/pkg/store"
)

func newTestServer(t *testing.T, st *store.MemoryStore, graphID string) http.Handler {
	t.Helper()
	sess, err := session.Open(context.Background(), st, graphID, session.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return New(sess, Options{Metrics: metrics.NewRegistry()}).Handler()
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func hierarchyDoc() graph.Document {
	return graph.Document{
		Title: "deps",
		Type:  "hierarchy",
		Nodes: []graph.NodeRecord{{ID: "app"}, {ID: "lib"}, {ID: "util"}},
		Links: []graph.EdgeRecord{{Source: "app", Target: "lib"}, {Source: "lib", Target: "util"}},
	}
}

func TestHealthAndGraph(t *testing.T) {
	h := newTestServer(t, store.NewMemoryStore(), "g")

	rec := do(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("health = %d %s", rec.Code, rec.Body)
	}

	rec = do(t, h, http.MethodGet, "/graph", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /graph = %d", rec.Code)
	}
	doc := decodeBody[graph.Document](t, rec)
	if doc.ID != "g" || len(doc.Nodes) != 3 || len(doc.Links) != 2 {
		t.Errorf("graph = %+v", doc)
	}
}

func TestNodeRoutes(t *testing.T) {
	h := newTestServer(t, store.NewMemoryStore(), "g")

	tests := []struct {
		name   string
		method string
		target string
		body   any
		status int
		code   errors.Code
	}{
		{"add", http.MethodPost, "/nodes", addNodeRequest{ID: "D", Label: "Dee"}, http.StatusCreated, ""},
		{"add duplicate", http.MethodPost, "/nodes", addNodeRequest{ID: "D"}, http.StatusConflict, errors.ErrCodeDuplicateID},
		{"add empty id", http.MethodPost, "/nodes", addNodeRequest{}, http.StatusBadRequest, errors.ErrCodeEmptyID},
		{"rename", http.MethodPatch, "/nodes/D", map[string]string{"id": "E"}, http.StatusOK, ""},
		{"edit missing", http.MethodPatch, "/nodes/nope", map[string]string{"label": "x"}, http.StatusNotFound, errors.ErrCodeNotFound},
		{"move", http.MethodPost, "/nodes/E/move", map[string]float64{"x": 10, "y": 20}, http.StatusOK, ""},
		{"move without y", http.MethodPost, "/nodes/E/move", map[string]float64{"x": 10}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"delete", http.MethodDelete, "/nodes/E", nil, http.StatusOK, ""},
		{"delete again", http.MethodDelete, "/nodes/E", nil, http.StatusNotFound, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("%s %s = %d, want %d: %s", tt.method, tt.target, rec.Code, tt.status, rec.Body)
			}
			if tt.code != "" {
				resp := decodeBody[errorResponse](t, rec)
				if resp.Error.Code != tt.code {
					t.Errorf("code = %s, want %s", resp.Error.Code, tt.code)
				}
			}
		})
	}
}

func TestEdgeRoutes(t *testing.T) {
	st := store.NewMemoryStore()
	st.Put("deps", hierarchyDoc())
	h := newTestServer(t, st, "deps")

	rec := do(t, h, http.MethodPut, "/edges", edgeRequest{Source: "app", Target: "util"})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /edges = %d: %s", rec.Code, rec.Body)
	}
	resp := decodeBody[mutationResponse](t, rec)
	if resp.Outcome != "added" || len(resp.Graph.Links) != 3 {
		t.Errorf("outcome %q links %d", resp.Outcome, len(resp.Graph.Links))
	}

	rec = do(t, h, http.MethodPut, "/edges", edgeRequest{Source: "util", Target: "app"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("upward edge = %d, want 422", rec.Code)
	}

	w := 2.0
	rec = do(t, h, http.MethodPut, "/edges", edgeRequest{Source: "app", Target: "lib", Weight: &w})
	resp = decodeBody[mutationResponse](t, rec)
	if resp.Outcome != "unchanged" || resp.Warning == "" {
		t.Errorf("weighted edge on hierarchy: outcome %q warning %q", resp.Outcome, resp.Warning)
	}

	rec = do(t, h, http.MethodPut, "/edges", edgeRequest{Source: "app", Target: "app"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("self loop = %d, want 400", rec.Code)
	}

	rec = do(t, h, http.MethodDelete, "/edges?source=app&target=util", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("DELETE /edges = %d", rec.Code)
	}
	rec = do(t, h, http.MethodDelete, "/edges?source=app&target=util", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE /edges = %d, want 404", rec.Code)
	}
}

func TestUndoRedo(t *testing.T) {
	h := newTestServer(t, store.NewMemoryStore(), "g")

	rec := do(t, h, http.MethodPost, "/undo", nil)
	if resp := decodeBody[historyResponse](t, rec); resp.Applied {
		t.Error("undo with empty history should not apply")
	}

	do(t, h, http.MethodDelete, "/nodes/B", nil)
	rec = do(t, h, http.MethodPost, "/undo", nil)
	resp := decodeBody[historyResponse](t, rec)
	if !resp.Applied || len(resp.Graph.Nodes) != 3 || resp.Redo != 1 {
		t.Errorf("undo = %+v", resp)
	}
	rec = do(t, h, http.MethodPost, "/redo", nil)
	resp = decodeBody[historyResponse](t, rec)
	if !resp.Applied || len(resp.Graph.Nodes) != 2 || resp.Undo != 1 {
		t.Errorf("redo = %+v", resp)
	}
}

func TestTypeTitleLayout(t *testing.T) {
	h := newTestServer(t, store.NewMemoryStore(), "g")

	rec := do(t, h, http.MethodPost, "/type", typeRequest{Type: "hierarchy"})
	resp := decodeBody[mutationResponse](t, rec)
	if resp.Graph.Type != "hierarchy" {
		t.Errorf("type = %s", resp.Graph.Type)
	}
	for _, n := range resp.Graph.Nodes {
		if n.Layer == 0 {
			t.Errorf("node %s has no layer", n.ID)
		}
	}

	if rec := do(t, h, http.MethodPost, "/type", typeRequest{Type: "radial"}); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown type = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/title", titleRequest{Title: "renamed"})
	if resp := decodeBody[mutationResponse](t, rec); resp.Graph.Title != "renamed" {
		t.Errorf("title = %q", resp.Graph.Title)
	}

	if rec := do(t, h, http.MethodPost, "/layout", nil); rec.Code != http.StatusOK {
		t.Errorf("relayout = %d", rec.Code)
	}
}

func TestSave(t *testing.T) {
	st := store.NewMemoryStore()
	h := newTestServer(t, st, "g")

	do(t, h, http.MethodPost, "/nodes", addNodeRequest{ID: "D"})
	if rec := do(t, h, http.MethodPost, "/save", nil); rec.Code != http.StatusOK {
		t.Fatalf("save = %d: %s", rec.Code, rec.Body)
	}
	doc, err := st.Load(context.Background(), "g")
	if err != nil || len(doc.Nodes) != 4 {
		t.Fatalf("stored = %+v, %v", doc, err)
	}

	rec := do(t, h, http.MethodPost, "/save/positions", nil)
	if got := decodeBody[map[string]int](t, rec); got["sent"] != 0 {
		t.Errorf("unchanged positions sent %d", got["sent"])
	}
	do(t, h, http.MethodPost, "/nodes/D/move", map[string]float64{"x": 1, "y": 2})
	rec = do(t, h, http.MethodPost, "/save/positions", nil)
	if got := decodeBody[map[string]int](t, rec); got["sent"] != 1 {
		t.Errorf("moved positions sent %d, want 1", got["sent"])
	}
}

func TestReadOnly(t *testing.T) {
	st := store.NewMemoryStore()
	doc := hierarchyDoc()
	doc.Access = "viewer"
	st.Put("shared", doc)
	h := newTestServer(t, st, "shared")

	for _, tc := range []struct{ method, target string }{
		{http.MethodDelete, "/nodes/lib"},
		{http.MethodPost, "/save"},
		{http.MethodPost, "/save/positions"},
	} {
		rec := do(t, h, tc.method, tc.target, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s = %d, want 403", tc.method, tc.target, rec.Code)
		}
	}
	if rec := do(t, h, http.MethodGet, "/analytics/pagerank", nil); rec.Code != http.StatusOK {
		t.Errorf("analytics on a read-only graph = %d", rec.Code)
	}
}

func TestAnalytics(t *testing.T) {
	h := newTestServer(t, store.NewMemoryStore(), "g")

	rec := do(t, h, http.MethodGet, "/analytics/path?source=A&target=C", nil)
	path := decodeBody[analytics.PathResult](t, rec)
	if rec.Code != http.StatusOK || !path.OK || len(path.Nodes) != 3 {
		t.Errorf("path = %d %+v", rec.Code, path)
	}

	rec = do(t, h, http.MethodGet, "/analytics/path?source=C&target=A&directed=true", nil)
	if path := decodeBody[analytics.PathResult](t, rec); rec.Code != http.StatusUnprocessableEntity || path.Code != errors.ErrCodeNoPath {
		t.Errorf("directed reverse path = %d %+v", rec.Code, path)
	}
	rec = do(t, h, http.MethodGet, "/analytics/path?source=A&target=Z", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown node = %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/analytics/path?source=A", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing target = %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/analytics/path?source=A&target=C&directed=maybe", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad directed = %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/analytics/degree?mode=in&top=1", nil)
	deg := decodeBody[degreeResponse](t, rec)
	if deg.Mode != analytics.DegreeIn || len(deg.Scores) != 1 || deg.Scores[0].ID != "B" {
		t.Errorf("degree = %+v", deg)
	}
	if rec := do(t, h, http.MethodGet, "/analytics/degree?mode=sideways", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad mode = %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/analytics/pagerank?damping=0.9", nil)
	pr := decodeBody[analytics.PageRankResult](t, rec)
	if len(pr.Scores) != 3 || pr.Scores[0].ID != "C" {
		t.Errorf("pagerank = %+v", pr)
	}
	if rec := do(t, h, http.MethodGet, "/analytics/pagerank?damping=1.5", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad damping = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	sess, err := session.Open(context.Background(), store.NewMemoryStore(), "g", session.Options{})
	if err != nil {
		t.Fatal(err)
	}
	reg := metrics.NewRegistry()
	h := New(sess, Options{Metrics: reg}).Handler()

	reg.RecordHTTPRequest(http.MethodGet, "/graph", http.StatusOK, 0)
	rec := do(t, h, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "graphpad_http_requests_total") {
		t.Errorf("metrics = %d\n%s", rec.Code, rec.Body)
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, store.NewMemoryStore(), "g")
	req := httptest.NewRequest(http.MethodOptions, "/graph", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeEmptyID, http.StatusBadRequest},
		{errors.ErrCodeMissingEndpoint, http.StatusBadRequest},
		{errors.ErrCodeEdgeNotFound, http.StatusNotFound},
		{errors.ErrCodeUnknownNode, http.StatusNotFound},
		{errors.ErrCodeReadOnlyAccess, http.StatusForbidden},
		{errors.ErrCodeDuplicateID, http.StatusConflict},
		{errors.ErrCodeInvalidDirection, http.StatusUnprocessableEntity},
		{errors.ErrCodeNoPath, http.StatusUnprocessableEntity},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

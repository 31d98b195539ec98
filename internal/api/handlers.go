package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/graphpad/pkg/analytics"
	"github.com/matzehuels/graphpad/pkg/errors"
	"github.com/matzehuels/graphpad/pkg/graph"
	"github.com/matzehuels/graphpad/pkg/model"
	"github.com/matzehuels/graphpad/pkg/ops"
	"github.com/matzehuels/graphpad/pkg/pipeline"
)

// =============================================================================
// Requests and Responses
// =============================================================================

type addNodeRequest struct {
	ID          string   `json:"id" validate:"max=200"`
	Label       string   `json:"label,omitempty" validate:"max=200"`
	Description string   `json:"description,omitempty" validate:"max=2000"`
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
}

type editNodeRequest struct {
	ID          *string `json:"id,omitempty" validate:"omitempty,max=200"`
	Label       *string `json:"label,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Layer       *int    `json:"layer,omitempty"`
}

type moveRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

type edgeRequest struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Weight *float64 `json:"weight,omitempty"`
}

type typeRequest struct {
	Type string `json:"type" validate:"required,oneof=force grid circle hierarchy"`
}

type titleRequest struct {
	Title string `json:"title" validate:"max=200"`
}

// mutationResponse carries the graph after a change, plus what happened.
type mutationResponse struct {
	Graph   graph.Document `json:"graph"`
	Outcome string         `json:"outcome,omitempty"`
	Warning string         `json:"warning,omitempty"`
}

type historyResponse struct {
	Applied bool           `json:"applied"`
	Undo    int            `json:"undo"`
	Redo    int            `json:"redo"`
	Graph   graph.Document `json:"graph"`
}

type degreeResponse struct {
	Mode   analytics.DegreeMode `json:"mode"`
	Scores []analytics.Score    `json:"scores"`
}

// =============================================================================
// Graph
// =============================================================================

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Document())
}

func (s *Server) setTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, "set_title", func(e *ops.Editor) (string, error) {
		return "", e.SetTitle(req.Title)
	})
}

func (s *Server) setType(w http.ResponseWriter, r *http.Request) {
	var req typeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, "set_type", func(e *ops.Editor) (string, error) {
		return "", e.SetType(model.Type(req.Type))
	})
}

func (s *Server) relayout(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "relayout", func(e *ops.Editor) (string, error) {
		return "", e.Relayout()
	})
}

// =============================================================================
// Nodes and Edges
// =============================================================================

func (s *Server) addNode(w http.ResponseWriter, r *http.Request) {
	var req addNodeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var resp mutationResponse
	err := s.sess.Mutate(r.Context(), "add_node", func(e *ops.Editor) error {
		_, err := e.AddNode(ops.NodeInput{
			ID:          req.ID,
			Label:       req.Label,
			Description: req.Description,
			X:           req.X,
			Y:           req.Y,
		})
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp.Outcome = "added"
	resp.Graph = s.sess.Document()
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) editNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req editNodeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, "edit_node", func(e *ops.Editor) (string, error) {
		res, err := e.EditNode(id, ops.NodeEdit{
			ID:          req.ID,
			Label:       req.Label,
			Description: req.Description,
			Layer:       req.Layer,
		})
		if err != nil {
			return "", err
		}
		outcome := "unchanged"
		switch {
		case res.Renamed:
			outcome = "renamed"
		case res.Changed:
			outcome = "updated"
		}
		if res.LayerErr != nil {
			return outcome, warning{res.LayerErr}
		}
		return outcome, nil
	})
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, "delete_node", func(e *ops.Editor) (string, error) {
		return "deleted", e.DeleteNode(id)
	})
}

func (s *Server) moveNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req moveRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, "move_node", func(e *ops.Editor) (string, error) {
		return "moved", e.MoveNode(id, *req.X, *req.Y)
	})
}

func (s *Server) putEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, "put_edge", func(e *ops.Editor) (string, error) {
		res, err := e.AddOrUpdateEdge(req.Source, req.Target, req.Weight)
		if err != nil {
			return "", err
		}
		if res.WeightIgnored {
			return res.Outcome.String(), warning{errors.New(errors.ErrCodeInvalidInput,
				"weights only apply to force graphs; the weight was ignored")}
		}
		return res.Outcome.String(), nil
	})
}

func (s *Server) deleteEdge(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	source, target := q.Get("source"), q.Get("target")
	s.mutate(w, r, "remove_edge", func(e *ops.Editor) (string, error) {
		return "removed", e.RemoveEdge(source, target)
	})
}

// warning marks a partial success: the mutation was applied, and the error
// is reported alongside the new graph instead of failing the request.
type warning struct{ err error }

func (w warning) Error() string { return w.err.Error() }

// mutate runs fn under the session lock and writes the resulting graph.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op string, fn func(*ops.Editor) (string, error)) {
	var resp mutationResponse
	err := s.sess.Mutate(r.Context(), op, func(e *ops.Editor) error {
		outcome, err := fn(e)
		resp.Outcome = outcome
		if warn, ok := err.(warning); ok {
			resp.Warning = errors.UserMessage(warn.err)
			return nil
		}
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp.Graph = s.sess.Document()
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// History and Persistence
// =============================================================================

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	applied, err := s.sess.Undo(r.Context())
	s.writeHistory(w, r, applied, err)
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	applied, err := s.sess.Redo(r.Context())
	s.writeHistory(w, r, applied, err)
}

func (s *Server) writeHistory(w http.ResponseWriter, r *http.Request, applied bool, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	undo, redo := s.sess.History()
	writeJSON(w, http.StatusOK, historyResponse{
		Applied: applied,
		Undo:    undo,
		Redo:    redo,
		Graph:   s.sess.Document(),
	})
}

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Save(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc := s.sess.Document()
	writeJSON(w, http.StatusOK, map[string]any{
		"graph_id":   doc.ID,
		"nodes":      len(doc.Nodes),
		"links":      len(doc.Links),
		"updated_at": doc.UpdatedAt,
	})
}

func (s *Server) savePositions(w http.ResponseWriter, r *http.Request) {
	n, err := s.sess.SavePositions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"sent": n})
}

// =============================================================================
// Analytics
// =============================================================================

func (s *Server) path(w http.ResponseWriter, r *http.Request) {
	opts, err := analyticsOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !opts.WantsPath() {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "source and target are required"))
		return
	}
	res, err := s.runner.ShortestPath(r.Context(), s.sess.Snapshot(), opts)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid path query"))
		return
	}
	status := http.StatusOK
	if !res.OK {
		status = statusFor(res.Code)
	}
	writeJSON(w, status, res)
}

func (s *Server) degree(w http.ResponseWriter, r *http.Request) {
	opts, err := analyticsOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	scores, err := s.runner.Degree(r.Context(), s.sess.Snapshot(), opts)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid degree query"))
		return
	}
	writeJSON(w, http.StatusOK, degreeResponse{
		Mode:   analytics.DegreeMode(opts.DegreeMode),
		Scores: analytics.TopN(scores, topParam(r)),
	})
}

func (s *Server) pageRank(w http.ResponseWriter, r *http.Request) {
	opts, err := analyticsOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.PageRank(r.Context(), s.sess.Snapshot(), opts)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid pagerank query"))
		return
	}
	res.Scores = analytics.TopN(res.Scores, topParam(r))
	writeJSON(w, http.StatusOK, res)
}

// analyticsOptions reads query parameters into pipeline options and
// validates them.
func analyticsOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Source:     q.Get("source"),
		Target:     q.Get("target"),
		DegreeMode: q.Get("mode"),
	}

	var err error
	parse := func(name string, fn func(string) error) {
		if v := q.Get(name); v != "" && err == nil {
			if perr := fn(v); perr != nil {
				err = errors.Wrap(errors.ErrCodeInvalidInput, perr, "bad %s parameter", name)
			}
		}
	}
	parse("directed", func(v string) (e error) { opts.Directed, e = strconv.ParseBool(v); return })
	parse("damping", func(v string) (e error) { opts.Damping, e = strconv.ParseFloat(v, 64); return })
	parse("max_iter", func(v string) (e error) { opts.MaxIter, e = strconv.Atoi(v); return })
	parse("tol", func(v string) (e error) { opts.Tol, e = strconv.ParseFloat(v, 64); return })
	if err != nil {
		return opts, err
	}
	if err := opts.ValidateForAnalytics(); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid query")
	}
	return opts, nil
}

// topParam returns the "top" query parameter, or 0 for all results.
func topParam(r *http.Request) int {
	n, _ := strconv.Atoi(r.URL.Query().Get("top"))
	return max(n, 0)
}

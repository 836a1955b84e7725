package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kstrandberg/uncouple/pkg/engine"
	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/model"
	"github.com/kstrandberg/uncouple/pkg/model/memory"
	"github.com/kstrandberg/uncouple/pkg/modelio"
	"github.com/kstrandberg/uncouple/pkg/report"
	"github.com/kstrandberg/uncouple/pkg/viz"
)

// processResponse is the body of POST /v1/process.
type processResponse struct {
	RunID   string          `json:"run_id,omitempty"`
	DryRun  bool            `json:"dry_run,omitempty"`
	Summary engine.Summary  `json:"summary"`
	Model   json.RawMessage `json:"model,omitempty"`
}

// handleProcess removes couplings from the posted model.
//
// Query parameters:
//   - ids: comma-separated junction ids; all junctions when absent
//   - dry_run: when truthy, report what would happen without returning a
//     modified model or recording a run
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	m, err := modelio.ReadJSON(r.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	junctions, err := selectJunctions(m, r.URL.Query().Get("ids"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	dryRun := isTruthy(r.URL.Query().Get("dry_run"))
	if dryRun {
		// Work on a clone so the reported outcomes are real while the
		// caller's model stays untouched.
		clone := m.Clone()
		junctions = remapJunctions(clone, junctions)
		m = clone
	}

	eng := engine.New(m, engine.Options{Thresholds: s.th, Logger: s.log})
	started := time.Now()
	sum := eng.Process(r.Context(), junctions)
	elapsed := time.Since(started)

	resp := processResponse{DryRun: dryRun, Summary: sum}
	if !dryRun {
		run := report.NewRun(started, elapsed, s.th, sum)
		if err := s.store.Save(r.Context(), run); err != nil {
			s.log.Error("save run", "err", err)
		} else {
			resp.RunID = run.ID
		}
		var buf bytes.Buffer
		if err := modelio.WriteJSON(m, &buf); err != nil {
			s.writeError(w, err)
			return
		}
		resp.Model = buf.Bytes()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleVisualize renders the posted model as dot, svg, or png.
func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	m, err := modelio.ReadJSON(r.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts := viz.Options{Detailed: isTruthy(r.URL.Query().Get("detailed"))}
	dot := viz.ToDOT(m, opts)

	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.Write([]byte(dot))
	case "svg":
		svg, err := viz.RenderSVG(dot)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
	case "png":
		png, err := viz.RenderPNG(dot)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidConfig, "unknown format %q", format))
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// selectJunctions resolves the ids filter against the model. An empty filter
// selects every junction.
func selectJunctions(m *memory.Model, ids string) ([]*model.Junction, error) {
	if strings.TrimSpace(ids) == "" {
		return m.Junctions(), nil
	}
	var out []*model.Junction
	for _, id := range strings.Split(ids, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		j := m.Junction(model.ElementID(id))
		if j == nil {
			return nil, errors.New(errors.ErrCodeNotFound, "junction %s not in model", id)
		}
		out = append(out, j)
	}
	return out, nil
}

// remapJunctions translates junction selections onto a cloned model.
func remapJunctions(clone *memory.Model, junctions []*model.Junction) []*model.Junction {
	out := make([]*model.Junction, 0, len(junctions))
	for _, j := range junctions {
		if cj := clone.Junction(j.ID()); cj != nil {
			out = append(out, cj)
		}
	}
	return out
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

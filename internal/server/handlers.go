package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/songsort/pkg/errors"
	"github.com/matzehuels/songsort/pkg/importer"
	"github.com/matzehuels/songsort/pkg/io"
	"github.com/matzehuels/songsort/pkg/pref"
	"github.com/matzehuels/songsort/pkg/render"
	"github.com/matzehuels/songsort/pkg/session"
)

type startRequest struct {
	Items    []string `json:"items"`
	Strategy string   `json:"strategy"`
}

type resolveRequest struct {
	Choice string `json:"choice"`
	// ID guards against answering a question the client no longer shows.
	ID *int `json:"id,omitempty"`
}

type importRequest struct {
	Text  string `json:"text"`
	Clean *bool  `json:"clean,omitempty"`
}

type decisionJSON struct {
	Ordinal   int    `json:"ordinal,omitempty"`
	Chosen    string `json:"chosen"`
	Rejected  string `json:"rejected"`
	Kind      string `json:"kind"`
	ElapsedMS int64  `json:"elapsed_ms,omitempty"`
}

type snapshotJSON struct {
	session.Snapshot
	History []decisionJSON `json:"history"`
}

type importResponse struct {
	Summary importer.Summary `json:"summary"`
	Lines   int              `json:"lines"`
	Invalid []string         `json:"invalid,omitempty"`
}

func toDecisionJSON(d pref.Decision) decisionJSON {
	return decisionJSON{
		Ordinal:   d.Ordinal,
		Chosen:    d.Chosen,
		Rejected:  d.Rejected,
		Kind:      d.Kind.String(),
		ElapsedMS: d.Elapsed.Milliseconds(),
	}
}

func snapshotOf(sess *session.Session) snapshotJSON {
	snap := sess.Snapshot()
	out := snapshotJSON{Snapshot: snap, History: make([]decisionJSON, len(snap.Decisions))}
	for i, d := range snap.Decisions {
		out.History[i] = toDecisionJSON(d)
	}
	return out
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Strategy == "" {
		req.Strategy = s.opts.Strategy
	}
	sess, err := s.sessions.Start(req.Items, req.Strategy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshotOf(sess))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotOf(sess))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	var req resolveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	dir, ok := pref.ParseDirection(req.Choice)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "choice must be left or right, got %q", req.Choice))
		return
	}
	if req.ID != nil {
		active, ok := sess.Engine.Active()
		if !ok || active.ID != *req.ID {
			writeError(w, errors.New(errors.ErrCodeConflict, "comparison %d is no longer active", *req.ID))
			return
		}
	}
	if _, ok := sess.Resolve(dir); !ok {
		writeError(w, errors.New(errors.ErrCodeConflict, "no comparison pending"))
		return
	}
	writeJSON(w, http.StatusOK, snapshotOf(sess))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	var req importRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	pairs, report, err := io.ReadText(strings.NewReader(req.Text), sess.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	clean := s.opts.CleanImports
	if req.Clean != nil {
		clean = *req.Clean
	}
	sum, err := sess.Import(r.Context(), pairs, clean)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := importResponse{Summary: sum, Lines: report.Lines}
	for _, le := range report.Invalid {
		resp.Invalid = append(resp.Invalid, le.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	res := sess.Export()
	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", "application/json")
		if err := io.WriteJSON(w, res); err != nil {
			s.logger.Error("export", "err", err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := io.WriteText(w, res.Decisions); err != nil {
		s.logger.Error("export", "err", err)
	}
}

func (s *Server) graphDOT(r *http.Request) (string, error) {
	sess, err := s.sessions.Current()
	if err != nil {
		return "", err
	}
	reduce := true
	if v := r.URL.Query().Get("reduce"); v != "" {
		if reduce, err = strconv.ParseBool(v); err != nil {
			return "", errors.New(errors.ErrCodeInvalidInput, "reduce: %v", err)
		}
	}
	ranking, _ := sess.Result()
	return render.ToDOT(sess.Engine.Decisions(), render.Options{Reduce: reduce, Ranking: ranking})
}

func (s *Server) handleGraphDOT(w http.ResponseWriter, r *http.Request) {
	dot, err := s.graphDOT(r)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(dot))
}

func (s *Server) handleGraphSVG(w http.ResponseWriter, r *http.Request) {
	dot, err := s.graphDOT(r)
	if err != nil {
		writeError(w, err)
		return
	}
	svg, err := render.CachedSVG(r.Context(), s.opts.Cache, dot)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render graph"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = bytes.NewReader(svg).WriteTo(w)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	return nil
}

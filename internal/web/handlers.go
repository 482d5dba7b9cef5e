package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Arash1381-y/PanicLabSim/internal/game"
	pnet "github.com/Arash1381-y/PanicLabSim/internal/net"
	"github.com/Arash1381-y/PanicLabSim/internal/render"
)

// SimulateResponse is returned by POST /api/simulate.
type SimulateResponse struct {
	RunID  string           `json:"run_id"`
	Result *pnet.ResultView `json:"result"`
}

// RunInfo summarizes a stored run for GET /api/runs.
type RunInfo struct {
	RunID  string `json:"run_id"`
	Layout string `json:"layout"`
	Trials int    `json:"trials"`
	Seed   uint64 `json:"seed"`
}

func (s *Server) handleLayouts(w http.ResponseWriter, r *http.Request) {
	layouts, err := s.runner.Layouts()
	if err != nil {
		writeRunnerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layouts)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req pnet.Request
	if !decodeRequest(w, r, &req) {
		return
	}
	run, err := s.runner.Simulate(r.Context(), req, nil)
	if err != nil {
		writeRunnerError(w, err)
		return
	}
	s.runs.Put(run)
	writeJSON(w, http.StatusOK, SimulateResponse{RunID: run.ID, Result: run.View})
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	var req pnet.Request
	if !decodeRequest(w, r, &req) {
		return
	}
	tv, err := s.runner.Trace(req)
	if err != nil {
		writeRunnerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tv)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs := s.runs.List()
	infos := make([]RunInfo, 0, len(runs))
	for _, run := range runs {
		infos = append(infos, RunInfo{RunID: run.ID, Layout: run.Layout, Trials: run.Tally.Trials, Seed: run.Seed})
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SimulateResponse{RunID: run.ID, Result: run.View})
}

func (s *Server) handlePie(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	shares, err := game.Normalize(run.Tally)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := render.WritePie(w, shares); err != nil {
		s.logger.Warn().Err(err).Str("run_id", run.ID).Msg("write pie chart")
	}
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	scale := 1.0
	if v := r.URL.Query().Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f > 4 {
			writeError(w, http.StatusBadRequest, "scale must be in (0, 4]")
			return
		}
		scale = f
	}
	w.Header().Set("Content-Type", "image/png")
	if err := render.WriteBoard(w, run.Ring, run.Tally, scale); err != nil {
		s.logger.Warn().Err(err).Str("run_id", run.ID).Msg("write board")
	}
}

func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (*pnet.Run, bool) {
	run, err := s.runs.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return run, true
}

func decodeRequest(w http.ResponseWriter, r *http.Request, req *pnet.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeRunnerError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, pnet.ErrNoLayouts):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	writeError(w, status, err.Error())
}

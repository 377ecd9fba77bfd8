package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"maintopt/internal/geo"
	"maintopt/internal/ingest"
	"maintopt/internal/metrics"
	"maintopt/internal/model"
	"maintopt/internal/opt"
	"maintopt/internal/store"
)

// ProblemsHandler handles POST/GET /v1/problems. POST accepts either a
// JSON body or a text/csv distance file; both end up as a stored instance
// with a full assets x bases matrix.
func (s *Server) ProblemsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		pr := s.getPrincipal(r)
		ct := r.Header.Get("Content-Type")
		var in model.Problem
		if strings.HasPrefix(ct, "text/csv") {
			data, err := ingest.ParseCSV(r.Body)
			if err != nil {
				writeProblem(w, http.StatusBadRequest, "Invalid CSV", err.Error(), r.URL.Path)
				return
			}
			maxTeams := len(data.Bases)
			if v := r.URL.Query().Get("maxTeams"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil || n < 1 {
					writeProblem(w, http.StatusBadRequest, "Invalid maxTeams", "maxTeams must be a positive integer", r.URL.Path)
					return
				}
				maxTeams = n
			}
			eta := 0.2
			if v := r.URL.Query().Get("eta"); v != "" {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil || f < 0 || f > 1 {
					writeProblem(w, http.StatusBadRequest, "Invalid eta", "eta must be in [0,1]", r.URL.Path)
					return
				}
				eta = f
			}
			in = model.Problem{
				Name:      r.URL.Query().Get("name"),
				NumAssets: len(data.Assets),
				NumBases:  len(data.Bases),
				MaxTeams:  maxTeams,
				Eta:       eta,
				Dist:      data.Dist,
			}
		} else {
			var body model.ProblemIn
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
				return
			}
			if err := validateProblemIn(&body); err != nil {
				writeProblem(w, http.StatusBadRequest, "Invalid problem", err.Error(), r.URL.Path)
				return
			}
			assets := toGeo(body.Assets)
			bases := toGeo(body.Bases)
			in = model.Problem{
				Name:      body.Name,
				NumAssets: len(assets),
				NumBases:  len(bases),
				MaxTeams:  body.MaxTeams,
				Eta:       body.Eta,
				Dist:      geo.Matrix(assets, bases),
			}
		}
		created, err := s.Store.CreateProblem(r.Context(), pr.Tenant, in)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Create problem failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	case http.MethodGet:
		pr := s.getPrincipal(r)
		items, next, err := s.Store.ListProblems(r.Context(), pr.Tenant, r.URL.Query().Get("cursor"), queryLimit(r))
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List problems failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ProblemByIDHandler handles GET /v1/problems/{id}.
func (s *Server) ProblemByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/problems/")
	if id == "" || strings.Contains(id, "/") {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	pr := s.getPrincipal(r)
	p, err := s.Store.GetProblem(r.Context(), pr.Tenant, id)
	if err != nil {
		writeStoreError(w, r, "Problem", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// OptimizeHandler handles POST /v1/optimize: a synchronous
// single-objective run against a stored problem.
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	pr := s.getPrincipal(r)
	if !pr.CanPlan() {
		writeProblem(w, http.StatusForbidden, "Forbidden", "planner or admin required", r.URL.Path)
		return
	}
	if !s.limiter(pr.Tenant).Allow() {
		writeProblem(w, http.StatusTooManyRequests, "Rate limited", "too many solver requests", r.URL.Path)
		return
	}
	var req model.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid optimize request", err.Error(), r.URL.Path)
		return
	}
	stored, err := s.Store.GetProblem(r.Context(), pr.Tenant, req.ProblemID)
	if err != nil {
		writeStoreError(w, r, "Problem", err)
		return
	}

	obj, _ := opt.ParseObjective(req.Objective)
	params := opt.Params{
		Objective:    obj,
		MaxIter:      orDefault(req.MaxIter, s.Tuning.MaxIter),
		MaxNoImprove: orDefault(req.MaxNoImprove, s.Tuning.MaxNoImprove),
		Seed:         req.Seed,
	}
	p := optProblem(stored)

	start := time.Now()
	res := opt.Solve(p, params)
	dur := time.Since(start)

	status := "infeasible"
	if res.Feasible {
		status = "feasible"
	}
	metrics.OptimizerRuns.WithLabelValues(obj.String(), status).Inc()
	metrics.OptimizerDuration.WithLabelValues(obj.String()).Observe(dur.Seconds())
	metrics.OptimizerIterations.WithLabelValues(obj.String()).Observe(float64(res.Iterations))

	run := model.Run{
		ProblemID:  stored.ID,
		Objective:  obj.String(),
		Value:      res.Value,
		Feasible:   res.Feasible,
		Violation:  res.Violation,
		Iterations: res.Iterations,
		History:    res.History,
		Assignment: flattenAssignment(res.Solution),
		DurationMs: dur.Milliseconds(),
		Seed:       req.Seed,
	}
	created, err := s.Store.CreateRun(r.Context(), pr.Tenant, run)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save run failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// RunsHandler handles GET /v1/runs with an optional problemId filter.
func (s *Server) RunsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	pr := s.getPrincipal(r)
	items, next, err := s.Store.ListRuns(r.Context(), pr.Tenant, r.URL.Query().Get("problemId"), r.URL.Query().Get("cursor"), queryLimit(r))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List runs failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// RunByIDHandler handles GET /v1/runs/{id}.
func (s *Server) RunByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if id == "" || strings.Contains(id, "/") {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	pr := s.getPrincipal(r)
	run, err := s.Store.GetRun(r.Context(), pr.Tenant, id)
	if err != nil {
		writeStoreError(w, r, "Run", err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// FrontsHandler handles POST/GET /v1/fronts. POST starts an asynchronous
// scalarization sweep and returns the pending job.
func (s *Server) FrontsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		pr := s.getPrincipal(r)
		if !pr.CanPlan() {
			writeProblem(w, http.StatusForbidden, "Forbidden", "planner or admin required", r.URL.Path)
			return
		}
		if !s.limiter(pr.Tenant).Allow() {
			writeProblem(w, http.StatusTooManyRequests, "Rate limited", "too many solver requests", r.URL.Path)
			return
		}
		var req model.FrontRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if err := validateRequest(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid front request", err.Error(), r.URL.Path)
			return
		}
		stored, err := s.Store.GetProblem(r.Context(), pr.Tenant, req.ProblemID)
		if err != nil {
			writeStoreError(w, r, "Problem", err)
			return
		}
		points := orDefault(req.Points, s.Tuning.FrontPoints)
		front := model.Front{
			ProblemID: stored.ID,
			Mode:      req.Mode,
			Status:    model.FrontPending,
			Total:     points,
		}
		created, err := s.Store.CreateFront(r.Context(), pr.Tenant, front)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Create front failed", err.Error(), r.URL.Path)
			return
		}
		go s.runSweep(pr.Tenant, stored, created, req)
		writeJSON(w, http.StatusAccepted, created)
	case http.MethodGet:
		pr := s.getPrincipal(r)
		items, next, err := s.Store.ListFronts(r.Context(), pr.Tenant, r.URL.Query().Get("cursor"), queryLimit(r))
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List fronts failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// FrontByIDHandler handles GET /v1/fronts/{id} plus the
// /events/stream (SSE) and /ws (WebSocket) sub-resources.
func (s *Server) FrontByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/fronts/")
	if rest == r.URL.Path || rest == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing id", r.URL.Path)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if len(parts) > 2 && parts[1] == "events" && parts[2] == "stream" {
		s.frontEventsSSE(w, r, id)
		return
	}
	if len(parts) > 1 && parts[1] == "ws" {
		s.FrontWSHandler(w, r, id)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	pr := s.getPrincipal(r)
	front, err := s.Store.GetFront(r.Context(), pr.Tenant, id)
	if err != nil {
		writeStoreError(w, r, "Front", err)
		return
	}
	writeJSON(w, http.StatusOK, front)
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler reports readiness by pinging the store.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ping(r.Context()); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Store unavailable", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeStoreError(w http.ResponseWriter, r *http.Request, what string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, what+" not found", err.Error(), r.URL.Path)
		return
	}
	writeProblem(w, http.StatusInternalServerError, what+" lookup failed", err.Error(), r.URL.Path)
}

func queryLimit(r *http.Request) int {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	return limit
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func toGeo(cs []model.Coord) []geo.Coord {
	out := make([]geo.Coord, len(cs))
	for i, c := range cs {
		out[i] = geo.Coord{Lat: c.Lat, Lon: c.Lon}
	}
	return out
}

func optProblem(m model.Problem) *opt.Problem {
	return &opt.Problem{
		NumAssets: m.NumAssets,
		NumBases:  m.NumBases,
		MaxTeams:  m.MaxTeams,
		Eta:       m.Eta,
		Dist:      m.Dist,
	}
}

// flattenAssignment converts the binary matrices into the per-asset and
// per-team index form the API serves. TeamBase rows are bases, so a
// team's base is found by scanning its column. Unused teams get base -1.
func flattenAssignment(sol *opt.Solution) *model.Assignment {
	if sol == nil {
		return nil
	}
	n := len(sol.AssetBase)
	numTeams := 0
	if len(sol.TeamBase) > 0 {
		numTeams = len(sol.TeamBase[0])
	}
	out := &model.Assignment{
		AssetBase: make([]int, n),
		AssetTeam: make([]int, n),
		TeamBase:  make([]int, numTeams),
	}
	for i := 0; i < n; i++ {
		out.AssetBase[i] = indexOfOne(sol.AssetBase[i])
		out.AssetTeam[i] = indexOfOne(sol.AssetTeam[i])
	}
	for k := 0; k < numTeams; k++ {
		out.TeamBase[k] = -1
		for j := range sol.TeamBase {
			if sol.TeamBase[j][k] == 1 {
				out.TeamBase[k] = j
				break
			}
		}
	}
	return out
}

func indexOfOne(row []int) int {
	for j, v := range row {
		if v == 1 {
			return j
		}
	}
	return -1
}

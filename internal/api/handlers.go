package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecolog/internal/buildinfo"
	"ecolog/internal/carbon"
	"ecolog/internal/metrics"
	"ecolog/internal/model"
	"ecolog/internal/moea"
	"ecolog/internal/planner"
	"ecolog/internal/tour"
)

// InfoHandler handles GET / with service and build information.
func (s *Server) InfoHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "ecolog",
		"build":   buildinfo.Info(),
		"wilayas": len(s.Geo.All()),
	})
}

func (s *Server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if len(s.Geo.All()) == 0 {
		writeProblem(w, http.StatusServiceUnavailable, "Not ready", "dataset not loaded", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// WilayasHandler handles GET /v1/wilayas with an optional ?zone= filter.
func (s *Server) WilayasHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	all := s.Geo.All()
	if zone := r.URL.Query().Get("zone"); zone != "" {
		filtered := all[:0:0]
		for _, wil := range all {
			if string(wil.Zone) == zone {
				filtered = append(filtered, wil)
			}
		}
		all = filtered
	}
	writeJSON(w, http.StatusOK, map[string]any{"wilayas": all, "count": len(all)})
}

// WilayaByNameHandler handles GET /v1/wilayas/{name}.
func (s *Server) WilayaByNameHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/v1/wilayas/")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	wil, ok := s.Geo.Lookup(name)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Unknown wilaya", name, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, wil)
}

// DistanceHandler handles GET /v1/distance?from=&to=.
func (s *Server) DistanceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid request", "from and to are required", r.URL.Path)
		return
	}
	road, err := s.Geo.Distance(from, to)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Unknown wilaya", err.Error(), r.URL.Path)
		return
	}
	resp := map[string]any{"from": from, "to": to, "roadKm": road, "railAvailable": false}
	if rail, ok := s.Geo.RailDistance(from, to); ok {
		resp["railKm"] = rail
		resp["railAvailable"] = true
	}
	writeJSON(w, http.StatusOK, resp)
}

// ModesHandler handles GET /v1/modes.
func (s *Server) ModesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	type modeInfo struct {
		Mode         carbon.Mode `json:"mode"`
		BaseFactor   float64     `json:"baseFactorKgPerTonneKm"`
		CapacityT    float64     `json:"typicalCapacityTonnes"`
		RequiresRail bool        `json:"requiresRail"`
	}
	out := make([]modeInfo, 0, len(carbon.AllModes()))
	for _, m := range carbon.AllModes() {
		out = append(out, modeInfo{
			Mode:         m,
			BaseFactor:   carbon.BaseFactor(m),
			CapacityT:    carbon.TypicalCapacity(m),
			RequiresRail: m.RequiresRail(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"modes": out})
}

// FootprintHandler handles POST /v1/footprint.
func (s *Server) FootprintHandler(w http.ResponseWriter, r *http.Request) {
	var req model.FootprintRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateFootprintRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error(), r.URL.Path)
		return
	}
	mode, err := carbon.ParseMode(req.Mode)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error(), r.URL.Path)
		return
	}
	cargo, err := carbon.ParseCargoType(req.CargoType)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error(), r.URL.Path)
		return
	}
	capacity := req.VehicleCapacity
	if capacity == 0 {
		capacity = carbon.TypicalCapacity(mode)
	}
	res, err := s.Carbon.Footprint(carbon.Context{
		Origin:          req.Origin,
		Destination:     req.Destination,
		Mode:            mode,
		CargoTonnes:     req.CargoTonnes,
		VehicleCapacity: capacity,
		CargoType:       cargo,
		ReturnTrip:      req.ReturnTrip,
	})
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Footprint failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CompareHandler handles POST /v1/footprint/compare.
func (s *Server) CompareHandler(w http.ResponseWriter, r *http.Request) {
	var req model.CompareRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Origin == "" || req.Destination == "" || req.CargoTonnes <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid request", "origin, destination and positive cargoTonnes are required", r.URL.Path)
		return
	}
	cargo, err := carbon.ParseCargoType(req.CargoType)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error(), r.URL.Path)
		return
	}
	cmp, err := s.Carbon.CompareModes(req.Origin, req.Destination, req.CargoTonnes, cargo)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Comparison failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// RouteFootprintHandler handles POST /v1/footprint/route.
func (s *Server) RouteFootprintHandler(w http.ResponseWriter, r *http.Request) {
	var req model.RouteFootprintRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CargoTonnes <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid request", "cargoTonnes must be > 0", r.URL.Path)
		return
	}
	mode, err := carbon.ParseMode(req.Mode)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error(), r.URL.Path)
		return
	}
	cargo, err := carbon.ParseCargoType(req.CargoType)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error(), r.URL.Path)
		return
	}
	res, err := s.Carbon.EvaluateRoute(req.Route, req.CargoTonnes, mode, cargo)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Route evaluation failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// OptimizeHandler handles POST /v1/optimize. Synchronous by default; with
// async set the run continues in the background and progress streams via
// /v1/runs/{id}/stream.
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	var req model.OptimizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateOptimizeRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid optimize request", err.Error(), r.URL.Path)
		return
	}
	if !s.allowRun() {
		writeProblem(w, http.StatusTooManyRequests, "Rate limited", "too many optimization runs", r.URL.Path)
		return
	}

	requests := make([]planner.Request, 0, len(req.Requests))
	for i, in := range req.Requests {
		for _, name := range []string{in.Origin, in.Destination} {
			if _, ok := s.Geo.Lookup(name); !ok {
				writeProblem(w, http.StatusBadRequest, "Unknown wilaya", name, r.URL.Path)
				return
			}
		}
		cargo, err := carbon.ParseCargoType(in.CargoType)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error(), r.URL.Path)
			return
		}
		priority := in.Priority
		if priority == 0 {
			priority = 1
		}
		id := in.ID
		if id == 0 {
			id = i
		}
		requests = append(requests, planner.Request{
			ID:          id,
			Origin:      in.Origin,
			Destination: in.Destination,
			CargoTonnes: in.CargoTonnes,
			CargoType:   cargo,
			Priority:    priority,
		})
	}
	for _, hub := range req.Hubs {
		if _, ok := s.Geo.Lookup(hub); !ok {
			writeProblem(w, http.StatusBadRequest, "Unknown wilaya", hub, r.URL.Path)
			return
		}
	}

	alpha := 0.5
	if req.Alpha != nil {
		alpha = *req.Alpha
	}
	runID := uuid.NewString()
	opts := planner.Options{
		PopulationSize: req.PopulationSize,
		Generations:    req.Generations,
		Alpha:          alpha,
		Seed:           req.Seed,
		OnGeneration:   s.generationPublisher(runID),
	}
	prob := planner.NewProblem(requests, req.Hubs, s.Geo, s.Carbon)
	s.Runs.Start(runID, len(requests))

	if req.Async {
		go s.executeRun(context.Background(), runID, prob, opts)
		writeJSON(w, http.StatusAccepted, map[string]string{"runId": runID, "status": RunRunning})
		return
	}

	run := s.executeRun(r.Context(), runID, prob, opts)
	if run.Status == RunFailed {
		writeProblem(w, http.StatusInternalServerError, "Optimization failed", run.Error, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) generationPublisher(runID string) func(moea.GenerationStats) {
	return func(st moea.GenerationStats) {
		s.Broker.Publish(runID, Event{Type: "run.generation", Data: map[string]any{
			"runId": runID,
			"gen":   st.Generation,
			"min":   st.Min,
			"avg":   st.Avg,
		}})
	}
}

func (s *Server) executeRun(ctx context.Context, runID string, prob *planner.Problem, opts planner.Options) Run {
	start := time.Now()
	res, err := planner.Optimize(ctx, prob, opts)
	metrics.OptimizationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.OptimizationRuns.WithLabelValues(RunFailed).Inc()
		s.Runs.Fail(runID, err.Error())
		s.Broker.Publish(runID, Event{Type: "run.failed", Data: map[string]any{"runId": runID, "error": err.Error()}})
	} else {
		metrics.OptimizationRuns.WithLabelValues(RunCompleted).Inc()
		s.Runs.Complete(runID, &res)
		s.Broker.Publish(runID, Event{Type: "run.completed", Data: map[string]any{
			"runId":     runID,
			"frontSize": len(res.ParetoFront),
		}})
	}
	run, _ := s.Runs.Get(runID)
	return run
}

// SampleHandler handles POST /v1/optimize/sample, returning synthetic
// delivery requests for demos.
func (s *Server) SampleHandler(w http.ResponseWriter, r *http.Request) {
	var req model.SampleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	count := req.Count
	if count <= 0 {
		count = 15
	}
	if count > maxRequests {
		writeProblem(w, http.StatusBadRequest, "Invalid request", "count too large", r.URL.Path)
		return
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	requests := planner.GenerateSampleRequests(s.Geo, count, seed)
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests, "seed": seed})
}

// RunsHandler handles GET /v1/runs.
func (s *Server) RunsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": s.Runs.List()})
}

// RunByIDHandler handles GET /v1/runs/{id} and /v1/runs/{id}/stream.
func (s *Server) RunByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if id, ok := strings.CutSuffix(rest, "/stream"); ok {
		s.runStreamHandler(w, r, id)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	run, ok := s.Runs.Get(rest)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Unknown run", rest, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// TourHandler handles POST /v1/tour. With a transport mode set the response
// also carries the emissions of the optimized ordering.
func (s *Server) TourHandler(w http.ResponseWriter, r *http.Request) {
	var req model.TourRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateTourRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid tour request", err.Error(), r.URL.Path)
		return
	}
	cfg := tour.Config{
		PopulationSize: req.PopulationSize,
		Generations:    req.Generations,
		MutationRate:   req.MutationRate,
		Seed:           req.Seed,
	}
	res, err := tour.Solve(r.Context(), req.Depot, req.Stops, req.ReturnToDepot, s.Geo.Distance, cfg)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Tour failed", err.Error(), r.URL.Path)
		return
	}
	metrics.TourImprovement.Observe(res.ImprovementPercent)

	resp := map[string]any{"tour": res}
	if req.Mode != "" {
		mode, err := carbon.ParseMode(req.Mode)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error(), r.URL.Path)
			return
		}
		cargo, err := carbon.ParseCargoType(req.CargoType)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error(), r.URL.Path)
			return
		}
		fp, err := s.Carbon.EvaluateRoute(res.Route, req.CargoTonnes, mode, cargo)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Footprint failed", err.Error(), r.URL.Path)
			return
		}
		resp["footprint"] = fp
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeBody enforces POST and decodes the JSON body, writing the problem
// response itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return false
	}
	return true
}

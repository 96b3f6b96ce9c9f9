// Package api serves the planner over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/catalog"
	"github.com/litescript/ls-skyplan/internal/export"
	"github.com/litescript/ls-skyplan/internal/feasibility"
	"github.com/litescript/ls-skyplan/internal/logging"
	"github.com/litescript/ls-skyplan/internal/planner"
	"github.com/litescript/ls-skyplan/internal/state"
)

// Options configures a Server. Zero values get defaults.
type Options struct {
	Catalog   *catalog.Catalog // Targets resolvable by ID; built-in catalog when nil
	Clock     astro.Clock
	Logger    *logging.Logger
	RateLimit float64 // requests per second per client; 0 disables
	Burst     int
	SlewSpeed float64 // degrees per second for optimize responses
}

// Server handles API requests against a session manager.
type Server struct {
	state     *state.Manager
	catalog   *catalog.Catalog
	clock     astro.Clock
	log       *logging.Logger
	metrics   *Metrics
	limiter   *ClientRateLimiter
	slewSpeed float64
	router    chi.Router
}

// New constructs the HTTP router wired to the session manager.
func New(st *state.Manager, opts Options) *Server {
	s := &Server{
		state:     st,
		catalog:   opts.Catalog,
		clock:     opts.Clock,
		log:       opts.Logger,
		metrics:   NewMetrics(),
		limiter:   NewClientRateLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		slewSpeed: opts.SlewSpeed,
	}
	if s.catalog == nil {
		s.catalog = catalog.Builtin()
	}
	if s.clock == nil {
		s.clock = astro.SystemClock{}
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	s.log = s.log.With("api")

	r := chi.NewRouter()
	r.Use(s.metrics.middleware)
	r.Use(s.rateLimit)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/visibility", s.handleVisibility)
		r.Get("/feasibility", s.handleFeasibility)
		r.Post("/rank", s.handleRank)
		r.Post("/plan", s.handlePlan)
		r.Post("/optimize", s.handleOptimize)
		r.Get("/fov", s.handleFOV)
		r.Get("/moon/phases", s.handleMoonPhases)
		r.Get("/tonight", s.handleTonight)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleSession)
			r.Put("/site", s.handleSetSite)
			r.Get("/targets", s.handleSessionTargets)
			r.Post("/targets", s.handleAddTarget)
			r.Delete("/targets", s.handleClearTargets)
			r.Delete("/targets/{id}", s.handleRemoveTarget)
			r.Get("/plan", s.handleSessionPlan)
			r.Post("/plan", s.handleReplan)
			r.Get("/events", s.handleEvents)
		})
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Metrics returns the server's metrics collector.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go s.pruneClients(ctx, 10*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) pruneClients(ctx context.Context, maxIdle time.Duration) {
	ticker := time.NewTicker(maxIdle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.Prune(maxIdle); n > 0 {
				s.log.Debug("pruned %d idle rate-limit clients", n)
			}
		}
	}
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		client := clientAddr(r)
		if !s.limiter.Allow(client) {
			s.metrics.throttledTotal.Inc()
			s.log.Debug("throttled %s %s from %s", r.Method, r.URL.Path, client)
			w.Header().Set("Retry-After", "1")
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type visibilityResponse struct {
	Target     catalog.Target         `json:"target"`
	Site       astro.Observer         `json:"site"`
	Date       time.Time              `json:"date"`
	MinAlt     float64                `json:"min_alt"`
	Visibility astro.TargetVisibility `json:"visibility"`
	Twilight   astro.TwilightTimes    `json:"twilight"`
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	pq, err := s.parsePointQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	tw := astro.Twilight(pq.site, pq.at)
	writeJSON(w, http.StatusOK, visibilityResponse{
		Target:     pq.target,
		Site:       pq.site,
		Date:       pq.at,
		MinAlt:     pq.minAlt,
		Visibility: astro.VisibilityWithTwilight(pq.target.RA, pq.target.Dec, pq.site, pq.minAlt, pq.at, tw),
		Twilight:   tw,
	})
}

type feasibilityResponse struct {
	Target      catalog.Target `json:"target"`
	Site        astro.Observer `json:"site"`
	Date        time.Time      `json:"date"`
	MinScore    int            `json:"min_score"`
	ShouldImage bool           `json:"should_image"`
	feasibility.ImagingFeasibility
}

func (s *Server) handleFeasibility(w http.ResponseWriter, r *http.Request) {
	pq, err := s.parsePointQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	minScore := feasibility.DefaultMinScore
	if v := r.URL.Query().Get("minScore"); v != "" {
		if minScore, err = strconv.Atoi(v); err != nil || minScore < 0 || minScore > 100 {
			writeError(w, badRequest("minScore must be an integer in [0, 100]"))
			return
		}
	}

	s.metrics.RecordScored(1)
	f, ok := feasibility.ShouldImageAt(pq.target.RA, pq.target.Dec, pq.site, pq.minAlt, minScore, pq.at)
	writeJSON(w, http.StatusOK, feasibilityResponse{
		Target:             pq.target,
		Site:               pq.site,
		Date:               pq.at,
		MinScore:           minScore,
		ShouldImage:        ok,
		ImagingFeasibility: f,
	})
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[batchRequest](w, r)
	if !ok {
		return
	}
	targets, site, _, at, err := s.parseBatch(req)
	if err != nil {
		writeError(w, err)
		return
	}

	ranked, err := feasibility.RankTargetsParallel(r.Context(), targets, site, at, 0)
	if err != nil {
		s.log.Warn("rank aborted: %v", err)
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.metrics.RecordScored(len(targets))
	writeJSON(w, http.StatusOK, ranked)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[batchRequest](w, r)
	if !ok {
		return
	}
	targets, site, minAlt, at, err := s.parseBatch(req)
	if err != nil {
		writeError(w, err)
		return
	}

	rec := state.NewPlanRecord(targets, site, minAlt, at, s.clock.Now())
	s.metrics.RecordPlan(len(targets))
	s.log.Debug("plan %s: %d targets in %v", rec.ID, len(targets), rec.Duration)
	writeJSON(w, http.StatusOK, export.ExportPlan(rec))
}

type optimizeResponse struct {
	Order       []catalog.Target `json:"order"`
	Legs        []planner.Leg    `json:"legs"`
	SlewSeconds float64          `json:"slew_seconds"`
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[batchRequest](w, r)
	if !ok {
		return
	}
	targets, err := resolveAll(req.Targets, s.catalog)
	if err != nil {
		writeError(w, err)
		return
	}

	speed := req.SlewSpeed
	if speed <= 0 {
		speed = s.slewSpeed
	}
	ordered := planner.OptimizeTargetOrder(targets, req.Start)
	legs := planner.SlewLegs(ordered)
	if legs == nil {
		legs = []planner.Leg{}
	}
	writeJSON(w, http.StatusOK, optimizeResponse{
		Order:       ordered,
		Legs:        legs,
		SlewSeconds: planner.EstimateSlewTime(ordered, speed),
	})
}

type fovResponse struct {
	Optics feasibility.Optics          `json:"optics"`
	FOV    feasibility.FieldOfView     `json:"fov"`
	Mosaic *feasibility.MosaicCoverage `json:"mosaic,omitempty"`
}

func (s *Server) handleFOV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	o, err := parseOptics(q)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := fovResponse{Optics: o, FOV: feasibility.CalculateFOV(o)}

	if q.Has("rows") || q.Has("cols") {
		rows, err := parseGrid(q, "rows", 1)
		if err != nil {
			writeError(w, err)
			return
		}
		cols, err := parseGrid(q, "cols", 1)
		if err != nil {
			writeError(w, err)
			return
		}
		overlap := feasibility.DefaultMosaicOverlap
		if v := q.Get("overlap"); v != "" {
			if overlap, err = strconv.ParseFloat(v, 64); err != nil {
				writeError(w, badRequest("overlap: %v", err))
				return
			}
		}
		m, err := feasibility.CalculateMosaic(o, rows, cols, overlap)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Mosaic = &m
	}
	writeJSON(w, http.StatusOK, resp)
}

type moonPhasesResponse struct {
	Year   int                `json:"year"`
	Month  time.Month         `json:"month"`
	Phases []astro.PhaseEvent `json:"phases"`
}

func (s *Server) handleMoonPhases(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseMonth(r.URL.Query().Get("month"), s.clock.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moonPhasesResponse{
		Year:   year,
		Month:  month,
		Phases: astro.MoonPhasesForMonth(year, month),
	})
}

// handleTonight summarises the night for the session's targets.
func (s *Server) handleTonight(w http.ResponseWriter, r *http.Request) {
	site, minAlt, at, err := s.parseSkyQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	targets := s.state.Targets()
	s.metrics.RecordScored(len(targets))
	writeJSON(w, http.StatusOK, planner.TonightHighlights(targets, site, minAlt, at))
}

type sessionResponse struct {
	Site        astro.Observer   `json:"site"`
	MinAltitude float64          `json:"min_altitude"`
	Targets     []catalog.Target `json:"targets"`
	PlanID      string           `json:"plan_id,omitempty"`
	Events      []state.Event    `json:"events"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	snap := s.state.Snapshot()
	resp := sessionResponse{
		Site:        snap.Site,
		MinAltitude: snap.MinAltitude,
		Targets:     snap.Targets,
		Events:      snap.Events,
	}
	if resp.Events == nil {
		resp.Events = []state.Event{}
	}
	if snap.Plan != nil {
		resp.PlanID = snap.Plan.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetSite(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[siteParam](w, r)
	if !ok {
		return
	}
	if err := s.state.SetSite(req.observer()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state.Site())
}

func (s *Server) handleSessionTargets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Targets())
}

func (s *Server) handleAddTarget(w http.ResponseWriter, r *http.Request) {
	ref, ok := decodeBody[targetRef](w, r)
	if !ok {
		return
	}
	tg, err := ref.resolve(s.catalog)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.state.AddTarget(tg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tg)
}

func (s *Server) handleRemoveTarget(w http.ResponseWriter, r *http.Request) {
	if err := s.state.RemoveTarget(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, catalog.ErrUnknownTarget) {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearTargets(w http.ResponseWriter, r *http.Request) {
	s.state.ClearTargets()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionPlan(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.state.Plan()
	if !ok {
		writeJSONError(w, http.StatusNotFound, "no plan computed yet")
		return
	}
	writeJSON(w, http.StatusOK, export.ExportPlan(rec))
}

type replanRequest struct {
	Date string `json:"date"`
}

func (s *Server) handleReplan(w http.ResponseWriter, r *http.Request) {
	var req replanRequest
	if r.ContentLength != 0 {
		var ok bool
		if req, ok = decodeBody[replanRequest](w, r); !ok {
			return
		}
	}
	var at time.Time
	if req.Date != "" {
		var err error
		if at, err = s.parseDate(req.Date); err != nil {
			writeError(w, err)
			return
		}
	}

	rec := s.state.Replan(at)
	s.metrics.RecordPlan(len(rec.Plan.Targets))
	s.log.Info("session plan %s: %d targets, %.1fh", rec.ID, len(rec.Plan.Targets), rec.Plan.TotalImagingTime)
	writeJSON(w, http.StatusOK, export.ExportPlan(rec))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	n := 20
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeJSONError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}
	events := s.state.RecentEvents(n)
	if events == nil {
		events = []state.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return v, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes: duplicates conflict,
// everything else is a validation failure.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusBadRequest
	if errors.Is(err, catalog.ErrDuplicateTarget) {
		code = http.StatusConflict
	}
	writeJSONError(w, code, err.Error())
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// Command ls-skyplan plans astrophotography sessions: target visibility,
// imaging feasibility scores and multi-target night schedules.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-skyplan/internal/api"
	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/catalog"
	"github.com/litescript/ls-skyplan/internal/config"
	"github.com/litescript/ls-skyplan/internal/export"
	"github.com/litescript/ls-skyplan/internal/feasibility"
	"github.com/litescript/ls-skyplan/internal/logging"
	"github.com/litescript/ls-skyplan/internal/planner"
	"github.com/litescript/ls-skyplan/internal/state"
	"github.com/litescript/ls-skyplan/internal/ui"
)

// CLI flags for headless mode
var (
	visibilityID string
	rankMode     bool
	planMode     bool
	optimizeMode bool
	jsonPath     string
	serveAddr    string
	fovMode      bool
	mosaicGrid   string
	overlapPct   float64
	tonightMode  bool
	moonMonth    string
)

var (
	errNoTargets = errors.New("no targets: pass IDs as arguments or a -targets file")
	errNoCamera  = errors.New("no camera configured: set [camera] in the config file or SKYPLAN_CAMERA_* variables")
)

func main() {
	configPath := flag.String("config", "", "Config file (TOML or YAML)")
	lat := flag.Float64("lat", 0, "Observer latitude in degrees, north positive")
	lon := flag.Float64("lon", 0, "Observer longitude in degrees, east positive")
	dateStr := flag.String("date", "", "Night to plan: RFC 3339 instant or YYYY-MM-DD (default now)")
	minAlt := flag.Float64("min-alt", astro.DefaultMinAltitude, "Minimum imaging altitude in degrees")
	targetsPath := flag.String("targets", "", "TOML target list merged into the built-in catalog")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&visibilityID, "visibility", "", "Print visibility and feasibility for one target ID")
	flag.BoolVar(&rankMode, "rank", false, "Rank targets by feasibility score")
	flag.BoolVar(&planMode, "plan", false, "Print the session plan")
	flag.BoolVar(&optimizeMode, "optimize", false, "Print a slew-minimizing observing order")
	flag.StringVar(&jsonPath, "json", "", "Export the plan as JSON to file (use - for stdout)")
	flag.StringVar(&serveAddr, "serve", "", "Serve the HTTP API on addr (e.g. :8080)")
	flag.BoolVar(&fovMode, "fov", false, "Print the configured camera's field of view")
	flag.StringVar(&mosaicGrid, "mosaic", "", "Add mosaic coverage for a RxC panel grid to -fov (e.g. 2x3)")
	flag.Float64Var(&overlapPct, "overlap", feasibility.DefaultMosaicOverlap, "Mosaic panel overlap in percent")
	flag.BoolVar(&tonightMode, "tonight", false, "Print tonight's highlights")
	flag.StringVar(&moonMonth, "moon", "", "Print the principal moon phases of a month (YYYY-MM)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [target IDs...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}

	// Explicit flags override the config file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			cfg.Site.Lat, cfg.Site.Name = *lat, ""
		case "lon":
			cfg.Site.Lon, cfg.Site.Name = *lon, ""
		case "min-alt":
			cfg.MinAltitude = *minAlt
		case "targets":
			cfg.Catalog = *targetsPath
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fatal(err)
	}
	logger := logging.New(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	obs := cfg.Site.Observer()
	at, err := parseDate(*dateStr, obs, time.Now())
	if err != nil {
		fatal(err)
	}

	cat, fileTargets, err := loadCatalog(cfg.Catalog, logger)
	if err != nil {
		fatal(err)
	}
	targets, err := resolveTargets(cat, flag.Args(), fileTargets)
	if err != nil && !errors.Is(err, errNoTargets) {
		fatal(err)
	}

	stateMgr := state.NewManager(state.Config{
		Site:            obs,
		MinAltitude:     cfg.MinAltitude,
		MaxHistoryLen:   cfg.Session.MaxHistory,
		MaxEvents:       cfg.Session.MaxEvents,
		RefreshInterval: cfg.Session.RefreshInterval,
		Clock:           astro.SystemClock{},
	})
	for _, tg := range targets {
		if err := stateMgr.AddTarget(tg); err != nil {
			logger.Warn("skipping %s: %v", tg.ID, err)
		}
	}

	if serveAddr != "" {
		srv := api.New(stateMgr, api.Options{
			Catalog:   cat,
			Logger:    logger,
			RateLimit: cfg.Server.RateLimit,
			Burst:     cfg.Server.Burst,
			SlewSpeed: cfg.Mount.SlewSpeed,
		})
		if err := srv.Run(ctx, serveAddr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout); err != nil {
			fatal(err)
		}
		return
	}

	headless := visibilityID != "" || rankMode || planMode || optimizeMode || jsonPath != "" ||
		fovMode || mosaicGrid != "" || tonightMode || moonMonth != ""
	if !headless && term.IsTerminal(int(os.Stdout.Fd())) {
		runTUI(stateMgr, logger)
		return
	}
	if !headless {
		planMode = true
	}

	h := headlessRun{
		out:      os.Stdout,
		cfg:      cfg,
		obs:      obs,
		at:       at,
		cat:      cat,
		targets:  targets,
		state:    stateMgr,
		log:      logger,

		visibilityID: visibilityID,
		rank:         rankMode,
		plan:         planMode,
		optimize:     optimizeMode,
		jsonPath:     jsonPath,
		fov:          fovMode || mosaicGrid != "",
		mosaic:       mosaicGrid,
		overlap:      overlapPct,
		tonight:      tonightMode,
		moonMonth:    moonMonth,
	}
	if err := h.run(ctx); err != nil {
		fatal(err)
	}
}

func runTUI(stateMgr *state.Manager, logger *logging.Logger) {
	// Log lines would tear the alt screen.
	logger.SetOutput(io.Discard)

	p := tea.NewProgram(ui.New(stateMgr, nil), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// headlessRun prints the requested reports in a fixed order.
type headlessRun struct {
	out      io.Writer
	cfg      config.Config
	obs      astro.Observer
	at       time.Time
	cat      *catalog.Catalog
	targets  []catalog.Target
	state    *state.Manager
	log      *logging.Logger

	visibilityID string
	rank         bool
	plan         bool
	optimize     bool
	jsonPath     string
	fov          bool
	mosaic       string
	overlap      float64
	tonight      bool
	moonMonth    string
}

func (h headlessRun) run(ctx context.Context) error {
	if h.visibilityID != "" {
		tg, err := h.cat.Get(h.visibilityID)
		if err != nil {
			return err
		}
		f := feasibility.Calculate(tg.RA, tg.Dec, h.obs, h.cfg.MinAltitude, h.at)
		export.WriteVisibilityReport(h.out, tg, f)
		fmt.Fprintln(h.out)
	}

	if h.fov {
		if err := h.writeFOV(); err != nil {
			return err
		}
		fmt.Fprintln(h.out)
	}

	if h.moonMonth != "" {
		m, err := time.Parse("2006-01", h.moonMonth)
		if err != nil {
			return fmt.Errorf("moon month %q: want YYYY-MM", h.moonMonth)
		}
		export.WriteMoonPhases(h.out, m.Year(), m.Month(), astro.MoonPhasesForMonth(m.Year(), m.Month()))
		fmt.Fprintln(h.out)
	}

	if h.tonight {
		export.WriteHighlights(h.out, planner.TonightHighlights(h.targets, h.obs, h.cfg.MinAltitude, h.at), h.at)
		fmt.Fprintln(h.out)
	}

	needTargets := h.rank || h.plan || h.optimize || h.jsonPath != ""
	if needTargets && len(h.targets) == 0 {
		return errNoTargets
	}

	if h.rank {
		ranked, err := feasibility.RankTargetsParallel(ctx, h.targets, h.obs, h.at, runtime.NumCPU())
		if err != nil {
			return fmt.Errorf("rank targets: %w", err)
		}
		export.WriteRankTable(h.out, ranked, h.at)
		fmt.Fprintln(h.out)
	}

	var rec state.PlanRecord
	if h.plan || h.jsonPath != "" {
		start := time.Now()
		rec = h.state.Replan(h.at)
		h.log.Debug("planned %d targets in %v", len(rec.Plan.Targets), time.Since(start))
	}

	if h.plan {
		export.WriteSummaryTable(h.out, rec)
		fmt.Fprintln(h.out)
	}

	if h.optimize {
		ordered := planner.OptimizeTargetOrder(h.targets, nil)
		export.WriteSlewOrder(h.out, ordered, h.cfg.Mount.SlewSpeed)
		if settle := h.cfg.Mount.SettleTime; settle > 0 && settle != planner.DefaultSettleTime {
			secs := planner.EstimateSlewTimeWithSettle(ordered, h.cfg.Mount.SlewSpeed, settle)
			fmt.Fprintf(h.out, "With %s settle per slew: %s\n", settle,
				time.Duration(secs*float64(time.Second)).Round(time.Second))
		}
		fmt.Fprintln(h.out)
	}

	if h.jsonPath != "" {
		if err := writePlanJSON(h.jsonPath, h.out, rec); err != nil {
			return err
		}
	}
	return nil
}

func (h headlessRun) writeFOV() error {
	if !h.cfg.Camera.Configured() {
		return errNoCamera
	}
	o := h.cfg.Camera.Optics()
	if err := o.Validate(); err != nil {
		return err
	}

	var mosaic *feasibility.MosaicCoverage
	if h.mosaic != "" {
		rows, cols, err := feasibility.ParseMosaicGrid(h.mosaic)
		if err != nil {
			return err
		}
		m, err := feasibility.CalculateMosaic(o, rows, cols, h.overlap)
		if err != nil {
			return err
		}
		mosaic = &m
	}
	export.WriteFOV(h.out, o, feasibility.CalculateFOV(o), mosaic)
	return nil
}

func writePlanJSON(path string, stdout io.Writer, rec state.PlanRecord) error {
	exp := export.ExportPlan(rec)
	if path == "-" {
		if err := exp.WriteJSON(stdout); err != nil {
			return fmt.Errorf("write JSON to stdout: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plan file: %w", err)
	}
	defer f.Close()
	if err := exp.WriteJSON(f); err != nil {
		return fmt.Errorf("write JSON to file: %w", err)
	}
	return nil
}

// loadCatalog returns the built-in catalog merged with the optional file,
// plus the file's own targets in file order.
func loadCatalog(path string, logger *logging.Logger) (*catalog.Catalog, []catalog.Target, error) {
	cat := catalog.Builtin()
	if path == "" {
		return cat, nil, nil
	}

	res, err := catalog.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	for _, msg := range res.Errors {
		logger.Warn("catalog %s: %s", path, msg)
	}
	added := cat.Merge(res.Catalog)
	logger.Info("loaded %d targets from %s (%d skipped, %d new)", res.Imported, path, res.Skipped, added)

	// The session uses the file's entries even where a built-in shares the ID.
	return cat, res.Catalog.All(), nil
}

// resolveTargets picks the session targets: IDs given on the command line,
// otherwise every target from the catalog file.
func resolveTargets(cat *catalog.Catalog, ids []string, fileTargets []catalog.Target) ([]catalog.Target, error) {
	if len(ids) > 0 {
		return cat.Lookup(ids...)
	}
	if len(fileTargets) > 0 {
		return fileTargets, nil
	}
	return nil, errNoTargets
}

// parseDate accepts an RFC 3339 instant or a calendar date. A bare date
// means the evening of that day at the observer's longitude.
func parseDate(s string, obs astro.Observer, now time.Time) (time.Time, error) {
	if s == "" {
		return now.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	offset := time.Duration(obs.LonDeg / 15 * float64(time.Hour))
	return d.Add(18*time.Hour - offset), nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/catalog"
	"github.com/litescript/ls-skyplan/internal/feasibility"
)

// errBadRequest marks request validation failures.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// coord holds a coordinate given either as a JSON number or a string
// (decimal or sexagesimal).
type coord string

func (c *coord) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = coord(s)
		return nil
	}
	var f json.Number
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("coordinate must be a number or string: %w", err)
	}
	*c = coord(f.String())
	return nil
}

// targetRef names a catalog target by ID or gives explicit coordinates.
// In JSON it is either "M31" or {"id": "X", "ra": 10.5, "dec": "+41 16 09"}.
type targetRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	RA   coord  `json:"ra,omitempty"`
	Dec  coord  `json:"dec,omitempty"`
}

func (t *targetRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.ID)
	}
	type plain targetRef
	return json.Unmarshal(data, (*plain)(t))
}

// resolve looks the reference up in cat unless it carries coordinates.
func (t targetRef) resolve(cat *catalog.Catalog) (catalog.Target, error) {
	if t.RA == "" && t.Dec == "" {
		tg, err := cat.Get(t.ID)
		if err != nil {
			return catalog.Target{}, err
		}
		return tg, nil
	}

	ra, err := astro.ParseRA(string(t.RA))
	if err != nil {
		return catalog.Target{}, err
	}
	dec, err := astro.ParseDec(string(t.Dec))
	if err != nil {
		return catalog.Target{}, err
	}
	tg := catalog.Target{ID: t.ID, Name: t.Name, RA: ra, Dec: dec}
	if err := tg.Validate(); err != nil {
		return catalog.Target{}, err
	}
	return tg, nil
}

func resolveAll(refs []targetRef, cat *catalog.Catalog) ([]catalog.Target, error) {
	out := make([]catalog.Target, 0, len(refs))
	for _, ref := range refs {
		tg, err := ref.resolve(cat)
		if err != nil {
			return nil, err
		}
		out = append(out, tg)
	}
	return out, nil
}

type siteParam struct {
	Name string  `json:"name,omitempty"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

func (s siteParam) observer() astro.Observer {
	return astro.Observer{LatDeg: s.Lat, LonDeg: s.Lon, Name: s.Name}
}

// batchRequest is the body of the rank, plan and optimize endpoints.
type batchRequest struct {
	Site      *siteParam        `json:"site,omitempty"`
	Date      string            `json:"date,omitempty"`
	MinAlt    *float64          `json:"min_alt,omitempty"`
	Targets   []targetRef       `json:"targets"`
	Start     *catalog.Position `json:"start,omitempty"`
	SlewSpeed float64           `json:"slew_speed,omitempty"`
}

// pointQuery is the parsed query string of the single-target endpoints.
type pointQuery struct {
	target catalog.Target
	site   astro.Observer
	minAlt float64
	at     time.Time
}

// parsePointQuery reads id or ra/dec, plus optional lat/lon, minAlt and date.
// Missing site and altitude fall back to the session's.
func (s *Server) parsePointQuery(r *http.Request) (pointQuery, error) {
	q := r.URL.Query()
	var pq pointQuery

	ref := targetRef{ID: q.Get("id"), RA: coord(q.Get("ra")), Dec: coord(q.Get("dec"))}
	if ref.ID == "" && (ref.RA == "" || ref.Dec == "") {
		return pq, badRequest("need id or both ra and dec")
	}
	if ref.ID == "" {
		ref.ID = "custom"
	}
	tg, err := ref.resolve(s.catalog)
	if err != nil {
		return pq, err
	}
	pq.target = tg

	if pq.site, pq.minAlt, pq.at, err = s.parseSkyQuery(q); err != nil {
		return pq, err
	}
	return pq, nil
}

// parseSkyQuery reads the optional lat/lon, minAlt and date parameters,
// falling back to the session's site and altitude.
func (s *Server) parseSkyQuery(q url.Values) (astro.Observer, float64, time.Time, error) {
	site := s.state.Site()
	if q.Has("lat") || q.Has("lon") {
		lat, err := strconv.ParseFloat(q.Get("lat"), 64)
		if err != nil {
			return site, 0, time.Time{}, badRequest("lat: %v", err)
		}
		lon, err := strconv.ParseFloat(q.Get("lon"), 64)
		if err != nil {
			return site, 0, time.Time{}, badRequest("lon: %v", err)
		}
		site = astro.Observer{LatDeg: lat, LonDeg: lon}
	}
	if err := site.Validate(); err != nil {
		return site, 0, time.Time{}, err
	}

	minAlt := s.state.MinAltitude()
	if v := q.Get("minAlt"); v != "" {
		var err error
		if minAlt, err = parseMinAlt(v); err != nil {
			return site, 0, time.Time{}, err
		}
	}

	at, err := s.parseDate(q.Get("date"))
	if err != nil {
		return site, 0, time.Time{}, err
	}
	return site, minAlt, at, nil
}

// parseBatch validates a batch body, filling defaults from the session.
func (s *Server) parseBatch(req batchRequest) ([]catalog.Target, astro.Observer, float64, time.Time, error) {
	site := s.state.Site()
	if req.Site != nil {
		site = req.Site.observer()
	}
	if err := site.Validate(); err != nil {
		return nil, site, 0, time.Time{}, err
	}

	minAlt := s.state.MinAltitude()
	if req.MinAlt != nil {
		if *req.MinAlt < -90 || *req.MinAlt >= 90 {
			return nil, site, 0, time.Time{}, badRequest("min_alt %v out of range", *req.MinAlt)
		}
		minAlt = *req.MinAlt
	}

	at, err := s.parseDate(req.Date)
	if err != nil {
		return nil, site, 0, time.Time{}, err
	}

	targets, err := resolveAll(req.Targets, s.catalog)
	if err != nil {
		return nil, site, 0, time.Time{}, err
	}
	return targets, site, minAlt, at, nil
}

func (s *Server) parseDate(v string) (time.Time, error) {
	if v == "" {
		return s.clock.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, badRequest("date must be RFC 3339: %v", err)
	}
	return t, nil
}

func parseMinAlt(v string) (float64, error) {
	alt, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, badRequest("minAlt: %v", err)
	}
	if alt < -90 || alt >= 90 {
		return 0, badRequest("minAlt %v out of range", alt)
	}
	return alt, nil
}

// parseOptics reads the camera and telescope parameters of the fov endpoint.
func parseOptics(q url.Values) (feasibility.Optics, error) {
	var o feasibility.Optics
	fields := []struct {
		name     string
		dst      *float64
		optional bool
	}{
		{"sensorWidth", &o.SensorWidth, false},
		{"sensorHeight", &o.SensorHeight, false},
		{"focalLength", &o.FocalLength, false},
		{"pixelSize", &o.PixelSize, false},
		{"aperture", &o.Aperture, true},
	}
	for _, f := range fields {
		v := q.Get(f.name)
		if v == "" {
			if f.optional {
				continue
			}
			return o, badRequest("%s is required", f.name)
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return o, badRequest("%s: %v", f.name, err)
		}
		*f.dst = x
	}
	return o, o.Validate()
}

// parseGrid reads a positive integer parameter, returning def when absent.
func parseGrid(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, badRequest("%s must be a positive integer", name)
	}
	return n, nil
}

// parseMonth reads a YYYY-MM month, defaulting to the month of now.
func parseMonth(v string, now time.Time) (int, time.Month, error) {
	if v == "" {
		now = now.UTC()
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return 0, 0, badRequest("month must be YYYY-MM: %v", err)
	}
	return t.Year(), t.Month(), nil
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/feasibility"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig invalid: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := DefaultConfig()
	if cfg.Site != want.Site || cfg.MinAltitude != want.MinAltitude {
		t.Errorf("site/min alt = %+v/%v, want %+v/%v", cfg.Site, cfg.MinAltitude, want.Site, want.MinAltitude)
	}
	if cfg.Server.ReadTimeout != 10*time.Second || cfg.Session.RefreshInterval != time.Minute {
		t.Errorf("durations = %v/%v", cfg.Server.ReadTimeout, cfg.Session.RefreshInterval)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "skyplan.toml", `
min_altitude = 25.0
catalog = "targets.toml"

[site]
name = "Madrid"
lat = 40.4314
lon = -4.2481

[server]
addr = ":9090"
burst = 3

[mount]
settle_time = "20s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Name != "Madrid" || cfg.Site.Lat != 40.4314 || cfg.Site.Lon != -4.2481 {
		t.Errorf("Site = %+v", cfg.Site)
	}
	if cfg.MinAltitude != 25 || cfg.Catalog != "targets.toml" {
		t.Errorf("MinAltitude/Catalog = %v/%q", cfg.MinAltitude, cfg.Catalog)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.Burst != 3 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	// Unset keys keep their defaults
	if cfg.Server.RateLimit != DefaultConfig().Server.RateLimit {
		t.Errorf("RateLimit = %v, want default", cfg.Server.RateLimit)
	}
	if cfg.Mount.SettleTime != 20*time.Second {
		t.Errorf("SettleTime = %v, want 20s", cfg.Mount.SettleTime)
	}

	obs := cfg.Site.Observer()
	if obs != (astro.Observer{LatDeg: 40.4314, LonDeg: -4.2481, Name: "Madrid"}) {
		t.Errorf("Observer = %+v", obs)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SKYPLAN_SITE_LAT", "-33.9")
	t.Setenv("SKYPLAN_SITE_LON", "18.4")
	t.Setenv("SKYPLAN_LOG_LEVEL", "debug")
	t.Setenv("SKYPLAN_SESSION_REFRESH_INTERVAL", "5m")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Lat != -33.9 || cfg.Site.Lon != 18.4 {
		t.Errorf("Site = %+v", cfg.Site)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Session.RefreshInterval != 5*time.Minute {
		t.Errorf("RefreshInterval = %v, want 5m", cfg.Session.RefreshInterval)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "skyplan.yaml", "site:\n  lat: 10\n  lon: 20\n")
	t.Setenv("SKYPLAN_SITE_LAT", "30")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Lat != 30 || cfg.Site.Lon != 20 {
		t.Errorf("Site = %+v, want lat 30 from env and lon 20 from file", cfg.Site)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"latitude", "[site]\nlat = 95.0\n"},
		{"longitude", "[site]\nlon = -200.0\n"},
		{"min altitude", "min_altitude = 90.0\n"},
		{"burst", "[server]\nburst = -1\n"},
		{"slew speed", "[mount]\nslew_speed = -2.0\n"},
		{"camera without sensor", "[camera]\nfocal_length = 400.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.toml", tt.body))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoad_Camera(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Camera.Configured() {
		t.Errorf("default camera = %+v, want unconfigured", cfg.Camera)
	}

	path := writeFile(t, "skyplan.toml", `
[camera]
sensor_width = 23.5
sensor_height = 15.6
focal_length = 480.0
pixel_size = 3.76
`)
	t.Setenv("SKYPLAN_CAMERA_APERTURE", "80")

	if cfg, err = Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := feasibility.Optics{SensorWidth: 23.5, SensorHeight: 15.6, FocalLength: 480, PixelSize: 3.76, Aperture: 80}
	if !cfg.Camera.Configured() || cfg.Camera.Optics() != want {
		t.Errorf("Optics = %+v, want %+v", cfg.Camera.Optics(), want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestValidate_WrapsObserverError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Site.Lat = -91
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, astro.ErrInvalidLatitude) {
		t.Errorf("err = %v, want ErrInvalidConfig wrapping ErrInvalidLatitude", err)
	}
}

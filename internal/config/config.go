// Package config loads application settings from an optional file and
// SKYPLAN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/litescript/ls-skyplan/internal/astro"
	"github.com/litescript/ls-skyplan/internal/feasibility"
)

// EnvPrefix is prepended to environment variable names, e.g. SKYPLAN_SITE_LAT.
const EnvPrefix = "SKYPLAN"

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid config")

// Site is the observing location.
type Site struct {
	Name string  `mapstructure:"name"`
	Lat  float64 `mapstructure:"lat"`
	Lon  float64 `mapstructure:"lon"`
}

// Observer converts the site to an astro.Observer.
func (s Site) Observer() astro.Observer {
	return astro.Observer{LatDeg: s.Lat, LonDeg: s.Lon, Name: s.Name}
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `mapstructure:"addr"`
	RateLimit    float64       `mapstructure:"rate_limit"` // requests per second per client
	Burst        int           `mapstructure:"burst"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Session configures the session manager.
type Session struct {
	MaxEvents       int           `mapstructure:"max_events"`
	MaxHistory      int           `mapstructure:"max_history"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// Mount describes slew performance.
type Mount struct {
	SlewSpeed  float64       `mapstructure:"slew_speed"` // degrees per second
	SettleTime time.Duration `mapstructure:"settle_time"`
}

// Camera is the imaging train used for field-of-view reports. A zero focal
// length leaves it unconfigured.
type Camera struct {
	SensorWidth  float64 `mapstructure:"sensor_width"`  // mm
	SensorHeight float64 `mapstructure:"sensor_height"` // mm
	FocalLength  float64 `mapstructure:"focal_length"`  // mm
	PixelSize    float64 `mapstructure:"pixel_size"`    // µm
	Aperture     float64 `mapstructure:"aperture"`      // mm
}

// Configured reports whether a camera was set.
func (c Camera) Configured() bool { return c.FocalLength != 0 }

// Optics converts the camera to feasibility.Optics.
func (c Camera) Optics() feasibility.Optics {
	return feasibility.Optics{
		SensorWidth:  c.SensorWidth,
		SensorHeight: c.SensorHeight,
		FocalLength:  c.FocalLength,
		PixelSize:    c.PixelSize,
		Aperture:     c.Aperture,
	}
}

// Config holds all application settings.
type Config struct {
	Site        Site    `mapstructure:"site"`
	MinAltitude float64 `mapstructure:"min_altitude"`
	Catalog     string  `mapstructure:"catalog"` // Optional TOML target file merged into the built-in catalog
	LogLevel    string  `mapstructure:"log_level"`
	Server      Server  `mapstructure:"server"`
	Session     Session `mapstructure:"session"`
	Mount       Mount   `mapstructure:"mount"`
	Camera      Camera  `mapstructure:"camera"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Site:        Site{Name: "Greenwich", Lat: 51.4769, Lon: -0.0005},
		MinAltitude: astro.DefaultMinAltitude,
		LogLevel:    "info",
		Server: Server{
			Addr:         "127.0.0.1:8080",
			RateLimit:    5,
			Burst:        10,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Session: Session{
			MaxEvents:       50,
			MaxHistory:      30,
			RefreshInterval: time.Minute,
		},
		Mount: Mount{
			SlewSpeed:  5,
			SettleTime: 10 * time.Second,
		},
	}
}

// Load reads configuration from path (skipped when empty) and the
// environment, on top of DefaultConfig.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Every key needs a default for AutomaticEnv to reach it through Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("site.name", d.Site.Name)
	v.SetDefault("site.lat", d.Site.Lat)
	v.SetDefault("site.lon", d.Site.Lon)
	v.SetDefault("min_altitude", d.MinAltitude)
	v.SetDefault("catalog", d.Catalog)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.burst", d.Server.Burst)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("session.max_events", d.Session.MaxEvents)
	v.SetDefault("session.max_history", d.Session.MaxHistory)
	v.SetDefault("session.refresh_interval", d.Session.RefreshInterval)
	v.SetDefault("mount.slew_speed", d.Mount.SlewSpeed)
	v.SetDefault("mount.settle_time", d.Mount.SettleTime)
	v.SetDefault("camera.sensor_width", d.Camera.SensorWidth)
	v.SetDefault("camera.sensor_height", d.Camera.SensorHeight)
	v.SetDefault("camera.focal_length", d.Camera.FocalLength)
	v.SetDefault("camera.pixel_size", d.Camera.PixelSize)
	v.SetDefault("camera.aperture", d.Camera.Aperture)
}

// Validate checks ranges that would otherwise surface as odd results later.
func (c Config) Validate() error {
	if err := c.Site.Observer().Validate(); err != nil {
		return fmt.Errorf("%w: site: %w", ErrInvalidConfig, err)
	}
	if c.MinAltitude < -90 || c.MinAltitude >= 90 {
		return fmt.Errorf("%w: min_altitude %v out of range [-90, 90)", ErrInvalidConfig, c.MinAltitude)
	}
	if c.Server.RateLimit < 0 || c.Server.Burst < 0 {
		return fmt.Errorf("%w: rate limit and burst must not be negative", ErrInvalidConfig)
	}
	if c.Mount.SlewSpeed < 0 {
		return fmt.Errorf("%w: slew_speed must not be negative", ErrInvalidConfig)
	}
	if c.Camera.Configured() {
		if err := c.Camera.Optics().Validate(); err != nil {
			return fmt.Errorf("%w: camera: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

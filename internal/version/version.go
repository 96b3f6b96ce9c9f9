// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - HTTP API with metrics, session manager, plan export with plan IDs
// 0.2.0 - Multi-target planner, slew ordering, TOML target catalogs
// 0.1.0 - Visibility engine, Moon and twilight, feasibility scoring, plan viewer

// Package catalog holds observing targets and loads target lists from files.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/litescript/ls-skyplan/internal/astro"
)

// Catalog errors.
var (
	ErrDuplicateTarget = errors.New("duplicate target id")
	ErrUnknownTarget   = errors.New("unknown target")
	ErrMissingID       = errors.New("target id is empty")
)

// Target is a fixed point on the sky that can be imaged.
type Target struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	RA   float64 `json:"ra"`  // Right ascension in degrees [0, 360)
	Dec  float64 `json:"dec"` // Declination in degrees [-90, 90]

	Type string  `json:"type,omitempty"` // galaxy, nebula, cluster, star, ...
	Mag  float64 `json:"mag,omitempty"`  // Visual magnitude, 0 if unknown
}

// Position is an equatorial position in degrees.
type Position struct {
	RA  float64 `json:"ra"`
	Dec float64 `json:"dec"`
}

// Position returns the target's coordinates.
func (t Target) Position() Position {
	return Position{RA: t.RA, Dec: t.Dec}
}

// DisplayName returns the name, falling back to the ID.
func (t Target) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// Validate checks the ID is set and the coordinates are in range.
func (t Target) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingID
	}
	if math.IsNaN(t.RA) || t.RA < 0 || t.RA >= 360 {
		return fmt.Errorf("target %s: %w (got %v)", t.ID, astro.ErrInvalidRA, t.RA)
	}
	if math.IsNaN(t.Dec) || t.Dec < -90 || t.Dec > 90 {
		return fmt.Errorf("target %s: %w (got %v)", t.ID, astro.ErrInvalidDec, t.Dec)
	}
	return nil
}

// normalizeID folds IDs for lookup so "m42", "M 42" and "M42" match.
func normalizeID(id string) string {
	return strings.ToUpper(strings.Join(strings.Fields(id), ""))
}

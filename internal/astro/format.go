package astro

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
)

// Coordinate parse errors.
var (
	ErrInvalidRA  = errors.New("right ascension out of range [0, 360)")
	ErrInvalidDec = errors.New("declination out of range [-90, 90]")
)

var (
	raHMS  = regexp.MustCompile(`^\s*(\d+)[h:\s]+(\d+)[m:\s]+(\d+(?:\.\d*)?)s?\s*$`)
	decDMS = regexp.MustCompile(`^\s*([+-]?\d+)[°d:\s]+(\d+)['m:\s]+(\d+(?:\.\d*)?)(?:"|s)?\s*$`)
)

// FormatRA formats right ascension in degrees as hours/minutes/seconds.
func FormatRA(raDeg float64) string {
	return fmt.Sprint(sexa.FmtRA(unit.RAFromDeg(NormalizeDegrees(raDeg))))
}

// FormatDec formats declination in degrees as degrees/arcminutes/arcseconds.
func FormatDec(decDeg float64) string {
	return fmt.Sprint(sexa.FmtAngle(unit.AngleFromDeg(decDeg)))
}

// ParseRA parses right ascension given as "HHhMMmSS.Ss", "HH:MM:SS" or
// decimal degrees.
func ParseRA(s string) (float64, error) {
	if m := raHMS.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		mi, _ := strconv.ParseFloat(m[2], 64)
		sec, _ := strconv.ParseFloat(m[3], 64)
		if h >= 24 || mi >= 60 || sec >= 60 {
			return 0, fmt.Errorf("parse RA %q: %w", s, ErrInvalidRA)
		}
		return (h + mi/60 + sec/3600) * 15, nil
	}

	deg, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse RA %q: %w", s, err)
	}
	if deg < 0 || deg >= 360 {
		return 0, fmt.Errorf("parse RA %q: %w", s, ErrInvalidRA)
	}
	return deg, nil
}

// ParseDec parses declination given as "+DD°MM'SS\"", "-DD:MM:SS" or
// decimal degrees.
func ParseDec(s string) (float64, error) {
	if m := decDMS.FindStringSubmatch(s); m != nil {
		d, _ := strconv.ParseFloat(m[1], 64)
		mi, _ := strconv.ParseFloat(m[2], 64)
		sec, _ := strconv.ParseFloat(m[3], 64)
		if mi >= 60 || sec >= 60 {
			return 0, fmt.Errorf("parse Dec %q: %w", s, ErrInvalidDec)
		}

		// Sign from the text so "-00 30 00" stays negative
		sign := 1.0
		if strings.HasPrefix(strings.TrimSpace(m[1]), "-") {
			sign = -1
		}
		dec := sign * (abs(d) + mi/60 + sec/3600)
		if dec < -90 || dec > 90 {
			return 0, fmt.Errorf("parse Dec %q: %w", s, ErrInvalidDec)
		}
		return dec, nil
	}

	deg, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse Dec %q: %w", s, err)
	}
	if deg < -90 || deg > 90 {
		return 0, fmt.Errorf("parse Dec %q: %w", s, ErrInvalidDec)
	}
	return deg, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

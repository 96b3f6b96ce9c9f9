package feasibility

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/litescript/ls-skyplan/internal/astro"
)

// ErrInvalidOptics is returned for camera/telescope parameters that cannot
// form an image.
var ErrInvalidOptics = errors.New("invalid optics")

const (
	// imageScaleFactor is arcseconds per radian over 1000, for µm/mm ratios.
	imageScaleFactor = 206.265

	// DefaultMosaicOverlap is the panel overlap, in percent, when none is given.
	DefaultMosaicOverlap = 20.0
)

// Optics is a camera on a telescope. Lengths are in millimetres, pixel size
// in micrometres. PixelSize and Aperture may be zero when unknown.
type Optics struct {
	SensorWidth  float64 `json:"sensor_width"`
	SensorHeight float64 `json:"sensor_height"`
	FocalLength  float64 `json:"focal_length"`
	PixelSize    float64 `json:"pixel_size,omitempty"`
	Aperture     float64 `json:"aperture,omitempty"`
}

// Validate checks the sensor and focal length are positive.
func (o Optics) Validate() error {
	switch {
	case !(o.SensorWidth > 0) || !(o.SensorHeight > 0):
		return fmt.Errorf("%w: sensor %vx%v mm", ErrInvalidOptics, o.SensorWidth, o.SensorHeight)
	case !(o.FocalLength > 0):
		return fmt.Errorf("%w: focal length %v mm", ErrInvalidOptics, o.FocalLength)
	case o.PixelSize < 0 || o.Aperture < 0:
		return fmt.Errorf("%w: pixel size and aperture must not be negative", ErrInvalidOptics)
	}
	return nil
}

// FieldOfView is the sky area one frame covers.
type FieldOfView struct {
	WidthDeg     float64 `json:"width_deg"`
	HeightDeg    float64 `json:"height_deg"`
	WidthArcmin  float64 `json:"width_arcmin"`
	HeightArcmin float64 `json:"height_arcmin"`
	ImageScale   float64 `json:"image_scale"` // arcsec per pixel, 0 without a pixel size
	FRatio       float64 `json:"f_ratio"`     // 0 without an aperture
}

// CalculateFOV computes the field of view of o.
func CalculateFOV(o Optics) FieldOfView {
	w := astro.RadToDeg(2 * math.Atan(o.SensorWidth/(2*o.FocalLength)))
	h := astro.RadToDeg(2 * math.Atan(o.SensorHeight/(2*o.FocalLength)))

	fov := FieldOfView{
		WidthDeg:     w,
		HeightDeg:    h,
		WidthArcmin:  w * 60,
		HeightArcmin: h * 60,
		ImageScale:   imageScaleFactor * o.PixelSize / o.FocalLength,
	}
	if o.Aperture > 0 {
		fov.FRatio = o.FocalLength / o.Aperture
	}
	return fov
}

// MosaicCoverage is the sky area of a rows x cols panel mosaic.
type MosaicCoverage struct {
	Rows           int     `json:"rows"`
	Cols           int     `json:"cols"`
	Panels         int     `json:"panels"`
	OverlapPercent float64 `json:"overlap_percent"`
	PanelWidthDeg  float64 `json:"panel_width_deg"`
	PanelHeightDeg float64 `json:"panel_height_deg"`
	TotalWidthDeg  float64 `json:"total_width_deg"`
	TotalHeightDeg float64 `json:"total_height_deg"`
}

// CalculateMosaic computes the coverage of a mosaic whose neighbouring panels
// share overlapPercent of their width or height.
func CalculateMosaic(o Optics, rows, cols int, overlapPercent float64) (MosaicCoverage, error) {
	if err := o.Validate(); err != nil {
		return MosaicCoverage{}, err
	}
	if rows < 1 || cols < 1 {
		return MosaicCoverage{}, fmt.Errorf("%w: mosaic %dx%d", ErrInvalidOptics, rows, cols)
	}
	if overlapPercent < 0 || overlapPercent >= 100 {
		return MosaicCoverage{}, fmt.Errorf("%w: overlap %v%% out of range [0, 100)", ErrInvalidOptics, overlapPercent)
	}

	fov := CalculateFOV(o)
	step := 1 - overlapPercent/100

	return MosaicCoverage{
		Rows:           rows,
		Cols:           cols,
		Panels:         rows * cols,
		OverlapPercent: overlapPercent,
		PanelWidthDeg:  fov.WidthDeg,
		PanelHeightDeg: fov.HeightDeg,
		TotalWidthDeg:  fov.WidthDeg * (float64(cols-1)*step + 1),
		TotalHeightDeg: fov.HeightDeg * (float64(rows-1)*step + 1),
	}, nil
}

// ParseMosaicGrid parses a "RxC" grid such as "2x3" into rows and columns.
func ParseMosaicGrid(s string) (rows, cols int, err error) {
	r, c, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w: mosaic grid %q, want RxC", ErrInvalidOptics, s)
	}
	if rows, err = strconv.Atoi(r); err != nil || rows < 1 {
		return 0, 0, fmt.Errorf("%w: mosaic rows %q", ErrInvalidOptics, r)
	}
	if cols, err = strconv.Atoi(c); err != nil || cols < 1 {
		return 0, 0, fmt.Errorf("%w: mosaic columns %q", ErrInvalidOptics, c)
	}
	return rows, cols, nil
}

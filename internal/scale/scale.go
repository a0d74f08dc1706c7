// Package scale converts pixel distances on a drawing into real-world
// lengths. Calibration takes two points a known distance apart, typically
// the endpoints of a dimension line or a scale bar, and everything after
// that is a multiplication.
package scale

import (
	"fmt"
	"math"

	"github.com/fieldwise/takeoff/internal/detection"
)

// Unit names the unit of a calibration distance.
type Unit string

const (
	UnitFeet   Unit = "feet"
	UnitMeters Unit = "meters"
)

const feetPerMeter = 3.28084

// Calibration holds a resolved drawing scale.
type Calibration struct {
	// PixelsPerFoot converts pixel distances to feet.
	PixelsPerFoot float64 `json:"pixels_per_foot"`

	// ReferencePixels and ReferenceFeet record the measurement the
	// calibration came from.
	ReferencePixels float64 `json:"reference_pixels"`
	ReferenceFeet   float64 `json:"reference_feet"`
}

// Measurement is one line with its real-world length.
type Measurement struct {
	Line detection.Line `json:"line"`

	// LengthFeet is the scaled length, rounded to 1 decimal.
	LengthFeet float64 `json:"length_feet"`
}

// Calibrate computes the drawing scale from two pixel points a known
// distance apart.
//
// Parameters:
//   - x1, y1, x2, y2: Endpoints of the reference measurement in pixels.
//   - knownDistance: The real-world distance between them.
//   - unit: UnitFeet or UnitMeters.
//
// Returns:
//   - *Calibration: The resolved scale.
//   - error: Non-nil when the points coincide, the distance is not
//     positive, or the unit is unknown.
func Calibrate(x1, y1, x2, y2 float64, knownDistance float64, unit Unit) (*Calibration, error) {
	if knownDistance <= 0 {
		return nil, fmt.Errorf("known distance must be positive, got %g", knownDistance)
	}

	pixelDist := math.Hypot(x2-x1, y2-y1)
	if pixelDist == 0 {
		return nil, fmt.Errorf("calibration points coincide at (%g, %g)", x1, y1)
	}

	var feet float64
	switch unit {
	case UnitFeet:
		feet = knownDistance
	case UnitMeters:
		feet = knownDistance * feetPerMeter
	default:
		return nil, fmt.Errorf("unknown unit %q", unit)
	}

	return &Calibration{
		PixelsPerFoot:   pixelDist / feet,
		ReferencePixels: pixelDist,
		ReferenceFeet:   feet,
	}, nil
}

// Distance converts a pixel distance between two points into feet,
// rounded to 1 decimal.
func (c *Calibration) Distance(x1, y1, x2, y2 float64) float64 {
	return round1(math.Hypot(x2-x1, y2-y1) / c.PixelsPerFoot)
}

// MeasureLines scales a set of detected lines into feet. Feeder lengths
// measured this way feed the wire totals on the material takeoff.
func (c *Calibration) MeasureLines(lines []detection.Line) []Measurement {
	out := make([]Measurement, len(lines))
	for i, line := range lines {
		out[i] = Measurement{
			Line:       line,
			LengthFeet: round1(line.Length / c.PixelsPerFoot),
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Package validate checks parsed electrical notations against National
// Electrical Code sizing rules. Findings are advisory: a drawing that
// fails every check still analyzes successfully, and the findings ride
// along in the result for an engineer to review.
package validate

import (
	"fmt"
	"math"
)

// Severity ranks a finding.
type Severity string

const (
	// SeverityCritical marks a code violation, such as a conductor whose
	// ampacity is below its breaker trip.
	SeverityCritical Severity = "critical"

	// SeverityWarning marks a marginal condition worth an engineer's
	// look, such as ampacity exactly at the trip rating.
	SeverityWarning Severity = "warning"

	// SeverityInfo marks a check that could not be completed, such as an
	// unrecognized wire gauge.
	SeverityInfo Severity = "info"
)

// Finding is one advisory validation result.
type Finding struct {
	Severity    Severity `json:"severity"`
	CodeRef     string   `json:"code_ref"`
	Description string   `json:"description"`

	// Location is the drawing position of the notation that triggered
	// the finding, when known.
	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`
}

// ampacity is the allowable ampacity of copper THHN conductors at 75°C
// per NEC Table 310.16, AWG gauges plus the kcmil sizes that feed
// switchboards.
var ampacity = map[string]int{
	"14":  15,
	"12":  20,
	"10":  30,
	"8":   50,
	"6":   65,
	"4":   85,
	"3":   100,
	"2":   115,
	"1":   130,
	"1/0": 150,
	"2/0": 175,
	"3/0": 200,
	"4/0": 230,
	"250": 255,
	"300": 285,
	"350": 310,
	"400": 335,
	"500": 380,
	"600": 420,
}

// resistance is copper DC resistance in ohms per 1000 feet.
var resistance = map[string]float64{
	"14":  3.07,
	"12":  1.93,
	"10":  1.21,
	"8":   0.764,
	"6":   0.491,
	"4":   0.308,
	"3":   0.245,
	"2":   0.194,
	"1":   0.154,
	"1/0": 0.122,
	"2/0": 0.0967,
	"3/0": 0.0766,
	"4/0": 0.0608,
}

// emtDiameter is the internal diameter in inches of EMT conduit by trade
// size, and thhnArea the cross-section in square inches of THHN
// conductors, both per NEC Chapter 9.
var emtDiameter = map[string]float64{
	"1/2":   0.622,
	"3/4":   0.824,
	"1":     1.049,
	"1-1/4": 1.380,
	"1-1/2": 1.610,
	"2":     2.067,
	"2-1/2": 2.469,
	"3":     3.068,
	"4":     4.026,
}

var thhnArea = map[string]float64{
	"14":  0.0097,
	"12":  0.0133,
	"10":  0.0211,
	"8":   0.0366,
	"6":   0.0507,
	"4":   0.0824,
	"3":   0.0973,
	"2":   0.1158,
	"1":   0.1562,
	"1/0": 0.1855,
	"2/0": 0.2223,
	"3/0": 0.2679,
	"4/0": 0.3237,
}

// CheckWireAmpacity validates a conductor gauge against a breaker trip
// rating.
//
// Parameters:
//   - gauge: Conductor size, e.g. "12", "1/0", "500".
//   - trip: Breaker trip rating in amperes.
//   - x, y: Drawing location carried into any finding.
//
// Returns:
//   - *Finding: Critical when the conductor's ampacity is below the
//     trip, warning when exactly equal, info when the gauge is not in the
//     ampacity table. Nil when the conductor is adequately sized.
func CheckWireAmpacity(gauge string, trip int, x, y int) *Finding {
	amp, ok := ampacity[gauge]
	if !ok {
		return &Finding{
			Severity:    SeverityInfo,
			CodeRef:     "310.16",
			Description: fmt.Sprintf("unrecognized wire gauge %q, ampacity not checked", gauge),
			X:           x,
			Y:           y,
		}
	}

	switch {
	case amp < trip:
		return &Finding{
			Severity: SeverityCritical,
			CodeRef:  "310.16",
			Description: fmt.Sprintf("#%s conductor ampacity %dA is below the %dA breaker trip",
				gauge, amp, trip),
			X: x,
			Y: y,
		}
	case amp == trip:
		return &Finding{
			Severity: SeverityWarning,
			CodeRef:  "310.16",
			Description: fmt.Sprintf("#%s conductor ampacity %dA exactly matches the %dA breaker trip, no margin",
				gauge, amp, trip),
			X: x,
			Y: y,
		}
	default:
		return nil
	}
}

// CheckVoltageDrop validates the voltage drop of a single-phase branch
// circuit run.
//
// Parameters:
//   - gauge: Conductor size.
//   - current: Load current in amperes.
//   - lengthFt: One-way circuit length in feet.
//   - voltage: Nominal circuit voltage.
//
// Returns:
//   - *Finding: Warning when the drop exceeds 3% per NEC 210.19(A) FPN
//     No. 4, info for an unknown gauge, nil otherwise.
//
// The drop is 2 * R * I * L / 1000 using the per-1000-ft resistance, the
// factor 2 covering the out-and-back conductor run.
func CheckVoltageDrop(gauge string, current float64, lengthFt float64, voltage float64) *Finding {
	r, ok := resistance[gauge]
	if !ok {
		return &Finding{
			Severity:    SeverityInfo,
			CodeRef:     "210.19(A)",
			Description: fmt.Sprintf("unrecognized wire gauge %q, voltage drop not checked", gauge),
		}
	}
	if voltage <= 0 {
		return nil
	}

	drop := (2 * r * current * lengthFt) / 1000
	pct := drop / voltage * 100
	if pct > 3.0 {
		return &Finding{
			Severity: SeverityWarning,
			CodeRef:  "210.19(A)",
			Description: fmt.Sprintf("voltage drop %.1f%% (%.1fV) on #%s over %.0fft exceeds the 3%% recommendation",
				pct, drop, gauge, lengthFt),
		}
	}
	return nil
}

// fillLimit returns the allowed conduit fill fraction for a conductor
// count per NEC Chapter 9, Table 1.
func fillLimit(wireCount int) float64 {
	switch wireCount {
	case 1:
		return 0.53
	case 2:
		return 0.31
	default:
		return 0.40
	}
}

// CheckConduitFill validates wireCount THHN conductors of one gauge in an
// EMT conduit of the given trade size.
//
// Returns:
//   - *Finding: Critical when fill exceeds the Chapter 9 limit, warning
//     when it exceeds 80% of the limit, info when the conduit size or
//     gauge is unrecognized, nil otherwise.
func CheckConduitFill(conduitSize string, gauge string, wireCount int) *Finding {
	dia, ok := emtDiameter[conduitSize]
	if !ok {
		return &Finding{
			Severity:    SeverityInfo,
			CodeRef:     "Chapter 9 Table 1",
			Description: fmt.Sprintf("unrecognized conduit trade size %q, fill not checked", conduitSize),
		}
	}
	area, ok := thhnArea[gauge]
	if !ok {
		return &Finding{
			Severity:    SeverityInfo,
			CodeRef:     "Chapter 9 Table 1",
			Description: fmt.Sprintf("unrecognized wire gauge %q, fill not checked", gauge),
		}
	}
	if wireCount <= 0 {
		return nil
	}

	conduitArea := math.Pi * (dia / 2) * (dia / 2)
	fill := float64(wireCount) * area / conduitArea
	limit := fillLimit(wireCount)

	switch {
	case fill > limit:
		return &Finding{
			Severity: SeverityCritical,
			CodeRef:  "Chapter 9 Table 1",
			Description: fmt.Sprintf("%d #%s THHN in %s\" EMT fills %.0f%%, over the %.0f%% limit",
				wireCount, gauge, conduitSize, fill*100, limit*100),
		}
	case fill > 0.8*limit:
		return &Finding{
			Severity: SeverityWarning,
			CodeRef:  "Chapter 9 Table 1",
			Description: fmt.Sprintf("%d #%s THHN in %s\" EMT fills %.0f%%, within 80%% of the %.0f%% limit",
				wireCount, gauge, conduitSize, fill*100, limit*100),
		}
	default:
		return nil
	}
}

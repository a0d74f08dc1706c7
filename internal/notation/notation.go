// Package notation parses electrical notations out of assembled text
// blocks. It recognizes the pattern families found on single-line power
// diagrams: breaker frame/trip pairs, wire gauge and size callouts, panel
// designations, and generic equipment ratings.
package notation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fieldwise/takeoff/internal/assemble"
)

// Kind classifies a parsed notation.
type Kind string

const (
	// KindBucket is a breaker frame/trip pair such as "225AF/110AT".
	KindBucket Kind = "bucket"

	// KindWire is a conductor size such as "600 kcmil" or "#1/0 AWG".
	KindWire Kind = "wire"

	// KindPanel is a panel designation such as "PP-1" or "MDP-2".
	KindPanel Kind = "panel"

	// KindRating is a generic equipment rating such as "150 KVA".
	KindRating Kind = "rating"
)

// Spec is one parsed notation with its source text and location.
type Spec struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`

	X int `json:"x"`
	Y int `json:"y"`

	// Bucket fields. Frame and Trip are the numeric ampere values;
	// TripType is AT, AS, or AE. Rating is the trip, which is the only
	// value that bounds the load. The frame is just the physical size of
	// the breaker.
	Frame    int    `json:"frame,omitempty"`
	Trip     int    `json:"trip,omitempty"`
	TripType string `json:"trip_type,omitempty"`

	// Gauge is the conductor size for wire specs, e.g. "600", "12",
	// "1/0". KCMil marks sizes given in thousands of circular mils.
	Gauge string `json:"gauge,omitempty"`
	KCMil bool   `json:"kcmil,omitempty"`

	// Panel is the normalized panel designation, e.g. "PP-1".
	Panel string `json:"panel,omitempty"`

	// Rating fields for generic ratings.
	Rating     int    `json:"rating,omitempty"`
	RatingUnit string `json:"rating_unit,omitempty"`
}

// Specs groups the notations parsed from one drawing.
type Specs struct {
	Buckets []Spec `json:"buckets"`
	Wires   []Spec `json:"wires"`
	Panels  []Spec `json:"panels"`
	Ratings []Spec `json:"ratings"`
}

// Count returns the total number of parsed notations.
func (s *Specs) Count() int {
	return len(s.Buckets) + len(s.Wires) + len(s.Panels) + len(s.Ratings)
}

// Notation patterns. OCR inserts stray spaces and drops slashes, so the
// bucket pattern tolerates "225AF/110AT", "225 AF 110 AT", and even
// "225A F/110A T".
var (
	bucketRe      = regexp.MustCompile(`(\d+)\s*A?\s*F\s*/?\s*(\d+)\s*A?\s*([TSE])`)
	bucketFrameRe = regexp.MustCompile(`(\d+)\s*A?\s*F`)
	bucketTripRe  = regexp.MustCompile(`(\d+)\s*A?\s*([TSE])`)
	wireKCMilRe   = regexp.MustCompile(`(?i)(\d+)\s*(?:kcmil|MCM|kcm)`)
	wireAWGRe     = regexp.MustCompile(`(?i)#?\s*(\d+(?:/0)?)\s*AWG`)
	wireHashRe    = regexp.MustCompile(`#\s*(\d+(?:/0)?)\b`)
	panelRe       = regexp.MustCompile(`(?i)(PP|LP|RP|DP|MDP)\s*-?\s*(\d+)`)
	ratingRe      = regexp.MustCompile(`(?i)(\d+)\s*(A\b|AMP|KVA|HP|TON)`)
)

// Parse extracts notations from assembled blocks.
//
// Returns:
//   - *Specs: Parsed notations grouped by kind. Never nil; fields are
//     empty slices when nothing matches.
//
// # Bucket Matching
//
// Frame/trip pairs match in two passes. The strict pattern requires the
// frame and trip adjacent in order. Blocks where it fails but that still
// contain both an AF and an AT/AS/AE marker go through a looser fallback
// that matches frame and trip independently. A block never yields both:
// the strict match wins, and the fallback is tried only on blocks the
// strict pattern missed. Without that exclusivity a clean "225AF/110AT"
// would be counted as two buckets and double the takeoff.
//
// The trip type is resolved from the whole block text, so "110 A T" still
// resolves to AT even though the strict pattern only captured the "T".
func Parse(blocks []assemble.Block) *Specs {
	specs := &Specs{
		Buckets: []Spec{},
		Wires:   []Spec{},
		Panels:  []Spec{},
		Ratings: []Spec{},
	}

	for _, block := range blocks {
		text := block.Text
		upper := strings.ToUpper(text)

		buckets := parseBuckets(block, upper)
		specs.Buckets = append(specs.Buckets, buckets...)

		if spec, ok := parseWire(block); ok {
			specs.Wires = append(specs.Wires, spec)
		}
		if spec, ok := parsePanel(block); ok {
			specs.Panels = append(specs.Panels, spec)
		}
		// A bucket block's amperes are frame and trip, already captured
		// above. Spaced OCR output like "225 A F / 110 A T" would
		// otherwise also read as a generic 225A rating.
		if len(buckets) == 0 {
			if spec, ok := parseRating(block); ok {
				specs.Ratings = append(specs.Ratings, spec)
			}
		}
	}
	return specs
}

func parseBuckets(block assemble.Block, upper string) []Spec {
	out := make([]Spec, 0)

	matches := bucketRe.FindAllStringSubmatch(upper, -1)
	for _, m := range matches {
		frame, _ := strconv.Atoi(m[1])
		trip, _ := strconv.Atoi(m[2])
		out = append(out, Spec{
			Kind:     KindBucket,
			Text:     block.Text,
			X:        block.X,
			Y:        block.Y,
			Frame:    frame,
			Trip:     trip,
			TripType: tripType(upper, m[3]),
		})
	}
	if len(out) > 0 {
		return out
	}

	// Fallback: both markers present but the strict pattern failed,
	// usually because OCR scrambled the order or inserted junk between
	// the frame and the trip.
	if strings.Contains(upper, "AF") &&
		(strings.Contains(upper, "AT") || strings.Contains(upper, "AS") || strings.Contains(upper, "AE")) {
		frameM := bucketFrameRe.FindStringSubmatch(upper)
		tripM := bucketTripRe.FindStringSubmatch(upper)
		if frameM != nil && tripM != nil {
			frame, _ := strconv.Atoi(frameM[1])
			trip, _ := strconv.Atoi(tripM[1])
			out = append(out, Spec{
				Kind:     KindBucket,
				Text:     block.Text,
				X:        block.X,
				Y:        block.Y,
				Frame:    frame,
				Trip:     trip,
				TripType: tripType(upper, tripM[2]),
			})
		}
	}
	return out
}

// tripType resolves the trip designation from the whole block text, since
// OCR may have split "AT" into "A T". The captured letter is the last
// resort.
func tripType(upper, letter string) string {
	switch {
	case strings.Contains(upper, "AT") || strings.Contains(upper, "A T"):
		return "AT"
	case strings.Contains(upper, "AS") || strings.Contains(upper, "A S"):
		return "AS"
	case strings.Contains(upper, "AE") || strings.Contains(upper, "A E"):
		return "AE"
	default:
		return "A" + letter
	}
}

func parseWire(block assemble.Block) (Spec, bool) {
	if m := wireKCMilRe.FindStringSubmatch(block.Text); m != nil {
		return Spec{
			Kind:  KindWire,
			Text:  block.Text,
			X:     block.X,
			Y:     block.Y,
			Gauge: m[1],
			KCMil: true,
		}, true
	}
	if m := wireAWGRe.FindStringSubmatch(block.Text); m != nil {
		return Spec{
			Kind:  KindWire,
			Text:  block.Text,
			X:     block.X,
			Y:     block.Y,
			Gauge: m[1],
		}, true
	}
	if m := wireHashRe.FindStringSubmatch(block.Text); m != nil {
		return Spec{
			Kind:  KindWire,
			Text:  block.Text,
			X:     block.X,
			Y:     block.Y,
			Gauge: m[1],
		}, true
	}
	return Spec{}, false
}

func parsePanel(block assemble.Block) (Spec, bool) {
	m := panelRe.FindStringSubmatch(block.Text)
	if m == nil {
		return Spec{}, false
	}
	return Spec{
		Kind:  KindPanel,
		Text:  block.Text,
		X:     block.X,
		Y:     block.Y,
		Panel: strings.ToUpper(m[1]) + "-" + m[2],
	}, true
}

func parseRating(block assemble.Block) (Spec, bool) {
	m := ratingRe.FindStringSubmatch(block.Text)
	if m == nil {
		return Spec{}, false
	}
	rating, _ := strconv.Atoi(m[1])
	unit := strings.ToUpper(m[2])
	if unit == "AMP" {
		unit = "A"
	}
	return Spec{
		Kind:       KindRating,
		Text:       block.Text,
		X:          block.X,
		Y:          block.Y,
		Rating:     rating,
		RatingUnit: unit,
	}, true
}

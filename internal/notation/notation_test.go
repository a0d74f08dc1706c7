package notation

import (
	"testing"

	"github.com/fieldwise/takeoff/internal/assemble"
)

func block(text string) assemble.Block {
	return assemble.Block{Text: text, X: 100, Y: 50, RowNumber: -1}
}

func TestParseBucket(t *testing.T) {
	tests := []struct {
		text     string
		frame    int
		trip     int
		tripType string
	}{
		{"225AF/110AT", 225, 110, "AT"},
		{"225 AF / 110 AT", 225, 110, "AT"},
		{"225AF 110AT", 225, 110, "AT"},
		{"225A F/110A T", 225, 110, "AT"},
		{"400AF/225AS", 400, 225, "AS"},
		{"100AF/70AE", 100, 70, "AE"},
	}

	for _, tt := range tests {
		specs := Parse([]assemble.Block{block(tt.text)})
		if len(specs.Buckets) != 1 {
			t.Errorf("%q: got %d buckets, want 1", tt.text, len(specs.Buckets))
			continue
		}
		b := specs.Buckets[0]
		if b.Frame != tt.frame || b.Trip != tt.trip || b.TripType != tt.tripType {
			t.Errorf("%q: got frame=%d trip=%d type=%s, want frame=%d trip=%d type=%s",
				tt.text, b.Frame, b.Trip, b.TripType, tt.frame, tt.trip, tt.tripType)
		}
	}
}

func TestParseBucketTripIsTheRating(t *testing.T) {
	specs := Parse([]assemble.Block{block("225AF/110AT")})

	if len(specs.Buckets) != 1 {
		t.Fatalf("Got %d buckets, want 1", len(specs.Buckets))
	}
	// The trip bounds the load; the frame is just the breaker's physical
	// size. Confusing them inflates every downstream wire check.
	if specs.Buckets[0].Trip != 110 {
		t.Errorf("Trip = %d, want 110 not the 225 frame", specs.Buckets[0].Trip)
	}
}

func TestParseBucketSuppressesGenericRating(t *testing.T) {
	// Spaced OCR output leaves a lone "A" that the generic rating
	// pattern would match. The amperes of a bucket block are frame and
	// trip; they must not be re-counted as a 225A rating.
	specs := Parse([]assemble.Block{block("225 A F / 110 A T")})

	if len(specs.Buckets) != 1 {
		t.Fatalf("Got %d buckets, want 1", len(specs.Buckets))
	}
	if len(specs.Ratings) != 0 {
		t.Errorf("Got %d ratings from a bucket block, want 0: %+v", len(specs.Ratings), specs.Ratings)
	}
}

func TestParseBucketNoDoubleCount(t *testing.T) {
	// A clean notation matches the strict pattern and also contains the
	// AF/AT markers the fallback looks for. It must be counted once.
	specs := Parse([]assemble.Block{block("225AF/110AT")})

	if len(specs.Buckets) != 1 {
		t.Errorf("Got %d buckets for one notation, want exactly 1", len(specs.Buckets))
	}
}

func TestParseBucketFallback(t *testing.T) {
	// Scrambled by OCR: markers present, strict order broken
	specs := Parse([]assemble.Block{block("BKR 110AT FED 225AF")})

	if len(specs.Buckets) != 1 {
		t.Fatalf("Got %d buckets, want 1 via fallback", len(specs.Buckets))
	}
	b := specs.Buckets[0]
	if b.Frame != 225 || b.Trip != 110 || b.TripType != "AT" {
		t.Errorf("Fallback got frame=%d trip=%d type=%s, want 225/110/AT", b.Frame, b.Trip, b.TripType)
	}
}

func TestParseWire(t *testing.T) {
	tests := []struct {
		text  string
		gauge string
		kcmil bool
	}{
		{"600 kcmil", "600", true},
		{"600kcmil", "600", true},
		{"500 KCMIL CU", "500", true},
		{"350 MCM", "350", true},
		{"#12 AWG", "12", false},
		{"12 AWG THHN", "12", false},
		{"#1/0", "1/0", false},
	}

	for _, tt := range tests {
		specs := Parse([]assemble.Block{block(tt.text)})
		if len(specs.Wires) != 1 {
			t.Errorf("%q: got %d wires, want 1", tt.text, len(specs.Wires))
			continue
		}
		w := specs.Wires[0]
		if w.Gauge != tt.gauge || w.KCMil != tt.kcmil {
			t.Errorf("%q: got gauge=%s kcmil=%v, want gauge=%s kcmil=%v",
				tt.text, w.Gauge, w.KCMil, tt.gauge, tt.kcmil)
		}
	}
}

func TestParsePanel(t *testing.T) {
	tests := []struct {
		text  string
		panel string
	}{
		{"PP-1", "PP-1"},
		{"PP1", "PP-1"},
		{"PP - 1", "PP-1"},
		{"lp-2", "LP-2"},
		{"MDP-1", "MDP-1"},
		{"TO RP-3 VIA", "RP-3"},
	}

	for _, tt := range tests {
		specs := Parse([]assemble.Block{block(tt.text)})
		if len(specs.Panels) != 1 {
			t.Errorf("%q: got %d panels, want 1", tt.text, len(specs.Panels))
			continue
		}
		if specs.Panels[0].Panel != tt.panel {
			t.Errorf("%q: got panel %q, want %q", tt.text, specs.Panels[0].Panel, tt.panel)
		}
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		text   string
		rating int
		unit   string
	}{
		{"150 KVA", 150, "KVA"},
		{"30 HP", 30, "HP"},
		{"5 TON RTU", 5, "TON"},
		{"200A MAIN", 200, "A"},
		{"60 AMP", 60, "A"},
	}

	for _, tt := range tests {
		specs := Parse([]assemble.Block{block(tt.text)})
		if len(specs.Ratings) != 1 {
			t.Errorf("%q: got %d ratings, want 1", tt.text, len(specs.Ratings))
			continue
		}
		r := specs.Ratings[0]
		if r.Rating != tt.rating || r.RatingUnit != tt.unit {
			t.Errorf("%q: got %d %s, want %d %s", tt.text, r.Rating, r.RatingUnit, tt.rating, tt.unit)
		}
	}
}

func TestParseNoMatches(t *testing.T) {
	specs := Parse([]assemble.Block{block("GENERAL NOTES"), block("SCALE AS NOTED")})

	if specs.Count() != 0 {
		t.Errorf("Got %d specs from prose blocks, want 0", specs.Count())
	}
	if specs.Buckets == nil || specs.Wires == nil || specs.Panels == nil || specs.Ratings == nil {
		t.Error("Spec slices should be non-nil even when empty")
	}
}

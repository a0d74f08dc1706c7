package scale

import (
	"math"
	"testing"

	"github.com/fieldwise/takeoff/internal/detection"
)

func TestCalibrateFeet(t *testing.T) {
	// 100 pixels spanning 10 feet
	cal, err := Calibrate(0, 0, 100, 0, 10, UnitFeet)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}

	if cal.PixelsPerFoot != 10 {
		t.Errorf("PixelsPerFoot = %g, want 10", cal.PixelsPerFoot)
	}
}

func TestCalibrateMeters(t *testing.T) {
	// 100 pixels spanning 10 meters = 32.8084 feet
	cal, err := Calibrate(0, 0, 100, 0, 10, UnitMeters)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}

	want := 100.0 / (10 * 3.28084)
	if math.Abs(cal.PixelsPerFoot-want) > 1e-9 {
		t.Errorf("PixelsPerFoot = %g, want %g", cal.PixelsPerFoot, want)
	}
}

func TestCalibrateDiagonal(t *testing.T) {
	// 3-4-5 triangle: 50 pixels over 5 feet
	cal, err := Calibrate(0, 0, 30, 40, 5, UnitFeet)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	if cal.PixelsPerFoot != 10 {
		t.Errorf("PixelsPerFoot = %g, want 10", cal.PixelsPerFoot)
	}
}

func TestCalibrateErrors(t *testing.T) {
	if _, err := Calibrate(0, 0, 100, 0, 0, UnitFeet); err == nil {
		t.Error("Zero known distance should fail")
	}
	if _, err := Calibrate(0, 0, 100, 0, -5, UnitFeet); err == nil {
		t.Error("Negative known distance should fail")
	}
	if _, err := Calibrate(50, 50, 50, 50, 10, UnitFeet); err == nil {
		t.Error("Coincident points should fail")
	}
	if _, err := Calibrate(0, 0, 100, 0, 10, Unit("furlongs")); err == nil {
		t.Error("Unknown unit should fail")
	}
}

func TestDistance(t *testing.T) {
	cal, err := Calibrate(0, 0, 100, 0, 10, UnitFeet)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}

	// 250 pixels at 10 px/ft = 25.0 feet
	if d := cal.Distance(0, 0, 250, 0); d != 25.0 {
		t.Errorf("Distance = %g, want 25.0", d)
	}

	// 333 pixels = 33.3 feet after rounding to 1 decimal
	if d := cal.Distance(0, 0, 333, 0); d != 33.3 {
		t.Errorf("Distance = %g, want 33.3", d)
	}
}

func TestMeasureLines(t *testing.T) {
	cal, err := Calibrate(0, 0, 100, 0, 10, UnitFeet)
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}

	lines := []detection.Line{
		{X1: 0, Y1: 0, X2: 150, Y2: 0, Length: 150},
		{X1: 0, Y1: 0, X2: 0, Y2: 47, Length: 47},
	}

	measured := cal.MeasureLines(lines)

	if len(measured) != 2 {
		t.Fatalf("Got %d measurements, want 2", len(measured))
	}
	if measured[0].LengthFeet != 15.0 {
		t.Errorf("First length = %g, want 15.0", measured[0].LengthFeet)
	}
	if measured[1].LengthFeet != 4.7 {
		t.Errorf("Second length = %g, want 4.7", measured[1].LengthFeet)
	}
}

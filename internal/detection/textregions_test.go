package detection

import (
	"testing"
)

func TestDetectTextRegions(t *testing.T) {
	img := blankDrawing(600, 400)
	// A wide short block approximates a text label like "225AF/110AT"
	drawFilledRect(img, 100, 100, 120, 18)
	drawFilledRect(img, 300, 250, 90, 15)

	result, err := DetectTextRegions(img)
	if err != nil {
		t.Fatalf("DetectTextRegions failed: %v", err)
	}

	t.Logf("Detected %d text regions", result.Count)
	for i, r := range result.Regions {
		t.Logf("  Region %d: (%d,%d) %dx%d aspect=%.2f", i, r.X, r.Y, r.Width, r.Height, r.AspectRatio)
	}

	if result.Count == 0 {
		t.Error("Expected at least one text region for two wide blocks")
	}

	for _, r := range result.Regions {
		if r.AspectRatio <= 1.5 {
			t.Errorf("Region aspect %.2f at or below cutoff 1.5", r.AspectRatio)
		}
		if r.Area <= 100 || r.Area >= 10000 {
			t.Errorf("Region area %d outside the open interval (100, 10000)", r.Area)
		}
	}
}

func TestDetectTextRegionsRejectsSquares(t *testing.T) {
	img := blankDrawing(400, 400)
	// A square symbol: area in band but aspect 1.0 fails the text test
	drawFilledRect(img, 150, 150, 40, 40)

	result, err := DetectTextRegions(img)
	if err != nil {
		t.Fatalf("DetectTextRegions failed: %v", err)
	}

	for _, r := range result.Regions {
		if r.Width == r.Height {
			t.Errorf("Square region %dx%d should have been rejected", r.Width, r.Height)
		}
	}
}

func TestDetectTextRegionsSortOrder(t *testing.T) {
	img := blankDrawing(600, 400)
	drawFilledRect(img, 300, 300, 100, 16)
	drawFilledRect(img, 100, 50, 100, 16)

	result, err := DetectTextRegions(img)
	if err != nil {
		t.Fatalf("DetectTextRegions failed: %v", err)
	}

	for i := 1; i < len(result.Regions); i++ {
		prev, cur := result.Regions[i-1], result.Regions[i]
		if cur.Y < prev.Y || (cur.Y == prev.Y && cur.X < prev.X) {
			t.Errorf("Regions not sorted top-to-bottom, left-to-right at index %d", i)
		}
	}
}

func TestDetectTextRegionsEmptyDrawing(t *testing.T) {
	img := blankDrawing(300, 300)

	result, err := DetectTextRegions(img)
	if err != nil {
		t.Fatalf("DetectTextRegions failed: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("Expected 0 regions on a blank drawing, got %d", result.Count)
	}
}

package detection

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// blankDrawing creates a white image of the given size.
func blankDrawing(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

// drawRectOutline draws a black rectangle outline with the given stroke width.
func drawRectOutline(img *image.RGBA, x, y, w, h, stroke int) {
	black := color.RGBA{A: 255}
	for s := 0; s < stroke; s++ {
		for i := x; i < x+w; i++ {
			img.Set(i, y+s, black)
			img.Set(i, y+h-1-s, black)
		}
		for j := y; j < y+h; j++ {
			img.Set(x+s, j, black)
			img.Set(x+w-1-s, j, black)
		}
	}
}

// drawFilledRect fills a solid black rectangle.
func drawFilledRect(img *image.RGBA, x, y, w, h int) {
	draw.Draw(img, image.Rect(x, y, x+w, y+h), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
}

func TestDetectEquipmentBoxes(t *testing.T) {
	img := blankDrawing(800, 600)
	// 120x100 = 12000 px, inside the default area band
	drawRectOutline(img, 100, 100, 120, 100, 3)
	drawRectOutline(img, 400, 300, 150, 120, 3)

	result, err := DetectEquipmentBoxes(img, 5000, 100000)
	if err != nil {
		t.Fatalf("DetectEquipmentBoxes failed: %v", err)
	}

	t.Logf("Detected %d equipment boxes", result.Count)
	for i, b := range result.Boxes {
		t.Logf("  Box %d: (%d,%d) %dx%d area=%d", i, b.X, b.Y, b.Width, b.Height, b.Area)
	}

	if result.Count == 0 {
		t.Error("Expected at least one box for two drawn rectangles")
	}

	// Boxes are sorted by area, largest first
	for i := 1; i < len(result.Boxes); i++ {
		if result.Boxes[i].Area > result.Boxes[i-1].Area {
			t.Errorf("Boxes not sorted by area: box %d area %d > box %d area %d",
				i, result.Boxes[i].Area, i-1, result.Boxes[i-1].Area)
		}
	}
}

func TestDetectEquipmentBoxesAreaBand(t *testing.T) {
	img := blankDrawing(800, 600)
	// 40x40 = 1600 px, below the minimum area
	drawRectOutline(img, 50, 50, 40, 40, 3)

	result, err := DetectEquipmentBoxes(img, 5000, 100000)
	if err != nil {
		t.Fatalf("DetectEquipmentBoxes failed: %v", err)
	}

	for _, b := range result.Boxes {
		if b.Area <= 5000 || b.Area >= 100000 {
			t.Errorf("Box area %d outside the open interval (5000, 100000)", b.Area)
		}
	}
}

func TestDetectEquipmentBoxesAspectFilter(t *testing.T) {
	img := blankDrawing(1200, 400)
	// 1000x20 strip: area 20000 is in band but aspect 50 is rejected
	drawFilledRect(img, 50, 100, 1000, 20)

	result, err := DetectEquipmentBoxes(img, 5000, 100000)
	if err != nil {
		t.Fatalf("DetectEquipmentBoxes failed: %v", err)
	}

	for _, b := range result.Boxes {
		aspect := float64(b.Width) / float64(b.Height)
		if aspect <= 0.2 || aspect >= 5.0 {
			t.Errorf("Box aspect %.2f outside the open interval (0.2, 5.0)", aspect)
		}
	}
}

func TestDetectEquipmentBoxesEmptyDrawing(t *testing.T) {
	img := blankDrawing(400, 300)

	result, err := DetectEquipmentBoxes(img, 5000, 100000)
	if err != nil {
		t.Fatalf("DetectEquipmentBoxes failed: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("Expected 0 boxes on a blank drawing, got %d", result.Count)
	}
	if result.Boxes == nil {
		t.Error("Boxes slice should be non-nil even when empty")
	}
}

func TestBoxCenters(t *testing.T) {
	img := blankDrawing(800, 600)
	drawRectOutline(img, 200, 150, 120, 100, 3)

	result, err := DetectEquipmentBoxes(img, 5000, 100000)
	if err != nil {
		t.Fatalf("DetectEquipmentBoxes failed: %v", err)
	}

	for _, b := range result.Boxes {
		wantCX := b.X + b.Width/2
		wantCY := b.Y + b.Height/2
		if b.CenterX != wantCX || b.CenterY != wantCY {
			t.Errorf("Center (%d,%d) does not match bounds-derived center (%d,%d)",
				b.CenterX, b.CenterY, wantCX, wantCY)
		}
	}
}

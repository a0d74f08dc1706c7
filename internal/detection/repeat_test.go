package detection

import (
	"reflect"
	"testing"
)

// Detectors must be pure functions of the input image: the same drawing
// always yields the same primitives, in the same order, with the same
// values. Downstream stages cache and diff results on that assumption.
func TestDetectorsRepeatable(t *testing.T) {
	img := blankDrawing(600, 400)
	drawRectOutline(img, 100, 100, 150, 120, 3)
	drawRectOutline(img, 350, 200, 130, 100, 3)
	drawLine(img, 250, 160, 350, 250, 3)
	drawFilledRect(img, 120, 320, 110, 16)

	boxes1, err := DetectEquipmentBoxes(img, 5000, 100000)
	if err != nil {
		t.Fatalf("DetectEquipmentBoxes failed: %v", err)
	}
	boxes2, err := DetectEquipmentBoxes(img, 5000, 100000)
	if err != nil {
		t.Fatalf("DetectEquipmentBoxes failed on second run: %v", err)
	}
	if !reflect.DeepEqual(boxes1, boxes2) {
		t.Errorf("DetectEquipmentBoxes differs across runs:\n  first:  %+v\n  second: %+v", boxes1, boxes2)
	}

	lines1, err := DetectConnectionLines(img, 50)
	if err != nil {
		t.Fatalf("DetectConnectionLines failed: %v", err)
	}
	lines2, err := DetectConnectionLines(img, 50)
	if err != nil {
		t.Fatalf("DetectConnectionLines failed on second run: %v", err)
	}
	if !reflect.DeepEqual(lines1, lines2) {
		t.Errorf("DetectConnectionLines differs across runs:\n  first:  %+v\n  second: %+v", lines1, lines2)
	}

	texts1, err := DetectTextRegions(img)
	if err != nil {
		t.Fatalf("DetectTextRegions failed: %v", err)
	}
	texts2, err := DetectTextRegions(img)
	if err != nil {
		t.Fatalf("DetectTextRegions failed on second run: %v", err)
	}
	if !reflect.DeepEqual(texts1, texts2) {
		t.Errorf("DetectTextRegions differs across runs:\n  first:  %+v\n  second: %+v", texts1, texts2)
	}
}

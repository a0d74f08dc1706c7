package detection

import (
	"image"
	"sort"

	"github.com/anthonynsimon/bild/effect"
)

// Box represents a detected equipment outline (switchboard, panel,
// transformer) in pixel coordinates.
//
// Boxes are immutable once produced. A new detection pass yields an entirely
// new set; nothing downstream mutates them.
type Box struct {
	// X, Y is the top-left corner of the bounding rectangle.
	X int `json:"x"`
	Y int `json:"y"`

	// Width and Height are the extents in pixels. Both are > 0.
	Width  int `json:"width"`
	Height int `json:"height"`

	// CenterX, CenterY is the center of the bounding rectangle.
	CenterX int `json:"center_x"`
	CenterY int `json:"center_y"`

	// Area is Width × Height in square pixels.
	Area int `json:"area"`
}

// BoxesResult contains all equipment boxes detected in a drawing.
type BoxesResult struct {
	// Boxes is the list of detected boxes, sorted by area (largest first).
	// On single-line diagrams the largest box is a reasonable prior for the
	// main equipment; the topology stage confirms with connectivity.
	Boxes []Box `json:"boxes"`

	// Count is the number of boxes detected.
	Count int `json:"count"`
}

// DetectEquipmentBoxes finds rectangular equipment outlines in a drawing.
//
// Parameters:
//   - img: Source drawing image.
//   - minArea: Exclusive lower bound on box area in square pixels. Large
//     values skip internal compartment outlines and keep whole equipment.
//     Typical: 5000.
//   - maxArea: Exclusive upper bound on box area. Filters out sheet borders
//     and title blocks. Typical: 100000.
//
// Returns:
//   - *BoxesResult: Detected boxes sorted by area (largest first).
//   - error: Currently always nil.
//
// # Algorithm
//
//  1. Binarization: adaptive local-mean threshold (11px window, offset 2),
//     inverted so ink is foreground. Handles uneven scan contrast.
//  2. Dilation: two passes of a small structuring element so that bucket
//     compartments and section lines merge into one whole-equipment blob
//     instead of fragmenting a switchboard into many boxes.
//  3. Contour Extraction: flood-fill connected components, then take each
//     component's bounding rectangle.
//  4. Filtering: keep rectangles with minArea < area < maxArea (strict on
//     both ends) and aspect ratio width/height within (0.2, 5.0). Equipment
//     is roughly rectangular; extreme aspect ratios are borders or feeders.
//
// # Limitations
//
//   - Only axis-aligned bounding rectangles are produced
//   - Touching equipment drawn without separation merges into one box
//   - Heavily broken outlines may fall under minArea after thresholding
func DetectEquipmentBoxes(img image.Image, minArea, maxArea int) (*BoxesResult, error) {
	gray := grayPlane(img)
	binary := adaptiveThreshold(gray, 11, 2)

	// Merge compartment strokes into whole-equipment blobs
	dilated := maskOf(effect.Dilate(effect.Dilate(binary, 2), 2))

	blobs := findBlobs(dilated)

	boxes := make([]Box, 0)
	for _, blob := range blobs {
		x, y, w, h := boundingRect(blob)
		area := w * h

		if area <= minArea || area >= maxArea {
			continue
		}

		aspect := float64(w) / float64(h)
		if aspect <= 0.2 || aspect >= 5.0 {
			continue
		}

		boxes = append(boxes, Box{
			X:       x,
			Y:       y,
			Width:   w,
			Height:  h,
			CenterX: x + w/2,
			CenterY: y + h/2,
			Area:    area,
		})
	}

	// Sort by area descending
	sort.Slice(boxes, func(i, j int) bool {
		return boxes[i].Area > boxes[j].Area
	})

	return &BoxesResult{
		Boxes: boxes,
		Count: len(boxes),
	}, nil
}

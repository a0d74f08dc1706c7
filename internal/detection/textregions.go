package detection

import (
	"image"
	"sort"
)

// TextRegion represents a rectangular region likely to contain text.
type TextRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// CenterX and CenterY locate the region center for association with
	// nearby connection lines.
	CenterX int `json:"center_x"`
	CenterY int `json:"center_y"`

	Area int `json:"area"`

	// AspectRatio is width/height. Text labels run wide, so regions below
	// the aspect cutoff are rejected as symbols or noise.
	AspectRatio float64 `json:"aspect_ratio"`
}

// TextRegionsResult contains all candidate text regions in a drawing.
type TextRegionsResult struct {
	Regions []TextRegion `json:"regions"`
	Count   int          `json:"count"`
}

// Text region filters. Labels on single-line diagrams are short horizontal
// strings, so a wide aspect and a modest area band reject most symbols.
const (
	textMinAspect = 1.5
	textMinArea   = 100
	textMaxArea   = 10000
)

// DetectTextRegions finds regions likely to contain text labels.
//
// Parameters:
//   - img: Source drawing image.
//
// Returns:
//   - *TextRegionsResult: Candidate regions sorted top-to-bottom then
//     left-to-right.
//   - error: Currently always nil.
//
// # Algorithm
//
//  1. Otsu binarization (inverted, ink becomes foreground)
//  2. Dilation with a wide 10x3 rectangular kernel, merging adjacent
//     characters of a label into one horizontal blob while keeping lines
//     of text on different rows separate
//  3. Connected components via flood fill
//  4. Filtering: aspect ratio > 1.5 and area in (100, 10000)
//
// # Limitations
//
// Vertical text (rotated labels on risers) fails the aspect test and is
// not detected. Dense drawings can merge a label with a nearby symbol,
// producing an oversized region that the area cap then rejects.
func DetectTextRegions(img image.Image) (*TextRegionsResult, error) {
	gray := grayPlane(img)
	binary := otsuThreshold(gray)
	dilated := dilateRect(binary, 10, 3)

	blobs := findBlobs(dilated)

	regions := make([]TextRegion, 0)
	for _, blob := range blobs {
		x, y, w, h := boundingRect(blob)
		area := w * h
		if area <= textMinArea || area >= textMaxArea {
			continue
		}
		aspect := float64(w) / float64(h)
		if aspect <= textMinAspect {
			continue
		}
		regions = append(regions, TextRegion{
			X:           x,
			Y:           y,
			Width:       w,
			Height:      h,
			CenterX:     x + w/2,
			CenterY:     y + h/2,
			Area:        area,
			AspectRatio: aspect,
		})
	}

	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Y != regions[j].Y {
			return regions[i].Y < regions[j].Y
		}
		return regions[i].X < regions[j].X
	})

	return &TextRegionsResult{
		Regions: regions,
		Count:   len(regions),
	}, nil
}

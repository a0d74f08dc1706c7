package detection

import (
	"image"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Line represents a detected connection line (feeder) segment.
type Line struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`

	// Length is the Euclidean length in pixels, rounded to 1 decimal.
	Length float64 `json:"length"`

	// Angle is the segment angle in degrees via atan2, rounded to 1 decimal.
	// Range is (-180, 180].
	Angle float64 `json:"angle_degrees"`

	// Ink is the hex color (#RRGGBB) sampled at the segment midpoint.
	Ink string `json:"ink,omitempty"`
}

// LinesResult contains all connection lines detected in a drawing.
type LinesResult struct {
	Lines []Line `json:"lines"`
	Count int    `json:"count"`
}

// Hough parameters tuned for single-line diagrams: strong vote threshold
// keeps few, long lines; the gap tolerance bridges dashed feeder runs.
const (
	houghVoteThreshold = 80
	houghMaxGap        = 20.0
	maxLines           = 50
)

// DetectConnectionLines finds feeder line segments in a drawing.
//
// Parameters:
//   - img: Source drawing image.
//   - minLength: Minimum segment length in pixels. Large values keep major
//     feeders and ignore leader lines and hatching. Typical: 100.
//
// Returns:
//   - *LinesResult: Detected lines, strongest Hough peaks first.
//   - error: Currently always nil.
//
// # Algorithm
//
//  1. Canny edge detection (thresholds 50/150)
//  2. Hough transform: each edge pixel votes across 180 angle bins; peaks
//     above the vote threshold that are local maxima become line candidates
//  3. Endpoint tracing: collect edge pixels within 2px of the candidate
//     line, project them onto the line direction, and keep the longest run
//     whose internal gaps do not exceed the gap tolerance
//  4. Filtering: drop runs shorter than minLength; drop near-axis-aligned
//     segments (|angle| < 5°, between 85° and 95°, or > 175°) unless the
//     run is at least 3×minLength. Borders and hatching are axis-aligned,
//     so the bands trade recall for precision; a very long axis-aligned
//     segment is kept because it is almost certainly a real feeder riser.
//
// Angle and length are computed with plain Euclidean geometry from the
// traced endpoints, not from the Hough bin.
func DetectConnectionLines(img image.Image, minLength int) (*LinesResult, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	edges := cannyEdges(img, 50, 150)

	// Hough transform parameters
	maxDist := int(math.Sqrt(float64(width*width + height*height)))
	numAngles := 180
	accumulator := make([][]int, maxDist*2)
	for i := range accumulator {
		accumulator[i] = make([]int, numAngles)
	}

	// Vote in Hough space
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges[y][x] {
				continue
			}
			for theta := 0; theta < numAngles; theta++ {
				angle := float64(theta) * math.Pi / 180.0
				rho := float64(x)*math.Cos(angle) + float64(y)*math.Sin(angle)
				rhoIdx := int(rho) + maxDist
				if rhoIdx >= 0 && rhoIdx < maxDist*2 {
					accumulator[rhoIdx][theta]++
				}
			}
		}
	}

	// Find peaks in accumulator
	type peak struct {
		rho   int
		theta int
		votes int
	}
	peaks := make([]peak, 0)

	for rhoIdx := 0; rhoIdx < maxDist*2; rhoIdx++ {
		for theta := 0; theta < numAngles; theta++ {
			if accumulator[rhoIdx][theta] < houghVoteThreshold {
				continue
			}
			// Check if local maximum
			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -2; dt <= 2 && isMax; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nr := rhoIdx + dr
					nt := (theta + dt + numAngles) % numAngles
					if nr >= 0 && nr < maxDist*2 {
						if accumulator[nr][nt] > accumulator[rhoIdx][theta] {
							isMax = false
						}
					}
				}
			}
			if isMax {
				peaks = append(peaks, peak{
					rho:   rhoIdx - maxDist,
					theta: theta,
					votes: accumulator[rhoIdx][theta],
				})
			}
		}
	}

	// Sort peaks by votes
	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})

	lines := make([]Line, 0)

	for _, pk := range peaks {
		if len(lines) >= maxLines {
			break
		}

		angle := float64(pk.theta) * math.Pi / 180.0
		rho := float64(pk.rho)
		cosA := math.Cos(angle)
		sinA := math.Sin(angle)

		// Collect edge pixels on this line (within tolerance)
		linePoints := make([]Point, 0)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if !edges[y][x] {
					continue
				}
				dist := math.Abs(float64(x)*cosA + float64(y)*sinA - rho)
				if dist < 2.0 {
					linePoints = append(linePoints, Point{X: x, Y: y})
				}
			}
		}
		if len(linePoints) < 2 {
			continue
		}

		start, end, ok := longestRun(linePoints, cosA, sinA)
		if !ok {
			continue
		}

		dx := float64(end.X - start.X)
		dy := float64(end.Y - start.Y)
		length := math.Sqrt(dx*dx + dy*dy)
		if length < float64(minLength) {
			continue
		}

		angleDeg := math.Atan2(dy, dx) * 180 / math.Pi
		if axisAligned(angleDeg) && length < 3*float64(minLength) {
			continue
		}

		midX := (start.X + end.X) / 2
		midY := (start.Y + end.Y) / 2
		ink := inkHex(img, midX+bounds.Min.X, midY+bounds.Min.Y)

		lines = append(lines, Line{
			X1:     start.X,
			Y1:     start.Y,
			X2:     end.X,
			Y2:     end.Y,
			Length: math.Round(length*10) / 10,
			Angle:  math.Round(angleDeg*10) / 10,
			Ink:    ink,
		})
	}

	return &LinesResult{
		Lines: lines,
		Count: len(lines),
	}, nil
}

// axisAligned reports whether an angle in degrees falls in the bands
// presumed to be borders or hatching rather than feeder runs.
func axisAligned(angleDeg float64) bool {
	abs := math.Abs(angleDeg)
	return abs < 5 || (abs > 85 && abs < 95) || abs > 175
}

// longestRun projects line points onto the line direction, sorts them, and
// returns the endpoints of the longest contiguous run whose internal gaps
// stay within the gap tolerance. This separates two collinear feeders that
// share a Hough bin and trims stray votes far from the actual segment.
func longestRun(points []Point, cosA, sinA float64) (Point, Point, bool) {
	// Direction along the line is perpendicular to the normal (cosA, sinA).
	dirX, dirY := -sinA, cosA

	type projected struct {
		p Point
		t float64
	}
	proj := make([]projected, len(points))
	for i, p := range points {
		proj[i] = projected{p: p, t: float64(p.X)*dirX + float64(p.Y)*dirY}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].t < proj[j].t })

	bestStart, bestEnd := 0, 0
	runStart := 0
	for i := 1; i < len(proj); i++ {
		if proj[i].t-proj[i-1].t > houghMaxGap {
			if proj[i-1].t-proj[runStart].t > proj[bestEnd].t-proj[bestStart].t {
				bestStart, bestEnd = runStart, i-1
			}
			runStart = i
		}
	}
	if proj[len(proj)-1].t-proj[runStart].t > proj[bestEnd].t-proj[bestStart].t {
		bestStart, bestEnd = runStart, len(proj)-1
	}

	if bestEnd <= bestStart {
		return Point{}, Point{}, false
	}
	return proj[bestStart].p, proj[bestEnd].p, true
}

// inkHex samples the pixel at (x, y) and returns its #RRGGBB hex string.
func inkHex(img image.Image, x, y int) string {
	r, g, b, _ := img.At(x, y).RGBA()
	c := colorful.Color{
		R: float64(r>>8) / 255.0,
		G: float64(g>>8) / 255.0,
		B: float64(b>>8) / 255.0,
	}
	return c.Hex()
}

// Package topology builds a connectivity graph from raw detection
// primitives. Equipment boxes become nodes, connection lines become edges,
// and text regions become labels attached to the nearest edge. The package
// is purely geometric: it never looks at pixels, only at the rectangles
// and segments produced by the detection package.
package topology

import (
	"math"

	"github.com/fieldwise/takeoff/internal/detection"
)

// Line is a connection line enriched with graph context. SourceBox and
// DestBox index into the topology's box slice; nil means the endpoint did
// not land near any box.
type Line struct {
	detection.Line

	SourceBox *int `json:"source_box,omitempty"`
	DestBox   *int `json:"dest_box,omitempty"`

	// Label is the text region associated with this line, if any.
	Label *detection.TextRegion `json:"label,omitempty"`
}

// Text is a text region enriched with its nearest line, if one lies within
// the association threshold. NearLine indexes into the topology's line
// slice.
type Text struct {
	detection.TextRegion

	NearLine *int `json:"near_line,omitempty"`
}

// Topology is the assembled connectivity graph for one drawing.
type Topology struct {
	Boxes []detection.Box `json:"boxes"`
	Lines []Line          `json:"lines"`
	Texts []Text          `json:"texts"`

	// MainEquipment indexes the box judged to be the service entrance,
	// nil when no box has any connections.
	MainEquipment *int `json:"main_equipment,omitempty"`
}

// Default association thresholds in pixels.
const (
	DefaultTextLineThreshold = 30.0
	DefaultLineBoxThreshold  = 20.0
)

// Build assembles a topology from detection results using the given
// association thresholds.
//
// Parameters:
//   - boxes: Equipment boxes from detection.
//   - lines: Connection lines from detection.
//   - texts: Text regions from detection.
//   - textLineThreshold: Max distance from a text center to a line for
//     association. Typical: 30.
//   - lineBoxThreshold: Max distance from a line endpoint to a box for
//     association. Typical: 20.
//
// Returns:
//   - *Topology: The assembled graph. Never nil.
func Build(boxes []detection.Box, lines []detection.Line, texts []detection.TextRegion, textLineThreshold, lineBoxThreshold float64) *Topology {
	topoTexts := AssociateTextWithLines(texts, lines, textLineThreshold)
	topoLines := AssociateLinesWithBoxes(lines, boxes, lineBoxThreshold)

	// Copy each associated text onto its line as a label. When several
	// texts claim the same line the closest one wins.
	bestDist := make(map[int]float64)
	for i := range topoTexts {
		tx := &topoTexts[i]
		if tx.NearLine == nil {
			continue
		}
		li := *tx.NearLine
		d := pointToSegment(float64(tx.CenterX), float64(tx.CenterY), lines[li])
		if prev, seen := bestDist[li]; !seen || d < prev {
			bestDist[li] = d
			region := tx.TextRegion
			topoLines[li].Label = &region
		}
	}

	return &Topology{
		Boxes:         boxes,
		Lines:         topoLines,
		Texts:         topoTexts,
		MainEquipment: IdentifyMainEquipment(boxes, topoLines),
	}
}

// AssociateTextWithLines attaches each text region to the strictly nearest
// line whose perpendicular distance from the region center is under the
// threshold. A region equidistant from two lines goes to the lower index.
func AssociateTextWithLines(texts []detection.TextRegion, lines []detection.Line, threshold float64) []Text {
	out := make([]Text, len(texts))
	for i, region := range texts {
		out[i] = Text{TextRegion: region}

		best := -1
		bestDist := threshold
		for j, line := range lines {
			d := pointToSegment(float64(region.CenterX), float64(region.CenterY), line)
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		if best >= 0 {
			idx := best
			out[i].NearLine = &idx
		}
	}
	return out
}

// AssociateLinesWithBoxes attaches each line endpoint to the strictly
// nearest box within the threshold. Both endpoints are resolved
// independently, so a line can connect a box to nothing, or a box to
// itself when the drawing loops back.
func AssociateLinesWithBoxes(lines []detection.Line, boxes []detection.Box, threshold float64) []Line {
	out := make([]Line, len(lines))
	for i, line := range lines {
		out[i] = Line{Line: line}
		out[i].SourceBox = nearestBox(float64(line.X1), float64(line.Y1), boxes, threshold)
		out[i].DestBox = nearestBox(float64(line.X2), float64(line.Y2), boxes, threshold)
	}
	return out
}

// IdentifyMainEquipment picks the box most likely to be the service
// entrance: the one with the most line connections, ties broken by larger
// area. When no line connects to any box the largest box wins outright, so
// a drawing with boxes always has a main equipment candidate. Returns nil
// only when no boxes were detected.
func IdentifyMainEquipment(boxes []detection.Box, lines []Line) *int {
	if len(boxes) == 0 {
		return nil
	}

	counts := make([]int, len(boxes))
	for _, line := range lines {
		if line.SourceBox != nil {
			counts[*line.SourceBox]++
		}
		if line.DestBox != nil {
			counts[*line.DestBox]++
		}
	}

	best := 0
	for i := 1; i < len(boxes); i++ {
		if counts[i] > counts[best] ||
			(counts[i] == counts[best] && boxes[i].Area > boxes[best].Area) {
			best = i
		}
	}
	return &best
}

// nearestBox returns the index of the box nearest to (x, y) within the
// threshold, or nil. Distance is zero inside a box, otherwise the distance
// to the box edge.
func nearestBox(x, y float64, boxes []detection.Box, threshold float64) *int {
	best := -1
	bestDist := threshold
	for i, b := range boxes {
		d := pointToRect(x, y, b)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return &best
}

// pointToRect computes the distance from a point to a box rectangle,
// zero when the point is inside.
func pointToRect(x, y float64, b detection.Box) float64 {
	dx := math.Max(math.Max(float64(b.X)-x, 0), x-float64(b.X+b.Width))
	dy := math.Max(math.Max(float64(b.Y)-y, 0), y-float64(b.Y+b.Height))
	return math.Sqrt(dx*dx + dy*dy)
}

// pointToSegment computes the distance from a point to a line segment,
// clamping the projection to the segment endpoints.
func pointToSegment(px, py float64, line detection.Line) float64 {
	x1, y1 := float64(line.X1), float64(line.Y1)
	x2, y2 := float64(line.X2), float64(line.Y2)

	dx := x2 - x1
	dy := y2 - y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-x1, py-y1)
	}

	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	return math.Hypot(px-(x1+t*dx), py-(y1+t*dy))
}

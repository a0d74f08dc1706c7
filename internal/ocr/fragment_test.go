package ocr

import (
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
)

func TestFragmentCenters(t *testing.T) {
	f := Fragment{X: 100, Y: 50, Width: 80, Height: 20}

	if f.CenterX() != 140 {
		t.Errorf("CenterX = %d, want 140", f.CenterX())
	}
	if f.CenterY() != 60 {
		t.Errorf("CenterY = %d, want 60", f.CenterY())
	}
}

func word(text string, conf float32) *visionpb.Word {
	symbols := make([]*visionpb.Symbol, 0, len(text))
	for _, r := range text {
		symbols = append(symbols, &visionpb.Symbol{Text: string(r)})
	}
	return &visionpb.Word{Symbols: symbols, Confidence: conf}
}

func quad(x1, y1, x2, y2 int32) *visionpb.BoundingPoly {
	return &visionpb.BoundingPoly{Vertices: []*visionpb.Vertex{
		{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2},
	}}
}

func TestFragmentsFromAnnotation(t *testing.T) {
	annotation := &visionpb.TextAnnotation{
		Pages: []*visionpb.Page{{
			Blocks: []*visionpb.Block{{
				Paragraphs: []*visionpb.Paragraph{
					{
						Words:       []*visionpb.Word{word("225AF", 0.9), word("/110AT", 0.7)},
						BoundingBox: quad(100, 50, 220, 70),
					},
					{
						Words:       []*visionpb.Word{word("PP-1", 0.95)},
						BoundingBox: quad(300, 200, 350, 218),
					},
				},
			}},
		}},
	}

	frags := fragmentsFromAnnotation(annotation)

	if len(frags) != 2 {
		t.Fatalf("Got %d fragments, want 2", len(frags))
	}

	if frags[0].Text != "225AF /110AT" {
		t.Errorf("Fragment text = %q, want %q", frags[0].Text, "225AF /110AT")
	}
	if frags[0].X != 100 || frags[0].Y != 50 || frags[0].Width != 120 || frags[0].Height != 20 {
		t.Errorf("Fragment bounds = (%d,%d) %dx%d, want (100,50) 120x20",
			frags[0].X, frags[0].Y, frags[0].Width, frags[0].Height)
	}
	if got := frags[0].Confidence; got < 0.79 || got > 0.81 {
		t.Errorf("Fragment confidence = %.3f, want mean 0.8", got)
	}

	if frags[1].Text != "PP-1" {
		t.Errorf("Fragment text = %q, want %q", frags[1].Text, "PP-1")
	}
}

func TestFragmentsFromAnnotationEmpty(t *testing.T) {
	frags := fragmentsFromAnnotation(&visionpb.TextAnnotation{})

	if len(frags) != 0 {
		t.Errorf("Got %d fragments from an empty annotation, want 0", len(frags))
	}
}

func TestVerticesBounds(t *testing.T) {
	// Vision sometimes returns rotated quads; bounds must still be the
	// axis-aligned envelope.
	vertices := []*visionpb.Vertex{
		{X: 110, Y: 50}, {X: 200, Y: 60}, {X: 195, Y: 80}, {X: 105, Y: 70},
	}

	x1, y1, x2, y2 := verticesBounds(vertices)

	if x1 != 105 || y1 != 50 || x2 != 200 || y2 != 80 {
		t.Errorf("Bounds = (%d,%d)-(%d,%d), want (105,50)-(200,80)", x1, y1, x2, y2)
	}
}

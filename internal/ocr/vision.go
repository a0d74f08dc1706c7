package ocr

import (
	"context"
	"fmt"
	"os"

	vision "cloud.google.com/go/vision/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
)

// Vision is an Engine backed by the Google Cloud Vision document text
// API. It handles hand-lettered annotations and low-contrast scans far
// better than Tesseract, at the cost of a network round trip per drawing
// and GOOGLE_APPLICATION_CREDENTIALS being configured.
type Vision struct {
	client *vision.ImageAnnotatorClient
}

// NewVision creates a Vision engine, dialing the API with ambient
// credentials. Close the engine when done.
func NewVision(ctx context.Context) (*Vision, error) {
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &Vision{client: client}, nil
}

// Name implements Engine.
func (v *Vision) Name() string { return "google-vision" }

// Close releases the underlying API connection.
func (v *Vision) Close() error {
	return v.client.Close()
}

// Recognize extracts paragraph-level fragments from the image file at
// imagePath using document text detection.
//
// Returns:
//   - []Fragment: One fragment per detected paragraph. Paragraph text is
//     the words joined with spaces; confidence is the mean of the word
//     confidences. Empty when the drawing has no readable text.
//   - error: Non-nil if the file cannot be read or the API call fails.
//
// Paragraph granularity suits drawing labels: a feeder notation like
// "225AF/110AT" arrives as one fragment instead of several word shards
// that downstream assembly would have to stitch back together.
func (v *Vision) Recognize(ctx context.Context, imagePath string) ([]Fragment, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := vision.NewImageFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	annotation, err := v.client.DetectDocumentText(ctx, img, nil)
	if err != nil {
		return nil, fmt.Errorf("document text detection failed: %w", err)
	}
	if annotation == nil {
		return []Fragment{}, nil
	}

	return fragmentsFromAnnotation(annotation), nil
}

// fragmentsFromAnnotation flattens a full text annotation into
// paragraph-level fragments.
func fragmentsFromAnnotation(annotation *visionpb.TextAnnotation) []Fragment {
	frags := make([]Fragment, 0)
	for _, page := range annotation.GetPages() {
		for _, block := range page.GetBlocks() {
			for _, para := range block.GetParagraphs() {
				frag, ok := paragraphFragment(para)
				if ok {
					frags = append(frags, frag)
				}
			}
		}
	}
	return frags
}

// paragraphFragment assembles one paragraph's words into a fragment.
func paragraphFragment(para *visionpb.Paragraph) (Fragment, bool) {
	text := ""
	confSum := 0.0
	words := 0
	for _, word := range para.GetWords() {
		for _, sym := range word.GetSymbols() {
			text += sym.GetText()
		}
		text += " "
		confSum += float64(word.GetConfidence())
		words++
	}
	if words == 0 {
		return Fragment{}, false
	}
	// Trim the trailing join space
	text = text[:len(text)-1]
	if text == "" {
		return Fragment{}, false
	}

	x1, y1, x2, y2 := verticesBounds(para.GetBoundingBox().GetVertices())
	return Fragment{
		Text:       text,
		X:          x1,
		Y:          y1,
		Width:      x2 - x1,
		Height:     y2 - y1,
		Confidence: confSum / float64(words),
	}, true
}

// verticesBounds returns the axis-aligned bounds of a bounding polygon.
func verticesBounds(vertices []*visionpb.Vertex) (x1, y1, x2, y2 int) {
	if len(vertices) == 0 {
		return 0, 0, 0, 0
	}
	x1, y1 = int(vertices[0].GetX()), int(vertices[0].GetY())
	x2, y2 = x1, y1
	for _, v := range vertices[1:] {
		x, y := int(v.GetX()), int(v.GetY())
		if x < x1 {
			x1 = x
		}
		if x > x2 {
			x2 = x
		}
		if y < y1 {
			y1 = y
		}
		if y > y2 {
			y2 = y
		}
	}
	return x1, y1, x2, y2
}

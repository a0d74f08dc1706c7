package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Tesseract is an Engine backed by a local Tesseract installation. It
// needs no network access and no credentials, which makes it the default
// engine, but scanned drawings with noisy backgrounds recognize noticeably
// worse than with a cloud engine.
type Tesseract struct {
	// Language is the Tesseract language code, e.g. "eng". The matching
	// language data must be installed on the system.
	Language string
}

// NewTesseract returns a Tesseract engine for the given language,
// defaulting to English.
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{Language: language}
}

// Name implements Engine.
func (t *Tesseract) Name() string { return "tesseract" }

// Recognize extracts word-level fragments from the image file at imagePath.
//
// Parameters:
//   - ctx: Checked before the recognition starts. Tesseract itself cannot
//     be interrupted mid-run.
//   - imagePath: Absolute path to the image file. Supports PNG, JPEG,
//     TIFF, BMP.
//
// Returns:
//   - []Fragment: One fragment per recognized word, empty words dropped.
//     Confidence is normalized from Tesseract's 0-100 scale to [0, 1].
//   - error: Non-nil if the image cannot be loaded or OCR fails.
//
// # Word-Level Results
//
// Fragments use Tesseract's RIL_WORD iterator level. If word-level
// bounding box extraction fails, which can happen with some Tesseract
// configurations, an empty slice is returned without error.
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) ([]Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.Language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return []Fragment{}, nil
	}

	frags := make([]Fragment, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		frags = append(frags, Fragment{
			Text:       box.Word,
			X:          box.Box.Min.X,
			Y:          box.Box.Min.Y,
			Width:      box.Box.Dx(),
			Height:     box.Box.Dy(),
			Confidence: float64(box.Confidence) / 100.0,
		})
	}
	return frags, nil
}

// RecognizeRegion performs OCR on a rectangular region of an in-memory
// image. The region is cropped, written to a temporary PNG (Tesseract
// needs a file path), recognized, and the fragments are shifted back into
// original-image coordinates.
func (t *Tesseract) RecognizeRegion(ctx context.Context, img image.Image, x1, y1, x2, y2 int) ([]Fragment, error) {
	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))

	tmpFile, err := os.CreateTemp("", "takeoff-ocr-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, cropped); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to encode temp image: %w", err)
	}
	tmpFile.Close()

	frags, err := t.Recognize(ctx, tmpPath)
	if err != nil {
		return nil, err
	}

	for i := range frags {
		frags[i].X += x1
		frags[i].Y += y1
	}
	return frags, nil
}

// Package ocr extracts text fragments from drawing images.
//
// Two engines implement the Engine interface:
//
//   - Tesseract: local OCR via gosseract/v2. No network, no credentials,
//     lower accuracy on noisy scans. Word-level fragments.
//   - Vision: Google Cloud Vision document text detection. Much better on
//     scanned and hand-annotated drawings. Paragraph-level fragments.
//
// # Prerequisites
//
// The Tesseract engine requires a system Tesseract installation:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The Vision engine requires GOOGLE_APPLICATION_CREDENTIALS pointing to a
// service account key with the Vision API enabled.
//
// # Fragments
//
// Both engines produce Fragment values: text plus a bounding box in image
// pixel coordinates and a confidence in [0, 1]. Downstream packages
// assemble fragments into logical blocks and parse electrical notations
// out of them, so the granularity difference between the engines matters
// mostly for the assembly step, which merges word shards back together.
//
// # Error Handling
//
// A drawing with no readable text yields an empty fragment slice, not an
// error. Errors are reserved for missing files, engine initialization
// failures, and failed API calls.
package ocr

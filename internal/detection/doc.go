// Package detection extracts geometric primitives from scanned single-line
// electrical drawings.
//
// This package implements the first stage of the drawing analysis pipeline:
// converting a raster image into unlabelled primitives with no knowledge of
// drawing semantics. Three detectors are provided:
//
//   - Equipment boxes: Rectangular regions (switchboards, panels, transformers)
//     found via adaptive binarization, dilation, and contour analysis
//   - Connection lines: Feeder segments found via Canny edges and a Hough
//     line transform, filtered to favor few, long, angled lines
//   - Text regions: Label-like blobs found via Otsu thresholding and a wide
//     horizontal dilation that merges glyphs into word-shaped components
//
// # Algorithm Overview
//
// All three detectors follow a similar pipeline:
//
//  1. Grayscale conversion using ITU-R BT.601 luminance weights
//  2. Binarization (adaptive local-mean or Otsu, both inverted so ink is the
//     foreground) or edge detection (Canny) depending on the detector
//  3. Morphological dilation to merge nearby strokes into whole components
//  4. Connected-component extraction via flood fill
//  5. Filtering by area, aspect ratio, length, or angle bands
//
// # Tuning Philosophy
//
// The filters intentionally trade recall for precision. A switchboard drawn
// with internal compartment lines must come out as ONE box, not a dozen, so
// box detection dilates aggressively and rejects small contours. Sheet borders
// and hatching are almost always axis-aligned, so line detection rejects
// near-horizontal and near-vertical segments unless they are long enough to
// be an obvious feeder run. A primitive that fails a filter is silently
// dropped; the acceptance bands are heuristics, not correctness boundaries.
//
// # Coordinate System
//
// All coordinates use the standard image convention: origin (0, 0) at the
// top-left corner, X increasing rightward, Y increasing downward.
//
// # Failure Semantics
//
// "Nothing found" is a valid result. Every detector returns an empty result
// with a nil error on sparse or blank images. Errors are reserved for
// infrastructure failures and are surfaced by the image loader, not here.
//
// # Determinism
//
// The geometric stages contain no randomness. Running a detector twice on
// the same image yields identical results.
package detection

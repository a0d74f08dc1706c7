// Package imaging handles loading and caching of scanned drawing sheets.
//
// The central type is SheetCache, a thread-safe decode-once cache keyed by
// file path. Every analysis stage that needs pixels goes through it, so a
// sheet is decoded exactly once no matter how many detectors and OCR crops
// touch it. LoadSheetInfo reports dimensions, format, color depth, and
// file size without a second decode.
//
// Supported formats are PNG, JPEG, and GIF, registered via the standard
// library decoders.
package imaging

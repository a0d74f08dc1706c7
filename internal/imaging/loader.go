package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sync"
)

// SheetCache provides thread-safe caching of decoded drawing sheets.
//
// Scanned drawings run 5-50 MB decoded, and one analysis touches the same
// sheet several times: box detection, line detection, text regions, region
// OCR crops. The cache decodes once per path and hands the same image back
// to every stage.
//
// SheetCache is safe for concurrent use by multiple goroutines, which is
// what batch analysis relies on.
//
// # Memory Management
//
// Cached sheets remain in memory until removed via Evict or Clear. Batch
// runs should Evict each sheet once its analysis completes, otherwise a
// 50-drawing set holds every decoded scan at once.
type SheetCache struct {
	mu     sync.RWMutex
	sheets map[string]image.Image
}

// NewSheetCache creates an empty sheet cache ready for concurrent use.
func NewSheetCache() *SheetCache {
	return &SheetCache{
		sheets: make(map[string]image.Image),
	}
}

// Load retrieves a sheet from the cache or decodes it from disk.
//
// Parameters:
//   - path: File path to the drawing image. Supported formats are PNG,
//     JPEG, and GIF.
//
// Returns:
//   - image.Image: The decoded sheet. The concrete type depends on the
//     format and color model.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// The sheet is cached under the exact path string provided, so relative
// and absolute paths to the same file occupy separate entries.
func (c *SheetCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.sheets[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open drawing: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode drawing: %w", err)
	}

	c.mu.Lock()
	c.sheets[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all sheets from the cache, freeing the associated memory.
func (c *SheetCache) Clear() {
	c.mu.Lock()
	c.sheets = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes one sheet by its path. If the path is not cached, Evict
// does nothing.
func (c *SheetCache) Evict(path string) {
	c.mu.Lock()
	delete(c.sheets, path)
	c.mu.Unlock()
}

// SheetInfo contains metadata about a drawing file.
type SheetInfo struct {
	// Width and Height are the sheet dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is the detected image format: "png", "jpeg", "gif", or
	// "unknown". Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the sheet has an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadSheetInfo loads a drawing through the cache and returns its
// metadata: dimensions, format, color depth, alpha presence, and file
// size.
//
// Color depth comes from the decoded Go image type: *image.RGBA64,
// *image.NRGBA64, and *image.Gray16 report "16-bit", everything else
// "8-bit".
func LoadSheetInfo(cache *SheetCache, path string) (*SheetInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch filepath.Ext(path) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	return &SheetInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}

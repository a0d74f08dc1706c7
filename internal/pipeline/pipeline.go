// Package pipeline orchestrates a full drawing analysis: detection,
// OCR, topology assembly, notation parsing, and code validation. Stages
// run strictly in sequence for one drawing; batches run drawings
// concurrently since they share nothing but the sheet cache.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fieldwise/takeoff/internal/assemble"
	"github.com/fieldwise/takeoff/internal/config"
	"github.com/fieldwise/takeoff/internal/detection"
	"github.com/fieldwise/takeoff/internal/imaging"
	"github.com/fieldwise/takeoff/internal/notation"
	"github.com/fieldwise/takeoff/internal/ocr"
	"github.com/fieldwise/takeoff/internal/topology"
	"github.com/fieldwise/takeoff/internal/validate"
)

// Result aggregates everything one analysis produced. Collections may be
// empty: a blank drawing analyzes successfully and yields an empty
// result, not an error. Errors are reserved for infrastructure failures
// such as an unreadable file or an unavailable OCR engine.
type Result struct {
	Path string `json:"path"`

	// Sheet carries the drawing file's metadata: dimensions, format,
	// color depth, size on disk.
	Sheet *imaging.SheetInfo `json:"sheet,omitempty"`

	Topology *topology.Topology `json:"topology"`
	Blocks   []assemble.Block   `json:"blocks"`
	Specs    *notation.Specs    `json:"specs"`
	Findings []validate.Finding `json:"findings"`

	// ElapsedMS is the wall-clock analysis time.
	ElapsedMS int64 `json:"elapsed_ms"`
}

// BatchResult pairs one drawing of a batch with its outcome.
type BatchResult struct {
	Path   string  `json:"path"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`

	// Error carries Err's message into JSON responses.
	Error string `json:"error,omitempty"`
}

// Pipeline runs drawing analyses.
type Pipeline struct {
	cache  *imaging.SheetCache
	engine ocr.Engine
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a pipeline. A nil logger falls back to slog.Default.
func New(cache *imaging.SheetCache, engine ocr.Engine, cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cache:  cache,
		engine: engine,
		cfg:    cfg,
		logger: logger,
	}
}

// Analyze runs the full pipeline on one drawing file.
//
// Parameters:
//   - ctx: Bounds the whole analysis. The OCR stage additionally gets
//     its own timeout from the config, since a hung engine call is the
//     only stage that can stall indefinitely.
//   - path: Path to the drawing image.
//
// Returns:
//   - *Result: The aggregate, never nil on success.
//   - error: Non-nil only for infrastructure failures.
func (p *Pipeline) Analyze(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	img, err := p.cache.Load(path)
	if err != nil {
		return nil, err
	}
	info, err := imaging.LoadSheetInfo(p.cache, path)
	if err != nil {
		return nil, err
	}

	boxes, err := detection.DetectEquipmentBoxes(img, p.cfg.Detection.BoxMinArea, p.cfg.Detection.BoxMaxArea)
	if err != nil {
		return nil, fmt.Errorf("box detection failed: %w", err)
	}
	lines, err := detection.DetectConnectionLines(img, p.cfg.Detection.LineMinLength)
	if err != nil {
		return nil, fmt.Errorf("line detection failed: %w", err)
	}
	texts, err := detection.DetectTextRegions(img)
	if err != nil {
		return nil, fmt.Errorf("text region detection failed: %w", err)
	}

	ocrCtx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.OCR.TimeoutSeconds)*time.Second)
	defer cancel()
	frags, err := p.engine.Recognize(ocrCtx, path)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	result := p.process(boxes.Boxes, lines.Lines, texts.Regions, frags)
	result.Path = path
	result.Sheet = info
	result.ElapsedMS = time.Since(start).Milliseconds()

	p.logger.Info("drawing analyzed",
		"path", path,
		"boxes", len(result.Topology.Boxes),
		"lines", len(result.Topology.Lines),
		"blocks", len(result.Blocks),
		"specs", result.Specs.Count(),
		"findings", len(result.Findings),
		"elapsed_ms", result.ElapsedMS)
	return result, nil
}

// process runs the pixel-free stages on detection and OCR output.
func (p *Pipeline) process(boxes []detection.Box, lines []detection.Line, texts []detection.TextRegion, frags []ocr.Fragment) *Result {
	topo := topology.Build(boxes, lines, texts,
		p.cfg.Topology.TextLineThreshold, p.cfg.Topology.LineBoxThreshold)

	blocks := assemble.Assemble(frags, assemble.Config{
		Vertical:       p.cfg.Assembly.Vertical,
		TableAlignment: p.cfg.Assembly.TableAlignment,
		Gap:            p.cfg.Assembly.Gap,
	})

	specs := notation.Parse(blocks)

	return &Result{
		Topology: topo,
		Blocks:   blocks,
		Specs:    specs,
		Findings: crossCheck(specs),
	}
}

// crossCheck validates every wire gauge against every bucket trip on the
// drawing. Without per-feeder wiring between notations this is
// deliberately pessimistic: a gauge adequate for every breaker on the
// sheet raises nothing, and anything flagged names a pairing an engineer
// can dismiss in seconds.
func crossCheck(specs *notation.Specs) []validate.Finding {
	findings := make([]validate.Finding, 0)
	for _, w := range specs.Wires {
		for _, b := range specs.Buckets {
			if f := validate.CheckWireAmpacity(w.Gauge, b.Trip, w.X, w.Y); f != nil {
				findings = append(findings, *f)
			}
		}
	}
	return findings
}

// AnalyzeBatch analyzes independent drawings concurrently. Results come
// back in input order; one failed drawing does not stop the others.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, paths []string) []BatchResult {
	results := make([]BatchResult, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			res, err := p.Analyze(ctx, path)
			if err != nil {
				results[i] = BatchResult{Path: path, Err: err, Error: err.Error()}
				return
			}
			results[i] = BatchResult{Path: path, Result: res}
		}(i, path)
	}
	wg.Wait()
	return results
}

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fieldwise/takeoff/internal/export"
	"github.com/fieldwise/takeoff/internal/nec"
	"github.com/fieldwise/takeoff/internal/pipeline"
	"github.com/fieldwise/takeoff/internal/scale"
)

// HealthHandler serves the root and health endpoints.
type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

func (h *HealthHandler) HandleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "takeoff",
		"version": h.version,
	})
}

func (h *HealthHandler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// AnalyzeHandler serves drawing analysis and export endpoints.
type AnalyzeHandler struct {
	pipeline  *pipeline.Pipeline
	exporter  *export.Service
	logger    *slog.Logger
	uploadDir string
	maxBatch  int
}

func NewAnalyzeHandler(p *pipeline.Pipeline, exp *export.Service, logger *slog.Logger, uploadDir string, maxBatch int) *AnalyzeHandler {
	return &AnalyzeHandler{
		pipeline:  p,
		exporter:  exp,
		logger:    logger,
		uploadDir: uploadDir,
		maxBatch:  maxBatch,
	}
}

// saveUpload writes one multipart file to the upload directory under a
// fresh UUID name, preserving the original extension so the image decoder
// registry picks the right format.
func (h *AnalyzeHandler) saveUpload(file *multipartFile) (string, error) {
	dir := h.uploadDir
	if dir == "" {
		dir = os.TempDir()
	}

	ext := strings.ToLower(filepath.Ext(file.name))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif":
	default:
		return "", NewBadRequestError(fmt.Sprintf("unsupported file type %q", ext), nil)
	}

	path := filepath.Join(dir, uuid.New().String()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", NewInternalError("failed to store upload", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file.reader); err != nil {
		os.Remove(path)
		return "", NewInternalError("failed to store upload", err)
	}
	return path, nil
}

type multipartFile struct {
	name   string
	reader io.Reader
}

// HandleAnalyzeDrawing accepts one drawing as multipart form field
// "file", runs the full analysis, and returns the aggregate result.
func (h *AnalyzeHandler) HandleAnalyzeDrawing(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("multipart field \"file\" is required", err)
	}

	src, err := fh.Open()
	if err != nil {
		return NewBadRequestError("failed to read upload", err)
	}
	defer src.Close()

	path, err := h.saveUpload(&multipartFile{name: fh.Filename, reader: src})
	if err != nil {
		return err
	}
	defer os.Remove(path)

	result, err := h.pipeline.Analyze(c.Request().Context(), path)
	if err != nil {
		return analysisError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"drawing": fh.Filename,
		"result":  result,
	})
}

// analysisError maps a pipeline failure to an API error. A timed-out OCR
// stage means the engine is unavailable, not that the request was bad.
func analysisError(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewServiceUnavailableError("OCR engine timed out")
	}
	return NewInternalError("analysis failed", err)
}

// HandleBatchAnalyze accepts multiple drawings as multipart form field
// "files" and analyzes them concurrently.
func (h *AnalyzeHandler) HandleBatchAnalyze(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return NewBadRequestError("multipart form is required", err)
	}

	files := form.File["files"]
	if len(files) == 0 {
		return NewBadRequestError("multipart field \"files\" is required", nil)
	}
	if len(files) > h.maxBatch {
		return NewBadRequestError(fmt.Sprintf("maximum %d files per batch", h.maxBatch), nil)
	}

	paths := make([]string, 0, len(files))
	names := make(map[string]string)
	defer func() {
		for _, p := range paths {
			os.Remove(p)
		}
	}()

	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return NewBadRequestError("failed to read upload", err)
		}
		path, saveErr := h.saveUpload(&multipartFile{name: fh.Filename, reader: src})
		src.Close()
		if saveErr != nil {
			return saveErr
		}
		paths = append(paths, path)
		names[path] = fh.Filename
	}

	results := h.pipeline.AnalyzeBatch(c.Request().Context(), paths)
	for i := range results {
		results[i].Path = names[results[i].Path]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"total":   len(results),
		"results": results,
	})
}

// HandleExportTakeoff analyzes an uploaded drawing and streams back the
// material takeoff workbook.
func (h *AnalyzeHandler) HandleExportTakeoff(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("multipart field \"file\" is required", err)
	}
	project := c.FormValue("project")
	if project == "" {
		project = "Construction Project"
	}

	src, err := fh.Open()
	if err != nil {
		return NewBadRequestError("failed to read upload", err)
	}
	defer src.Close()

	path, err := h.saveUpload(&multipartFile{name: fh.Filename, reader: src})
	if err != nil {
		return err
	}
	defer os.Remove(path)

	result, err := h.pipeline.Analyze(c.Request().Context(), path)
	if err != nil {
		return analysisError(err)
	}

	to := export.FromSpecs(project, fh.Filename, result.Specs)
	buf, err := h.exporter.Workbook(to)
	if err != nil {
		return NewInternalError("takeoff export failed", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", "takeoff-"+fh.Filename+".xlsx"))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// NECHandler serves the code quick-reference endpoints.
type NECHandler struct{}

func NewNECHandler() *NECHandler {
	return &NECHandler{}
}

// HandleLookup resolves one article, falling back to a partial-match
// search. Misses return found=false with a search suggestion rather than
// a 404: the client asked a question and got an answer.
func (h *NECHandler) HandleLookup(c echo.Context) error {
	article := c.Param("article")

	if desc, ok := nec.Lookup(article); ok {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"article":     article,
			"description": desc,
			"found":       true,
		})
	}

	if matches := nec.Search(article); len(matches) > 0 {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"article": article,
			"matches": matches,
			"found":   true,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"article":     article,
		"description": "Article not found in quick reference",
		"found":       false,
		"suggestion":  nec.Suggestion,
	})
}

func (h *NECHandler) HandleAll(c echo.Context) error {
	refs := nec.All()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total": len(refs),

		// JSON objects have no order; clients iterate this instead.
		"articles":   nec.Articles(),
		"references": refs,
	})
}

// ScaleHandler serves scale calibration.
type ScaleHandler struct{}

func NewScaleHandler() *ScaleHandler {
	return &ScaleHandler{}
}

// CalibrateRequest is the JSON body for HandleCalibrate.
type CalibrateRequest struct {
	X1            float64 `json:"x1"`
	Y1            float64 `json:"y1"`
	X2            float64 `json:"x2"`
	Y2            float64 `json:"y2"`
	KnownDistance float64 `json:"known_distance"`
	Unit          string  `json:"unit"`
}

func (h *ScaleHandler) HandleCalibrate(c echo.Context) error {
	var req CalibrateRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid calibration request", err)
	}

	unit := scale.Unit(req.Unit)
	if req.Unit == "" {
		unit = scale.UnitFeet
	}

	cal, err := scale.Calibrate(req.X1, req.Y1, req.X2, req.Y2, req.KnownDistance, unit)
	if err != nil {
		return NewBadRequestError("calibration failed", err)
	}
	return c.JSON(http.StatusOK, cal)
}

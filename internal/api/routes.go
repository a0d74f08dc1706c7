// routes.go - Route registration helpers
package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/fieldwise/takeoff/internal/export"
	"github.com/fieldwise/takeoff/internal/pipeline"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Pipeline *pipeline.Pipeline
	Exporter *export.Service
	Logger   *slog.Logger
	Version  string

	// UploadDir receives drawing uploads before analysis. Empty means
	// the system temp directory.
	UploadDir string

	// MaxBatchFiles caps a batch analysis request. Zero means the
	// default of 50.
	MaxBatchFiles int
}

// Handlers holds all handler instances
type Handlers struct {
	Health  *HealthHandler
	Analyze *AnalyzeHandler
	NEC     *NECHandler
	Scale   *ScaleHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBatch := deps.MaxBatchFiles
	if maxBatch == 0 {
		maxBatch = 50
	}
	return &Handlers{
		Health:  NewHealthHandler(deps.Version),
		Analyze: NewAnalyzeHandler(deps.Pipeline, deps.Exporter, logger, deps.UploadDir, maxBatch),
		NEC:     NewNECHandler(),
		Scale:   NewScaleHandler(),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/", handlers.Health.HandleRoot)
	e.GET("/health", handlers.Health.HandleHealth)

	e.POST("/analyze-drawing", handlers.Analyze.HandleAnalyzeDrawing)
	e.POST("/batch-analyze", handlers.Analyze.HandleBatchAnalyze)
	e.POST("/export-takeoff", handlers.Analyze.HandleExportTakeoff)

	e.POST("/calibrate-scale", handlers.Scale.HandleCalibrate)

	e.GET("/nec-lookup/:article", handlers.NEC.HandleLookup)
	e.GET("/nec-all", handlers.NEC.HandleAll)
}

// SetupMiddleware configures the error handler
func SetupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler
}

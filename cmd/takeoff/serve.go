package main

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/fieldwise/takeoff/internal/api"
	"github.com/fieldwise/takeoff/internal/export"
	"github.com/fieldwise/takeoff/internal/imaging"
	"github.com/fieldwise/takeoff/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the drawing analysis HTTP API",
	RunE:  runServe,
}

var (
	listenAddr string
	uploadDir  string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&uploadDir, "upload-dir", "", "Directory for uploaded drawings (default: system temp)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, closeEngine, err := buildEngine(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize OCR engine %q: %w", cfg.OCR.Engine, err)
	}
	defer closeEngine()

	logger := slog.Default()
	p := pipeline.New(imaging.NewSheetCache(), engine, cfg, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	api.SetupMiddleware(e)

	handlers := api.NewHandlers(&api.Dependencies{
		Pipeline:  p,
		Exporter:  export.NewService(logger),
		Logger:    logger,
		Version:   Version,
		UploadDir: uploadDir,
	})
	api.RegisterRoutes(e, handlers)

	addr := listenAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	logger.Info("starting server", "addr", addr, "ocr_engine", engine.Name())
	return e.Start(addr)
}

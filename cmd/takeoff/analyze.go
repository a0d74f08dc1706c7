package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldwise/takeoff/internal/config"
	"github.com/fieldwise/takeoff/internal/export"
	"github.com/fieldwise/takeoff/internal/imaging"
	"github.com/fieldwise/takeoff/internal/ocr"
	"github.com/fieldwise/takeoff/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [drawings...]",
	Short: "Analyze drawing files and print results as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

var (
	excelOut    string
	projectName string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&excelOut, "excel", "x", "", "Write a material takeoff workbook to this path")
	analyzeCmd.Flags().StringVar(&projectName, "project", "Construction Project", "Project name for the takeoff workbook")
}

// loadConfig resolves the --config flag, defaulting when absent.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// buildEngine constructs the configured OCR engine.
func buildEngine(ctx context.Context, cfg *config.Config) (ocr.Engine, func(), error) {
	switch cfg.OCR.Engine {
	case "google-vision":
		v, err := ocr.NewVision(ctx)
		if err != nil {
			return nil, nil, err
		}
		return v, func() { v.Close() }, nil
	default:
		return ocr.NewTesseract(cfg.OCR.Language), func() {}, nil
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, closeEngine, err := buildEngine(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize OCR engine %q: %w", cfg.OCR.Engine, err)
	}
	defer closeEngine()

	p := pipeline.New(imaging.NewSheetCache(), engine, cfg, slog.Default())

	if len(args) == 1 {
		result, err := p.Analyze(ctx, args[0])
		if err != nil {
			return err
		}
		if excelOut != "" {
			if err := writeTakeoff(result, args[0]); err != nil {
				return err
			}
		}
		return printJSON(result)
	}

	results := p.AnalyzeBatch(ctx, args)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			slog.Error("drawing failed", "path", r.Path, "err", r.Err)
		}
	}
	if err := printJSON(results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d drawings failed", failed, len(results))
	}
	return nil
}

func writeTakeoff(result *pipeline.Result, drawing string) error {
	to := export.FromSpecs(projectName, drawing, result.Specs)
	buf, err := export.NewService(slog.Default()).Workbook(to)
	if err != nil {
		return err
	}
	if err := os.WriteFile(excelOut, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	slog.Info("takeoff workbook written", "path", excelOut)
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

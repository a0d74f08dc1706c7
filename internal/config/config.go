// Package config loads analysis settings from a YAML file, falling back
// to defaults tuned on scanned single-line diagrams at roughly 150 DPI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all tunable settings for drawing analysis.
type Config struct {
	Detection DetectionConfig `yaml:"detection"`
	Topology  TopologyConfig  `yaml:"topology"`
	Assembly  AssemblyConfig  `yaml:"assembly"`
	OCR       OCRConfig       `yaml:"ocr"`
	Server    ServerConfig    `yaml:"server"`
}

// DetectionConfig bounds the detectors' filter bands.
type DetectionConfig struct {
	// BoxMinArea and BoxMaxArea bound equipment box candidates in square
	// pixels, exclusive on both ends.
	BoxMinArea int `yaml:"box_min_area"`
	BoxMaxArea int `yaml:"box_max_area"`

	// LineMinLength is the minimum feeder line length in pixels.
	LineMinLength int `yaml:"line_min_length"`
}

// TopologyConfig holds the association distance thresholds in pixels.
type TopologyConfig struct {
	TextLineThreshold float64 `yaml:"text_line_threshold"`
	LineBoxThreshold  float64 `yaml:"line_box_threshold"`
}

// AssemblyConfig holds the text assembly thresholds in pixels.
type AssemblyConfig struct {
	Vertical       int `yaml:"vertical"`
	TableAlignment int `yaml:"table_alignment"`
	Gap            int `yaml:"gap"`
}

// OCRConfig selects and tunes the text recognition engine.
type OCRConfig struct {
	// Engine is "tesseract" or "google-vision".
	Engine string `yaml:"engine"`

	// Language is the Tesseract language code.
	Language string `yaml:"language"`

	// TimeoutSeconds bounds a single recognition call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// ServerConfig holds the HTTP listen settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the settings used when no config file is given.
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			BoxMinArea:    5000,
			BoxMaxArea:    100000,
			LineMinLength: 100,
		},
		Topology: TopologyConfig{
			TextLineThreshold: 30,
			LineBoxThreshold:  20,
		},
		Assembly: AssemblyConfig{
			Vertical:       15,
			TableAlignment: 10,
			Gap:            5,
		},
		OCR: OCRConfig{
			Engine:         "tesseract",
			Language:       "eng",
			TimeoutSeconds: 120,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads a YAML config file on top of the defaults, so a file only
// needs to name the settings it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Detection.BoxMinArea <= 0 || c.Detection.BoxMaxArea <= c.Detection.BoxMinArea {
		return fmt.Errorf("invalid box area band (%d, %d)", c.Detection.BoxMinArea, c.Detection.BoxMaxArea)
	}
	if c.Detection.LineMinLength <= 0 {
		return fmt.Errorf("line min length must be positive, got %d", c.Detection.LineMinLength)
	}
	if c.Topology.TextLineThreshold <= 0 || c.Topology.LineBoxThreshold <= 0 {
		return fmt.Errorf("association thresholds must be positive")
	}
	if c.OCR.TimeoutSeconds <= 0 {
		return fmt.Errorf("OCR timeout must be positive, got %d", c.OCR.TimeoutSeconds)
	}
	switch c.OCR.Engine {
	case "tesseract", "google-vision":
	default:
		return fmt.Errorf("unknown OCR engine %q", c.OCR.Engine)
	}
	return nil
}

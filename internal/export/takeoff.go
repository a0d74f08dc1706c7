// Package export renders analysis results into an Excel material takeoff
// workbook, laid out the way estimators build them by hand: a Summary
// sheet plus Equipment, Wire & Cable, and Conduit & Fittings tabs with
// item rows and SUM totals.
package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fieldwise/takeoff/internal/notation"
)

// Item is one takeoff line: a piece of equipment, a wire run, or a
// conduit run.
type Item struct {
	Number      string
	Description string
	Rating      string
	Quantity    float64
	Unit        string
	LaborHours  float64
	Notes       string
}

// Takeoff is the material list for one drawing.
type Takeoff struct {
	ProjectName string
	DrawingName string

	Equipment []Item
	Wire      []Item
	Conduit   []Item
}

// Service writes takeoff workbooks.
type Service struct {
	logger *slog.Logger
}

// NewService creates an export service. A nil logger falls back to
// slog.Default.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// FromSpecs builds a takeoff from parsed notations. Buckets become
// equipment lines, wire specs become wire runs, and each wire run brings
// an EMT conduit run of the same footage.
func FromSpecs(projectName, drawingName string, specs *notation.Specs) *Takeoff {
	to := &Takeoff{
		ProjectName: projectName,
		DrawingName: drawingName,
	}

	for i, b := range specs.Buckets {
		to.Equipment = append(to.Equipment, Item{
			Number:      fmt.Sprintf("E-%d", i+1),
			Description: fmt.Sprintf("Breaker %dAF/%d%s", b.Frame, b.Trip, b.TripType),
			Rating:      fmt.Sprintf("%dA", b.Trip),
			Quantity:    1,
			Unit:        "EA",
			Notes:       b.Text,
		})
	}
	for i, p := range specs.Panels {
		to.Equipment = append(to.Equipment, Item{
			Number:      fmt.Sprintf("P-%d", i+1),
			Description: fmt.Sprintf("Panelboard %s", p.Panel),
			Quantity:    1,
			Unit:        "EA",
			Notes:       p.Text,
		})
	}
	for i, w := range specs.Wires {
		size := "#" + w.Gauge
		if w.KCMil {
			size = w.Gauge + " kcmil"
		}
		to.Wire = append(to.Wire, Item{
			Number:      fmt.Sprintf("W-%d", i+1),
			Description: size,
			Unit:        "FT",
			Notes:       w.Text,
		})
		to.Conduit = append(to.Conduit, Item{
			Number:      fmt.Sprintf("C-%d", i+1),
			Description: "EMT",
			Unit:        "FT",
			Notes:       fmt.Sprintf("Run for %s", size),
		})
	}
	return to
}

// Sheet and layout constants. Item rows start at row 3 and the totals
// live at row 100, matching the template estimators already use, so the
// SUM ranges are fixed.
const (
	sheetSummary   = "Summary"
	sheetEquipment = "Equipment"
	sheetWire      = "Wire & Cable"
	sheetConduit   = "Conduit & Fittings"

	firstItemRow = 3
	totalsRow    = 100
)

// Workbook renders the takeoff into an xlsx workbook held in memory.
//
// Returns:
//   - *bytes.Buffer: The serialized workbook, ready to write to disk or
//     stream over HTTP.
//   - error: Non-nil when sheet construction or serialization fails.
func (s *Service) Workbook(to *Takeoff) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeSummary(f, to); err != nil {
		return nil, err
	}
	if err := s.writeItems(f, sheetEquipment, "ELECTRICAL EQUIPMENT", "TOTAL ITEMS:", to.Equipment); err != nil {
		return nil, err
	}
	if err := s.writeItems(f, sheetWire, "WIRE & CABLE", "TOTAL FOOTAGE:", to.Wire); err != nil {
		return nil, err
	}
	if err := s.writeItems(f, sheetConduit, "CONDUIT & FITTINGS", "TOTAL:", to.Conduit); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("takeoff workbook built",
		"drawing", to.DrawingName,
		"equipment", len(to.Equipment),
		"wire_runs", len(to.Wire),
		"conduit_runs", len(to.Conduit))
	return buf, nil
}

func (s *Service) writeSummary(f *excelize.File, to *Takeoff) error {
	// The default sheet becomes Summary
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	cells := map[string]interface{}{
		"A1": fmt.Sprintf("%s - Material Takeoff", to.ProjectName),
		"A3": "Drawing:",
		"B3": to.DrawingName,
		"A4": "Date:",
		"B4": time.Now().Format("2006-01-02 15:04"),
		"A5": "Prepared by:",
		"B5": "Fieldwise Takeoff - Automated Analysis",
		"A7": "SUMMARY",
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheetSummary, cell, v); err != nil {
			return fmt.Errorf("failed to write summary cell %s: %w", cell, err)
		}
	}

	headers := []string{"Category", "Item Count", "Notes"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 8)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetSummary, cell, h); err != nil {
			return err
		}
	}

	rows := [][]interface{}{
		{"Equipment", len(to.Equipment), "See Equipment tab"},
		{"Wire & Cable", len(to.Wire), "See Wire & Cable tab"},
		{"Conduit", len(to.Conduit), "See Conduit & Fittings tab"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, 9+r)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetSummary, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) writeItems(f *excelize.File, sheet, title, totalLabel string, items []Item) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}

	headers := []string{"Item", "Description", "Rating", "Qty", "Unit", "Labor Hrs", "Notes"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, item := range items {
		row := firstItemRow + i
		values := []interface{}{
			item.Number, item.Description, item.Rating,
			item.Quantity, item.Unit, item.LaborHours, item.Notes,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
			}
		}
	}

	if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", totalsRow), totalLabel); err != nil {
		return err
	}
	qtyRange := fmt.Sprintf("SUM(D%d:D%d)", firstItemRow, totalsRow-1)
	if err := f.SetCellFormula(sheet, fmt.Sprintf("D%d", totalsRow), qtyRange); err != nil {
		return err
	}
	hrsRange := fmt.Sprintf("SUM(F%d:F%d)", firstItemRow, totalsRow-1)
	if err := f.SetCellFormula(sheet, fmt.Sprintf("F%d", totalsRow), hrsRange); err != nil {
		return err
	}
	return nil
}

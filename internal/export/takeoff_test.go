package export

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/fieldwise/takeoff/internal/notation"
)

func sampleSpecs() *notation.Specs {
	return &notation.Specs{
		Buckets: []notation.Spec{
			{Kind: notation.KindBucket, Text: "225AF/110AT", Frame: 225, Trip: 110, TripType: "AT"},
		},
		Wires: []notation.Spec{
			{Kind: notation.KindWire, Text: "600 kcmil", Gauge: "600", KCMil: true},
		},
		Panels: []notation.Spec{
			{Kind: notation.KindPanel, Text: "PP-1", Panel: "PP-1"},
		},
		Ratings: []notation.Spec{},
	}
}

func TestFromSpecs(t *testing.T) {
	to := FromSpecs("Test Project", "E-101", sampleSpecs())

	if len(to.Equipment) != 2 {
		t.Errorf("Got %d equipment items, want 2 (bucket + panel)", len(to.Equipment))
	}
	if len(to.Wire) != 1 {
		t.Errorf("Got %d wire items, want 1", len(to.Wire))
	}
	if len(to.Conduit) != 1 {
		t.Errorf("Got %d conduit items, want 1 (one run per wire spec)", len(to.Conduit))
	}

	// The equipment rating comes from the trip, not the frame
	if to.Equipment[0].Rating != "110A" {
		t.Errorf("Breaker rating = %q, want 110A", to.Equipment[0].Rating)
	}
	if to.Wire[0].Description != "600 kcmil" {
		t.Errorf("Wire description = %q, want 600 kcmil", to.Wire[0].Description)
	}
}

func TestWorkbookSheets(t *testing.T) {
	to := FromSpecs("Test Project", "E-101", sampleSpecs())

	buf, err := NewService(nil).Workbook(to)
	if err != nil {
		t.Fatalf("Workbook failed: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("Failed to reopen workbook: %v", err)
	}
	defer f.Close()

	want := []string{"Summary", "Equipment", "Wire & Cable", "Conduit & Fittings"}
	got := f.GetSheetList()
	for _, sheet := range want {
		found := false
		for _, g := range got {
			if g == sheet {
				found = true
			}
		}
		if !found {
			t.Errorf("Workbook missing sheet %q, got %v", sheet, got)
		}
	}
}

func TestWorkbookContents(t *testing.T) {
	to := FromSpecs("Test Project", "E-101", sampleSpecs())

	buf, err := NewService(nil).Workbook(to)
	if err != nil {
		t.Fatalf("Workbook failed: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("Failed to reopen workbook: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue("Summary", "A1")
	if err != nil {
		t.Fatalf("Failed to read summary title: %v", err)
	}
	if title != "Test Project - Material Takeoff" {
		t.Errorf("Summary title = %q", title)
	}

	drawing, _ := f.GetCellValue("Summary", "B3")
	if drawing != "E-101" {
		t.Errorf("Drawing cell = %q, want E-101", drawing)
	}

	desc, _ := f.GetCellValue("Equipment", "B3")
	if desc != "Breaker 225AF/110AT" {
		t.Errorf("First equipment description = %q", desc)
	}

	formula, err := f.GetCellFormula("Equipment", "D100")
	if err != nil {
		t.Fatalf("Failed to read totals formula: %v", err)
	}
	if formula != "SUM(D3:D99)" {
		t.Errorf("Totals formula = %q, want SUM(D3:D99)", formula)
	}
}

func TestWorkbookEmptyTakeoff(t *testing.T) {
	to := &Takeoff{ProjectName: "Empty", DrawingName: "E-000"}

	buf, err := NewService(nil).Workbook(to)
	if err != nil {
		t.Fatalf("Workbook on empty takeoff failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Workbook buffer is empty")
	}
}

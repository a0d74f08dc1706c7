package assemble

import (
	"testing"

	"github.com/fieldwise/takeoff/internal/ocr"
)

func frag(text string, x, y, w, h int, conf float64) ocr.Fragment {
	return ocr.Fragment{Text: text, X: x, Y: y, Width: w, Height: h, Confidence: conf}
}

func TestAssembleMergesRow(t *testing.T) {
	// "225AF" and "/110AT" shards on the same baseline, 10px apart
	frags := []ocr.Fragment{
		frag("225AF", 100, 50, 50, 16, 0.9),
		frag("/110AT", 160, 52, 60, 16, 0.7),
	}

	blocks := Assemble(frags, DefaultConfig())

	if len(blocks) != 1 {
		t.Fatalf("Got %d blocks, want 1", len(blocks))
	}
	b := blocks[0]
	if b.Text != "225AF /110AT" {
		t.Errorf("Text = %q, want %q", b.Text, "225AF /110AT")
	}
	if b.X != 100 || b.Y != 50 || b.Width != 120 || b.Height != 18 {
		t.Errorf("Bounds = (%d,%d) %dx%d, want (100,50) 120x18", b.X, b.Y, b.Width, b.Height)
	}
	if b.Confidence < 0.79 || b.Confidence > 0.81 {
		t.Errorf("Confidence = %.3f, want mean 0.8", b.Confidence)
	}
	if b.IsTableRow || b.RowNumber != -1 {
		t.Error("A single merged row should not be a table row")
	}
}

func TestAssembleGapSpacing(t *testing.T) {
	// 3px gap: no joining space
	tight := Assemble([]ocr.Fragment{
		frag("225", 100, 50, 30, 16, 0.9),
		frag("AF", 133, 50, 20, 16, 0.9),
	}, DefaultConfig())

	if tight[0].Text != "225AF" {
		t.Errorf("Tight text = %q, want %q", tight[0].Text, "225AF")
	}
}

func TestAssembleSeparateRows(t *testing.T) {
	frags := []ocr.Fragment{
		frag("SWITCHBOARD", 100, 50, 120, 16, 0.9),
		frag("PP-1", 100, 150, 40, 16, 0.9),
	}

	blocks := Assemble(frags, DefaultConfig())

	if len(blocks) != 2 {
		t.Fatalf("Got %d blocks, want 2 for fragments 100px apart vertically", len(blocks))
	}
}

func TestAssembleTableDetection(t *testing.T) {
	// Three aligned schedule rows at the same leading x
	frags := []ocr.Fragment{
		frag("1", 100, 100, 10, 14, 0.9), frag("225AF/110AT", 150, 100, 110, 14, 0.9),
		frag("2", 100, 140, 10, 14, 0.9), frag("225AF/70AT", 150, 140, 100, 14, 0.9),
		frag("3", 100, 180, 10, 14, 0.9), frag("400AF/225AT", 150, 180, 110, 14, 0.9),
	}

	blocks := Assemble(frags, DefaultConfig())

	tableRows := 0
	ordinary := 0
	for _, b := range blocks {
		if b.IsTableRow {
			tableRows++
		} else {
			ordinary++
		}
	}
	if tableRows != 3 {
		t.Errorf("Got %d table rows, want 3", tableRows)
	}
	if ordinary != 0 {
		t.Errorf("Got %d ordinary blocks, want 0: table rows must not be emitted twice", ordinary)
	}

	// Row numbers are zero-based and sequential
	seen := map[int]bool{}
	for _, b := range blocks {
		if b.IsTableRow {
			seen[b.RowNumber] = true
		}
	}
	for n := 0; n < 3; n++ {
		if !seen[n] {
			t.Errorf("Missing table row number %d", n)
		}
	}
}

func TestAssembleTwoRowsNotATable(t *testing.T) {
	frags := []ocr.Fragment{
		frag("225AF/110AT", 100, 100, 110, 14, 0.9),
		frag("225AF/70AT", 100, 140, 100, 14, 0.9),
	}

	blocks := Assemble(frags, DefaultConfig())

	for _, b := range blocks {
		if b.IsTableRow {
			t.Error("Two aligned rows should not form a table; three are required")
		}
	}
}

func TestAssembleMisalignedRowEndsTable(t *testing.T) {
	frags := []ocr.Fragment{
		frag("1", 100, 100, 10, 14, 0.9),
		frag("2", 100, 140, 10, 14, 0.9),
		frag("3", 100, 180, 10, 14, 0.9),
		// Leading x 60px off the running average
		frag("NOTE", 160, 220, 40, 14, 0.9),
	}

	blocks := Assemble(frags, DefaultConfig())

	for _, b := range blocks {
		if b.IsTableRow && b.Text == "NOTE" {
			t.Error("Misaligned row joined the table")
		}
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	blocks := Assemble(nil, DefaultConfig())

	if blocks == nil {
		t.Fatal("Assemble should return an empty slice, not nil")
	}
	if len(blocks) != 0 {
		t.Errorf("Got %d blocks from empty input, want 0", len(blocks))
	}
}

func TestAssembleUnsortedInput(t *testing.T) {
	// Same fragments in reverse order must assemble identically
	a := []ocr.Fragment{
		frag("225AF", 100, 50, 50, 16, 0.9),
		frag("/110AT", 160, 52, 60, 16, 0.7),
	}
	b := []ocr.Fragment{a[1], a[0]}

	blockA := Assemble(a, DefaultConfig())
	blockB := Assemble(b, DefaultConfig())

	if len(blockA) != 1 || len(blockB) != 1 || blockA[0].Text != blockB[0].Text {
		t.Error("Assembly depends on input order")
	}
}

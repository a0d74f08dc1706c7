// Package assemble groups fragmented OCR output into logical text blocks.
//
// OCR engines split drawing labels into word shards: a feeder notation
// like "225AF/110AT" can arrive as "225AF", "/", "110AT". Assembly sorts
// fragments top-to-bottom, merges fragments sharing a baseline into rows,
// detects table structures such as switchboard schedules, and emits one
// block per logical run of text. Downstream notation parsing operates on
// assembled blocks, where the patterns it looks for are whole again.
package assemble

import (
	"sort"
	"strings"

	"github.com/fieldwise/takeoff/internal/ocr"
)

// Block is an assembled run of related text fragments.
type Block struct {
	// Fragments are the source fragments, left to right.
	Fragments []ocr.Fragment `json:"fragments"`

	// Text is the combined text. Fragments separated by more than the
	// gap threshold get a single joining space.
	Text string `json:"text"`

	// Bounding box is the union of the fragment boxes.
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// Confidence is the mean of the fragment confidences.
	Confidence float64 `json:"confidence"`

	// IsTableRow marks blocks recognized as rows of an aligned table,
	// such as a switchboard schedule. RowNumber is the zero-based row
	// index within its table, -1 for ordinary blocks.
	IsTableRow bool `json:"is_table_row"`
	RowNumber  int  `json:"row_number"`
}

// Config holds the assembly distance thresholds in pixels.
type Config struct {
	// Vertical is the max center-to-center y distance for two fragments
	// to share a row.
	Vertical int

	// TableAlignment is the max deviation of a row's leading x from the
	// running average for the row to join a table.
	TableAlignment int

	// Gap is the horizontal distance beyond which adjacent fragments get
	// a joining space.
	Gap int
}

// DefaultConfig returns the thresholds tuned on scanned single-line
// diagrams at roughly 150 DPI.
func DefaultConfig() Config {
	return Config{Vertical: 15, TableAlignment: 10, Gap: 5}
}

// Assemble groups fragments into logical blocks.
//
// Parameters:
//   - frags: OCR fragments in any order.
//   - cfg: Distance thresholds. Use DefaultConfig for scanned drawings.
//
// Returns:
//   - []Block: Ordinary blocks followed by table rows. Never nil.
//
// # Algorithm
//
//  1. Sort fragments by (y, x)
//  2. Merge fragments whose vertical centers are within the vertical
//     threshold into rows, left to right
//  3. Scan rows for tables: a run of 3 or more rows whose column counts
//     stay within 2 of the running average and whose leading x stays
//     within the alignment threshold of the running average
//  4. Emit non-table rows as ordinary blocks and table rows as blocks
//     with IsTableRow set and zero-based RowNumber
//
// A row claimed by a table appears exactly once, as a table row.
func Assemble(frags []ocr.Fragment, cfg Config) []Block {
	if len(frags) == 0 {
		return []Block{}
	}

	sorted := make([]ocr.Fragment, len(frags))
	copy(sorted, frags)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	rows := groupIntoRows(sorted, cfg.Vertical)
	inTable, tables := detectTables(rows, cfg.TableAlignment)

	blocks := make([]Block, 0, len(rows))
	for i, row := range rows {
		if inTable[i] {
			continue
		}
		blocks = append(blocks, mergeRow(row, cfg.Gap))
	}
	for _, table := range tables {
		for rowNum, rowIdx := range table {
			block := mergeRow(rows[rowIdx], cfg.Gap)
			block.IsTableRow = true
			block.RowNumber = rowNum
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// groupIntoRows merges fragments whose vertical centers are close into
// rows, each sorted left to right.
func groupIntoRows(sorted []ocr.Fragment, vertical int) [][]ocr.Fragment {
	rows := make([][]ocr.Fragment, 0)
	current := []ocr.Fragment{sorted[0]}

	for _, frag := range sorted[1:] {
		last := current[len(current)-1]
		yDist := frag.CenterY() - last.CenterY()
		if yDist < 0 {
			yDist = -yDist
		}
		if yDist <= vertical {
			current = append(current, frag)
		} else {
			sortRow(current)
			rows = append(rows, current)
			current = []ocr.Fragment{frag}
		}
	}
	sortRow(current)
	rows = append(rows, current)
	return rows
}

func sortRow(row []ocr.Fragment) {
	sort.Slice(row, func(i, j int) bool { return row[i].X < row[j].X })
}

// detectTables scans rows for aligned runs of 3 or more. It returns a
// per-row membership mask and, per table, the indices of its rows in
// order.
func detectTables(rows [][]ocr.Fragment, alignment int) ([]bool, [][]int) {
	inTable := make([]bool, len(rows))
	tables := make([][]int, 0)

	i := 0
	for i < len(rows) {
		run := tableRun(rows, i, alignment)
		if len(run) >= 3 {
			for _, idx := range run {
				inTable[idx] = true
			}
			tables = append(tables, run)
			i += len(run)
		} else {
			i++
		}
	}
	return inTable, tables
}

// tableRun collects consecutive rows starting at start that stay aligned
// with the rows gathered so far. Scanning is capped at 20 rows per table.
func tableRun(rows [][]ocr.Fragment, start, alignment int) []int {
	run := make([]int, 0)
	colSum := 0
	leadSum := 0

	limit := start + 20
	if limit > len(rows) {
		limit = len(rows)
	}
	for i := start; i < limit; i++ {
		row := rows[i]
		if len(run) > 0 {
			avgCols := float64(colSum) / float64(len(run))
			diff := float64(len(row)) - avgCols
			if diff < 0 {
				diff = -diff
			}
			if diff > 2 {
				break
			}

			avgLead := float64(leadSum) / float64(len(run))
			lead := float64(row[0].X) - avgLead
			if lead < 0 {
				lead = -lead
			}
			if lead > float64(alignment) {
				break
			}
		}
		run = append(run, i)
		colSum += len(row)
		leadSum += row[0].X
	}
	return run
}

// mergeRow combines one row of fragments into a block: joined text, union
// bounding box, mean confidence.
func mergeRow(row []ocr.Fragment, gap int) Block {
	var sb strings.Builder
	minX, minY := row[0].X, row[0].Y
	maxX, maxY := row[0].X+row[0].Width, row[0].Y+row[0].Height
	confSum := 0.0

	for i, frag := range row {
		sb.WriteString(frag.Text)
		if i < len(row)-1 {
			next := row[i+1]
			if next.X-(frag.X+frag.Width) > gap {
				sb.WriteByte(' ')
			}
		}

		if frag.X < minX {
			minX = frag.X
		}
		if frag.Y < minY {
			minY = frag.Y
		}
		if frag.X+frag.Width > maxX {
			maxX = frag.X + frag.Width
		}
		if frag.Y+frag.Height > maxY {
			maxY = frag.Y + frag.Height
		}
		confSum += frag.Confidence
	}

	return Block{
		Fragments:  row,
		Text:       sb.String(),
		X:          minX,
		Y:          minY,
		Width:      maxX - minX,
		Height:     maxY - minY,
		Confidence: confSum / float64(len(row)),
		RowNumber:  -1,
	}
}

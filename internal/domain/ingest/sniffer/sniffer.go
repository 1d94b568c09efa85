// Package sniffer decides which statement layout a file carries
// before any rows are extracted.
package sniffer

import "strings"

// Layout identifies the shape of an uploaded statement.
type Layout string

const (
	// LayoutStandard carries a header row of named columns.
	LayoutStandard Layout = "standard"
	// LayoutBank is the fixed bank export: header on row 7, data
	// below it at known column positions.
	LayoutBank Layout = "bank"
)

// probeRow is where the bank export puts its header, zero-based.
const probeRow = 6

// DetectLayout probes an expanded grid of cells for the bank export
// signature: the probe row starts with the literal "Date" and names a
// "Description" column. Anything else is treated as standard. The
// probe never fails; an empty or short grid is simply standard.
func DetectLayout(grid [][]string) Layout {
	if len(grid) <= probeRow {
		return LayoutStandard
	}
	row := grid[probeRow]
	if len(row) == 0 || strings.TrimSpace(row[0]) != "Date" {
		return LayoutStandard
	}
	if !strings.Contains(strings.Join(row, " "), "Description") {
		return LayoutStandard
	}
	return LayoutBank
}

package parser

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WorkbookGrid expands the first sheet of an Excel workbook into rows
// of formatted cell values, the same shape a CSV yields.
func WorkbookGrid(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// CSVGrid expands a delimited payload into rows of cells so layout
// detection can probe it the same way as a workbook.
func CSVGrid(data []byte) ([][]string, error) {
	data = stripBOM(data)
	r := newLenientCSVReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading delimited file: %w", err)
	}
	return records, nil
}

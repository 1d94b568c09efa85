package parser

import (
	"strings"

	"github.com/spendlens/spendlens/internal/domain/classify"
)

// Fixed cell positions of the bank export layout. The header sits on
// row 7 and data starts on row 8; only four columns carry data we use.
const (
	bankHeaderRow   = 6 // zero-based
	bankColDate     = 0
	bankColDesc     = 2
	bankColAmount   = 3
	bankColCategory = 11
)

// Bank extracts transactions from the fixed bank export layout: no
// usable header names, data at known column positions, and a
// bank-assigned category label that maps onto our own vocabulary.
type Bank struct {
	classifier *classify.Classifier
}

func NewBank(classifier *classify.Classifier) *Bank {
	return &Bank{classifier: classifier}
}

// ParseGrid extracts transactions from the data rows below the fixed
// header. Unlike the standard layout, rows with an unparseable date
// are dropped rather than defaulted: position alone identifies the
// date cell, so a parse failure usually means the row is not a
// transaction at all.
func (p *Bank) ParseGrid(grid [][]string, sourceFile string) (*Result, error) {
	result := &Result{}
	if len(grid) <= bankHeaderRow+1 {
		return result, nil
	}

	dataRows := grid[bankHeaderRow+1:]
	result.TotalRows = len(dataRows)
	for i, row := range dataRows {
		rowNum := bankHeaderRow + 2 + i

		description := CleanDescription(cellAt(row, bankColDesc))
		if description == "" {
			result.Skips = append(result.Skips, RowSkip{Row: rowNum, Reason: SkipBlankDescription})
			continue
		}

		date, err := ParseFlexibleDate(cellAt(row, bankColDate))
		if err != nil {
			result.Skips = append(result.Skips, RowSkip{Row: rowNum, Reason: SkipBadDate, Detail: strings.TrimSpace(cellAt(row, bankColDate))})
			continue
		}

		amount, err := CleanAmount(cellAt(row, bankColAmount))
		if err != nil {
			result.Skips = append(result.Skips, RowSkip{Row: rowNum, Reason: SkipBadAmount, Detail: strings.TrimSpace(cellAt(row, bankColAmount))})
			continue
		}

		bankLabel := strings.TrimSpace(cellAt(row, bankColCategory))
		txType := "Credit"
		if amount.IsNegative() {
			txType = "Debit"
		}

		result.Transactions = append(result.Transactions, Transaction{
			Date:        date,
			Description: description,
			Category:    p.classifier.Resolve(description, bankLabel),
			Type:        txType,
			Amount:      amount,
			Memo:        bankLabel,
			SourceFile:  sourceFile,
		})
	}
	return result, nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

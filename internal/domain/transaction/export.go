package transaction

import (
	"context"
	"fmt"

	"github.com/gocarina/gocsv"
)

// exportRow is the CSV shape produced for download. Column names
// match what the standard importer recognizes, so an exported file
// can be re-imported as-is.
type exportRow struct {
	TransactionDate string `csv:"transaction_date"`
	PostDate        string `csv:"post_date"`
	Description     string `csv:"description"`
	Category        string `csv:"category"`
	Type            string `csv:"type"`
	Amount          string `csv:"amount"`
	Memo            string `csv:"memo"`
}

const exportDateLayout = "2006-01-02"

// ExportCSV renders the filtered ledger as a CSV payload.
func (s *Service) ExportCSV(ctx context.Context, f Filter) ([]byte, error) {
	txs, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	rows := make([]*exportRow, len(txs))
	for i, tx := range txs {
		row := &exportRow{
			TransactionDate: tx.Date.Format(exportDateLayout),
			Description:     tx.Description,
			Category:        tx.Category,
			Type:            tx.Type,
			Amount:          tx.Amount.StringFixed(2),
			Memo:            tx.Memo,
		}
		if tx.PostDate != nil {
			row.PostDate = tx.PostDate.Format(exportDateLayout)
		}
		rows[i] = row
	}

	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("rendering transactions as csv: %w", err)
	}
	return data, nil
}

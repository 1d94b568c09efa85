package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/domain/classify"
)

func init() {
	gocsv.SetCSVReader(gocsv.LazyCSVReader)
}

// SkipReason explains why a statement row was dropped instead of
// becoming a transaction.
type SkipReason string

const (
	SkipBlankDescription SkipReason = "blank_description"
	SkipBadDate          SkipReason = "bad_date"
	SkipBadAmount        SkipReason = "bad_amount"
)

// Transaction is a fully normalized statement row, ready for storage.
type Transaction struct {
	Date        time.Time
	PostDate    *time.Time
	Description string
	Category    string
	Type        string
	Amount      decimal.Decimal
	Memo        string
	SourceFile  string
}

// RowSkip records a single dropped row for the import report.
type RowSkip struct {
	Row    int
	Reason SkipReason
	Detail string
}

// Result is the outcome of extracting one statement file.
type Result struct {
	Transactions []Transaction
	Skips        []RowSkip
	TotalRows    int
}

// transactionRow mirrors the column names a standard-layout statement
// may carry after header normalization. Unknown columns are ignored.
type transactionRow struct {
	TransactionDate string `csv:"transaction_date"`
	Date            string `csv:"date"`
	PostDate        string `csv:"post_date"`
	Description     string `csv:"description"`
	Category        string `csv:"category"`
	Type            string `csv:"type"`
	Amount          string `csv:"amount"`
	Memo            string `csv:"memo"`
}

// Standard extracts transactions from statements that carry their own
// header row. Column names are matched after normalization, and a
// column merely containing "date" serves as the transaction date when
// no exact match exists.
type Standard struct {
	classifier *classify.Classifier
}

func NewStandard(classifier *classify.Classifier) *Standard {
	return &Standard{classifier: classifier}
}

// ParseCSV extracts transactions from a delimited statement file.
// ingestedAt substitutes for rows whose date cannot be parsed.
func (p *Standard) ParseCSV(data []byte, sourceFile string, ingestedAt time.Time) (*Result, error) {
	data = stripBOM(data)
	normalized, err := rewriteHeader(data)
	if err != nil {
		return nil, fmt.Errorf("reading statement header: %w", err)
	}

	var rows []*transactionRow
	if err := gocsv.UnmarshalBytes(normalized, &rows); err != nil {
		return nil, fmt.Errorf("parsing statement rows: %w", err)
	}

	result := &Result{TotalRows: len(rows)}
	for i, row := range rows {
		raw := rawRow{
			date:        coalesce(row.TransactionDate, row.Date),
			postDate:    row.PostDate,
			description: row.Description,
			typ:         row.Type,
			amount:      row.Amount,
			memo:        row.Memo,
		}
		p.appendRow(result, raw, i+2, sourceFile, ingestedAt)
	}
	return result, nil
}

// ParseGrid extracts transactions from a standard-layout sheet that
// has already been expanded to rows of cells. The first row is the
// header.
func (p *Standard) ParseGrid(grid [][]string, sourceFile string, ingestedAt time.Time) (*Result, error) {
	if len(grid) == 0 {
		return &Result{}, nil
	}
	cols := mapColumns(grid[0])

	result := &Result{TotalRows: len(grid) - 1}
	for i, row := range grid[1:] {
		raw := rawRow{
			date:        cols.cell(row, "transaction_date"),
			postDate:    cols.cell(row, "post_date"),
			description: cols.cell(row, "description"),
			typ:         cols.cell(row, "type"),
			amount:      cols.cell(row, "amount"),
			memo:        cols.cell(row, "memo"),
		}
		p.appendRow(result, raw, i+2, sourceFile, ingestedAt)
	}
	return result, nil
}

type rawRow struct {
	date        string
	postDate    string
	description string
	typ         string
	amount      string
	memo        string
}

func (p *Standard) appendRow(result *Result, raw rawRow, rowNum int, sourceFile string, ingestedAt time.Time) {
	description := CleanDescription(raw.description)
	if description == "" {
		result.Skips = append(result.Skips, RowSkip{Row: rowNum, Reason: SkipBlankDescription})
		return
	}

	amount, err := CleanAmount(raw.amount)
	if err != nil {
		result.Skips = append(result.Skips, RowSkip{Row: rowNum, Reason: SkipBadAmount, Detail: strings.TrimSpace(raw.amount)})
		return
	}

	date, err := ParseFlexibleDate(raw.date)
	if err != nil {
		date = ingestedAt.UTC().Truncate(24 * time.Hour)
	}

	var postDate *time.Time
	if pd, err := ParseFlexibleDate(raw.postDate); err == nil {
		postDate = &pd
	}

	txType := strings.TrimSpace(raw.typ)
	if txType == "" {
		if amount.IsPositive() {
			txType = "Credit"
		} else {
			txType = "Debit"
		}
	}

	result.Transactions = append(result.Transactions, Transaction{
		Date:        date,
		PostDate:    postDate,
		Description: description,
		Category:    p.classifier.Categorize(description),
		Type:        txType,
		Amount:      amount,
		Memo:        strings.TrimSpace(raw.memo),
		SourceFile:  sourceFile,
	})
}

// columnMap resolves normalized header names to cell indexes.
type columnMap map[string]int

func (c columnMap) cell(row []string, field string) string {
	idx, ok := c[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func mapColumns(headers []string) columnMap {
	cols := columnMap{}
	for i, h := range headers {
		name := NormalizeHeader(h)
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	resolveDateColumn(cols, headers)
	return cols
}

// resolveDateColumn applies the date fallbacks: "transaction_date",
// then "date", then the first column whose name contains "date".
func resolveDateColumn(cols columnMap, headers []string) {
	if _, ok := cols["transaction_date"]; ok {
		return
	}
	if idx, ok := cols["date"]; ok {
		cols["transaction_date"] = idx
		return
	}
	for i, h := range headers {
		if strings.Contains(NormalizeHeader(h), "date") {
			cols["transaction_date"] = i
			return
		}
	}
}

// rewriteHeader normalizes the header line of a CSV payload so the
// struct tags above match regardless of the bank's casing or spacing,
// and applies the transaction-date column fallbacks.
func rewriteHeader(data []byte) ([]byte, error) {
	r := newLenientCSVReader(bytes.NewReader(data))
	headers, err := r.Read()
	if err != nil {
		return nil, err
	}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}
	if !containsHeader(normalized, "transaction_date") {
		if idx := headerIndex(normalized, "date"); idx >= 0 {
			normalized[idx] = "transaction_date"
		} else if idx := containsDateIndex(normalized); idx >= 0 {
			normalized[idx] = "transaction_date"
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(normalized); err != nil {
		return nil, err
	}
	w.Flush()

	offset := int64(r.InputOffset())
	buf.Write(data[offset:])
	return buf.Bytes(), nil
}

func containsHeader(headers []string, name string) bool {
	return headerIndex(headers, name) >= 0
}

func headerIndex(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

func containsDateIndex(headers []string) int {
	for i, h := range headers {
		if strings.Contains(h, "date") {
			return i
		}
	}
	return -1
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

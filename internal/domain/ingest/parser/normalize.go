package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// newLenientCSVReader tolerates ragged rows and loose quoting, both
// common in bank exports.
func newLenientCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

var (
	ErrEmptyAmount   = errors.New("amount value is empty")
	ErrInvalidAmount = errors.New("invalid amount value")
)

// dateFormats is ordered: ISO first, then US-style, then European.
// The first format that parses wins.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"02.01.2006",
	"02/01/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// ParseFlexibleDate tries every known statement date format in order.
func ParseFlexibleDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, errors.New("date value is empty")
	}
	for _, layout := range dateFormats {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format: " + v)
}

// CleanAmount turns a raw statement amount string into a decimal.
// Currency symbols and thousands separators are stripped, and
// accounting-style parentheses mean a negative value.
func CleanAmount(value string) (decimal.Decimal, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	negative := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		negative = true
		v = v[1 : len(v)-1]
	}
	replacer := strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "")
	v = replacer.Replace(v)
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// CleanDescription collapses internal whitespace and trims the result.
func CleanDescription(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// NormalizeHeader folds a column header for matching: lowercased,
// trimmed, with spaces collapsed to single underscores.
func NormalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.Join(strings.Fields(h), "_")
	return strings.ReplaceAll(h, "-", "_")
}

// stripBOM removes a UTF-8 byte order mark if present and falls back
// to a Latin-1 reinterpretation for files that are not valid UTF-8.
func stripBOM(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return data
	}
	out := make([]byte, 0, len(data)*2)
	for _, b := range data {
		out = utf8.AppendRune(out, rune(b))
	}
	return out
}

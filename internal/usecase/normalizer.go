package usecase

import (
	"bytes"
	"encoding/csv"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/listinglens/backend/internal/domain"
)

// Column names as exported by the research table scraper. The export names
// columns after the DOM classes they were lifted from.
const (
	colImageURL     = "small src"
	colProductURL   = "research-table-row__link-row-anchor href"
	colTitle        = "research-table-row__link-row-anchor"
	colPrice        = "research-table-row__item-with-subtitle"
	colSalesVolume  = "research-table-row__inner-item"
	colLastSoldTime = "research-table-row__inner-item (4)"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseProducts reads one research CSV export into normalized product
// records, preserving row order. Rows that fail to read are logged with
// their position and skipped; the rest of the file still parses. Missing
// columns yield empty fields rather than errors.
func ParseProducts(content []byte, sourceFile string) []domain.ProductRecord {
	content = bytes.TrimPrefix(content, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1 // exports carry ragged rows

	header, err := reader.Read()
	if err != nil {
		log.Printf("[Normalizer] %s: cannot read header: %v", sourceFile, err)
		return nil
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var records []domain.ProductRecord
	for row := 2; ; row++ { // row 1 is the header
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("[Normalizer] %s: skipping row %d: %v", sourceFile, row, err)
			continue
		}
		records = append(records, newRecord(fields, columns, sourceFile))
	}

	return records
}

// newRecord maps one CSV row to a ProductRecord and derives its numeric
// fields. A missing sales volume counts as a single sale.
func newRecord(fields []string, columns map[string]int, sourceFile string) domain.ProductRecord {
	record := domain.ProductRecord{
		ImageURL:     fieldValue(fields, columns, colImageURL),
		ProductURL:   fieldValue(fields, columns, colProductURL),
		Title:        fieldValue(fields, columns, colTitle),
		PriceRaw:     fieldValue(fields, columns, colPrice),
		SalesVolume:  fieldValue(fields, columns, colSalesVolume),
		LastSoldTime: fieldValue(fields, columns, colLastSoldTime),
		SourceFile:   sourceFile,
	}

	if record.SalesVolume == "" {
		record.SalesVolume = "1"
	}

	record.PriceNumeric = ParsePrice(record.PriceRaw)
	record.VolumeNumeric = ParseVolume(record.SalesVolume)
	record.TotalSales = record.PriceNumeric * float64(record.VolumeNumeric)

	return record
}

// fieldValue returns the trimmed cell under the named column, or "" when the
// column is missing or the row is too short to reach it.
func fieldValue(fields []string, columns map[string]int, column string) string {
	idx, ok := columns[column]
	if !ok || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

// ParsePrice converts a scraped price like "€12,50" to its numeric value.
// The euro sign is dropped and the decimal comma converted to a dot before
// parsing. Anything unparsable is worth 0.0, which downstream scoring treats
// as an unknown price rather than a free item.
func ParsePrice(raw string) float64 {
	cleaned := strings.ReplaceAll(raw, "€", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0.0
	}
	return price
}

// ParseVolume converts a scraped sales-volume string to a count. Only pure
// digit strings parse; decorated values like "3 verkauft" count as a single
// sale.
func ParseVolume(raw string) int {
	raw = strings.TrimSpace(raw)
	if !isDigits(raw) {
		return 1
	}

	volume, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return volume
}

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

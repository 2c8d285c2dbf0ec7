// Package csvimport reads the fixed three-column CSV export some banks
// offer alongside PDF statements: date (DD/MM/YYYY), description, amount.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

const dateLayout = "02/01/2006"

var (
	spaceRuns  = regexp.MustCompile(` {2,}`)
	separators = regexp.MustCompile(`[.,]`)
)

// File reads every transaction from the CSV file at path.
func File(path string) ([]models.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv %q: %w", path, err)
	}
	defer f.Close()
	return Transactions(f)
}

// Transactions reads the whole three-column CSV stream. A UTF-8 BOM on the
// first record is tolerated; exports from spreadsheet tools carry one.
func Transactions(r io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3

	var txs []models.Transaction
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if line == 1 {
			record[0] = strings.TrimPrefix(record[0], "\uFEFF")
		}
		tx, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// parseRecord converts one date,description,amount record. Runs of two or
// more spaces in the description are column padding in the export and
// collapse to " - ". Stripping the amount's separators leaves the digits
// reading directly as pence; the export's sign is the mirror of the
// ledger's debit-as-spend convention, hence the negation.
func parseRecord(record []string) (models.Transaction, error) {
	ts, err := time.Parse(dateLayout, strings.TrimSpace(record[0]))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("date %q: %w", record[0], err)
	}

	description := spaceRuns.ReplaceAllString(record[1], " - ")

	pence, err := strconv.ParseInt(separators.ReplaceAllString(strings.TrimSpace(record[2]), ""), 10, 64)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("amount %q: %w", record[2], err)
	}

	return models.Transaction{
		Timestamp:   ts,
		Description: description,
		AmountPence: -pence,
	}, nil
}

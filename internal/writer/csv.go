// Package writer renders extracted transactions as CSV.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

// CSVWriter writes transactions in CSV form: ISO date, description, signed
// two-decimal amount, categories, notes.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, txs []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, txs)
}

// Write writes the transactions to out.
func (w *CSVWriter) Write(out io.Writer, txs []models.Transaction) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		header := []string{"Date", "Description", "Amount", "Category 1", "Category 2", "Category 3", "Notes"}
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for _, tx := range txs {
		row := []string{
			tx.Timestamp.Format("2006-01-02"),
			tx.Description,
			decimal.New(tx.AmountPence, -2).StringFixed(2),
			tx.Category1,
			tx.Category2,
			tx.Category3,
			tx.Notes,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

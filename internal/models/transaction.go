package models

import "time"

// Transaction is a single reconstructed ledger entry. Amounts are integer
// pence to keep currency arithmetic exact: money paid out of the account is
// positive, money paid in is negative.
type Transaction struct {
	ID          string    `json:"id,omitempty"`
	Timestamp   time.Time `json:"date"`
	Description string    `json:"description"`
	AmountPence int64     `json:"amountPence"`
	Category1   string    `json:"category1,omitempty"`
	Category2   string    `json:"category2,omitempty"`
	Category3   string    `json:"category3,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// SameEntry reports whether two transactions describe the same statement
// line. Identity is (timestamp, description, amount); IDs and tagging are
// deliberately excluded so re-ingesting a statement can spot duplicates.
func (t *Transaction) SameEntry(other *Transaction) bool {
	return t.Timestamp.Equal(other.Timestamp) &&
		t.Description == other.Description &&
		t.AmountPence == other.AmountPence
}

// Tagged reports whether any category has been assigned.
func (t *Transaction) Tagged() bool {
	return t.Category1 != "" || t.Category2 != "" || t.Category3 != ""
}

package csvimport

import (
	"strings"
	"testing"
	"time"
)

func TestTransactions(t *testing.T) {
	input := "04/01/2018,CARD PAYMENT TO COFFEE SHOP,-5.00\n" +
		"05/01/2018,REFUND FROM SHOP,20.00\n"

	txs, err := Transactions(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}

	want := time.Date(2018, time.January, 4, 0, 0, 0, 0, time.UTC)
	if !txs[0].Timestamp.Equal(want) {
		t.Errorf("timestamp: got %v, want %v", txs[0].Timestamp, want)
	}
	// Export signs are mirrored: a -5.00 spend stores as +500 pence.
	if txs[0].AmountPence != 500 {
		t.Errorf("spend amount: got %d, want 500", txs[0].AmountPence)
	}
	if txs[1].AmountPence != -2000 {
		t.Errorf("credit amount: got %d, want -2000", txs[1].AmountPence)
	}
}

func TestTransactionsCollapsesPadding(t *testing.T) {
	input := "04/01/2018,CARD PAYMENT   COFFEE SHOP,-5.00\n"

	txs, err := Transactions(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := txs[0].Description; got != "CARD PAYMENT - COFFEE SHOP" {
		t.Errorf("description: got %q", got)
	}
}

func TestTransactionsStripsBOM(t *testing.T) {
	input := "\uFEFF04/01/2018,SHOP,-5.00\n"

	txs, err := Transactions(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
}

func TestTransactionsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad date", "2018-01-04,SHOP,-5.00\n"},
		{"bad amount", "04/01/2018,SHOP,five\n"},
		{"wrong column count", "04/01/2018,SHOP\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Transactions(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

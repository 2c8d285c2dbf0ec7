package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/insightdelivered/statement-extractor/internal/models"
)

// Memory is an in-memory Store, safe for concurrent use. Data is lost when
// the process exits; it exists for tests and dry runs.
type Memory struct {
	mu  sync.RWMutex
	txs map[string]*models.Transaction
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{txs: make(map[string]*models.Transaction)}
}

func (m *Memory) Save(_ context.Context, tx *models.Transaction) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := tx.ID
	if id == "" {
		id = uuid.NewString()
	} else if _, ok := m.txs[id]; !ok {
		return "", fmt.Errorf("transaction not found: %s", id)
	}

	// Store a copy so later caller mutations don't leak in.
	stored := *tx
	stored.ID = id
	m.txs[id] = &stored
	return id, nil
}

func (m *Memory) Has(_ context.Context, tx *models.Transaction) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, existing := range m.txs {
		if existing.SameEntry(tx) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) List(_ context.Context, f Filter) ([]*models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*models.Transaction
	for _, tx := range m.txs {
		if !matches(tx, f) {
			continue
		}
		cp := *tx
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].Timestamp.Before(result[j].Timestamp)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) SumPence(ctx context.Context, f Filter) (int64, error) {
	txs, err := m.List(ctx, f)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, tx := range txs {
		sum += tx.AmountPence
	}
	return sum, nil
}

func (m *Memory) Close() error { return nil }

func matches(tx *models.Transaction, f Filter) bool {
	if f.Untagged && tx.Tagged() {
		return false
	}
	if f.Category != "" &&
		tx.Category1 != f.Category && tx.Category2 != f.Category && tx.Category3 != f.Category {
		return false
	}
	if f.Description != "" &&
		!strings.Contains(strings.ToLower(tx.Description), strings.ToLower(f.Description)) {
		return false
	}
	return true
}

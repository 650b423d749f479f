// Package store provides InvoiceSource implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/commission-engine/commission"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	invoices []commission.Invoice
}

func NewMemory(invoices ...commission.Invoice) *Memory {
	m := &Memory{}
	m.invoices = append(m.invoices, invoices...)
	m.sortLocked()
	return m
}

// LoadInvoices returns a copy of the full invoice snapshot, ordered by
// issue date.
func (m *Memory) LoadInvoices(_ context.Context) ([]commission.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]commission.Invoice, len(m.invoices))
	copy(result, m.invoices)
	return result, nil
}

// SaveInvoice adds a single invoice.
func (m *Memory) SaveInvoice(_ context.Context, inv commission.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices = append(m.invoices, inv)
	m.sortLocked()
	return nil
}

// SaveBatch adds multiple invoices.
func (m *Memory) SaveBatch(_ context.Context, invs []commission.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices = append(m.invoices, invs...)
	m.sortLocked()
	return nil
}

// CountInvoices returns the number of stored invoices.
func (m *Memory) CountInvoices(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.invoices), nil
}

// DeleteAll clears the store.
func (m *Memory) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices = nil
	return nil
}

func (m *Memory) sortLocked() {
	sort.SliceStable(m.invoices, func(i, j int) bool {
		return m.invoices[i].IssuedAt.Before(m.invoices[j].IssuedAt)
	})
}

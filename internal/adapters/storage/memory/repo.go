// Package memory provides a process-local record repository.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/domain"
)

// Repository keeps every collection in memory.
type Repository struct {
	items         *table[domain.Item]
	employees     *table[domain.Employee]
	opportunities *table[domain.Opportunity]
}

// New constructs an empty repository.
func New() *Repository {
	return &Repository{
		items:         &table[domain.Item]{},
		employees:     &table[domain.Employee]{},
		opportunities: &table[domain.Opportunity]{},
	}
}

// Items returns the item table.
func (r *Repository) Items() app.Table[domain.Item] { return r.items }

// Employees returns the employee table.
func (r *Repository) Employees() app.Table[domain.Employee] { return r.employees }

// Opportunities returns the opportunity table.
func (r *Repository) Opportunities() app.Table[domain.Opportunity] { return r.opportunities }

type table[T app.Identified] struct {
	mu      sync.RWMutex
	records []T
}

func (t *table[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.records), nil
}

func (t *table[T]) Insert(ctx context.Context, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, record)
	return nil
}

func (t *table[T]) Replace(ctx context.Context, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.index(record.RecordID())
	if idx < 0 {
		return app.ErrNotFound
	}
	t.records[idx] = record
	return nil
}

func (t *table[T]) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.index(id)
	if idx < 0 {
		return app.ErrNotFound
	}
	t.records = slices.Delete(t.records, idx, idx+1)
	return nil
}

func (t *table[T]) index(id string) int {
	return slices.IndexFunc(t.records, func(r T) bool { return r.RecordID() == id })
}

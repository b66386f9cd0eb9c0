// Package local implements the optimistic data source: records live in a local table and
// every exchange waits a configurable simulated latency.
package local

import (
	"context"
	"errors"
	"time"

	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/domain"
)

// Latency holds the simulated delay per operation.
type Latency struct {
	List   time.Duration
	Create time.Duration
	Update time.Duration
	Delete time.Duration
}

// Source is an app.Source over a local table.
type Source[T app.Identified] struct {
	table   app.Table[T]
	latency Latency
}

// New constructs a local source.
func New[T app.Identified](table app.Table[T], latency Latency) *Source[T] {
	return &Source[T]{table: table, latency: latency}
}

// Sources builds local sources for every table in repo.
func Sources(repo app.Repository, latency Latency) app.Sources {
	return app.Sources{
		Items:         New[domain.Item](repo.Items(), latency),
		Employees:     New[domain.Employee](repo.Employees(), latency),
		Opportunities: New[domain.Opportunity](repo.Opportunities(), latency),
	}
}

// Sync reports optimistic reconciliation.
func (s *Source[T]) Sync() app.Sync { return app.SyncOptimistic }

// Supports reports true for every operation.
func (s *Source[T]) Supports(app.Op) bool { return true }

func (s *Source[T]) List(ctx context.Context) ([]T, error) {
	if err := wait(ctx, s.latency.List); err != nil {
		return nil, err
	}
	return s.table.List(ctx)
}

func (s *Source[T]) Create(ctx context.Context, record T) error {
	if err := wait(ctx, s.latency.Create); err != nil {
		return err
	}
	return s.table.Insert(ctx, record)
}

func (s *Source[T]) Update(ctx context.Context, record T) error {
	if err := wait(ctx, s.latency.Update); err != nil {
		return err
	}
	return s.table.Replace(ctx, record)
}

// Delete removes id. A missing id is not an error.
func (s *Source[T]) Delete(ctx context.Context, id string) error {
	if err := wait(ctx, s.latency.Delete); err != nil {
		return err
	}
	if err := s.table.Remove(ctx, id); err != nil && !errors.Is(err, app.ErrNotFound) {
		return err
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

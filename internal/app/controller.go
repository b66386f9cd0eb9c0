package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hylla/tablero/internal/domain"
)

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Record is implemented by every record type a Controller manages.
type Record[T any, P any] interface {
	Identified
	Stamp(id string, now time.Time) T
	Apply(P) T
}

const maxMintAttempts = 16

var errIDCollision = errors.New("could not mint a unique id")

// Controller owns the collection for one record kind.
type Controller[T Record[T, P], P any] struct {
	kind    domain.Kind
	source  Source[T]
	gate    *Gate
	idGen   IDGenerator
	clock   Clock
	logger  Logger
	metrics *Metrics
	refetch func(context.Context) []Effect

	mu    sync.RWMutex
	state State[T]
}

func newController[T Record[T, P], P any](kind domain.Kind, source Source[T], gate *Gate, cfg StoreConfig) *Controller[T, P] {
	return &Controller[T, P]{
		kind:    kind,
		source:  source,
		gate:    gate,
		idGen:   cfg.IDGen,
		clock:   cfg.Clock,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		refetch: func(context.Context) []Effect { return nil },
	}
}

// Kind returns the record kind this controller manages.
func (c *Controller[T, P]) Kind() domain.Kind {
	return c.kind
}

// Supports reports whether the data source implements op.
func (c *Controller[T, P]) Supports(op Op) bool {
	return c.source.Supports(op)
}

// Records returns a copy of the collection in insertion order.
func (c *Controller[T, P]) Records() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.state.Records)
}

// Get returns the record with id.
func (c *Controller[T, P]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if idx := indexOf(c.state.Records, id); idx >= 0 {
		return c.state.Records[idx], true
	}
	var zero T
	return zero, false
}

// Editing returns the current edit target.
func (c *Controller[T, P]) Editing() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.Editing == nil {
		var zero T
		return zero, false
	}
	return *c.state.Editing, true
}

// BeginEdit marks the record with id as the edit target.
func (c *Controller[T, P]) BeginEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := indexOf(c.state.Records, id)
	if idx < 0 {
		return ErrNotFound
	}
	target := c.state.Records[idx]
	c.state.Editing = &target
	return nil
}

// CancelEdit clears the edit target.
func (c *Controller[T, P]) CancelEdit() {
	c.mu.Lock()
	c.state.Editing = nil
	c.mu.Unlock()
}

// Create adds draft to the collection. In local mode the controller assigns the id and
// creation stamp; in remote mode the source does and every collection is re-fetched.
func (c *Controller[T, P]) Create(ctx context.Context, draft T) ([]Effect, error) {
	if err := c.gate.TryAcquire(); err != nil {
		return nil, err
	}
	defer c.gate.Release()
	started := time.Now()

	record := draft
	if c.source.Sync() == SyncOptimistic {
		id, err := c.mintID()
		if err != nil {
			return c.fail(OpCreate, started, err)
		}
		record = draft.Stamp(id, c.clock())
	}
	if err := c.source.Create(ctx, record); err != nil {
		return c.fail(OpCreate, started, err)
	}
	c.metrics.observe("controller", c.kind, OpCreate, nil, time.Since(started))
	c.logger.Info("record created", "kind", c.kind, "id", record.RecordID())
	if c.source.Sync() == SyncCanonical {
		effects := c.dispatch(Accepted{Op: OpCreate})
		return append(effects, c.refetch(ctx)...), nil
	}
	return c.dispatch(Created[T]{Record: record}), nil
}

// Update merges patch into the record with id. Fields absent from patch are kept, as are
// the id and creation stamps.
func (c *Controller[T, P]) Update(ctx context.Context, id string, patch P) ([]Effect, error) {
	if err := c.gate.TryAcquire(); err != nil {
		return nil, err
	}
	defer c.gate.Release()
	started := time.Now()

	if !c.source.Supports(OpUpdate) {
		return c.fail(OpUpdate, started, ErrUnsupported)
	}
	current, ok := c.Get(id)
	if !ok {
		return c.fail(OpUpdate, started, ErrNotFound)
	}
	next := current.Apply(patch)
	if err := c.source.Update(ctx, next); err != nil {
		return c.fail(OpUpdate, started, err)
	}
	c.metrics.observe("controller", c.kind, OpUpdate, nil, time.Since(started))
	c.logger.Info("record updated", "kind", c.kind, "id", id)
	if c.source.Sync() == SyncCanonical {
		effects := c.dispatch(Accepted{Op: OpUpdate})
		return append(effects, c.refetch(ctx)...), nil
	}
	return c.dispatch(Updated[T]{Record: next}), nil
}

// Delete removes the record with id. In local mode a missing id is a no-op.
func (c *Controller[T, P]) Delete(ctx context.Context, id string) ([]Effect, error) {
	if err := c.gate.TryAcquire(); err != nil {
		return nil, err
	}
	defer c.gate.Release()
	started := time.Now()

	if err := c.source.Delete(ctx, id); err != nil {
		return c.fail(OpDelete, started, err)
	}
	c.metrics.observe("controller", c.kind, OpDelete, nil, time.Since(started))
	c.logger.Info("record deleted", "kind", c.kind, "id", id)
	if c.source.Sync() == SyncCanonical {
		effects := c.dispatch(Accepted{Op: OpDelete})
		return append(effects, c.refetch(ctx)...), nil
	}
	return c.dispatch(Deleted{ID: id}), nil
}

// reload replaces the collection from the source. The caller holds the gate.
func (c *Controller[T, P]) reload(ctx context.Context) ([]Effect, error) {
	started := time.Now()
	records, err := c.source.List(ctx)
	if err != nil {
		return c.fail(OpList, started, err)
	}
	c.metrics.observe("controller", c.kind, OpList, nil, time.Since(started))
	c.logger.Debug("collection loaded", "kind", c.kind, "count", len(records))
	return c.dispatch(Loaded[T]{Records: records}), nil
}

func (c *Controller[T, P]) dispatch(ev Event) []Effect {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, effects := Reduce(c.kind, c.state, ev)
	c.state = next
	return effects
}

func (c *Controller[T, P]) fail(op Op, started time.Time, err error) ([]Effect, error) {
	c.metrics.observe("controller", c.kind, op, err, time.Since(started))
	c.logger.Error("record operation failed", "kind", c.kind, "op", op, "err", err)
	return c.dispatch(Failed{Op: op, Err: err}), fmt.Errorf("%s %s: %w", op, c.kind, err)
}

func (c *Controller[T, P]) mintID() (string, error) {
	for range maxMintAttempts {
		id := c.idGen()
		if id == "" {
			continue
		}
		if _, exists := c.Get(id); !exists {
			return id, nil
		}
	}
	return "", errIDCollision
}

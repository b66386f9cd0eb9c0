package app

import (
	"context"
	"slices"
	"sync"

	"github.com/hylla/tablero/internal/domain"
)

type fakeSource[T Identified] struct {
	mu          sync.Mutex
	sync        Sync
	unsupported map[Op]bool
	records     []T
	errs        map[Op]error
	calls       []Op
	stamp       func(T, int) T
	onCall      func(Op)
}

func newFakeSource[T Identified](mode Sync, records ...T) *fakeSource[T] {
	return &fakeSource[T]{
		sync:        mode,
		unsupported: map[Op]bool{},
		records:     records,
		errs:        map[Op]error{},
	}
}

func (f *fakeSource[T]) Sync() Sync { return f.sync }

func (f *fakeSource[T]) Supports(op Op) bool { return !f.unsupported[op] }

func (f *fakeSource[T]) begin(op Op) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	hook := f.onCall
	err := f.errs[op]
	f.mu.Unlock()
	if hook != nil {
		hook(op)
	}
	return err
}

func (f *fakeSource[T]) List(_ context.Context) ([]T, error) {
	if err := f.begin(OpList); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.records), nil
}

func (f *fakeSource[T]) Create(_ context.Context, record T) error {
	if err := f.begin(OpCreate); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stamp != nil {
		record = f.stamp(record, len(f.records)+1)
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeSource[T]) Update(_ context.Context, record T) error {
	if err := f.begin(OpUpdate); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if idx := indexOf(f.records, record.RecordID()); idx >= 0 {
		f.records[idx] = record
		return nil
	}
	return ErrNotFound
}

func (f *fakeSource[T]) Delete(_ context.Context, id string) error {
	if err := f.begin(OpDelete); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if idx := indexOf(f.records, id); idx >= 0 {
		f.records = slices.Delete(f.records, idx, idx+1)
	}
	return nil
}

func (f *fakeSource[T]) Calls() []Op {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

type fakeTable[T Identified] struct {
	mu      sync.Mutex
	records []T
	err     error
}

func (f *fakeTable[T]) List(context.Context) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.records), nil
}

func (f *fakeTable[T]) Insert(_ context.Context, record T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeTable[T]) Replace(_ context.Context, record T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := indexOf(f.records, record.RecordID())
	if idx < 0 {
		return ErrNotFound
	}
	f.records[idx] = record
	return nil
}

func (f *fakeTable[T]) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := indexOf(f.records, id)
	if idx < 0 {
		return ErrNotFound
	}
	f.records = slices.Delete(f.records, idx, idx+1)
	return nil
}

type fakeRepo struct {
	items         *fakeTable[domain.Item]
	employees     *fakeTable[domain.Employee]
	opportunities *fakeTable[domain.Opportunity]
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items:         &fakeTable[domain.Item]{},
		employees:     &fakeTable[domain.Employee]{},
		opportunities: &fakeTable[domain.Opportunity]{},
	}
}

func (f *fakeRepo) Items() Table[domain.Item]                { return f.items }
func (f *fakeRepo) Employees() Table[domain.Employee]        { return f.employees }
func (f *fakeRepo) Opportunities() Table[domain.Opportunity] { return f.opportunities }

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(string, ...any)  {}
func (l *recordingLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	l.errors = append(l.errors, msg)
	l.mu.Unlock()
}

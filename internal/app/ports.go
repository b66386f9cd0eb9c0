package app

import (
	"context"

	"github.com/hylla/tablero/internal/domain"
)

// Table stores one record kind in insertion order.
type Table[T any] interface {
	List(context.Context) ([]T, error)
	Insert(context.Context, T) error
	Replace(context.Context, T) error
	Remove(context.Context, string) error
}

// Repository groups the record tables.
type Repository interface {
	Items() Table[domain.Item]
	Employees() Table[domain.Employee]
	Opportunities() Table[domain.Opportunity]
}

// Op names a data-source operation.
type Op string

// Op values.
const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Sync describes how a controller reconciles its collection after a mutation.
type Sync int

// Sync values.
const (
	// SyncOptimistic applies the mutation to the local collection once the source accepts it.
	SyncOptimistic Sync = iota
	// SyncCanonical re-fetches every collection from the source after a mutation.
	SyncCanonical
)

func (s Sync) String() string {
	if s == SyncCanonical {
		return "remote"
	}
	return "local"
}

// Source exchanges records of one kind with a local or remote store.
type Source[T any] interface {
	Sync() Sync
	Supports(Op) bool
	List(context.Context) ([]T, error)
	Create(context.Context, T) error
	Update(context.Context, T) error
	Delete(context.Context, string) error
}

// Logger is the structured logger used for diagnostics.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

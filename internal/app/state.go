package app

import (
	"fmt"
	"slices"

	"github.com/hylla/tablero/internal/domain"
)

// Variant selects how a notification is presented.
type Variant string

// Variant values.
const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a transient user-facing message.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Effect is a side effect the caller executes after an operation returns.
type Effect interface {
	isEffect()
}

// Notify shows a notification.
type Notify struct {
	Notification
}

// DismissForm closes the open form for Kind.
type DismissForm struct {
	Kind domain.Kind
}

func (Notify) isEffect()      {}
func (DismissForm) isEffect() {}

// State is the controller state for one record kind.
type State[T any] struct {
	Records []T
	Editing *T
}

// Identified is implemented by every record type.
type Identified interface {
	RecordID() string
}

// Event is an operation outcome fed to Reduce.
type Event interface {
	isEvent()
}

// Created appends a record minted locally.
type Created[T any] struct{ Record T }

// Updated replaces the record sharing Record's id.
type Updated[T any] struct{ Record T }

// Deleted removes the record with ID. Missing ids are ignored.
type Deleted struct{ ID string }

// Accepted reports a mutation the source confirmed without returning records.
type Accepted struct{ Op Op }

// Loaded replaces the collection with records from the source.
type Loaded[T any] struct{ Records []T }

// Failed reports an exchange failure for Op.
type Failed struct {
	Op  Op
	Err error
}

func (Created[T]) isEvent() {}
func (Updated[T]) isEvent() {}
func (Deleted) isEvent()    {}
func (Accepted) isEvent()   {}
func (Loaded[T]) isEvent()  {}
func (Failed) isEvent()     {}

// Reduce returns the state following ev and the effects to run once the operation completes.
// It never mutates s.
func Reduce[T Identified](kind domain.Kind, s State[T], ev Event) (State[T], []Effect) {
	switch ev := ev.(type) {
	case Created[T]:
		next := State[T]{Records: append(slices.Clone(s.Records), ev.Record), Editing: s.Editing}
		return next, []Effect{DismissForm{Kind: kind}, Notify{successNotification(kind, OpCreate)}}
	case Updated[T]:
		records := slices.Clone(s.Records)
		if idx := indexOf(records, ev.Record.RecordID()); idx >= 0 {
			records[idx] = ev.Record
		}
		return State[T]{Records: records}, []Effect{DismissForm{Kind: kind}, Notify{successNotification(kind, OpUpdate)}}
	case Deleted:
		records := slices.Clone(s.Records)
		if idx := indexOf(records, ev.ID); idx >= 0 {
			records = slices.Delete(records, idx, idx+1)
		}
		editing := s.Editing
		if editing != nil && (*editing).RecordID() == ev.ID {
			editing = nil
		}
		return State[T]{Records: records, Editing: editing}, []Effect{Notify{successNotification(kind, OpDelete)}}
	case Accepted:
		next := s
		effects := []Effect{Notify{successNotification(kind, ev.Op)}}
		if ev.Op == OpCreate || ev.Op == OpUpdate {
			effects = append([]Effect{DismissForm{Kind: kind}}, effects...)
		}
		if ev.Op == OpUpdate {
			next.Editing = nil
		}
		return next, effects
	case Loaded[T]:
		return State[T]{Records: slices.Clone(ev.Records), Editing: s.Editing}, nil
	case Failed:
		return s, []Effect{Notify{failureNotification(kind, ev.Op)}}
	default:
		return s, nil
	}
}

func indexOf[T Identified](records []T, id string) int {
	return slices.IndexFunc(records, func(r T) bool { return r.RecordID() == id })
}

func successNotification(kind domain.Kind, op Op) Notification {
	title, verb := "Record saved", "saved"
	switch op {
	case OpCreate:
		title, verb = "Record created", "created"
	case OpUpdate:
		title, verb = "Record updated", "updated"
	case OpDelete:
		title, verb = "Record deleted", "deleted"
	}
	return Notification{
		Title:       title,
		Description: fmt.Sprintf("The %s was %s.", kind, verb),
		Variant:     VariantDefault,
	}
}

func failureNotification(kind domain.Kind, op Op) Notification {
	if op == OpList {
		return connectivityNotification()
	}
	verb := "saving"
	switch op {
	case OpCreate:
		verb = "creating"
	case OpUpdate:
		verb = "updating"
	case OpDelete:
		verb = "deleting"
	}
	return Notification{
		Title:       "Error",
		Description: fmt.Sprintf("There was a problem %s the %s.", verb, kind),
		Variant:     VariantDestructive,
	}
}

func connectivityNotification() Notification {
	return Notification{
		Title:       "Connection error",
		Description: "Could not load data from the server.",
		Variant:     VariantDestructive,
	}
}

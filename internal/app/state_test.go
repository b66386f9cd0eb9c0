package app

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hylla/tablero/internal/domain"
)

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := State[domain.Item]{Records: seedItems()}
	snapshot := seedItems()

	_, _ = Reduce(domain.KindItem, before, Created[domain.Item]{Record: domain.Item{ID: "9"}})
	_, _ = Reduce(domain.KindItem, before, Deleted{ID: "1"})
	updated := seedItems()[1]
	updated.Name = "Changed"
	_, _ = Reduce(domain.KindItem, before, Updated[domain.Item]{Record: updated})

	if diff := cmp.Diff(snapshot, before.Records); diff != "" {
		t.Fatalf("input state mutated (-want +got):\n%s", diff)
	}
}

func TestReduceFailedKeepsState(t *testing.T) {
	target := seedItems()[0]
	before := State[domain.Item]{Records: seedItems(), Editing: &target}
	after, effects := Reduce(domain.KindItem, before, Failed{Op: OpUpdate, Err: errors.New("boom")})
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("state changed on failure (-want +got):\n%s", diff)
	}
	if len(effects) != 1 {
		t.Fatalf("expected one effect, got %#v", effects)
	}
}

func TestReduceDeleteClearsMatchingEditTarget(t *testing.T) {
	target := seedItems()[1]
	after, _ := Reduce(domain.KindItem, State[domain.Item]{Records: seedItems(), Editing: &target}, Deleted{ID: "2"})
	if after.Editing != nil {
		t.Fatal("expected edit target cleared when its record is deleted")
	}
	if len(after.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(after.Records))
	}
}

func TestReduceAcceptedEffects(t *testing.T) {
	_, effects := Reduce(domain.KindEmployee, State[domain.Employee]{}, Accepted{Op: OpDelete})
	want := []Effect{Notify{Notification{Title: "Record deleted", Description: "The employee was deleted.", Variant: VariantDefault}}}
	if diff := cmp.Diff(want, effects); diff != "" {
		t.Fatalf("effects mismatch (-want +got):\n%s", diff)
	}
}

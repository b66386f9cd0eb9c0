package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hylla/tablero/internal/domain"
)

var testNow = time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)

type storeFixture struct {
	store         *Store
	items         *fakeSource[domain.Item]
	employees     *fakeSource[domain.Employee]
	opportunities *fakeSource[domain.Opportunity]
	logger        *recordingLogger
}

func newStoreFixture(t *testing.T, mode Sync, idGen IDGenerator) storeFixture {
	t.Helper()
	f := storeFixture{
		items:         newFakeSource[domain.Item](mode),
		employees:     newFakeSource[domain.Employee](mode),
		opportunities: newFakeSource[domain.Opportunity](mode),
		logger:        &recordingLogger{},
	}
	if mode == SyncCanonical {
		f.items.unsupported[OpUpdate] = true
		f.employees.unsupported[OpUpdate] = true
		f.opportunities.unsupported[OpUpdate] = true
		f.items.stamp = func(item domain.Item, n int) domain.Item { return item.Stamp(fmt.Sprintf("srv-%d", n), testNow) }
		f.employees.stamp = func(emp domain.Employee, n int) domain.Employee { return emp.Stamp(fmt.Sprintf("srv-%d", n), testNow) }
		f.opportunities.stamp = func(opp domain.Opportunity, n int) domain.Opportunity {
			return opp.Stamp(fmt.Sprintf("srv-%d", n), testNow)
		}
	}
	store, err := NewStore(Sources{Items: f.items, Employees: f.employees, Opportunities: f.opportunities}, StoreConfig{
		IDGen:   idGen,
		Clock:   func() time.Time { return testNow },
		Logger:  f.logger,
		Metrics: NewMetrics(nil),
	})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	f.store = store
	return f
}

func sequenceIDs(ids ...string) IDGenerator {
	next := 0
	return func() string {
		id := ids[next%len(ids)]
		next++
		return id
	}
}

func seedItems() []domain.Item {
	return []domain.Item{
		{ID: "1", Name: "Alexandra Chen", Email: "alex@example.com", Role: domain.RoleAdmin, Status: domain.StatusActive, CreatedAt: "2024-01-15"},
		{ID: "2", Name: "Marcus Rodriguez", Email: "marcus@example.com", Role: domain.RoleUser, Status: domain.StatusActive, CreatedAt: "2024-01-16"},
		{ID: "3", Name: "Sarah Johnson", Email: "sarah@example.com", Role: domain.RoleModerator, Status: domain.StatusInactive, CreatedAt: "2024-01-17"},
	}
}

func mustFetchAll(t *testing.T, store *Store) {
	t.Helper()
	if _, err := store.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
}

func notifications(effects []Effect) []Notification {
	var out []Notification
	for _, effect := range effects {
		if n, ok := effect.(Notify); ok {
			out = append(out, n.Notification)
		}
	}
	return out
}

func dismissed(effects []Effect) bool {
	for _, effect := range effects {
		if _, ok := effect.(DismissForm); ok {
			return true
		}
	}
	return false
}

func TestCreateLocalAppendsStampedRecord(t *testing.T) {
	f := newStoreFixture(t, SyncOptimistic, sequenceIDs("id-1"))
	effects, err := f.store.Items().Create(context.Background(), domain.Item{
		Name: "A", Email: "a@x.com", Role: domain.RoleUser, Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got := f.store.Items().Records()
	want := []domain.Item{{ID: "id-1", Name: "A", Email: "a@x.com", Role: domain.RoleUser, Status: domain.StatusActive, CreatedAt: "2026-02-21"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	wantEffects := []Effect{
		DismissForm{Kind: domain.KindItem},
		Notify{Notification{Title: "Record created", Description: "The item was created.", Variant: VariantDefault}},
	}
	if diff := cmp.Diff(wantEffects, effects); diff != "" {
		t.Fatalf("effects mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateIgnoresCallerSuppliedIdentity(t *testing.T) {
	f := newStoreFixture(t, SyncOptimistic, sequenceIDs("minted"))
	if _, err := f.store.Items().Create(context.Background(), domain.Item{ID: "forged", Name: "A", Email: "a@x.com", CreatedAt: "1999-12-31"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got := f.store.Items().Records()[0]
	if got.ID != "minted" || got.CreatedAt != "2026-02-21" {
		t.Fatalf("expected system-assigned identity, got %#v", got)
	}
}

func TestCreateMintsUniqueID(t *testing.T) {
	f := newStoreFixture(t, SyncOptimistic, sequenceIDs("1", "2", "4"))
	f.items.records = seedItems()
	mustFetchAll(t, f.store)

	if _, err := f.store.Items().Create(context.Background(), domain.Item{Name: "New", Email: "new@x.com"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	records := f.store.Items().Records()
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	if records[3].ID != "4" {
		t.Fatalf("expected colliding ids to be skipped, got %q", records[3].ID)
	}
}

func TestCreateGivesUpOnPersistentCollision(t *testing.T) {
	f := newStoreFixture(t, SyncOptimistic, sequenceIDs("1"))
	f.items.records = seedItems()
	mustFetchAll(t, f.store)

	effects, err := f.store.Items().Create(context.Background(), domain.Item{Name: "New", Email: "new@x.com"})
	if !errors.Is(err, errIDCollision) {
		t.Fatalf("expected errIDCollision, got %v", err)
	}
	if got := len(f.store.Items().Records()); got != 3 {
		t.Fatalf("expected collection unchanged, got %d records", got)
	}
	if n := notifications(effects); len(n) != 1 || n[0].Variant != VariantDestructive {
		t.Fatalf("expected one failure notification, got %#v", n)
	}
}

func TestCreateFailureLeavesStateAndKeepsForm(t *testing.T) {
	f := newStoreFixture(t, SyncOptimistic, sequenceIDs("x"))
	f.items.records = seedItems()
	mustFetchAll(t, f.store)
	f.items.errs[OpCreate] = errors.New("disk full")

	effects, err := f.store.Items().Create(context.Background(), domain.Item{Name: "New", Email: "new@x.com"})
	if err == nil {
		t.Fatal("expected create error")
	}
	if diff := cmp.Diff(seedItems(), f.store.Items().Records()); diff != "" {
		t.Fatalf("records changed on failure (-want +got):\n%s", diff)
	}
	if dismissed(effects) {
		t.Fatal("expected form to stay open on failure")
	}
	want := []Notification{{Title: "Error", Description: "There was a problem creating the item.", Variant: VariantDestructive}}
	if diff := cmp.Diff(want, notifications(effects)); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	if f.store.Busy() {
		t.Fatal("expected busy released after failure")
	}
	if len(f.logger.errors) != 1 {
		t.Fatalf("expected failure to be logged once, got %d", len(f.logger.errors))
	}
}

func TestUpdateChangesOnlyPatchedField(t *testing.T) {
	f := newStoreFixture(t, SyncOptimistic, nil)
	f.items.records = seedItems()
	mustFetchAll(t, f.store)
	if err := f.store.BeginEdit(domain.KindItem, "2"); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}

	status := domain.StatusInactive
	effects, err := f.store.Items().Update(context.Background(), "2", domain.ItemPatch{Status: &status})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	want := seedItems()
	want[1].Status = domain.StatusInactive
	if diff := cmp.Diff(want, f.store.Items().Records()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	if _, editing := f.store.Items().Editing(); editing {
		t.Fatal("expected editing target cleared")
	}
	if !dismissed(effects) {
		t.Fatal("expected form dismissal")
	}
}

func TestUpdateMissingIDFails(t *testing.T) {
	f := newStoreFixture(t, SyncOptimistic, nil)
	f.items.records = seedItems()
	mustFetchAll(t, f.store)

	name := "Ghost"
	effects, err := f.store.Items().Update(context.Background(), "404", domain.ItemPatch{Name: &name})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if diff := cmp.Diff(seedItems(), f.store.Items().Records()); diff != "" {
		t.Fatalf("records changed (-want +got):\n%s", diff)
	}
	want := []Notification{{Title: "Error", Description: "There was a problem updating the item.", Variant: VariantDestructive}}
	if diff := cmp.Diff(want, notifications(effects)); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteLocalRemovesOneAndKeepsOrder(t *testing.T) {
	f := newStoreFixture(t, SyncOptimistic, nil)
	f.items.records = seedItems()
	mustFetchAll(t, f.store)

	if _, err := f.store.Delete(context.Background(), domain.KindItem, "2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	seed := seedItems()
	want := []domain.Item{seed[0], seed[2]}
	if diff := cmp.Diff(want, f.store.Items().Records()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteLastRecordEmptiesCollection(t *testing.T) {
	f := newStoreFixture(t, SyncOptimistic, nil)
	f.items.records = seedItems()[:1]
	mustFetchAll(t, f.store)

	if _, err := f.store.Items().Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := f.store.Items().Records(); len(got) != 0 {
		t.Fatalf("expected empty collection, got %#v", got)
	}
}

func TestDeleteMissingIDIsNoop(t *testing.T) {
	f := newStoreFixture(t, SyncOptimistic, nil)
	f.items.records = seedItems()
	mustFetchAll(t, f.store)

	effects, err := f.store.Items().Delete(context.Background(), "404")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if diff := cmp.Diff(seedItems(), f.store.Items().Records()); diff != "" {
		t.Fatalf("records changed (-want +got):\n%s", diff)
	}
	if n := notifications(effects); len(n) != 1 || n[0].Variant != VariantDefault {
		t.Fatalf("expected success notification, got %#v", n)
	}
}

func TestBusySpansExactlyOneOperation(t *testing.T) {
	for _, fail := range []bool{false, true} {
		t.Run(fmt.Sprintf("fail=%t", fail), func(t *testing.T) {
			f := newStoreFixture(t, SyncOptimistic, sequenceIDs("a"))
			var busyDuring []bool
			f.items.onCall = func(Op) { busyDuring = append(busyDuring, f.store.Busy()) }
			if fail {
				f.items.errs[OpCreate] = errors.New("boom")
			}
			if f.store.Busy() {
				t.Fatal("expected idle before operation")
			}
			_, _ = f.store.Items().Create(context.Background(), domain.Item{Name: "A", Email: "a@x.com"})
			if diff := cmp.Diff([]bool{true}, busyDuring); diff != "" {
				t.Fatalf("busy during exchange mismatch (-want +got):\n%s", diff)
			}
			if f.store.Busy() {
				t.Fatal("expected busy released after operation")
			}
		})
	}
}

func TestSecondOperationRejectedWhileBusy(t *testing.T) {
	f := newStoreFixture(t, SyncOptimistic, sequenceIDs("a"))
	f.items.records = seedItems()
	mustFetchAll(t, f.store)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.items.onCall = func(op Op) {
		if op == OpCreate {
			close(entered)
			<-release
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.store.Items().Create(context.Background(), domain.Item{Name: "A", Email: "a@x.com"})
		done <- err
	}()
	<-entered

	effects, err := f.store.Employees().Delete(context.Background(), "e1")
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if len(effects) != 0 {
		t.Fatalf("expected no effects for rejected operation, got %#v", effects)
	}
	if _, err := f.store.FetchAll(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected FetchAll ErrBusy, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got := len(f.store.Items().Records()); got != 4 {
		t.Fatalf("expected 4 records after create, got %d", got)
	}
}

func TestFetchAllAbortsOnFirstFailure(t *testing.T) {
	f := newStoreFixture(t, SyncCanonical, nil)
	f.items.records = seedItems()
	f.employees.errs[OpList] = errors.New("status 500")
	f.opportunities.records = []domain.Opportunity{{ID: "o1", Title: "Deal"}}

	effects, err := f.store.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected FetchAll error")
	}
	want := []Notification{{Title: "Connection error", Description: "Could not load data from the server.", Variant: VariantDestructive}}
	if diff := cmp.Diff(want, notifications(effects)); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	if got := len(f.store.Items().Records()); got != 3 {
		t.Fatalf("expected items fetched before failure to stay, got %d", got)
	}
	if got := f.store.Employees().Records(); len(got) != 0 {
		t.Fatalf("expected employees unchanged, got %#v", got)
	}
	if calls := f.opportunities.Calls(); len(calls) != 0 {
		t.Fatalf("expected opportunities fetch skipped, got %v", calls)
	}
	if f.store.Busy() {
		t.Fatal("expected busy released")
	}
}

func TestCanonicalCreateRefetchesAll(t *testing.T) {
	f := newStoreFixture(t, SyncCanonical, sequenceIDs("never"))
	mustFetchAll(t, f.store)

	effects, err := f.store.Opportunities().Create(context.Background(), domain.Opportunity{
		Title: "Renewal", Client: "Acme", Value: 100, Status: domain.StageLead, Priority: domain.PriorityHigh,
		Deadline: "2026-06-30", Description: "Annual",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	records := f.store.Opportunities().Records()
	if len(records) != 1 || records[0].ID != "srv-1" {
		t.Fatalf("expected canonical record from source, got %#v", records)
	}
	wantCalls := []Op{OpList, OpList}
	if diff := cmp.Diff(wantCalls, f.items.Calls()); diff != "" {
		t.Fatalf("item calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Op{OpList, OpCreate, OpList}, f.opportunities.Calls()); diff != "" {
		t.Fatalf("opportunity calls mismatch (-want +got):\n%s", diff)
	}
	if !dismissed(effects) {
		t.Fatal("expected form dismissal")
	}
	if n := notifications(effects); len(n) != 1 || n[0].Title != "Record created" {
		t.Fatalf("expected one success notification, got %#v", n)
	}
}

func TestCanonicalCreateWithFailedRefetch(t *testing.T) {
	f := newStoreFixture(t, SyncCanonical, nil)
	mustFetchAll(t, f.store)
	f.items.errs[OpList] = errors.New("connection refused")

	effects, err := f.store.Employees().Create(context.Background(), domain.Employee{Name: "E"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got := notifications(effects)
	if len(got) != 2 || got[0].Title != "Record created" || got[1].Title != "Connection error" {
		t.Fatalf("unexpected notifications %#v", got)
	}
}

func TestCanonicalUpdateUnsupported(t *testing.T) {
	f := newStoreFixture(t, SyncCanonical, nil)
	f.employees.records = []domain.Employee{{ID: "e1", Name: "E"}}
	mustFetchAll(t, f.store)

	name := "Renamed"
	effects, err := f.store.Employees().Update(context.Background(), "e1", domain.EmployeePatch{Name: &name})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if f.store.Supports(domain.KindEmployee, OpUpdate) {
		t.Fatal("expected update unsupported")
	}
	want := []Notification{{Title: "Error", Description: "There was a problem updating the employee.", Variant: VariantDestructive}}
	if diff := cmp.Diff(want, notifications(effects)); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	if got := f.store.Employees().Records()[0].Name; got != "E" {
		t.Fatalf("expected record unchanged, got %q", got)
	}
}

func TestCanonicalDeleteRefetches(t *testing.T) {
	f := newStoreFixture(t, SyncCanonical, nil)
	f.employees.records = []domain.Employee{{ID: "e1"}, {ID: "e2"}}
	mustFetchAll(t, f.store)

	if _, err := f.store.Delete(context.Background(), domain.KindEmployee, "e1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if diff := cmp.Diff([]domain.Employee{{ID: "e2"}}, f.store.Employees().Records()); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotAndStats(t *testing.T) {
	f := newStoreFixture(t, SyncOptimistic, nil)
	f.items.records = seedItems()
	f.opportunities.records = []domain.Opportunity{
		{ID: "o1", Value: 100, Status: domain.StageLead},
		{ID: "o2", Value: 50, Status: domain.StageClosedWon},
		{ID: "o3", Value: 25, Status: domain.StageNegotiation},
	}
	mustFetchAll(t, f.store)
	if err := f.store.BeginEdit(domain.KindItem, "3"); err != nil {
		t.Fatalf("BeginEdit() error = %v", err)
	}

	snap := f.store.Snapshot()
	if snap.Mode != SyncOptimistic || snap.Busy || snap.Editing[domain.KindItem] != "3" {
		t.Fatalf("unexpected snapshot %#v", snap)
	}
	stats := f.store.Stats()
	want := Stats{Items: 3, ActiveItems: 2, Opportunities: 3, OpenPipeline: 125, WonValue: 50}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}

	f.store.CancelEdit(domain.KindItem)
	if _, ok := f.store.Snapshot().Editing[domain.KindItem]; ok {
		t.Fatal("expected edit target cleared")
	}
	if err := f.store.BeginEdit(domain.KindItem, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewStoreRequiresSources(t *testing.T) {
	if _, err := NewStore(Sources{}, StoreConfig{}); err == nil {
		t.Fatal("expected error for missing sources")
	}
}

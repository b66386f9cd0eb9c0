package local

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hylla/tablero/internal/adapters/storage/memory"
	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/domain"
)

var testNow = time.Date(2026, 2, 21, 9, 30, 0, 0, time.UTC)

func newLocalStore(t *testing.T, repo app.Repository) *app.Store {
	t.Helper()
	store, err := app.NewStore(Sources(repo, Latency{}), app.StoreConfig{
		Clock: func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestLocalCreateOnEmptyCollection(t *testing.T) {
	repo := memory.New()
	store := newLocalStore(t, repo)
	if _, err := store.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	_, err := store.Items().Create(context.Background(), domain.Item{
		Name: "A", Email: "a@x.com", Role: domain.RoleUser, Status: domain.StatusActive,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	items := store.Items().Records()
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	if items[0].ID == "" {
		t.Fatal("expected synthesized id")
	}
	if items[0].CreatedAt != domain.DateOf(testNow) {
		t.Fatalf("expected createdAt %q, got %q", domain.DateOf(testNow), items[0].CreatedAt)
	}
	persisted, err := repo.Items().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if diff := cmp.Diff(items, persisted); diff != "" {
		t.Fatalf("persisted mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalDeleteOnlyRecord(t *testing.T) {
	repo := memory.New()
	if err := repo.Items().Insert(context.Background(), domain.Item{ID: "1", Name: "A"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	store := newLocalStore(t, repo)
	if _, err := store.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	if _, err := store.Items().Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := store.Items().Records(); len(got) != 0 {
		t.Fatalf("expected empty collection, got %#v", got)
	}
	if _, err := store.Items().Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete() of missing id error = %v", err)
	}
}

func TestLocalLatencyHonorsCancellation(t *testing.T) {
	src := New[domain.Item](memory.New().Items(), Latency{Create: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := src.Create(ctx, domain.Item{ID: "1"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if got, _ := src.table.List(context.Background()); len(got) != 0 {
		t.Fatalf("expected nothing inserted, got %#v", got)
	}
}

func TestLocalLatencyDelaysExchange(t *testing.T) {
	src := New[domain.Employee](memory.New().Employees(), Latency{Delete: 20 * time.Millisecond})
	started := time.Now()
	if err := src.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if elapsed := time.Since(started); elapsed < 20*time.Millisecond {
		t.Fatalf("expected simulated latency, finished in %s", elapsed)
	}
}

func TestSupportsEveryOp(t *testing.T) {
	src := New[domain.Item](memory.New().Items(), Latency{})
	for _, op := range []app.Op{app.OpList, app.OpCreate, app.OpUpdate, app.OpDelete} {
		if !src.Supports(op) {
			t.Fatalf("expected local source to support %s", op)
		}
	}
}

package common

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hylla/tablero/internal/adapters/storage/memory"
	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/domain"
)

func newTestAdapter(t *testing.T) *AppServiceAdapter {
	t.Helper()
	next := 0
	idGen := func() string {
		next++
		return "rec-" + string(rune('0'+next))
	}
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := app.NewService(memory.New(), idGen, func() time.Time { return now }, app.ServiceConfig{})
	return NewAppServiceAdapter(svc)
}

func TestAppServiceAdapterCreateListDelete(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	created, err := adapter.CreateRecord(ctx, domain.KindEmployee, json.RawMessage(`{
		"name": "Ana Ruiz",
		"email": "ana@example.com",
		"phone": "555-0100",
		"position": "Engineer",
		"department": "Technology",
		"hireDate": "2024-04-01"
	}`))
	if err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}
	emp, ok := created.(domain.Employee)
	if !ok {
		t.Fatalf("expected domain.Employee, got %T", created)
	}
	if emp.ID != "rec-1" || emp.Status != domain.StatusActive {
		t.Fatalf("unexpected employee %#v", emp)
	}

	listed, err := adapter.ListRecords(ctx, domain.KindEmployee)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if rows := listed.([]domain.Employee); len(rows) != 1 || rows[0].ID != "rec-1" {
		t.Fatalf("unexpected employees %#v", rows)
	}

	if err := adapter.DeleteRecord(ctx, domain.KindEmployee, "rec-1"); err != nil {
		t.Fatalf("DeleteRecord() error = %v", err)
	}
	if err := adapter.DeleteRecord(ctx, domain.KindEmployee, "rec-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestAppServiceAdapterIgnoresClientIdentity(t *testing.T) {
	adapter := newTestAdapter(t)
	created, err := adapter.CreateRecord(context.Background(), domain.KindItem, json.RawMessage(
		`{"id":"client-id","name":"A","email":"a@x.com","role":"User","status":"active","createdAt":"1999-01-01"}`,
	))
	if err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}
	item := created.(domain.Item)
	if item.ID != "rec-1" || item.CreatedAt != "2026-03-02" {
		t.Fatalf("expected server-assigned identity, got %#v", item)
	}
}

func TestAppServiceAdapterErrorMapping(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)
	cases := []struct {
		name    string
		kind    domain.Kind
		payload string
		want    error
	}{
		{"empty payload", domain.KindItem, ``, ErrInvalidRequest},
		{"unknown field", domain.KindItem, `{"name":"A","email":"a@x.com","nickname":"z"}`, ErrInvalidRequest},
		{"trailing content", domain.KindItem, `{"name":"A","email":"a@x.com"} {}`, ErrInvalidRequest},
		{"validation", domain.KindOpportunity, `{"title":"Deal","client":"Acme","value":-1,"deadline":"2026-05-01","description":"x"}`, ErrInvalidRequest},
		{"unknown kind", domain.Kind("invoice"), `{}`, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := adapter.CreateRecord(ctx, tc.kind, json.RawMessage(tc.payload))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if err := adapter.DeleteRecord(ctx, domain.KindItem, " "); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for blank id, got %v", err)
	}
}

func TestAppServiceAdapterUnconfigured(t *testing.T) {
	var adapter *AppServiceAdapter
	if _, err := adapter.ListRecords(context.Background(), domain.KindItem); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := adapter.Stats(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestParseKindAndNames(t *testing.T) {
	kind, err := ParseKind("opportunities")
	if err != nil || kind != domain.KindOpportunity {
		t.Fatalf("ParseKind() = %q, %v", kind, err)
	}
	if _, err := ParseKind("invoices"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	names := KindNames()
	if len(names) != 3 || names[0] != "items" || names[2] != "opportunities" {
		t.Fatalf("unexpected kind names %v", names)
	}
}

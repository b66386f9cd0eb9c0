package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hylla/tablero/internal/adapters/server/common"
	"github.com/hylla/tablero/internal/adapters/storage/memory"
	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/domain"
)

// stubRecordService records calls and returns configured fixtures.
type stubRecordService struct {
	records     any
	created     any
	stats       app.Stats
	err         error
	lastKind    domain.Kind
	lastPayload string
	lastID      string
	lastActor   app.Actor
}

func (s *stubRecordService) ListRecords(ctx context.Context, kind domain.Kind) (any, error) {
	s.lastKind = kind
	s.lastActor, _ = app.ActorFromContext(ctx)
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubRecordService) CreateRecord(ctx context.Context, kind domain.Kind, payload json.RawMessage) (any, error) {
	s.lastKind = kind
	s.lastPayload = string(payload)
	s.lastActor, _ = app.ActorFromContext(ctx)
	if s.err != nil {
		return nil, s.err
	}
	return s.created, nil
}

func (s *stubRecordService) DeleteRecord(ctx context.Context, kind domain.Kind, id string) error {
	s.lastKind = kind
	s.lastID = id
	s.lastActor, _ = app.ActorFromContext(ctx)
	return s.err
}

func (s *stubRecordService) Stats(context.Context) (app.Stats, error) {
	if s.err != nil {
		return app.Stats{}, s.err
	}
	return s.stats, nil
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var env ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return env
}

func TestHandlerListRecords(t *testing.T) {
	stub := &stubRecordService{records: []domain.Employee{{ID: "e1", Name: "Ana"}}}
	handler := NewHandler(stub)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if stub.lastKind != domain.KindEmployee {
		t.Fatalf("kind = %q, want employee", stub.lastKind)
	}
	var got []domain.Employee
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "e1" {
		t.Fatalf("unexpected body %#v", got)
	}
}

func TestHandlerCreateRecordAttributesActor(t *testing.T) {
	stub := &stubRecordService{created: domain.Opportunity{ID: "o1", Title: "Deal"}}
	handler := NewHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/opportunities", strings.NewReader(`{"title":"Deal"}`))
	req.Header.Set(ActorHeader, "dashboard")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if stub.lastPayload != `{"title":"Deal"}` {
		t.Fatalf("payload = %q", stub.lastPayload)
	}
	if stub.lastActor.Name != "dashboard" || stub.lastActor.Channel != app.ChannelHTTP {
		t.Fatalf("unexpected actor %#v", stub.lastActor)
	}
}

func TestHandlerDeleteRecordUnescapesID(t *testing.T) {
	stub := &stubRecordService{}
	handler := NewHandler(stub)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/items/a%20b", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if stub.lastKind != domain.KindItem || stub.lastID != "a b" {
		t.Fatalf("unexpected delete target %q/%q", stub.lastKind, stub.lastID)
	}
	if stub.lastActor.Name != "http-client" {
		t.Fatalf("expected default actor, got %#v", stub.lastActor)
	}
}

func TestHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"not found", fmt.Errorf("delete: %w", common.ErrNotFound), http.StatusNotFound, "not_found"},
		{"invalid", fmt.Errorf("create: %w", common.ErrInvalidRequest), http.StatusBadRequest, "invalid_request"},
		{"unavailable", common.ErrUnavailable, http.StatusServiceUnavailable, "service_unavailable"},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewHandler(&stubRecordService{err: tc.err})
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/employees/e1", nil))
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if env := decodeEnvelope(t, rec); env.Error.Code != tc.wantErr {
				t.Fatalf("code = %q, want %q", env.Error.Code, tc.wantErr)
			}
		})
	}
}

func TestHandlerRoutingFailures(t *testing.T) {
	handler := NewHandler(&stubRecordService{})
	cases := []struct {
		name      string
		method    string
		path      string
		body      string
		wantCode  int
		wantAllow string
	}{
		{"unknown kind", http.MethodGet, "/invoices", "", http.StatusNotFound, ""},
		{"root", http.MethodGet, "/", "", http.StatusNotFound, ""},
		{"nested id", http.MethodDelete, "/items/a/b", "", http.StatusNotFound, ""},
		{"put collection", http.MethodPut, "/items", "", http.StatusMethodNotAllowed, "GET, POST"},
		{"patch record", http.MethodPatch, "/items/1", "{}", http.StatusMethodNotAllowed, "DELETE"},
		{"post stats", http.MethodPost, "/stats", "", http.StatusMethodNotAllowed, "GET"},
		{"malformed body", http.MethodPost, "/items", "{", http.StatusBadRequest, ""},
		{"trailing body", http.MethodPost, "/items", `{} {}`, http.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if got := rec.Header().Get("Allow"); got != tc.wantAllow {
				t.Fatalf("Allow = %q, want %q", got, tc.wantAllow)
			}
		})
	}
}

func TestHandlerWithoutService(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHandlerEndToEndOverMemory(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := app.NewService(memory.New(), func() string { return "o-1" }, func() time.Time { return now }, app.ServiceConfig{})
	handler := NewHandler(common.NewAppServiceAdapter(svc))

	body := `{"title":"Renewal","client":"Acme","value":1200.5,"status":"negotiation","priority":"high","deadline":"2026-06-30","description":"Q3 renewal"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/opportunities", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/opportunities", nil))
	var listed []domain.Opportunity
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "o-1" || listed[0].Status != domain.StageNegotiation {
		t.Fatalf("unexpected opportunities %#v", listed)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	var stats app.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if stats.Opportunities != 1 || stats.OpenPipeline != 1200.5 {
		t.Fatalf("unexpected stats %#v", stats)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/opportunities/o-1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/opportunities/o-1", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

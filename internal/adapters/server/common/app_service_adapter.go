package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/domain"
)

// AppServiceAdapter maps transport contracts onto the per-kind app.Service APIs.
type AppServiceAdapter struct {
	service *app.Service
}

// NewAppServiceAdapter builds one common adapter over an app.Service instance.
func NewAppServiceAdapter(service *app.Service) *AppServiceAdapter {
	return &AppServiceAdapter{service: service}
}

// ListRecords lists one collection in insertion order.
func (a *AppServiceAdapter) ListRecords(ctx context.Context, kind domain.Kind) (any, error) {
	if a == nil || a.service == nil {
		return nil, fmt.Errorf("app service adapter is not configured: %w", ErrUnavailable)
	}
	var (
		records any
		err     error
	)
	switch kind {
	case domain.KindItem:
		records, err = a.service.ListItems(ctx)
	case domain.KindEmployee:
		records, err = a.service.ListEmployees(ctx)
	case domain.KindOpportunity:
		records, err = a.service.ListOpportunities(ctx)
	default:
		return nil, fmt.Errorf("list %q: %w", kind, ErrNotFound)
	}
	if err != nil {
		return nil, mapAppError("list "+kind.Plural(), err)
	}
	return records, nil
}

// CreateRecord decodes one draft for kind and creates it. Ids and creation stamps in the
// payload are ignored; the service assigns them.
func (a *AppServiceAdapter) CreateRecord(ctx context.Context, kind domain.Kind, payload json.RawMessage) (any, error) {
	if a == nil || a.service == nil {
		return nil, fmt.Errorf("app service adapter is not configured: %w", ErrUnavailable)
	}
	var (
		created any
		err     error
	)
	switch kind {
	case domain.KindItem:
		var draft domain.Item
		if draft, err = decodeDraft[domain.Item](payload); err == nil {
			created, err = a.service.CreateItem(ctx, draft)
		}
	case domain.KindEmployee:
		var draft domain.Employee
		if draft, err = decodeDraft[domain.Employee](payload); err == nil {
			created, err = a.service.CreateEmployee(ctx, draft)
		}
	case domain.KindOpportunity:
		var draft domain.Opportunity
		if draft, err = decodeDraft[domain.Opportunity](payload); err == nil {
			created, err = a.service.CreateOpportunity(ctx, draft)
		}
	default:
		return nil, fmt.Errorf("create %q: %w", kind, ErrNotFound)
	}
	if err != nil {
		return nil, mapAppError("create "+string(kind), err)
	}
	return created, nil
}

// DeleteRecord removes one record by id.
func (a *AppServiceAdapter) DeleteRecord(ctx context.Context, kind domain.Kind, id string) error {
	if a == nil || a.service == nil {
		return fmt.Errorf("app service adapter is not configured: %w", ErrUnavailable)
	}
	var err error
	switch kind {
	case domain.KindItem:
		err = a.service.DeleteItem(ctx, id)
	case domain.KindEmployee:
		err = a.service.DeleteEmployee(ctx, id)
	case domain.KindOpportunity:
		err = a.service.DeleteOpportunity(ctx, id)
	default:
		return fmt.Errorf("delete %q: %w", kind, ErrNotFound)
	}
	if err != nil {
		return mapAppError("delete "+string(kind), err)
	}
	return nil
}

// Stats summarizes every collection.
func (a *AppServiceAdapter) Stats(ctx context.Context) (app.Stats, error) {
	if a == nil || a.service == nil {
		return app.Stats{}, fmt.Errorf("app service adapter is not configured: %w", ErrUnavailable)
	}
	stats, err := a.service.Stats(ctx)
	if err != nil {
		return app.Stats{}, mapAppError("stats", err)
	}
	return stats, nil
}

// decodeDraft strictly decodes one record draft; unknown fields fail closed.
func decodeDraft[T any](payload json.RawMessage) (T, error) {
	var out T
	if len(bytes.TrimSpace(payload)) == 0 {
		return out, fmt.Errorf("record payload is required: %w", ErrInvalidRequest)
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&out); err != nil {
		return out, fmt.Errorf("decode record: %w", errors.Join(ErrInvalidRequest, err))
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return out, fmt.Errorf("decode record: trailing content: %w", ErrInvalidRequest)
	}
	return out, nil
}

// mapAppError folds app and domain errors into the transport taxonomy.
func mapAppError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrNotFound):
		return fmt.Errorf("%s: %w", op, err)
	case domain.IsValidation(err):
		return fmt.Errorf("%s: %w", op, errors.Join(ErrInvalidRequest, err))
	case errors.Is(err, app.ErrNotFound):
		return fmt.Errorf("%s: %w", op, errors.Join(ErrNotFound, err))
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// Package common provides transport-agnostic record contracts shared by the HTTP and MCP adapters.
package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/domain"
)

// ErrInvalidRequest reports malformed transport input or failed record validation.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound reports missing transport-visible resources.
var ErrNotFound = errors.New("not found")

// ErrUnavailable reports a transport wired without a backing service.
var ErrUnavailable = errors.New("service unavailable")

// RecordService is the records API as seen by transports. Collections are returned as the
// concrete domain slice for the kind so adapters can encode them without further mapping.
type RecordService interface {
	ListRecords(ctx context.Context, kind domain.Kind) (any, error)
	CreateRecord(ctx context.Context, kind domain.Kind, payload json.RawMessage) (any, error)
	DeleteRecord(ctx context.Context, kind domain.Kind, id string) error
	Stats(ctx context.Context) (app.Stats, error)
}

// ParseKind resolves a transport kind segment ("employees", "item", ...) into a domain kind.
func ParseKind(raw string) (domain.Kind, error) {
	kind, err := domain.ParseKind(raw)
	if err != nil {
		return "", fmt.Errorf("unknown record kind %q: %w", raw, ErrNotFound)
	}
	return kind, nil
}

// KindNames returns the plural kind names accepted by transports, in display order.
func KindNames() []string {
	kinds := domain.Kinds()
	out := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, kind.Plural())
	}
	return out
}

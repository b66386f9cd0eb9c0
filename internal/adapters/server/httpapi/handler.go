// Package httpapi provides the REST HTTP adapter for the records API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hylla/tablero/internal/adapters/server/common"
	"github.com/hylla/tablero/internal/app"
)

// maxRequestBodyBytes caps record payloads.
const maxRequestBodyBytes int64 = 1 << 20

// ActorHeader optionally names the caller for mutation attribution.
const ActorHeader = "X-Tablero-Actor"

// Handler serves the records subrouter mounted under the API endpoint (`/api` by default).
type Handler struct {
	records common.RecordService
}

// APIError is the body of a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// ErrorEnvelope is the top-level error document: {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewHandler constructs one HTTP API adapter over a record service.
func NewHandler(records common.RecordService) *Handler {
	return &Handler{records: records}
}

// ServeHTTP routes `/{kind}`, `/{kind}/{id}` and `/stats`.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.records == nil {
		writeErrorFrom(w, common.ErrUnavailable)
		return
	}
	segment, id, hasID := splitPath(r.URL.EscapedPath())
	if segment == "stats" && !hasID {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleStats(w, r)
		return
	}

	kind, err := common.ParseKind(segment)
	if err != nil || segment == "" {
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: "endpoint not found",
			Hint:    "Use one of /" + strings.Join(common.KindNames(), ", /") + ".",
		})
		return
	}
	ctx := withRequestActor(r)

	if !hasID {
		switch r.Method {
		case http.MethodGet:
			records, err := h.records.ListRecords(ctx, kind)
			if err != nil {
				writeErrorFrom(w, err)
				return
			}
			writeJSON(w, http.StatusOK, records)
		case http.MethodPost:
			var payload json.RawMessage
			if err := decodeJSONBody(ctx, w, r, &payload); err != nil {
				writeErrorFrom(w, err)
				return
			}
			created, err := h.records.CreateRecord(ctx, kind, payload)
			if err != nil {
				writeErrorFrom(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, created)
		default:
			writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
		return
	}

	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w, http.MethodDelete)
		return
	}
	if err := h.records.DeleteRecord(ctx, kind, id); err != nil {
		writeErrorFrom(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.records.Stats(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// splitPath parses `kind[/id]` from an escaped request path. Ids containing further
// slashes do not match.
func splitPath(escaped string) (segment, id string, hasID bool) {
	path := strings.Trim(strings.TrimSpace(escaped), "/")
	segment, rawID, found := strings.Cut(path, "/")
	if !found {
		return segment, "", false
	}
	if strings.Contains(rawID, "/") {
		return "", "", false
	}
	decoded, err := url.PathUnescape(rawID)
	if err != nil {
		return "", "", false
	}
	return segment, decoded, true
}

func withRequestActor(r *http.Request) context.Context {
	name := strings.TrimSpace(r.Header.Get(ActorHeader))
	if name == "" {
		name = "http-client"
	}
	return app.WithActor(r.Context(), app.Actor{Name: name, Channel: app.ChannelHTTP})
}

// writeErrorFrom picks the status and code for err.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "unknown error",
		})
	case errors.Is(err, common.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, common.ErrInvalidRequest):
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: err.Error(),
		})
	case errors.Is(err, common.ErrUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, APIError{
			Code:    "service_unavailable",
			Message: err.Error(),
		})
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: err.Error(),
		})
	}
}

// writeMethodNotAllowed answers 405 and lists the accepted methods in Allow.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, APIError{
		Code:    "method_not_allowed",
		Message: "method not allowed",
	})
}

func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON encodes payload with statusCode.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one required JSON request body and rejects trailing payloads.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(common.ErrInvalidRequest, err))
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", common.ErrInvalidRequest)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}

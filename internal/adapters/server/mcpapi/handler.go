// Package mcpapi provides a stateless MCP streamable-HTTP adapter over the records API.
package mcpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hylla/tablero/internal/adapters/server/common"
	"github.com/hylla/tablero/internal/app"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Config names the MCP server and its endpoint.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Handler serves the record tools over stateless streamable HTTP.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds one stateless MCP adapter exposing the record tools.
func NewHandler(cfg Config, records common.RecordService) (*Handler, error) {
	if records == nil {
		return nil, fmt.Errorf("record service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerRecordTools(mcpSrv, records)
	registerStatsTool(mcpSrv, records)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig fills the server name, version and endpoint defaults.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "tablero"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// registerRecordTools registers list/create/delete tools shared by every record kind.
func registerRecordTools(srv *mcpserver.MCPServer, records common.RecordService) {
	kinds := common.KindNames()

	srv.AddTool(
		mcp.NewTool(
			"tablero.list_records",
			mcp.WithDescription("List one record collection in insertion order."),
			mcp.WithString("kind", mcp.Required(), mcp.Description("Record kind"), mcp.Enum(kinds...)),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			rawKind, err := req.RequireString("kind")
			if err != nil {
				return invalidRequestToolResult(err), nil
			}
			kind, err := common.ParseKind(rawKind)
			if err != nil {
				return toolResultFromError(err), nil
			}
			rows, err := records.ListRecords(ctx, kind)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"kind":    kind.Plural(),
				"records": rows,
			})
			if err != nil {
				return nil, fmt.Errorf("encode list_records result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tablero.create_record",
			mcp.WithDescription("Create one record. The server assigns id and creation stamps."),
			mcp.WithString("kind", mcp.Required(), mcp.Description("Record kind"), mcp.Enum(kinds...)),
			mcp.WithObject("record", mcp.Required(), mcp.Description("Record fields, using the same names as the REST API")),
			mcp.WithString("actor", mcp.Description("Caller name recorded in the audit log")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				Kind   string          `json:"kind"`
				Record json.RawMessage `json:"record"`
				Actor  string          `json:"actor"`
			}
			if err := req.BindArguments(&args); err != nil {
				return invalidRequestToolResult(err), nil
			}
			kind, err := common.ParseKind(args.Kind)
			if err != nil {
				return toolResultFromError(err), nil
			}
			created, err := records.CreateRecord(withToolActor(ctx, args.Actor), kind, args.Record)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(created)
			if err != nil {
				return nil, fmt.Errorf("encode create_record result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"tablero.delete_record",
			mcp.WithDescription("Delete one record by id."),
			mcp.WithString("kind", mcp.Required(), mcp.Description("Record kind"), mcp.Enum(kinds...)),
			mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
			mcp.WithString("actor", mcp.Description("Caller name recorded in the audit log")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			rawKind, err := req.RequireString("kind")
			if err != nil {
				return invalidRequestToolResult(err), nil
			}
			id, err := req.RequireString("id")
			if err != nil {
				return invalidRequestToolResult(err), nil
			}
			kind, err := common.ParseKind(rawKind)
			if err != nil {
				return toolResultFromError(err), nil
			}
			if err := records.DeleteRecord(withToolActor(ctx, req.GetString("actor", "")), kind, id); err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"kind":    kind.Plural(),
				"id":      id,
				"deleted": true,
			})
			if err != nil {
				return nil, fmt.Errorf("encode delete_record result: %w", err)
			}
			return result, nil
		},
	)
}

// registerStatsTool registers the dashboard summary tool.
func registerStatsTool(srv *mcpserver.MCPServer, records common.RecordService) {
	srv.AddTool(
		mcp.NewTool(
			"tablero.stats",
			mcp.WithDescription("Summarize every record collection: totals, active counts and pipeline value."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			stats, err := records.Stats(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(stats)
			if err != nil {
				return nil, fmt.Errorf("encode stats result: %w", err)
			}
			return result, nil
		},
	)
}

func withToolActor(ctx context.Context, name string) context.Context {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "mcp-client"
	}
	return app.WithActor(ctx, app.Actor{Name: name, Channel: app.ChannelMCP})
}

func invalidRequestToolResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("invalid_request: " + err.Error())
}

// toolResultFromError prefixes err with a stable code the calling agent can match on.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, common.ErrInvalidRequest):
		return invalidRequestToolResult(err)
	case errors.Is(err, common.ErrNotFound):
		return mcp.NewToolResultError("not_found: " + err.Error())
	case errors.Is(err, common.ErrUnavailable):
		return mcp.NewToolResultError("not_implemented: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}

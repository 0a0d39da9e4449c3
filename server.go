package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/voiceshop/assistant/common/logger"
	"github.com/voiceshop/assistant/schema"
)

const serverVersion = "1.0.0"

// NewServer exposes the pipeline as an MCP tool server with three tools:
// the full pipeline, raw catalog retrieval and raw live search.
func NewServer(client *Client) *server.MCPServer {
	s := server.NewMCPServer("voiceshop-assistant", serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewToolWithRawSchema(
		"shop-query",
		"Answer a natural-language shopping question over the product catalog, with optional live price lookup.",
		json.RawMessage(shopQuerySchema),
	), shopQueryHandler(client))

	s.AddTool(mcp.NewToolWithRawSchema(
		"catalog-search",
		"Search the private product catalog by semantic similarity and return ranked products.",
		json.RawMessage(catalogSearchSchema),
	), catalogSearchHandler(client))

	s.AddTool(mcp.NewToolWithRawSchema(
		"web-search",
		"Run a live web search and return normalized results with extracted prices.",
		json.RawMessage(webSearchSchema),
	), webSearchHandler(client))

	return s
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func ServeStdio(client *Client) error {
	logger.Infof("assistant: serving MCP over stdio")
	return server.ServeStdio(NewServer(client))
}

const shopQuerySchema = `{
  "type": "object",
  "properties": {
    "query": {"type": "string", "description": "Natural-language shopping question"}
  },
  "required": ["query"]
}`

const catalogSearchSchema = `{
  "type": "object",
  "properties": {
    "query": {"type": "string", "description": "Product search text"},
    "top_k": {"type": "integer", "description": "Maximum products to return", "minimum": 1, "maximum": 50},
    "budget": {"type": "number", "description": "Maximum price in dollars"},
    "brand": {"type": "string", "description": "Brand filter, fuzzy matched"},
    "category": {"type": "string", "description": "Category filter, fuzzy matched"}
  },
  "required": ["query"]
}`

const webSearchSchema = `{
  "type": "object",
  "properties": {
    "query": {"type": "string", "description": "Web search text"}
  },
  "required": ["query"]
}`

func shopQueryHandler(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		resp, err := client.Query(ctx, query)
		if err != nil {
			logger.Errorf("shop-query failed: %v", err)
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}
		return jsonResult(resp)
	}
}

func catalogSearchHandler(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		topK := req.GetInt("top_k", 0)
		var constraints schema.Constraints
		if budget := req.GetFloat("budget", 0); budget > 0 {
			constraints.Budget = schema.Float64Ptr(budget)
		}
		constraints.Brand = req.GetString("brand", "")
		constraints.Category = req.GetString("category", "")
		products, err := client.CatalogSearch(ctx, query, constraints, topK)
		if err != nil {
			logger.Errorf("catalog-search failed: %v", err)
			return mcp.NewToolResultError(fmt.Sprintf("catalog search failed: %v", err)), nil
		}
		return jsonResult(products)
	}
}

func webSearchHandler(client *Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		results, err := client.WebSearch(ctx, query)
		if err != nil {
			logger.Errorf("web-search failed: %v", err)
			return mcp.NewToolResultError(fmt.Sprintf("web search failed: %v", err)), nil
		}
		return jsonResult(results)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

package docconv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers the docconv tools on an MCP server.
func (c *Converter) RegisterMCP(srv *mcp.Server) {
	c.registerConvertTool(srv)
	c.registerDetectTool(srv)
	c.registerFormatsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// addTool decodes the arguments into a Req, calls handle and returns its
// result as JSON text. Decode and handler errors become tool errors.
func addTool[Req any](srv *mcp.Server, tool *mcp.Tool, handle func(context.Context, Req) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r Req
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}
		resp, err := handle(ctx, r)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// --- convert ---

type convertReq struct {
	Filename     string `json:"filename"`
	Content      []byte `json:"content"`
	Format       string `json:"format"`
	DeclaredType string `json:"declared_type"`
}

func (c *Converter) registerConvertTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "docconv_convert",
		Description: "Convert a document (xlsx, xls, docx, doc, csv, txt, pdf) into records serialized as jsonl, json, csv, yaml, tsv, markdown, html or table.",
		InputSchema: inputSchema(map[string]any{
			"filename":      map[string]any{"type": "string", "description": "Original file name; its extension selects the extractor"},
			"content":       map[string]any{"type": "string", "description": "File content, base64 encoded"},
			"format":        map[string]any{"type": "string", "description": "Output format (default jsonl)"},
			"declared_type": map[string]any{"type": "string", "description": "Declared MIME type, advisory only"},
		}, []string{"filename", "content"}),
	}
	addTool(srv, tool, func(ctx context.Context, r convertReq) (any, error) {
		f := JSONL
		if r.Format != "" {
			f = Format(r.Format)
		}
		return c.Convert(ctx, Document{Filename: r.Filename, Data: r.Content, DeclaredType: r.DeclaredType}, f), nil
	})
}

// --- detect ---

type detectReq struct {
	Filename string `json:"filename"`
}

func (c *Converter) registerDetectTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "docconv_detect",
		Description: "Detect the source format of a document from its file name.",
		InputSchema: inputSchema(map[string]any{
			"filename": map[string]any{"type": "string", "description": "File name to detect"},
		}, []string{"filename"}),
	}
	addTool(srv, tool, func(_ context.Context, r detectReq) (any, error) {
		return map[string]any{"source_format": c.Detect(r.Filename)}, nil
	})
}

// --- formats ---

func (c *Converter) registerFormatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "docconv_formats",
		Description: "List the accepted input extensions and the output formats.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	addTool(srv, tool, func(_ context.Context, _ struct{}) (any, error) {
		return map[string]any{
			"extensions": SupportedExtensions(),
			"formats":    Formats(),
		}, nil
	})
}

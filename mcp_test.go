package docconv_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/docconv"
)

var testMCPImpl = &mcp.Implementation{Name: "docconv-test", Version: "0.1.0"}

func mcpSession(t *testing.T, conv *docconv.Converter) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	conv.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	return result
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.False(t, result.IsError, "tool error: %v", result.GetError())
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	return tc.Text
}

func TestMCPConvert(t *testing.T) {
	t.Parallel()
	conv := docconv.New(docconv.Config{})
	session := mcpSession(t, conv)
	data := []byte("name,age\nAna,30")

	tests := map[string]struct {
		args   map[string]any
		format docconv.Format
	}{
		"json": {
			args: map[string]any{
				"filename": "people.csv",
				"content":  base64.StdEncoding.EncodeToString(data),
				"format":   "json",
			},
			format: docconv.JSON,
		},
		"default jsonl": {
			args: map[string]any{
				"filename": "people.csv",
				"content":  base64.StdEncoding.EncodeToString(data),
			},
			format: docconv.JSONL,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			text := toolText(t, callTool(t, session, "docconv_convert", tt.args))

			var got docconv.Outcome
			require.NoError(t, json.Unmarshal([]byte(text), &got))
			want := conv.Convert(context.Background(), docconv.Document{Filename: "people.csv", Data: data}, tt.format)
			assert.Equal(t, want, got)
			assert.True(t, got.Success)
		})
	}
}

func TestMCPConvertFailureIsOutcome(t *testing.T) {
	t.Parallel()
	session := mcpSession(t, docconv.New(docconv.Config{}))
	text := toolText(t, callTool(t, session, "docconv_convert", map[string]any{
		"filename": "image.png",
		"content":  base64.StdEncoding.EncodeToString([]byte("x")),
	}))

	var got docconv.Outcome
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.False(t, got.Success)
	assert.Equal(t, docconv.KindUnsupportedFormat, got.ErrorKind)
}

func TestMCPConvertBadContent(t *testing.T) {
	t.Parallel()
	session := mcpSession(t, docconv.New(docconv.Config{}))
	result := callTool(t, session, "docconv_convert", map[string]any{
		"filename": "notes.txt",
		"content":  "!!! not base64 !!!",
	})
	assert.True(t, result.IsError)
}

func TestMCPDetect(t *testing.T) {
	t.Parallel()
	session := mcpSession(t, docconv.New(docconv.Config{}))
	tests := map[string]struct {
		filename string
		want     string
	}{
		"xlsx":    {filename: "Report.XLSX", want: "spreadsheet"},
		"pdf":     {filename: "paper.pdf", want: "pdf"},
		"unknown": {filename: "image.png", want: "unsupported"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			text := toolText(t, callTool(t, session, "docconv_detect", map[string]any{"filename": tt.filename}))
			var resp struct {
				SourceFormat string `json:"source_format"`
			}
			require.NoError(t, json.Unmarshal([]byte(text), &resp))
			assert.Equal(t, tt.want, resp.SourceFormat)
		})
	}
}

func TestMCPFormats(t *testing.T) {
	t.Parallel()
	session := mcpSession(t, docconv.New(docconv.Config{}))
	text := toolText(t, callTool(t, session, "docconv_formats", map[string]any{}))

	var resp struct {
		Extensions []string `json:"extensions"`
		Formats    []string `json:"formats"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, docconv.SupportedExtensions(), resp.Extensions)
	assert.Equal(t, []string{"jsonl", "json", "csv", "yaml", "tsv", "markdown", "html", "table"}, resp.Formats)
}

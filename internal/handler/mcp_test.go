package handler

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// connectMCP wires the handler's MCP server to a client over in-memory transports.
func connectMCP(t *testing.T) (*Handler, *mcp.ClientSession) {
	t.Helper()
	h, _ := testHandler(t)
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := h.NewMCPServer().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server Connect() error: %v", err)
	}
	t.Cleanup(func() { serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client Connect() error: %v", err)
	}
	t.Cleanup(func() { session.Close() })

	return h, session
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want *mcp.TextContent", res.Content[0])
	}
	return text.Text
}

func TestMCPHandlerCreation(t *testing.T) {
	h, _ := testHandler(t)

	if h.NewMCPServer() == nil {
		t.Fatal("NewMCPServer returned nil")
	}
	if h.NewMCPHandler() == nil {
		t.Fatal("NewMCPHandler returned nil")
	}
}

func TestMCPListTools(t *testing.T) {
	_, session := connectMCP(t)

	res, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools() error: %v", err)
	}

	names := make(map[string]bool)
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"get_configuration", "render_configuration"} {
		if !names[want] {
			t.Errorf("tool %q not registered", want)
		}
	}
}

func TestMCPGetConfiguration(t *testing.T) {
	h, session := connectMCP(t)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_configuration",
		Arguments: map[string]any{},
	})
	if err != nil {
		t.Fatalf("CallTool() error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	if got := resultText(t, res); got != string(h.doc) {
		t.Errorf("text = %q, want served document", got)
	}
}

func TestMCPRenderConfiguration(t *testing.T) {
	_, session := connectMCP(t)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "render_configuration",
		Arguments: map[string]any{
			"name":       "Quiz",
			"id":         "quiz-1",
			"launch_url": "https://quiz.example.com/launch",
			"domain":     "quiz.example.com",
			"placements": []map[string]any{
				{
					"placement": "course_navigation",
					"properties": []map[string]any{
						{"name": "text", "value": "Click"},
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("CallTool() error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	got := resultText(t, res)
	checks := []string{
		"<blti:title>Quiz</blti:title>",
		`<lticm:property name="domain">quiz.example.com</lticm:property>`,
		`<lticm:property name="text">Click</lticm:property>`,
		`<lticm:property name="url">https://quiz.example.com/launch</lticm:property>`,
	}
	for _, check := range checks {
		if !strings.Contains(got, check) {
			t.Errorf("rendered XML missing %q", check)
		}
	}
}

func TestMCPRenderConfigurationInvalid(t *testing.T) {
	_, session := connectMCP(t)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "render_configuration",
		Arguments: map[string]any{
			"name":          "Quiz",
			"id":            "quiz-1",
			"launch_url":    "https://quiz.example.com/launch",
			"privacy_level": "bogus",
		},
	})
	if err != nil {
		// Protocol-level errors are acceptable as long as the call fails
		return
	}
	if !res.IsError {
		t.Fatal("expected tool error for invalid privacy level")
	}
	if text := resultText(t, res); !strings.Contains(text, "CONFIGURATION_ERROR") {
		t.Errorf("error text = %q, want CONFIGURATION_ERROR", text)
	}
}

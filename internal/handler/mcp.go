// MCP transport handler using the official MCP Go SDK.
// Exposes the served configuration and ad-hoc rendering as MCP tools.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"lti-provider/internal/config"
	"lti-provider/internal/lti"
	"lti-provider/internal/metrics"
	"lti-provider/internal/model"
)

// === MCP Tool Input/Output Types ===
// Placements are arrays here because JSON object order is not carried by the
// schema the SDK infers.

// GetConfigurationInput is the (empty) input schema for get_configuration.
type GetConfigurationInput struct{}

// RenderConfigurationInput is the input schema for render_configuration.
type RenderConfigurationInput struct {
	Name         string           `json:"name" jsonschema:"tool name, rendered as blti:title and default placement text"`
	ID           string           `json:"id" jsonschema:"globally unique tool identifier"`
	LaunchURL    string           `json:"launch_url" jsonschema:"LTI launch endpoint, default placement url"`
	Description  string           `json:"description,omitempty" jsonschema:"tool description"`
	IconURL      string           `json:"icon_url,omitempty" jsonschema:"icon URL"`
	PrivacyLevel string           `json:"privacy_level,omitempty" jsonschema:"public, name_only, email_only or anonymous (default)"`
	Domain       string           `json:"domain,omitempty" jsonschema:"domain extension property"`
	Placements   []PlacementInput `json:"placements,omitempty" jsonschema:"placements in document order; course_navigation is used when empty"`
}

// PlacementInput configures one placement.
type PlacementInput struct {
	Placement  string          `json:"placement" jsonschema:"placement code, e.g. course_navigation"`
	Properties []PropertyInput `json:"properties,omitempty" jsonschema:"properties in document order"`
}

// PropertyInput is one lticm:property.
type PropertyInput struct {
	Name  string `json:"name" jsonschema:"property name"`
	Value string `json:"value" jsonschema:"property value"`
}

// ConfigurationOutput is the structured result of both tools.
type ConfigurationOutput struct {
	ToolID string `json:"tool_id"`
	XML    string `json:"xml"`
}

// NewMCPServer creates an MCP server with configuration tools registered.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "lti-provider",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "LTI tool provider configuration. " +
				"Use these tools to read the served cartridge_basiclti_link XML or render a new one.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_configuration",
		Description: "Return the LTI tool provider configuration XML served at /lti/config.xml.",
	}, h.mcpGetConfiguration)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_configuration",
		Description: "Render an LTI tool provider configuration XML from a tool definition.",
	}, h.mcpRenderConfiguration)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpGetConfiguration(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetConfigurationInput,
) (*mcp.CallToolResult, ConfigurationOutput, error) {
	return xmlResult(h.tool.ID(), string(h.doc))
}

func (h *Handler) mcpRenderConfiguration(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RenderConfigurationInput,
) (*mcp.CallToolResult, ConfigurationOutput, error) {
	tool := config.ToolConfig{
		Name:         input.Name,
		ID:           input.ID,
		LaunchURL:    input.LaunchURL,
		Description:  input.Description,
		IconURL:      input.IconURL,
		PrivacyLevel: input.PrivacyLevel,
		Domain:       input.Domain,
	}
	for _, p := range input.Placements {
		var props lti.Properties
		for _, prop := range p.Properties {
			props = props.Set(prop.Name, prop.Value)
		}
		tool.Placements = append(tool.Placements, config.Placement{Option: p.Placement, Properties: props})
	}

	b, err := tool.Build()
	metrics.RecordRender("mcp", err)
	if err != nil {
		return nil, ConfigurationOutput{}, h.mcpError(err)
	}

	return xmlResult(b.ID(), b.Render())
}

func xmlResult(toolID, doc string) (*mcp.CallToolResult, ConfigurationOutput, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: doc}},
	}, ConfigurationOutput{ToolID: toolID, XML: doc}, nil
}

// mcpError converts errors to MCP-friendly errors.
func (h *Handler) mcpError(err error) error {
	var cfgErr *lti.ConfigurationError
	if errors.As(err, &cfgErr) {
		apiErr := model.NewConfigurationError(cfgErr)
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	// Don't leak internal error details
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}

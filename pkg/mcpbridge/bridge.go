// Package mcpbridge is an example external agent component living outside
// loom's core boundary — the core only ever sees it as a user component
// via reconcile.ComponentFunc. It shows how a real agent integration
// stamps pkg/node's opaque Execution slot and exposes a single MCP tool an
// operator can call to inspect the currently mounted tree.
package mcpbridge

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/loomtree/loom"
	"github.com/loomtree/loom/pkg/execution"
	"github.com/loomtree/loom/pkg/hooks"
	"github.com/loomtree/loom/pkg/reconcile"
)

// Server wraps an *mcp.Server exposing loom's currently mounted tree to AI
// agents over the Model Context Protocol.
type Server struct {
	server *mcp.Server
}

// NewServer creates the MCP server and registers its one tool,
// "current_tree_xml", which returns loom.CurrentTreeXML().
func NewServer() *Server {
	impl := &mcp.Implementation{Name: "loom-bridge", Version: "0.1.0"}
	s := mcp.NewServer(impl, &mcp.ServerOptions{})

	tool := &mcp.Tool{
		Name:        "current_tree_xml",
		Description: "Return the XML serialization of loom's most recently created root, if any.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}
	s.AddTool(tool, handleCurrentTreeXML)

	return &Server{server: s}
}

func handleCurrentTreeXML(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	xml, ok := loom.CurrentTreeXML()
	if !ok {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "no root currently mounted"}},
			IsError: true,
		}, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: xml}},
	}, nil
}

// AgentRunner invokes an external agent for a single node's content and
// stamps the result into node.Execution, the opaque slot external
// collaborators own.
type AgentRunner func(ctx context.Context, prompt string) (string, error)

// Agent is an example ComponentFunc: it renders a claude element whose
// status prop is "pending", and on mount it runs run against prompt,
// recording running -> complete/error transitions on its own
// committed node's Execution slot via OnMount, the same lifecycle hook the
// core ships (pkg/hooks), never reaching into pkg/node directly except
// through the exported helpers in pkg/execution.
func Agent(run AgentRunner, prompt string) reconcile.ComponentFunc {
	return func(ctx *reconcile.RenderContext) reconcile.Element {
		el := reconcile.H("claude", map[string]interface{}{"status": "pending"})

		hooks.OnMount(ctx, func() {
			n := ctx.Node()
			if n == nil {
				return
			}
			execution.Start(n, execution.ContentHash(prompt))
			result, err := run(context.Background(), prompt)
			execution.Finish(n, result, err)
		})

		return el
	}
}

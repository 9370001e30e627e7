// Package mcp exposes the engine as an MCP server so AI agents can
// converse with Penny and inspect contexts and expenses as tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mintaka-labs/pennywise"
	"github.com/mintaka-labs/pennywise/pkg/domain"
	"github.com/mintaka-labs/pennywise/pkg/runner"
	"github.com/mitchellh/mapstructure"
)

// Server wraps a turn runner and exposes it as an MCP server.
type Server struct {
	runner    *runner.Runner
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(r *runner.Runner) *Server {
	s := &Server{
		runner:    r,
		mcpServer: server.NewMCPServer("pennywise-mcp", strings.TrimSpace(pennywise.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send a user message to Penny and get the reply messages plus the updated context."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Stable user identifier")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The user's utterance")),
		mcp.WithString("user_name", mcp.Description("Display name, used when the context is first created")),
	)
	s.mcpServer.AddTool(sendTool, s.handleSendMessage)

	contextTool := mcp.NewTool("get_context",
		mcp.WithDescription("Get the durable conversational context for a user."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Stable user identifier")),
	)
	s.mcpServer.AddTool(contextTool, s.handleGetContext)

	expensesTool := mcp.NewTool("list_expenses",
		mcp.WithDescription("List a user's expenses for a window (RFC 3339 bounds; defaults to the last 30 days)."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Stable user identifier")),
		mcp.WithString("from", mcp.Description("Window start, RFC 3339")),
		mcp.WithString("to", mcp.Description("Window end, RFC 3339")),
	)
	s.mcpServer.AddTool(expensesTool, s.handleListExpenses)
}

type sendMessageArgs struct {
	UserID   string `mapstructure:"user_id"`
	Text     string `mapstructure:"text"`
	UserName string `mapstructure:"user_name"`
}

func (s *Server) handleSendMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args sendMessageArgs
	if err := mapstructure.Decode(req.GetArguments(), &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.UserID == "" || args.Text == "" {
		return mcp.NewToolResultError("user_id and text are required"), nil
	}

	result, err := s.runner.Turn(ctx, runner.Message{
		UserID:   args.UserID,
		UserName: args.UserName,
		Text:     args.Text,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInactiveContext) {
			return mcp.NewToolResultError("account is deactivated"), nil
		}
		return nil, err
	}

	return jsonResult(result)
}

type getContextArgs struct {
	UserID string `mapstructure:"user_id"`
}

func (s *Server) handleGetContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args getContextArgs
	if err := mapstructure.Decode(req.GetArguments(), &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.UserID == "" {
		return mcp.NewToolResultError("user_id is required"), nil
	}

	convo, err := s.runner.Sessions().Load(ctx, args.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrContextNotFound) {
			return mcp.NewToolResultError("context not found"), nil
		}
		return nil, err
	}

	return jsonResult(convo)
}

type listExpensesArgs struct {
	UserID string `mapstructure:"user_id"`
	From   string `mapstructure:"from"`
	To     string `mapstructure:"to"`
}

func (s *Server) handleListExpenses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listExpensesArgs
	if err := mapstructure.Decode(req.GetArguments(), &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.UserID == "" {
		return mcp.NewToolResultError("user_id is required"), nil
	}

	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if args.From != "" {
		parsed, err := time.Parse(time.RFC3339, args.From)
		if err != nil {
			return mcp.NewToolResultError("invalid from"), nil
		}
		from = parsed
	}
	if args.To != "" {
		parsed, err := time.Parse(time.RFC3339, args.To)
		if err != nil {
			return mcp.NewToolResultError("invalid to"), nil
		}
		to = parsed
	}

	expenses, err := s.runner.Ledger().QueryExpenses(ctx, args.UserID, from, to)
	if err != nil {
		return nil, err
	}

	return jsonResult(expenses)
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

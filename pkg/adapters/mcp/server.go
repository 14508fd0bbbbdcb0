// Package mcp exposes a bot as an MCP server, so agent hosts can drive
// conversations as tool calls over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/wicker"
	"github.com/aretw0/wicker/pkg/domain"
)

// TurnResponse is the structured result of the send_message tool.
type TurnResponse struct {
	Messages []domain.Message `json:"messages" jsonschema_description:"Ordered outbound messages for the turn"`
}

// Server wraps a bot and exposes it as an MCP server.
type Server struct {
	bot       *wicker.Bot
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers its tools.
func NewServer(bot *wicker.Bot) *Server {
	s := &Server{
		bot:       bot,
		mcpServer: server.NewMCPServer("wicker-mcp", wicker.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: send_message
	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send one utterance into a conversation and receive the bot's replies. State persists between calls for the same conversation_id."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation identifier; reuse it across calls to continue a dialog")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The user's utterance")),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSendMessage))

	// TOOL: reset_session
	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Delete a conversation's session, returning it to a blank idle state."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation identifier")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("conversation_id", "")
		if id == "" {
			return mcp.NewToolResultError("conversation_id is required"), nil
		}
		if err := s.bot.Sessions().Delete(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
		}
		return mcp.NewToolResultText("session deleted"), nil
	})

	// TOOL: list_dialogs
	s.mcpServer.AddTool(mcp.NewTool("list_dialogs",
		mcp.WithDescription("List the dialog names this bot can run."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.bot.Dialogs())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TurnResponse, error) {
	conversationID, _ := args["conversation_id"].(string)
	text, _ := args["text"].(string)
	if conversationID == "" {
		return TurnResponse{}, fmt.Errorf("conversation_id is required")
	}

	messages, err := s.bot.Converse(ctx, conversationID, text)
	if err != nil {
		return TurnResponse{}, fmt.Errorf("turn failed: %w", err)
	}
	return TurnResponse{Messages: messages}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: wicker://dialogs
	s.mcpServer.AddResource(mcp.NewResource("wicker://dialogs", "Registered Dialogs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(s.bot.Dialogs())
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "wicker://dialogs",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

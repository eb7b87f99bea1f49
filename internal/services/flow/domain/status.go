package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FlowStatusInput represents the MCP tool input for reading flow status.
type FlowStatusInput struct {
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"optional conversation_id returned by authenticate_user; used to read flow state when the session was recreated"`
}

// FlowStatusResult represents the MCP tool output for reading flow status.
type FlowStatusResult struct {
	Authenticated  bool      `json:"authenticated" jsonschema:"whether the conversation is authenticated"`
	Flow           FlowState `json:"flow" jsonschema:"current flow progress flags"`
	ConversationID string    `json:"conversation_id,omitempty" jsonschema:"flow identifier"`
}

// FlowStatusTool defines the MCP tool schema for reading flow status.
func FlowStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "get_flow_status",
		Description: "Returns the current auth and flow progress for the conversation. " +
			"Call any time to recover flow state or to see which step is next. Never fails.",
	}
}

// FlowStatusHandler reads progress without mutating it. Recovery from the
// registry is attempted only when the session looks unauthenticated.
func FlowStatusHandler(registry ConversationRegistry, states StateResolver) mcp.ToolHandlerFor[FlowStatusInput, FlowStatusResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input FlowStatusInput) (*mcp.CallToolResult, FlowStatusResult, error) {
		state := states(req)
		conversationID := NormalizeConversationID(input.ConversationID)

		data := state.Snapshot()
		if !data.Authenticated() && conversationID != "" && registry != nil {
			if snapshot, ok := registry.Restore(conversationID); ok {
				state.Replace(snapshot)
				data = state.Snapshot()
			}
		}

		return nil, FlowStatusResult{
			Authenticated:  data.Authenticated(),
			Flow:           FlowStateForStage(data.Stage),
			ConversationID: conversationID,
		}, nil
	}
}

// LogoutInput represents the MCP tool input for clearing a conversation.
type LogoutInput struct {
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"optional conversation_id whose fallback flow state should be cleared"`
}

// LogoutResult represents the MCP tool output for clearing a conversation.
type LogoutResult struct {
	Status         string `json:"status" jsonschema:"always ok"`
	Message        string `json:"message,omitempty" jsonschema:"confirmation message"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"flow identifier that was cleared"`
}

// LogoutTool defines the MCP tool schema for clearing a conversation.
func LogoutTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "logout",
		Description: "Resets session state (auth, flow progress, prepared offer, last submission). " +
			"Call at the end of the conversation or when the user wants to restart verification. Never fails.",
	}
}

// LogoutHandler clears the session and removes the conversation snapshot so
// the identifier can no longer recover the flow.
func LogoutHandler(registry ConversationRegistry, states StateResolver) mcp.ToolHandlerFor[LogoutInput, LogoutResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input LogoutInput) (*mcp.CallToolResult, LogoutResult, error) {
		states(req).Clear()

		conversationID := NormalizeConversationID(input.ConversationID)
		if conversationID != "" && registry != nil {
			registry.Delete(conversationID)
		}

		return nil, LogoutResult{
			Status:         "ok",
			Message:        "Session cleared.",
			ConversationID: conversationID,
		}, nil
	}
}

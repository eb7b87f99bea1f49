package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AuthenticateInput represents the MCP tool input for authenticating a user.
type AuthenticateInput struct {
	Name             string `json:"name" jsonschema:"full user name (for example 'Jan Novak'); ask the user for this value"`
	RodneCisloSuffix string `json:"rodne_cislo_suffix" jsonschema:"last digits of rodne cislo; ask the user for the suffix only, never the full number"`
	PhoneNumber      string `json:"phone_number,omitempty" jsonschema:"verification phone number; the agent should use the known mock value 731527923 unless told otherwise"`
	ConversationID   string `json:"conversation_id,omitempty" jsonschema:"optional stable flow identifier; when missing the server mints one and returns it"`
}

// AuthenticateResult represents the MCP tool output for authenticating a user.
type AuthenticateResult struct {
	Authenticated  bool   `json:"authenticated" jsonschema:"whether the credentials were accepted"`
	Reason         string `json:"reason,omitempty" jsonschema:"rejection reason when not authenticated"`
	CustomerID     string `json:"customer_id,omitempty" jsonschema:"customer identifier"`
	Name           string `json:"name,omitempty" jsonschema:"customer name"`
	PhoneNumber    string `json:"phone_number,omitempty" jsonschema:"verified phone number"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"flow identifier to pass to subsequent tools"`
	NextStep       string `json:"next_step,omitempty" jsonschema:"suggested next tool call"`
}

// AuthenticateTool defines the MCP tool schema for authenticating a user.
func AuthenticateTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "authenticate_user",
		Description: "Authenticates the user before any protected tool call. Always first in the flow. " +
			"Collect name and rodne_cislo_suffix from the user; the phone number is already known to the agent as 731527923 (mock). " +
			"On success returns a conversation_id that must be passed to all subsequent tools. " +
			"On failure returns authenticated=false with a clear reason and no access to protected tools.",
	}
}

// AuthenticateHandler verifies credentials against the directory and starts a
// new conversation flow. Bad credentials are a normal negative result, never a
// tool error.
func AuthenticateHandler(directory UserDirectory, registry ConversationRegistry, states StateResolver) mcp.ToolHandlerFor[AuthenticateInput, AuthenticateResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AuthenticateInput) (*mcp.CallToolResult, AuthenticateResult, error) {
		phone := input.PhoneNumber
		if phone == "" {
			phone = AgentKnownPhoneNumber
		}

		customer, err := directory.Lookup(ctx, input.Name, input.RodneCisloSuffix, phone)
		if err != nil {
			if errors.Is(err, ErrUnknownName) || errors.Is(err, ErrSuffixMismatch) || errors.Is(err, ErrPhoneMismatch) {
				return nil, AuthenticateResult{Authenticated: false, Reason: err.Error() + "."}, nil
			}
			return nil, AuthenticateResult{}, fmt.Errorf("directory lookup: %w", err)
		}

		conversationID := NormalizeConversationID(input.ConversationID)
		if conversationID == "" {
			conversationID = NewConversationID()
		}

		state := states(req)
		state.Replace(ConversationData{
			Auth: &AuthRecord{
				Authenticated: true,
				CustomerID:    customer.CustomerID,
				Name:          customer.Name,
				PhoneNumber:   customer.PhoneNumber,
			},
			Stage: StageAuthenticated,
		})
		registry.Save(conversationID, state.Snapshot())

		return nil, AuthenticateResult{
			Authenticated:  true,
			CustomerID:     customer.CustomerID,
			Name:           customer.Name,
			PhoneNumber:    customer.PhoneNumber,
			ConversationID: conversationID,
			NextStep:       "Call download_user_info(conversation_id=<returned_value>).",
		}, nil
	}
}

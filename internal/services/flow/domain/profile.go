package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DownloadUserInfoInput represents the MCP tool input for downloading the
// customer profile.
type DownloadUserInfoInput struct {
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation_id returned by authenticate_user; required for clients that do not keep session state between calls"`
}

// DownloadUserInfoResult represents the MCP tool output for downloading the
// customer profile.
type DownloadUserInfoResult struct {
	CustomerID      string `json:"customer_id" jsonschema:"customer identifier"`
	Name            string `json:"name" jsonschema:"customer name"`
	PhoneNumber     string `json:"phone_number" jsonschema:"customer phone number"`
	Email           string `json:"email" jsonschema:"customer email"`
	CurrentPlanMbps int    `json:"current_plan_mbps" jsonschema:"current plan speed"`
	ConversationID  string `json:"conversation_id,omitempty" jsonschema:"flow identifier"`
	Message         string `json:"message,omitempty" jsonschema:"suggested next step"`
}

// DownloadUserInfoTool defines the MCP tool schema for downloading the profile.
func DownloadUserInfoTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "download_user_info",
		Description: "Downloads the customer profile after authentication: plan speed and contact info. " +
			"Call after a successful authenticate_user. This unlocks prepare_new_offer.",
	}
}

// DownloadUserInfoHandler loads the authenticated customer's profile and
// advances the flow to the profile-loaded stage.
func DownloadUserInfoHandler(directory UserDirectory, registry ConversationRegistry, states StateResolver) mcp.ToolHandlerFor[DownloadUserInfoInput, DownloadUserInfoResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input DownloadUserInfoInput) (*mcp.CallToolResult, DownloadUserInfoResult, error) {
		state := states(req)
		auth, conversationID, err := RequireAuthorized(state, registry, input.ConversationID)
		if err != nil {
			return nil, DownloadUserInfoResult{}, err
		}

		customer, err := directory.GetByID(ctx, auth.CustomerID)
		if err != nil {
			return nil, DownloadUserInfoResult{}, fmt.Errorf("load customer profile: %w", err)
		}

		state.Update(func(data *ConversationData) {
			data.Stage = data.Stage.Advance(StageProfileLoaded)
		})
		registry.Save(conversationID, state.Snapshot())

		return nil, DownloadUserInfoResult{
			CustomerID:      customer.CustomerID,
			Name:            customer.Name,
			PhoneNumber:     customer.PhoneNumber,
			Email:           customer.Email,
			CurrentPlanMbps: customer.CurrentPlanMbps,
			ConversationID:  conversationID,
			Message:         "User info downloaded. Next call prepare_new_offer.",
		}, nil
	}
}

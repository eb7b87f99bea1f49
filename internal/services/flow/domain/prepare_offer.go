package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PrepareNewOfferInput represents the MCP tool input for preparing an offer.
type PrepareNewOfferInput struct {
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation_id returned by authenticate_user; required for clients that do not keep session state between calls"`
}

// PrepareNewOfferResult represents the MCP tool output for preparing an offer.
type PrepareNewOfferResult struct {
	Offer          Offer  `json:"offer" jsonschema:"prepared upgrade offer"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"flow identifier"`
	NextStep       string `json:"next_step,omitempty" jsonschema:"suggested next tool call"`
}

// PrepareNewOfferTool defines the MCP tool schema for preparing an offer.
func PrepareNewOfferTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "prepare_new_offer",
		Description: "Prepares the fixed upgrade offer from the current plan to 250 Mbps. " +
			"Call after download_user_info. After receiving the offer, ask the user whether they accept it, " +
			"then call submit_offer_to_external_service with their answer.",
	}
}

// PrepareNewOfferHandler creates a fresh offer for the authenticated customer.
// Calling it again supersedes the previous offer under a new offer id.
func PrepareNewOfferHandler(directory UserDirectory, registry ConversationRegistry, states StateResolver) mcp.ToolHandlerFor[PrepareNewOfferInput, PrepareNewOfferResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input PrepareNewOfferInput) (*mcp.CallToolResult, PrepareNewOfferResult, error) {
		state := states(req)
		auth, conversationID, err := RequireAuthorized(state, registry, input.ConversationID)
		if err != nil {
			return nil, PrepareNewOfferResult{}, err
		}
		if err := RequireStage(state.Snapshot().Stage, StageProfileLoaded); err != nil {
			return nil, PrepareNewOfferResult{}, err
		}

		customer, err := directory.GetByID(ctx, auth.CustomerID)
		if err != nil {
			return nil, PrepareNewOfferResult{}, fmt.Errorf("load customer profile: %w", err)
		}

		offer := UpgradeOfferFor(customer)
		state.Update(func(data *ConversationData) {
			data.PreparedOffer = &offer
			data.Stage = data.Stage.Advance(StageOfferPrepared)
		})
		registry.Save(conversationID, state.Snapshot())

		return nil, PrepareNewOfferResult{
			Offer:          offer,
			ConversationID: conversationID,
			NextStep: "Ask the user for acceptance, then call " +
				"submit_offer_to_external_service(accept_offer=<true_or_false>, conversation_id=<same_value>).",
		}, nil
	}
}

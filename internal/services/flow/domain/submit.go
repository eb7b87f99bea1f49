package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Submission statuses reported to the caller.
const (
	SubmissionOutcomeSubmitted = "submitted"
	SubmissionOutcomeCancelled = "cancelled"
)

// SubmitOfferInput represents the MCP tool input for submitting an offer.
// Omitted booleans default to true, matching the conversational flow where
// the agent normally submits an accepted, persisted request.
type SubmitOfferInput struct {
	AcceptOffer    *bool  `json:"accept_offer,omitempty" jsonschema:"true when the user accepted the offer (default true)"`
	PersistToDB    *bool  `json:"persist_to_db,omitempty" jsonschema:"true to persist the request to the ledger, false for a mock external response (default true)"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation_id returned by authenticate_user; required for clients that do not keep session state between calls"`
}

// SubmitOfferResult represents the MCP tool output for submitting an offer.
type SubmitOfferResult struct {
	Status         string            `json:"status" jsonschema:"submitted or cancelled"`
	CustomerID     string            `json:"customer_id,omitempty" jsonschema:"customer identifier"`
	OfferID        string            `json:"offer_id,omitempty" jsonschema:"identifier of the submitted offer"`
	ExternalResult *SubmissionResult `json:"external_result,omitempty" jsonschema:"external service acknowledgement"`
	ConversationID string            `json:"conversation_id,omitempty" jsonschema:"flow identifier"`
	Message        string            `json:"message,omitempty" jsonschema:"human readable outcome"`
}

// SubmitOfferTool defines the MCP tool schema for submitting an offer.
func SubmitOfferTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "submit_offer_to_external_service",
		Description: "Final step: submits the accepted offer to the external service. " +
			"Call after prepare_new_offer once the user confirmed acceptance. " +
			"Set accept_offer=true if the user agrees and persist_to_db=true to record the request durably; " +
			"with persist_to_db=false a mock external response is returned instead.",
	}
}

// SubmitOfferHandler finalizes the flow. Declined offers return a cancelled
// status with no state change beyond guard recovery; accepted offers go
// through the recorder, and only after that side effect succeeds does the
// stage advance.
func SubmitOfferHandler(directory UserDirectory, recorder SubmissionRecorder, registry ConversationRegistry, states StateResolver) mcp.ToolHandlerFor[SubmitOfferInput, SubmitOfferResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SubmitOfferInput) (*mcp.CallToolResult, SubmitOfferResult, error) {
		state := states(req)
		auth, conversationID, err := RequireAuthorized(state, registry, input.ConversationID)
		if err != nil {
			return nil, SubmitOfferResult{}, err
		}
		data := state.Snapshot()
		if err := RequireStage(data.Stage, StageOfferPrepared); err != nil {
			return nil, SubmitOfferResult{}, err
		}

		if input.AcceptOffer != nil && !*input.AcceptOffer {
			return nil, SubmitOfferResult{
				Status:         SubmissionOutcomeCancelled,
				ConversationID: conversationID,
				Message:        "Offer was not accepted. Nothing sent to external service.",
			}, nil
		}

		if data.PreparedOffer == nil {
			return nil, SubmitOfferResult{}, ErrMissingOffer
		}
		offer := *data.PreparedOffer

		customer, err := directory.GetByID(ctx, auth.CustomerID)
		if err != nil {
			return nil, SubmitOfferResult{}, fmt.Errorf("load customer profile: %w", err)
		}

		var submission SubmissionResult
		if input.PersistToDB != nil && !*input.PersistToDB {
			submission = NewSyntheticSubmission()
		} else {
			submission, err = recorder.RecordUpgradeRequest(ctx, customer, offer)
			if err != nil {
				return nil, SubmitOfferResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
		}

		state.Update(func(data *ConversationData) {
			data.LastSubmission = &submission
			data.Stage = data.Stage.Advance(StageSubmitted)
		})
		registry.Save(conversationID, state.Snapshot())

		return nil, SubmitOfferResult{
			Status:         SubmissionOutcomeSubmitted,
			CustomerID:     customer.CustomerID,
			OfferID:        offer.OfferID,
			ExternalResult: &submission,
			ConversationID: conversationID,
		}, nil
	}
}

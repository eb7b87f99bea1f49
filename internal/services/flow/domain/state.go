package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Stage identifies how far a conversation has progressed through the upgrade
// flow. Stages only advance; the only way back is logout.
type Stage int

const (
	// StageUnauthenticated is the zero value before authenticate_user succeeds.
	StageUnauthenticated Stage = iota
	// StageAuthenticated means credentials were verified.
	StageAuthenticated
	// StageProfileLoaded means download_user_info completed.
	StageProfileLoaded
	// StageOfferPrepared means a current offer exists in the conversation.
	StageOfferPrepared
	// StageSubmitted means an accepted offer was sent to the external service.
	StageSubmitted
)

// stageToolNames maps each stage to the tool call that reaches it, used to
// name the required prior step in ordering errors.
var stageToolNames = map[Stage]string{
	StageAuthenticated: "authenticate_user",
	StageProfileLoaded: "download_user_info",
	StageOfferPrepared: "prepare_new_offer",
	StageSubmitted:     "submit_offer_to_external_service",
}

// RequireStage is the single ordering check consulted by every operation. It
// fails with an ErrFlowOrder-wrapped error naming the missing prior call when
// the conversation has not yet reached the required stage.
func RequireStage(current, required Stage) error {
	if current >= required {
		return nil
	}
	return fmt.Errorf("%w: call %s before this step", ErrFlowOrder, stageToolNames[required])
}

// Advance returns the later of the current stage and next. Stages never
// regress, so replaying an earlier operation leaves progress untouched.
func (s Stage) Advance(next Stage) Stage {
	if next > s {
		return next
	}
	return s
}

// AuthRecord captures the verified identity owned by a conversation.
type AuthRecord struct {
	Authenticated bool   `json:"authenticated"`
	CustomerID    string `json:"customer_id"`
	Name          string `json:"name"`
	PhoneNumber   string `json:"phone_number"`
}

// FlowState is the public progress view derived from the stage. Each flag is
// monotonic within a conversation until logout.
type FlowState struct {
	Authenticated      bool `json:"authenticated" jsonschema:"true once authenticate_user succeeded"`
	UserInfoDownloaded bool `json:"user_info_downloaded" jsonschema:"true once download_user_info completed"`
	OfferPrepared      bool `json:"offer_prepared" jsonschema:"true once prepare_new_offer completed"`
	Submitted          bool `json:"submitted" jsonschema:"true once an accepted offer was submitted"`
}

// FlowStateForStage derives the boolean progress view from a stage.
func FlowStateForStage(stage Stage) FlowState {
	return FlowState{
		Authenticated:      stage >= StageAuthenticated,
		UserInfoDownloaded: stage >= StageProfileLoaded,
		OfferPrepared:      stage >= StageOfferPrepared,
		Submitted:          stage >= StageSubmitted,
	}
}

// Offer is a prepared upgrade offer. Offers are immutable; preparing again
// supersedes the previous offer wholesale under a fresh id.
type Offer struct {
	OfferID         string `json:"offer_id" jsonschema:"unique offer identifier"`
	CustomerID      string `json:"customer_id" jsonschema:"customer the offer belongs to"`
	CurrentPlanMbps int    `json:"current_plan_mbps" jsonschema:"customer's current plan speed"`
	OfferedPlanMbps int    `json:"offered_plan_mbps" jsonschema:"offered plan speed"`
	PriceDeltaCZK   int    `json:"price_delta_czk" jsonschema:"monthly price change in CZK"`
	Description     string `json:"description" jsonschema:"human readable offer summary"`
	ValidUntil      string `json:"valid_until" jsonschema:"offer expiry date (YYYY-MM-DD)"`
}

// SubmissionResult records the outcome of one accepted submission. It is
// created once and never mutated afterwards.
type SubmissionResult struct {
	RequestID         string `json:"request_id" jsonschema:"unique request identifier"`
	ExternalReference string `json:"external_reference" jsonschema:"reference issued by the external service"`
	SavedDurably      bool   `json:"saved_to_db" jsonschema:"whether the request was persisted to the ledger"`
	Status            string `json:"status" jsonschema:"submission status"`
	CreatedAt         string `json:"created_at" jsonschema:"RFC3339 timestamp of the submission"`
}

// ConversationData is the complete tracked state of one conversation: the
// fixed record that replaces an ad hoc key/value bag. It is the unit the
// registry snapshots and restores wholesale.
type ConversationData struct {
	Auth           *AuthRecord
	Stage          Stage
	PreparedOffer  *Offer
	LastSubmission *SubmissionResult
}

// Clone deep-copies the conversation data so a snapshot never aliases live
// mutable state.
func (d ConversationData) Clone() ConversationData {
	out := ConversationData{Stage: d.Stage}
	if d.Auth != nil {
		auth := *d.Auth
		out.Auth = &auth
	}
	if d.PreparedOffer != nil {
		offer := *d.PreparedOffer
		out.PreparedOffer = &offer
	}
	if d.LastSubmission != nil {
		submission := *d.LastSubmission
		out.LastSubmission = &submission
	}
	return out
}

// Authenticated reports whether the conversation holds a verified identity.
func (d ConversationData) Authenticated() bool {
	return d.Auth != nil && d.Auth.Authenticated
}

// NormalizeConversationID trims the caller-supplied identifier; an empty or
// whitespace-only id is treated as absent.
func NormalizeConversationID(conversationID string) string {
	return strings.TrimSpace(conversationID)
}

// NewConversationID mints a fresh opaque conversation identifier.
func NewConversationID() string {
	return "conv-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SubmissionStatusAccepted is the only status an upgrade request can carry at
// submission time; administrative tooling may change it later.
const SubmissionStatusAccepted = "accepted"

// SubmissionRecorder sends one accepted upgrade request to the external
// service. Implementations may block on I/O.
type SubmissionRecorder interface {
	RecordUpgradeRequest(ctx context.Context, customer Customer, offer Offer) (SubmissionResult, error)
}

// NewSyntheticSubmission fabricates a non-persisted acknowledgement for runs
// where ledger persistence is disabled. The MOCK- prefix distinguishes it from
// durable EXT- references.
func NewSyntheticSubmission() SubmissionResult {
	return SubmissionResult{
		RequestID:         uuid.NewString(),
		ExternalReference: "MOCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]),
		SavedDurably:      false,
		Status:            SubmissionStatusAccepted,
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
	}
}

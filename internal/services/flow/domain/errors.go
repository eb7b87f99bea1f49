package domain

import "errors"

// Sentinel errors for the flow failure taxonomy. Bad credentials are not part
// of it: authenticate_user reports them as a normal negative result.
var (
	// ErrUnauthorized means a protected tool was called without a valid,
	// recoverable auth record.
	ErrUnauthorized = errors.New("unauthorized: first call authenticate_user(name, rodne_cislo_suffix, phone_number) and keep the returned conversation_id for next tool calls")

	// ErrFlowOrder means an operation was called out of sequence.
	ErrFlowOrder = errors.New("flow order violation")

	// ErrMissingOffer means submission was attempted with no prepared offer in
	// state, typically because state was lost or logout raced the submission.
	ErrMissingOffer = errors.New("no prepared offer found in session state")

	// ErrPersistence means the ledger write failed. Flow progress is left
	// unmodified so the caller may retry the submission.
	ErrPersistence = errors.New("persistence error")
)

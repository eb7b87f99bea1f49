// Package storage defines the submission ledger contract for the flow service.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no upgrade request matches the given id.
var ErrNotFound = errors.New("upgrade request not found")

// UpgradeRequest is one accepted upgrade submission recorded in the ledger.
type UpgradeRequest struct {
	RequestID         string `json:"request_id"`
	CreatedAt         string `json:"created_at"`
	CustomerID        string `json:"customer_id"`
	CustomerName      string `json:"customer_name"`
	CurrentPlanMbps   int    `json:"current_plan_mbps"`
	OfferedPlanMbps   int    `json:"offered_plan_mbps"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
}

// Ledger is the durable, append-mostly record of accepted upgrade requests.
// The administrative surface additionally reads and amends it.
type Ledger interface {
	InsertUpgradeRequest(ctx context.Context, request UpgradeRequest) error
	ListUpgradeRequests(ctx context.Context, limit int) ([]UpgradeRequest, error)
	GetUpgradeRequest(ctx context.Context, requestID string) (UpgradeRequest, error)
	UpdateUpgradeRequestStatus(ctx context.Context, requestID, status string) error
	DeleteUpgradeRequest(ctx context.Context, requestID string) error
}

package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Newpaw/aivoice-flow-with-mcp/internal/services/flow/domain"
	"github.com/Newpaw/aivoice-flow-with-mcp/internal/services/flow/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "data", "ledger.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
}

func TestRecordUpgradeRequestPersistsRow(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	customer := domain.Customer{CustomerID: "u-1001", Name: "Jan Novak", CurrentPlanMbps: 100}
	offer := domain.Offer{
		OfferID:         "offer-abc12345",
		CustomerID:      "u-1001",
		CurrentPlanMbps: 100,
		OfferedPlanMbps: 250,
	}

	result, err := store.RecordUpgradeRequest(context.Background(), customer, offer)
	if err != nil {
		t.Fatalf("record upgrade request: %v", err)
	}
	if !result.SavedDurably {
		t.Fatal("expected saved_to_db to be true")
	}
	if result.Status != domain.SubmissionStatusAccepted {
		t.Fatalf("status = %q, want %q", result.Status, domain.SubmissionStatusAccepted)
	}
	if !strings.HasPrefix(result.ExternalReference, "EXT-") {
		t.Fatalf("external reference = %q, want EXT- prefix", result.ExternalReference)
	}
	if len(result.ExternalReference) != len("EXT-")+10 {
		t.Fatalf("external reference = %q, want 10 hex characters after prefix", result.ExternalReference)
	}

	got, err := store.GetUpgradeRequest(context.Background(), result.RequestID)
	if err != nil {
		t.Fatalf("get upgrade request: %v", err)
	}
	if got.CustomerID != "u-1001" {
		t.Fatalf("customer_id = %q, want %q", got.CustomerID, "u-1001")
	}
	if got.CustomerName != "Jan Novak" {
		t.Fatalf("customer_name = %q, want %q", got.CustomerName, "Jan Novak")
	}
	if got.CurrentPlanMbps != 100 || got.OfferedPlanMbps != 250 {
		t.Fatalf("plans = %d -> %d, want 100 -> 250", got.CurrentPlanMbps, got.OfferedPlanMbps)
	}
	if got.ExternalReference != result.ExternalReference {
		t.Fatalf("external_reference = %q, want %q", got.ExternalReference, result.ExternalReference)
	}
}

func TestGetUpgradeRequestReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.GetUpgradeRequest(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestListUpgradeRequestsHonorsLimit(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	for i := 0; i < 3; i++ {
		request := storage.UpgradeRequest{
			RequestID:         "req-" + string(rune('a'+i)),
			CreatedAt:         "2026-08-31T12:00:0" + string(rune('0'+i)) + "Z",
			CustomerID:        "u-1001",
			CustomerName:      "Jan Novak",
			CurrentPlanMbps:   100,
			OfferedPlanMbps:   250,
			Status:            domain.SubmissionStatusAccepted,
			ExternalReference: "EXT-TEST",
		}
		if err := store.InsertUpgradeRequest(context.Background(), request); err != nil {
			t.Fatalf("insert upgrade request: %v", err)
		}
	}

	requests, err := store.ListUpgradeRequests(context.Background(), 2)
	if err != nil {
		t.Fatalf("list upgrade requests: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("len = %d, want 2", len(requests))
	}
	if requests[0].RequestID != "req-c" {
		t.Fatalf("first request = %q, want newest %q", requests[0].RequestID, "req-c")
	}
}

func TestUpdateUpgradeRequestStatus(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	request := storage.UpgradeRequest{
		RequestID:         "req-status",
		CreatedAt:         "2026-08-31T12:00:00Z",
		CustomerID:        "u-1002",
		CustomerName:      "Petra Svobodova",
		CurrentPlanMbps:   100,
		OfferedPlanMbps:   250,
		Status:            domain.SubmissionStatusAccepted,
		ExternalReference: "EXT-TEST",
	}
	if err := store.InsertUpgradeRequest(context.Background(), request); err != nil {
		t.Fatalf("insert upgrade request: %v", err)
	}

	if err := store.UpdateUpgradeRequestStatus(context.Background(), "req-status", "fulfilled"); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, err := store.GetUpgradeRequest(context.Background(), "req-status")
	if err != nil {
		t.Fatalf("get upgrade request: %v", err)
	}
	if got.Status != "fulfilled" {
		t.Fatalf("status = %q, want %q", got.Status, "fulfilled")
	}

	err = store.UpdateUpgradeRequestStatus(context.Background(), "missing", "fulfilled")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("update missing error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestDeleteUpgradeRequest(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	request := storage.UpgradeRequest{
		RequestID:         "req-delete",
		CreatedAt:         "2026-08-31T12:00:00Z",
		CustomerID:        "u-1001",
		CustomerName:      "Jan Novak",
		CurrentPlanMbps:   100,
		OfferedPlanMbps:   250,
		Status:            domain.SubmissionStatusAccepted,
		ExternalReference: "EXT-TEST",
	}
	if err := store.InsertUpgradeRequest(context.Background(), request); err != nil {
		t.Fatalf("insert upgrade request: %v", err)
	}

	if err := store.DeleteUpgradeRequest(context.Background(), "req-delete"); err != nil {
		t.Fatalf("delete upgrade request: %v", err)
	}
	_, err := store.GetUpgradeRequest(context.Background(), "req-delete")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get deleted error = %v, want %v", err, storage.ErrNotFound)
	}

	err = store.DeleteUpgradeRequest(context.Background(), "req-delete")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("double delete error = %v, want %v", err, storage.ErrNotFound)
	}
}

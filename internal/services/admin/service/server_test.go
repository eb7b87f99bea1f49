package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Newpaw/aivoice-flow-with-mcp/internal/services/flow/storage"
)

// fakeLedger is an in-memory Ledger for handler tests.
type fakeLedger struct {
	requests map[string]storage.UpgradeRequest
	order    []string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{requests: make(map[string]storage.UpgradeRequest)}
}

func (f *fakeLedger) InsertUpgradeRequest(ctx context.Context, request storage.UpgradeRequest) error {
	f.requests[request.RequestID] = request
	f.order = append(f.order, request.RequestID)
	return nil
}

func (f *fakeLedger) ListUpgradeRequests(ctx context.Context, limit int) ([]storage.UpgradeRequest, error) {
	requests := make([]storage.UpgradeRequest, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		if limit > 0 && len(requests) == limit {
			break
		}
		requests = append(requests, f.requests[f.order[i]])
	}
	return requests, nil
}

func (f *fakeLedger) GetUpgradeRequest(ctx context.Context, requestID string) (storage.UpgradeRequest, error) {
	request, ok := f.requests[requestID]
	if !ok {
		return storage.UpgradeRequest{}, storage.ErrNotFound
	}
	return request, nil
}

func (f *fakeLedger) UpdateUpgradeRequestStatus(ctx context.Context, requestID, status string) error {
	request, ok := f.requests[requestID]
	if !ok {
		return storage.ErrNotFound
	}
	request.Status = status
	f.requests[requestID] = request
	return nil
}

func (f *fakeLedger) DeleteUpgradeRequest(ctx context.Context, requestID string) error {
	if _, ok := f.requests[requestID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.requests, requestID)
	for i, id := range f.order {
		if id == requestID {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func seededServer(t *testing.T) (*Server, *fakeLedger) {
	t.Helper()

	ledger := newFakeLedger()
	requests := []storage.UpgradeRequest{
		{RequestID: "req-1", CreatedAt: "2026-08-30T10:00:00Z", CustomerID: "u-1001", CustomerName: "Jan Novak", CurrentPlanMbps: 100, OfferedPlanMbps: 250, Status: "accepted", ExternalReference: "EXT-AAA"},
		{RequestID: "req-2", CreatedAt: "2026-08-30T11:00:00Z", CustomerID: "u-1002", CustomerName: "Petra Svobodova", CurrentPlanMbps: 100, OfferedPlanMbps: 250, Status: "accepted", ExternalReference: "EXT-BBB"},
	}
	for _, request := range requests {
		if err := ledger.InsertUpgradeRequest(context.Background(), request); err != nil {
			t.Fatalf("seed ledger: %v", err)
		}
	}
	return New(ledger, NewMetrics("admin_test")), ledger
}

func TestHealthz(t *testing.T) {
	server, _ := seededServer(t)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestListUpgradeRequests(t *testing.T) {
	server, _ := seededServer(t)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/upgrade-requests", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body struct {
		UpgradeRequests []storage.UpgradeRequest `json:"upgrade_requests"`
		Count           int                      `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Count != 2 || len(body.UpgradeRequests) != 2 {
		t.Fatalf("count = %d, want 2", body.Count)
	}
	if body.UpgradeRequests[0].RequestID != "req-2" {
		t.Fatalf("first request = %q, want newest %q", body.UpgradeRequests[0].RequestID, "req-2")
	}
}

func TestListUpgradeRequestsRejectsBadLimit(t *testing.T) {
	server, _ := seededServer(t)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/upgrade-requests?limit=zero", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetUpgradeRequest(t *testing.T) {
	server, _ := seededServer(t)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/upgrade-requests/req-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var request storage.UpgradeRequest
	if err := json.NewDecoder(rec.Body).Decode(&request); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if request.CustomerName != "Jan Novak" {
		t.Fatalf("customer_name = %q, want %q", request.CustomerName, "Jan Novak")
	}
}

func TestGetUpgradeRequestNotFound(t *testing.T) {
	server, _ := seededServer(t)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/upgrade-requests/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestUpdateUpgradeRequestStatus(t *testing.T) {
	server, ledger := seededServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/upgrade-requests/req-1/status", strings.NewReader(`{"status":"fulfilled"}`))
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := ledger.requests["req-1"].Status; got != "fulfilled" {
		t.Fatalf("ledger status = %q, want %q", got, "fulfilled")
	}
}

func TestUpdateUpgradeRequestStatusRequiresBody(t *testing.T) {
	server, _ := seededServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/upgrade-requests/req-1/status", strings.NewReader(`{}`))
	server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestDeleteUpgradeRequest(t *testing.T) {
	server, ledger := seededServer(t)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/upgrade-requests/req-2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if _, ok := ledger.requests["req-2"]; ok {
		t.Fatal("expected req-2 to be deleted")
	}

	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/upgrade-requests/req-2", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("double delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := seededServer(t)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/upgrade-requests", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "admin_test_requests_total") {
		t.Fatal("expected request counter in metrics output")
	}
}

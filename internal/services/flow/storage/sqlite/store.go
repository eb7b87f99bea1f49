// Package sqlite provides a SQLite-backed upgrade request ledger.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	sqlitemigrate "github.com/Newpaw/aivoice-flow-with-mcp/internal/platform/storage/sqlitemigrate"
	"github.com/Newpaw/aivoice-flow-with-mcp/internal/services/flow/domain"
	"github.com/Newpaw/aivoice-flow-with-mcp/internal/services/flow/storage"
	"github.com/Newpaw/aivoice-flow-with-mcp/internal/services/flow/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const defaultListLimit = 100

// Store persists upgrade requests in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the SQLite ledger and applies embedded migrations. The parent
// directory is created when missing so a fresh checkout can run immediately.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordUpgradeRequest inserts one accepted upgrade request and returns the
// acknowledgement the external service would hand back.
func (s *Store) RecordUpgradeRequest(ctx context.Context, customer domain.Customer, offer domain.Offer) (domain.SubmissionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.SubmissionResult{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.SubmissionResult{}, fmt.Errorf("storage is not configured")
	}

	request := storage.UpgradeRequest{
		RequestID:         uuid.NewString(),
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
		CustomerID:        customer.CustomerID,
		CustomerName:      customer.Name,
		CurrentPlanMbps:   offer.CurrentPlanMbps,
		OfferedPlanMbps:   offer.OfferedPlanMbps,
		Status:            domain.SubmissionStatusAccepted,
		ExternalReference: "EXT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10]),
	}
	if err := s.InsertUpgradeRequest(ctx, request); err != nil {
		return domain.SubmissionResult{}, err
	}

	return domain.SubmissionResult{
		RequestID:         request.RequestID,
		ExternalReference: request.ExternalReference,
		SavedDurably:      true,
		Status:            request.Status,
		CreatedAt:         request.CreatedAt,
	}, nil
}

// InsertUpgradeRequest inserts one ledger record.
func (s *Store) InsertUpgradeRequest(ctx context.Context, request storage.UpgradeRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(request.RequestID) == "" {
		return fmt.Errorf("request id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO external_upgrade_requests (
		   request_id,
		   created_at,
		   customer_id,
		   customer_name,
		   current_plan_mbps,
		   offered_plan_mbps,
		   status,
		   external_reference
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		request.RequestID,
		request.CreatedAt,
		request.CustomerID,
		request.CustomerName,
		request.CurrentPlanMbps,
		request.OfferedPlanMbps,
		request.Status,
		request.ExternalReference,
	)
	if err != nil {
		return fmt.Errorf("insert upgrade request: %w", err)
	}
	return nil
}

// ListUpgradeRequests returns the most recent records, newest first.
func (s *Store) ListUpgradeRequests(ctx context.Context, limit int) ([]storage.UpgradeRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT request_id, created_at, customer_id, customer_name,
		        current_plan_mbps, offered_plan_mbps, status, external_reference
		   FROM external_upgrade_requests
		  ORDER BY created_at DESC, request_id DESC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list upgrade requests: %w", err)
	}
	defer rows.Close()

	requests := make([]storage.UpgradeRequest, 0, limit)
	for rows.Next() {
		var request storage.UpgradeRequest
		if err := rows.Scan(
			&request.RequestID,
			&request.CreatedAt,
			&request.CustomerID,
			&request.CustomerName,
			&request.CurrentPlanMbps,
			&request.OfferedPlanMbps,
			&request.Status,
			&request.ExternalReference,
		); err != nil {
			return nil, fmt.Errorf("list upgrade requests: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list upgrade requests: %w", err)
	}
	return requests, nil
}

// GetUpgradeRequest returns one record by request id.
func (s *Store) GetUpgradeRequest(ctx context.Context, requestID string) (storage.UpgradeRequest, error) {
	if err := ctx.Err(); err != nil {
		return storage.UpgradeRequest{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.UpgradeRequest{}, fmt.Errorf("storage is not configured")
	}
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return storage.UpgradeRequest{}, fmt.Errorf("request id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT request_id, created_at, customer_id, customer_name,
		        current_plan_mbps, offered_plan_mbps, status, external_reference
		   FROM external_upgrade_requests
		  WHERE request_id = ?`,
		requestID,
	)

	var request storage.UpgradeRequest
	err := row.Scan(
		&request.RequestID,
		&request.CreatedAt,
		&request.CustomerID,
		&request.CustomerName,
		&request.CurrentPlanMbps,
		&request.OfferedPlanMbps,
		&request.Status,
		&request.ExternalReference,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.UpgradeRequest{}, storage.ErrNotFound
		}
		return storage.UpgradeRequest{}, fmt.Errorf("get upgrade request: %w", err)
	}
	return request, nil
}

// UpdateUpgradeRequestStatus amends the status of one record.
func (s *Store) UpdateUpgradeRequestStatus(ctx context.Context, requestID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	requestID = strings.TrimSpace(requestID)
	status = strings.TrimSpace(status)
	if requestID == "" {
		return fmt.Errorf("request id is required")
	}
	if status == "" {
		return fmt.Errorf("status is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE external_upgrade_requests SET status = ? WHERE request_id = ?`,
		status,
		requestID,
	)
	if err != nil {
		return fmt.Errorf("update upgrade request status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update upgrade request status: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteUpgradeRequest removes one record.
func (s *Store) DeleteUpgradeRequest(ctx context.Context, requestID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return fmt.Errorf("request id is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM external_upgrade_requests WHERE request_id = ?`,
		requestID,
	)
	if err != nil {
		return fmt.Errorf("delete upgrade request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete upgrade request: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

var (
	_ storage.Ledger            = (*Store)(nil)
	_ domain.SubmissionRecorder = (*Store)(nil)
)

package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/splitbill/internal/models"
)

// SetPaymentStatus upserts the paid/unpaid status of a (from, to) transfer.
func (s *SQLiteStore) SetPaymentStatus(ctx context.Context, status *models.PaymentStatus) error {
	if status.UpdatedAt == 0 {
		status.UpdatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment_status (from_id, to_id, status, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (from_id, to_id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		status.FromID, status.ToID, string(status.Status), status.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to set payment status: %w", err)
	}

	return nil
}

// ListPaymentStatuses retrieves every recorded payment status.
func (s *SQLiteStore) ListPaymentStatuses(ctx context.Context) ([]models.PaymentStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT from_id, to_id, status, updated_at
		 FROM payment_status ORDER BY from_id, to_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment statuses: %w", err)
	}
	defer rows.Close()

	var statuses []models.PaymentStatus
	for rows.Next() {
		var ps models.PaymentStatus
		var status string
		if err := rows.Scan(&ps.FromID, &ps.ToID, &status, &ps.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment status: %w", err)
		}
		ps.Status = models.PaymentState(status)
		statuses = append(statuses, ps)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment statuses: %w", err)
	}

	return statuses, nil
}

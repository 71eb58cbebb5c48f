package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

const billColumns = "id, payer_id, split_type, front_only, tax, service_charge, total, created_at"

// CreateBill persists a new bill to the database.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	// Generate IDs if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Split == nil {
		bill.Split = models.EqualSplit{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO bills ("+billColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		bill.ID, bill.PayerID, string(bill.SplitType()), bill.FrontOnly,
		nullFloat(bill.Tax), nullFloat(bill.ServiceCharge), bill.Total, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	if err := insertItems(ctx, tx, bill.ID, bill.Items); err != nil {
		return err
	}

	// Insert shares in key order so rows are written deterministically
	shares := bill.Shares()
	for _, personID := range slices.Sorted(maps.Keys(shares)) {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_shares (bill_id, person_id, amount) VALUES (?, ?, ?)",
			bill.ID, personID, shares[personID],
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBill retrieves a bill by ID, including items and shares.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bills, err := s.queryBills(ctx, "WHERE id = ?", billID)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	return &bills[0], nil
}

// ListBills retrieves all bills in insertion order.
func (s *SQLiteStore) ListBills(ctx context.Context) ([]models.Bill, error) {
	return s.queryBills(ctx, "")
}

// UpdateBillItems replaces a bill's items and recomputes its total from
// items, tax and service charge.
func (s *SQLiteStore) UpdateBillItems(ctx context.Context, billID string, items []models.Item) (*models.Bill, error) {
	bill, err := s.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	bill.Items = items
	bill.ComputeTotal()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM bill_items WHERE bill_id = ?", billID); err != nil {
		return nil, fmt.Errorf("failed to delete items: %w", err)
	}
	if err := insertItems(ctx, tx, billID, items); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE bills SET total = ? WHERE id = ?", bill.Total, billID); err != nil {
		return nil, fmt.Errorf("failed to update total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return bill, nil
}

// DeleteBill removes a bill by ID. Items and shares cascade.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return requireAffected(res, "bill", billID)
}

// ClearBills removes every bill and resets all payment statuses.
func (s *SQLiteStore) ClearBills(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM bills", "DELETE FROM payment_status"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear bills: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, billID string, items []models.Item) error {
	for i, item := range items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bill_items (bill_id, position, name, quantity, unit_price) VALUES (?, ?, ?, ?, ?)",
			billID, i, item.Name, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}
	return nil
}

// queryBills loads bills matching where, then their items and shares.
// Each result set is drained before the next query runs.
func (s *SQLiteStore) queryBills(ctx context.Context, where string, args ...any) ([]models.Bill, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+billColumns+" FROM bills "+where+" ORDER BY rowid", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bills: %w", err)
	}

	bills := []models.Bill{}
	index := make(map[string]int)
	splitTypes := make(map[string]models.SplitType)
	for rows.Next() {
		var (
			b            models.Bill
			splitType    string
			tax, service sql.NullFloat64
		)
		if err := rows.Scan(&b.ID, &b.PayerID, &splitType, &b.FrontOnly, &tax, &service, &b.Total, &b.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		b.Tax = floatPtr(tax)
		b.ServiceCharge = floatPtr(service)
		splitTypes[b.ID] = models.SplitType(splitType)
		index[b.ID] = len(bills)
		bills = append(bills, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	if len(bills) == 0 {
		return bills, nil
	}

	// Items and shares are fetched with the same filter applied to bill_id
	detailWhere := ""
	if where != "" {
		detailWhere = "WHERE bill_id IN (SELECT id FROM bills " + where + ")"
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT bill_id, name, quantity, unit_price FROM bill_items "+detailWhere+" ORDER BY bill_id, position", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	for itemRows.Next() {
		var billID string
		var item models.Item
		if err := itemRows.Scan(&billID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			itemRows.Close()
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if i, ok := index[billID]; ok {
			bills[i].Items = append(bills[i].Items, item)
		}
	}
	itemRows.Close()
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	shares := make(map[string]map[string]float64)
	for id, t := range splitTypes {
		if t == models.SplitTypeCustom {
			shares[id] = make(map[string]float64)
		}
	}
	shareRows, err := s.db.QueryContext(ctx,
		"SELECT bill_id, person_id, amount FROM bill_shares "+detailWhere, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	for shareRows.Next() {
		var billID, personID string
		var amount float64
		if err := shareRows.Scan(&billID, &personID, &amount); err != nil {
			shareRows.Close()
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		if m, ok := shares[billID]; ok {
			m[personID] = amount
		}
	}
	shareRows.Close()
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	for i := range bills {
		switch splitTypes[bills[i].ID] {
		case models.SplitTypeCustom:
			bills[i].Split = models.CustomSplit{Shares: shares[bills[i].ID]}
		case models.SplitTypeEqual:
			bills[i].Split = models.EqualSplit{}
		default:
			return nil, errors.New("unknown split type for bill " + bills[i].ID)
		}
	}
	return bills, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

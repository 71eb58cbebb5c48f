// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitbill/internal/models"
)

// ErrNotFound is returned (wrapped) when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the record-store operations for people, bills and payment
// statuses. It is CRUD only; no settlement math happens here.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreatePerson persists a new person. ID and CreatedAt are populated if empty.
	CreatePerson(ctx context.Context, person *models.Person) error

	// ListPeople returns all people in the order they were created.
	ListPeople(ctx context.Context) ([]models.Person, error)

	// DeletePerson removes a person. Bills referencing the person are kept.
	DeletePerson(ctx context.Context, personID string) error

	// CreateBill persists a new bill. ID and CreatedAt are populated if empty.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBills returns all bills in the order they were created.
	ListBills(ctx context.Context) ([]models.Bill, error)

	// UpdateBillItems replaces a bill's items and recomputes its total.
	UpdateBillItems(ctx context.Context, billID string, items []models.Item) (*models.Bill, error)

	// DeleteBill removes a bill.
	DeleteBill(ctx context.Context, billID string) error

	// ClearBills removes every bill and every payment status.
	ClearBills(ctx context.Context) error

	// SetPaymentStatus upserts the status of the (from, to) transfer.
	SetPaymentStatus(ctx context.Context, status *models.PaymentStatus) error

	// ListPaymentStatuses returns every recorded payment status.
	ListPaymentStatuses(ctx context.Context) ([]models.PaymentStatus, error)

	// Close releases any resources held by the store.
	Close() error
}

package models

// PaymentState is whether a suggested transfer has been paid.
type PaymentState string

const (
	PaymentUnpaid PaymentState = "unpaid"
	PaymentPaid   PaymentState = "paid"
)

// PaymentStatus marks a suggested transfer between two people as paid or unpaid.
// It is an overlay for display only and never feeds back into settlement math.
type PaymentStatus struct {
	// FromID is the person who owes (debtor settling up).
	FromID string

	// ToID is the person who is owed (creditor being paid).
	ToID string

	// Status is paid or unpaid.
	Status PaymentState

	// UpdatedAt is the Unix timestamp of the last status change.
	UpdatedAt int64
}

// PaymentKey identifies a transfer by its (from, to) person IDs.
type PaymentKey struct {
	FromID string
	ToID   string
}

// Key returns the composite key of the status.
func (p PaymentStatus) Key() PaymentKey {
	return PaymentKey{FromID: p.FromID, ToID: p.ToID}
}

package models

import "math"

// SplitType identifies how a bill's cost is divided.
type SplitType string

const (
	SplitTypeEqual  SplitType = "equal"
	SplitTypeCustom SplitType = "custom"
)

// Split is the cost-splitting strategy of a bill.
// It is implemented only by EqualSplit and CustomSplit.
type Split interface {
	Type() SplitType
	isSplit()
}

// EqualSplit divides a bill's total evenly across all current participants.
// The divisor is evaluated at settlement time, so people added later still
// dilute earlier equal bills.
type EqualSplit struct{}

func (EqualSplit) Type() SplitType { return SplitTypeEqual }
func (EqualSplit) isSplit()        {}

// CustomSplit assigns an explicit amount to each participant.
type CustomSplit struct {
	// Shares maps person ID to the amount that person consumed.
	// Missing entries count as zero.
	Shares map[string]float64
}

func (CustomSplit) Type() SplitType { return SplitTypeCustom }
func (CustomSplit) isSplit()        {}

// Bill represents an itemized bill paid upfront by one person.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// PayerID is the person who fronted the bill.
	PayerID string

	// Items are the line items on the bill.
	Items []Item

	// Tax is the tax amount printed on the receipt, nil if none was found.
	Tax *float64

	// ServiceCharge is the service charge printed on the receipt, nil if none was found.
	ServiceCharge *float64

	// Total is the final bill amount. Always derived via ComputeTotal.
	Total float64

	// FrontOnly marks a bill the payer paid for others without consuming any
	// of it. For equal bills the payer is excluded from the divisor.
	FrontOnly bool

	// Split is either EqualSplit or CustomSplit.
	Split Split

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64
}

// SplitType returns the bill's split type, defaulting to equal when unset.
func (b *Bill) SplitType() SplitType {
	if b.Split == nil {
		return SplitTypeEqual
	}
	return b.Split.Type()
}

// Shares returns the custom shares of the bill, or nil for equal bills.
func (b *Bill) Shares() map[string]float64 {
	if custom, ok := b.Split.(CustomSplit); ok {
		return custom.Shares
	}
	return nil
}

// Subtotal is the sum of item amounts before tax and service charge.
func (b *Bill) Subtotal() float64 {
	var subtotal float64
	for _, item := range b.Items {
		subtotal += item.Amount()
	}
	return subtotal
}

// ComputeTotal recomputes Total from items, tax and service charge.
func (b *Bill) ComputeTotal() float64 {
	b.Total = b.Subtotal() + deref(b.Tax) + deref(b.ServiceCharge)
	return b.Total
}

// Item represents a single line item on a bill.
type Item struct {
	// Name is the name of the item (e.g., "Nasi Goreng", "Es Teh").
	Name string

	// Quantity is the number of units ordered.
	Quantity int

	// UnitPrice is the price of one unit, not the line total.
	UnitPrice float64
}

// Amount is the line total of the item.
func (i Item) Amount() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

func deref(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return *v
}

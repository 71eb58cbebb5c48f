// Package models defines the core domain models for splitbill.
//
// # Models
//
//   - Person: a participant in a shared expense event
//   - Bill: an itemized bill fronted by one payer and split Equal or Custom
//   - Item: a line item on a bill (quantity × unit price)
//   - PaymentStatus: presentation-side paid/unpaid marker for a transfer
//
// # Design Principles
//
// 1. **IDs, not names**: every relationship (payer, shares, payment status)
// references a Person ID. Names are display-only and may collide.
// 2. **Sealed split variants**: a Bill's Split is either EqualSplit or
// CustomSplit; only CustomSplit carries per-person shares.
// 3. **Derived totals**: Bill.Total is recomputed from items, tax and service
// charge whenever items change.
package models

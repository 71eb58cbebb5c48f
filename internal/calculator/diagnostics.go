package calculator

import "fmt"

// DiagnosticKind classifies a data-integrity warning.
type DiagnosticKind string

const (
	// KindShareMismatch: a custom bill's shares do not sum to its total.
	KindShareMismatch DiagnosticKind = "share-mismatch"
	// KindTotalMismatch: a bill's total disagrees with items + tax + service charge.
	KindTotalMismatch DiagnosticKind = "total-mismatch"
	// KindMissingPayer: a bill's payer is not among the current people.
	KindMissingPayer DiagnosticKind = "missing-payer"
	// KindInvalidAmount: a NaN, infinite or negative number was clamped to 0.
	KindInvalidAmount DiagnosticKind = "invalid-amount"
	// KindUnknownParticipant: a custom share is held by someone not among the people.
	KindUnknownParticipant DiagnosticKind = "unknown-participant"
	// KindFrontOnlyShare: a front-only custom bill gives its payer a nonzero share.
	KindFrontOnlyShare DiagnosticKind = "front-only-share"
	// KindUnbalancedLedger: balances do not sum to zero within tolerance.
	KindUnbalancedLedger DiagnosticKind = "unbalanced-ledger"
	// KindUnmatchedBalance: a balance was left over after debt matching.
	KindUnmatchedBalance DiagnosticKind = "unmatched-balance"
)

// Diagnostic is a non-fatal data-integrity warning. Computation always
// proceeds with the offending input treated as zero.
type Diagnostic struct {
	// BillID is the bill concerned, empty for ledger-wide warnings.
	BillID string
	// PersonID is the person concerned, if any.
	PersonID string
	Kind     DiagnosticKind
	Detail   string
}

func (d Diagnostic) String() string {
	if d.BillID == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Detail)
	}
	return fmt.Sprintf("%s (bill %s): %s", d.Kind, d.BillID, d.Detail)
}

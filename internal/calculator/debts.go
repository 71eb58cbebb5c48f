package calculator

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Transfer represents a payment from a debtor to a creditor.
type Transfer struct {
	From     string // Person ID who owes
	FromName string
	To       string // Person ID who is owed
	ToName   string
	Amount   float64
}

// position is a participant's outstanding amount during matching.
type position struct {
	Balance
	remaining decimal.Decimal // always non-negative
}

// MinimizeDebts converts signed balances into pairwise transfers using greedy
// largest-magnitude matching: the debtor who owes the most pays the creditor
// who is owed the most, as much as possible, until one side runs out.
//
// This is a heuristic for keeping the number of transfers small, bounded by
// debtors + creditors - 1. It is not guaranteed to find the global minimum.
//
// Balances within ±Epsilon are treated as settled. Ties keep input order, so
// identical input always yields identical output. The input is not modified.
// If the balances do not sum to zero, whatever cannot be matched is reported
// as KindUnmatchedBalance diagnostics. NaN and infinite balances are skipped
// and reported as KindInvalidAmount.
func MinimizeDebts(balances []Balance) ([]Transfer, []Diagnostic) {
	var diags []Diagnostic
	var debtors, creditors []position
	for _, b := range balances {
		if !finite(b.Amount) {
			diags = append(diags, invalidAmount("", b.PersonID, "balance of "+b.Name, b.Amount))
			continue
		}
		amount := toDecimal(b.Amount)
		switch {
		case amount.LessThan(epsilon.Neg()):
			debtors = append(debtors, position{Balance: b, remaining: amount.Neg()})
		case amount.GreaterThan(epsilon):
			creditors = append(creditors, position{Balance: b, remaining: amount})
		}
	}

	largestFirst := func(a, b position) int { return b.remaining.Cmp(a.remaining) }
	slices.SortStableFunc(debtors, largestFirst)
	slices.SortStableFunc(creditors, largestFirst)

	transfers := make([]Transfer, 0)
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := decimal.Min(debtor.remaining, creditor.remaining)
		transfers = append(transfers, Transfer{
			From:     debtor.PersonID,
			FromName: debtor.Name,
			To:       creditor.PersonID,
			ToName:   creditor.Name,
			Amount:   toFloat(amount.Round(precision)),
		})

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if debtor.remaining.LessThan(epsilon) {
			i++
		}
		if creditor.remaining.LessThan(epsilon) {
			j++
		}
	}

	diags = append(diags, unmatched(debtors[i:], "owes")...)
	diags = append(diags, unmatched(creditors[j:], "is owed")...)
	return transfers, diags
}

func unmatched(left []position, verb string) []Diagnostic {
	var diags []Diagnostic
	for _, p := range left {
		if p.remaining.LessThan(epsilon) {
			continue
		}
		diags = append(diags, Diagnostic{
			PersonID: p.PersonID,
			Kind:     KindUnmatchedBalance,
			Detail:   fmt.Sprintf("%s still %s %s with no counterparty", p.Name, verb, p.remaining.StringFixed(precision)),
		})
	}
	return diags
}

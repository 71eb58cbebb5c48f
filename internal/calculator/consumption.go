package calculator

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/mmynk/splitbill/internal/models"
)

// Ledger holds one person's derived amounts across all bills.
type Ledger struct {
	// Consumption is the value of goods attributed to the person, regardless of who paid.
	Consumption float64
	// AmountFronted is the sum of totals of bills the person paid upfront.
	AmountFronted float64
}

// ConsumptionResult is the output of ComputeConsumption.
type ConsumptionResult struct {
	// Ledgers is keyed by person ID and has an entry for every person.
	Ledgers     map[string]Ledger
	Diagnostics []Diagnostic
}

// billView is a bill with sanitized numbers and resolved per-person shares.
type billView struct {
	bill *models.Bill
	// total is the bill total clamped to a usable amount.
	total float64
	// shares maps person ID to consumption; only current people appear.
	shares map[string]float64
	// payerKnown reports whether the payer is among the current people.
	payerKnown bool
}

// ComputeConsumption derives per-person consumption and amount fronted from
// the bill list. It never fails: malformed amounts are clamped to zero and
// reported as diagnostics.
func ComputeConsumption(people []models.Person, bills []models.Bill) ConsumptionResult {
	views, diags := evaluateBills(people, bills)
	led, ledgerDiags := ledgers(people, views)
	return ConsumptionResult{
		Ledgers:     led,
		Diagnostics: append(diags, ledgerDiags...),
	}
}

// ledgers accumulates shares and fronted totals per person. An amount whose
// addition would overflow float64 is left out of that person's ledger and
// reported.
func ledgers(people []models.Person, views []billView) (map[string]Ledger, []Diagnostic) {
	var diags []Diagnostic
	result := make(map[string]Ledger, len(people))
	for _, p := range people {
		result[p.ID] = Ledger{}
	}
	for _, v := range views {
		for _, id := range slices.Sorted(maps.Keys(v.shares)) {
			l := result[id]
			if next := l.Consumption + v.shares[id]; finite(next) {
				l.Consumption = next
				result[id] = l
			} else {
				diags = append(diags, overflow(v.bill.ID, id, "consumption"))
			}
		}
		if v.payerKnown {
			l := result[v.bill.PayerID]
			if next := l.AmountFronted + v.total; finite(next) {
				l.AmountFronted = next
				result[v.bill.PayerID] = l
			} else {
				diags = append(diags, overflow(v.bill.ID, v.bill.PayerID, "amount fronted"))
			}
		}
	}
	return result, diags
}

func evaluateBills(people []models.Person, bills []models.Bill) ([]billView, []Diagnostic) {
	known := make(map[string]bool, len(people))
	for _, p := range people {
		known[p.ID] = true
	}

	var diags []Diagnostic
	views := make([]billView, 0, len(bills))
	for i := range bills {
		bill := &bills[i]
		v := billView{bill: bill, payerKnown: known[bill.PayerID]}

		total, ok := sanitize(bill.Total)
		if !ok {
			diags = append(diags, invalidAmount(bill.ID, "", "total", bill.Total))
		}
		v.total = total
		diags = append(diags, checkTotal(bill, total)...)

		if !v.payerKnown {
			diags = append(diags, Diagnostic{
				BillID:   bill.ID,
				PersonID: bill.PayerID,
				Kind:     KindMissingPayer,
				Detail:   fmt.Sprintf("payer %q is not a current participant; %.2f fronted is unattributed", bill.PayerID, total),
			})
		}

		switch split := bill.Split.(type) {
		case models.CustomSplit:
			var shareDiags []Diagnostic
			v.shares, shareDiags = customShares(bill, split, total, known)
			diags = append(diags, shareDiags...)
		default:
			v.shares = equalShares(bill, total, people, v.payerKnown)
		}
		views = append(views, v)
	}
	return views, diags
}

// equalShares divides total across everyone, or everyone but the payer when
// the bill is front-only and someone else is present to consume it.
func equalShares(bill *models.Bill, total float64, people []models.Person, payerKnown bool) map[string]float64 {
	shares := make(map[string]float64, len(people))
	if len(people) == 0 {
		return shares
	}

	excludePayer := bill.FrontOnly && payerKnown && len(people) > 1
	n := len(people)
	if excludePayer {
		n--
	}
	each := total / float64(n)
	for _, p := range people {
		if excludePayer && p.ID == bill.PayerID {
			shares[p.ID] = 0
			continue
		}
		shares[p.ID] = each
	}
	return shares
}

func customShares(bill *models.Bill, split models.CustomSplit, total float64, known map[string]bool) (map[string]float64, []Diagnostic) {
	var diags []Diagnostic
	shares := make(map[string]float64, len(split.Shares))
	var sum float64

	for _, id := range slices.Sorted(maps.Keys(split.Shares)) {
		share, ok := sanitize(split.Shares[id])
		if !ok {
			diags = append(diags, invalidAmount(bill.ID, id, "share", split.Shares[id]))
		}
		sum += share

		if !known[id] {
			if share != 0 {
				diags = append(diags, Diagnostic{
					BillID:   bill.ID,
					PersonID: id,
					Kind:     KindUnknownParticipant,
					Detail:   fmt.Sprintf("share %.2f held by unknown person %q is ignored", share, id),
				})
			}
			continue
		}
		shares[id] = share
	}

	if bill.FrontOnly && shares[bill.PayerID] != 0 {
		diags = append(diags, Diagnostic{
			BillID:   bill.ID,
			PersonID: bill.PayerID,
			Kind:     KindFrontOnlyShare,
			Detail:   fmt.Sprintf("front-only payer holds share %.2f", shares[bill.PayerID]),
		})
	}

	if math.Abs(sum-total) > Epsilon {
		diags = append(diags, Diagnostic{
			BillID: bill.ID,
			Kind:   KindShareMismatch,
			Detail: fmt.Sprintf("shares sum to %.2f but total is %.2f", sum, total),
		})
	}
	return shares, diags
}

// checkTotal flags clamped item fields and a stored total that disagrees
// with items + tax + service charge.
func checkTotal(bill *models.Bill, total float64) []Diagnostic {
	var diags []Diagnostic
	var computed float64
	for _, item := range bill.Items {
		price, ok := sanitize(item.UnitPrice)
		if !ok {
			diags = append(diags, invalidAmount(bill.ID, "", "unit price of "+item.Name, item.UnitPrice))
		}
		qty := item.Quantity
		if qty < 0 {
			diags = append(diags, invalidAmount(bill.ID, "", "quantity of "+item.Name, float64(qty)))
			qty = 0
		}
		computed += float64(qty) * price
	}
	for _, extra := range []struct {
		name  string
		value *float64
	}{{"tax", bill.Tax}, {"service charge", bill.ServiceCharge}} {
		if extra.value == nil {
			continue
		}
		v, ok := sanitize(*extra.value)
		if !ok {
			diags = append(diags, invalidAmount(bill.ID, "", extra.name, *extra.value))
		}
		computed += v
	}

	if len(bill.Items) > 0 && math.Abs(computed-total) > Epsilon {
		diags = append(diags, Diagnostic{
			BillID: bill.ID,
			Kind:   KindTotalMismatch,
			Detail: fmt.Sprintf("items, tax and service charge sum to %.2f but total is %.2f", computed, total),
		})
	}
	return diags
}

func overflow(billID, personID, field string) Diagnostic {
	return Diagnostic{
		BillID:   billID,
		PersonID: personID,
		Kind:     KindInvalidAmount,
		Detail:   fmt.Sprintf("%s of %q overflows; bill left out of it", field, personID),
	}
}

func invalidAmount(billID, personID, field string, v float64) Diagnostic {
	return Diagnostic{
		BillID:   billID,
		PersonID: personID,
		Kind:     KindInvalidAmount,
		Detail:   fmt.Sprintf("%s %v clamped to 0", field, v),
	}
}

package calculator

import (
	"github.com/mmynk/splitbill/internal/models"
)

// BillShare is one bill as seen by one person.
type BillShare struct {
	BillID    string
	PayerID   string
	SplitType models.SplitType
	Total     float64
	CreatedAt int64
	// ConsumptionShare is how much this person consumed from the bill.
	ConsumptionShare float64
	Items            []models.Item
}

// PersonExpense is the per-person breakdown of a settlement.
type PersonExpense struct {
	Person        models.Person
	Consumption   float64
	AmountFronted float64
	Balance       float64
	// Bills are the bills the person paid, holds a custom share in, or
	// shares equally in.
	Bills []BillShare
}

// PersonSummary is a person's position before any transfers are made.
type PersonSummary struct {
	Paid       float64
	Owes       float64
	Receives   float64
	NetBalance float64
}

// Result is the outcome of ComputeSettlement.
type Result struct {
	// TotalExpenses is the total amount fronted by everyone.
	TotalExpenses float64
	// PerPersonShare is TotalExpenses / number of people. It is only
	// meaningful when every bill is split equally and is advisory otherwise.
	PerPersonShare float64
	PersonExpenses []PersonExpense
	Settlements    []Transfer
	// Summary is keyed by person ID.
	Summary     map[string]PersonSummary
	Diagnostics []Diagnostic
}

// ComputeSettlement runs the full pipeline: consumption, balances, debt
// matching and the summary snapshot. It is a pure function of its inputs,
// safe for concurrent use, and never fails; data problems are returned as
// diagnostics alongside a best-effort result.
func ComputeSettlement(people []models.Person, bills []models.Bill) Result {
	views, diags := evaluateBills(people, bills)
	led, ledgerDiags := ledgers(people, views)
	diags = append(diags, ledgerDiags...)
	sheet := ResolveBalances(people, led)
	diags = append(diags, sheet.Diagnostics...)

	// Summary and matching both read the same initial balances; matching
	// works on its own copy.
	initial := sheet.Lookup()
	transfers, matchDiags := MinimizeDebts(sheet.Balances)
	diags = append(diags, matchDiags...)

	result := Result{
		TotalExpenses:  sheet.TotalFronted,
		PersonExpenses: personExpenses(people, views, led, initial),
		Settlements:    transfers,
		Summary:        make(map[string]PersonSummary, len(people)),
		Diagnostics:    diags,
	}
	if len(people) > 0 {
		result.PerPersonShare = sheet.TotalFronted / float64(len(people))
	}

	for _, e := range result.PersonExpenses {
		balance := initial[e.Person.ID]
		result.Summary[e.Person.ID] = PersonSummary{
			Paid:       e.AmountFronted,
			Owes:       max(0, -balance),
			Receives:   max(0, balance),
			NetBalance: balance,
		}
	}
	return result
}

func personExpenses(people []models.Person, views []billView, led map[string]Ledger, balances map[string]float64) []PersonExpense {
	expenses := make([]PersonExpense, 0, len(people))
	for _, p := range people {
		e := PersonExpense{
			Person:        p,
			Consumption:   led[p.ID].Consumption,
			AmountFronted: led[p.ID].AmountFronted,
			Balance:       balances[p.ID],
		}
		for _, v := range views {
			share := v.shares[p.ID]
			isPayer := v.payerKnown && v.bill.PayerID == p.ID
			if !isPayer && v.bill.SplitType() == models.SplitTypeCustom && share == 0 {
				continue
			}
			e.Bills = append(e.Bills, BillShare{
				BillID:           v.bill.ID,
				PayerID:          v.bill.PayerID,
				SplitType:        v.bill.SplitType(),
				Total:            v.total,
				CreatedAt:        v.bill.CreatedAt,
				ConsumptionShare: share,
				Items:            v.bill.Items,
			})
		}
		expenses = append(expenses, e)
	}
	return expenses
}

package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbill/internal/models"
)

// Balance represents the net position of one person.
type Balance struct {
	PersonID string
	Name     string
	Amount   float64 // Positive = owed money, Negative = owes money
}

// BalanceSheet is the output of ResolveBalances.
type BalanceSheet struct {
	// Balances are in the order of the people passed to ResolveBalances.
	Balances []Balance
	// TotalFronted is the total money that changed hands upfront.
	TotalFronted float64
	Diagnostics  []Diagnostic
}

// Lookup returns a fresh map of person ID to balance.
func (s BalanceSheet) Lookup() map[string]float64 {
	m := make(map[string]float64, len(s.Balances))
	for _, b := range s.Balances {
		m[b.PersonID] = b.Amount
	}
	return m
}

// ResolveBalances reduces each person's ledger to a signed net balance,
// rounded once to two decimal places.
//
// Every unit fronted is consumed by exactly one ledger, so balances sum to
// zero within N × Epsilon. A larger sum means the bills are inconsistent and
// is reported rather than corrected.
func ResolveBalances(people []models.Person, ledgers map[string]Ledger) BalanceSheet {
	sheet := BalanceSheet{Balances: make([]Balance, 0, len(people))}
	sum := decimal.Zero

	for _, p := range people {
		l := ledgers[p.ID]
		net := l.AmountFronted - l.Consumption
		if !finite(net) || !finite(l.AmountFronted) {
			sheet.Diagnostics = append(sheet.Diagnostics, Diagnostic{
				PersonID: p.ID,
				Kind:     KindInvalidAmount,
				Detail:   fmt.Sprintf("ledger of %s is not finite (fronted %v, consumed %v); balance treated as 0", p.Name, l.AmountFronted, l.Consumption),
			})
			net, l.AmountFronted = 0, 0
		}
		amount := toDecimal(net)
		sum = sum.Add(amount)
		if total := sheet.TotalFronted + l.AmountFronted; finite(total) {
			sheet.TotalFronted = total
		} else {
			sheet.Diagnostics = append(sheet.Diagnostics, Diagnostic{
				PersonID: p.ID,
				Kind:     KindInvalidAmount,
				Detail:   fmt.Sprintf("total fronted overflows; %s's %v left out of it", p.Name, l.AmountFronted),
			})
		}
		sheet.Balances = append(sheet.Balances, Balance{
			PersonID: p.ID,
			Name:     p.Name,
			Amount:   toFloat(amount),
		})
	}

	tolerance := epsilon.Mul(decimal.NewFromInt(int64(len(people))))
	if sum.Abs().GreaterThan(tolerance) {
		sheet.Diagnostics = append(sheet.Diagnostics, Diagnostic{
			Kind:   KindUnbalancedLedger,
			Detail: fmt.Sprintf("balances sum to %s instead of zero", sum.StringFixed(precision)),
		})
	}
	return sheet
}

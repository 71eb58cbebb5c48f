package service

import (
	"github.com/mmynk/splitbill/internal/calculator"
	"github.com/mmynk/splitbill/internal/models"
)

func personToMsg(p models.Person) Person {
	return Person{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
}

func itemsToMsg(items []models.Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = Item{Name: item.Name, Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}
	return out
}

func itemsFromMsg(items []Item) []models.Item {
	out := make([]models.Item, len(items))
	for i, item := range items {
		out[i] = models.Item{Name: item.Name, Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}
	return out
}

func billToMsg(b *models.Bill) Bill {
	return Bill{
		ID:            b.ID,
		PayerID:       b.PayerID,
		Items:         itemsToMsg(b.Items),
		Tax:           b.Tax,
		ServiceCharge: b.ServiceCharge,
		Total:         b.Total,
		SplitType:     string(b.SplitType()),
		FrontOnly:     b.FrontOnly,
		Shares:        b.Shares(),
		CreatedAt:     b.CreatedAt,
	}
}

// settlementToMsg converts an engine result, marking transfers whose
// (from, to) pair has been recorded as paid.
func settlementToMsg(res calculator.Result, paid map[models.PaymentKey]bool) *ComputeSettlementResponse {
	out := &ComputeSettlementResponse{
		TotalExpenses:  res.TotalExpenses,
		PerPersonShare: res.PerPersonShare,
		PersonExpenses: make([]PersonExpense, len(res.PersonExpenses)),
		Settlements:    make([]Settlement, len(res.Settlements)),
		Summary:        make(map[string]Summary, len(res.Summary)),
		Diagnostics:    make([]Diagnostic, len(res.Diagnostics)),
	}

	for i, e := range res.PersonExpenses {
		bills := make([]BillShare, len(e.Bills))
		for j, b := range e.Bills {
			bills[j] = BillShare{
				BillID:           b.BillID,
				PayerID:          b.PayerID,
				SplitType:        string(b.SplitType),
				Total:            b.Total,
				CreatedAt:        b.CreatedAt,
				ConsumptionShare: b.ConsumptionShare,
				Items:            itemsToMsg(b.Items),
			}
		}
		out.PersonExpenses[i] = PersonExpense{
			Person:        personToMsg(e.Person),
			Consumption:   e.Consumption,
			AmountFronted: e.AmountFronted,
			Balance:       e.Balance,
			Bills:         bills,
		}
	}

	for i, t := range res.Settlements {
		out.Settlements[i] = Settlement{
			FromID:   t.From,
			FromName: t.FromName,
			ToID:     t.To,
			ToName:   t.ToName,
			Amount:   t.Amount,
			Paid:     paid[models.PaymentKey{FromID: t.From, ToID: t.To}],
		}
	}

	for id, s := range res.Summary {
		out.Summary[id] = Summary{Paid: s.Paid, Owes: s.Owes, Receives: s.Receives, NetBalance: s.NetBalance}
	}

	for i, d := range res.Diagnostics {
		out.Diagnostics[i] = Diagnostic{Kind: string(d.Kind), BillID: d.BillID, PersonID: d.PersonID, Detail: d.Detail}
	}
	return out
}

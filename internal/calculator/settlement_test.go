package calculator

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitbill/internal/models"
)

func people(names ...string) []models.Person {
	out := make([]models.Person, len(names))
	for i, n := range names {
		out[i] = models.Person{ID: n, Name: n}
	}
	return out
}

func equalBill(id, payer string, total float64) models.Bill {
	return models.Bill{ID: id, PayerID: payer, Total: total, Split: models.EqualSplit{}}
}

func customBill(id, payer string, total float64, shares map[string]float64) models.Bill {
	return models.Bill{ID: id, PayerID: payer, Total: total, Split: models.CustomSplit{Shares: shares}}
}

func kinds(diags []Diagnostic) []DiagnosticKind {
	out := make([]DiagnosticKind, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Kind)
	}
	return out
}

func TestComputeSettlement_Scenarios(t *testing.T) {
	t.Run("equal bill between two", func(t *testing.T) {
		res := ComputeSettlement(people("A", "B"), []models.Bill{equalBill("b1", "A", 100000)})

		assert.Equal(t, 100000.0, res.TotalExpenses)
		assert.Equal(t, 50000.0, res.PerPersonShare)
		assert.Equal(t, 50000.0, res.PersonExpenses[0].Consumption)
		assert.Equal(t, 50000.0, res.PersonExpenses[1].Consumption)
		assert.Equal(t, 100000.0, res.PersonExpenses[0].AmountFronted)
		assert.Equal(t, 0.0, res.PersonExpenses[1].AmountFronted)
		assert.Equal(t, 50000.0, res.Summary["A"].NetBalance)
		assert.Equal(t, -50000.0, res.Summary["B"].NetBalance)
		assert.Equal(t, []Transfer{{From: "B", FromName: "B", To: "A", ToName: "A", Amount: 50000}}, res.Settlements)
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("custom bill fronted by one", func(t *testing.T) {
		bill := customBill("b1", "A", 90000, map[string]float64{"A": 30000, "B": 30000, "C": 30000})
		res := ComputeSettlement(people("A", "B", "C"), []models.Bill{bill})

		assert.Equal(t, 90000.0, res.Summary["A"].Paid)
		assert.Equal(t, 60000.0, res.Summary["A"].NetBalance)
		assert.Equal(t, -30000.0, res.Summary["B"].NetBalance)
		assert.Equal(t, -30000.0, res.Summary["C"].NetBalance)
		require.Len(t, res.Settlements, 2)
		for _, s := range res.Settlements {
			assert.Equal(t, "A", s.To)
			assert.Equal(t, 30000.0, s.Amount)
		}
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("equal and custom bills mixed", func(t *testing.T) {
		bills := []models.Bill{
			equalBill("b1", "A", 60000),
			customBill("b2", "B", 30000, map[string]float64{"B": 30000}),
		}
		res := ComputeSettlement(people("A", "B", "C"), bills)

		assert.Equal(t, 20000.0, res.PersonExpenses[0].Consumption)
		assert.Equal(t, 50000.0, res.PersonExpenses[1].Consumption)
		assert.Equal(t, 20000.0, res.PersonExpenses[2].Consumption)
		assert.Equal(t, 60000.0, res.PersonExpenses[0].AmountFronted)
		assert.Equal(t, 30000.0, res.PersonExpenses[1].AmountFronted)
		assert.Equal(t, 40000.0, res.Summary["A"].NetBalance)
		assert.Equal(t, -20000.0, res.Summary["B"].NetBalance)
		assert.Equal(t, -20000.0, res.Summary["C"].NetBalance)

		require.LessOrEqual(t, len(res.Settlements), 2)
		var sum float64
		for _, s := range res.Settlements {
			sum += s.Amount
		}
		assert.Equal(t, 40000.0, sum)
		// Equal debts keep input order.
		assert.Equal(t, "B", res.Settlements[0].From)
		assert.Equal(t, "C", res.Settlements[1].From)
	})

	t.Run("share mismatch is flagged not fatal", func(t *testing.T) {
		bill := customBill("b1", "A", 90000, map[string]float64{"A": 40000, "B": 40000})
		res := ComputeSettlement(people("A", "B"), []models.Bill{bill})

		require.Contains(t, kinds(res.Diagnostics), KindShareMismatch)
		var mismatches int
		for _, d := range res.Diagnostics {
			if d.Kind == KindShareMismatch {
				mismatches++
				assert.Equal(t, "b1", d.BillID)
			}
		}
		assert.Equal(t, 1, mismatches)
		assert.Equal(t, 50000.0, res.Summary["A"].NetBalance)
		assert.Equal(t, -40000.0, res.Summary["B"].NetBalance)
		assert.Contains(t, kinds(res.Diagnostics), KindUnbalancedLedger)
		assert.Contains(t, kinds(res.Diagnostics), KindUnmatchedBalance)
		assert.Equal(t, []Transfer{{From: "B", FromName: "B", To: "A", ToName: "A", Amount: 40000}}, res.Settlements)
	})

	t.Run("empty input", func(t *testing.T) {
		res := ComputeSettlement(nil, nil)

		assert.Equal(t, 0.0, res.TotalExpenses)
		assert.Equal(t, 0.0, res.PerPersonShare)
		assert.NotNil(t, res.Settlements)
		assert.Empty(t, res.Settlements)
		assert.NotNil(t, res.Summary)
		assert.Empty(t, res.Summary)
		assert.Empty(t, res.Diagnostics)

		out, err := json.Marshal(map[string]any{"settlements": res.Settlements, "summary": res.Summary})
		require.NoError(t, err)
		assert.JSONEq(t, `{"settlements":[],"summary":{}}`, string(out))
	})

	t.Run("no bills", func(t *testing.T) {
		res := ComputeSettlement(people("A", "B"), nil)

		assert.Empty(t, res.Settlements)
		assert.Equal(t, PersonSummary{}, res.Summary["A"])
		assert.Equal(t, PersonSummary{}, res.Summary["B"])
	})
}

func TestComputeSettlement_EqualShareIsEvaluatedLive(t *testing.T) {
	bills := []models.Bill{equalBill("b1", "A", 90000)}

	before := ComputeSettlement(people("A", "B"), bills)
	after := ComputeSettlement(people("A", "B", "C"), bills)

	assert.Equal(t, 45000.0, before.PersonExpenses[1].Consumption)
	assert.Equal(t, 30000.0, after.PersonExpenses[1].Consumption)
	assert.Equal(t, 30000.0, after.PersonExpenses[2].Consumption)
}

func TestComputeSettlement_FrontOnly(t *testing.T) {
	t.Run("equal bill excludes payer", func(t *testing.T) {
		bill := equalBill("b1", "A", 90000)
		bill.FrontOnly = true
		res := ComputeSettlement(people("A", "B", "C"), []models.Bill{bill})

		assert.Equal(t, 0.0, res.PersonExpenses[0].Consumption)
		assert.Equal(t, 45000.0, res.PersonExpenses[1].Consumption)
		assert.Equal(t, 90000.0, res.Summary["A"].NetBalance)
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("sole participant still consumes", func(t *testing.T) {
		bill := equalBill("b1", "A", 1000)
		bill.FrontOnly = true
		res := ComputeSettlement(people("A"), []models.Bill{bill})

		assert.Equal(t, 1000.0, res.PersonExpenses[0].Consumption)
		assert.Equal(t, 0.0, res.Summary["A"].NetBalance)
	})

	t.Run("custom bill with payer share is flagged", func(t *testing.T) {
		bill := customBill("b1", "A", 100, map[string]float64{"A": 50, "B": 50})
		bill.FrontOnly = true
		res := ComputeSettlement(people("A", "B"), []models.Bill{bill})

		assert.Equal(t, []DiagnosticKind{KindFrontOnlyShare}, kinds(res.Diagnostics))
		assert.Equal(t, 50.0, res.PersonExpenses[0].Consumption)
	})
}

func TestComputeSettlement_DataIntegrity(t *testing.T) {
	t.Run("orphaned bill", func(t *testing.T) {
		bills := []models.Bill{equalBill("b1", "A", 100), equalBill("b2", "ghost", 50)}
		res := ComputeSettlement(people("A", "B"), bills)

		require.NotEmpty(t, res.Diagnostics)
		assert.Equal(t, KindMissingPayer, res.Diagnostics[0].Kind)
		assert.Equal(t, "b2", res.Diagnostics[0].BillID)
		assert.Equal(t, 100.0, res.TotalExpenses)
		assert.Equal(t, 75.0, res.PersonExpenses[0].Consumption)
	})

	t.Run("non-finite and negative values are clamped", func(t *testing.T) {
		bills := []models.Bill{
			equalBill("b1", "A", math.NaN()),
			equalBill("b2", "A", math.Inf(1)),
			customBill("b3", "A", 10, map[string]float64{"A": 10, "B": -5}),
		}
		res := ComputeSettlement(people("A", "B"), bills)

		var invalid int
		for _, d := range res.Diagnostics {
			if d.Kind == KindInvalidAmount {
				invalid++
			}
		}
		assert.Equal(t, 3, invalid)
		assert.Equal(t, 10.0, res.TotalExpenses)
		assert.Equal(t, 0.0, res.PersonExpenses[1].Consumption)
		for _, s := range res.Settlements {
			assert.False(t, math.IsNaN(s.Amount))
		}
	})

	t.Run("share held by unknown person", func(t *testing.T) {
		bill := customBill("b1", "A", 100, map[string]float64{"A": 50, "gone": 50})
		res := ComputeSettlement(people("A", "B"), []models.Bill{bill})

		assert.Contains(t, kinds(res.Diagnostics), KindUnknownParticipant)
		assert.NotContains(t, kinds(res.Diagnostics), KindShareMismatch)
	})

	t.Run("stale total after item edit", func(t *testing.T) {
		tax := 10.0
		bill := equalBill("b1", "A", 100)
		bill.Items = []models.Item{{Name: "Kopi", Quantity: 2, UnitPrice: 30}}
		bill.Tax = &tax
		res := ComputeSettlement(people("A", "B"), []models.Bill{bill})

		assert.Equal(t, []DiagnosticKind{KindTotalMismatch}, kinds(res.Diagnostics))
	})
}

// requireFinite fails if any amount in res is NaN or infinite.
func requireFinite(t *testing.T, res Result) {
	t.Helper()
	check := func(name string, v float64) {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s = %v", name, v)
	}
	check("TotalExpenses", res.TotalExpenses)
	check("PerPersonShare", res.PerPersonShare)
	for _, e := range res.PersonExpenses {
		check(e.Person.ID+" consumption", e.Consumption)
		check(e.Person.ID+" fronted", e.AmountFronted)
		check(e.Person.ID+" balance", e.Balance)
		for _, b := range e.Bills {
			check(b.BillID+" share", b.ConsumptionShare)
		}
	}
	for _, tr := range res.Settlements {
		check("transfer", tr.Amount)
	}
	for id, s := range res.Summary {
		check(id+" net", s.NetBalance)
	}
	_, err := json.Marshal(res)
	require.NoError(t, err)
}

func TestComputeSettlement_HugeTotals(t *testing.T) {
	t.Run("finite sums settle normally", func(t *testing.T) {
		bills := []models.Bill{equalBill("b1", "A", 1e300), equalBill("b2", "A", 1e300)}
		res := ComputeSettlement(people("A", "B"), bills)

		requireFinite(t, res)
		assert.Empty(t, res.Diagnostics)
		require.Len(t, res.Settlements, 1)
		assert.Equal(t, "B", res.Settlements[0].From)
		assert.InEpsilon(t, 1e300, res.Settlements[0].Amount, 1e-9)
	})

	t.Run("overflowing sums are reported not raised", func(t *testing.T) {
		bills := []models.Bill{
			equalBill("b1", "A", math.MaxFloat64),
			equalBill("b2", "A", math.MaxFloat64),
		}

		var res Result
		require.NotPanics(t, func() { res = ComputeSettlement(people("A", "B"), bills) })

		requireFinite(t, res)
		got := kinds(res.Diagnostics)
		assert.Contains(t, got, KindInvalidAmount)
		assert.Contains(t, got, KindUnbalancedLedger)
		assert.Equal(t, math.MaxFloat64, res.TotalExpenses)
	})

	t.Run("overflowing item prices", func(t *testing.T) {
		bill := equalBill("b1", "A", math.MaxFloat64)
		bill.Items = []models.Item{
			{Name: "Gold", Quantity: 2, UnitPrice: math.MaxFloat64},
			{Name: "Silver", Quantity: 1, UnitPrice: math.MaxFloat64},
		}

		var res Result
		require.NotPanics(t, func() { res = ComputeSettlement(people("A", "B"), []models.Bill{bill}) })
		requireFinite(t, res)
		assert.Contains(t, kinds(res.Diagnostics), KindTotalMismatch)
	})
}

func TestComputeSettlement_PersonBills(t *testing.T) {
	bills := []models.Bill{
		equalBill("e1", "A", 300),
		customBill("c1", "B", 100, map[string]float64{"A": 100}),
		customBill("c2", "A", 50, map[string]float64{"B": 50}),
	}
	res := ComputeSettlement(people("A", "B", "C"), bills)

	billIDs := func(e PersonExpense) []string {
		var ids []string
		for _, b := range e.Bills {
			ids = append(ids, b.BillID)
		}
		return ids
	}
	assert.Equal(t, []string{"e1", "c1", "c2"}, billIDs(res.PersonExpenses[0]))
	assert.Equal(t, []string{"e1", "c1", "c2"}, billIDs(res.PersonExpenses[1]))
	assert.Equal(t, []string{"e1"}, billIDs(res.PersonExpenses[2]))

	a := res.PersonExpenses[0]
	assert.Equal(t, 100.0, a.Bills[0].ConsumptionShare)
	assert.Equal(t, 100.0, a.Bills[1].ConsumptionShare)
	assert.Equal(t, 0.0, a.Bills[2].ConsumptionShare)
}

func TestComputeSettlement_DoesNotMutateInput(t *testing.T) {
	ppl := people("A", "B", "C")
	shares := map[string]float64{"A": 10, "B": 20, "C": 30}
	bills := []models.Bill{customBill("b1", "A", 60, shares), equalBill("b2", "B", 90)}

	ComputeSettlement(ppl, bills)

	assert.Equal(t, map[string]float64{"A": 10, "B": 20, "C": 30}, shares)
	assert.Equal(t, people("A", "B", "C"), ppl)
	assert.Equal(t, 60.0, bills[0].Total)
}

func TestComputeSettlement_Deterministic(t *testing.T) {
	ppl, bills := randomEvent(rand.New(rand.NewSource(7)), 8, 25)

	first, err := json.Marshal(ComputeSettlement(ppl, bills))
	require.NoError(t, err)

	var wg sync.WaitGroup
	outputs := make([][]byte, 16)
	for i := range outputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outputs[i], _ = json.Marshal(ComputeSettlement(ppl, bills))
		}(i)
	}
	wg.Wait()

	for i, out := range outputs {
		assert.Equal(t, string(first), string(out), "run %d differs", i)
	}
}

func TestComputeSettlement_Properties(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			ppl, bills := randomEvent(rng, 2+rng.Intn(9), 1+rng.Intn(20))
			res := ComputeSettlement(ppl, bills)

			n := float64(len(ppl))
			var balanceSum, positive float64
			var debtors, creditors int
			for _, s := range res.Summary {
				balanceSum += s.NetBalance
				positive += s.Receives
				if s.NetBalance < -Epsilon {
					debtors++
				}
				if s.NetBalance > Epsilon {
					creditors++
				}
			}
			assert.InDelta(t, 0, balanceSum, n*Epsilon, "zero-sum")

			var transferred float64
			for _, s := range res.Settlements {
				transferred += s.Amount
				assert.NotEqual(t, s.From, s.To, "self-payment")
				assert.Greater(t, s.Amount, 0.0, "positivity")
			}
			if debtors+creditors > 0 {
				assert.LessOrEqual(t, len(res.Settlements), debtors+creditors-1, "transaction bound")
			}
			// Rounding dust on unmatched participants is at most one cent each.
			assert.InDelta(t, positive, transferred, Epsilon*float64(len(res.Settlements)+len(ppl)), "conservation")
		})
	}
}

func TestMinimizeDebts(t *testing.T) {
	t.Run("largest debts matched first", func(t *testing.T) {
		balances := []Balance{
			{PersonID: "a", Name: "Ana", Amount: 10},
			{PersonID: "b", Name: "Budi", Amount: -70},
			{PersonID: "c", Name: "Citra", Amount: 90},
			{PersonID: "d", Name: "Dewi", Amount: -30},
		}
		transfers, diags := MinimizeDebts(balances)

		assert.Empty(t, diags)
		assert.Equal(t, []Transfer{
			{From: "b", FromName: "Budi", To: "c", ToName: "Citra", Amount: 70},
			{From: "d", FromName: "Dewi", To: "c", ToName: "Citra", Amount: 20},
			{From: "d", FromName: "Dewi", To: "a", ToName: "Ana", Amount: 10},
		}, transfers)
		assert.Equal(t, -70.0, balances[1].Amount, "input must not be mutated")
	})

	t.Run("settled balances are skipped", func(t *testing.T) {
		transfers, diags := MinimizeDebts([]Balance{
			{PersonID: "a", Amount: 0.01},
			{PersonID: "b", Amount: -0.01},
			{PersonID: "c", Amount: 0},
		})
		assert.Empty(t, transfers)
		assert.Empty(t, diags)
	})

	t.Run("residual is reported", func(t *testing.T) {
		transfers, diags := MinimizeDebts([]Balance{
			{PersonID: "a", Name: "Ana", Amount: 100},
			{PersonID: "b", Name: "Budi", Amount: -60},
		})
		require.Len(t, transfers, 1)
		assert.Equal(t, 60.0, transfers[0].Amount)
		require.Len(t, diags, 1)
		assert.Equal(t, KindUnmatchedBalance, diags[0].Kind)
		assert.Equal(t, "a", diags[0].PersonID)
		assert.Contains(t, diags[0].Detail, "40.00")
	})

	t.Run("non-finite balances are skipped", func(t *testing.T) {
		var transfers []Transfer
		var diags []Diagnostic
		require.NotPanics(t, func() {
			transfers, diags = MinimizeDebts([]Balance{
				{PersonID: "a", Name: "Ana", Amount: math.NaN()},
				{PersonID: "b", Name: "Budi", Amount: 5},
				{PersonID: "c", Name: "Citra", Amount: -5},
				{PersonID: "d", Name: "Dewi", Amount: math.Inf(-1)},
			})
		})
		assert.Equal(t, []Transfer{{From: "c", FromName: "Citra", To: "b", ToName: "Budi", Amount: 5}}, transfers)
		assert.Equal(t, []DiagnosticKind{KindInvalidAmount, KindInvalidAmount}, kinds(diags))
		assert.Equal(t, "a", diags[0].PersonID)
		assert.Equal(t, "d", diags[1].PersonID)
	})

	t.Run("cent amounts stay exact", func(t *testing.T) {
		transfers, diags := MinimizeDebts([]Balance{
			{PersonID: "a", Amount: 0.3},
			{PersonID: "b", Amount: -0.1},
			{PersonID: "c", Amount: -0.2},
		})
		assert.Empty(t, diags)
		require.Len(t, transfers, 2)
		assert.Equal(t, 0.2, transfers[0].Amount)
		assert.Equal(t, 0.1, transfers[1].Amount)
	})
}

func TestResolveBalances(t *testing.T) {
	ppl := people("A", "B", "C")
	sheet := ResolveBalances(ppl, map[string]Ledger{
		"A": {Consumption: 33.333333, AmountFronted: 100},
		"B": {Consumption: 33.333333},
		"C": {Consumption: 33.333333},
	})

	assert.Equal(t, 100.0, sheet.TotalFronted)
	assert.Equal(t, []Balance{
		{PersonID: "A", Name: "A", Amount: 66.67},
		{PersonID: "B", Name: "B", Amount: -33.33},
		{PersonID: "C", Name: "C", Amount: -33.33},
	}, sheet.Balances)
	assert.Empty(t, sheet.Diagnostics)

	unbalanced := ResolveBalances(ppl, map[string]Ledger{"A": {AmountFronted: 5}})
	assert.Equal(t, []DiagnosticKind{KindUnbalancedLedger}, kinds(unbalanced.Diagnostics))

	infinite := ResolveBalances(ppl, map[string]Ledger{"A": {AmountFronted: math.Inf(1)}, "B": {Consumption: math.NaN()}})
	assert.Equal(t, []DiagnosticKind{KindInvalidAmount, KindInvalidAmount}, kinds(infinite.Diagnostics))
	assert.Zero(t, infinite.TotalFronted)
	for _, b := range infinite.Balances {
		assert.Zero(t, b.Amount)
	}
}

// randomEvent builds people and consistent bills: custom shares always sum to
// the bill total.
func randomEvent(rng *rand.Rand, n, bills int) ([]models.Person, []models.Bill) {
	ppl := make([]models.Person, n)
	for i := range ppl {
		ppl[i] = models.Person{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Person %d", i)}
	}

	out := make([]models.Bill, 0, bills)
	for i := 0; i < bills; i++ {
		payer := ppl[rng.Intn(n)].ID
		id := fmt.Sprintf("b%d", i)
		if rng.Intn(2) == 0 {
			out = append(out, equalBill(id, payer, float64(1000+rng.Intn(200000))))
			continue
		}
		shares := make(map[string]float64)
		var total float64
		for _, p := range ppl {
			if rng.Intn(3) == 0 {
				continue
			}
			share := float64(rng.Intn(50000))
			shares[p.ID] = share
			total += share
		}
		out = append(out, customBill(id, payer, total, shares))
	}
	return ppl, out
}

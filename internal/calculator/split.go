package calculator

import (
	"fmt"
)

// PersonSplit represents the calculated split for one person
type PersonSplit struct {
	Subtotal      float64
	Tax           float64
	ServiceCharge float64
	Total         float64
}

// Item represents a single line item assigned to one or more people
type Item struct {
	Description string
	Amount      float64 // line total (quantity × unit price)
	AssignedTo  []string
}

// CalculateSplit computes how much each person owes for a custom bill,
// including proportional tax and service charge.
// Based on the algorithm: person_total = person_subtotal × (1 + (tax + service) / bill_subtotal)
func CalculateSplit(items []Item, tax, serviceCharge float64, participants []string) (map[string]*PersonSplit, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	var billSubtotal float64
	for _, item := range items {
		billSubtotal += item.Amount
	}
	if billSubtotal == 0 {
		return nil, fmt.Errorf("subtotal cannot be zero")
	}

	splits := make(map[string]*PersonSplit, len(participants))
	for _, p := range participants {
		splits[p] = &PersonSplit{}
	}

	// Split each item equally among the people it is assigned to
	for _, item := range items {
		if len(item.AssignedTo) == 0 {
			continue
		}

		perPersonAmount := item.Amount / float64(len(item.AssignedTo))
		for _, person := range item.AssignedTo {
			if split, exists := splits[person]; exists {
				split.Subtotal += perPersonAmount
			}
		}
	}

	// Apply proportional tax and service charge
	for _, split := range splits {
		split.Tax = split.Subtotal * (tax / billSubtotal)
		split.ServiceCharge = split.Subtotal * (serviceCharge / billSubtotal)
		split.Total = split.Subtotal + split.Tax + split.ServiceCharge
	}

	return splits, nil
}

// Shares flattens splits into the per-person totals stored on a custom bill.
func Shares(splits map[string]*PersonSplit) map[string]float64 {
	shares := make(map[string]float64, len(splits))
	for person, split := range splits {
		shares[person] = split.Total
	}
	return shares
}

// Package dashboard projects the profile document into a render-ready
// view-model. It is a pure function of the profile: no clock, no storage,
// no cached aggregates. The HTTP layer serializes the view-model and the
// browser client only draws it.
package dashboard

import (
	"fmt"

	"finzen/internal/core"
)

// categoryIcons maps display categories to their icon class. Unknown
// categories fall back to the receipt icon.
var categoryIcons = map[string]string{
	"Food":      "fa-utensils",
	"Transport": "fa-car",
	"Shopping":  "fa-bag-shopping",
	"Income":    "fa-wallet",
}

const defaultIcon = "fa-receipt"

type (
	// Row is one display line of the transaction list.
	Row struct {
		ID          int64  `json:"id"`
		Description string `json:"description"`
		Date        string `json:"date"`
		Category    string `json:"category"`
		Icon        string `json:"icon"`
		Amount      string `json:"amount"`
		Class       string `json:"class"`
	}

	// ChartSlice is one slice of the expense-by-category chart.
	ChartSlice struct {
		Category string  `json:"category"`
		Dollars  float64 `json:"dollars"`
	}

	ViewModel struct {
		Name         string       `json:"name"`
		Goal         string       `json:"goal"`
		Balance      string       `json:"balance"`
		TotalIncome  string       `json:"totalIncome"`
		TotalExpense string       `json:"totalExpense"`
		FixedIncome  string       `json:"fixedIncome"`
		GigIncome    string       `json:"gigIncome"`
		Chart        []ChartSlice `json:"chart"`
		Rows         []Row        `json:"rows"`
	}
)

// Build derives the dashboard view-model from a freshly loaded profile.
// Chart slices appear in first-seen transaction order so identical input
// always yields identical output.
func Build(p core.Profile) ViewModel {
	totals := core.SumTotals(p.Transactions, p.MonthlyIncome)
	split := core.SplitIncome(p.Transactions, p.MonthlyIncome)
	byCategory := core.CategoryTotals(p.Transactions)

	vm := ViewModel{
		Name:         p.Name,
		Goal:         string(p.Goal),
		Balance:      FormatDollars(p.Balance.Cents),
		TotalIncome:  "+" + FormatWholeDollars(totals.TotalIncome.Cents),
		TotalExpense: "-" + FormatWholeDollars(totals.TotalExpense.Cents),
		FixedIncome:  FormatWholeDollars(split.Fixed.Cents),
		GigIncome:    FormatWholeDollars(split.Gig.Cents),
	}

	seen := make(map[string]bool)
	for _, t := range p.Transactions {
		if t.Type != core.Expense || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		vm.Chart = append(vm.Chart, ChartSlice{
			Category: t.Category,
			Dollars:  byCategory[t.Category].Dollars(),
		})
	}

	for _, t := range p.Transactions {
		sign := "-"
		class := "exp"
		if t.Type == core.Income {
			sign = "+"
			class = "inc"
		}
		icon, ok := categoryIcons[t.Category]
		if !ok {
			icon = defaultIcon
		}
		vm.Rows = append(vm.Rows, Row{
			ID:          t.ID,
			Description: t.Description,
			Date:        t.Date.Format("Jan 2, 2006"),
			Category:    t.Category,
			Icon:        icon,
			Amount:      sign + FormatDollars(t.Amount.Cents),
			Class:       class,
		})
	}

	return vm
}

// FormatDollars renders cents as "$12.34" (or "-$12.34").
func FormatDollars(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("$%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// FormatWholeDollars renders cents as "$12", rounding half up.
func FormatWholeDollars(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	dollars := (cents + 50) / 100
	s := fmt.Sprintf("$%d", dollars)
	if neg {
		return "-" + s
	}
	return s
}

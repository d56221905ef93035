package core

// Totals holds the headline income/expense figures for the dashboard.
// TotalIncome includes the fixed monthly income baseline.
type Totals struct {
	TotalIncome  Money
	TotalExpense Money
}

// IncomeSplit separates the income total into the fixed baseline plus
// non-gig transactions, and variable gig income.
type IncomeSplit struct {
	Fixed Money
	Gig   Money
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// CategoryTotals sums expense amounts per category. Income transactions are
// ignored. An empty or all-income list yields an empty map, which the
// renderer treats as "no chart data" rather than an error.
func CategoryTotals(transactions []Transaction) map[string]Money {
	totals := make(map[string]Money)
	for _, t := range transactions {
		if t.Type != Expense {
			continue
		}
		sum := totals[t.Category]
		sum.Cents += t.Amount.Cents
		totals[t.Category] = sum
	}
	return totals
}

// SumTotals computes the income and expense totals over the transaction
// list. monthlyIncome is the fixed recurring baseline and counts toward
// TotalIncome even with no recorded transactions.
func SumTotals(transactions []Transaction, monthlyIncome Money) Totals {
	t := Totals{TotalIncome: monthlyIncome}
	for _, tx := range transactions {
		switch tx.Type {
		case Income:
			t.TotalIncome.Cents += tx.Amount.Cents
		case Expense:
			t.TotalExpense.Cents += tx.Amount.Cents
		}
	}
	return t
}

// SplitIncome divides income into fixed (baseline plus non-gig income
// transactions) and gig income. Fixed + Gig always equals
// SumTotals(...).TotalIncome for the same inputs.
func SplitIncome(transactions []Transaction, monthlyIncome Money) IncomeSplit {
	s := IncomeSplit{Fixed: monthlyIncome}
	for _, tx := range transactions {
		if tx.Type != Income {
			continue
		}
		if tx.IsGig {
			s.Gig.Cents += tx.Amount.Cents
		} else {
			s.Fixed.Cents += tx.Amount.Cents
		}
	}
	return s
}

package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	GoalSave       Goal = "save"
	GoalDebtPayoff Goal = "debt-payoff"
	GoalInvest     Goal = "invest"
)

type (
	TransactionType string

	Goal string

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          int64
		Description string
		Amount      Money
		Type        TransactionType
		Category    string
		IsGig       bool // variable/gig income; only meaningful for income
		Date        time.Time
	}

	Profile struct {
		Name          string
		MonthlyIncome Money
		Goal          Goal
		Balance       Money // signed running position, maintained incrementally
		Transactions  []Transaction
		JoinedDate    time.Time
	}
)

// ValidGoals is the closed set of goal categories offered by onboarding.
var ValidGoals = []Goal{GoalSave, GoalDebtPayoff, GoalInvest}

var (
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidIncome = errors.New("invalid monthly income")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidGoal   = errors.New("invalid goal")
	ErrEmptyDesc     = errors.New("empty description")
	ErrEmptyCategory = errors.New("empty category")
)

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (g Goal) Validate() error {
	for _, valid := range ValidGoals {
		if g == valid {
			return nil
		}
	}
	return ErrInvalidGoal
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDesc
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (p Profile) Validate() error {
	if len(strings.TrimSpace(p.Name)) == 0 {
		return ErrEmptyName
	}
	if len(p.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if p.MonthlyIncome.Cents < 0 {
		return ErrInvalidIncome
	}
	if err := p.Goal.Validate(); err != nil {
		return err
	}
	return nil
}

// Signed returns the amount with the sign implied by the transaction type.
// Income adds to the balance, expense subtracts.
func (t Transaction) Signed() int64 {
	if t.Type == Expense {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}

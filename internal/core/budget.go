package core

import "fmt"

// BudgetStatus compares consumed carbs against the daily budget
type BudgetStatus struct {
	Budget    float64 `json:"budget"`
	Consumed  float64 `json:"consumed"`
	Remaining float64 `json:"remaining"`
	Overage   float64 `json:"overage"`
	Reached   bool    `json:"reached"`
}

// NewBudgetStatus never fails; it is a plain comparison of two numbers
func NewBudgetStatus(budget, consumed float64) BudgetStatus {
	s := BudgetStatus{Budget: budget, Consumed: consumed}
	if consumed < budget {
		s.Remaining = budget - consumed
	} else {
		s.Reached = true
		s.Overage = consumed - budget
	}
	return s
}

func (s BudgetStatus) String() string {
	if !s.Reached {
		return fmt.Sprintf("Under budget: %.1f g carbs remaining (%.1f of %.1f g used)", s.Remaining, s.Consumed, s.Budget)
	}
	if s.Overage == 0 {
		return fmt.Sprintf("Budget reached: %.1f of %.1f g carbs used", s.Consumed, s.Budget)
	}
	return fmt.Sprintf("Over budget by %.1f g carbs (%.1f of %.1f g used)", s.Overage, s.Consumed, s.Budget)
}

// internal/domain/models/budget.go
package models

// BudgetItem is a reusable budget line. Expenses are matched to it by
// comparing Expense.Category with Name.
type BudgetItem struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name" validate:"required,max=100" label:"Name"`
	Description string `json:"description,omitempty" validate:"max=500" label:"Description"`
	Category    string `json:"category,omitempty"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// BudgetAllocation assigns an amount to a BudgetItem for one puja. At most
// one per (BudgetItemID, PujaID) is intended; writers look up before they
// write.
type BudgetAllocation struct {
	ID                 string  `json:"id,omitempty"`
	BudgetItemID       string  `json:"budgetItemId"`
	BudgetItemName     string  `json:"budgetItemName"`
	BudgetItemCategory string  `json:"budgetItemCategory,omitempty"`
	AllocatedAmount    float64 `json:"allocatedAmount"`
	PujaID             string  `json:"pujaId"`
	CreatedAt          string  `json:"createdAt,omitempty"`
	UpdatedAt          string  `json:"updatedAt,omitempty"`
}

// internal/domain/models/task.go
package models

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title" validate:"required,max=200" label:"Title"`
	Description string `json:"description,omitempty"`
	AssignedTo  string `json:"assignedTo,omitempty"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high" label:"Priority"`
	DueDate     string `json:"dueDate,omitempty"`
	Completed   bool   `json:"completed"`
	ClubID      string `json:"clubId,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func ValidPriority(p string) bool {
	return oneOf(p, PriorityLow, PriorityMedium, PriorityHigh)
}

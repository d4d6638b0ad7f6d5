// internal/domain/models/puja.go
package models

const (
	PujaPending   = "pending"
	PujaActive    = "active"
	PujaCompleted = "completed"
)

// Puja is one festival instance. Contributions, budget allocations and para
// collections for it live in collections suffixed with its id.
type Puja struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	ManagerID string `json:"managerId,omitempty"`
	Status    string `json:"status"`
	ClubID    string `json:"clubId,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

func ValidPujaStatus(s string) bool {
	return oneOf(s, PujaPending, PujaActive, PujaCompleted)
}

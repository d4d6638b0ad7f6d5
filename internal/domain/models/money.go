// internal/domain/models/money.go
package models

// Contribution is a member's donation towards a puja.
type Contribution struct {
	ID        string  `json:"id,omitempty"`
	MemberID  string  `json:"memberId" validate:"required" label:"Member"`
	Amount    float64 `json:"amount" validate:"gt=0" label:"Amount"`
	Notes     string  `json:"notes,omitempty"`
	PujaID    string  `json:"pujaId"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

// ParaCollection is an ad-hoc neighbourhood cash collection.
type ParaCollection struct {
	ID          string  `json:"id,omitempty"`
	Amount      float64 `json:"amount" validate:"gt=0" label:"Amount"`
	Date        string  `json:"date,omitempty"`
	CollectedBy string  `json:"collectedBy,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	PujaID      string  `json:"pujaId"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

type Expense struct {
	ID          string  `json:"id,omitempty"`
	Description string  `json:"description" validate:"required,max=200" label:"Description"`
	Amount      float64 `json:"amount" validate:"gt=0" label:"Amount"`
	Category    string  `json:"category" validate:"required" label:"Category"`
	Date        string  `json:"date,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	ClubID      string  `json:"clubId,omitempty"`
	Year        int     `json:"year,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

const (
	SponsorIndividual   = "individual"
	SponsorBusiness     = "business"
	SponsorOrganization = "organization"
)

type Sponsor struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name" validate:"required,max=100" label:"Name"`
	Type      string  `json:"type" validate:"required,oneof=individual business organization" label:"Type"`
	Amount    float64 `json:"amount" validate:"gte=0" label:"Amount"`
	Contact   string  `json:"contact,omitempty"`
	Email     string  `json:"email,omitempty" validate:"omitempty,emailaddr" label:"Email"`
	Address   string  `json:"address,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	Received  bool    `json:"received"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

func ValidSponsorType(t string) bool {
	return oneOf(t, SponsorIndividual, SponsorBusiness, SponsorOrganization)
}

type InventoryItem struct {
	ID            string  `json:"id,omitempty"`
	Name          string  `json:"name" validate:"required,max=100" label:"Name"`
	Category      string  `json:"category,omitempty"`
	Quantity      float64 `json:"quantity" validate:"gte=0" label:"Quantity"`
	Unit          string  `json:"unit,omitempty"`
	EstimatedCost float64 `json:"estimatedCost" validate:"gte=0" label:"Estimated cost"`
	Received      bool    `json:"received"`
	Notes         string  `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt,omitempty"`
	UpdatedAt     string  `json:"updatedAt,omitempty"`
}

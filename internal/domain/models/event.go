// internal/domain/models/event.go
package models

// Event is a cultural programme item (competition, performance).
type Event struct {
	ID                  string `json:"id,omitempty"`
	Name                string `json:"name" validate:"required,max=100" label:"Name"`
	Date                string `json:"date,omitempty"`
	Time                string `json:"time,omitempty"`
	Category            string `json:"category,omitempty"`
	Description         string `json:"description,omitempty"`
	ResponsibleMemberID string `json:"responsibleMemberId,omitempty"`
	Location            string `json:"location,omitempty"`
	ClubID              string `json:"clubId,omitempty"`
	CreatedAt           string `json:"createdAt,omitempty"`
	UpdatedAt           string `json:"updatedAt,omitempty"`
}

const (
	ParticipantSolo  = "solo"
	ParticipantGroup = "group"
)

type Participant struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name" validate:"required,max=100" label:"Name"`
	Role      string `json:"role" validate:"required,oneof=solo group" label:"Role"`
	EventID   string `json:"eventId" validate:"required" label:"Event"`
	Contact   string `json:"contact,omitempty"`
	Notes     string `json:"notes,omitempty"`
	ClubID    string `json:"clubId,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

func ValidParticipantRole(r string) bool {
	return oneOf(r, ParticipantSolo, ParticipantGroup)
}

const (
	PrizeCash        = "cash"
	PrizeTrophy      = "trophy"
	PrizeCertificate = "certificate"
	PrizeMedal       = "medal"
	PrizeGift        = "gift"
)

type Prize struct {
	ID          string  `json:"id,omitempty"`
	Position    string  `json:"position" validate:"required" label:"Position"`
	Type        string  `json:"type" validate:"required,oneof=cash trophy certificate medal gift" label:"Type"`
	Amount      float64 `json:"amount" validate:"gte=0" label:"Amount"`
	Description string  `json:"description,omitempty"`
	EventID     string  `json:"eventId" validate:"required" label:"Event"`
	WinnerID    string  `json:"winnerId,omitempty"`
	SponsorID   string  `json:"sponsorId,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

func ValidPrizeType(t string) bool {
	return oneOf(t, PrizeCash, PrizeTrophy, PrizeCertificate, PrizeMedal, PrizeGift)
}

// internal/domain/models/pendingmember.go
package models

// PendingMember status values. Approved and rejected are terminal.
const (
	PendingStatusPending  = "pending"
	PendingStatusApproved = "approved"
	PendingStatusRejected = "rejected"
)

// PendingMember is a self-service registration awaiting review.
type PendingMember struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Contact       string `json:"contact"`
	Password      string `json:"password,omitempty"`
	ClubID        string `json:"clubId,omitempty"`
	Status        string `json:"status"`
	RequestedAt   string `json:"requestedAt"`
	ReviewedBy    string `json:"reviewedBy,omitempty"`
	ReviewedAt    string `json:"reviewedAt,omitempty"`
	GrantedRole   string `json:"grantedRole,omitempty"`
	MemberID      string `json:"memberId,omitempty"`
	RejectionNote string `json:"rejectionNote,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

func (p PendingMember) Redacted() PendingMember {
	p.Password = ""
	return p
}

// Terminal reports whether the registration has been reviewed.
func (p PendingMember) Terminal() bool {
	return p.Status == PendingStatusApproved || p.Status == PendingStatusRejected
}
